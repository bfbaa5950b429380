package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"guild-settlement-backend/internal/metrics"
	"guild-settlement-backend/internal/repository"
	service "guild-settlement-backend/internal/services/settlement"
)

type SettlementHandler struct {
	service *service.Service
	records *repository.SettlementRepository
	log     *zap.Logger
}

func NewSettlementHandler(svc *service.Service, records *repository.SettlementRepository, log *zap.Logger) *SettlementHandler {
	return &SettlementHandler{service: svc, records: records, log: log}
}

// RegisterValidations installs the bankaccount rule (exactly 5 ASCII
// digits) on gin's validator engine.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bankaccount", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if len(s) != 5 {
				return false
			}
			for _, ch := range s {
				if ch < '0' || ch > '9' {
					return false
				}
			}
			return true
		})
	}
}

type analyzePayload struct {
	ImageURL     string `json:"image_url" binding:"required"`
	UploaderName string `json:"uploader_name" binding:"required"`
	GuildName    string `json:"guild_name"`
	BankAccount  string `json:"bank_account" binding:"required,bankaccount"`
}

func (h *SettlementHandler) Analyze(c *gin.Context) {
	var payload analyzePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		reason := service.ReasonMissingField
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "bankaccount" {
					reason = service.ReasonInvalidBankAccount
				}
			}
		}
		metrics.RejectionsTotal.WithLabelValues(string(reason)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "reason": reason})
		return
	}

	req := service.Request{
		ImageURL:     payload.ImageURL,
		UploaderName: payload.UploaderName,
		GuildName:    payload.GuildName,
		BankAccount:  payload.BankAccount,
	}

	outcome, err := h.service.Settle(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.SettlementsTotal.WithLabelValues("accepted").Inc()
	metrics.KillsSettledTotal.Add(float64(outcome.Kills))
	metrics.PoolAccruedTotal.Add(float64(outcome.PoolAccrued))

	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}

func (h *SettlementHandler) renderError(c *gin.Context, err error) {
	metrics.SettlementsTotal.WithLabelValues("rejected").Inc()

	var serr *service.Error
	if !errors.As(err, &serr) {
		h.log.Error("settlement failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.RejectionsTotal.WithLabelValues(string(serr.Reason)).Inc()

	status := http.StatusInternalServerError
	switch serr.Class {
	case service.ClassInput:
		status = http.StatusBadRequest
	case service.ClassEvidence:
		status = http.StatusUnprocessableEntity
	case service.ClassUpstream:
		status = http.StatusBadGateway
	case service.ClassPersistence:
		h.log.Error("settlement persistence failed", zap.Error(serr))
	}

	c.JSON(status, gin.H{"error": serr.Message, "reason": serr.Reason})
}

func (h *SettlementHandler) ListRecords(c *gin.Context) {
	uploader := c.Query("uploader")
	cursor := c.Query("cursor")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	recs, nextCursor, hasMore, err := h.records.List(c.Request.Context(), uploader, cursor, limit)
	if err != nil {
		h.log.Error("listing settlement records failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":     recs,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}
