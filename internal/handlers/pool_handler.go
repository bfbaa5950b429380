package handler

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guild-settlement-backend/internal/models"
	"guild-settlement-backend/internal/repository"
	service "guild-settlement-backend/internal/services/settlement"
)

type PoolHandler struct {
	pools *repository.PoolRepository
	loc   *time.Location
}

func NewPoolHandler(pools *repository.PoolRepository, loc *time.Location) *PoolHandler {
	return &PoolHandler{pools: pools, loc: loc}
}

func (h *PoolHandler) monthKey(c *gin.Context) string {
	if m := c.Query("month"); m != "" {
		return m
	}
	return service.MonthKey(time.Now().In(h.loc))
}

func (h *PoolHandler) Status(c *gin.Context) {
	month := h.monthKey(c)

	pool, err := h.pools.Get(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pool == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"month":        month,
			"total_amount": 0,
			"contributors": []models.PoolContribution{},
		})
		return
	}

	contribs, err := h.pools.Contributions(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"month":        month,
		"total_amount": pool.TotalAmount,
		"contributors": contribs,
	})
}

// Draw picks the month's winner, weighted by ticket count, and records the
// result. Re-drawing overwrites the previous result for that month.
func (h *PoolHandler) Draw(c *gin.Context) {
	month := h.monthKey(c)

	pool, err := h.pools.Get(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pool == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pool data for " + month})
		return
	}

	contribs, err := h.pools.Contributions(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	winner := drawWinner(contribs)
	if winner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no contributors for " + month})
		return
	}

	draw := &models.PoolDraw{
		Month:   month,
		Winner:  winner,
		Amount:  pool.TotalAmount,
		DrawnAt: time.Now().In(h.loc),
	}
	if err := h.pools.SaveDraw(c.Request.Context(), draw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"month":   month,
		"winner":  draw.Winner,
		"amount":  draw.Amount,
		"time":    draw.DrawnAt,
	})
}

// drawWinner samples one contributor, each weighted by accumulated tickets.
func drawWinner(contribs []models.PoolContribution) string {
	total := 0
	for _, c := range contribs {
		if c.Tickets > 0 {
			total += c.Tickets
		}
	}
	if total == 0 {
		return ""
	}
	n := rand.IntN(total)
	for _, c := range contribs {
		if c.Tickets <= 0 {
			continue
		}
		if n < c.Tickets {
			return c.PlayerName
		}
		n -= c.Tickets
	}
	return ""
}

func (h *PoolHandler) History(c *gin.Context) {
	draws, err := h.pools.ListDraws(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": draws})
}

func (h *PoolHandler) Winner(c *gin.Context) {
	month := h.monthKey(c)

	draw, err := h.pools.GetDraw(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if draw == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "month": month, "winner": "", "message": "no draw yet for this month"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "month": month, "winner": draw.Winner, "time": draw.DrawnAt})
}
