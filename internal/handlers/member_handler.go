package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guild-settlement-backend/internal/models"
	"guild-settlement-backend/internal/repository"
)

type MemberHandler struct {
	members *repository.MemberRepository
}

func NewMemberHandler(members *repository.MemberRepository) *MemberHandler {
	return &MemberHandler{members: members}
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.members.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MemberHandler) Create(c *gin.Context) {
	var payload struct {
		Name  string `json:"name" binding:"required"`
		Guild string `json:"guild" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	existing, err := h.members.FindByName(c.Request.Context(), payload.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "member already exists"})
		return
	}

	member := &models.Member{
		ID:        uuid.New(),
		Name:      payload.Name,
		Guild:     payload.Guild,
		CreatedAt: time.Now(),
	}
	if err := h.members.Create(c.Request.Context(), member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}
