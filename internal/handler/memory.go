package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/middleware"
	"github.com/partywall/api/internal/model"
	"github.com/partywall/api/internal/realtime"
	"gorm.io/gorm"
)

type MemoryHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewMemoryHandler(db *gorm.DB, hub *realtime.Hub) *MemoryHandler {
	return &MemoryHandler{db: db, hub: hub}
}

type SubmitMemoryRequest struct {
	DisplayName string `json:"displayName"`
	Memory      string `json:"memory"`
	LoveFrom    string `json:"loveFrom"`
}

// Submit appends one guess-who wall entry under the same blank-rejection rule
// as the wish wall.
func (h *MemoryHandler) Submit(c *gin.Context) {
	var req SubmitMemoryRequest
	c.ShouldBindJSON(&req)

	memory := strings.TrimSpace(req.Memory)
	loveFrom := strings.TrimSpace(req.LoveFrom)
	if memory == "" && loveFrom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to save"})
		return
	}

	entry := model.MemoryResponse{
		DisplayName: optional(req.DisplayName),
		Memory:      optional(memory),
		LoveFrom:    optional(loveFrom),
		EventKey:    model.DefaultEventKey,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		middleware.RecordSubmission(model.MemoryResponse{}.TableName(), false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save memory. Please try again."})
		return
	}
	middleware.RecordSubmission(model.MemoryResponse{}.TableName(), true)

	h.hub.Publish(realtime.Event{
		Table: model.MemoryResponse{}.TableName(),
		Type:  realtime.EventInsert,
		Row:   entry,
	})

	c.JSON(http.StatusCreated, entry)
}

// List returns the wall, newest first.
func (h *MemoryHandler) List(c *gin.Context) {
	var entries []model.MemoryResponse
	err := h.db.Where("event_key = ?", model.DefaultEventKey).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load memories"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Delete removes one entry (admin only).
func (h *MemoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&model.MemoryResponse{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memory not found"})
		return
	}

	h.hub.Publish(realtime.Event{
		Table: model.MemoryResponse{}.TableName(),
		Type:  realtime.EventDelete,
		Row:   gin.H{"id": id},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Memory deleted"})
}
