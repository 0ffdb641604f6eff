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

type WishHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewWishHandler(db *gorm.DB, hub *realtime.Hub) *WishHandler {
	return &WishHandler{db: db, hub: hub}
}

type SubmitWishRequest struct {
	DisplayName string `json:"displayName"`
	Advice      string `json:"advice"`
	LoveFrom    string `json:"loveFrom"`
}

// Submit appends one wish-wall entry. A submission with both free-text fields
// blank is rejected without a write.
func (h *WishHandler) Submit(c *gin.Context) {
	var req SubmitWishRequest
	c.ShouldBindJSON(&req)

	advice := strings.TrimSpace(req.Advice)
	loveFrom := strings.TrimSpace(req.LoveFrom)
	if advice == "" && loveFrom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to save"})
		return
	}

	wish := model.WishResponse{
		DisplayName: optional(req.DisplayName),
		Advice:      optional(advice),
		LoveFrom:    optional(loveFrom),
		EventKey:    model.DefaultEventKey,
	}

	if err := h.db.Create(&wish).Error; err != nil {
		middleware.RecordSubmission(model.WishResponse{}.TableName(), false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save response. Please try again."})
		return
	}
	middleware.RecordSubmission(model.WishResponse{}.TableName(), true)

	h.hub.Publish(realtime.Event{
		Table: model.WishResponse{}.TableName(),
		Type:  realtime.EventInsert,
		Row:   wish,
	})

	c.JSON(http.StatusCreated, wish)
}

// List returns the wall entries for the default event, newest first.
func (h *WishHandler) List(c *gin.Context) {
	var wishes []model.WishResponse
	err := h.db.Where("event_key = ?", model.DefaultEventKey).
		Order("created_at DESC").
		Find(&wishes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load responses"})
		return
	}

	c.JSON(http.StatusOK, wishes)
}

// Delete removes one entry (admin only).
func (h *WishHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&model.WishResponse{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}

	h.hub.Publish(realtime.Event{
		Table: model.WishResponse{}.TableName(),
		Type:  realtime.EventDelete,
		Row:   gin.H{"id": id},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Response deleted"})
}

// optional maps empty strings to NULL columns.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
