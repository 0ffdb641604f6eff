package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/middleware"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type DisplayQuestionHandler struct {
	db *gorm.DB
}

func NewDisplayQuestionHandler(db *gorm.DB) *DisplayQuestionHandler {
	return &DisplayQuestionHandler{db: db}
}

type SubmitDisplayQuestionRequest struct {
	Content string `json:"content" binding:"required"`
}

// Submit stores one Q&A fun-fact submission.
func (h *DisplayQuestionHandler) Submit(c *gin.Context) {
	var req SubmitDisplayQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	question := model.DisplayQuestion{Content: strings.TrimSpace(req.Content)}

	if err := h.db.Create(&question).Error; err != nil {
		middleware.RecordSubmission(model.DisplayQuestion{}.TableName(), false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error submitting your fun fact."})
		return
	}
	middleware.RecordSubmission(model.DisplayQuestion{}.TableName(), true)

	c.JSON(http.StatusCreated, question)
}

// List returns submissions newest first (admin only).
func (h *DisplayQuestionHandler) List(c *gin.Context) {
	var questions []model.DisplayQuestion
	if err := h.db.Order("created_at DESC").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submissions"})
		return
	}

	c.JSON(http.StatusOK, questions)
}

// Delete removes one submission (admin only).
func (h *DisplayQuestionHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&model.DisplayQuestion{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}
