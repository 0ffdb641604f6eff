package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/model"
	"github.com/partywall/api/internal/realtime"
	"gorm.io/gorm"
)

type PromptHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewPromptHandler(db *gorm.DB, hub *realtime.Hub) *PromptHandler {
	return &PromptHandler{db: db, hub: hub}
}

// ListCategories returns all categories, or the one matching ?title= when the
// query is present (pages look categories up by title).
func (h *PromptHandler) ListCategories(c *gin.Context) {
	title := c.Query("title")

	if title != "" {
		var category model.Category
		if err := h.db.Where("title = ?", title).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, category)
		return
	}

	var categories []model.Category
	if err := h.db.Order("title").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListByCategory returns a category's prompts in question_order.
func (h *PromptHandler) ListByCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var questions []model.Question
	err := h.db.Where("category_id = ?", categoryID).
		Order("question_order ASC").
		Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load questions"})
		return
	}

	c.JSON(http.StatusOK, questions)
}

type AddPromptRequest struct {
	CategoryID string  `json:"categoryId" binding:"required"`
	Text       string  `json:"text" binding:"required"`
	SessionID  *string `json:"sessionId"`
}

// Add appends a prompt at the end of the category's order.
func (h *PromptHandler) Add(c *gin.Context) {
	var req AddPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId and text are required"})
		return
	}

	var category model.Category
	if err := h.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	question := model.Question{
		CategoryID: req.CategoryID,
		SessionID:  req.SessionID,
		Text:       req.Text,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&model.Question{}).
			Where("category_id = ?", req.CategoryID).
			Select("COALESCE(MAX(question_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		question.QuestionOrder = maxOrder + 1
		return tx.Create(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add prompt"})
		return
	}

	h.publish(realtime.EventInsert, question)
	c.JSON(http.StatusCreated, question)
}

// Delete removes a prompt. Remaining order values keep their gaps; only
// relative order matters.
func (h *PromptHandler) Delete(c *gin.Context) {
	questionID := c.Param("id")

	var question model.Question
	if err := h.db.First(&question, "id = ?", questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		return
	}

	if err := h.db.Delete(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prompt"})
		return
	}

	h.publish(realtime.EventDelete, question)
	c.JSON(http.StatusOK, gin.H{"message": "Prompt deleted"})
}

type ReorderRequest struct {
	AID string `json:"a_id" binding:"required"`
	BID string `json:"b_id" binding:"required"`
}

var errCrossCategorySwap = errors.New("prompts belong to different categories")

// Reorder swaps the question_order values of two prompts in one transaction,
// leaving every other row untouched. This replaces the old stored-procedure
// swap and cannot introduce duplicate order values.
func (h *PromptHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a_id and b_id are required"})
		return
	}

	var a, b model.Question
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, "id = ?", req.AID).Error; err != nil {
			return err
		}
		if err := tx.First(&b, "id = ?", req.BID).Error; err != nil {
			return err
		}
		if a.CategoryID != b.CategoryID {
			return errCrossCategorySwap
		}

		aOrder, bOrder := a.QuestionOrder, b.QuestionOrder

		// Park A outside the used range first so the per-category unique
		// index on question_order never sees a duplicate mid-swap.
		if err := tx.Model(&model.Question{}).Where("id = ?", a.ID).
			Update("question_order", -1).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Question{}).Where("id = ?", b.ID).
			Update("question_order", aOrder).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Question{}).Where("id = ?", a.ID).
			Update("question_order", bOrder).Error; err != nil {
			return err
		}

		a.QuestionOrder, b.QuestionOrder = bOrder, aOrder
		return nil
	})
	if errors.Is(err, errCrossCategorySwap) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompts must belong to the same category"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reorder failed"})
		return
	}

	h.publish(realtime.EventUpdate, a)
	h.publish(realtime.EventUpdate, b)

	c.JSON(http.StatusOK, gin.H{"questions": []model.Question{a, b}})
}

func (h *PromptHandler) publish(eventType string, question model.Question) {
	h.hub.Publish(realtime.Event{
		Table:      model.Question{}.TableName(),
		Type:       eventType,
		CategoryID: question.CategoryID,
		Row:        question,
	})
}
