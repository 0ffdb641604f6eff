package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type DashboardStats struct {
	TotalWishes           int64            `json:"totalWishes"`
	TotalMemories         int64            `json:"totalMemories"`
	TotalDisplayQuestions int64            `json:"totalDisplayQuestions"`
	TotalSessions         int64            `json:"totalSessions"`
	ActiveSessions        int64            `json:"activeSessions"`
	TotalSlots            int64            `json:"totalSlots"`
	CompletedSlots        int64            `json:"completedSlots"`
	PromptsByCategory     map[string]int64 `json:"promptsByCategory"`
}

// GetStats returns dashboard statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	var stats DashboardStats

	h.db.Model(&model.WishResponse{}).Count(&stats.TotalWishes)
	h.db.Model(&model.MemoryResponse{}).Count(&stats.TotalMemories)
	h.db.Model(&model.DisplayQuestion{}).Count(&stats.TotalDisplayQuestions)

	h.db.Model(&model.Session{}).Count(&stats.TotalSessions)
	h.db.Model(&model.Session{}).Where("is_active = ?", true).Count(&stats.ActiveSessions)

	h.db.Model(&model.Slot{}).Count(&stats.TotalSlots)
	h.db.Model(&model.Slot{}).Where("completed_at IS NOT NULL").Count(&stats.CompletedSlots)

	stats.PromptsByCategory = make(map[string]int64)
	type CategoryCount struct {
		Title string
		Count int64
	}
	var categoryCounts []CategoryCount
	h.db.Model(&model.Question{}).
		Select("categories.title, count(*) as count").
		Joins("JOIN categories ON categories.id = questions.category_id").
		Group("categories.title").
		Scan(&categoryCounts)
	for _, cc := range categoryCounts {
		stats.PromptsByCategory[cc.Title] = cc.Count
	}

	c.JSON(http.StatusOK, stats)
}
