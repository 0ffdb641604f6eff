package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/cache"
	"github.com/partywall/api/internal/middleware"
	"github.com/partywall/api/internal/model"
	"github.com/partywall/api/internal/race"
	"github.com/partywall/api/internal/realtime"
	"gorm.io/gorm"
)

type RaceHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
	hub   *realtime.Hub
}

func NewRaceHandler(db *gorm.DB, redisCache *cache.RedisCache, hub *realtime.Hub) *RaceHandler {
	return &RaceHandler{db: db, cache: redisCache, hub: hub}
}

type CreateNameRaceRequest struct {
	SessionID       string `json:"session_id"`
	NumberOfPlayers int    `json:"number_of_players"`
}

// CreateSlots partitions the alphabet across the requested number of players
// and persists one slot row per player, each with a 4-digit access code.
func (h *RaceHandler) CreateSlots(c *gin.Context) {
	var req CreateNameRaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || req.NumberOfPlayers == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id or number_of_players"})
		return
	}

	var session model.Session
	if err := h.db.First(&session, "id = ?", req.SessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	// A session holds one allocation batch; letters from a second batch would
	// overlap the first.
	var existing int64
	if err := h.db.Model(&model.Slot{}).Where("session_id = ?", session.ID).Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing slots"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Slots already created for this session"})
		return
	}

	allocations, err := race.Assign(req.NumberOfPlayers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots := make([]model.Slot, 0, len(allocations))
	for _, a := range allocations {
		slot := model.Slot{
			SessionID: session.ID,
			Code:      a.Code,
		}
		if err := slot.SetLetters(a.Letters); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode letters"})
			return
		}
		slots = append(slots, slot)
	}

	// One batch insert; the store's per-statement atomicity is the only
	// rollback path, and no retry is attempted.
	if err := h.db.Create(&slots).Error; err != nil {
		middleware.RecordSlotAllocation(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.RecordSlotAllocation(true)

	for _, slot := range slots {
		h.publishSlot(realtime.EventInsert, slot)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slots created", "slots": slots})
}

type EnterRequest struct {
	Code string `json:"code" binding:"required"`
}

type EnterResponse struct {
	SessionID       string   `json:"sessionId"`
	Code            string   `json:"code"`
	Letters         []string `json:"letters"`
	HasTimer        bool     `json:"hasTimer"`
	DurationSeconds int      `json:"durationSeconds"`
}

// Enter activates the slot matching the submitted code. Clearing the old
// active slot and setting the new one happen in a single transaction, so the
// session never observably has two active slots.
func (h *RaceHandler) Enter(c *gin.Context) {
	var req EnterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	session, err := activeSession(c.Request.Context(), h.db, h.cache, model.SessionTypeNameRace)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	var slot model.Slot
	if err := h.db.Where("session_id = ? AND code = ?", session.ID, req.Code).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid code. Please check and try again."})
		return
	}

	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Slot{}).
			Where("session_id = ?", session.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Slot{}).
			Where("id = ?", slot.ID).
			Updates(map[string]interface{}{"is_active": true, "started_at": now}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not activate your game slot."})
		return
	}

	slot.IsActive = true
	slot.StartedAt = &now
	h.publishSlot(realtime.EventUpdate, slot)

	c.JSON(http.StatusOK, EnterResponse{
		SessionID:       session.ID,
		Code:            slot.Code,
		Letters:         slot.Letters(),
		HasTimer:        session.HasTimer,
		DurationSeconds: session.DurationSeconds,
	})
}

type FinishRequest struct {
	Code string `json:"code" binding:"required"`
}

// Finish stamps the slot with completion time. Elapsed time is measured
// server-side from the activation timestamp; seconds are truncated and
// milliseconds kept alongside for the finer display sort.
func (h *RaceHandler) Finish(c *gin.Context) {
	var req FinishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	session, err := activeSession(c.Request.Context(), h.db, h.cache, model.SessionTypeNameRace)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	var slot model.Slot
	if err := h.db.Where("session_id = ? AND code = ?", session.ID, req.Code).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid code. Please check and try again."})
		return
	}

	if slot.CompletedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Slot already completed"})
		return
	}
	if slot.StartedAt == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Slot has not been started"})
		return
	}

	now := time.Now()
	elapsed := now.Sub(*slot.StartedAt)
	seconds := int(elapsed / time.Second)
	millis := int(elapsed / time.Millisecond)

	updates := map[string]interface{}{
		"completed_at":       now,
		"time_taken_seconds": seconds,
		"time_taken_ms":      millis,
	}
	if err := h.db.Model(&model.Slot{}).Where("id = ?", slot.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record completion"})
		return
	}
	middleware.RecordRaceCompletion()

	slot.CompletedAt = &now
	slot.TimeTakenSeconds = &seconds
	slot.TimeTakenMS = &millis
	h.publishSlot(realtime.EventUpdate, slot)

	c.JSON(http.StatusOK, slot)
}

// ActiveSlot returns the currently active slot of the active session: the
// viewer page's poll fallback before its change feed subscription is live.
func (h *RaceHandler) ActiveSlot(c *gin.Context) {
	session, err := activeSession(c.Request.Context(), h.db, h.cache, model.SessionTypeNameRace)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	var slot model.Slot
	if err := h.db.Where("session_id = ? AND is_active = ?", session.ID, true).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active slot"})
		return
	}

	c.JSON(http.StatusOK, slot)
}

// Results lists a session's slots ranked for the admin view, with the fastest
// flag computed across completed slots.
func (h *RaceHandler) Results(c *gin.Context) {
	sessionID := c.Param("id")

	var session model.Session
	if err := h.db.First(&session, "id = ?", sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var slots []model.Slot
	if err := h.db.Where("session_id = ?", sessionID).Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": race.Rank(slots)})
}

func (h *RaceHandler) publishSlot(eventType string, slot model.Slot) {
	h.hub.Publish(realtime.Event{
		Table:     model.Slot{}.TableName(),
		Type:      eventType,
		SessionID: slot.SessionID,
		Row:       slot,
	})
}
