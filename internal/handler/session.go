package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/cache"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type SessionHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewSessionHandler(db *gorm.DB, redisCache *cache.RedisCache) *SessionHandler {
	return &SessionHandler{db: db, cache: redisCache}
}

type CreateSessionRequest struct {
	Type            string  `json:"type"`
	DurationSeconds int     `json:"durationSeconds"`
	HasTimer        *bool   `json:"hasTimer"`
	CategoryID      *string `json:"categoryId"`
}

// Create starts a new session and deactivates any prior active session of the
// same type in the same transaction, so at most one is active per game type.
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	c.ShouldBindJSON(&req)

	if req.Type == "" {
		req.Type = model.SessionTypeNameRace
	}
	if req.DurationSeconds <= 0 {
		req.DurationSeconds = 60
	}
	hasTimer := true
	if req.HasTimer != nil {
		hasTimer = *req.HasTimer
	}

	session := model.Session{
		IsActive:        true,
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
		HasTimer:        hasTimer,
		CategoryID:      req.CategoryID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Session{}).
			Where("type = ? AND is_active = ?", req.Type, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	h.invalidateActiveSession(c.Request.Context(), req.Type)

	c.JSON(http.StatusCreated, session)
}

// List returns all sessions, newest first.
func (h *SessionHandler) List(c *gin.Context) {
	var sessions []model.Session
	if err := h.db.Order("created_at DESC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// Get returns one session with its slots.
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID := c.Param("id")

	var session model.Session
	if err := h.db.Preload("Slots").First(&session, "id = ?", sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Active returns the newest active session of the requested type (default
// name_race). This is the lookup every player/viewer page starts with.
func (h *SessionHandler) Active(c *gin.Context) {
	sessionType := c.DefaultQuery("type", model.SessionTypeNameRace)

	session, err := h.activeSession(c.Request.Context(), sessionType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) activeSession(ctx context.Context, sessionType string) (*model.Session, error) {
	return activeSession(ctx, h.db, h.cache, sessionType)
}

func (h *SessionHandler) invalidateActiveSession(ctx context.Context, sessionType string) {
	if h.cache != nil {
		_ = h.cache.Delete(ctx, cache.ActiveSessionKey(sessionType))
	}
}

// Short TTL bounds staleness against writers that bypass the handlers, like
// the background sweeper.
const activeSessionTTL = 30 * time.Second

// activeSession resolves the newest active session per type, through the
// redis cache when available (fail-open: cache errors fall back to the DB).
func activeSession(ctx context.Context, db *gorm.DB, rc *cache.RedisCache, sessionType string) (*model.Session, error) {
	key := cache.ActiveSessionKey(sessionType)

	if rc != nil {
		if raw, err := rc.Get(ctx, key); err == nil {
			var session model.Session
			if err := json.Unmarshal(raw, &session); err == nil {
				return &session, nil
			}
		}
	}

	var session model.Session
	err := db.Where("type = ? AND is_active = ?", sessionType, true).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}

	if rc != nil {
		if raw, err := json.Marshal(session); err == nil {
			_ = rc.Set(ctx, key, raw, activeSessionTTL)
		}
	}

	return &session, nil
}
