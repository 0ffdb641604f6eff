// Package sweeper retires stale sessions in the background. Admins rarely
// deactivate a round by hand once the party moves on, so sessions older than
// the retention window are deactivated and their active slot cleared.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type SessionSweeper struct {
	db       *gorm.DB
	interval time.Duration
	maxAge   time.Duration
	running  bool
	mu       sync.Mutex
	stopChan chan struct{}
}

type Config struct {
	Interval time.Duration
	MaxAge   time.Duration
}

func NewSessionSweeper(db *gorm.DB, cfg Config) *SessionSweeper {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 24 * time.Hour
	}

	return &SessionSweeper{
		db:       db,
		interval: cfg.Interval,
		maxAge:   cfg.MaxAge,
		stopChan: make(chan struct{}),
	}
}

func (s *SessionSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Sweeper] Starting with interval %v, max session age %v", s.interval, s.maxAge)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sweeper] Context cancelled, stopping")
			return
		case <-s.stopChan:
			log.Println("[Sweeper] Stop signal received")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SessionSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Sweeper] Stopped")
	}
}

func (s *SessionSweeper) sweep() {
	cutoff := time.Now().Add(-s.maxAge)

	var stale []model.Session
	err := s.db.Where("is_active = ? AND created_at < ?", true, cutoff).Find(&stale).Error
	if err != nil {
		log.Printf("[Sweeper] Failed to query stale sessions: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, session := range stale {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.Session{}).
				Where("id = ?", session.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			return tx.Model(&model.Slot{}).
				Where("session_id = ? AND is_active = ?", session.ID, true).
				Update("is_active", false).Error
		})
		if err != nil {
			log.Printf("[Sweeper] Failed to retire session %s: %v", session.ID, err)
			continue
		}
		log.Printf("[Sweeper] Retired stale session %s (created %s)", session.ID, session.CreatedAt.Format(time.RFC3339))
	}
}
