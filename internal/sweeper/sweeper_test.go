package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/partywall/api/internal/database"
	"github.com/partywall/api/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createSession(t *testing.T, db *gorm.DB, createdAt time.Time, active bool) model.Session {
	t.Helper()

	session := model.Session{
		Type:            model.SessionTypeNameRace,
		IsActive:        active,
		DurationSeconds: 60,
		HasTimer:        true,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	// Backdate after create so gorm's autoCreateTime does not overwrite it.
	if err := db.Model(&model.Session{}).Where("id = ?", session.ID).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("failed to backdate session: %v", err)
	}
	return session
}

func TestSweepRetiresStaleSessions(t *testing.T) {
	db := setupTestDB(t)

	stale := createSession(t, db, time.Now().Add(-48*time.Hour), true)
	fresh := createSession(t, db, time.Now().Add(-time.Hour), true)

	slot := model.Slot{
		SessionID: stale.ID,
		Code:      "1234",
		IsActive:  true,
	}
	slot.SetLetters([]string{"A", "B"})
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}

	s := NewSessionSweeper(db, Config{MaxAge: 24 * time.Hour})
	s.sweep()

	var reloaded model.Session
	db.First(&reloaded, "id = ?", stale.ID)
	if reloaded.IsActive {
		t.Error("stale session still active after sweep")
	}

	// Use a fresh struct: gorm adds a populated primary key on the
	// destination to the WHERE clause, which would make this query match
	// nothing if we reused `reloaded`.
	var reloadedFresh model.Session
	db.First(&reloadedFresh, "id = ?", fresh.ID)
	if !reloadedFresh.IsActive {
		t.Error("fresh session was retired")
	}

	var reloadedSlot model.Slot
	db.First(&reloadedSlot, "id = ?", slot.ID)
	if reloadedSlot.IsActive {
		t.Error("active slot of retired session was not cleared")
	}
}

func TestSweepLeavesInactiveSessionsAlone(t *testing.T) {
	db := setupTestDB(t)

	old := createSession(t, db, time.Now().Add(-72*time.Hour), false)

	s := NewSessionSweeper(db, Config{MaxAge: 24 * time.Hour})
	s.sweep()

	var reloaded model.Session
	db.First(&reloaded, "id = ?", old.ID)
	if reloaded.IsActive {
		t.Error("inactive session flipped active")
	}
}

func TestSweeperDefaults(t *testing.T) {
	s := NewSessionSweeper(nil, Config{})
	if s.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", s.interval)
	}
	if s.maxAge != 24*time.Hour {
		t.Errorf("maxAge = %v, want 24h", s.maxAge)
	}
}

func TestSweeperStop(t *testing.T) {
	db := setupTestDB(t)
	s := NewSessionSweeper(db, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	// Give Start a moment to mark itself running before stopping.
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
