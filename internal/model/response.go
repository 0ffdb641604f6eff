package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultEventKey partitions responses per event. Only one event is hosted at
// a time, so every write uses this key.
const DefaultEventKey = "default"

// WishResponse is one wish-wall entry. Append-only; deleted individually by
// an admin.
type WishResponse struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	DisplayName *string   `gorm:"size:255" json:"displayName"`
	Advice      *string   `gorm:"type:text" json:"advice"`
	LoveFrom    *string   `gorm:"size:255" json:"loveFrom"`
	EventKey    string    `gorm:"not null;size:50;index;default:'default'" json:"eventKey"`
}

func (WishResponse) TableName() string {
	return "graduation_wish_responses"
}

func (w *WishResponse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// MemoryResponse is one guess-who wall entry.
type MemoryResponse struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	DisplayName *string   `gorm:"size:255" json:"displayName"`
	Memory      *string   `gorm:"type:text" json:"memory"`
	LoveFrom    *string   `gorm:"size:255" json:"loveFrom"`
	EventKey    string    `gorm:"not null;size:50;index;default:'default'" json:"eventKey"`
}

func (MemoryResponse) TableName() string {
	return "guess_who_responses"
}

func (m *MemoryResponse) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
