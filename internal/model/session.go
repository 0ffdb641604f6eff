package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session type constants
const (
	SessionTypeNameRace = "name_race"
)

type Session struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	IsActive        bool      `gorm:"not null;default:false;index" json:"isActive"`
	Type            string    `gorm:"not null;size:50;index" json:"type"`
	DurationSeconds int       `gorm:"not null;default:60" json:"durationSeconds"`
	HasTimer        bool      `gorm:"not null;default:true" json:"hasTimer"`
	CategoryID      *string   `gorm:"type:uuid" json:"categoryId"`
	Slots           []Slot    `gorm:"foreignKey:SessionID" json:"slots,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate assigns IDs in Go rather than relying on a database default,
// so rows behave the same under postgres and the sqlite test dialect.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
