package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Slot is one player's allocation within a name-race session: a 4-digit
// access code, the contiguous letter run assigned to the player, and the
// completion/timing data written once when the player finishes.
type Slot struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        string         `gorm:"type:uuid;not null;index" json:"sessionId"`
	Code             string         `gorm:"not null;size:4" json:"code"`
	AssignedLetters  datatypes.JSON `json:"assignedLetters"`
	IsActive         bool           `gorm:"not null;default:false" json:"isActive"`
	StartedAt        *time.Time     `json:"startedAt,omitempty"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	TimeTakenSeconds *int           `json:"timeTakenSeconds,omitempty"`
	TimeTakenMS      *int           `json:"timeTakenMs,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (Slot) TableName() string {
	return "name_race_slots"
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Letters decodes the assigned-letters column.
func (s *Slot) Letters() []string {
	var letters []string
	if err := json.Unmarshal(s.AssignedLetters, &letters); err != nil {
		return nil
	}
	return letters
}

// SetLetters encodes letters into the assigned-letters column.
func (s *Slot) SetLetters(letters []string) error {
	raw, err := json.Marshal(letters)
	if err != nil {
		return err
	}
	s.AssignedLetters = datatypes.JSON(raw)
	return nil
}
