package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisplayQuestion is a Q&A submission shown on the display wall. The table
// name is camel-cased for compatibility with the existing database.
type DisplayQuestion struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (DisplayQuestion) TableName() string {
	return "displayQuestions"
}

func (d *DisplayQuestion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
