package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is an ordered prompt belonging to a category. QuestionOrder values
// are distinct within a category and define the display order.
type Question struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID    string    `gorm:"type:uuid;not null;index" json:"categoryId"`
	SessionID     *string   `gorm:"type:uuid" json:"sessionId"`
	Text          string    `gorm:"not null;type:text" json:"text"`
	QuestionOrder int       `gorm:"not null" json:"questionOrder"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
