package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category titles used by the built-in games. Pages look categories up by
// title, so the seeder must create these exact strings.
const (
	CategoryGraduationWishes = "Graduation Wishes"
	CategoryGuessWho         = "Guess Who"
)

type Category struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"not null;size:255;uniqueIndex" json:"title"`
	ThemeColor *string    `gorm:"size:20" json:"themeColor"`
	Type       string     `gorm:"size:50" json:"type"`
	CreatedAt  time.Time  `json:"createdAt"`
	Questions  []Question `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
