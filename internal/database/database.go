package database

import (
	"github.com/partywall/api/internal/config"
	"github.com/partywall/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Session{},
		&model.Slot{},
		&model.Category{},
		&model.Question{},
		&model.WishResponse{},
		&model.MemoryResponse{},
		&model.DisplayQuestion{},
		&model.User{},
		&model.RefreshToken{},
	)
	if err != nil {
		return err
	}

	// Codes are unique per session, and question order is a total order per
	// category. Both were convention-only before; enforce them here.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_slots_session_code ON name_race_slots(session_id, code)")
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_category_order ON questions(category_id, question_order)")

	// Create unique index for users (provider, provider_id)
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_provider_provider_id ON users(provider, provider_id)")

	return nil
}
