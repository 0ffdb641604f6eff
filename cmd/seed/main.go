// Seeds the game categories and their default prompts. Safe to run more than
// once: existing categories and prompt texts are skipped.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/partywall/api/internal/config"
	"github.com/partywall/api/internal/database"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

type seedCategory struct {
	title      string
	themeColor string
	catType    string
	prompts    []string
}

var defaults = []seedCategory{
	{
		title:      model.CategoryGraduationWishes,
		themeColor: "#ffe066",
		catType:    "wish_wall",
		prompts: []string{
			"What advice would you give the celebrant?",
			"Share your favorite wish for the years ahead.",
			"What is one thing you hope never changes?",
		},
	},
	{
		title:      model.CategoryGuessWho,
		themeColor: "#008080",
		catType:    "memory_wall",
		prompts: []string{
			"Write one funny memory you have with the celebrant.",
		},
	},
}

func main() {
	extraPrompts := flag.String("prompts", "", "Comma-separated extra prompts for the wish wall category")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seeds := defaults
	if *extraPrompts != "" {
		for _, p := range strings.Split(*extraPrompts, ",") {
			if p = strings.TrimSpace(p); p != "" {
				seeds[0].prompts = append(seeds[0].prompts, p)
			}
		}
	}

	totalCreated := 0
	totalSkipped := 0

	for _, seed := range seeds {
		created, skipped, err := seedOne(db, seed)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", seed.title, err)
		}
		totalCreated += created
		totalSkipped += skipped
	}

	log.Printf("Seeding complete: %d prompts created, %d skipped", totalCreated, totalSkipped)
}

func seedOne(db *gorm.DB, seed seedCategory) (created, skipped int, err error) {
	var category model.Category
	result := db.Where("title = ?", seed.title).First(&category)
	if result.Error == gorm.ErrRecordNotFound {
		themeColor := seed.themeColor
		category = model.Category{
			Title:      seed.title,
			ThemeColor: &themeColor,
			Type:       seed.catType,
		}
		if err := db.Create(&category).Error; err != nil {
			return 0, 0, err
		}
		log.Printf("Created category %q", seed.title)
	} else if result.Error != nil {
		return 0, 0, result.Error
	}

	var maxOrder int
	db.Model(&model.Question{}).
		Where("category_id = ?", category.ID).
		Select("COALESCE(MAX(question_order), 0)").
		Scan(&maxOrder)

	for _, text := range seed.prompts {
		var count int64
		db.Model(&model.Question{}).
			Where("category_id = ? AND text = ?", category.ID, text).
			Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		maxOrder++
		question := model.Question{
			CategoryID:    category.ID,
			Text:          text,
			QuestionOrder: maxOrder,
		}
		if err := db.Create(&question).Error; err != nil {
			return created, skipped, err
		}
		created++
	}

	return created, skipped, nil
}
