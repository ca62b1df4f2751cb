package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"research-achievement-api/models"
)

// newTestDB opens an in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }

// journalInput builds a minimal valid journal-paper input owned by userID.
func journalInput(title, userID string, authors ...AuthorInput) AchievementInput {
	if len(authors) == 0 {
		authors = []AuthorInput{{Name: "张三", Order: 1, IsFirst: true}}
	}
	return AchievementInput{
		Title:    title,
		Category: models.CategoryJournalPaper,
		UserID:   userID,
		Authors:  authors,
		Detail: &models.JournalPaper{
			JournalName:  "Nature Communications",
			PublishDate:  strptr("2024-03-15"),
			JournalLevel: strptr("1区"),
		},
	}
}
