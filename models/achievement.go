package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author type tags derived from the raw first/corresponding flags.
const (
	AuthorFirst           = "first"
	AuthorCoFirst         = "co_first"
	AuthorCorresponding   = "corresponding"
	AuthorCoCorresponding = "co_corresponding"
	AuthorOther           = "other"
)

// PrimaryAuthorTypes are the roles counted as "primary contributor" for
// journal and conference papers. Other categories use author_order = 1.
var PrimaryAuthorTypes = []string{
	AuthorFirst,
	AuthorCoFirst,
	AuthorCorresponding,
	AuthorCoCorresponding,
}

// Achievement is the aggregate root. Authors and the category-specific detail
// row are loaded and written by the service layer, not by gorm associations,
// so the write path stays an explicit ordered transaction.
type Achievement struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	Title        string    `gorm:"column:title" json:"title"`
	Category     Category  `gorm:"column:category;index" json:"category"`
	Abstract     *string   `gorm:"column:abstract" json:"abstract,omitempty"`
	Keywords     *string   `gorm:"column:keywords" json:"keywords,omitempty"`
	DOI          *string   `gorm:"column:doi" json:"doi,omitempty"`
	FullTextLink *string   `gorm:"column:full_text_link" json:"full_text_link,omitempty"`
	FundingInfo  *string   `gorm:"column:funding_info" json:"funding_info,omitempty"`
	Notes        *string   `gorm:"column:notes" json:"notes,omitempty"`
	UserID       string    `gorm:"column:user_id;index" json:"user_id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Authors []AchievementAuthor `gorm:"-" json:"achievement_authors,omitempty"`

	JournalPaper       *JournalPaper       `gorm:"-" json:"journal_paper,omitempty"`
	ConferencePaper    *ConferencePaper    `gorm:"-" json:"conference_paper,omitempty"`
	Book               *Book               `gorm:"-" json:"book,omitempty"`
	Patent             *Patent             `gorm:"-" json:"patent,omitempty"`
	ConferenceReport   *ConferenceReport   `gorm:"-" json:"conference_report,omitempty"`
	Standard           *Standard           `gorm:"-" json:"standard,omitempty"`
	SoftwareCopyright  *SoftwareCopyright  `gorm:"-" json:"software_copyright,omitempty"`
	ResearchAward      *ResearchAward      `gorm:"-" json:"research_award,omitempty"`
	TalentTraining     *TalentTraining     `gorm:"-" json:"talent_training,omitempty"`
	AcademicConference *AcademicConference `gorm:"-" json:"academic_conference,omitempty"`
	TechTransfer       *TechTransfer       `gorm:"-" json:"tech_transfer,omitempty"`
	OtherResearch      *OtherResearch      `gorm:"-" json:"other_research,omitempty"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AchievementAuthor belongs to exactly one achievement. The name is the
// display and statistics key; UserID is an optional explicit link kept so a
// renamed user does not lose past authorship.
type AchievementAuthor struct {
	ID            string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID string  `gorm:"column:achievement_id;index" json:"achievement_id"`
	UserID        *string `gorm:"column:user_id" json:"user_id,omitempty"`
	AuthorName    string  `gorm:"column:author_name;index" json:"author_name"`
	AuthorOrder   int     `gorm:"column:author_order" json:"author_order"`
	AuthorType    string  `gorm:"column:author_type" json:"author_type"`
}

func (AchievementAuthor) TableName() string {
	return "achievement_authors"
}

func (a *AchievementAuthor) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AllModels lists every table for auto-migration (used by the API when
// AUTO_MIGRATE=true and by the test suites).
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&PasswordResetToken{},
		&Achievement{},
		&AchievementAuthor{},
		&JournalPaper{},
		&ConferencePaper{},
		&Book{},
		&Patent{},
		&ConferenceReport{},
		&Standard{},
		&SoftwareCopyright{},
		&ResearchAward{},
		&TalentTraining{},
		&AcademicConference{},
		&TechTransfer{},
		&OtherResearch{},
	}
}
