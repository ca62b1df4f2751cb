package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"research-achievement-api/config"
	"research-achievement-api/models"
)

var (
	ErrUnknownCategory   = errors.New("unknown achievement category")
	ErrCategoryImmutable = errors.New("category cannot be changed after creation")
	ErrMissingDetail     = errors.New("missing category detail payload")
	ErrNoAuthors         = errors.New("at least one author is required")
)

// ValidationError marks input the client can fix, as opposed to storage
// failures.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// AchievementService owns the achievement aggregate: the base row, its author
// rows and its one category-detail row. All multi-row writes run inside a
// single transaction.
type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	if db == nil {
		db = config.DB
	}
	return &AchievementService{db: db}
}

// AchievementInput is the validated form payload for create and update.
type AchievementInput struct {
	Title        string
	Category     models.Category
	Abstract     *string
	Keywords     *string
	DOI          *string
	FullTextLink *string
	FundingInfo  *string
	Notes        *string
	UserID       string
	Authors      []AuthorInput
	Detail       models.CategoryDetail
}

func (in *AchievementInput) validate() (models.CategoryConfig, error) {
	cfg, ok := models.CategoryConfigFor(in.Category)
	if !ok {
		return cfg, ErrUnknownCategory
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return cfg, invalidf("title is required")
	}
	if len(in.Authors) == 0 {
		return cfg, ErrNoAuthors
	}
	for i := range in.Authors {
		if strings.TrimSpace(in.Authors[i].Name) == "" {
			return cfg, invalidf("author %d: name is required", i+1)
		}
		if in.Authors[i].Order <= 0 {
			in.Authors[i].Order = i + 1
		}
	}
	if in.Detail == nil {
		return cfg, ErrMissingDetail
	}
	if err := in.Detail.Normalize(); err != nil {
		return cfg, &ValidationError{msg: err.Error()}
	}
	if err := in.Detail.Validate(); err != nil {
		return cfg, &ValidationError{msg: err.Error()}
	}
	return cfg, nil
}

// Create writes the base row, the author rows and the detail row atomically.
func (s *AchievementService) Create(in AchievementInput) (*models.Achievement, error) {
	cfg, err := in.validate()
	if err != nil {
		return nil, err
	}

	achievement := &models.Achievement{
		Title:        in.Title,
		Category:     in.Category,
		Abstract:     in.Abstract,
		Keywords:     in.Keywords,
		DOI:          in.DOI,
		FullTextLink: in.FullTextLink,
		FundingInfo:  in.FundingInfo,
		Notes:        in.Notes,
		UserID:       in.UserID,
	}
	authors := ClassifyAuthors(in.Category, in.Authors)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(achievement).Error; err != nil {
			return err
		}
		for i := range authors {
			authors[i].AchievementID = achievement.ID
			if err := tx.Create(&authors[i]).Error; err != nil {
				return err
			}
		}
		in.Detail.SetAchievementID(achievement.ID)
		if err := tx.Create(in.Detail).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	achievement.Authors = authors
	cfg.SetDetail(achievement, in.Detail)
	return achievement, nil
}

// Update rewrites the base fields, replaces the author set wholesale and
// upserts the detail row in place. The category is immutable.
func (s *AchievementService) Update(id string, in AchievementInput) (*models.Achievement, error) {
	var existing models.Achievement
	if err := s.db.Where("id = ?", id).First(&existing).Error; err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = existing.Category
	}
	if in.Category != existing.Category {
		return nil, ErrCategoryImmutable
	}

	if _, err := in.validate(); err != nil {
		return nil, err
	}

	authors := ClassifyAuthors(in.Category, in.Authors)
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":          in.Title,
			"abstract":       in.Abstract,
			"keywords":       in.Keywords,
			"doi":            in.DOI,
			"full_text_link": in.FullTextLink,
			"funding_info":   in.FundingInfo,
			"notes":          in.Notes,
			"updated_at":     now,
		}
		if err := tx.Model(&models.Achievement{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		// Authors are replaced wholesale, never patched individually
		if err := tx.Where("achievement_id = ?", id).Delete(&models.AchievementAuthor{}).Error; err != nil {
			return err
		}
		for i := range authors {
			authors[i].AchievementID = id
			if err := tx.Create(&authors[i]).Error; err != nil {
				return err
			}
		}

		in.Detail.SetAchievementID(id)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "achievement_id"}},
			UpdateAll: true,
		}).Create(in.Detail).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes the achievement, its author rows and its detail row in one
// transaction, so no orphans remain queryable.
func (s *AchievementService) Delete(id string) error {
	var achievement models.Achievement
	if err := s.db.Where("id = ?", id).First(&achievement).Error; err != nil {
		return err
	}
	cfg, ok := models.CategoryConfigFor(achievement.Category)
	if !ok {
		return ErrUnknownCategory
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", id).Delete(&models.AchievementAuthor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("achievement_id = ?", id).Delete(cfg.New()).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Achievement{}).Error
	})
}

// Get loads one achievement with its ordered author list and detail record.
func (s *AchievementService) Get(id string) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := s.db.Where("id = ?", id).First(&achievement).Error; err != nil {
		return nil, err
	}
	if err := attachRelations(s.db, &achievement); err != nil {
		return nil, err
	}
	return &achievement, nil
}

// AuthorNames returns the distinct author names across all achievements,
// sorted for the filter dropdown.
func (s *AchievementService) AuthorNames() ([]string, error) {
	var names []string
	err := s.db.Model(&models.AchievementAuthor{}).
		Distinct().
		Order("author_name").
		Pluck("author_name", &names).Error
	return names, err
}

// attachRelations reassembles the denormalized record: authors ordered by
// author_order plus the one category-detail row.
func attachRelations(db *gorm.DB, a *models.Achievement) error {
	if err := db.Where("achievement_id = ?", a.ID).
		Order("author_order").
		Find(&a.Authors).Error; err != nil {
		return err
	}

	cfg, ok := models.CategoryConfigFor(a.Category)
	if !ok {
		return nil
	}
	detail := cfg.New()
	err := db.Where("achievement_id = ?", a.ID).First(detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	cfg.SetDetail(a, detail)
	return nil
}
