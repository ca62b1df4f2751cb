package services

import (
	"time"

	"gorm.io/gorm"

	"research-achievement-api/config"
	"research-achievement-api/models"
)

// StatisticsService computes sitewide and per-user tallies. Per-user linkage
// goes through author-name matching, same as the list filter.
type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	if db == nil {
		db = config.DB
	}
	return &StatisticsService{db: db}
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type SiteStatistics struct {
	TotalAchievements int64                     `json:"total_achievements"`
	UserAchievements  int64                     `json:"user_achievements"`
	CategoryStats     map[models.Category]int64 `json:"category_stats"`
	MonthlyStats      []MonthCount              `json:"monthly_stats"`
}

type UserStatistics struct {
	TotalCount         int64                     `json:"total_count"`
	CategoryStats      map[models.Category]int64 `json:"category_stats"`
	RecentAchievements []models.Achievement      `json:"recent_achievements"`
	MonthlyTrend       []MonthCount              `json:"monthly_trend"`
}

// Overall tallies the whole corpus: total, per-category counts and the last
// twelve creation-month buckets, zero-filled. userID, when set, additionally
// counts rows owned by that user.
func (s *StatisticsService) Overall(userID string) (*SiteStatistics, error) {
	stats := &SiteStatistics{
		CategoryStats: zeroCategoryStats(),
		MonthlyStats:  []MonthCount{},
	}

	if err := s.db.Model(&models.Achievement{}).Count(&stats.TotalAchievements).Error; err != nil {
		return nil, err
	}

	if userID != "" {
		if err := s.db.Model(&models.Achievement{}).
			Where("user_id = ?", userID).
			Count(&stats.UserAchievements).Error; err != nil {
			return nil, err
		}
	}

	if err := s.fillCategoryStats(stats.CategoryStats, nil); err != nil {
		return nil, err
	}

	var createdAt []time.Time
	if err := s.db.Model(&models.Achievement{}).
		Where("created_at >= ?", monthWindowStart(time.Now(), 12)).
		Pluck("created_at", &createdAt).Error; err != nil {
		return nil, err
	}
	stats.MonthlyStats = bucketByMonth(createdAt, 12)

	return stats, nil
}

// ForUser tallies achievements the named user participated in as an author.
// With primaryOnly set, paper categories count primary roles and every other
// category counts author_order = 1, per the two-branch rule.
func (s *StatisticsService) ForUser(userID string, primaryOnly bool) (*UserStatistics, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	ids, err := s.resolveUserAchievementIDs(user.Name, primaryOnly)
	if err != nil {
		return nil, err
	}

	stats := &UserStatistics{
		TotalCount:         int64(len(ids)),
		CategoryStats:      zeroCategoryStats(),
		RecentAchievements: []models.Achievement{},
	}

	if len(ids) == 0 {
		stats.MonthlyTrend = bucketByMonth(nil, 6)
		return stats, nil
	}

	if err := s.fillCategoryStats(stats.CategoryStats, ids); err != nil {
		return nil, err
	}

	var recent []models.Achievement
	if err := s.db.Where("id IN ?", ids).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	for i := range recent {
		if err := attachRelations(s.db, &recent[i]); err != nil {
			return nil, err
		}
	}
	stats.RecentAchievements = recent

	// Trend buckets cover every matched achievement, not just the recent five
	var createdAt []time.Time
	if err := s.db.Model(&models.Achievement{}).
		Where("id IN ?", ids).
		Pluck("created_at", &createdAt).Error; err != nil {
		return nil, err
	}
	stats.MonthlyTrend = bucketByMonth(createdAt, 6)

	return stats, nil
}

func (s *StatisticsService) resolveUserAchievementIDs(authorName string, primaryOnly bool) ([]string, error) {
	if !primaryOnly {
		var ids []string
		err := s.db.Model(&models.AchievementAuthor{}).
			Where("author_name = ?", authorName).
			Distinct().
			Pluck("achievement_id", &ids).Error
		return ids, err
	}

	// Paper categories: first or corresponding roles
	var paperIDs []string
	if err := s.db.Model(&models.AchievementAuthor{}).
		Joins("JOIN achievements ON achievements.id = achievement_authors.achievement_id").
		Where("achievement_authors.author_name = ?", authorName).
		Where("achievement_authors.author_type IN ?", models.PrimaryAuthorTypes).
		Where("achievements.category IN ?", models.PaperCategories).
		Distinct().
		Pluck("achievement_authors.achievement_id", &paperIDs).Error; err != nil {
		return nil, err
	}

	// Every other category: first-ranked author
	var otherIDs []string
	if err := s.db.Model(&models.AchievementAuthor{}).
		Joins("JOIN achievements ON achievements.id = achievement_authors.achievement_id").
		Where("achievement_authors.author_name = ?", authorName).
		Where("achievement_authors.author_order = ?", 1).
		Where("achievements.category NOT IN ?", models.PaperCategories).
		Distinct().
		Pluck("achievement_authors.achievement_id", &otherIDs).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(paperIDs)+len(otherIDs))
	ids := make([]string, 0, len(paperIDs)+len(otherIDs))
	for _, id := range append(paperIDs, otherIDs...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *StatisticsService) fillCategoryStats(dst map[models.Category]int64, ids []string) error {
	type row struct {
		Category models.Category
		Count    int64
	}
	q := s.db.Model(&models.Achievement{}).
		Select("category, COUNT(*) AS count").
		Group("category")
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		dst[r.Category] = r.Count
	}
	return nil
}

func zeroCategoryStats() map[models.Category]int64 {
	stats := make(map[models.Category]int64, len(models.CategoryOrder))
	for _, c := range models.CategoryOrder {
		stats[c] = 0
	}
	return stats
}

// monthWindowStart returns the lower bound of an n-month window ending in
// now's month: the first day of the month n-1 months earlier. The anchor at
// the first of the month keeps AddDate from rolling over short months.
func monthWindowStart(now time.Time, n int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(n - 1), 0)
}

// bucketByMonth tallies timestamps into the most recent n calendar months,
// oldest first, zero-filled for months with no activity.
func bucketByMonth(times []time.Time, n int) []MonthCount {
	now := time.Now()
	// Anchor at the first of the month so AddDate never rolls over
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]MonthCount, 0, n)
	index := make(map[string]int, n)
	for i := n - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0).Format("2006-01")
		index[month] = len(buckets)
		buckets = append(buckets, MonthCount{Month: month})
	}
	for _, t := range times {
		if i, ok := index[t.Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
