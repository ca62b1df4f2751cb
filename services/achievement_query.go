package services

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"research-achievement-api/models"
)

// DateRange is a closed interval of ISO calendar dates.
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// AchievementQuery is the declarative list query. Date filters are keyed by a
// field identifier (e.g. "journal_publish_date") and applied after detail
// assembly, since detail fields are not materialized in the base query.
type AchievementQuery struct {
	Keyword     string
	AuthorName  string
	Category    models.Category
	UserID      string
	StartDate   string // created_at lower bound
	EndDate     string // created_at upper bound
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
	PrimaryOnly bool
	DateFilters map[string]DateRange
}

// AchievementPage is one page of assembled achievements. Total reflects the
// post-filter count, so it always agrees with the rows and page count.
type AchievementPage struct {
	Data     []models.Achievement `json:"data"`
	Total    int64                `json:"count"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// Relational columns the backend may sort on. Detail-field sorts (journal
// level) are computed after retrieval.
var sortableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"category":   "category",
}

// journalLevelRank orders levels 1区 > 2区 > 3区 > 4区 > SCI > EI > other.
var journalLevelRank = map[string]int{
	"1区": 0, "2区": 1, "3区": 2, "4区": 3, "SCI": 4, "EI": 5, "other": 6,
}

// dateFilterFields maps a date-filter key to the field it reads from the
// assembled record.
var dateFilterFields = map[string]func(a *models.Achievement) *string{
	"journal_publish_date": func(a *models.Achievement) *string {
		if a.JournalPaper == nil {
			return nil
		}
		return a.JournalPaper.PublishDate
	},
	"conference_start_date": func(a *models.Achievement) *string {
		if a.ConferencePaper == nil {
			return nil
		}
		return a.ConferencePaper.ConferenceStartDate
	},
	"book_publish_date": func(a *models.Achievement) *string {
		if a.Book == nil {
			return nil
		}
		return a.Book.PublishDate
	},
	"patent_application_date": func(a *models.Achievement) *string {
		if a.Patent == nil {
			return nil
		}
		return a.Patent.ApplicationDate
	},
	"conference_report_start_date": func(a *models.Achievement) *string {
		if a.ConferenceReport == nil {
			return nil
		}
		return a.ConferenceReport.StartDate
	},
	"conference_report_end_date": func(a *models.Achievement) *string {
		if a.ConferenceReport == nil {
			return nil
		}
		return a.ConferenceReport.EndDate
	},
	"standard_publish_date": func(a *models.Achievement) *string {
		if a.Standard == nil {
			return nil
		}
		return a.Standard.PublishDate
	},
	"software_completion_date": func(a *models.Achievement) *string {
		if a.SoftwareCopyright == nil {
			return nil
		}
		return a.SoftwareCopyright.CompletionDate
	},
	"award_date": func(a *models.Achievement) *string {
		if a.ResearchAward == nil {
			return nil
		}
		return a.ResearchAward.AwardDate
	},
	"talent_work_start_date": func(a *models.Achievement) *string {
		if a.TalentTraining == nil {
			return nil
		}
		return a.TalentTraining.WorkStartDate
	},
	"talent_work_end_date": func(a *models.Achievement) *string {
		if a.TalentTraining == nil {
			return nil
		}
		return a.TalentTraining.WorkEndDate
	},
	"academic_conference_start_date": func(a *models.Achievement) *string {
		if a.AcademicConference == nil {
			return nil
		}
		return a.AcademicConference.StartDate
	},
	"academic_conference_end_date": func(a *models.Achievement) *string {
		if a.AcademicConference == nil {
			return nil
		}
		return a.AcademicConference.EndDate
	},
	"tech_transfer_contract_date": func(a *models.Achievement) *string {
		if a.TechTransfer == nil {
			return nil
		}
		return a.TechTransfer.ContractDate
	},
	"created_at": func(a *models.Achievement) *string {
		d := a.CreatedAt.Format("2006-01-02")
		return &d
	},
}

// List runs the query pipeline: relational filters and sorting in SQL,
// author-name resolution through the author table, then detail assembly and
// any date-range filters or detail-field sorting in memory.
func (s *AchievementService) List(q AchievementQuery) (*AchievementPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	page := &AchievementPage{
		Data:     []models.Achievement{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	base := s.db.Model(&models.Achievement{})
	if q.Category != "" {
		base = base.Where("category = ?", q.Category)
	}
	if q.UserID != "" {
		base = base.Where("user_id = ?", q.UserID)
	}
	if q.Keyword != "" {
		base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Keyword)+"%")
	}
	if q.StartDate != "" {
		base = base.Where("created_at >= ?", q.StartDate)
	}
	if q.EndDate != "" {
		base = base.Where("created_at <= ?", q.EndDate)
	}

	if q.AuthorName != "" {
		ids, err := s.resolveAuthorAchievementIDs(q)
		if err != nil {
			return nil, err
		}
		// No matching author: empty page, never a broader query
		if len(ids) == 0 {
			return page, nil
		}
		base = base.Where("id IN ?", ids)
	}

	// New session so Count and Find don't accumulate each other's clauses
	base = base.Session(&gorm.Session{})

	order := "created_at DESC"
	if col, ok := sortableColumns[q.SortBy]; ok {
		direction := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			direction = "DESC"
		}
		order = col + " " + direction
	}

	clientPass := len(q.DateFilters) > 0 || q.SortBy == "journal_level"
	if !clientPass {
		if err := base.Count(&page.Total).Error; err != nil {
			return nil, err
		}
		var rows []models.Achievement
		if err := base.Order(order).
			Offset((q.Page - 1) * q.PageSize).
			Limit(q.PageSize).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			if err := attachRelations(s.db, &rows[i]); err != nil {
				return nil, err
			}
		}
		page.Data = rows
		return page, nil
	}

	// Date filters and detail-field sorting need the assembled records, so
	// fetch the full match set and page afterwards. Totals are post-filter.
	var rows []models.Achievement
	if err := base.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if err := attachRelations(s.db, &rows[i]); err != nil {
			return nil, err
		}
	}

	filtered := applyDateFilters(rows, q.DateFilters)
	if q.SortBy == "journal_level" {
		sortByJournalLevel(filtered, strings.EqualFold(q.SortOrder, "desc"))
	}

	page.Total = int64(len(filtered))
	start := (q.Page - 1) * q.PageSize
	if start < len(filtered) {
		end := start + q.PageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		page.Data = filtered[start:end]
	}
	return page, nil
}

// exportBatchSize bounds how many rows a single export page fetches.
const exportBatchSize = 200

// ListAll returns every record matching the query, for export. It pages
// through List until the result set is exhausted so large exports are never
// truncated.
func (s *AchievementService) ListAll(q AchievementQuery) ([]models.Achievement, error) {
	q.Page = 1
	q.PageSize = exportBatchSize
	var all []models.Achievement
	for {
		page, err := s.List(q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if len(page.Data) < exportBatchSize || int64(len(all)) >= page.Total {
			return all, nil
		}
		q.Page++
	}
}

// resolveAuthorAchievementIDs turns an author-name filter into a set of
// achievement ids. With the primary-contributor toggle set, paper categories
// narrow by role tag and every other category by author_order = 1; narrowing
// needs a known category.
func (s *AchievementService) resolveAuthorAchievementIDs(q AchievementQuery) ([]string, error) {
	sub := s.db.Model(&models.AchievementAuthor{}).
		Where("author_name = ?", q.AuthorName)

	if q.PrimaryOnly && q.Category != "" {
		if models.IsPaperCategory(q.Category) {
			sub = sub.Where("author_type IN ?", models.PrimaryAuthorTypes)
		} else {
			sub = sub.Where("author_order = ?", 1)
		}
	}

	var ids []string
	if err := sub.Distinct().Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// applyDateFilters keeps records whose target date field lies inside every
// active closed interval. A record missing the target field fails the filter.
func applyDateFilters(rows []models.Achievement, filters map[string]DateRange) []models.Achievement {
	if len(filters) == 0 {
		return rows
	}

	out := make([]models.Achievement, 0, len(rows))
	for i := range rows {
		keep := true
		for key, r := range filters {
			if r.Start == "" || r.End == "" {
				continue
			}
			getter, ok := dateFilterFields[key]
			if !ok {
				continue
			}
			value := getter(&rows[i])
			if value == nil || *value == "" {
				keep = false
				break
			}
			// ISO calendar dates compare correctly lexicographically
			if *value < r.Start || *value > r.End {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rows[i])
		}
	}
	return out
}

func sortByJournalLevel(rows []models.Achievement, desc bool) {
	rank := func(a *models.Achievement) int {
		if a.JournalPaper == nil || a.JournalPaper.JournalLevel == nil {
			return len(journalLevelRank)
		}
		r, ok := journalLevelRank[*a.JournalPaper.JournalLevel]
		if !ok {
			return len(journalLevelRank)
		}
		return r
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return rank(&rows[i]) > rank(&rows[j])
		}
		return rank(&rows[i]) < rank(&rows[j])
	})
}
