package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"research-achievement-api/models"
	"research-achievement-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services are built per request so they pick up config.DB, which is only
// connected after the controllers package is initialized.
func achievementSvc() *services.AchievementService {
	return services.NewAchievementService(nil)
}

func statisticsSvc() *services.StatisticsService {
	return services.NewStatisticsService(nil)
}

func exportSvc() *services.ExportService {
	return services.NewExportService(achievementSvc())
}

type achievementRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Category     models.Category        `json:"category" binding:"required"`
	Abstract     *string                `json:"abstract"`
	Keywords     *string                `json:"keywords"`
	DOI          *string                `json:"doi"`
	FullTextLink *string                `json:"full_text_link"`
	FundingInfo  *string                `json:"funding_info"`
	Notes        *string                `json:"notes"`
	Authors      []services.AuthorInput `json:"authors" binding:"required"`

	JournalPaper       *models.JournalPaper       `json:"journal_paper"`
	ConferencePaper    *models.ConferencePaper    `json:"conference_paper"`
	Book               *models.Book               `json:"book"`
	Patent             *models.Patent             `json:"patent"`
	ConferenceReport   *models.ConferenceReport   `json:"conference_report"`
	Standard           *models.Standard           `json:"standard"`
	SoftwareCopyright  *models.SoftwareCopyright  `json:"software_copyright"`
	ResearchAward      *models.ResearchAward      `json:"research_award"`
	TalentTraining     *models.TalentTraining     `json:"talent_training"`
	AcademicConference *models.AcademicConference `json:"academic_conference"`
	TechTransfer       *models.TechTransfer       `json:"tech_transfer"`
	OtherResearch      *models.OtherResearch      `json:"other_research"`
}

// detail returns the payload block matching the declared category, or nil
// when the client didn't send one.
func (r *achievementRequest) detail() models.CategoryDetail {
	switch r.Category {
	case models.CategoryJournalPaper:
		if r.JournalPaper != nil {
			return r.JournalPaper
		}
	case models.CategoryConferencePaper:
		if r.ConferencePaper != nil {
			return r.ConferencePaper
		}
	case models.CategoryBook:
		if r.Book != nil {
			return r.Book
		}
	case models.CategoryPatent:
		if r.Patent != nil {
			return r.Patent
		}
	case models.CategoryConferenceReport:
		if r.ConferenceReport != nil {
			return r.ConferenceReport
		}
	case models.CategoryStandard:
		if r.Standard != nil {
			return r.Standard
		}
	case models.CategorySoftwareCopyright:
		if r.SoftwareCopyright != nil {
			return r.SoftwareCopyright
		}
	case models.CategoryResearchAward:
		if r.ResearchAward != nil {
			return r.ResearchAward
		}
	case models.CategoryTalentTraining:
		if r.TalentTraining != nil {
			return r.TalentTraining
		}
	case models.CategoryAcademicConference:
		if r.AcademicConference != nil {
			return r.AcademicConference
		}
	case models.CategoryTechTransfer:
		if r.TechTransfer != nil {
			return r.TechTransfer
		}
	case models.CategoryOtherResearch:
		if r.OtherResearch != nil {
			return r.OtherResearch
		}
	}
	return nil
}

func (r *achievementRequest) toInput(userID string) services.AchievementInput {
	return services.AchievementInput{
		Title:        r.Title,
		Category:     r.Category,
		Abstract:     r.Abstract,
		Keywords:     r.Keywords,
		DOI:          r.DOI,
		FullTextLink: r.FullTextLink,
		FundingInfo:  r.FundingInfo,
		Notes:        r.Notes,
		UserID:       userID,
		Authors:      r.Authors,
		Detail:       r.detail(),
	}
}

// CreateAchievement records a new achievement owned by the caller.
func CreateAchievement(c *gin.Context) {
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	created, err := achievementSvc().Create(req.toInput(userID))
	if err != nil {
		writeAchievementError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"achievement": created})
}

// GetAchievement returns one achievement with its authors and detail.
func GetAchievement(c *gin.Context) {
	achievement, err := achievementSvc().Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievement": achievement})
}

// UpdateAchievement replaces an achievement's data. Only the owner or an
// admin may edit; the category itself cannot change.
func UpdateAchievement(c *gin.Context) {
	existing, err := achievementSvc().Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievement"})
		return
	}
	if !canModify(c, existing.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to modify this achievement"})
		return
	}

	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := achievementSvc().Update(existing.ID, req.toInput(existing.UserID))
	if err != nil {
		writeAchievementError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievement": updated})
}

// DeleteAchievement removes an achievement with its authors and detail.
func DeleteAchievement(c *gin.Context) {
	existing, err := achievementSvc().Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievement"})
		return
	}
	if !canModify(c, existing.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to modify this achievement"})
		return
	}

	if err := achievementSvc().Delete(existing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete achievement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Achievement deleted"})
}

// ListAchievements returns a filtered, sorted page of achievements.
func ListAchievements(c *gin.Context) {
	query, err := parseAchievementQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := achievementSvc().List(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// parseAchievementQuery maps list/export query params onto a service query.
func parseAchievementQuery(c *gin.Context) (services.AchievementQuery, error) {
	q := services.AchievementQuery{
		Keyword:    c.Query("keyword"),
		AuthorName: c.Query("author_name"),
		UserID:     c.Query("user_id"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if raw := c.Query("category"); raw != "" {
		if !models.ValidCategory(models.Category(raw)) {
			return q, errors.New("unknown category: " + raw)
		}
		q.Category = models.Category(raw)
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, errors.New("invalid page")
		}
		q.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return q, errors.New("invalid page_size")
		}
		q.PageSize = size
	}

	q.PrimaryOnly = c.Query("only_first_or_corresponding") == "true"

	// Per-category date filters arrive as a JSON object in a single query
	// param, e.g. date_filters={"journal_publish_date":{"start_date":"2024-01-01"}}.
	if raw := c.Query("date_filters"); raw != "" {
		filters := map[string]services.DateRange{}
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return q, errors.New("invalid date_filters")
		}
		q.DateFilters = filters
	}

	return q, nil
}

// canModify reports whether the caller owns the record or is an admin.
func canModify(c *gin.Context, ownerID string) bool {
	if c.GetString("role") == models.RoleAdmin {
		return true
	}
	return c.GetString("userID") == ownerID
}

func writeAchievementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrMissingDetail),
		errors.Is(err, services.ErrNoAuthors),
		errors.Is(err, services.ErrCategoryImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found"})
	default:
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save achievement"})
	}
}
