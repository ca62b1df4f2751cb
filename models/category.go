package models

// Category is one of the twelve fixed achievement kinds. Each category has
// exactly one detail table; the registry below is the single place that knows
// the mapping, so adding a category is a new detail type plus one entry here.
type Category string

const (
	CategoryJournalPaper       Category = "journal_paper"
	CategoryConferencePaper    Category = "conference_paper"
	CategoryBook               Category = "book"
	CategoryPatent             Category = "patent"
	CategoryConferenceReport   Category = "conference_report"
	CategoryStandard           Category = "standard"
	CategorySoftwareCopyright  Category = "software_copyright"
	CategoryResearchAward      Category = "research_award"
	CategoryTalentTraining     Category = "talent_training"
	CategoryAcademicConference Category = "academic_conference"
	CategoryTechTransfer       Category = "tech_transfer"
	CategoryOtherResearch      Category = "other_research"
)

// CategoryOrder fixes the display and export order.
var CategoryOrder = []Category{
	CategoryJournalPaper,
	CategoryConferencePaper,
	CategoryBook,
	CategoryPatent,
	CategoryConferenceReport,
	CategoryStandard,
	CategorySoftwareCopyright,
	CategoryResearchAward,
	CategoryTalentTraining,
	CategoryAcademicConference,
	CategoryTechTransfer,
	CategoryOtherResearch,
}

// PaperCategories are the categories where the first/corresponding author
// distinction is meaningful.
var PaperCategories = []Category{CategoryJournalPaper, CategoryConferencePaper}

// CategoryDetail is the shape shared by the twelve detail records.
type CategoryDetail interface {
	TableName() string
	SetAchievementID(id string)
	Normalize() error
	Validate() error
}

// CategoryConfig describes one achievement category.
type CategoryConfig struct {
	Label string // display label, also used in export filenames
	Table string
	Paper bool // first/corresponding roles apply
	New   func() CategoryDetail
	// Detail and SetDetail bridge the typed detail pointers on Achievement.
	Detail    func(a *Achievement) CategoryDetail
	SetDetail func(a *Achievement, d CategoryDetail)
}

var categoryRegistry = map[Category]CategoryConfig{
	CategoryJournalPaper: {
		Label: "期刊论文",
		Table: "journal_papers",
		Paper: true,
		New:   func() CategoryDetail { return &JournalPaper{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.JournalPaper == nil {
				return nil
			}
			return a.JournalPaper
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.JournalPaper = d.(*JournalPaper) },
	},
	CategoryConferencePaper: {
		Label: "会议论文",
		Table: "conference_papers",
		Paper: true,
		New:   func() CategoryDetail { return &ConferencePaper{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.ConferencePaper == nil {
				return nil
			}
			return a.ConferencePaper
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.ConferencePaper = d.(*ConferencePaper) },
	},
	CategoryBook: {
		Label: "学术专著",
		Table: "books",
		New:   func() CategoryDetail { return &Book{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.Book == nil {
				return nil
			}
			return a.Book
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.Book = d.(*Book) },
	},
	CategoryPatent: {
		Label: "专利",
		Table: "patents",
		New:   func() CategoryDetail { return &Patent{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.Patent == nil {
				return nil
			}
			return a.Patent
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.Patent = d.(*Patent) },
	},
	CategoryConferenceReport: {
		Label: "会议报告",
		Table: "conference_reports",
		New:   func() CategoryDetail { return &ConferenceReport{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.ConferenceReport == nil {
				return nil
			}
			return a.ConferenceReport
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.ConferenceReport = d.(*ConferenceReport) },
	},
	CategoryStandard: {
		Label: "标准",
		Table: "standards",
		New:   func() CategoryDetail { return &Standard{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.Standard == nil {
				return nil
			}
			return a.Standard
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.Standard = d.(*Standard) },
	},
	CategorySoftwareCopyright: {
		Label: "软件著作权",
		Table: "software_copyrights",
		New:   func() CategoryDetail { return &SoftwareCopyright{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.SoftwareCopyright == nil {
				return nil
			}
			return a.SoftwareCopyright
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.SoftwareCopyright = d.(*SoftwareCopyright) },
	},
	CategoryResearchAward: {
		Label: "科研奖励",
		Table: "research_awards",
		New:   func() CategoryDetail { return &ResearchAward{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.ResearchAward == nil {
				return nil
			}
			return a.ResearchAward
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.ResearchAward = d.(*ResearchAward) },
	},
	CategoryTalentTraining: {
		Label: "人才培养",
		Table: "talent_training",
		New:   func() CategoryDetail { return &TalentTraining{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.TalentTraining == nil {
				return nil
			}
			return a.TalentTraining
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.TalentTraining = d.(*TalentTraining) },
	},
	CategoryAcademicConference: {
		Label: "举办学术会议",
		Table: "academic_conferences",
		New:   func() CategoryDetail { return &AcademicConference{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.AcademicConference == nil {
				return nil
			}
			return a.AcademicConference
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.AcademicConference = d.(*AcademicConference) },
	},
	CategoryTechTransfer: {
		Label: "成果技术转移",
		Table: "tech_transfers",
		New:   func() CategoryDetail { return &TechTransfer{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.TechTransfer == nil {
				return nil
			}
			return a.TechTransfer
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.TechTransfer = d.(*TechTransfer) },
	},
	CategoryOtherResearch: {
		Label: "其他重要研究成果",
		Table: "other_research",
		New:   func() CategoryDetail { return &OtherResearch{} },
		Detail: func(a *Achievement) CategoryDetail {
			if a.OtherResearch == nil {
				return nil
			}
			return a.OtherResearch
		},
		SetDetail: func(a *Achievement, d CategoryDetail) { a.OtherResearch = d.(*OtherResearch) },
	},
}

// CategoryConfigFor returns the registry entry for a category tag.
func CategoryConfigFor(category Category) (CategoryConfig, bool) {
	cfg, ok := categoryRegistry[category]
	return cfg, ok
}

// ValidCategory reports whether the tag is one of the twelve categories.
func ValidCategory(category Category) bool {
	_, ok := categoryRegistry[category]
	return ok
}

// CategoryLabel returns the display label, or the raw tag if unknown.
func CategoryLabel(category Category) string {
	if cfg, ok := categoryRegistry[category]; ok {
		return cfg.Label
	}
	return string(category)
}

// IsPaperCategory reports whether author roles are ranked for this category.
func IsPaperCategory(category Category) bool {
	cfg, ok := categoryRegistry[category]
	return ok && cfg.Paper
}

// CategoryLabels maps every category tag to its display label.
func CategoryLabels() map[Category]string {
	labels := make(map[Category]string, len(categoryRegistry))
	for c, cfg := range categoryRegistry {
		labels[c] = cfg.Label
	}
	return labels
}
