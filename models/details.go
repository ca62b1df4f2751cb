package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enumerated value sets shared by validation and the API docs.
var (
	LanguageValues      = []string{"chinese", "foreign"}
	JournalLevelValues  = []string{"1区", "2区", "3区", "4区", "SCI", "EI", "other"}
	PaperTypeValues     = []string{"invited", "group", "poster"}
	PatentCountryValues = []string{
		"china", "usa", "europe", "wipo", "japan", "other",
	}
	PatentTypeValues        = []string{"invention", "utility", "design"}
	PatentStatusValues      = []string{"applied", "granted"}
	CommercializationValues = []string{
		"transfer", "license", "investment", "other", "none",
	}
	ConferenceTypeValues = []string{"international", "domestic"}
	StandardTypeValues   = []string{
		"international", "national_mandatory", "national_recommended",
		"industry_mandatory", "industry_recommended", "local", "enterprise",
	}
	AcquisitionMethodValues = []string{"original", "inherited"}
	RightsScopeValues       = []string{"full", "partial"}
	TrainingCategoryValues  = []string{"student", "academic_leader"}
	TalentTypeValues        = []string{
		"postdoc_out", "phd_graduate", "master_graduate",
		"postdoc_in", "phd_student", "master_student",
	}
	ReportCompletionValues = []string{"completed", "not_completed"}
	ResearchTypeValues     = []string{"database", "specimen", "equipment", "report"}
)

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func requiredField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func oneOf(name string, value *string, allowed []string) error {
	if value == nil || *value == "" {
		return nil
	}
	for _, v := range allowed {
		if *value == v {
			return nil
		}
	}
	return fmt.Errorf("%s: invalid value %q", name, *value)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// normalizeDate rewrites a date to the ISO calendar-date form used in storage
// so closed-interval string comparisons order correctly.
func normalizeDate(name string, p **string) error {
	if *p == nil {
		return nil
	}
	s := strings.TrimSpace(**p)
	if s == "" {
		*p = nil
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format("2006-01-02")
			*p = &iso
			return nil
		}
	}
	return fmt.Errorf("%s: invalid date %q", name, s)
}

type JournalPaper struct {
	ID            string                      `gorm:"primaryKey;column:id" json:"id"`
	AchievementID string                      `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	JournalName   string                      `gorm:"column:journal_name" json:"journal_name"`
	Language      *string                     `gorm:"column:language" json:"language,omitempty"`
	Status        *string                     `gorm:"column:status" json:"status,omitempty"`
	PublishDate   *string                     `gorm:"column:publish_date" json:"publish_date,omitempty"`
	ArticleNumber *string                     `gorm:"column:article_number" json:"article_number,omitempty"`
	IndexedBy     datatypes.JSONSlice[string] `gorm:"column:indexed_by" json:"indexed_by"`
	CitationCount int                         `gorm:"column:citation_count" json:"citation_count"`
	Volume        *string                     `gorm:"column:volume" json:"volume,omitempty"`
	Issue         *string                     `gorm:"column:issue" json:"issue,omitempty"`
	Pages         *string                     `gorm:"column:pages" json:"pages,omitempty"`
	ImpactFactor  *float64                    `gorm:"column:impact_factor" json:"impact_factor,omitempty"`
	JournalLevel  *string                     `gorm:"column:journal_level" json:"journal_level,omitempty"`
}

func (JournalPaper) TableName() string { return "journal_papers" }

func (d *JournalPaper) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *JournalPaper) SetAchievementID(id string) { d.AchievementID = id }

func (d *JournalPaper) Normalize() error {
	d.JournalName = strings.TrimSpace(d.JournalName)
	if d.IndexedBy == nil {
		d.IndexedBy = datatypes.JSONSlice[string]{}
	}
	if d.CitationCount < 0 {
		d.CitationCount = 0
	}
	return normalizeDate("publish_date", &d.PublishDate)
}

func (d *JournalPaper) Validate() error {
	if err := requiredField("journal_name", d.JournalName); err != nil {
		return err
	}
	if err := oneOf("language", d.Language, LanguageValues); err != nil {
		return err
	}
	if err := oneOf("status", d.Status, []string{"published", "online"}); err != nil {
		return err
	}
	return oneOf("journal_level", d.JournalLevel, JournalLevelValues)
}

type ConferencePaper struct {
	ID                  string                      `gorm:"primaryKey;column:id" json:"id"`
	AchievementID       string                      `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	PaperType           *string                     `gorm:"column:paper_type" json:"paper_type,omitempty"`
	Language            *string                     `gorm:"column:language" json:"language,omitempty"`
	ConferenceName      string                      `gorm:"column:conference_name" json:"conference_name"`
	Organizer           *string                     `gorm:"column:organizer" json:"organizer,omitempty"`
	ConferenceStartDate *string                     `gorm:"column:conference_start_date" json:"conference_start_date,omitempty"`
	ConferenceEndDate   *string                     `gorm:"column:conference_end_date" json:"conference_end_date,omitempty"`
	PublishDate         *string                     `gorm:"column:publish_date" json:"publish_date,omitempty"`
	Pages               *string                     `gorm:"column:pages" json:"pages,omitempty"`
	Location            *string                     `gorm:"column:location" json:"location,omitempty"`
	ArticleNumber       *string                     `gorm:"column:article_number" json:"article_number,omitempty"`
	IndexedBy           datatypes.JSONSlice[string] `gorm:"column:indexed_by" json:"indexed_by"`
	CitationCount       int                         `gorm:"column:citation_count" json:"citation_count"`
}

func (ConferencePaper) TableName() string { return "conference_papers" }

func (d *ConferencePaper) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *ConferencePaper) SetAchievementID(id string) { d.AchievementID = id }

func (d *ConferencePaper) Normalize() error {
	d.ConferenceName = strings.TrimSpace(d.ConferenceName)
	if d.IndexedBy == nil {
		d.IndexedBy = datatypes.JSONSlice[string]{}
	}
	if d.CitationCount < 0 {
		d.CitationCount = 0
	}
	if err := normalizeDate("conference_start_date", &d.ConferenceStartDate); err != nil {
		return err
	}
	if err := normalizeDate("conference_end_date", &d.ConferenceEndDate); err != nil {
		return err
	}
	return normalizeDate("publish_date", &d.PublishDate)
}

func (d *ConferencePaper) Validate() error {
	if err := requiredField("conference_name", d.ConferenceName); err != nil {
		return err
	}
	if err := oneOf("paper_type", d.PaperType, PaperTypeValues); err != nil {
		return err
	}
	return oneOf("language", d.Language, LanguageValues)
}

type Book struct {
	ID                string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID     string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	SeriesName        *string `gorm:"column:series_name" json:"series_name,omitempty"`
	Language          *string `gorm:"column:language" json:"language,omitempty"`
	PublicationStatus *string `gorm:"column:publication_status" json:"publication_status,omitempty"`
	ISBN              *string `gorm:"column:isbn" json:"isbn,omitempty"`
	Editor            *string `gorm:"column:editor" json:"editor,omitempty"`
	Country           *string `gorm:"column:country" json:"country,omitempty"`
	City              *string `gorm:"column:city" json:"city,omitempty"`
	Pages             *string `gorm:"column:pages" json:"pages,omitempty"`
	WordCount         *int    `gorm:"column:word_count" json:"word_count,omitempty"`
	Publisher         string  `gorm:"column:publisher" json:"publisher"`
	PublishDate       *string `gorm:"column:publish_date" json:"publish_date,omitempty"`
}

func (Book) TableName() string { return "books" }

func (d *Book) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *Book) SetAchievementID(id string) { d.AchievementID = id }

func (d *Book) Normalize() error {
	d.Publisher = strings.TrimSpace(d.Publisher)
	return normalizeDate("publish_date", &d.PublishDate)
}

func (d *Book) Validate() error {
	if err := requiredField("publisher", d.Publisher); err != nil {
		return err
	}
	if err := oneOf("language", d.Language, LanguageValues); err != nil {
		return err
	}
	return oneOf("publication_status", d.PublicationStatus, []string{"published", "pending"})
}

type Patent struct {
	ID                      string   `gorm:"primaryKey;column:id" json:"id"`
	AchievementID           string   `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	PatentCountry           *string  `gorm:"column:patent_country" json:"patent_country,omitempty"`
	ApplicationNumber       string   `gorm:"column:application_number" json:"application_number"`
	PublicationNumber       *string  `gorm:"column:publication_number" json:"publication_number,omitempty"`
	IPCNumber               *string  `gorm:"column:ipc_number" json:"ipc_number,omitempty"`
	CPCNumber               *string  `gorm:"column:cpc_number" json:"cpc_number,omitempty"`
	IssuingAuthority        *string  `gorm:"column:issuing_authority" json:"issuing_authority,omitempty"`
	PatentType              *string  `gorm:"column:patent_type" json:"patent_type,omitempty"`
	Status                  *string  `gorm:"column:status" json:"status,omitempty"`
	ApplicationDate         *string  `gorm:"column:application_date" json:"application_date,omitempty"`
	EffectiveStartDate      *string  `gorm:"column:effective_start_date" json:"effective_start_date,omitempty"`
	EffectiveEndDate        *string  `gorm:"column:effective_end_date" json:"effective_end_date,omitempty"`
	PatentHolder            *string  `gorm:"column:patent_holder" json:"patent_holder,omitempty"`
	CommercializationStatus *string  `gorm:"column:commercialization_status" json:"commercialization_status,omitempty"`
	TransactionAmount       *float64 `gorm:"column:transaction_amount" json:"transaction_amount,omitempty"`
}

func (Patent) TableName() string { return "patents" }

func (d *Patent) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *Patent) SetAchievementID(id string) { d.AchievementID = id }

func (d *Patent) Normalize() error {
	d.ApplicationNumber = strings.TrimSpace(d.ApplicationNumber)
	if err := normalizeDate("application_date", &d.ApplicationDate); err != nil {
		return err
	}
	if err := normalizeDate("effective_start_date", &d.EffectiveStartDate); err != nil {
		return err
	}
	return normalizeDate("effective_end_date", &d.EffectiveEndDate)
}

func (d *Patent) Validate() error {
	if err := requiredField("application_number", d.ApplicationNumber); err != nil {
		return err
	}
	if err := oneOf("patent_country", d.PatentCountry, PatentCountryValues); err != nil {
		return err
	}
	if err := oneOf("patent_type", d.PatentType, PatentTypeValues); err != nil {
		return err
	}
	if err := oneOf("status", d.Status, PatentStatusValues); err != nil {
		return err
	}
	return oneOf("commercialization_status", d.CommercializationStatus, CommercializationValues)
}

type ConferenceReport struct {
	ID             string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID  string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	ReportType     *string `gorm:"column:report_type" json:"report_type,omitempty"`
	ConferenceType *string `gorm:"column:conference_type" json:"conference_type,omitempty"`
	ConferenceName string  `gorm:"column:conference_name" json:"conference_name"`
	Location       *string `gorm:"column:location" json:"location,omitempty"`
	Country        *string `gorm:"column:country" json:"country,omitempty"`
	StartDate      *string `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *string `gorm:"column:end_date" json:"end_date,omitempty"`
}

func (ConferenceReport) TableName() string { return "conference_reports" }

func (d *ConferenceReport) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *ConferenceReport) SetAchievementID(id string) { d.AchievementID = id }

func (d *ConferenceReport) Normalize() error {
	d.ConferenceName = strings.TrimSpace(d.ConferenceName)
	if err := normalizeDate("start_date", &d.StartDate); err != nil {
		return err
	}
	return normalizeDate("end_date", &d.EndDate)
}

func (d *ConferenceReport) Validate() error {
	if err := requiredField("conference_name", d.ConferenceName); err != nil {
		return err
	}
	if err := oneOf("report_type", d.ReportType, PaperTypeValues); err != nil {
		return err
	}
	return oneOf("conference_type", d.ConferenceType, ConferenceTypeValues)
}

type Standard struct {
	ID                     string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID          string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	StandardType           *string `gorm:"column:standard_type" json:"standard_type,omitempty"`
	StandardNumber         string  `gorm:"column:standard_number" json:"standard_number"`
	StandardCategory       *string `gorm:"column:standard_category" json:"standard_category,omitempty"`
	ResponsibleUnit        *string `gorm:"column:responsible_unit" json:"responsible_unit,omitempty"`
	PublishingOrganization *string `gorm:"column:publishing_organization" json:"publishing_organization,omitempty"`
	PublishDate            *string `gorm:"column:publish_date" json:"publish_date,omitempty"`
}

func (Standard) TableName() string { return "standards" }

func (d *Standard) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *Standard) SetAchievementID(id string) { d.AchievementID = id }

func (d *Standard) Normalize() error {
	d.StandardNumber = strings.TrimSpace(d.StandardNumber)
	return normalizeDate("publish_date", &d.PublishDate)
}

func (d *Standard) Validate() error {
	if err := requiredField("standard_number", d.StandardNumber); err != nil {
		return err
	}
	return oneOf("standard_type", d.StandardType, StandardTypeValues)
}

type SoftwareCopyright struct {
	ID                 string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID      string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	RegistrationNumber string  `gorm:"column:registration_number" json:"registration_number"`
	AcquisitionMethod  *string `gorm:"column:acquisition_method" json:"acquisition_method,omitempty"`
	RightsScope        *string `gorm:"column:rights_scope" json:"rights_scope,omitempty"`
	RightsDescription  *string `gorm:"column:rights_description" json:"rights_description,omitempty"`
	CompletionDate     *string `gorm:"column:completion_date" json:"completion_date,omitempty"`
}

func (SoftwareCopyright) TableName() string { return "software_copyrights" }

func (d *SoftwareCopyright) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *SoftwareCopyright) SetAchievementID(id string) { d.AchievementID = id }

func (d *SoftwareCopyright) Normalize() error {
	d.RegistrationNumber = strings.TrimSpace(d.RegistrationNumber)
	return normalizeDate("completion_date", &d.CompletionDate)
}

func (d *SoftwareCopyright) Validate() error {
	if err := requiredField("registration_number", d.RegistrationNumber); err != nil {
		return err
	}
	if err := oneOf("acquisition_method", d.AcquisitionMethod, AcquisitionMethodValues); err != nil {
		return err
	}
	return oneOf("rights_scope", d.RightsScope, RightsScopeValues)
}

type ResearchAward struct {
	ID                   string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID        string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	AwardType            string  `gorm:"column:award_type" json:"award_type"`
	AwardLevel           string  `gorm:"column:award_level" json:"award_level"`
	AwardingOrganization string  `gorm:"column:awarding_organization" json:"awarding_organization"`
	AwardDate            *string `gorm:"column:award_date" json:"award_date,omitempty"`
	Country              *string `gorm:"column:country" json:"country,omitempty"`
	CertificateNumber    *string `gorm:"column:certificate_number" json:"certificate_number,omitempty"`
}

func (ResearchAward) TableName() string { return "research_awards" }

func (d *ResearchAward) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *ResearchAward) SetAchievementID(id string) { d.AchievementID = id }

func (d *ResearchAward) Normalize() error {
	d.AwardType = strings.TrimSpace(d.AwardType)
	d.AwardLevel = strings.TrimSpace(d.AwardLevel)
	d.AwardingOrganization = strings.TrimSpace(d.AwardingOrganization)
	return normalizeDate("award_date", &d.AwardDate)
}

func (d *ResearchAward) Validate() error {
	if err := requiredField("award_type", d.AwardType); err != nil {
		return err
	}
	if err := requiredField("award_level", d.AwardLevel); err != nil {
		return err
	}
	return requiredField("awarding_organization", d.AwardingOrganization)
}

type TalentTraining struct {
	ID                     string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID          string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	TrainingCategory       *string `gorm:"column:training_category" json:"training_category,omitempty"`
	TalentType             *string `gorm:"column:talent_type" json:"talent_type,omitempty"`
	TraineeName            string  `gorm:"column:trainee_name" json:"trainee_name"`
	ReportCompletion       *string `gorm:"column:report_completion" json:"report_completion,omitempty"`
	ReportTitle            *string `gorm:"column:report_title" json:"report_title,omitempty"`
	CollaboratingProfessor *string `gorm:"column:collaborating_professor" json:"collaborating_professor,omitempty"`
	IsMainParticipant      *bool   `gorm:"column:is_main_participant" json:"is_main_participant,omitempty"`
	WorkStartDate          *string `gorm:"column:work_start_date" json:"work_start_date,omitempty"`
	WorkEndDate            *string `gorm:"column:work_end_date" json:"work_end_date,omitempty"`
}

func (TalentTraining) TableName() string { return "talent_training" }

func (d *TalentTraining) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *TalentTraining) SetAchievementID(id string) { d.AchievementID = id }

func (d *TalentTraining) Normalize() error {
	d.TraineeName = strings.TrimSpace(d.TraineeName)
	if err := normalizeDate("work_start_date", &d.WorkStartDate); err != nil {
		return err
	}
	return normalizeDate("work_end_date", &d.WorkEndDate)
}

func (d *TalentTraining) Validate() error {
	if err := requiredField("trainee_name", d.TraineeName); err != nil {
		return err
	}
	if err := oneOf("training_category", d.TrainingCategory, TrainingCategoryValues); err != nil {
		return err
	}
	if err := oneOf("talent_type", d.TalentType, TalentTypeValues); err != nil {
		return err
	}
	return oneOf("report_completion", d.ReportCompletion, ReportCompletionValues)
}

type AcademicConference struct {
	ID                string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID     string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	ConferenceType    *string `gorm:"column:conference_type" json:"conference_type,omitempty"`
	ConferenceName    string  `gorm:"column:conference_name" json:"conference_name"`
	StartDate         *string `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate           *string `gorm:"column:end_date" json:"end_date,omitempty"`
	Location          *string `gorm:"column:location" json:"location,omitempty"`
	Organizer         *string `gorm:"column:organizer" json:"organizer,omitempty"`
	ResponsiblePerson *string `gorm:"column:responsible_person" json:"responsible_person,omitempty"`
	ParticipantCount  *int    `gorm:"column:participant_count" json:"participant_count,omitempty"`
}

func (AcademicConference) TableName() string { return "academic_conferences" }

func (d *AcademicConference) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *AcademicConference) SetAchievementID(id string) { d.AchievementID = id }

func (d *AcademicConference) Normalize() error {
	d.ConferenceName = strings.TrimSpace(d.ConferenceName)
	if err := normalizeDate("start_date", &d.StartDate); err != nil {
		return err
	}
	return normalizeDate("end_date", &d.EndDate)
}

func (d *AcademicConference) Validate() error {
	if err := requiredField("conference_name", d.ConferenceName); err != nil {
		return err
	}
	return oneOf("conference_type", d.ConferenceType, ConferenceTypeValues)
}

type TechTransfer struct {
	ID                string   `gorm:"primaryKey;column:id" json:"id"`
	AchievementID     string   `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	ResultType        *string  `gorm:"column:result_type" json:"result_type,omitempty"`
	TransferForm      *string  `gorm:"column:transfer_form" json:"transfer_form,omitempty"`
	TransactionAmount *float64 `gorm:"column:transaction_amount" json:"transaction_amount,omitempty"`
	Beneficiary       *string  `gorm:"column:beneficiary" json:"beneficiary,omitempty"`
	PartnerCompany    *string  `gorm:"column:partner_company" json:"partner_company,omitempty"`
	ContractDate      *string  `gorm:"column:contract_date" json:"contract_date,omitempty"`
	ApplicationStatus *string  `gorm:"column:application_status" json:"application_status,omitempty"`
	BenefitStatus     *string  `gorm:"column:benefit_status" json:"benefit_status,omitempty"`
}

func (TechTransfer) TableName() string { return "tech_transfers" }

func (d *TechTransfer) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *TechTransfer) SetAchievementID(id string) { d.AchievementID = id }

func (d *TechTransfer) Normalize() error {
	return normalizeDate("contract_date", &d.ContractDate)
}

func (d *TechTransfer) Validate() error {
	return nil
}

type OtherResearch struct {
	ID              string  `gorm:"primaryKey;column:id" json:"id"`
	AchievementID   string  `gorm:"column:achievement_id;uniqueIndex" json:"achievement_id"`
	ResearchType    *string `gorm:"column:research_type" json:"research_type,omitempty"`
	DataDescription *string `gorm:"column:data_description" json:"data_description,omitempty"`
	SharingScope    *string `gorm:"column:sharing_scope" json:"sharing_scope,omitempty"`
}

func (OtherResearch) TableName() string { return "other_research" }

func (d *OtherResearch) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func (d *OtherResearch) SetAchievementID(id string) { d.AchievementID = id }

func (d *OtherResearch) Normalize() error {
	return nil
}

func (d *OtherResearch) Validate() error {
	return oneOf("research_type", d.ResearchType, ResearchTypeValues)
}
