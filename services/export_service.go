package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"research-achievement-api/models"
)

// ErrNothingToExport is returned when the query matches no records.
var ErrNothingToExport = errors.New("no achievements match the current filters")

// ExportService renders query results as spreadsheet-compatible CSV: UTF-8
// with a BOM prefix, every field double-quoted with inner quotes doubled.
type ExportService struct {
	achievements *AchievementService
}

func NewExportService(achievements *AchievementService) *ExportService {
	return &ExportService{achievements: achievements}
}

// CSV exports everything matching the query. A category-scoped export gets
// that category's columns; an unscoped one gets the union of all categories.
func (e *ExportService) CSV(q AchievementQuery) (filename string, content []byte, err error) {
	rows, err := e.achievements.ListAll(q)
	if err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return "", nil, ErrNothingToExport
	}

	headers := baseCSVHeaders()
	if q.Category != "" {
		headers = append(headers, categoryCSV[q.Category].headers...)
	} else {
		headers = append(headers, unionCSVHeaders...)
	}

	var b strings.Builder
	b.WriteString("\uFEFF") // BOM so spreadsheets detect UTF-8
	writeCSVLine(&b, headers)
	for i := range rows {
		record := baseCSVRow(&rows[i])
		if q.Category != "" {
			record = append(record, categoryCSV[q.Category].row(&rows[i])...)
		} else {
			record = append(record, unionCSVRow(&rows[i])...)
		}
		b.WriteString("\n")
		writeCSVLine(&b, record)
	}

	label := "全部成果"
	if q.Category != "" {
		label = models.CategoryLabel(q.Category)
	}
	filename = label + "_" + time.Now().Format("20060102_150405") + ".csv"

	return filename, []byte(b.String()), nil
}

// writeCSVLine quotes every field unconditionally, doubling inner quotes.
// encoding/csv only quotes when necessary, which is not the format the
// spreadsheet consumers of these exports were built around.
func writeCSVLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteString(`"`)
	}
}

func baseCSVHeaders() []string {
	return []string{
		"成果标题", "成果类型", "作者", "第一作者", "通讯作者",
		"DOI", "关键词", "摘要", "全文链接", "创建时间",
	}
}

func baseCSVRow(a *models.Achievement) []string {
	names := make([]string, 0, len(a.Authors))
	firstNames := make([]string, 0, 2)
	correspondingNames := make([]string, 0, 2)
	for _, author := range a.Authors {
		names = append(names, author.AuthorName)
		switch author.AuthorType {
		case models.AuthorFirst, models.AuthorCoFirst:
			firstNames = append(firstNames, author.AuthorName)
		case models.AuthorCorresponding, models.AuthorCoCorresponding:
			correspondingNames = append(correspondingNames, author.AuthorName)
		}
	}

	return []string{
		a.Title,
		models.CategoryLabel(a.Category),
		strings.Join(names, "; "),
		strings.Join(firstNames, "; "),
		strings.Join(correspondingNames, "; "),
		strVal(a.DOI),
		strVal(a.Keywords),
		strVal(a.Abstract),
		strVal(a.FullTextLink),
		a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type csvColumns struct {
	headers []string
	row     func(a *models.Achievement) []string
}

var categoryCSV = map[models.Category]csvColumns{
	models.CategoryJournalPaper: {
		headers: []string{"期刊名称", "发表日期", "期刊级别", "影响因子", "卷", "期", "页码", "被引次数", "收录情况", "状态", "语言"},
		row: func(a *models.Achievement) []string {
			d := a.JournalPaper
			if d == nil {
				return emptyFields(11)
			}
			return []string{
				d.JournalName,
				strVal(d.PublishDate),
				strVal(d.JournalLevel),
				floatVal(d.ImpactFactor),
				strVal(d.Volume),
				strVal(d.Issue),
				strVal(d.Pages),
				strconv.Itoa(d.CitationCount),
				strings.Join(d.IndexedBy, "; "),
				publishStatusText(d.Status),
				languageText(d.Language),
			}
		},
	},
	models.CategoryConferencePaper: {
		headers: []string{"会议名称", "会议开始日期", "会议结束日期", "会议地点", "论文类型", "语言", "页码", "主办方", "被引次数"},
		row: func(a *models.Achievement) []string {
			d := a.ConferencePaper
			if d == nil {
				return emptyFields(9)
			}
			return []string{
				d.ConferenceName,
				strVal(d.ConferenceStartDate),
				strVal(d.ConferenceEndDate),
				strVal(d.Location),
				strVal(d.PaperType),
				languageText(d.Language),
				strVal(d.Pages),
				strVal(d.Organizer),
				strconv.Itoa(d.CitationCount),
			}
		},
	},
	models.CategoryBook: {
		headers: []string{"出版社", "出版日期", "ISBN", "页数", "语言", "出版状态", "丛书名", "编辑", "国家", "城市", "字数"},
		row: func(a *models.Achievement) []string {
			d := a.Book
			if d == nil {
				return emptyFields(11)
			}
			return []string{
				d.Publisher,
				strVal(d.PublishDate),
				strVal(d.ISBN),
				strVal(d.Pages),
				languageText(d.Language),
				bookStatusText(d.PublicationStatus),
				strVal(d.SeriesName),
				strVal(d.Editor),
				strVal(d.Country),
				strVal(d.City),
				intVal(d.WordCount),
			}
		},
	},
	models.CategoryPatent: {
		headers: []string{"申请国家", "申请号", "公开号", "IPC分类号", "CPC分类号", "专利类型", "申请日期", "生效开始日期", "生效结束日期", "专利状态", "专利权人", "发证机构", "产业化状态", "交易金额"},
		row: func(a *models.Achievement) []string {
			d := a.Patent
			if d == nil {
				return emptyFields(14)
			}
			return []string{
				strVal(d.PatentCountry),
				d.ApplicationNumber,
				strVal(d.PublicationNumber),
				strVal(d.IPCNumber),
				strVal(d.CPCNumber),
				strVal(d.PatentType),
				strVal(d.ApplicationDate),
				strVal(d.EffectiveStartDate),
				strVal(d.EffectiveEndDate),
				patentStatusText(d.Status),
				strVal(d.PatentHolder),
				strVal(d.IssuingAuthority),
				strVal(d.CommercializationStatus),
				floatVal(d.TransactionAmount),
			}
		},
	},
	models.CategoryConferenceReport: {
		headers: []string{"会议名称", "开始日期", "结束日期", "地点", "报告类型", "会议类型", "国家/地区"},
		row: func(a *models.Achievement) []string {
			d := a.ConferenceReport
			if d == nil {
				return emptyFields(7)
			}
			return []string{
				d.ConferenceName,
				strVal(d.StartDate),
				strVal(d.EndDate),
				strVal(d.Location),
				reportTypeText(d.ReportType),
				conferenceTypeText(d.ConferenceType),
				strVal(d.Country),
			}
		},
	},
	models.CategoryStandard: {
		headers: []string{"标准号", "标准类型", "发布日期", "发布机构", "标准类别", "负责单位"},
		row: func(a *models.Achievement) []string {
			d := a.Standard
			if d == nil {
				return emptyFields(6)
			}
			return []string{
				d.StandardNumber,
				standardTypeText(d.StandardType),
				strVal(d.PublishDate),
				strVal(d.PublishingOrganization),
				strVal(d.StandardCategory),
				strVal(d.ResponsibleUnit),
			}
		},
	},
	models.CategorySoftwareCopyright: {
		headers: []string{"登记号", "完成日期", "取得方式", "权利范围", "权利描述"},
		row: func(a *models.Achievement) []string {
			d := a.SoftwareCopyright
			if d == nil {
				return emptyFields(5)
			}
			return []string{
				d.RegistrationNumber,
				strVal(d.CompletionDate),
				acquisitionText(d.AcquisitionMethod),
				rightsScopeText(d.RightsScope),
				strVal(d.RightsDescription),
			}
		},
	},
	models.CategoryResearchAward: {
		headers: []string{"奖项类型", "奖项级别", "获奖日期", "颁奖机构", "国家/地区", "证书编号"},
		row: func(a *models.Achievement) []string {
			d := a.ResearchAward
			if d == nil {
				return emptyFields(6)
			}
			return []string{
				d.AwardType,
				d.AwardLevel,
				strVal(d.AwardDate),
				d.AwardingOrganization,
				strVal(d.Country),
				strVal(d.CertificateNumber),
			}
		},
	},
	models.CategoryTalentTraining: {
		headers: []string{"培养对象", "培养类型", "培养类别", "开始日期", "结束日期", "报告完成情况", "报告题目", "合作导师", "是否主要参与者"},
		row: func(a *models.Achievement) []string {
			d := a.TalentTraining
			if d == nil {
				return emptyFields(9)
			}
			return []string{
				d.TraineeName,
				strVal(d.TalentType),
				strVal(d.TrainingCategory),
				strVal(d.WorkStartDate),
				strVal(d.WorkEndDate),
				reportCompletionText(d.ReportCompletion),
				strVal(d.ReportTitle),
				strVal(d.CollaboratingProfessor),
				boolText(d.IsMainParticipant),
			}
		},
	},
	models.CategoryAcademicConference: {
		headers: []string{"会议类型", "会议名称", "开始日期", "结束日期", "地点", "主办方", "负责人", "参会人数"},
		row: func(a *models.Achievement) []string {
			d := a.AcademicConference
			if d == nil {
				return emptyFields(8)
			}
			return []string{
				conferenceTypeText(d.ConferenceType),
				d.ConferenceName,
				strVal(d.StartDate),
				strVal(d.EndDate),
				strVal(d.Location),
				strVal(d.Organizer),
				strVal(d.ResponsiblePerson),
				intVal(d.ParticipantCount),
			}
		},
	},
	models.CategoryTechTransfer: {
		headers: []string{"结果类型", "转让形式", "合同日期", "交易金额", "受让方", "合作伙伴", "申请状态", "受益状态"},
		row: func(a *models.Achievement) []string {
			d := a.TechTransfer
			if d == nil {
				return emptyFields(8)
			}
			return []string{
				strVal(d.ResultType),
				strVal(d.TransferForm),
				strVal(d.ContractDate),
				floatVal(d.TransactionAmount),
				strVal(d.Beneficiary),
				strVal(d.PartnerCompany),
				strVal(d.ApplicationStatus),
				strVal(d.BenefitStatus),
			}
		},
	},
	models.CategoryOtherResearch: {
		headers: []string{"研究类型", "数据描述", "共享范围"},
		row: func(a *models.Achievement) []string {
			d := a.OtherResearch
			if d == nil {
				return emptyFields(3)
			}
			return []string{
				strVal(d.ResearchType),
				strVal(d.DataDescription),
				strVal(d.SharingScope),
			}
		},
	},
}

// unionCSVHeaders is the cross-category column set for unscoped exports.
var unionCSVHeaders = []string{
	"期刊名称", "发表日期", "期刊级别", "影响因子", "收录情况",
	"会议名称", "会议日期", "会议地点", "论文类型",
	"出版社", "出版日期", "ISBN", "页数",
	"申请号", "专利类型", "申请日期", "专利状态", "申请国家",
	"会议报告类型", "报告日期", "报告地点",
	"标准号", "标准类型", "发布机构",
	"登记号", "完成日期", "取得方式",
	"奖项类型", "奖项级别", "获奖日期", "颁奖机构",
	"培养对象", "培养类型", "开始日期", "结束日期",
	"举办会议类型", "参会人数", "负责人",
	"转让方", "交易金额", "合同日期", "转让形式",
	"研究类型", "数据描述",
}

func unionCSVRow(a *models.Achievement) []string {
	jp := a.JournalPaper
	cp := a.ConferencePaper
	book := a.Book
	patent := a.Patent
	cr := a.ConferenceReport
	std := a.Standard
	sc := a.SoftwareCopyright
	ra := a.ResearchAward
	tt := a.TalentTraining
	ac := a.AcademicConference
	tr := a.TechTransfer
	or := a.OtherResearch

	fields := make([]string, 0, len(unionCSVHeaders))

	if jp != nil {
		fields = append(fields, jp.JournalName, strVal(jp.PublishDate), strVal(jp.JournalLevel), floatVal(jp.ImpactFactor), strings.Join(jp.IndexedBy, "; "))
	} else {
		fields = append(fields, emptyFields(5)...)
	}

	if cp != nil {
		fields = append(fields, cp.ConferenceName, strVal(cp.ConferenceStartDate), strVal(cp.Location), strVal(cp.PaperType))
	} else {
		fields = append(fields, emptyFields(4)...)
	}

	if book != nil {
		fields = append(fields, book.Publisher, strVal(book.PublishDate), strVal(book.ISBN), strVal(book.Pages))
	} else {
		fields = append(fields, emptyFields(4)...)
	}

	if patent != nil {
		fields = append(fields, patent.ApplicationNumber, strVal(patent.PatentType), strVal(patent.ApplicationDate), strVal(patent.Status), strVal(patent.PatentCountry))
	} else {
		fields = append(fields, emptyFields(5)...)
	}

	if cr != nil {
		fields = append(fields, strVal(cr.ReportType), strVal(cr.StartDate), strVal(cr.Location))
	} else {
		fields = append(fields, emptyFields(3)...)
	}

	if std != nil {
		fields = append(fields, std.StandardNumber, strVal(std.StandardType), strVal(std.PublishingOrganization))
	} else {
		fields = append(fields, emptyFields(3)...)
	}

	if sc != nil {
		fields = append(fields, sc.RegistrationNumber, strVal(sc.CompletionDate), strVal(sc.AcquisitionMethod))
	} else {
		fields = append(fields, emptyFields(3)...)
	}

	if ra != nil {
		fields = append(fields, ra.AwardType, ra.AwardLevel, strVal(ra.AwardDate), ra.AwardingOrganization)
	} else {
		fields = append(fields, emptyFields(4)...)
	}

	if tt != nil {
		fields = append(fields, tt.TraineeName, strVal(tt.TalentType), strVal(tt.WorkStartDate), strVal(tt.WorkEndDate))
	} else {
		fields = append(fields, emptyFields(4)...)
	}

	if ac != nil {
		fields = append(fields, strVal(ac.ConferenceType), intVal(ac.ParticipantCount), strVal(ac.ResponsiblePerson))
	} else {
		fields = append(fields, emptyFields(3)...)
	}

	if tr != nil {
		// Transfer rows historically printed "-" for blank contract fields.
		fields = append(fields, strVal(tr.Beneficiary), floatVal(tr.TransactionAmount), orDash(tr.ContractDate), orDash(tr.TransferForm))
	} else {
		fields = append(fields, emptyFields(4)...)
	}

	if or != nil {
		fields = append(fields, strVal(or.ResearchType), strVal(or.DataDescription))
	} else {
		fields = append(fields, emptyFields(2)...)
	}

	return fields
}

func emptyFields(n int) []string {
	return make([]string, n)
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatVal(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func boolText(p *bool) string {
	if p != nil && *p {
		return "是"
	}
	return "否"
}

func languageText(p *string) string {
	switch strVal(p) {
	case "chinese":
		return "中文"
	case "foreign":
		return "外文"
	}
	return ""
}

func publishStatusText(p *string) string {
	switch strVal(p) {
	case "published":
		return "已发表"
	case "online":
		return "在线发表"
	}
	return ""
}

func bookStatusText(p *string) string {
	switch strVal(p) {
	case "published":
		return "已出版"
	case "pending":
		return "待出版"
	}
	return ""
}

func patentStatusText(p *string) string {
	switch strVal(p) {
	case "granted":
		return "已授权"
	case "applied":
		return "已申请"
	}
	return ""
}

func reportTypeText(p *string) string {
	switch strVal(p) {
	case "invited":
		return "邀请报告"
	case "group":
		return "分组报告"
	case "poster":
		return "海报展示"
	}
	return ""
}

func conferenceTypeText(p *string) string {
	switch strVal(p) {
	case "international":
		return "国际会议"
	case "domestic":
		return "国内会议"
	}
	return ""
}

func standardTypeText(p *string) string {
	switch strVal(p) {
	case "international":
		return "国际标准"
	case "national_mandatory":
		return "国家强制标准"
	case "national_recommended":
		return "国家推荐标准"
	case "industry_mandatory":
		return "行业强制标准"
	case "industry_recommended":
		return "行业推荐标准"
	case "local":
		return "地方标准"
	case "enterprise":
		return "企业标准"
	}
	return strVal(p)
}

func acquisitionText(p *string) string {
	switch strVal(p) {
	case "original":
		return "原始取得"
	case "inherited":
		return "继受取得"
	}
	return ""
}

func rightsScopeText(p *string) string {
	switch strVal(p) {
	case "full":
		return "全部权利"
	case "partial":
		return "部分权利"
	}
	return ""
}

func reportCompletionText(p *string) string {
	switch strVal(p) {
	case "completed":
		return "已完成"
	case "not_completed":
		return "未完成"
	}
	return ""
}
