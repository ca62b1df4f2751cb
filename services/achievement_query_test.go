package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"research-achievement-api/models"
)

type AchievementQueryTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AchievementService
}

func (suite *AchievementQueryTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.svc = NewAchievementService(suite.db)
}

func (suite *AchievementQueryTestSuite) create(in AchievementInput) *models.Achievement {
	created, err := suite.svc.Create(in)
	suite.Require().NoError(err)
	return created
}

func (suite *AchievementQueryTestSuite) patentInput(title, userID string, authors ...AuthorInput) AchievementInput {
	if len(authors) == 0 {
		authors = []AuthorInput{{Name: "张三", Order: 1}}
	}
	return AchievementInput{
		Title:    title,
		Category: models.CategoryPatent,
		UserID:   userID,
		Authors:  authors,
		Detail: &models.Patent{
			ApplicationNumber: "CN202410000001",
			ApplicationDate:   strptr("2024-05-01"),
		},
	}
}

func (suite *AchievementQueryTestSuite) TestKeywordFilterIsCaseInsensitive() {
	in := journalInput("Deep Learning for Protein Folding", "u1")
	suite.create(in)
	suite.create(journalInput("其他成果", "u1"))

	page, err := suite.svc.List(AchievementQuery{Keyword: "deep learning"})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
	suite.Require().Len(page.Data, 1)
	suite.Equal("Deep Learning for Protein Folding", page.Data[0].Title)
}

func (suite *AchievementQueryTestSuite) TestCategoryAndUserFilters() {
	suite.create(journalInput("论文甲", "u1"))
	suite.create(suite.patentInput("专利乙", "u1"))
	suite.create(suite.patentInput("专利丙", "u2"))

	page, err := suite.svc.List(AchievementQuery{
		Category: models.CategoryPatent,
		UserID:   "u1",
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
	suite.Equal("专利乙", page.Data[0].Title)
}

func (suite *AchievementQueryTestSuite) TestUnknownAuthorReturnsEmptyPage() {
	suite.create(journalInput("论文甲", "u1"))

	page, err := suite.svc.List(AchievementQuery{AuthorName: "不存在的人"})
	suite.Require().NoError(err)
	suite.EqualValues(0, page.Total)
	suite.Empty(page.Data)
}

func (suite *AchievementQueryTestSuite) TestAuthorFilterMatchesAnyPosition() {
	suite.create(journalInput("论文甲", "u1",
		AuthorInput{Name: "张三", Order: 1, IsFirst: true},
		AuthorInput{Name: "李四", Order: 2},
	))

	page, err := suite.svc.List(AchievementQuery{AuthorName: "李四"})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
}

func (suite *AchievementQueryTestSuite) TestPrimaryOnlyPaperCategoryUsesRoleTags() {
	suite.create(journalInput("一作论文", "u1",
		AuthorInput{Name: "张三", Order: 1, IsFirst: true},
		AuthorInput{Name: "李四", Order: 2},
	))
	suite.create(journalInput("挂名论文", "u1",
		AuthorInput{Name: "王五", Order: 1, IsFirst: true},
		AuthorInput{Name: "张三", Order: 2},
	))

	page, err := suite.svc.List(AchievementQuery{
		AuthorName:  "张三",
		Category:    models.CategoryJournalPaper,
		PrimaryOnly: true,
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
	suite.Equal("一作论文", page.Data[0].Title)
}

func (suite *AchievementQueryTestSuite) TestPrimaryOnlyOtherCategoryUsesAuthorOrder() {
	suite.create(suite.patentInput("第一发明人", "u1",
		AuthorInput{Name: "张三", Order: 1},
		AuthorInput{Name: "李四", Order: 2},
	))
	suite.create(suite.patentInput("第二发明人", "u1",
		AuthorInput{Name: "李四", Order: 1},
		AuthorInput{Name: "张三", Order: 2},
	))

	page, err := suite.svc.List(AchievementQuery{
		AuthorName:  "张三",
		Category:    models.CategoryPatent,
		PrimaryOnly: true,
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
	suite.Equal("第一发明人", page.Data[0].Title)
}

// Without a category the primary toggle cannot pick a branch, so it does
// not narrow at all.
func (suite *AchievementQueryTestSuite) TestPrimaryOnlyWithoutCategoryDoesNotNarrow() {
	suite.create(journalInput("任意位置", "u1",
		AuthorInput{Name: "王五", Order: 1, IsFirst: true},
		AuthorInput{Name: "张三", Order: 2},
	))

	page, err := suite.svc.List(AchievementQuery{
		AuthorName:  "张三",
		PrimaryOnly: true,
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
}

func (suite *AchievementQueryTestSuite) TestDateFilterExcludesMissingField() {
	inRange := journalInput("在区间内", "u1")
	suite.create(inRange)

	noDate := journalInput("无日期", "u1")
	noDate.Detail = &models.JournalPaper{JournalName: "Science"}
	suite.create(noDate)

	outOfRange := journalInput("区间外", "u1")
	outOfRange.Detail = &models.JournalPaper{
		JournalName: "Cell",
		PublishDate: strptr("2020-01-01"),
	}
	suite.create(outOfRange)

	page, err := suite.svc.List(AchievementQuery{
		Category: models.CategoryJournalPaper,
		DateFilters: map[string]DateRange{
			"journal_publish_date": {Start: "2024-01-01", End: "2024-12-31"},
		},
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, page.Total)
	suite.Equal("在区间内", page.Data[0].Title)
}

func (suite *AchievementQueryTestSuite) TestDateFilterTotalsMatchRows() {
	for _, title := range []string{"一", "二", "三"} {
		suite.create(journalInput(title, "u1"))
	}
	noDate := journalInput("无日期", "u1")
	noDate.Detail = &models.JournalPaper{JournalName: "Science"}
	suite.create(noDate)

	page, err := suite.svc.List(AchievementQuery{
		PageSize: 2,
		DateFilters: map[string]DateRange{
			"journal_publish_date": {Start: "2024-01-01", End: "2024-12-31"},
		},
	})
	suite.Require().NoError(err)
	// Total is counted after filtering, so it agrees with the filtered rows
	suite.EqualValues(3, page.Total)
	suite.Len(page.Data, 2)
}

func (suite *AchievementQueryTestSuite) TestJournalLevelSort() {
	second := journalInput("二区", "u1")
	second.Detail = &models.JournalPaper{JournalName: "J2", JournalLevel: strptr("2区")}
	suite.create(second)

	first := journalInput("一区", "u1")
	first.Detail = &models.JournalPaper{JournalName: "J1", JournalLevel: strptr("1区")}
	suite.create(first)

	unranked := journalInput("无级别", "u1")
	unranked.Detail = &models.JournalPaper{JournalName: "J0"}
	suite.create(unranked)

	page, err := suite.svc.List(AchievementQuery{
		Category: models.CategoryJournalPaper,
		SortBy:   "journal_level",
	})
	suite.Require().NoError(err)
	suite.Require().Len(page.Data, 3)
	suite.Equal("一区", page.Data[0].Title)
	suite.Equal("二区", page.Data[1].Title)
	suite.Equal("无级别", page.Data[2].Title)
}

func (suite *AchievementQueryTestSuite) TestUnsafeSortColumnFallsBack() {
	suite.create(journalInput("甲", "u1"))

	_, err := suite.svc.List(AchievementQuery{SortBy: "password; DROP TABLE users"})
	suite.NoError(err)
}

func (suite *AchievementQueryTestSuite) TestPagination() {
	for _, title := range []string{"一", "二", "三", "四", "五"} {
		suite.create(journalInput(title, "u1"))
	}

	page, err := suite.svc.List(AchievementQuery{Page: 2, PageSize: 2})
	suite.Require().NoError(err)
	suite.EqualValues(5, page.Total)
	suite.Len(page.Data, 2)
	suite.Equal(2, page.Page)
}

func (suite *AchievementQueryTestSuite) TestListAllSpansMultipleBatches() {
	total := exportBatchSize + 5
	for i := 0; i < total; i++ {
		suite.create(journalInput(fmt.Sprintf("成果%04d", i), "u1"))
	}

	all, err := suite.svc.ListAll(AchievementQuery{})
	suite.Require().NoError(err)
	suite.Len(all, total)

	titles := make(map[string]bool, total)
	for _, a := range all {
		titles[a.Title] = true
	}
	suite.Len(titles, total)
}

func TestAchievementQueryTestSuite(t *testing.T) {
	suite.Run(t, new(AchievementQueryTestSuite))
}
