package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"research-achievement-api/models"
)

type ExportServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *ExportService
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	achievements := NewAchievementService(suite.db)
	suite.svc = NewExportService(achievements)

	_, err := achievements.Create(journalInput("蛋白质折叠研究", "u1",
		AuthorInput{Name: "张三", Order: 1, IsFirst: true},
		AuthorInput{Name: "李四", Order: 2, IsCorresponding: true},
	))
	suite.Require().NoError(err)
}

func (suite *ExportServiceTestSuite) TestCategoryExport() {
	filename, content, err := suite.svc.CSV(AchievementQuery{
		Category: models.CategoryJournalPaper,
	})
	suite.Require().NoError(err)

	text := string(content)
	suite.True(strings.HasPrefix(text, "\uFEFF"), "export must start with a BOM")

	lines := strings.Split(strings.TrimPrefix(text, "\uFEFF"), "\n")
	suite.Require().Len(lines, 2)
	suite.True(strings.HasPrefix(lines[0], `"成果标题","成果类型","作者"`))
	suite.Contains(lines[0], `"期刊名称"`)
	suite.Contains(lines[1], `"蛋白质折叠研究"`)
	suite.Contains(lines[1], `"期刊论文"`)
	suite.Contains(lines[1], `"张三; 李四"`)
	suite.Contains(lines[1], `"Nature Communications"`)
	suite.Contains(lines[1], `"1区"`)

	suite.Regexp(regexp.MustCompile(`^期刊论文_\d{8}_\d{6}\.csv$`), filename)
}

func (suite *ExportServiceTestSuite) TestUnionExport() {
	filename, content, err := suite.svc.CSV(AchievementQuery{})
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimPrefix(string(content), "\uFEFF"), "\n")
	suite.Require().Len(lines, 2)
	suite.Contains(lines[0], `"期刊名称"`)
	suite.Contains(lines[0], `"申请号"`)
	suite.Contains(lines[0], `"转让形式"`)

	// Every row carries the full union column set
	suite.Equal(strings.Count(lines[0], `","`), strings.Count(lines[1], `","`))

	suite.Regexp(regexp.MustCompile(`^全部成果_\d{8}_\d{6}\.csv$`), filename)
}

func (suite *ExportServiceTestSuite) TestQuotesAreDoubled() {
	achievements := NewAchievementService(suite.db)
	in := journalInput(`含"引号"的标题`, "u1")
	_, err := achievements.Create(in)
	suite.Require().NoError(err)

	_, content, err := suite.svc.CSV(AchievementQuery{
		Category: models.CategoryJournalPaper,
		Keyword:  "引号",
	})
	suite.Require().NoError(err)
	suite.Contains(string(content), `"含""引号""的标题"`)
}

func (suite *ExportServiceTestSuite) TestEmptyResultIsAnError() {
	_, _, err := suite.svc.CSV(AchievementQuery{
		Category: models.CategoryBook,
	})
	suite.ErrorIs(err, ErrNothingToExport)
}

func TestExportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
