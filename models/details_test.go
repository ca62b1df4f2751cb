package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNormalizeDateAcceptsCommonLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-03-15",
		"2024/03/15",
		"2024-03-15T10:30:00Z",
		"2024-03-15 10:30:00",
	} {
		p := ptr(raw)
		require.NoError(t, normalizeDate("publish_date", &p), "layout %q", raw)
		assert.Equal(t, "2024-03-15", *p)
	}
}

func TestNormalizeDateRejectsGarbage(t *testing.T) {
	p := ptr("someday")
	assert.Error(t, normalizeDate("publish_date", &p))
}

func TestNormalizeDateBlankBecomesNil(t *testing.T) {
	p := ptr("   ")
	require.NoError(t, normalizeDate("publish_date", &p))
	assert.Nil(t, p)
}

func TestJournalPaperDefaults(t *testing.T) {
	d := &JournalPaper{JournalName: "  Nature  ", CitationCount: -3}
	require.NoError(t, d.Normalize())

	assert.Equal(t, "Nature", d.JournalName)
	assert.NotNil(t, d.IndexedBy)
	assert.Zero(t, d.CitationCount)
}

func TestJournalPaperValidation(t *testing.T) {
	d := &JournalPaper{}
	assert.Error(t, d.Validate(), "journal name is required")

	d = &JournalPaper{JournalName: "Nature", JournalLevel: ptr("5区")}
	assert.Error(t, d.Validate(), "unknown journal level")

	d = &JournalPaper{JournalName: "Nature", JournalLevel: ptr("1区"), Language: ptr("chinese")}
	assert.NoError(t, d.Validate())
}

func TestPatentValidation(t *testing.T) {
	d := &Patent{ApplicationNumber: "CN202410000001", PatentType: ptr("blueprint")}
	assert.Error(t, d.Validate(), "unknown patent type")

	d = &Patent{ApplicationNumber: "CN202410000001", PatentType: ptr("invention"), Status: ptr("granted")}
	assert.NoError(t, d.Validate())
}

func TestResearchAwardRequiredFields(t *testing.T) {
	d := &ResearchAward{AwardType: "国家自然科学奖", AwardLevel: "一等奖"}
	assert.Error(t, d.Validate(), "awarding organization is required")

	d.AwardingOrganization = "国务院"
	assert.NoError(t, d.Validate())
}

func TestOptionalEnumsAllowEmpty(t *testing.T) {
	assert.NoError(t, (&Book{Publisher: "科学出版社"}).Validate())
	assert.NoError(t, (&SoftwareCopyright{RegistrationNumber: "2024SR000001"}).Validate())
	assert.NoError(t, (&TalentTraining{TraineeName: "王五"}).Validate())
	assert.NoError(t, (&OtherResearch{}).Validate())
}
