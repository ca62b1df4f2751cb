package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRegistryCoversEveryCategory(t *testing.T) {
	require.Len(t, categoryRegistry, len(CategoryOrder))

	for _, c := range CategoryOrder {
		cfg, ok := CategoryConfigFor(c)
		require.True(t, ok, "missing registry entry for %s", c)
		assert.NotEmpty(t, cfg.Label)
		assert.NotNil(t, cfg.New)
		assert.NotNil(t, cfg.Detail)
		assert.NotNil(t, cfg.SetDetail)

		detail := cfg.New()
		require.NotNil(t, detail)
		assert.Equal(t, cfg.Table, detail.TableName())
	}
}

func TestCategoryDetailRoundTrip(t *testing.T) {
	for _, c := range CategoryOrder {
		cfg, _ := CategoryConfigFor(c)
		a := &Achievement{Category: c}

		assert.Nil(t, cfg.Detail(a), "fresh achievement should have no %s detail", c)

		detail := cfg.New()
		cfg.SetDetail(a, detail)
		assert.Equal(t, detail, cfg.Detail(a))
	}
}

func TestPaperCategories(t *testing.T) {
	assert.True(t, IsPaperCategory(CategoryJournalPaper))
	assert.True(t, IsPaperCategory(CategoryConferencePaper))
	assert.False(t, IsPaperCategory(CategoryPatent))
	assert.False(t, IsPaperCategory(Category("bogus")))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryTechTransfer))
	assert.False(t, ValidCategory(Category("grant")))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "期刊论文", CategoryLabel(CategoryJournalPaper))
	assert.Equal(t, "bogus", CategoryLabel(Category("bogus")))
}
