package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOrder(t *testing.T) {
	for _, valid := range []string{"relevance", "price-asc", "price-desc", "rating", "best-selling"} {
		sort, err := ParseSortOrder(valid)
		require.NoError(t, err)
		assert.Equal(t, SortOrder(valid), sort)
	}

	_, err := ParseSortOrder("cheapest")
	assert.Error(t, err)
	_, err = ParseSortOrder("")
	assert.Error(t, err)
}

func TestBuildSearchURL(t *testing.T) {
	base := "https://www.iherb.com"

	tests := []struct {
		name     string
		query    string
		sort     SortOrder
		category string
		pageNum  int
		expected string
	}{
		{
			name:     "First page relevance",
			query:    "vitamin d",
			sort:     SortRelevance,
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=vitamin+d",
		},
		{
			name:     "Price ascending",
			query:    "zinc",
			sort:     SortPriceAsc,
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=zinc&sr=4",
		},
		{
			name:     "Price descending",
			query:    "zinc",
			sort:     SortPriceDesc,
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=zinc&sr=3",
		},
		{
			name:     "Rating",
			query:    "zinc",
			sort:     SortRating,
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=zinc&sr=1",
		},
		{
			name:     "Best selling",
			query:    "zinc",
			sort:     SortBestSelling,
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=zinc&sr=2",
		},
		{
			name:     "Category filter",
			query:    "protein",
			sort:     SortRelevance,
			category: "sports nutrition",
			pageNum:  1,
			expected: "https://www.iherb.com/search?kw=protein&cids=sports+nutrition",
		},
		{
			name:     "Later page",
			query:    "magnesium",
			sort:     SortRelevance,
			pageNum:  3,
			expected: "https://www.iherb.com/search?kw=magnesium&p=3",
		},
		{
			name:     "Everything combined",
			query:    "omega 3",
			sort:     SortRating,
			category: "supplements",
			pageNum:  2,
			expected: "https://www.iherb.com/search?kw=omega+3&sr=1&cids=supplements&p=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildSearchURL(base, tt.query, tt.sort, tt.category, tt.pageNum))
		})
	}
}

func TestPagesNeeded(t *testing.T) {
	tests := []struct {
		limit    int
		expected int
	}{
		{limit: 0, expected: 0},
		{limit: -5, expected: 0},
		{limit: 1, expected: 1},
		{limit: 10, expected: 1},
		{limit: 48, expected: 1},
		{limit: 49, expected: 2},
		{limit: 96, expected: 2},
		{limit: 100, expected: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PagesNeeded(tt.limit), "limit %d", tt.limit)
	}
}
