package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

func sampleProduct() *models.ProductDetail {
	return &models.ProductDetail{
		ProductSummary: models.ProductSummary{
			Name:      "Now Foods, Vitamin D-3",
			Brand:     "Now Foods",
			Price:     9.09,
			Currency:  "USD",
			ProductID: "372",
			InStock:   true,
		},
	}
}

func TestCacheProductRoundTrip(t *testing.T) {
	c := New(t.TempDir(), false)

	var miss models.ProductDetail
	assert.False(t, c.GetProduct("372", &miss), "empty cache misses")

	require.NoError(t, c.SetProduct("372", sampleProduct()))

	var hit models.ProductDetail
	require.True(t, c.GetProduct("372", &hit))
	assert.Equal(t, "Now Foods, Vitamin D-3", hit.Name)
	assert.InDelta(t, 9.09, hit.Price, 0.001)
}

func TestCacheProductExpiry(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, false)
	require.NoError(t, c.SetProduct("372", sampleProduct()))

	// Age the artifact just past the freshness window.
	path := filepath.Join(dir, "product_372.json")
	stale := time.Now().Add(-ProductTTL - time.Minute)
	require.NoError(t, os.Chtimes(path, stale, stale))

	var v models.ProductDetail
	assert.False(t, c.GetProduct("372", &v))
}

func TestCacheProductFreshJustInsideWindow(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, false)
	require.NoError(t, c.SetProduct("372", sampleProduct()))

	path := filepath.Join(dir, "product_372.json")
	almost := time.Now().Add(-ProductTTL + time.Minute)
	require.NoError(t, os.Chtimes(path, almost, almost))

	var v models.ProductDetail
	assert.True(t, c.GetProduct("372", &v))
}

func TestCacheBypassRead(t *testing.T) {
	dir := t.TempDir()

	warm := New(dir, false)
	require.NoError(t, warm.SetProduct("372", sampleProduct()))

	bypass := New(dir, true)
	var v models.ProductDetail
	assert.False(t, bypass.GetProduct("372", &v), "bypass always misses")

	// Writes still repopulate the cache for later runs.
	refreshed := sampleProduct()
	refreshed.Price = 8.49
	require.NoError(t, bypass.SetProduct("372", refreshed))

	var reread models.ProductDetail
	require.True(t, warm.GetProduct("372", &reread))
	assert.InDelta(t, 8.49, reread.Price, 0.001)
}

func TestCacheCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, false)

	path := filepath.Join(dir, "product_372.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v models.ProductDetail
	assert.False(t, c.GetProduct("372", &v), "unparseable artifacts are misses")
}

func TestCacheSearchRoundTrip(t *testing.T) {
	c := New(t.TempDir(), false)

	result := &models.SearchResult{
		Query:        "vitamin d",
		TotalResults: models.Uint(12008),
		Products: []models.ProductSummary{
			{Name: "Now Foods, Vitamin D-3", ProductID: "372", Price: 9.09, Currency: "USD", InStock: true},
		},
	}
	require.NoError(t, c.SetSearch("vitamin d", "relevance", "", result))

	var hit models.SearchResult
	require.True(t, c.GetSearch("vitamin d", "relevance", "", &hit))
	assert.Equal(t, "vitamin d", hit.Query)
	require.Len(t, hit.Products, 1)
	assert.Equal(t, "372", hit.Products[0].ProductID)

	var other models.SearchResult
	assert.False(t, c.GetSearch("vitamin d", "price-asc", "", &other),
		"a different sort order is a different artifact")
	assert.False(t, c.GetSearch("vitamin d", "relevance", "supplements", &other),
		"a category filter is a different artifact")
}

func TestSearchKey(t *testing.T) {
	key := SearchKey("vitamin d", "relevance", "")
	assert.Len(t, key, 16)
	assert.Regexp(t, "^[0-9a-f]+$", key)

	assert.Equal(t, key, SearchKey("vitamin d", "relevance", ""), "stable across calls")
	assert.NotEqual(t, key, SearchKey("vitamin c", "relevance", ""))
	assert.NotEqual(t, key, SearchKey("vitamin d", "rating", ""))
	assert.NotEqual(t, key, SearchKey("vitamin d", "relevance", "supplements"))
}
