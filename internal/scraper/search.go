package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/iherb-tools/iherb-cli/internal/models"
	"github.com/iherb-tools/iherb-cli/internal/parser"
)

// ResultsPerPage is the site's fixed search page size.
const ResultsPerPage = 48

// SortOrder selects the site-side ordering of search results.
type SortOrder string

const (
	SortRelevance   SortOrder = "relevance"
	SortPriceAsc    SortOrder = "price-asc"
	SortPriceDesc   SortOrder = "price-desc"
	SortRating      SortOrder = "rating"
	SortBestSelling SortOrder = "best-selling"
)

// ParseSortOrder validates a user-supplied sort token.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortBestSelling:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("invalid sort order %q (use relevance, price-asc, price-desc, rating or best-selling)", s)
}

func (s SortOrder) urlParam() string {
	switch s {
	case SortPriceAsc:
		return "&sr=4"
	case SortPriceDesc:
		return "&sr=3"
	case SortRating:
		return "&sr=1"
	case SortBestSelling:
		return "&sr=2"
	}
	return ""
}

// CacheKey returns the token this sort order contributes to the search cache
// key.
func (s SortOrder) CacheKey() string {
	return string(s)
}

// BuildSearchURL assembles a search page URL for one result page.
func BuildSearchURL(baseURL, query string, sort SortOrder, category string, pageNum int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/search?kw=%s%s", baseURL, url.QueryEscape(query), sort.urlParam())
	if category != "" {
		fmt.Fprintf(&b, "&cids=%s", url.QueryEscape(category))
	}
	if pageNum > 1 {
		fmt.Fprintf(&b, "&p=%d", pageNum)
	}
	return b.String()
}

// PagesNeeded translates a requested result count into a page count.
func PagesNeeded(limit int) int {
	if limit <= 0 {
		return 0
	}
	return (limit + ResultsPerPage - 1) / ResultsPerPage
}

// ExtractSearch converts one fetched search page into a result: the page-data
// blob when present, result-card scraping otherwise.
func ExtractSearch(page playwright.Page, html, query, baseURL, currency string) (*models.SearchResult, error) {
	logger := slog.Default().With("component", "extractor", "query", query)

	if data, ok := evalPageData(page, logger); ok {
		if result, ok := parser.SearchFromPageData(data, query, baseURL); ok {
			logger.Info("extracted search results from page data", "count", len(result.Products))
			return result, nil
		}
		logger.Debug("page data yielded no search results, falling back to DOM")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := parser.ParseSearchHTML(doc, query, baseURL, currency)
	logger.Info("extracted search results from DOM", "count", len(result.Products))
	return result, nil
}
