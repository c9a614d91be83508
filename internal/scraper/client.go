package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iherb-tools/iherb-cli/internal/browser"
	"github.com/iherb-tools/iherb-cli/internal/cache"
	"github.com/iherb-tools/iherb-cli/internal/config"
	"github.com/iherb-tools/iherb-cli/internal/models"
	"github.com/iherb-tools/iherb-cli/internal/parser"
	"github.com/iherb-tools/iherb-cli/internal/ratelimit"
)

const navigationRetries = 2

// Client fetches canonical records, checking the artifact cache before going
// to the site and repopulating it afterwards. One browser session is shared
// across calls and launched only when a fetch actually happens.
type Client struct {
	cfg      *config.Config
	launcher *browser.Launcher
	cache    *cache.Cache
	nav      *Navigator
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
}

func NewClient(cfg *config.Config, launcher *browser.Launcher) *Client {
	return &Client{
		cfg:      cfg,
		launcher: launcher,
		cache:    cache.New(cfg.CacheDir, cfg.NoCache),
		nav:      NewNavigator(cfg.Delay),
		limiter:  ratelimit.New(cfg.Delay),
		logger:   slog.Default().With("component", "client"),
	}
}

// Product fetches the canonical detail record for a product id or URL.
func (c *Client) Product(ctx context.Context, idOrURL string) (*models.ProductDetail, error) {
	productID, err := ParseProductIdentifier(idOrURL)
	if err != nil {
		return nil, err
	}

	var cached models.ProductDetail
	if c.cache.GetProduct(productID, &cached) {
		return &cached, nil
	}

	session, err := c.launcher.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	page, err := session.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	url := fmt.Sprintf("%s/pr/item/%s", c.cfg.BaseURL(), productID)
	html, err := c.nav.NavigateWithRetry(ctx, page, url, navigationRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}

	if parser.IsNotFoundPage(html) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	product, err := ExtractProduct(page, html, productID, c.cfg.BaseURL(), c.cfg.Currency)
	if err != nil {
		return nil, err
	}

	// Persistence is best effort; the record is returned regardless.
	if err := c.cache.SetProduct(productID, product); err != nil {
		c.logger.Debug("failed to cache product", "error", err)
	}

	return product, nil
}

// Search fetches up to limit results for a query, paging sequentially and
// stopping early once the limit is met or a page comes back empty.
func (c *Client) Search(ctx context.Context, query string, limit int, sort SortOrder, category string) (*models.SearchResult, error) {
	var cached models.SearchResult
	if c.cache.GetSearch(query, sort.CacheKey(), category, &cached) {
		truncate(&cached, limit)
		return &cached, nil
	}

	session, err := c.launcher.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	page, err := session.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	result, err := c.collectSearchPages(ctx, query, limit, func(ctx context.Context, pageNum int) (*models.SearchResult, error) {
		url := BuildSearchURL(c.cfg.BaseURL(), query, sort, category, pageNum)
		html, err := c.nav.NavigateWithRetry(ctx, page, url, navigationRetries)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch search page: %w", err)
		}
		return ExtractSearch(page, html, query, c.cfg.BaseURL(), c.cfg.Currency)
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetSearch(query, sort.CacheKey(), category, result); err != nil {
		c.logger.Debug("failed to cache search results", "error", err)
	}

	return result, nil
}

// collectSearchPages drives the sequential pagination loop: pages are fetched
// one at a time with the rate limiter between them, stopping early once the
// limit is met or a page comes back empty.
func (c *Client) collectSearchPages(ctx context.Context, query string, limit int, fetch func(ctx context.Context, pageNum int) (*models.SearchResult, error)) (*models.SearchResult, error) {
	result := &models.SearchResult{Query: query}
	totalPages := PagesNeeded(limit)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if len(result.Products) >= limit {
			break
		}
		if pageNum > 1 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		pageResult, err := fetch(ctx, pageNum)
		if err != nil {
			return nil, err
		}
		if len(pageResult.Products) == 0 {
			// End of results, not an error.
			break
		}

		if result.TotalResults == nil {
			result.TotalResults = pageResult.TotalResults
		}
		result.Products = append(result.Products, pageResult.Products...)
	}

	if len(result.Products) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}
	truncate(result, limit)
	return result, nil
}

func truncate(result *models.SearchResult, limit int) {
	if limit >= 0 && len(result.Products) > limit {
		result.Products = result.Products[:limit]
	}
}

// ParseProductIdentifier accepts a bare numeric id or a product URL whose
// trailing numeric path segment is the id.
func ParseProductIdentifier(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input != "" && isAllDigits(input) {
		return input, nil
	}
	if strings.Contains(input, "iherb.com") {
		if id := parser.TrailingNumericSegment(input); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q (use a numeric id or a full product URL)", ErrInvalidIdentifier, input)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
