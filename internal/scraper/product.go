package scraper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/iherb-tools/iherb-cli/internal/models"
	"github.com/iherb-tools/iherb-cli/internal/parser"
)

// ExtractProduct converts a fetched product page into a canonical record.
// Sources are tried in reliability order; each returns no record when it
// cannot yield a usable one. After a structural hit, a DOM pass enriches the
// fields that source never carries.
func ExtractProduct(page playwright.Page, html, productID, baseURL, currency string) (*models.ProductDetail, error) {
	logger := slog.Default().With("component", "extractor", "product_id", productID)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	sources := []struct {
		name    string
		extract func() (*models.ProductDetail, bool)
		enrich  bool
	}{
		{
			name: "json-ld",
			extract: func() (*models.ProductDetail, bool) {
				data, ok := parser.ExtractJSONLD(doc)
				if !ok {
					return nil, false
				}
				return parser.ProductFromJSONLD(data, productID, baseURL)
			},
			enrich: true,
		},
		{
			name: "script-globals",
			extract: func() (*models.ProductDetail, bool) {
				globals, ok := evalJSGlobals(page, logger)
				if !ok {
					return nil, false
				}
				return parser.ProductFromGlobals(globals, productID, baseURL, currency)
			},
			enrich: true,
		},
		{
			name: "page-data",
			extract: func() (*models.ProductDetail, bool) {
				data, ok := evalPageData(page, logger)
				if !ok {
					return nil, false
				}
				return parser.ProductFromPageData(data, productID, baseURL)
			},
			enrich: false,
		},
	}

	for _, src := range sources {
		product, ok := src.extract()
		if !ok {
			logger.Debug("source yielded no record", "source", src.name)
			continue
		}
		if src.enrich {
			parser.EnrichProduct(doc, product)
		}
		logger.Info("extracted product", "source", src.name)
		return validateProduct(product)
	}

	logger.Info("extracting product from DOM")
	return validateProduct(parser.ParseProductHTML(doc, productID, baseURL, currency))
}

// validateProduct rejects templated empty pages that never triggered an
// explicit 404: no name, or no price together with no rating signal.
func validateProduct(p *models.ProductDetail) (*models.ProductDetail, error) {
	if p.Name == "" || p.Name == "Unknown Product" {
		return nil, ErrProductNotFound
	}
	if p.Price == 0 && p.Rating == nil && p.ReviewCount == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}
