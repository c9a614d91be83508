package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

// ParseSearchHTML extracts search results from result-card markup. Cards that
// yield neither a name nor an identifier are dropped, not failed.
func ParseSearchHTML(doc *goquery.Document, query, baseURL, fallbackCurrency string) *models.SearchResult {
	currency := DetectCurrency(doc)
	if currency == "" {
		currency = fallbackCurrency
	}

	result := &models.SearchResult{Query: query}
	if total, ok := extractTotalResults(doc); ok {
		result.TotalResults = models.Uint(total)
	}

	doc.Find("div.product-cell-container").Each(func(_ int, card *goquery.Selection) {
		if summary, ok := parseProductCard(card, baseURL, currency); ok {
			result.Products = append(result.Products, *summary)
		}
	})

	return result
}

func parseProductCard(card *goquery.Selection, baseURL, currency string) (*models.ProductSummary, bool) {
	link := card.Find("a.absolute-link.product-link, a.product-link").First()

	id := linkAttr(link, "data-product-id", "data-ga-product-id")
	if id == "" {
		if href, ok := link.Attr("href"); ok {
			id = TrailingNumericSegment(href)
		}
	}
	if id == "" {
		return nil, false
	}

	name := ExtractAttr(card, "div.product-title", "content")
	if name == "" {
		name = ExtractText(card, "div.product-title bdi, div.product-title")
	}
	if name == "" {
		name = linkAttr(link, "title")
	}
	if name == "" {
		return nil, false
	}

	p := &models.ProductSummary{
		Name:      name,
		Brand:     linkAttr(link, "data-ga-brand-name"),
		Currency:  currency,
		ProductID: id,
		InStock:   true,
	}

	if price, ok := ParsePrice(ExtractAttr(card, "meta[itemprop='price']", "content")); ok {
		p.Price = price
	} else if price, ok := ParsePrice(linkAttr(link, "data-ga-discount-price")); ok {
		p.Price = price
	}

	if original, ok := ParsePrice(ExtractText(card, "span.price-olp bdi, span.price-olp")); ok {
		p.SetOriginalPrice(original)
	}

	if rating, ok := ratingFromStars(card); ok {
		p.Rating = models.Float(rating)
	}
	if count, ok := ParseReviewCount(ExtractText(card, "a.rating-count span")); ok {
		p.ReviewCount = models.Uint(count)
	}

	if out := ExtractAttr(card, "div.product.ga-product, div.product", "data-is-out-of-stock"); out != "" {
		p.InStock = !strings.EqualFold(out, "true")
	} else if out := linkAttr(link, "data-ga-is-out-of-stock"); out != "" {
		p.InStock = !strings.EqualFold(out, "true")
	}

	if href, ok := link.Attr("href"); ok && href != "" {
		p.ProductURL = absoluteURL(baseURL, href)
	} else {
		p.ProductURL = productURL(baseURL, id)
	}

	return p, true
}

func linkAttr(link *goquery.Selection, attrs ...string) string {
	for _, attr := range attrs {
		if v, ok := link.Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// extractTotalResults reads the site-reported result count: the hidden
// product-count span first, then the "1 - 48 of 12,008 results" text.
func extractTotalResults(doc *goquery.Document) (uint, bool) {
	if count, ok := doc.Find("span#product-count").First().Attr("data-count"); ok {
		if n, err := strconv.ParseUint(strings.ReplaceAll(count, ",", ""), 10, 32); err == nil && n > 0 {
			return uint(n), true
		}
	}

	text := ExtractText(doc.Selection, "div.sub-sort-title.display-items, .display-items")
	if _, after, found := strings.Cut(text, "of "); found {
		var digits strings.Builder
		for _, r := range after {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			} else if r != ',' {
				break
			}
		}
		if n, err := strconv.ParseUint(digits.String(), 10, 32); err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}

// TrailingNumericSegment returns the last all-digit path segment of a URL.
func TrailingNumericSegment(url string) string {
	segments := strings.Split(url, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s == "" {
			continue
		}
		allDigits := true
		for _, r := range s {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return s
		}
	}
	return ""
}
