package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText tries comma-separated CSS selectors in order and returns the
// flattened text of the first non-empty match.
func ExtractText(sel *goquery.Selection, selectors string) string {
	for _, s := range strings.Split(selectors, ",") {
		text := flattenText(sel.Find(strings.TrimSpace(s)).First())
		if text != "" {
			return text
		}
	}
	return ""
}

// ExtractAttr tries comma-separated CSS selectors in order and returns the
// given attribute of the first match that carries a non-empty value.
func ExtractAttr(sel *goquery.Selection, selectors, attr string) string {
	for _, s := range strings.Split(selectors, ",") {
		if v, ok := sel.Find(strings.TrimSpace(s)).First().Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func flattenText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// DetectCurrency reads the page currency from an explicit meta field first,
// then from visible price text, falling back to "" when neither is present.
func DetectCurrency(doc *goquery.Document) string {
	if code, ok := doc.Find("meta[itemprop='priceCurrency']").First().Attr("content"); ok {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			return code
		}
	}
	text := ExtractText(doc.Selection, "span.price bdi, div.price bdi, .product-price bdi")
	return DetectCurrencyText(text)
}

// IsNotFoundPage reports whether the HTML is an explicit 404 page.
func IsNotFoundPage(html string) bool {
	return strings.Contains(html, "Page Not Found") ||
		strings.Contains(html, "<title>404</title>") ||
		strings.Contains(html, "404 Not Found")
}
