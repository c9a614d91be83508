package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

var (
	nameSelectors  = "h1#name, h1[data-testid='product-name'], h1"
	brandSelectors = "#brand a span bdi, #brand a[data-testid='product-brand-link'] span bdi"
	priceSelectors = ".purchase-option-one-time .list-price, #product-price .list-price, .price"

	widthPattern = regexp.MustCompile(`width:\s*([\d.]+)%`)
)

// ParseProductHTML extracts a product record from the DOM alone. It is the
// last stage of the cascade and also backs the enrichment pass.
func ParseProductHTML(doc *goquery.Document, productID, baseURL, fallbackCurrency string) *models.ProductDetail {
	p := &models.ProductDetail{
		ProductSummary: models.ProductSummary{
			Name:       ExtractText(doc.Selection, nameSelectors),
			Brand:      ExtractText(doc.Selection, brandSelectors),
			ProductID:  productID,
			ProductURL: productURL(baseURL, productID),
			InStock:    true,
		},
	}

	if price, original, ok := pricesFromShareInput(doc); ok {
		p.Price = price
		if original > 0 {
			p.SetOriginalPrice(original)
		}
	} else if price, ok := ParsePrice(ExtractText(doc.Selection, priceSelectors)); ok {
		p.Price = price
	}

	if cur := DetectCurrency(doc); cur != "" {
		p.Currency = cur
	} else {
		p.Currency = fallbackCurrency
	}

	if rating, ok := ratingFromStars(doc.Selection); ok {
		p.Rating = models.Float(rating)
	}
	if count, ok := ParseReviewCount(ExtractText(doc.Selection, "a.rating-count span")); ok {
		p.ReviewCount = models.Uint(count)
	}

	if stock := ExtractText(doc.Selection, "#stock-status .stock-status-content strong"); stock != "" {
		p.InStock = strings.Contains(strings.ToLower(stock), "in stock")
	}

	p.ProductCode = extractSpec(doc, "Product Code")
	p.UPC = extractSpec(doc, "UPC")
	p.ShippingWeight = extractSpec(doc, "Shipping Weight")
	p.CategoryBreadcrumb = parseBreadcrumb(doc)
	p.SupplementFacts = parseSupplementFacts(doc)
	p.ReviewDistribution = parseReviewDistribution(doc)

	parseOverviewSections(doc, p)

	return p
}

// EnrichProduct fills fields a structural source never carries, without
// overwriting fields already set. The one exception is price reconciliation:
// when the structural price turns out to be the DOM list price, the DOM
// discount price supersedes it.
func EnrichProduct(doc *goquery.Document, p *models.ProductDetail) {
	if p.Brand == "" {
		p.Brand = ExtractText(doc.Selection, brandSelectors)
	}

	if p.OriginalPrice == nil {
		if disc, list, ok := pricesFromShareInput(doc); ok && list > disc {
			p.SetOriginalPrice(list)
			// Structured sources sometimes report the list price as if it
			// were the current price.
			if p.Price >= list-0.01 && p.Price <= list+0.01 {
				p.Price = disc
			}
		}
	}

	if p.Rating == nil {
		if rating, ok := ratingFromStars(doc.Selection); ok {
			p.Rating = models.Float(rating)
		}
	}
	if p.ReviewCount == nil {
		if count, ok := ParseReviewCount(ExtractText(doc.Selection, "a.rating-count span")); ok {
			p.ReviewCount = models.Uint(count)
		}
	}

	if stock := ExtractText(doc.Selection, "#stock-status .stock-status-content strong"); stock != "" {
		p.InStock = strings.Contains(strings.ToLower(stock), "in stock")
	}

	if p.ShippingWeight == "" {
		p.ShippingWeight = extractSpec(doc, "Shipping Weight")
	}
	if p.ProductCode == "" {
		p.ProductCode = extractSpec(doc, "Product Code")
	}
	if p.UPC == "" {
		p.UPC = extractSpec(doc, "UPC")
	}
	if p.CategoryBreadcrumb == nil {
		p.CategoryBreadcrumb = parseBreadcrumb(doc)
	}

	parseOverviewSections(doc, p)

	if p.SupplementFacts == nil {
		p.SupplementFacts = parseSupplementFacts(doc)
	}
	if p.ReviewDistribution == nil {
		p.ReviewDistribution = parseReviewDistribution(doc)
	}
}

// pricesFromShareInput reads the hidden share-email input that carries both
// the list and the discount price as data attributes.
func pricesFromShareInput(doc *goquery.Document) (price, list float64, ok bool) {
	el := doc.Find("input#share-email-model").First()
	if el.Length() == 0 {
		return 0, 0, false
	}
	listPrice, hasList := attrPrice(el, "data-list-price")
	discPrice, hasDisc := attrPrice(el, "data-discount-price")

	switch {
	case hasDisc && hasList:
		return discPrice, listPrice, true
	case hasDisc:
		return discPrice, 0, true
	case hasList:
		return listPrice, 0, true
	}
	return 0, 0, false
}

func attrPrice(sel *goquery.Selection, attr string) (float64, bool) {
	v, ok := sel.Attr(attr)
	if !ok {
		return 0, false
	}
	return ParsePrice(v)
}

// ratingFromStars parses the star link title, e.g. "4.8/5 - 42,328 Reviews".
func ratingFromStars(sel *goquery.Selection) (float64, bool) {
	title := ExtractAttr(sel, "a.stars.scroll-to, a.stars", "title")
	if title == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(title, "/")
	v, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
	return v, err == nil
}

// extractSpec reads a "<Label>: <value>" entry from the product specs list.
func extractSpec(doc *goquery.Document, label string) string {
	var value string
	doc.Find("#product-specs-list li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := flattenText(li)
		if !strings.HasPrefix(text, label) {
			return true
		}
		if _, after, found := strings.Cut(text, ":"); found {
			if after = strings.TrimSpace(after); after != "" {
				value = after
				return false
			}
		}
		if span := flattenText(li.Find("span").First()); span != "" {
			value = span
			return false
		}
		return true
	})
	return value
}

func parseBreadcrumb(doc *goquery.Document) []string {
	var crumbs []string
	doc.Find("#breadCrumbs a, nav.breadcrumbs a, .breadcrumb a").Each(func(_ int, a *goquery.Selection) {
		if text := flattenText(a); text != "" {
			crumbs = append(crumbs, text)
		}
	})
	return crumbs
}

// parseOverviewSections locates free-text sections by heading match and takes
// the flattened text of the following content block. The first heading per
// section wins; later headings with the same label are ignored.
func parseOverviewSections(doc *goquery.Document, p *models.ProductDetail) {
	if p.Ingredients == "" {
		p.Ingredients = ExtractText(doc.Selection, ".prodOverviewIngred")
	}

	doc.Find("#product-overview h3").Each(func(_ int, h3 *goquery.Selection) {
		heading := strings.ToLower(flattenText(h3))
		content := flattenText(h3.NextAllFiltered("div").First())
		if content == "" {
			return
		}
		switch {
		case strings.Contains(heading, "suggested use") && p.SuggestedUse == "":
			p.SuggestedUse = content
		case strings.Contains(heading, "warning") && p.Warnings == "":
			p.Warnings = content
		case strings.Contains(heading, "description") && p.Description == "":
			p.Description = content
		}
	})
}

// parseSupplementFacts reads the supplement facts table. Single-cell rows are
// serving-size meta rows; multi-cell rows are nutrients unless the first cell
// is a header phrase or a footnote marker. A table yielding neither nutrients
// nor a serving size is treated as no supplement facts at all.
func parseSupplementFacts(doc *goquery.Document) *models.SupplementFacts {
	table := doc.Find(".supplement-facts-container table, table.supplement-facts-table").First()
	if table.Length() == 0 {
		return nil
	}

	facts := &models.SupplementFacts{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, flattenText(cell))
		})

		if len(cells) == 1 {
			lower := strings.ToLower(cells[0])
			if strings.Contains(lower, "serving size") {
				facts.ServingSize = afterColon(cells[0])
			} else if strings.Contains(lower, "servings per") {
				facts.ServingsPerContainer = afterColon(cells[0])
			}
			return
		}
		if len(cells) < 2 {
			return
		}

		first := cells[0]
		lower := strings.ToLower(first)
		if first == "" ||
			strings.Contains(lower, "amount per") ||
			strings.Contains(lower, "% daily") ||
			strings.Contains(lower, "supplement") {
			return
		}
		if strings.HasPrefix(first, "†") || strings.HasPrefix(first, "*") {
			return
		}

		n := models.Nutrient{Name: first, Amount: cells[1]}
		if len(cells) > 2 && cells[2] != "" {
			n.DailyValue = cells[2]
		}
		facts.Nutrients = append(facts.Nutrients, n)
	})

	if len(facts.Nutrients) == 0 && facts.ServingSize == "" {
		return nil
	}
	return facts
}

func afterColon(s string) string {
	if _, after, found := strings.Cut(s, ":"); found {
		return strings.TrimSpace(after)
	}
	return ""
}

// parseReviewDistribution reads the rating-bar container: each per-star row
// names its star level in the label text and carries the percentage as a
// width style on the fill element.
func parseReviewDistribution(doc *goquery.Document) *models.ReviewDistribution {
	container := doc.Find("[data-testid='rating-distribution'], .rating-distribution").First()
	if container.Length() == 0 {
		return nil
	}

	dist := &models.ReviewDistribution{}
	container.Find("[data-testid='rating-bar'], .rating-bar").Each(func(_ int, row *goquery.Selection) {
		star := starLevel(flattenText(row))
		if star == 0 {
			return
		}
		style, _ := row.Find("[style*='width']").First().Attr("style")
		m := widthPattern.FindStringSubmatch(style)
		if m == nil {
			return
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
		switch star {
		case 5:
			dist.FiveStar = models.Float(pct)
		case 4:
			dist.FourStar = models.Float(pct)
		case 3:
			dist.ThreeStar = models.Float(pct)
		case 2:
			dist.TwoStar = models.Float(pct)
		case 1:
			dist.OneStar = models.Float(pct)
		}
	})

	if dist.Empty() {
		return nil
	}
	return dist
}

func starLevel(label string) int {
	for _, r := range label {
		if r >= '1' && r <= '5' {
			return int(r - '0')
		}
	}
	return 0
}
