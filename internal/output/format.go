// Package output renders canonical records as human-readable markdown.
package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

// Section selects one block of the product detail rendering.
type Section string

const (
	SectionOverview     Section = "overview"
	SectionDescription  Section = "description"
	SectionNutrition    Section = "nutrition"
	SectionIngredients  Section = "ingredients"
	SectionSuggestedUse Section = "suggested-use"
	SectionWarnings     Section = "warnings"
	SectionReviews      Section = "reviews"
)

var allSections = []Section{
	SectionOverview,
	SectionDescription,
	SectionNutrition,
	SectionIngredients,
	SectionSuggestedUse,
	SectionWarnings,
	SectionReviews,
}

// ParseSection validates a user-supplied section name.
func ParseSection(s string) (Section, error) {
	for _, sec := range allSections {
		if Section(s) == sec {
			return sec, nil
		}
	}
	return "", fmt.Errorf("invalid section %q", s)
}

// FormatSearchResults renders a search result as markdown.
func FormatSearchResults(result *models.SearchResult) string {
	var b strings.Builder

	totalStr := "?"
	if result.TotalResults != nil {
		totalStr = formatNumber(*result.TotalResults) + "+"
	}
	fmt.Fprintf(&b, "## Search results for %q (showing %d of %s)\n\n",
		result.Query, len(result.Products), totalStr)

	for i, p := range result.Products {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "- **Brand:** %s\n", p.Brand)
		fmt.Fprintf(&b, "- **Price:** %s\n", formatPrice(p.Price, p.OriginalPrice, p.Currency))
		if p.Rating != nil && p.ReviewCount != nil {
			fmt.Fprintf(&b, "- **Rating:** %.1f/5 (%s reviews)\n", *p.Rating, formatNumber(*p.ReviewCount))
		}
		fmt.Fprintf(&b, "- **ID:** %s\n", p.ProductID)
		fmt.Fprintf(&b, "- **URL:** %s\n", p.ProductURL)
		if i < len(result.Products)-1 {
			b.WriteString("\n---\n\n")
		}
	}

	return b.String()
}

// FormatProductDetail renders a product record, optionally restricted to one
// section.
func FormatProductDetail(p *models.ProductDetail, section Section) string {
	var b strings.Builder

	sections := allSections
	if section != "" {
		sections = []Section{section}
	} else {
		fmt.Fprintf(&b, "# %s\n\n", p.Name)
	}

	for _, sec := range sections {
		switch sec {
		case SectionOverview:
			formatOverview(p, &b)
		case SectionDescription:
			formatTextSection(&b, "Description", p.Description)
		case SectionNutrition:
			formatNutrition(p, &b)
		case SectionIngredients:
			formatTextSection(&b, "Other Ingredients", p.Ingredients)
		case SectionSuggestedUse:
			formatTextSection(&b, "Suggested Use", p.SuggestedUse)
		case SectionWarnings:
			formatTextSection(&b, "Warnings", p.Warnings)
		case SectionReviews:
			formatReviews(p, &b)
		}
	}

	return b.String()
}

func formatOverview(p *models.ProductDetail, b *strings.Builder) {
	b.WriteString("## Overview\n")
	fmt.Fprintf(b, "- **Brand:** %s\n", p.Brand)
	fmt.Fprintf(b, "- **Price:** %s\n", formatPrice(p.Price, p.OriginalPrice, p.Currency))
	if p.Rating != nil && p.ReviewCount != nil {
		fmt.Fprintf(b, "- **Rating:** %.1f/5 (%s reviews)\n", *p.Rating, formatNumber(*p.ReviewCount))
	}
	availability := "In Stock"
	if !p.InStock {
		availability = "Out of Stock"
	}
	fmt.Fprintf(b, "- **Availability:** %s\n", availability)
	if p.ProductCode != "" {
		fmt.Fprintf(b, "- **Product Code:** %s\n", p.ProductCode)
	}
	if p.ShippingWeight != "" {
		fmt.Fprintf(b, "- **Shipping Weight:** %s\n", p.ShippingWeight)
	}
	if len(p.CategoryBreadcrumb) > 0 {
		fmt.Fprintf(b, "- **Category:** %s\n", strings.Join(p.CategoryBreadcrumb, " > "))
	}
	b.WriteString("\n")
}

func formatTextSection(b *strings.Builder, title, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n%s\n\n", title, text)
}

func formatNutrition(p *models.ProductDetail, b *strings.Builder) {
	facts := p.SupplementFacts
	if facts == nil {
		return
	}
	b.WriteString("## Supplement Facts\n")
	if len(facts.Nutrients) > 0 {
		b.WriteString("| Nutrient | Amount | % Daily Value |\n")
		b.WriteString("|---|---|---|\n")
		for _, n := range facts.Nutrients {
			fmt.Fprintf(b, "| %s | %s | %s |\n", n.Name, n.Amount, n.DailyValue)
		}
		b.WriteString("\n")
	}
	if facts.ServingSize != "" {
		fmt.Fprintf(b, "- **Serving Size:** %s\n", facts.ServingSize)
	}
	if facts.ServingsPerContainer != "" {
		fmt.Fprintf(b, "- **Servings Per Container:** %s\n", facts.ServingsPerContainer)
	}
	b.WriteString("\n")
}

func formatReviews(p *models.ProductDetail, b *strings.Builder) {
	dist := p.ReviewDistribution
	if dist == nil {
		return
	}
	b.WriteString("## Reviews\n")
	if p.Rating != nil && p.ReviewCount != nil {
		fmt.Fprintf(b, "- **Average:** %.1f/5\n", *p.Rating)
		fmt.Fprintf(b, "- **Total:** %s reviews\n", formatNumber(*p.ReviewCount))
	}
	stars := []struct {
		label string
		pct   *float64
	}{
		{"5 stars", dist.FiveStar},
		{"4 stars", dist.FourStar},
		{"3 stars", dist.ThreeStar},
		{"2 stars", dist.TwoStar},
		{"1 star", dist.OneStar},
	}
	for _, s := range stars {
		if s.pct != nil {
			fmt.Fprintf(b, "- %s: %.0f%%\n", s.label, *s.pct)
		}
	}
	b.WriteString("\n")
}

func formatPrice(price float64, original *float64, currency string) string {
	symbol := currency
	switch currency {
	case "USD":
		symbol = "$"
	case "EUR":
		symbol = "€"
	case "GBP":
		symbol = "£"
	case "CHF":
		symbol = "CHF "
	}

	if original != nil && *original > price {
		discount := int(math.Round((*original - price) / *original * 100.0))
		return fmt.Sprintf("%s%.2f ~~%s%.2f~~ (%d%% off)", symbol, price, symbol, *original, discount)
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}

func formatNumber(n uint) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
