package models

// ProductSummary is one row of a search result. Summaries are built once by the
// extraction pipeline and never mutated afterwards.
type ProductSummary struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   *uint    `json:"review_count,omitempty"`
	ProductURL    string   `json:"product_url"`
	ProductID     string   `json:"product_id"`
	InStock       bool     `json:"in_stock"`
}

// ProductDetail is the full canonical product record.
type ProductDetail struct {
	ProductSummary

	Description        string              `json:"description,omitempty"`
	ProductCode        string              `json:"product_code,omitempty"`
	UPC                string              `json:"upc,omitempty"`
	Ingredients        string              `json:"ingredients,omitempty"`
	SupplementFacts    *SupplementFacts    `json:"supplement_facts,omitempty"`
	SuggestedUse       string              `json:"suggested_use,omitempty"`
	Warnings           string              `json:"warnings,omitempty"`
	ShippingWeight     string              `json:"shipping_weight,omitempty"`
	CategoryBreadcrumb []string            `json:"category_breadcrumb,omitempty"`
	ReviewDistribution *ReviewDistribution `json:"review_distribution,omitempty"`
}

type SupplementFacts struct {
	ServingSize          string     `json:"serving_size,omitempty"`
	ServingsPerContainer string     `json:"servings_per_container,omitempty"`
	Nutrients            []Nutrient `json:"nutrients"`
}

// Nutrient is one row of a supplement facts table. Name is never empty.
type Nutrient struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	DailyValue string `json:"daily_value,omitempty"`
}

// ReviewDistribution holds the percentage share of each star rating.
type ReviewDistribution struct {
	FiveStar  *float64 `json:"five_star,omitempty"`
	FourStar  *float64 `json:"four_star,omitempty"`
	ThreeStar *float64 `json:"three_star,omitempty"`
	TwoStar   *float64 `json:"two_star,omitempty"`
	OneStar   *float64 `json:"one_star,omitempty"`
}

// Empty reports whether no star level carries a percentage.
func (d *ReviewDistribution) Empty() bool {
	return d.FiveStar == nil && d.FourStar == nil && d.ThreeStar == nil &&
		d.TwoStar == nil && d.OneStar == nil
}

// SearchResult keeps products in the order the site returned them.
type SearchResult struct {
	Query        string           `json:"query"`
	TotalResults *uint            `json:"total_results,omitempty"`
	Products     []ProductSummary `json:"products"`
}

// SetOriginalPrice records a pre-discount price only when it is strictly
// greater than the current price. A non-discounting "original" price is never
// surfaced.
func (p *ProductSummary) SetOriginalPrice(original float64) {
	if original > p.Price {
		p.OriginalPrice = &original
	}
}

func Float(v float64) *float64 { return &v }

func Uint(v uint) *uint { return &v }
