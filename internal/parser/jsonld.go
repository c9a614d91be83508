package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

// ExtractJSONLD finds the JSON-LD Product block embedded in the page, if any.
// Pages may carry several ld+json scripts (breadcrumbs, organization); only a
// block whose @type is Product is returned.
func ExtractJSONLD(doc *goquery.Document) (map[string]any, bool) {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		switch v := raw.(type) {
		case map[string]any:
			if jsonString(v["@type"]) == "Product" {
				found = v
				return false
			}
		case []any:
			for _, item := range v {
				if obj, ok := item.(map[string]any); ok && jsonString(obj["@type"]) == "Product" {
					found = obj
					return false
				}
			}
		}
		return true
	})
	return found, found != nil
}

// ProductFromJSONLD builds a product record from JSON-LD structured data.
// Returns false when the block cannot yield a usable record (empty name).
func ProductFromJSONLD(data map[string]any, productID, baseURL string) (*models.ProductDetail, bool) {
	name := jsonString(data["name"])
	if name == "" {
		return nil, false
	}

	p := &models.ProductDetail{
		ProductSummary: models.ProductSummary{
			Name:      name,
			ProductID: productID,
			InStock:   true,
			Currency:  "USD",
		},
	}

	if brand, ok := data["brand"].(map[string]any); ok {
		p.Brand = jsonString(brand["name"])
	} else {
		p.Brand = jsonString(data["brand"])
	}

	offers := jsonObject(data["offers"])
	if offers != nil {
		// A dedicated price specification distinguishes the current price from
		// a strikethrough list price and wins over the flat price field.
		price, original, ok := pricesFromSpecification(offers["priceSpecification"])
		if !ok {
			price, ok = jsonFloat(offers["price"])
		}
		if ok {
			p.Price = price
		}
		if original > 0 {
			p.SetOriginalPrice(original)
		}
		if cur := jsonString(offers["priceCurrency"]); cur != "" {
			p.Currency = cur
		}
		if avail := jsonString(offers["availability"]); avail != "" {
			p.InStock = strings.Contains(avail, "InStock")
		}
	}

	if agg, ok := data["aggregateRating"].(map[string]any); ok {
		if rating, ok := jsonFloat(agg["ratingValue"]); ok {
			p.Rating = models.Float(rating)
		}
		if count, ok := jsonUint(agg["reviewCount"]); ok {
			p.ReviewCount = models.Uint(count)
		}
	}

	p.Description = jsonString(data["description"])
	p.ProductCode = firstString(data, "sku", "mpn")
	p.UPC = firstString(data, "gtin12", "gtin13")

	if url := jsonString(data["url"]); url != "" {
		p.ProductURL = url
	} else {
		p.ProductURL = productURL(baseURL, productID)
	}

	return p, true
}

// pricesFromSpecification reads an offers.priceSpecification list. The entry
// without a ListPrice type is the current price; a ListPrice entry greater
// than the current price is the original price.
func pricesFromSpecification(v any) (price, original float64, ok bool) {
	entries, isList := v.([]any)
	if !isList {
		return 0, 0, false
	}
	var list float64
	for _, e := range entries {
		obj, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		amount, hasAmount := jsonFloat(obj["price"])
		if !hasAmount {
			continue
		}
		if strings.Contains(jsonString(obj["priceType"]), "ListPrice") {
			list = amount
		} else {
			price = amount
			ok = true
		}
	}
	if ok && list > price {
		original = list
	}
	return price, original, ok
}

func productURL(baseURL, productID string) string {
	return fmt.Sprintf("%s/pr/p/%s", baseURL, productID)
}

func jsonObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			if obj, ok := t[0].(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

func jsonString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// jsonFloat tolerates numbers serialized as either JSON numbers or strings.
func jsonFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func jsonUint(v any) (uint, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return uint(t), true
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 32)
		return uint(n), err == nil
	}
	return 0, false
}

func firstString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := jsonString(data[k]); s != "" {
			return s
		}
	}
	return ""
}
