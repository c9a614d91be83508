package parser

import (
	"strconv"

	"github.com/iherb-tools/iherb-cli/internal/models"
)

// ProductFromGlobals builds a product record from the site's script globals
// (window.PRODUCT_DETAILS and window.IHR_DL.product). The price arrives as a
// locale-formatted string and goes through the shared normalizer.
func ProductFromGlobals(globals map[string]any, productID, baseURL, currency string) (*models.ProductDetail, bool) {
	pd := jsonObject(globals["productDetails"])
	ihr := jsonObject(globals["ihrProduct"])

	name := jsonString(mapGet(ihr, "prdNm"))
	if name == "" {
		name = jsonString(mapGet(pd, "name"))
	}
	if name == "" {
		return nil, false
	}

	p := &models.ProductDetail{
		ProductSummary: models.ProductSummary{
			Name:       name,
			Brand:      jsonString(mapGet(ihr, "brndNm")),
			Currency:   currency,
			ProductID:  productID,
			ProductURL: productURL(baseURL, productID),
			InStock:    true,
		},
	}

	if price, ok := ParsePrice(jsonString(mapGet(ihr, "prc"))); ok {
		p.Price = price
	}

	p.ProductCode = jsonString(mapGet(pd, "code"))
	if p.ProductCode == "" {
		p.ProductCode = jsonString(mapGet(ihr, "prtNum"))
	}

	return p, true
}

// ProductFromPageData builds a product record from the __NEXT_DATA__ blob.
func ProductFromPageData(data map[string]any, productID, baseURL string) (*models.ProductDetail, bool) {
	props := pageProps(data)
	if props == nil {
		return nil, false
	}

	var product map[string]any
	for _, key := range []string{"product", "productData", "initialProduct"} {
		if product = jsonObject(props[key]); product != nil {
			break
		}
	}
	if product == nil {
		return nil, false
	}

	name := firstString(product, "title", "name")
	if name == "" {
		return nil, false
	}

	p := &models.ProductDetail{
		ProductSummary: models.ProductSummary{
			Name:       name,
			Brand:      itemBrand(product),
			Currency:   "USD",
			ProductID:  productID,
			ProductURL: productURL(baseURL, productID),
			InStock:    true,
		},
	}

	if price, ok := jsonFloat(firstValue(product, "price", "discountPrice")); ok {
		p.Price = price
	}
	if list, ok := jsonFloat(firstValue(product, "listPrice", "retailPrice")); ok {
		p.SetOriginalPrice(list)
	}
	if cur := jsonString(product["currency"]); cur != "" {
		p.Currency = cur
	}
	if rating, ok := jsonFloat(firstValue(product, "rating", "averageRating")); ok {
		p.Rating = models.Float(rating)
	}
	if count, ok := jsonUint(firstValue(product, "reviewCount", "numberOfReviews")); ok {
		p.ReviewCount = models.Uint(count)
	}
	if stock, ok := firstValue(product, "inStock", "isInStock").(bool); ok {
		p.InStock = stock
	}

	p.Description = jsonString(product["description"])
	p.ProductCode = firstString(product, "partNumber", "productCode")
	p.UPC = jsonString(product["upc"])
	p.Ingredients = jsonString(product["ingredients"])
	p.SuggestedUse = jsonString(product["suggestedUse"])
	p.Warnings = jsonString(product["warnings"])
	p.ShippingWeight = jsonString(product["shippingWeight"])

	return p, true
}

// SearchFromPageData builds a search result from the __NEXT_DATA__ blob.
// Items missing a usable identifier are dropped rather than failing the page.
func SearchFromPageData(data map[string]any, query, baseURL string) (*models.SearchResult, bool) {
	props := pageProps(data)
	if props == nil {
		return nil, false
	}

	var items []any
	for _, key := range []string{"products", "searchResults", "items"} {
		if arr, ok := props[key].([]any); ok {
			items = arr
			break
		}
	}
	if len(items) == 0 {
		return nil, false
	}

	result := &models.SearchResult{Query: query}
	if total, ok := jsonUint(firstValue(props, "totalResults", "totalCount")); ok {
		result.TotalResults = models.Uint(total)
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if summary, ok := summaryFromItem(obj, baseURL); ok {
			result.Products = append(result.Products, *summary)
		}
	}

	if len(result.Products) == 0 {
		return nil, false
	}
	return result, true
}

func summaryFromItem(item map[string]any, baseURL string) (*models.ProductSummary, bool) {
	name := firstString(item, "title", "name")
	if name == "" {
		return nil, false
	}

	var id string
	switch v := firstValue(item, "id", "productId").(type) {
	case string:
		id = v
	case float64:
		id = jsonString(formatID(v))
	}
	if id == "" {
		return nil, false
	}

	p := &models.ProductSummary{
		Name:      name,
		Brand:     itemBrand(item),
		Currency:  "USD",
		ProductID: id,
		InStock:   true,
	}

	if price, ok := jsonFloat(firstValue(item, "price", "discountPrice")); ok {
		p.Price = price
	}
	if list, ok := jsonFloat(firstValue(item, "listPrice", "retailPrice")); ok {
		p.SetOriginalPrice(list)
	}
	if cur := jsonString(item["currency"]); cur != "" {
		p.Currency = cur
	}
	if rating, ok := jsonFloat(item["rating"]); ok {
		p.Rating = models.Float(rating)
	}
	if count, ok := jsonUint(item["reviewCount"]); ok {
		p.ReviewCount = models.Uint(count)
	}
	if stock, ok := item["inStock"].(bool); ok {
		p.InStock = stock
	}

	if url := firstString(item, "url", "productUrl"); url != "" {
		p.ProductURL = absoluteURL(baseURL, url)
	} else {
		p.ProductURL = productURL(baseURL, id)
	}

	return p, true
}

func itemBrand(item map[string]any) string {
	if s := jsonString(item["brandName"]); s != "" {
		return s
	}
	if brand, ok := item["brand"].(map[string]any); ok {
		return jsonString(brand["name"])
	}
	return jsonString(item["brand"])
}

func pageProps(data map[string]any) map[string]any {
	props := jsonObject(data["props"])
	if props == nil {
		return nil
	}
	return jsonObject(props["pageProps"])
}

func mapGet(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

func firstValue(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// formatID renders a numeric identifier; some page versions serialize ids as
// JSON numbers.
func formatID(v float64) string {
	if v != float64(int64(v)) || v < 0 {
		return ""
	}
	return strconv.FormatInt(int64(v), 10)
}

func absoluteURL(baseURL, u string) string {
	if len(u) >= 4 && u[:4] == "http" {
		return u
	}
	return baseURL + u
}
