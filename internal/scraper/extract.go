package scraper

import (
	"encoding/json"
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

const pageDataScript = `
(function() {
    var el = document.getElementById('__NEXT_DATA__');
    if (el) return el.textContent;
    return null;
})()
`

const jsGlobalsScript = `
(function() {
    var result = {};
    if (window.PRODUCT_DETAILS) result.productDetails = window.PRODUCT_DETAILS;
    if (window.IHR_DL && window.IHR_DL.product) result.ihrProduct = window.IHR_DL.product;
    return Object.keys(result).length > 0 ? JSON.stringify(result) : null;
})()
`

// evalPageData reads the framework page-data blob from the live page.
func evalPageData(page playwright.Page, logger *slog.Logger) (map[string]any, bool) {
	return evalJSON(page, pageDataScript, "__NEXT_DATA__", logger)
}

// evalJSGlobals reads the site's injected script globals from the live page.
// These only exist at runtime, so the static HTML cannot supply them.
func evalJSGlobals(page playwright.Page, logger *slog.Logger) (map[string]any, bool) {
	return evalJSON(page, jsGlobalsScript, "js globals", logger)
}

func evalJSON(page playwright.Page, script, label string, logger *slog.Logger) (map[string]any, bool) {
	raw, err := page.Evaluate(script)
	if err != nil {
		logger.Warn("script evaluation failed", "source", label, "error", err)
		return nil, false
	}

	text, ok := raw.(string)
	if !ok || text == "" {
		logger.Debug("source not present on page", "source", label)
		return nil, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		logger.Warn("source payload failed to parse", "source", label, "error", err)
		return nil, false
	}

	logger.Debug("found source payload", "source", label, "bytes", len(text))
	return data, true
}
