package parser

import (
	"strconv"
	"strings"
)

// currencyPrefixes maps leading price-text symbols to ISO currency codes.
// Longer prefixes are listed before their shorter variants so that "CA$" is
// not matched as "C$"-less "$".
var currencyPrefixes = []struct {
	prefix string
	code   string
}{
	{"CA$", "CAD"},
	{"C$", "CAD"},
	{"AU$", "AUD"},
	{"A$", "AUD"},
	{"CHF", "CHF"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₩", "KRW"},
}

// ParsePrice normalizes a locale-formatted price string into a float.
// Everything but digits, periods and commas is stripped. When both separators
// appear, the later one is the decimal separator ("1.234,56" vs "1,234.56").
// A lone comma is a thousands separator only when exactly three digits follow
// the last occurrence.
func ParsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	var normalized string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// European style: 1.234,56
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			// US style: 1,234.56
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		after := cleaned[lastComma+1:]
		if len(after) == 3 {
			// "1,000" => thousands separator
			normalized = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// "23,99" => decimal comma
			normalized = strings.Replace(cleaned, ",", ".", 1)
		}
	default:
		normalized = cleaned
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DetectCurrencyText matches a leading currency symbol or prefix against the
// fixed table. Returns "" when nothing matches.
func DetectCurrencyText(text string) string {
	text = strings.TrimSpace(text)
	for _, c := range currencyPrefixes {
		if strings.HasPrefix(text, c.prefix) {
			return c.code
		}
	}
	return ""
}

// ParseReviewCount extracts a review count from text such as "42,328 Reviews".
func ParseReviewCount(text string) (uint, bool) {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(b.String(), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
