package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "US style with thousands", input: "$1,234.56", expected: 1234.56, ok: true},
		{name: "European style", input: "1.234,56 €", expected: 1234.56, ok: true},
		{name: "Decimal comma", input: "23,99", expected: 23.99, ok: true},
		{name: "Lone comma with three digits is thousands", input: "1,000", expected: 1000.0, ok: true},
		{name: "Plain decimal", input: "19.95", expected: 19.95, ok: true},
		{name: "Integer", input: "42", expected: 42, ok: true},
		{name: "Currency prefix stripped", input: "CHF 15.50", expected: 15.50, ok: true},
		{name: "Yen without decimals", input: "¥1,480", expected: 1480, ok: true},
		{name: "Empty string", input: "", ok: false},
		{name: "No digits", input: "Free shipping!", ok: false},
		{name: "Whitespace only", input: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, v, 0.001)
			}
		})
	}
}

func TestDetectCurrencyText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "US dollar", input: "$9.99", expected: "USD"},
		{name: "Canadian dollar beats plain dollar", input: "CA$12.00", expected: "CAD"},
		{name: "Short Canadian prefix", input: "C$12.00", expected: "CAD"},
		{name: "Australian dollar", input: "AU$8.45", expected: "AUD"},
		{name: "Swiss franc", input: "CHF 22.90", expected: "CHF"},
		{name: "Euro", input: "€14,99", expected: "EUR"},
		{name: "Pound", input: "£7.50", expected: "GBP"},
		{name: "Yen", input: "¥1,480", expected: "JPY"},
		{name: "Won", input: "₩15,000", expected: "KRW"},
		{name: "Leading whitespace trimmed", input: "  $3.00", expected: "USD"},
		{name: "No symbol", input: "12.34", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectCurrencyText(tt.input))
		})
	}
}

func TestParseReviewCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint
		ok       bool
	}{
		{name: "With thousands separator", input: "42,328 Reviews", expected: 42328, ok: true},
		{name: "Bare number", input: "17", expected: 17, ok: true},
		{name: "Trailing label", input: "1,234 Reviews", expected: 1234, ok: true},
		{name: "No digits", input: "No reviews yet", ok: false},
		{name: "Empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ParseReviewCount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, n)
			}
		})
	}
}
