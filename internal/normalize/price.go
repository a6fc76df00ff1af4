package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceCharPattern = regexp.MustCompile(`[^0-9.,-]`)

	// priceTokenPattern is the last-resort scan for a currency-symbol-prefixed
	// amount inside raw page text.
	priceTokenPattern = regexp.MustCompile(`(₱|\$|€|£)\s?(?:\d{1,3}(?:[,.\s]\d{3})*|\d+)(?:[.,]\d{2})?`)
)

// ParsePriceValue parses a heterogeneous price string into a float. The
// decimal separator is disambiguated from the comma/dot counts rather than
// their position: "1.234,56" and "1,234.56" both come back as 1234.56.
// Returns false when no finite number can be recovered.
func ParsePriceValue(raw string) (float64, bool) {
	sanitized := whitespacePattern.ReplaceAllString(raw, "")
	digits := priceCharPattern.ReplaceAllString(sanitized, "")
	if digits == "" {
		return 0, false
	}

	commas := strings.Count(digits, ",")
	dots := strings.Count(digits, ".")

	normalized := digits
	switch {
	case commas == 1 && dots == 0:
		// European decimal comma
		normalized = strings.Replace(digits, ",", ".", 1)
	case commas > 1 && dots == 0:
		normalized = strings.ReplaceAll(digits, ",", "")
	case dots > 1 && commas == 0:
		normalized = strings.ReplaceAll(digits, ".", "")
	case dots == 1 && commas > 0:
		// Comma is a thousands separator
		normalized = strings.ReplaceAll(digits, ",", "")
	case commas == 1 && dots > 0:
		// Dot is a thousands separator
		normalized = strings.Replace(strings.ReplaceAll(digits, ".", ""), ",", ".", 1)
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// FindPriceToken scans text for the first currency-symbol-prefixed numeric
// token (₱, $, €, £). Returns "" when nothing matches.
func FindPriceToken(text string) string {
	return priceTokenPattern.FindString(text)
}

// NormalizeCurrency canonicalizes a currency signal: strings are trimmed,
// upper-cased, and capped at 8 characters; numbers are stringified; anything
// else yields the fallback.
func NormalizeCurrency(value any, fallback string) string {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fallback
		}
		if len(trimmed) > 8 {
			trimmed = trimmed[:8]
		}
		return strings.ToUpper(trimmed)
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fallback
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return NormalizeCurrency(v.String(), fallback)
	default:
		return fallback
	}
}
