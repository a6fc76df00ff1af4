package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// maxURLSKULength caps SKUs derived from URL segments or names.
	maxURLSKULength = 36

	// MaxSKULength is the hard cap on any suggested SKU.
	MaxSKULength = 48

	// minSKULength is the shortest URL-derived candidate worth keeping;
	// anything shorter falls back to the product name.
	minSKULength = 4
)

var (
	htmlSuffixPattern = regexp.MustCompile(`(?i)\.html?$`)
	skuSeparatorRun   = regexp.MustCompile(`(?i)[^a-z0-9]+`)
)

// DeriveSKUFromURL proposes a catalog identifier from the last non-empty
// path segment of targetURL (or the hostname when the path is empty). When
// the cleaned candidate is too short it falls back to the product name, and
// as a last resort to a timestamped IMPORTED-<ms> value, so the result is
// never empty. Parse failures route into the same fallback chain — this
// function never fails.
func DeriveSKUFromURL(targetURL, fallbackName string) string {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Host == "" {
		return skuFromName(fallbackName)
	}

	candidate := lastPathSegment(parsed.Path)
	if candidate == "" {
		candidate = parsed.Hostname()
	}
	if candidate == "" {
		candidate = fallbackName
	}

	cleaned := DecodeBasicEntities(candidate)
	cleaned = htmlSuffixPattern.ReplaceAllString(cleaned, "")
	cleaned = cleanSKU(cleaned)

	if len(cleaned) >= minSKULength {
		return clip(cleaned, maxURLSKULength)
	}
	return skuFromName(fallbackName)
}

// SanitizeSKU applies the shared SKU charset and length rules: upper-case,
// [A-Z0-9-] only, at most MaxSKULength characters, never empty.
func SanitizeSKU(value string) string {
	cleaned := cleanSKU(value)
	if cleaned == "" {
		return timestampSKU()
	}
	return clip(cleaned, MaxSKULength)
}

func skuFromName(name string) string {
	cleaned := cleanSKU(name)
	if cleaned == "" {
		return timestampSKU()
	}
	return clip(cleaned, maxURLSKULength)
}

func cleanSKU(value string) string {
	cleaned := skuSeparatorRun.ReplaceAllString(value, "-")
	cleaned = strings.Trim(cleaned, "-")
	return strings.ToUpper(cleaned)
}

func timestampSKU() string {
	return fmt.Sprintf("IMPORTED-%d", time.Now().UnixMilli())
}

func lastPathSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

func clip(value string, max int) string {
	if len(value) > max {
		clipped := strings.Trim(value[:max], "-")
		if clipped != "" {
			return clipped
		}
		return value[:max]
	}
	return value
}
