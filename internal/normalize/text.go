// Package normalize holds the pure text, price, and identifier helpers the
// import pipeline is built on. Nothing here performs I/O.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultTruncateLength is the short-description budget.
const DefaultTruncateLength = 240

var (
	tagPattern        = regexp.MustCompile(`</?[^>]+(>|$)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	slugPattern       = regexp.MustCompile(`[^a-z0-9]+`)
	absoluteURLPrefix = regexp.MustCompile(`(?i)^https?://`)
)

// entityReplacer decodes the five entities that matter for titles and meta
// content. This is a deliberate scope limit, not a full HTML entity table.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
	"&lt;", "<",
	"&gt;", ">",
)

// StripTags removes HTML tags, collapses whitespace, and trims.
func StripTags(text string) string {
	cleaned := tagPattern.ReplaceAllString(text, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Truncate strips tags and shortens the result to maxLength runes, ending
// with an ellipsis marker when it had to cut. Empty input stays empty.
func Truncate(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}
	cleaned := StripTags(text)
	runes := []rune(cleaned)
	if len(runes) <= maxLength {
		return cleaned
	}
	return string(runes[:maxLength-3]) + "..."
}

// Slugify lower-cases the value, collapses every non-alphanumeric run into a
// single hyphen, and trims leading/trailing hyphens.
func Slugify(value string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}

// DecodeBasicEntities decodes &amp; &quot; &#39; &lt; &gt; only.
func DecodeBasicEntities(value string) string {
	return entityReplacer.Replace(value)
}

// ResolveToAbsoluteURL promotes a possibly-relative URL to an absolute one.
// Already-absolute values pass through unchanged, protocol-relative values
// get https, and anything else resolves against baseURL. When resolution
// fails the raw value comes back — the caller never sees an error.
func ResolveToAbsoluteURL(value, baseURL string) string {
	if value == "" {
		return ""
	}
	if absoluteURLPrefix.MatchString(value) {
		return value
	}
	if strings.HasPrefix(value, "//") {
		return "https:" + value
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return value
	}
	ref, err := url.Parse(value)
	if err != nil {
		return value
	}
	return base.ResolveReference(ref).String()
}

// FirstNonEmpty returns the first candidate that trims to a non-empty string
// which is not the literal "undefined" (a common artifact of scraped
// JS-rendered meta tags). Returns "" when nothing qualifies.
func FirstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" || strings.EqualFold(trimmed, "undefined") {
			continue
		}
		return trimmed
	}
	return ""
}
