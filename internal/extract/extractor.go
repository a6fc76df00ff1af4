// Package extract pulls best-effort product signal out of raw HTML: JSON-LD
// Product blocks first, then Open-Graph and generic meta tags, then the page
// title and a last-resort price scan. Partial extraction is the expected
// common case, so parse failures inside a page return empty fields instead
// of errors.
package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/kaptinlin/jsonrepair"

	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/normalize"
)

// JSONLDProduct scans every <script type="application/ld+json"> block and
// returns the first top-level or array entry whose @type includes "product"
// (case-insensitive, scalar or array). Malformed blocks get one repair
// attempt and are otherwise skipped. Returns nil when nothing qualifies.
func JSONLDProduct(html string) map[string]any {
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return jsonLDProductFromDoc(doc)
}

func jsonLDProductFromDoc(doc *goquery.Document) map[string]any {
	var product map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		payload := parseJSONTolerant(s.Text())
		if payload == nil {
			return true
		}

		var entries []any
		switch typed := payload.(type) {
		case []any:
			entries = typed
		default:
			entries = []any{typed}
		}

		for _, entry := range entries {
			candidate, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if hasProductType(candidate["@type"]) {
				product = candidate
				return false
			}
		}
		return true
	})

	return product
}

// parseJSONTolerant parses a JSON document, retrying once through jsonrepair
// for the sloppy markup real storefronts embed (trailing commas, single
// quotes, stray HTML comments). Returns nil when both attempts fail.
func parseJSONTolerant(payload string) any {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed
	}

	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil
	}
	return parsed
}

func hasProductType(value any) bool {
	switch typed := value.(type) {
	case string:
		return strings.EqualFold(typed, "product")
	case []any:
		for _, entry := range typed {
			if s, ok := entry.(string); ok && strings.EqualFold(s, "product") {
				return true
			}
		}
	}
	return false
}

// Meta returns the content of the first <meta> tag whose property= or, as a
// fallback, name= attribute equals key. Entity-decoded and trimmed; ""
// when absent.
func Meta(doc *goquery.Document, key string) string {
	if doc == nil || key == "" {
		return ""
	}
	for _, attr := range []string{"property", "name"} {
		selector := "meta[" + attr + "=" + strconv.Quote(key) + "]"
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			content = normalize.DecodeBasicEntities(content)
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// ParseHTMLProduct derives an ExtractedFields record from raw page HTML.
// structured, when non-nil, is a provider-supplied product object that takes
// the place of the page's own JSON-LD block at the top of every precedence
// chain. Field precedence is fixed: structured data, then
// product:*/og:*/twitter:* metas, then the title text, and for price a
// currency-symbol regex over the raw HTML as last resort.
func ParseHTMLProduct(html, sourceURL string, structured map[string]any) domain.ExtractedFields {
	var doc *goquery.Document
	if html != "" {
		if parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			doc = parsed
		}
	}

	jsonLD := structured
	if jsonLD == nil && doc != nil {
		jsonLD = jsonLDProductFromDoc(doc)
	}

	og := parseOpenGraph(html)
	offers := mapValue(firstEntry(jsonLD["offers"]))

	name := normalize.FirstNonEmpty(
		stringValue(jsonLD["name"]),
		Meta(doc, "product:name"),
		og.Title,
		Meta(doc, "twitter:title"),
		titleText(doc),
	)

	description := normalize.FirstNonEmpty(
		stringValue(jsonLD["description"]),
		Meta(doc, "description"),
		og.Description,
		Meta(doc, "twitter:description"),
	)

	image := normalize.FirstNonEmpty(
		imageValue(jsonLD["image"]),
		Meta(doc, "product:image"),
		firstOpenGraphImage(og),
		Meta(doc, "twitter:image"),
	)
	if image != "" {
		image = normalize.ResolveToAbsoluteURL(image, sourceURL)
	}

	currency := normalize.NormalizeCurrency(normalize.FirstNonEmpty(
		stringValue(offers["priceCurrency"]),
		stringValue(offers["pricecurrency"]),
		stringValue(offers["currency"]),
		Meta(doc, "product:price:currency"),
		Meta(doc, "og:price:currency"),
	), "")

	priceText := normalize.FirstNonEmpty(
		stringValue(offers["price"]),
		stringValue(offers["priceAmount"]),
		stringValue(jsonLD["price"]),
		stringValue(offers["highPrice"]),
		Meta(doc, "product:price:amount"),
		Meta(doc, "og:price:amount"),
	)

	var salePrice *float64
	if value, ok := normalize.ParsePriceValue(priceText); ok {
		salePrice = &value
	} else if token := normalize.FindPriceToken(html); token != "" {
		if value, ok := normalize.ParsePriceValue(token); ok {
			salePrice = &value
			priceText = token
		}
	}

	cleanName := cleanText(name)
	cleanDescription := cleanText(description)

	shortDescription := cleanDescription
	if shortDescription != "" {
		shortDescription = normalize.Truncate(shortDescription, normalize.DefaultTruncateLength)
	}

	return domain.ExtractedFields{
		Name:             cleanName,
		Description:      cleanDescription,
		ShortDescription: shortDescription,
		LongDescription:  cleanDescription,
		Image:            normalize.DecodeBasicEntities(image),
		Currency:         currency,
		SalePrice:        salePrice,
		PriceText:        priceText,
		SuggestedSKU:     normalize.DeriveSKUFromURL(sourceURL, cleanName),
	}
}

func parseOpenGraph(html string) *opengraph.OpenGraph {
	og := opengraph.NewOpenGraph()
	if html != "" {
		// Parse errors leave an empty struct, which downstream treats the
		// same as a page without OG tags.
		_ = og.ProcessHTML(strings.NewReader(html))
	}
	return og
}

func firstOpenGraphImage(og *opengraph.OpenGraph) string {
	for _, image := range og.Images {
		if image == nil {
			continue
		}
		if image.SecureURL != "" {
			return image.SecureURL
		}
		if image.URL != "" {
			return image.URL
		}
	}
	return ""
}

func titleText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	text := doc.Find("title").First().Text()
	return strings.Join(strings.Fields(text), " ")
}

func cleanText(value string) string {
	if value == "" {
		return ""
	}
	return normalize.StripTags(normalize.DecodeBasicEntities(value))
}

// imageValue handles the shapes schema.org allows for Product.image: a URL
// string, an array of URLs, or an ImageObject with a url key.
func imageValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []any:
		if len(typed) > 0 {
			return imageValue(typed[0])
		}
	case map[string]any:
		return stringValue(typed["url"])
	}
	return ""
}

// firstEntry unwraps single-element JSON-LD arrays; offers in particular is
// frequently an array of one.
func firstEntry(value any) any {
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return value
}

func mapValue(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case json.Number:
		return typed.String()
	}
	return ""
}
