package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/extract"
	"github.com/shopyard/importer/internal/normalize"
)

// PayloadInput is one provider fetch plus its context, ready for field
// resolution.
type PayloadInput struct {
	HTML       string
	Structured map[string]any
	SourceURL  string
	Provider   string
}

// BuildProductPayload merges the provider's structured payload with the
// HTML-extracted fields into the normalized product. Resolution per field is
// first-match: the provider-structured value wins over the HTML-extracted
// one, and the accessor paths below keep that precedence visible instead of
// implicit in code order. The caller is responsible for rejecting a payload
// whose name stayed empty.
func BuildProductPayload(in PayloadInput) *domain.ImportResult {
	structured := normalizeStructuredProduct(in.Structured)
	parsed := extract.ParseHTMLProduct(in.HTML, in.SourceURL, structured)

	salePrice := 0.0
	priceRaw := pickString(structured, "price", "priceValue", "price_amount", "offers.price")
	if value, ok := normalize.ParsePriceValue(priceRaw); ok {
		salePrice = value
	} else if parsed.SalePrice != nil {
		salePrice = *parsed.SalePrice
	}

	currency := normalize.NormalizeCurrency(
		pickString(structured, "currency", "priceCurrency", "offers.priceCurrency"),
		parsed.Currency,
	)

	name := normalize.FirstNonEmpty(
		pickString(structured, "title", "name", "productTitle"),
		parsed.Name,
	)

	description := normalize.FirstNonEmpty(
		pickString(structured, "shortDescription", "description"),
		parsed.Description,
	)

	image := normalize.FirstNonEmpty(
		pickString(structured, "mainImage", "image", "imageUrl"),
		parsed.Image,
	)
	if image != "" {
		image = normalize.ResolveToAbsoluteURL(image, in.SourceURL)
	} else {
		image = parsed.Image
	}

	priceText := normalize.FirstNonEmpty(parsed.PriceText, pickString(structured, "priceText"))

	metadata := map[string]any{
		"importedFrom": in.SourceURL,
		"importedAt":   time.Now().UTC().Format(time.RFC3339),
		"provider":     in.Provider,
		"currency":     currency,
		"priceText":    priceText,
	}
	if structured != nil {
		if snapshot := structuredSnapshot(structured, in.SourceURL); len(snapshot) > 0 {
			metadata["structuredSnapshot"] = snapshot
		}
	}

	product := &domain.NormalizedProduct{
		Name:             name,
		SalePrice:        salePrice,
		PriceText:        priceText,
		Currency:         currency,
		Image:            image,
		ShortDescription: normalize.Truncate(description, normalize.DefaultTruncateLength),
		LongDescription:  normalize.FirstNonEmpty(pickString(structured, "longDescription"), description),
		Description:      normalize.FirstNonEmpty(pickString(structured, "description"), description),
		Category:         normalize.Slugify(pickString(structured, "category", "categoryName")),
		SourceURL:        in.SourceURL,
		SuggestedSKU:     parsed.SuggestedSKU,
		Metadata:         domain.CleanMetadata(metadata),
	}

	return &domain.ImportResult{
		Product: product,
		Raw: domain.RawInfo{
			Provider:            in.Provider,
			StructuredAvailable: structured != nil,
			HTMLUsed:            in.HTML != "",
		},
	}
}

// normalizeStructuredProduct unwraps the product object some providers nest
// under a product key; flat payloads pass through. Returns nil for an empty
// payload so downstream can tell "no structured data" apart from "empty
// product".
func normalizeStructuredProduct(structured map[string]any) map[string]any {
	if len(structured) == 0 {
		return nil
	}
	if product, ok := structured["product"].(map[string]any); ok {
		return product
	}
	return structured
}

// structuredSnapshot trims the provider payload down to the handful of
// fields worth keeping for audit, with the image absolutized like the main
// one.
func structuredSnapshot(structured map[string]any, sourceURL string) map[string]any {
	image := pickString(structured, "image", "imageUrl")
	if image != "" {
		image = normalize.ResolveToAbsoluteURL(image, sourceURL)
	}
	return domain.CleanMetadata(map[string]any{
		"name":          pickString(structured, "name", "title"),
		"price":         pickString(structured, "price"),
		"priceCurrency": pickString(structured, "priceCurrency", "currency"),
		"image":         image,
		"category":      pickString(structured, "category", "categoryName"),
	})
}

// pickString evaluates an ordered list of dotted accessor paths against the
// structured payload and returns the first non-empty string-convertible hit.
func pickString(m map[string]any, paths ...string) string {
	if m == nil {
		return ""
	}
	for _, path := range paths {
		if value := valueAtPath(m, path); value != nil {
			if s := asString(value); s != "" && !strings.EqualFold(s, "undefined") {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func valueAtPath(m map[string]any, path string) any {
	var current any = m
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[key]
		if !ok {
			return nil
		}
	}
	return current
}

func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	}
	return ""
}
