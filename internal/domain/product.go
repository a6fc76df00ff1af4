package domain

// NormalizedProduct is the catalog-ready record the import pipeline emits.
// It is the pipeline's single output contract: the persistence layer stores
// it as-is and may only override the suggested SKU.
//
// SalePrice is always a finite, non-negative number — the pipeline defaults
// it to 0 rather than emitting a null price. SuggestedSKU is always non-empty
// and matches [A-Z0-9-]{1,48}. Nullable numerics are pointers; nullable
// strings are empty strings omitted from JSON.
type NormalizedProduct struct {
	Name             string         `json:"name"`
	SalePrice        float64        `json:"salePrice"`
	RegularPrice     *float64       `json:"regularPrice,omitempty"`
	PriceText        string         `json:"priceText,omitempty"`
	Currency         string         `json:"currency,omitempty"`
	Image            string         `json:"image,omitempty"`
	ShortDescription string         `json:"shortDescription,omitempty"`
	LongDescription  string         `json:"longDescription,omitempty"`
	Description      string         `json:"description,omitempty"`
	Category         string         `json:"category,omitempty"`
	Manufacturer     string         `json:"manufacturer,omitempty"`
	Stock            *int           `json:"stock,omitempty"`
	SourceURL        string         `json:"sourceUrl"`
	SuggestedSKU     string         `json:"suggestedSku"`
	Metadata         map[string]any `json:"metadata"`
}

// ImportRequest is the caller-supplied reference to an external product.
// Exactly one of SourceURL or Dataset must be set.
type ImportRequest struct {
	SourceURL        string `json:"sourceUrl,omitempty"`
	Dataset          string `json:"dataset,omitempty"`
	DatasetReference string `json:"datasetReference,omitempty"`
}

// RawInfo is the diagnostic block returned alongside the product. It is not
// required by downstream persistence.
type RawInfo struct {
	Provider            string `json:"provider,omitempty"`
	Dataset             string `json:"dataset,omitempty"`
	StructuredAvailable bool   `json:"structuredAvailable,omitempty"`
	HTMLUsed            bool   `json:"htmlUsed,omitempty"`
	SourceURL           string `json:"sourceUrl,omitempty"`
}

// ImportResult is the pipeline's success payload.
type ImportResult struct {
	Product *NormalizedProduct `json:"product"`
	Raw     RawInfo            `json:"raw"`
}

// RawFetchResult is what a provider adapter returns for a target URL. At
// least one of HTML/Structured must be present for the pipeline to proceed;
// both may be.
type RawFetchResult struct {
	Provider   string
	HTML       string
	Structured map[string]any
}

// ExtractedFields is the best-effort signal pulled out of raw HTML. Every
// field may be empty — it is a hint set, not a guarantee.
type ExtractedFields struct {
	Name             string
	Description      string
	ShortDescription string
	LongDescription  string
	Image            string
	Currency         string
	SalePrice        *float64
	PriceText        string
	SuggestedSKU     string
}
