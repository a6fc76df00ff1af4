package domain

// Upstream response schemas for the demo dataset APIs. These mirror the wire
// formats exactly; mapping into NormalizedProduct happens in the
// infrastructure layer.

// DummyJSONProduct is a product record as served by the DummyJSON API.
type DummyJSONProduct struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
	Price              *float64 `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              *float64 `json:"stock"`
	SKU                string   `json:"sku"`
}

// DummyJSONListResponse is the paginated list envelope of the DummyJSON API,
// also returned by its search endpoint.
type DummyJSONListResponse struct {
	Products []DummyJSONProduct `json:"products"`
	Total    int                `json:"total"`
	Skip     int                `json:"skip"`
	Limit    int                `json:"limit"`
}

// FakeStoreRating is the nested rating block of a Fake Store product. Count
// doubles as the only stock-like signal the API exposes.
type FakeStoreRating struct {
	Rate  float64 `json:"rate"`
	Count float64 `json:"count"`
}

// FakeStoreProduct is a product record as served by the Fake Store API.
type FakeStoreProduct struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
	Price       *float64         `json:"price"`
	Rating      *FakeStoreRating `json:"rating"`
}

// DatasetProduct is the dataset-agnostic intermediate both demo adapters map
// their wire schema into before the shared product mapper runs. Alternate
// key names for the same field (Title/Name/ProductName and friends) are kept
// as separate slots so the mapper's precedence stays explicit.
type DatasetProduct struct {
	ID   string
	Slug string

	Title       string
	Name        string
	ProductName string

	Description      string
	LongDescription  string
	ShortDescription string
	Details          string

	Thumbnail string
	Image     string
	Images    []string

	Price         *float64
	OriginalPrice *float64
	RegularPrice  *float64
	PriceText     string

	Stock *float64

	Brand        string
	Manufacturer string
	Maker        string

	Category     string
	CategorySlug string

	SKU  string
	Code string

	Rating *float64
}
