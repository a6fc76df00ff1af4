// Package dataset adapts the open demo catalog APIs (DummyJSON and Fake
// Store) into the importer's normalized product contract. Both clients map
// their wire schema into domain.DatasetProduct and run the shared MapProduct
// helper, so the normalization rules live in exactly one place.
package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/normalize"
)

// Dataset names used in provenance metadata and the raw diagnostic block.
const (
	DatasetDummyJSON = "dummyjson"
	DatasetFakeStore = "fakestore"
)

// shortDescriptionLimit is the dataset-path short description budget.
const shortDescriptionLimit = 200

// MapInput carries one dataset product into MapProduct.
type MapInput struct {
	Dataset   string
	SourceURL string
	Product   domain.DatasetProduct
	Currency  string // defaults to USD
}

// MapProduct converts a dataset product into the normalized output contract.
// It fails only when no product name can be resolved; every other field
// degrades to its zero value.
func MapProduct(in MapInput) (*domain.ImportResult, error) {
	p := in.Product

	name := normalize.FirstNonEmpty(p.Title, p.Name, p.ProductName)
	if name == "" {
		return nil, fmt.Errorf("%w: the %s dataset response did not contain a product title",
			domain.ErrNameNotResolved, in.Dataset)
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	description := normalize.FirstNonEmpty(p.Description, p.LongDescription, p.ShortDescription)
	image := normalize.FirstNonEmpty(p.Thumbnail, p.Image, firstImage(p.Images))

	var salePrice float64
	if p.Price != nil {
		salePrice = *p.Price
	}

	regularPrice := p.OriginalPrice
	if regularPrice == nil {
		regularPrice = p.RegularPrice
	}

	var stock *int
	if p.Stock != nil {
		rounded := int(math.Round(math.Max(0, *p.Stock)))
		stock = &rounded
	}

	brand := normalize.FirstNonEmpty(p.Brand, p.Manufacturer, p.Maker)

	category := normalize.Slugify(normalize.FirstNonEmpty(p.CategorySlug, p.Category))
	if category == "" {
		category = normalize.Slugify(brand)
	}

	shortDescription := normalize.Truncate(
		normalize.FirstNonEmpty(p.ShortDescription, description), shortDescriptionLimit)
	longDescription := normalize.FirstNonEmpty(description, p.LongDescription, p.Details)

	skuCandidate := normalize.FirstNonEmpty(p.SKU, p.Code, datasetSKUSeed(in.Dataset, p))
	suggestedSKU := normalize.SanitizeSKU(skuCandidate)

	metadata := domain.CleanMetadata(map[string]any{
		"importedFrom":     in.SourceURL,
		"importedAt":       time.Now().UTC().Format(time.RFC3339),
		"provider":         in.Dataset,
		"dataset":          in.Dataset,
		"datasetProductId": p.ID,
		"datasetSlug":      p.Slug,
		"currency":         currency,
		"priceText":        p.PriceText,
		"brand":            brand,
		"rating":           p.Rating,
	})

	product := &domain.NormalizedProduct{
		Name:             name,
		SalePrice:        salePrice,
		RegularPrice:     regularPrice,
		Currency:         currency,
		Image:            normalize.ResolveToAbsoluteURL(image, in.SourceURL),
		ShortDescription: shortDescription,
		LongDescription:  longDescription,
		Description:      normalize.FirstNonEmpty(description, longDescription, shortDescription),
		Category:         category,
		Manufacturer:     brand,
		Stock:            stock,
		SourceURL:        in.SourceURL,
		SuggestedSKU:     suggestedSKU,
		Metadata:         metadata,
	}

	return &domain.ImportResult{
		Product: product,
		Raw: domain.RawInfo{
			Dataset:   in.Dataset,
			SourceURL: in.SourceURL,
		},
	}, nil
}

func datasetSKUSeed(dataset string, p domain.DatasetProduct) string {
	id := normalize.FirstNonEmpty(p.ID, p.Slug)
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	return dataset + "-" + id
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
