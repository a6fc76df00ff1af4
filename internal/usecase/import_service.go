package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/shopyard/importer/config"
	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/infrastructure/scrape"
)

// Dataset names accepted by Import. The demo-catalog aliases are the public
// names; the upstream names keep working for anyone who knows them.
const (
	DatasetCatalogA = "demo-catalog-a"
	DatasetCatalogB = "demo-catalog-b"
)

// ImportService turns an import request into a normalized product, either by
// scraping a live product URL or by pulling a record from one of the demo
// catalogs. Each call stands alone; the service holds configuration and
// clients but no per-request state.
type ImportService struct {
	dummyJSON  domain.DatasetClient
	fakeStore  domain.DatasetClient
	config     *config.Config
	newFetcher func(config.ScraperConfig) (domain.Fetcher, error)
}

// NewImportService creates a new import service instance.
func NewImportService(dummyJSON, fakeStore domain.DatasetClient, cfg *config.Config) *ImportService {
	return &ImportService{
		dummyJSON:  dummyJSON,
		fakeStore:  fakeStore,
		config:     cfg,
		newFetcher: scrape.New,
	}
}

// Import validates the request and dispatches to the URL or dataset path.
// Exactly one of SourceURL and Dataset must be set; that is checked before
// any network I/O.
func (s *ImportService) Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	hasURL := strings.TrimSpace(req.SourceURL) != ""
	hasDataset := strings.TrimSpace(req.Dataset) != ""

	if hasURL == hasDataset {
		return nil, fmt.Errorf("%w: provide either a product URL or a dataset name, not both", domain.ErrInvalidRequest)
	}

	if hasDataset {
		return s.importFromDataset(ctx, req)
	}
	return s.importFromURL(ctx, req)
}

func (s *ImportService) importFromURL(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	targetURL, err := validateProductURL(req.SourceURL)
	if err != nil {
		return nil, err
	}

	fetcher, err := s.newFetcher(s.config.Scraper)
	if err != nil {
		return nil, err
	}

	log.Printf("[IMPORT] Fetching product page via %s: %s", s.config.Scraper.Provider, targetURL)

	raw, err := fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	if raw.HTML == "" && raw.Structured == nil {
		return nil, fmt.Errorf("%w: provider %s returned neither html nor structured data", domain.ErrUpstreamFailure, raw.Provider)
	}

	result := BuildProductPayload(PayloadInput{
		HTML:       raw.HTML,
		Structured: raw.Structured,
		SourceURL:  targetURL,
		Provider:   raw.Provider,
	})

	if result.Product.Name == "" {
		return nil, fmt.Errorf("%w: could not extract a product name from %s; try a different URL or provider", domain.ErrNameNotResolved, targetURL)
	}
	result.Raw.SourceURL = targetURL

	log.Printf("[IMPORT] Imported %q (sku %s) from %s", result.Product.Name, result.Product.SuggestedSKU, targetURL)
	return result, nil
}

func (s *ImportService) importFromDataset(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	var client domain.DatasetClient

	name := strings.ToLower(strings.TrimSpace(req.Dataset))
	switch name {
	case DatasetCatalogA, "dummyjson":
		client = s.dummyJSON
	case DatasetCatalogB, "fakestore":
		client = s.fakeStore
	default:
		return nil, fmt.Errorf("%w: %q is not a known dataset; use %s (dummyjson) or %s (fakestore)",
			domain.ErrUnsupportedDataset, req.Dataset, DatasetCatalogA, DatasetCatalogB)
	}

	log.Printf("[IMPORT] Fetching dataset product: dataset=%s reference=%q", name, req.DatasetReference)

	result, err := client.FetchProduct(ctx, req.DatasetReference)
	if err != nil {
		return nil, err
	}

	log.Printf("[IMPORT] Imported %q (sku %s) from dataset %s", result.Product.Name, result.Product.SuggestedSKU, name)
	return result, nil
}

func validateProductURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: provide a valid product URL starting with http or https", domain.ErrInvalidRequest)
	}
	return trimmed, nil
}
