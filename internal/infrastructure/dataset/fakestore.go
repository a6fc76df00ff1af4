package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopyard/importer/internal/domain"
)

// fakeStoreMaxID is the catalog size of the Fake Store API; it serves 20
// fixed products and has no count endpoint.
const fakeStoreMaxID = 20

// FakeStoreClient handles communication with the Fake Store products API.
type FakeStoreClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFakeStoreClient creates a new Fake Store API client.
func NewFakeStoreClient(baseURL string, timeout time.Duration) *FakeStoreClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FakeStoreClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchProduct resolves a reference into one mapped product. Numeric
// references are direct ID lookups, "random" (or an empty reference) picks a
// random catalog slot, and any other text filters the full product list by
// title since the API has no search endpoint.
func (c *FakeStoreClient) FetchProduct(ctx context.Context, reference string) (*domain.ImportResult, error) {
	ref := strings.TrimSpace(reference)

	switch {
	case ref == "":
		return c.fetchByID(ctx, 1)
	case strings.EqualFold(ref, "random"):
		return c.fetchByID(ctx, rand.Intn(fakeStoreMaxID)+1)
	case numericReferencePattern.MatchString(ref):
		id, err := strconv.Atoi(ref)
		if err == nil && id > 0 {
			return c.fetchByID(ctx, id)
		}
		return c.searchByTitle(ctx, ref)
	default:
		return c.searchByTitle(ctx, ref)
	}
}

func (c *FakeStoreClient) fetchByID(ctx context.Context, id int) (*domain.ImportResult, error) {
	reqURL := fmt.Sprintf("%s/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: no FakeStore product matched %q; try IDs 1-%d or the keyword \"random\"",
			domain.ErrProductNotFound, strconv.Itoa(id), fakeStoreMaxID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: FakeStore status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var product domain.FakeStoreProduct
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode FakeStore response: %w", err)
	}
	if product.ID == 0 && product.Title == "" {
		// The API answers some unknown IDs with 200 and an empty body
		return nil, fmt.Errorf("%w: no FakeStore product matched %q; try IDs 1-%d or the keyword \"random\"",
			domain.ErrProductNotFound, strconv.Itoa(id), fakeStoreMaxID)
	}

	return c.mapProduct(product)
}

// searchByTitle filters the full catalog by case-insensitive title
// containment and takes the first hit.
func (c *FakeStoreClient) searchByTitle(ctx context.Context, query string) (*domain.ImportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: FakeStore status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var products []domain.FakeStoreProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode FakeStore response: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: FakeStore returned no products", domain.ErrUpstreamFailure)
	}

	needle := strings.ToLower(query)
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Title), needle) {
			return c.mapProduct(product)
		}
	}

	return nil, fmt.Errorf("%w: no FakeStore product matched %q; try a numeric ID between 1 and %d",
		domain.ErrProductNotFound, query, len(products))
}

func (c *FakeStoreClient) mapProduct(p domain.FakeStoreProduct) (*domain.ImportResult, error) {
	sourceURL := fmt.Sprintf("%s/%d", c.baseURL, p.ID)

	var stock *float64
	var rating *float64
	if p.Rating != nil {
		stock = &p.Rating.Count
		if p.Rating.Rate > 0 {
			rating = &p.Rating.Rate
		}
	}

	return MapProduct(MapInput{
		Dataset:   DatasetFakeStore,
		SourceURL: sourceURL,
		Product: domain.DatasetProduct{
			ID:          strconv.Itoa(p.ID),
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			Price:       p.Price,
			Stock:       stock,
			Category:    p.Category,
			Rating:      rating,
		},
	})
}
