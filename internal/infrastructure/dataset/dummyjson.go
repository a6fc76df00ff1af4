package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/normalize"
)

const (
	// defaultDummyJSONTotal stands in for the catalog size when the summary
	// fetch fails.
	defaultDummyJSONTotal = 100

	// randomSampleAttempts bounds the sequential random-offset retry loop.
	randomSampleAttempts = 3

	dummyJSONShortDescriptionLimit = 180
)

var numericReferencePattern = regexp.MustCompile(`^\d+$`)

// DummyJSONClient handles communication with the DummyJSON products API.
type DummyJSONClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDummyJSONClient creates a new DummyJSON API client.
func NewDummyJSONClient(baseURL string, timeout time.Duration) *DummyJSONClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DummyJSONClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchProduct resolves a reference into one mapped product. A numeric
// reference is a direct ID lookup, "random" (or an empty reference) samples
// the catalog at a random offset, and anything else runs as a free-text
// search taking the first match.
func (c *DummyJSONClient) FetchProduct(ctx context.Context, reference string) (*domain.ImportResult, error) {
	ref := strings.ToLower(strings.TrimSpace(reference))

	switch {
	case ref == "" || ref == "random":
		return c.fetchRandom(ctx)
	case numericReferencePattern.MatchString(ref):
		id, err := strconv.Atoi(ref)
		if err == nil && id > 0 {
			return c.fetchByID(ctx, id)
		}
		return c.search(ctx, reference)
	default:
		return c.search(ctx, reference)
	}
}

func (c *DummyJSONClient) fetchByID(ctx context.Context, id int) (*domain.ImportResult, error) {
	var product domain.DummyJSONProduct
	status, err := c.getJSON(ctx, fmt.Sprintf("%s/%d", c.baseURL, id), &product)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: no DummyJSON product matched %q; try IDs 1-%d or the keyword \"random\"",
				domain.ErrProductNotFound, strconv.Itoa(id), defaultDummyJSONTotal)
		}
		return nil, err
	}
	return c.mapProduct(product)
}

// fetchRandom picks a uniformly random offset into the catalog. Up to
// randomSampleAttempts independent tries; a later success silently discards
// earlier failures, and when everything misses the first product is the
// deterministic fallback.
func (c *DummyJSONClient) fetchRandom(ctx context.Context) (*domain.ImportResult, error) {
	total := c.totalCount(ctx)

	for attempt := 1; attempt <= randomSampleAttempts; attempt++ {
		skip := rand.Intn(max(total, 1))

		var list domain.DummyJSONListResponse
		reqURL := fmt.Sprintf("%s?limit=1&skip=%d", c.baseURL, skip)
		if _, err := c.getJSON(ctx, reqURL, &list); err != nil {
			log.Printf("[DUMMYJSON] Random fetch attempt %d failed: %v", attempt, err)
			continue
		}
		if len(list.Products) > 0 {
			return c.mapProduct(list.Products[0])
		}
	}

	log.Printf("[DUMMYJSON] All random attempts failed, falling back to product 1")
	return c.fetchByID(ctx, 1)
}

func (c *DummyJSONClient) search(ctx context.Context, query string) (*domain.ImportResult, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var list domain.DummyJSONListResponse
	if _, err := c.getJSON(ctx, reqURL, &list); err != nil {
		return nil, err
	}
	if len(list.Products) == 0 {
		return nil, fmt.Errorf("%w: no DummyJSON product matched %q; try a different keyword or numeric ID",
			domain.ErrProductNotFound, query)
	}
	return c.mapProduct(list.Products[0])
}

// totalCount asks the list endpoint for the catalog size; on any failure the
// fixed default keeps random sampling usable.
func (c *DummyJSONClient) totalCount(ctx context.Context) int {
	var list domain.DummyJSONListResponse
	if _, err := c.getJSON(ctx, c.baseURL+"?limit=1", &list); err != nil {
		log.Printf("[DUMMYJSON] Failed to determine total product count, defaulting to %d: %v",
			defaultDummyJSONTotal, err)
		return defaultDummyJSONTotal
	}
	if list.Total <= 0 {
		return defaultDummyJSONTotal
	}
	return list.Total
}

// mapProduct enriches the raw record (derived short description and category
// slug) and runs the shared mapper, then back-fills regularPrice from the
// discount percentage when the API supplied one.
func (c *DummyJSONClient) mapProduct(p domain.DummyJSONProduct) (*domain.ImportResult, error) {
	sourceURL := fmt.Sprintf("%s/%d", c.baseURL, p.ID)

	var rating *float64
	if p.Rating > 0 {
		rating = &p.Rating
	}

	result, err := MapProduct(MapInput{
		Dataset:   DatasetDummyJSON,
		SourceURL: sourceURL,
		Product: domain.DatasetProduct{
			ID:               strconv.Itoa(p.ID),
			Title:            p.Title,
			Description:      p.Description,
			ShortDescription: normalize.Truncate(p.Description, dummyJSONShortDescriptionLimit),
			Thumbnail:        p.Thumbnail,
			Images:           p.Images,
			Price:            p.Price,
			Stock:            p.Stock,
			Brand:            p.Brand,
			Category:         p.Category,
			CategorySlug:     normalize.Slugify(p.Category),
			SKU:              p.SKU,
			Rating:           rating,
		},
	})
	if err != nil {
		return nil, err
	}

	if result.Product.RegularPrice == nil && p.DiscountPercentage > 0 && p.DiscountPercentage < 100 {
		expected := result.Product.SalePrice / (1 - p.DiscountPercentage/100)
		regular := math.Round(expected*100) / 100
		result.Product.RegularPrice = &regular
		result.Product.Metadata["discountPercentage"] = p.DiscountPercentage
	}

	return result, nil
}

// getJSON issues a GET and decodes the JSON body into out. Returns the HTTP
// status code alongside the error so callers can translate 404s.
func (c *DummyJSONClient) getJSON(ctx context.Context, reqURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("%w: DummyJSON status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode DummyJSON response: %w", err)
	}
	return resp.StatusCode, nil
}
