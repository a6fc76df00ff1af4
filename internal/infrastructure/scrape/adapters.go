package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/shopyard/importer/config"
	"github.com/shopyard/importer/internal/domain"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// scraperAPIFetcher proxies the target URL through a rendering/scraping
// service that answers with either raw HTML or a JSON envelope carrying an
// html field.
type scraperAPIFetcher struct {
	cfg        config.ScraperConfig
	httpClient *http.Client
}

func (f *scraperAPIFetcher) Fetch(ctx context.Context, targetURL string) (*domain.RawFetchResult, error) {
	baseURL := f.cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultScraperAPIBaseURL
	}

	params := url.Values{}
	params.Set("api_key", f.cfg.APIKey)
	params.Set("url", targetURL)
	params.Set("render", f.cfg.Render)
	params.Set("device_type", f.cfg.Device)
	if f.cfg.CountryCode != "" {
		params.Set("country_code", f.cfg.CountryCode)
	}
	if f.cfg.Autoparse != "" {
		params.Set("autoparse", f.cfg.Autoparse)
	}

	log.Printf("[SCRAPE] scraperapi fetch: %s", targetURL)

	resp, body, err := doGet(ctx, f.httpClient, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: scraperapi status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, body)
	}

	result := &domain.RawFetchResult{Provider: ProviderScraperAPI, HTML: string(body)}

	// Some render modes answer with a JSON envelope instead of the page
	if isJSONResponse(resp) {
		var structured map[string]any
		if err := json.Unmarshal(body, &structured); err == nil {
			result.Structured = structured
			result.HTML, _ = structured["html"].(string)
		}
	}

	return result, nil
}

// scrapingBeeFetcher is the second remote-scraper variant; it only ever
// returns raw HTML.
type scrapingBeeFetcher struct {
	cfg        config.ScraperConfig
	httpClient *http.Client
}

func (f *scrapingBeeFetcher) Fetch(ctx context.Context, targetURL string) (*domain.RawFetchResult, error) {
	baseURL := f.cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultScrapingBeeBaseURL
	}

	params := url.Values{}
	params.Set("api_key", f.cfg.APIKey)
	params.Set("url", targetURL)
	params.Set("render_js", f.cfg.RenderJS)
	if f.cfg.PremiumProxy != "" {
		params.Set("premium_proxy", f.cfg.PremiumProxy)
	}

	log.Printf("[SCRAPE] scrapingbee fetch: %s", targetURL)

	resp, body, err := doGet(ctx, f.httpClient, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: scrapingbee status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, body)
	}

	return &domain.RawFetchResult{Provider: ProviderScrapingBee, HTML: string(body)}, nil
}

// apifyFetcher posts the target URL to a configured headless-actor webhook.
// The response's html field (when present) becomes the HTML; the whole
// response body is kept as the structured payload.
type apifyFetcher struct {
	webhook    string
	token      string
	httpClient *http.Client
}

func (f *apifyFetcher) Fetch(ctx context.Context, targetURL string) (*domain.RawFetchResult, error) {
	payload, err := json.Marshal(map[string]string{"url": targetURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode actor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhook, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	log.Printf("[SCRAPE] apify actor fetch: %s", targetURL)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading actor response: %v", domain.ErrUpstreamFailure, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: apify status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, body)
	}

	result := &domain.RawFetchResult{Provider: ProviderApify}

	var structured map[string]any
	if err := json.Unmarshal(body, &structured); err == nil {
		result.Structured = structured
		result.HTML, _ = structured["html"].(string)
	}

	return result, nil
}

// directFetcher performs a same-process GET with a browser-like User-Agent.
// Development-only; New refuses to build it in production.
type directFetcher struct {
	httpClient *http.Client
}

func (f *directFetcher) Fetch(ctx context.Context, targetURL string) (*domain.RawFetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	log.Printf("[SCRAPE] direct fetch: %s", targetURL)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading page: %v", domain.ErrUpstreamFailure, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: direct fetch status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	return &domain.RawFetchResult{Provider: ProviderDirect, HTML: string(body)}, nil
}

// doGet issues a GET and reads up to maxBodyBytes of the response.
func doGet(ctx context.Context, client *http.Client, reqURL string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, body, nil
}
