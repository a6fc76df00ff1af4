// Package scrape holds the pluggable provider adapters that turn a target
// URL into raw HTML and/or a provider-specific structured payload. Adapters
// form a closed set selected by a single configuration key; everything
// downstream of the Fetcher boundary is provider-agnostic.
package scrape

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopyard/importer/config"
	"github.com/shopyard/importer/internal/domain"
)

// Provider names accepted by New.
const (
	ProviderScraperAPI  = "scraperapi"
	ProviderScrapingBee = "scrapingbee"
	ProviderApify       = "apify"
	ProviderDirect      = "direct"
)

const (
	defaultScraperAPIBaseURL  = "https://api.scraperapi.com"
	defaultScrapingBeeBaseURL = "https://app.scrapingbee.com/api/v1/"

	defaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of an arbitrary third-party page we are
	// willing to read. Nothing upstream bounds page size, so the adapter
	// does.
	maxBodyBytes = 5 << 20
)

// SupportedProviders lists the valid provider names for error messages.
func SupportedProviders() []string {
	return []string{ProviderScraperAPI, ProviderScrapingBee, ProviderApify, ProviderDirect}
}

// New selects and configures the provider adapter named by cfg.Provider.
// All configuration errors — unknown provider, missing API key, direct fetch
// outside development — surface here, before any network call.
func New(cfg config.ScraperConfig) (domain.Fetcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderScraperAPI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: scraperapi requires an API key (set IMPORTER_SCRAPER_API_KEY)",
				domain.ErrProviderNotConfigured)
		}
		return &scraperAPIFetcher{cfg: cfg, httpClient: client}, nil

	case ProviderScrapingBee:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: scrapingbee requires an API key (set IMPORTER_SCRAPER_API_KEY)",
				domain.ErrProviderNotConfigured)
		}
		return &scrapingBeeFetcher{cfg: cfg, httpClient: client}, nil

	case ProviderApify:
		token := cfg.ActorToken
		if token == "" {
			token = cfg.APIKey
		}
		if token == "" {
			return nil, fmt.Errorf("%w: apify requires an actor token (set IMPORTER_SCRAPER_ACTOR_TOKEN)",
				domain.ErrProviderNotConfigured)
		}
		webhook := cfg.ActorWebhook
		if webhook == "" {
			webhook = cfg.BaseURL
		}
		if webhook == "" {
			return nil, fmt.Errorf("%w: apify requires the actor invocation URL (set IMPORTER_SCRAPER_ACTOR_WEBHOOK)",
				domain.ErrProviderNotConfigured)
		}
		return &apifyFetcher{webhook: webhook, token: token, httpClient: client}, nil

	case ProviderDirect:
		// Direct fetching issues unauthenticated GETs to caller-supplied
		// URLs (an SSRF-shaped surface) and stays development-only.
		if cfg.Environment == "production" {
			return nil, domain.ErrDirectFetchDisabled
		}
		return &directFetcher{httpClient: client}, nil

	default:
		return nil, fmt.Errorf("%w: %q (supported providers: %s)",
			domain.ErrUnsupportedProvider, cfg.Provider, strings.Join(SupportedProviders(), ", "))
	}
}

// readLimitedBody reads at most limit bytes of a response body.
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// isJSONResponse reports whether the response declares a JSON body.
func isJSONResponse(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}
