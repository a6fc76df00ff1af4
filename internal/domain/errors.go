package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the import request is malformed:
	// both or neither of sourceUrl/dataset supplied, or a non-http(s) URL.
	ErrInvalidRequest = errors.New("invalid import request")

	// ErrUnsupportedProvider is returned when the configured scraping
	// provider name is not in the registry.
	ErrUnsupportedProvider = errors.New("unsupported scraping provider")

	// ErrProviderNotConfigured is returned when a provider is selected but
	// its required API key or endpoint is missing.
	ErrProviderNotConfigured = errors.New("scraping provider not configured")

	// ErrDirectFetchDisabled is returned when the direct-fetch provider is
	// used outside a development environment.
	ErrDirectFetchDisabled = errors.New("direct fetching is disabled in production")

	// ErrUpstreamFailure is returned when a provider or dataset API responds
	// with a non-2xx status or a transport error.
	ErrUpstreamFailure = errors.New("upstream request failed")

	// ErrProductNotFound is returned when a dataset reference matches no
	// product.
	ErrProductNotFound = errors.New("product not found")

	// ErrNameNotResolved is returned when no product name could be resolved
	// from any source; a nameless product is never emitted.
	ErrNameNotResolved = errors.New("failed to determine the product name")

	// ErrUnsupportedDataset is returned for an unknown demo dataset name.
	ErrUnsupportedDataset = errors.New("unsupported dataset")
)
