package domain

import "context"

// Fetcher turns a target URL into raw HTML and/or a provider-specific
// structured payload. Implementations are the pluggable provider adapters.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*RawFetchResult, error)
}

// DatasetClient resolves a demo dataset reference (numeric ID, free-text
// query, or the "random" keyword) into a fully mapped import result.
type DatasetClient interface {
	FetchProduct(ctx context.Context, reference string) (*ImportResult, error)
}
