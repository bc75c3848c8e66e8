package providers

import "context"

// Fetcher performs a single GET against the upstream data provider. The endpoint is the path and
// query relative to the provider base URL (for example "games?per_page=100"). A successful call
// returns the raw JSON body; any non-2xx status or transport failure is an error.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, endpoint string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	return f(ctx, endpoint)
}
