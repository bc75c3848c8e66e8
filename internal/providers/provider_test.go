package providers

import (
	"context"
	"testing"
)

func TestFetcherFuncImplementsFetcher(t *testing.T) {
	var f Fetcher = FetcherFunc(func(ctx context.Context, endpoint string) ([]byte, error) {
		return []byte(endpoint), nil
	})

	body, err := f.Fetch(context.Background(), "players?search=curry")
	if err != nil || string(body) != "players?search=curry" {
		t.Fatalf("unexpected result %s %v", body, err)
	}
}
