package fetcher

import "context"

// Fetcher retrieves remote audio into a local temporary file. The caller
// owns the returned file and must remove it before the request completes.
type Fetcher interface {
	FetchToTemp(ctx context.Context, audioURL string) (string, error)
}
