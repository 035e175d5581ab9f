// Package upstream fetches reference compose documents from monitored
// projects over HTTPS.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrFetchFailed is returned when the upstream document could not be
// retrieved. A failed fetch always reports; it is never treated as "no
// differences".
var ErrFetchFailed = errors.New("upstream fetch failed")

// maxDocumentSize caps the response body; compose files are small and an
// unbounded read would let a misbehaving upstream exhaust memory.
const maxDocumentSize = 1 << 20 // 1 MiB

// =============================================================================
// Fetcher
// =============================================================================

// Fetcher retrieves upstream compose documents.
type Fetcher struct {
	httpClient *http.Client
}

// Config holds fetcher configuration.
type Config struct {
	Timeout time.Duration
}

// DefaultConfig returns default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
	}
}

// NewFetcher creates a new upstream fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Fetch retrieves the document at url. A transient failure is retried once;
// the second failure is returned wrapped in ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := f.fetchOnce(ctx, url)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	// Single re-fetch, then give up.
	data, retryErr := f.fetchOnce(ctx, url)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, retryErr)
	}
	return data, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, err
	}
	return data, nil
}
