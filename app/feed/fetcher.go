package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const fetchTimeout = 30 * time.Second

// Fetcher performs rate-limited HTTP GETs against feed endpoints.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(4), 8),
		userAgent:  userAgent,
	}
}

// Fetch retrieves the raw body of url. Any network failure or non-success
// status is returned as a FeedError with kind fetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FeedError{URL: url, Kind: ErrorKindFetch, Err: err}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, &FeedError{URL: url, Kind: ErrorKindFetch, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FeedError{URL: url, Kind: ErrorKindFetch, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedError{URL: url, Kind: ErrorKindFetch,
			Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FeedError{URL: url, Kind: ErrorKindFetch, Err: err}
	}

	return data, nil
}
