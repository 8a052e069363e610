package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
	maxBodySize    = 5 << 20
)

// statusError is a non-2xx upstream response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// fetcher performs rate-limited GETs with exponential backoff
type fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	backoff time.Duration
}

func newFetcher(timeout time.Duration, perSecond float64, burst int) *fetcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		backoff: initialBackoff,
	}
}

// fetchWithRetry performs an HTTP GET, retrying transport errors, 429 and 5xx
func (f *fetcher) fetchWithRetry(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var lastErr error
	backoff := f.backoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &statusError{code: resp.StatusCode}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			// other 4xx responses will not improve on retry
			return nil, &statusError{code: resp.StatusCode}
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
