// Package crawler retrieves the tender opportunities listing.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"etenders/internal/config"
	"etenders/internal/logger"
	"etenders/pkg/utils"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrFetchFailed          = errors.New("couldn't retrieve tenders")
)

// Doer is the transport used by the Fetcher. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AttemptResult records the result of one listing request.
type AttemptResult struct {
	Err        error
	Attempt    int
	StatusCode int
	Duration   time.Duration
}

// Success reports whether the attempt produced a usable payload.
func (a AttemptResult) Success() bool {
	return a.Err == nil
}

// Fetcher requests the listing endpoint with a bounded number of immediate retries.
type Fetcher struct {
	client      Doer
	source      config.SourceConfig
	retryPolicy config.RetryPolicy
	headers     http.Header
	log         *logger.Logger
	now         func() time.Time
	attempts    []AttemptResult
}

// NewFetcher creates a fetcher for the configured source.
func NewFetcher(source config.SourceConfig, retryPolicy config.RetryPolicy, log *logger.Logger) *Fetcher {
	client := &http.Client{
		Timeout: retryPolicy.GetTimeout(),
	}

	return NewFetcherWithClient(client, source, retryPolicy, log)
}

// NewFetcherWithClient creates a fetcher with an injected transport.
func NewFetcherWithClient(client Doer, source config.SourceConfig, retryPolicy config.RetryPolicy, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:      client,
		source:      source,
		retryPolicy: retryPolicy,
		headers:     utils.NewHTTPHelper().BuildHeaders(source.Headers),
		log:         log,
		now:         time.Now,
	}
}

// Attempts returns the attempts made by the last Fetch call.
func (f *Fetcher) Attempts() []AttemptResult {
	return f.attempts
}

// Fetch returns the raw listing payload. Every failed attempt is logged at
// warn level and retried immediately; after the last one a fatal line is
// logged and ErrFetchFailed is returned.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.attempts = f.attempts[:0]

	f.log.Info("Fetching tenders...", "url", f.source.ListingURL())

	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		startTime := time.Now()
		body, status, err := f.attempt(ctx)

		f.attempts = append(f.attempts, AttemptResult{
			Err:        err,
			Attempt:    attempt,
			StatusCode: status,
			Duration:   time.Since(startTime),
		})

		if err == nil {
			f.log.Info("Tenders fetched", "attempt", attempt, "bytes", len(body))

			return body, nil
		}

		lastErr = err

		f.log.Warn("Fetching tenders failed! Retrying...",
			"attempt", attempt,
			"max_attempts", f.retryPolicy.MaxAttempts,
			"error", err,
		)
	}

	f.log.Fatal("Couldn't retrieve tenders after all attempts",
		"attempts", f.retryPolicy.MaxAttempts,
		"error", lastErr,
	)

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrFetchFailed, f.retryPolicy.MaxAttempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context) ([]byte, int, error) {
	url := f.source.ListingURL()
	if query := utils.NewHTTPHelper().BuildQuery(f.source.QueryParams(f.now())); query != "" {
		url += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}
