// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches remote document content with rate-limit backoff.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff step; it doubles per attempt. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps a server-supplied Retry-After delay.
var MaxRetryAfter = time.Minute

const defaultMaxRetries = 5

// retryable reports whether status signals a transient server condition.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes req and retries on 429 and 503 responses. The wait is
// the response's Retry-After seconds when present, otherwise exponential
// backoff from RetryBaseDelay. maxRetries <= 0 uses the default (5). After the
// last retry the final response is returned as-is for the caller to inspect.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, MaxRetryAfter)
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

// FetchOptions configures Fetch.
type FetchOptions struct {
	UserAgent  string
	MaxRetries int

	// MaxBytes truncates the body; zero means no limit.
	MaxBytes int64
}

// Fetch GETs url and returns the body and Content-Type. Non-2xx responses
// are errors.
func Fetch(ctx context.Context, client *http.Client, url string, opts FetchOptions) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := DoWithRetry(ctx, client, req, opts.MaxRetries)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if opts.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, opts.MaxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
