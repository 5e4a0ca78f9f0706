// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 3

// retryable reports whether the status code warrants another attempt:
// HTTP 429 (Too Many Requests) and 5xx server errors.
func retryable(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return statusCode >= 500 && statusCode < 600
}

// retryDelay returns the wait before the next attempt. A Retry-After
// header (seconds or HTTP date) takes precedence over the exponential
// schedule, which starts at RetryBaseDelay and doubles each attempt.
func retryDelay(resp *http.Response, attempt int) time.Duration {
	if resp != nil {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.ParseInt(ra, 10, 64); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
			if t, err := http.ParseTime(ra); err == nil {
				if d := time.Until(t); d > 0 {
					return d
				}
			}
		}
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

// Limiter gates request dispatch. *rate.Limiter satisfies it; a nil
// Limiter applies no gating.
type Limiter interface {
	Wait(ctx context.Context) error
}

// DoWithRetry executes an HTTP request and retries transient failures:
// network errors, HTTP 429, and 5xx responses. The backoff starts at
// RetryBaseDelay and doubles each attempt; a Retry-After header, when
// present, overrides the schedule. Every attempt, including retries,
// acquires a token from the limiter so the overall request rate holds.
//
// When maxRetries is 0 the default (3) is used. Before each retry the
// failing response body is drained and closed. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last error, or the last retryable response, is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, limiter Limiter, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		resp, err := client.Do(req.Clone(ctx))

		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — surface the last outcome as-is.
		if attempt >= maxRetries {
			return resp, err
		}

		delay := retryDelay(resp, attempt)
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
