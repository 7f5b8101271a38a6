package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Option configures a Client created with New.
type Option func(*Client)

// WithMaxRetries sets how many times a failed request is repeated; zero
// disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.http.RetryMax = n
	}
}

// WithRetryWait bounds the backoff between attempts.
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// WithTimeout limits each individual attempt, not the request as a whole.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.HTTPClient.Timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.http.Logger = logger.With("subsystem", "MindmapHTTPClient")
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// newRetryClient is the default transport: a pooled, traced connection with
// two quick retries, which suits interactive CLI use.
func newRetryClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Transport = otelhttp.NewTransport(rc.HTTPClient.Transport)
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = slog.Default().With("subsystem", "MindmapHTTPClient")
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = giveUp
	return rc
}

// giveUp runs once retries are exhausted. The last response is handed back
// so the daemon's error body can still be decoded.
func giveUp(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// checkRetry repeats connection errors and 5xx responses (except 501). The
// daemon has no rate limiting of its own, so a 429 came from something in
// front of it and is returned as is.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
