package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/upgrader/pkg/buildinfo"
	"github.com/matzehuels/upgrader/pkg/httputil"
	"github.com/matzehuels/upgrader/pkg/observability"
)

// maxResponseSize caps decoded bodies. Packuments of packages with thousands
// of releases run to tens of megabytes.
const maxResponseSize = 64 << 20

// Client provides shared HTTP functionality for registry API clients.
// It handles timeouts, rate limiting, retries, and common request headers.
// A Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	retries int
	headers map[string]string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (useful for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = NewHTTPClient(d) }
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetries sets the total number of attempts for transient failures.
// One attempt (the default) means no retries.
func WithRetries(attempts int) Option {
	return func(c *Client) { c.retries = max(attempts, 1) }
}

// WithHeaders sets default headers applied to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// NewClient creates a Client. Without options it uses [DefaultTimeout],
// no rate limit, a single attempt, and a upgrader User-Agent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    NewHTTPClient(DefaultTimeout),
		retries: 1,
		headers: map[string]string{"User-Agent": buildinfo.UserAgent()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// Transient failures are retried according to [WithRetries].
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	return httputil.RetryWithBackoff(ctx, c.retries, func() error {
		return c.get(ctx, rawURL, v)
	})
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(io.LimitReader(body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		if after := httputil.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()); after > 0 && httputil.IsRetryable(err) {
			err = httputil.RetryAfter(err, after)
		}
		return nil, err
	}
	return resp.Body, nil
}

func hostPath(u *url.URL) (string, string) {
	return u.Host, u.EscapedPath()
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(ErrRateLimited)
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
