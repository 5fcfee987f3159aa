package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent identifies pinzine in HTTP requests. Site operators
// should be able to recognize the traffic in their logs.
const DefaultUserAgent = "pinzine/1.0 (+https://github.com/pinzine/pinzine)"

// Response is the result of a successful GET: the declared content
// type (parameters stripped), the status code, and the body bytes.
type Response struct {
	// StatusCode is the HTTP response status.
	StatusCode int

	// ContentType is the Content-Type header with any parameters
	// (charset, boundary) removed, lowercased.
	ContentType string

	// Body is the response body, truncated to the configured cap.
	Body []byte
}

// Client wraps http.Client with the defaults every pinzine fetch
// needs: per-request timeout, body size cap, and a fixed User-Agent.
// A single Client is shared across the run so connection pooling works
// across article and image fetches to the same host.
type Client struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize overrides the response body cap in bytes.
// Non-positive sizes are ignored and the default cap stays in effect.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithHTTPClient substitutes the underlying http.Client. Used by tests
// to point at httptest servers with custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a Client with the given per-request timeout.
// The default transport keeps TLS certificate verification enabled;
// no option exists to disable it.
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		client:      &http.Client{Timeout: timeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: 10 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the response. Non-2xx statuses are
// returned as errors, so a nil error always means a usable body.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused, then report the status.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Body:        body,
	}, nil
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status received.
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// mediaType strips parameters from a Content-Type header value and
// lowercases the result. kindlegen rejects parameterized media types
// in the manifest, so the stripped form is what flows downstream.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Malformed header. Fall back to the raw value up to any
		// parameter separator rather than losing the type entirely.
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
