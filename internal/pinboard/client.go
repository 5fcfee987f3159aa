package pinboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pinzine/pinzine/internal/model"
)

// Endpoint defaults. The API host requires basic auth; the feeds host
// authenticates through the secret embedded in the URL path.
const (
	// DefaultAPIBase is the authenticated Pinboard API root.
	DefaultAPIBase = "https://api.pinboard.in/v1"

	// DefaultFeedBase is the public Pinboard JSON feed root.
	DefaultFeedBase = "https://feeds.pinboard.in/json"
)

// ErrAuthFailed is returned when Pinboard rejects the supplied
// credentials. This is fatal for the run: nothing can be fetched for
// an account we cannot authenticate against.
var ErrAuthFailed = errors.New("could not authenticate with Pinboard: is the password correct?")

// Client talks to the Pinboard API and feed endpoints.
type Client struct {
	client    *http.Client
	userAgent string
	apiBase   string
	feedBase  string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAPIBase overrides the API endpoint root. Used by tests to point
// at an httptest server.
func WithAPIBase(base string) Option {
	return func(c *Client) {
		c.apiBase = base
	}
}

// WithFeedBase overrides the feed endpoint root. Used by tests.
func WithFeedBase(base string) Option {
	return func(c *Client) {
		c.feedBase = base
	}
}

// New creates a Client with the given per-request timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		client:   &http.Client{Timeout: timeout},
		apiBase:  DefaultAPIBase,
		feedBase: DefaultFeedBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSecret exchanges the user's password for the account's feed
// secret via the authenticated API. A 401 response maps to
// ErrAuthFailed; any other failure is reported as-is.
func (c *Client) FetchSecret(ctx context.Context, username, password string) (string, error) {
	url := c.apiBase + "/user/secret?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(username, password)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach Pinboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from Pinboard secret endpoint", resp.StatusCode)
	}

	var payload struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode secret response: %w", err)
	}
	if payload.Result == "" {
		return "", errors.New("Pinboard returned an empty feed secret")
	}
	return payload.Result, nil
}

// FetchUnread returns the unread bookmark queue for the account,
// newest-first as the feed delivers it. Count is how many entries to
// request; the feed caps this at 400.
func (c *Client) FetchUnread(ctx context.Context, username, secret string, count int) ([]model.Bookmark, error) {
	url := fmt.Sprintf("%s/secret:%s/u:%s/toread/?count=%d", c.feedBase, secret, username, count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The secret was just issued by the API, so an error here is
		// unexpected rather than an auth problem to retry.
		return nil, fmt.Errorf("unexpected status %d from Pinboard feed", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %w", err)
	}

	var bookmarks []model.Bookmark
	if err := json.Unmarshal(body, &bookmarks); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return bookmarks, nil
}

// Oldest returns the oldest n bookmarks from a newest-first feed
// slice, reordered oldest-first. If the feed has fewer than n entries
// the whole queue is returned. The input slice is not modified.
func Oldest(bookmarks []model.Bookmark, n int) []model.Bookmark {
	if n > len(bookmarks) {
		n = len(bookmarks)
	}
	tail := bookmarks[len(bookmarks)-n:]

	oldest := make([]model.Bookmark, n)
	for i, b := range tail {
		oldest[n-1-i] = b
	}
	return oldest
}
