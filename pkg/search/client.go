package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/sysdesign/pkg/errors"
	"github.com/matzehuels/sysdesign/pkg/httputil"
	"github.com/matzehuels/sysdesign/pkg/observability"
)

const httpTimeout = 10 * time.Second

// Client calls a locations API.
type Client struct {
	base     *url.URL
	http     *http.Client
	cache   *httputil.Cache
	backoff httputil.Backoff
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithCache caches decoded responses. Without it every call hits the
// network.
func WithCache(hc *httputil.Cache) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.cache = hc.Namespace("locations:")
		}
	}
}

// WithRetry sets the retry policy for transient failures. The default is
// [httputil.DefaultBackoff].
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff.Attempts = attempts
		c.backoff.Delay = delay
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid locations API URL %q", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: httpTimeout},
		cache:   httputil.NewCache(nil, 0),
		backoff: httputil.DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search fetches locations matching query. Transport errors and 5xx
// responses are retried; the error envelope of a failed response becomes the
// returned error's message.
func (c *Client) Search(ctx context.Context, query string) ([]Location, error) {
	var resp Response
	err := c.cache.Cached(ctx, query, false, &resp, func() error {
		return httputil.Retry(ctx, c.backoff, func() error {
			return c.fetch(ctx, query, &resp)
		})
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []Location{}
	}
	return resp.Data, nil
}

func (c *Client) fetch(ctx context.Context, query string, out *Response) error {
	u := *c.base
	u.Path += LocationsPath
	u.RawQuery = url.Values{"search": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		code := errors.ErrCodeNetwork
		if ue, ok := err.(*url.Error); ok && ue.Timeout() {
			code = errors.ErrCodeTimeout
		}
		return httputil.Retryable(errors.Wrap(code, err, "request %s", u.Path))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "decode locations response")
	}
	return nil
}

func statusError(resp *http.Response) error {
	var envelope ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	msg := envelope.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "%s", msg))
	case resp.StatusCode >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s", msg))
	default:
		return errors.New(errors.ErrCodeInvalidQuery, "%s", msg)
	}
}

var _ Searcher = (*Client)(nil)
