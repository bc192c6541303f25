package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPageSize = 100

// StatusError is returned when Canvas answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("canvas request %s returned %d (latency=%v)", e.URL, e.StatusCode, e.Latency)
}

// Forbidden reports whether the token lacked permission for the request.
func (e *StatusError) Forbidden() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Client provides access to the Canvas API.
type Client struct {
	token      string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithPageSize overrides the per_page parameter sent on list requests.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// New creates a Canvas client for the instance at baseURL, for example
// https://school.instructure.com.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("canvas token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("canvas base url required")
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

// getAll requests path and every following page, decoding each page into
// a slice of T. Query parameters are only sent with the first request since
// the next links already carry them.
func getAll[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse canvas url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", fmt.Sprint(c.pageSize))
	endpoint.RawQuery = params.Encode()

	var out []T
	next := endpoint.String()
	for next != "" {
		page, link, err := getPage[T](ctx, c, next)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		next = nextLink(link)
	}
	return out, nil
}

func getPage[T any](ctx context.Context, c *Client, target string) ([]T, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{URL: redact(target), StatusCode: resp.StatusCode, Latency: latency}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, "", fmt.Errorf("decode canvas response: %w", err)
	}
	trimmed := strings.TrimSpace(string(raw))
	var page []T
	if strings.HasPrefix(trimmed, "{") {
		var single T
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, "", fmt.Errorf("decode canvas object: %w", err)
		}
		page = []T{single}
	} else if err := json.Unmarshal(raw, &page); err != nil {
		return nil, "", fmt.Errorf("decode canvas list: %w", err)
	}
	return page, resp.Header.Get("Link"), nil
}

// nextLink extracts the rel="next" target from a Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		for _, attr := range segments[1:] {
			attr = strings.TrimSpace(attr)
			if attr == `rel="next"` || attr == "rel=next" {
				return strings.Trim(strings.TrimSpace(segments[0]), "<>")
			}
		}
	}
	return ""
}

func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	u.RawQuery = ""
	return u.String()
}
