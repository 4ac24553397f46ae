// Package monitor implements the HTTP client for the usage monitoring API.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/denysvitali/glm-usage/internal/logging"
	"github.com/denysvitali/glm-usage/internal/version"
)

const defaultAcceptLanguage = "en-US,en"

// ErrParse is wrapped by errors returned for response bodies that are not JSON.
var ErrParse = errors.New("failed to parse response")

// PostProcessor transforms the "data" field of a response.
type PostProcessor func(data any) any

// StatusError is returned when the API answers with anything but 200.
type StatusError struct {
	Label      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("[%s] HTTP %d\n%s", e.Label, e.StatusCode, e.Body)
}

// Client is an HTTP client for the monitor endpoints
type Client struct {
	httpClient     *http.Client
	authToken      string
	queryParams    string
	acceptLanguage string
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAcceptLanguage overrides the Accept-Language header.
func WithAcceptLanguage(lang string) Option {
	return func(c *Client) {
		c.acceptLanguage = lang
	}
}

// NewClient creates a client that sends authToken verbatim in the
// Authorization header. queryParams is appended to request paths when asked.
// No timeout is set; cancel through the request context instead.
func NewClient(authToken, queryParams string, opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		authToken:      authToken,
		queryParams:    queryParams,
		acceptLanguage: defaultAcceptLanguage,
		logger:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request issues a single GET against rawURL and returns the decoded payload.
// The payload is the "data" field when it is set, the whole body otherwise.
// post is only applied when "data" was present.
func (c *Client) Request(ctx context.Context, rawURL, label string, appendQuery bool, post PostProcessor) (any, error) {
	reqURL, err := c.buildURL(rawURL, appendQuery)
	if err != nil {
		return nil, fmt.Errorf("[%s] invalid URL: %w", label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("[%s] failed to create request: %w", label, err)
	}

	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "glm-usage/"+version.Version)

	c.logger.Debug("requesting usage", "label", label, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", label, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[%s] failed to read response body: %w", label, err)
	}

	c.logger.Debug("received response", "label", label, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Label: label, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("[%s] %w: %v", label, ErrParse, err)
	}

	return payload(parsed, post), nil
}

// buildURL drops any query or fragment from rawURL and appends the window
// query string when requested.
func (c *Client) buildURL(rawURL string, appendQuery bool) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("missing scheme or host in %q", rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	out := u.String()
	if appendQuery {
		out += c.queryParams
	}
	return out, nil
}

func payload(body any, post PostProcessor) any {
	obj, ok := body.(map[string]any)
	if !ok {
		return body
	}
	data, ok := obj["data"]
	if !ok || !truthy(data) {
		return body
	}
	if post != nil {
		return post(data)
	}
	return data
}

// truthy mirrors the loose truthiness the API envelope relies on: null,
// false, zero and the empty string count as absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
