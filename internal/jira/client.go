// Package jira talks to the Jira REST API over authenticated HTTPS.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/jtui/internal/logging"
)

const (
	// AuthBasic authenticates with username and API token.
	AuthBasic = "basic"
	// AuthBearer authenticates with a personal access token.
	AuthBearer = "bearer"

	// errorBodyLimit caps how much of a failed response body is kept.
	errorBodyLimit = 4096

	defaultTimeout  = 30 * time.Second
	defaultPageSize = 50
)

// ErrInsecureURL is returned for any request whose URL is not https.
var ErrInsecureURL = errors.New("refusing to send request over a non-https url")

// TransportError reports a request that failed on the network or with a
// non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	// Body is the start of the response body, when there was one
	Body string
	Err  error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if body := strings.TrimSpace(e.Body); body != "" {
			return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, body)
		}
		if e.Err != nil {
			return fmt.Sprintf("request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that does not match the expected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Config holds what is needed to reach a Jira instance.
type Config struct {
	BaseURL  string
	Username string
	Token    string

	// AuthMode is AuthBasic or AuthBearer; empty means AuthBasic
	AuthMode string

	Timeout time.Duration

	// PageSize is the maxResults requested from list endpoints
	PageSize int

	// MaxPages bounds pagination of list endpoints
	MaxPages int

	// Transport is the underlying round tripper, http.DefaultTransport when nil
	Transport http.RoundTripper
}

// Client handles interactions with the Jira API.
type Client struct {
	client   *jira.Client
	baseURL  string
	pageSize int
	maxPages int
}

// httpsOnly refuses to send anything that is not https.
type httpsOnly struct {
	next http.RoundTripper
}

func (t httpsOnly) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL == nil || req.URL.Scheme != "https" {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, ErrInsecureURL
	}
	return t.next.RoundTrip(req)
}

// New creates a Jira client. The base URL must be https.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Jira URL: %w", err)
	}
	if base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("invalid Jira URL %q: %w", cfg.BaseURL, ErrInsecureURL)
	}

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	rt = httpsOnly{next: rt}

	switch cfg.AuthMode {
	case "", AuthBasic:
		rt = &jira.BasicAuthTransport{
			Username:  cfg.Username,
			Password:  cfg.Token,
			Transport: rt,
		}
	case AuthBearer:
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   rt,
		}
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(base.String(), "/")
	client, err := jira.NewClient(&http.Client{Transport: rt, Timeout: timeout}, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}

	logging.Debug("created Jira client",
		"url", baseURL,
		"auth", cfg.AuthMode,
		"user", cfg.Username,
		"token", logging.MaskSensitive(cfg.Token))

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		client:   client,
		baseURL:  baseURL,
		pageSize: pageSize,
		maxPages: cfg.MaxPages,
	}, nil
}

// BaseURL returns the instance URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BrowseURL returns the web URL of a ticket.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// Fetch performs a GET and returns the raw response body. Relative paths
// resolve against the base URL; absolute URLs are used as given.
func (c *Client) Fetch(ctx context.Context, pathOrURL string) ([]byte, error) {
	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
	if err != nil {
		return nil, &TransportError{URL: pathOrURL, Err: err}
	}
	target := req.URL.String()

	logging.Debug("fetching", "url", target)
	resp, err := c.client.Do(req, nil)
	if err != nil {
		return nil, responseError(target, resp, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}

// FetchInto performs a GET and decodes the JSON body into v.
func (c *Client) FetchInto(ctx context.Context, pathOrURL string, v any) error {
	body, err := c.Fetch(ctx, pathOrURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{URL: pathOrURL, Err: err}
	}
	return nil
}

// Get fetches pathOrURL and decodes it as a T.
func Get[T any](ctx context.Context, c *Client, pathOrURL string) (T, error) {
	var v T
	err := c.FetchInto(ctx, pathOrURL, &v)
	return v, err
}

// responseError converts a go-jira failure into a TransportError, draining
// and closing the response body when one was returned.
func responseError(target string, resp *jira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &TransportError{
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Err:        err,
	}
}
