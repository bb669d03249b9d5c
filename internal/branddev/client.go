// Package branddev talks to the brand.dev retrieve endpoint and normalizes
// its responses.
package branddev

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/metrics"
)

const (
	// DefaultBaseURL is the brand.dev retrieve endpoint.
	DefaultBaseURL = "https://api.brand.dev/v1/brand/retrieve"
	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 10 * time.Second
)

// Error messages placed in failed BrandAssets.
const (
	MessageNotFound         = "Brand not found"
	messageAPIErrorFmt      = "API error: %d"
	messageRequestFailedFmt = "Request failed: %s"
)

// ErrMissingAPIKey is returned when the client is built without credentials.
var ErrMissingAPIKey = errors.New("brand.dev api key must not be empty")

var idnaProfile = idna.Lookup

// HTTPClient abstracts outbound requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder receives one observation per lookup.
type Recorder interface {
	ObserveLookup(outcome string, latency time.Duration, confidence int)
}

// Client issues brand lookups. It is safe for concurrent use.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
	timeout    time.Duration
	recorder   Recorder
}

// Option configures optional dependencies.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// NewClient builds a client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Fetch performs exactly one lookup for domain. Every failure is reported
// inside the returned BrandAssets; Fetch never returns an error.
func (c *Client) Fetch(ctx context.Context, domain string) entity.BrandAssets {
	start := time.Now()
	assets, outcome, status := c.fetch(ctx, domain)
	latency := time.Since(start)

	if c.recorder != nil {
		c.recorder.ObserveLookup(outcome, latency, assets.Confidence)
	}
	log.Printf("brand lookup domain=%s outcome=%s status=%d confidence=%d latency=%s", domain, outcome, status, assets.Confidence, latency)

	return assets
}

func (c *Client) fetch(ctx context.Context, domain string) (entity.BrandAssets, string, int) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint, err := c.endpoint(domain)
	if err != nil {
		return requestFailed(domain, err), metrics.OutcomeRequestFailed, 0
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return requestFailed(domain, err), metrics.OutcomeRequestFailed, 0
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return requestFailed(domain, err), metrics.OutcomeRequestFailed, 0
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var raw map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return requestFailed(domain, fmt.Errorf("decode brand response: %w", err)), metrics.OutcomeRequestFailed, resp.StatusCode
		}
		return Normalize(raw, domain), metrics.OutcomeSuccess, resp.StatusCode
	case http.StatusNotFound:
		return entity.FailedBrandAssets(MessageNotFound, domain), metrics.OutcomeNotFound, resp.StatusCode
	default:
		return entity.FailedBrandAssets(fmt.Sprintf(messageAPIErrorFmt, resp.StatusCode), domain), metrics.OutcomeAPIError, resp.StatusCode
	}
}

func (c *Client) endpoint(domain string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	query := u.Query()
	query.Set("domain", wireDomain(domain))
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// wireDomain returns the ASCII form of internationalized domains. The caller's
// spelling is kept when conversion fails.
func wireDomain(domain string) string {
	ascii, err := idnaProfile.ToASCII(domain)
	if err != nil || ascii == "" {
		return domain
	}
	return ascii
}

func requestFailed(domain string, err error) entity.BrandAssets {
	return entity.FailedBrandAssets(fmt.Sprintf(messageRequestFailedFmt, err.Error()), domain)
}
