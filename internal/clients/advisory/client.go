// Package advisory provides a client for the advisory backend API
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/metrics"
	"github.com/bobmcallan/vire-intake/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:5000"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
	DefaultCacheTTL  = 15 * time.Minute

	maxResponseBytes = 4 << 20
)

// Narrator writes a market outlook when the backend cannot supply one.
type Narrator interface {
	MarketOutlook(ctx context.Context) (string, error)
}

// Client calls the advisory backend and falls back to local calculators
// when a call fails.
type Client struct {
	baseURL    string
	manualURL  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	cache      *cache.Cache
	narrator   Narrator
	now        func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithManualAllocationURL sets the base URL of the manual allocation service
func WithManualAllocationURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.manualURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records remote calls and fallbacks
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithCacheTTL sets how long read endpoints are cached
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache.New(ttl, 2*ttl)
	}
}

// WithNarrator sets the market outlook narrator used when the backend fails
func WithNarrator(n Narrator) ClientOption {
	return func(c *Client) {
		c.narrator = n
	}
}

// NewClient creates a new advisory client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		manualURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		cache:   cache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// post performs a rate-limited JSON POST
func (c *Client) post(ctx context.Context, url string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, url, body, result)
}

// get performs a rate-limited GET
func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	return c.do(ctx, http.MethodGet, url, nil, result)
}

func (c *Client) do(ctx context.Context, method, url string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Endpoint: url, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ValidationError{Field: "body", Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", url).Msg("Advisory API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Endpoint: url, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
			Endpoint:   url,
		}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// remoteOr runs call and, on any error, substitutes the fallback result.
func remoteOr[T any](c *Client, ctx context.Context, operation string, call func(context.Context) (T, error), fallback func() T) models.Outcome[T] {
	start := c.now()
	data, err := call(ctx)
	c.metrics.ObserveRemote(operation, err == nil, c.now().Sub(start))
	if err == nil {
		return models.Remote(data)
	}

	reason := Classify(err)
	c.metrics.ObserveFallback(operation, reason)
	c.logger.Warn().
		Str("operation", operation).
		Str("reason", reason).
		Err(err).
		Msg("Advisory call failed, using local fallback")

	return models.Fallback(fallback(), err)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}
