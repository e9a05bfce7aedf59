// Package pdfgen provides a client for the proposal PDF rendering service
package pdfgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/models"
)

const (
	DefaultBaseURL   = "http://127.0.0.1:8000"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 2 // requests per second
	DefaultTemplate  = "default"

	maxDocumentBytes = 32 << 20
)

// ErrNotPDF is returned when the service answers 2xx with something that
// does not parse as a PDF document.
var ErrNotPDF = errors.New("response is not a PDF document")

// Client renders proposals through the PDF service
type Client struct {
	baseURL    string
	template   string
	blurFunds  bool
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTemplate sets the report template name
func WithTemplate(template string) ClientOption {
	return func(c *Client) {
		if template != "" {
			c.template = template
		}
	}
}

// WithBlurFunds hides fund names in the rendered document
func WithBlurFunds(blur bool) ClientOption {
	return func(c *Client) {
		c.blurFunds = blur
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

// NewClient creates a new PDF service client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		template: DefaultTemplate,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error response from the PDF service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("PDF service error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Render sends the proposal to the PDF service and returns the document.
// There is no local fallback.
func (c *Client) Render(ctx context.Context, proposal *models.InvestmentProposal) ([]byte, error) {
	if proposal == nil {
		return nil, fmt.Errorf("render: proposal is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(BuildDocument(proposal, c.template, c.blurFunds))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	endpoint := c.baseURL + "/generate-pdf-json/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
			Endpoint:   endpoint,
		}
	}

	pages, err := PageCount(data)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("client", proposal.ClientName).
		Int("pages", pages).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("Rendered proposal PDF")

	return data, nil
}

// PageCount parses data as a PDF and returns its page count.
func PageCount(data []byte) (pages int, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, ErrNotPDF
	}
	// the parser panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	n := r.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrNotPDF)
	}
	return n, nil
}
