// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultMaxLength = 1200 // characters kept from a narrative
)

// Client implements the Narrator interface
type Client struct {
	client    *genai.Client
	model     string
	maxLength int
	logger    *common.Logger
	now       func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxLength caps the length of generated narratives
func WithMaxLength(n int) ClientOption {
	return func(c *Client) {
		c.maxLength = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:    genaiClient,
		model:     DefaultModel,
		maxLength: DefaultMaxLength,
		logger:    common.NewSilentLogger(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// MarketOutlook writes a short outlook on Indian equity and debt markets
func (c *Client) MarketOutlook(ctx context.Context) (string, error) {
	text, err := c.GenerateContent(ctx, buildMarketOutlookPrompt(c.now()))
	if err != nil {
		return "", err
	}
	return truncate(strings.TrimSpace(text), c.maxLength), nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}

	return sb.String(), nil
}

// buildMarketOutlookPrompt creates the prompt for the market outlook section
func buildMarketOutlookPrompt(now time.Time) string {
	return fmt.Sprintf(`Write the market outlook section of an investment proposal for an Indian retail client, as of %s.
Cover:
1. Indian equities, distinguishing large caps from mid and small caps
2. Fixed income: policy rate direction, government and AAA corporate bonds
3. One sentence on what this means for a diversified portfolio

Use plain language in a single paragraph of at most 120 words.
Do not name individual stocks or funds and do not promise returns.`, now.Format("January 2006"))
}

// truncate cuts s to at most n characters at a sentence or word boundary.
func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndex(cut, ". "); i > n/2 {
		return cut[:i+1]
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		return cut[:i] + "…"
	}
	return cut
}

// Ensure Client implements Narrator
var _ interfaces.Narrator = (*Client)(nil)
