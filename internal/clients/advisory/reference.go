package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
)

const (
	cacheKeyStockCategories = "stock-categories"
	cacheKeyMarketOutlook   = "market-outlook"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// getEnvelope fetches a {success, data} read endpoint.
func getEnvelope[T any](c *Client, ctx context.Context, path string) (T, error) {
	var resp envelope[T]
	if err := c.get(ctx, c.endpoint(path), &resp); err != nil {
		var zero T
		return zero, err
	}
	if !resp.Success {
		var zero T
		return zero, fmt.Errorf("%w: %s reported success=false", ErrMalformedResponse, path)
	}
	return resp.Data, nil
}

// GetStockCategories returns the product categories the backend offers.
// Remote results are cached; fallback results are not.
func (c *Client) GetStockCategories(ctx context.Context) models.Outcome[[]models.StockCategory] {
	if cached, ok := c.cache.Get(cacheKeyStockCategories); ok {
		return models.Remote(cached.([]models.StockCategory))
	}
	out := remoteOr(c, ctx, "stock_categories",
		func(ctx context.Context) ([]models.StockCategory, error) {
			data, err := getEnvelope[[]models.StockCategory](c, ctx, "/api/stock-categories")
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, fmt.Errorf("%w: no stock categories", ErrMalformedResponse)
			}
			return data, nil
		},
		fallback.StockCategories,
	)
	if !out.IsFallback() {
		c.cache.Set(cacheKeyStockCategories, out.Data, cache.DefaultExpiration)
	}
	return out
}

// GetMarketOutlook returns the current market commentary. When the backend
// fails the narrator is tried before the static text.
func (c *Client) GetMarketOutlook(ctx context.Context) models.Outcome[*models.MarketOutlook] {
	if cached, ok := c.cache.Get(cacheKeyMarketOutlook); ok {
		return models.Remote(cached.(*models.MarketOutlook))
	}
	out := remoteOr(c, ctx, "market_outlook",
		func(ctx context.Context) (*models.MarketOutlook, error) {
			data, err := getEnvelope[*models.MarketOutlook](c, ctx, "/api/market-outlook")
			if err != nil {
				return nil, err
			}
			if data == nil || strings.TrimSpace(data.Summary) == "" {
				return nil, fmt.Errorf("%w: empty market outlook", ErrMalformedResponse)
			}
			if data.UpdatedAt.IsZero() {
				data.UpdatedAt = c.now().UTC()
			}
			return data, nil
		},
		func() *models.MarketOutlook { return c.narratedOutlook(ctx) },
	)
	if !out.IsFallback() {
		c.cache.Set(cacheKeyMarketOutlook, out.Data, cache.DefaultExpiration)
	}
	return out
}

func (c *Client) narratedOutlook(ctx context.Context) *models.MarketOutlook {
	outlook := fallback.MarketOutlook()
	outlook.UpdatedAt = c.now().UTC()
	if c.narrator == nil {
		return outlook
	}
	text, err := c.narrator.MarketOutlook(ctx)
	if err != nil || strings.TrimSpace(text) == "" {
		c.logger.Warn().Err(err).Msg("Narrator unavailable, using static market outlook")
		return outlook
	}
	outlook.Summary = strings.TrimSpace(text)
	return outlook
}
