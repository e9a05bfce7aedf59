package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
)

// Shape identifies which layout a recommendations response used.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeNested is {productRecommendations: {summary, recommendations}}.
	ShapeNested
	// ShapeTopLevel is {summary, recommendations}.
	ShapeTopLevel
	// ShapeEnvelope is {success, summary, recommendations}.
	ShapeEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeTopLevel:
		return "top-level"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// recommendationsBody is one decoded response layout.
type recommendationsBody interface {
	Shape() Shape
	normalize(allocation *models.AssetAllocation) (*models.ProductRecommendations, error)
}

// rawRecommendations is class -> product type -> either a product list or
// a {products, allocation} record.
type rawRecommendations map[string]map[string]json.RawMessage

type nestedRecommendations struct {
	ProductRecommendations struct {
		Summary         string             `json:"summary"`
		Recommendations rawRecommendations `json:"recommendations"`
	} `json:"productRecommendations"`
}

func (nestedRecommendations) Shape() Shape { return ShapeNested }

func (b nestedRecommendations) normalize(allocation *models.AssetAllocation) (*models.ProductRecommendations, error) {
	return normalizeRecommendations(b.ProductRecommendations.Summary, b.ProductRecommendations.Recommendations, allocation)
}

type topLevelRecommendations struct {
	Summary         string             `json:"summary"`
	Recommendations rawRecommendations `json:"recommendations"`
}

func (topLevelRecommendations) Shape() Shape { return ShapeTopLevel }

func (b topLevelRecommendations) normalize(allocation *models.AssetAllocation) (*models.ProductRecommendations, error) {
	return normalizeRecommendations(b.Summary, b.Recommendations, allocation)
}

type envelopeRecommendations struct {
	Success         bool               `json:"success"`
	Summary         string             `json:"summary"`
	Recommendations rawRecommendations `json:"recommendations"`
}

func (envelopeRecommendations) Shape() Shape { return ShapeEnvelope }

func (b envelopeRecommendations) normalize(allocation *models.AssetAllocation) (*models.ProductRecommendations, error) {
	if !b.Success {
		return nil, fmt.Errorf("%w: recommendations envelope reports failure", ErrMalformedResponse)
	}
	return normalizeRecommendations(b.Summary, b.Recommendations, allocation)
}

// decodeRecommendations picks the layout by the keys present.
func decodeRecommendations(data []byte) (recommendationsBody, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var body recommendationsBody
	switch {
	case keys["productRecommendations"] != nil:
		var b nestedRecommendations
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if b.ProductRecommendations.Recommendations == nil {
			return nil, ErrUnrecognizedShape
		}
		body = b
	case keys["success"] != nil && keys["recommendations"] != nil:
		var b envelopeRecommendations
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		body = b
	case keys["recommendations"] != nil:
		var b topLevelRecommendations
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		body = b
	default:
		return nil, ErrUnrecognizedShape
	}
	return body, nil
}

type productTypeRecord struct {
	Products   []models.ProductRecommendation `json:"products"`
	Allocation *float64                       `json:"allocation"`
}

func normalizeRecommendations(summary string, raw rawRecommendations, allocation *models.AssetAllocation) (*models.ProductRecommendations, error) {
	out := &models.ProductRecommendations{
		Summary:         summary,
		Recommendations: make(map[string]map[string]*models.ProductTypeRecommendation, len(raw)),
	}
	for class, byType := range raw {
		out.Recommendations[class] = make(map[string]*models.ProductTypeRecommendation, len(byType))
		for productType, value := range byType {
			rec, err := normalizeProductType(value)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", class, productType, err)
			}
			if rec.Allocation == nil {
				pct := productTypePercent(allocation, class, productType)
				rec.Allocation = &pct
			}
			out.Recommendations[class][productType] = &models.ProductTypeRecommendation{
				Products:   rec.Products,
				Allocation: *rec.Allocation,
			}
		}
	}
	return out, nil
}

func normalizeProductType(value json.RawMessage) (productTypeRecord, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []models.ProductRecommendation
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return productTypeRecord{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return productTypeRecord{Products: products}, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rec productTypeRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return productTypeRecord{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return rec, nil
	}
	return productTypeRecord{}, ErrUnrecognizedShape
}

func productTypePercent(allocation *models.AssetAllocation, class, productType string) float64 {
	if allocation == nil {
		return 0
	}
	return allocation.ProductTypeAllocation[class][productType]
}

type recommendationsRequest struct {
	ClientProfile   profileRequest          `json:"clientProfile"`
	RiskProfile     riskProfileRequest      `json:"riskProfile"`
	AssetAllocation *models.AssetAllocation `json:"assetAllocation"`
}

// GetProductRecommendations asks the backend for products, accepting any of
// the known response layouts.
func (c *Client) GetProductRecommendations(ctx context.Context, profile *models.ClientProfile, risk *models.RiskAssessment, allocation *models.AssetAllocation) models.Outcome[*models.ProductRecommendations] {
	return remoteOr(c, ctx, "product_recommendations",
		func(ctx context.Context) (*models.ProductRecommendations, error) {
			req := recommendationsRequest{
				ClientProfile:   transformProfile(profile),
				RiskProfile:     transformRisk(profile, risk),
				AssetAllocation: allocation,
			}
			var raw json.RawMessage
			if err := c.post(ctx, c.endpoint("/api/product-recommendations"), req, &raw); err != nil {
				return nil, err
			}
			body, err := decodeRecommendations(raw)
			if err != nil {
				return nil, err
			}
			c.logger.Debug().Str("shape", body.Shape().String()).Msg("Decoded product recommendations")
			return body.normalize(allocation)
		},
		func() *models.ProductRecommendations { return fallback.RecommendProducts(profile, risk, allocation) },
	)
}
