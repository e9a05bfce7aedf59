// Package interfaces defines service contracts for the intake server
package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-intake/internal/models"
)

// AdvisoryClient calls the advisory backend. Every workflow call returns a
// result: failures are replaced by local calculations and reported through
// the outcome's Source and Err.
type AdvisoryClient interface {
	// SubmitProfile sends the client profile and returns the confirmed copy
	SubmitProfile(ctx context.Context, profile *models.ClientProfile) models.Outcome[*models.ClientProfile]

	// GetRiskAssessment scores the profile
	GetRiskAssessment(ctx context.Context, profile *models.ClientProfile) models.Outcome[*models.RiskAssessment]

	// GetAssetAllocation splits the portfolio across asset classes and product types
	GetAssetAllocation(ctx context.Context, profile *models.ClientProfile, risk *models.RiskAssessment) models.Outcome[*models.AssetAllocation]

	// GetProductRecommendations lists products per product type
	GetProductRecommendations(ctx context.Context, profile *models.ClientProfile, risk *models.RiskAssessment, allocation *models.AssetAllocation) models.Outcome[*models.ProductRecommendations]

	// GenerateProposal assembles the final proposal
	GenerateProposal(ctx context.Context, bundle models.ProposalBundle) models.Outcome[*models.InvestmentProposal]

	// GetStockCategories lists the product categories on offer
	GetStockCategories(ctx context.Context) models.Outcome[[]models.StockCategory]

	// GetMarketOutlook returns the current market commentary
	GetMarketOutlook(ctx context.Context) models.Outcome[*models.MarketOutlook]

	// SubmitManualAllocation completes a hand-entered allocation
	SubmitManualAllocation(ctx context.Context, manual *models.ManualAllocation) models.Outcome[*models.ManualAllocation]
}

// PDFRenderer turns a proposal into a PDF document
type PDFRenderer interface {
	Render(ctx context.Context, proposal *models.InvestmentProposal) ([]byte, error)
}

// Narrator writes free-text market commentary
type Narrator interface {
	MarketOutlook(ctx context.Context) (string, error)
}
