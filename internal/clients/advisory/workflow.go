package advisory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
)

// SubmitProfile sends the profile to the backend. The backend only echoes
// it, so a failure falls back to the profile as given.
func (c *Client) SubmitProfile(ctx context.Context, profile *models.ClientProfile) models.Outcome[*models.ClientProfile] {
	return remoteOr(c, ctx, "submit_profile",
		func(ctx context.Context) (*models.ClientProfile, error) {
			if err := c.post(ctx, c.endpoint("/api/profile"), transformProfile(profile), nil); err != nil {
				return nil, err
			}
			return profile.Clone(), nil
		},
		func() *models.ClientProfile { return profile.Clone() },
	)
}

type riskPayload struct {
	RiskScore               *float64 `json:"riskScore"`
	RiskCategory            string   `json:"riskCategory"`
	Explanation             string   `json:"explanation"`
	AgeFactorScore          float64  `json:"ageFactorScore"`
	TimeHorizonScore        float64  `json:"timeHorizonScore"`
	FinancialStabilityScore float64  `json:"financialStabilityScore"`
	SelfReportedRiskScore   float64  `json:"selfReportedRiskScore"`
}

type riskResponse struct {
	riskPayload
	RiskAssessment *riskPayload `json:"riskAssessment"`
}

// GetRiskAssessment scores the profile remotely, falling back to the local
// calculator.
func (c *Client) GetRiskAssessment(ctx context.Context, profile *models.ClientProfile) models.Outcome[*models.RiskAssessment] {
	return remoteOr(c, ctx, "risk_assessment",
		func(ctx context.Context) (*models.RiskAssessment, error) {
			var resp riskResponse
			if err := c.post(ctx, c.endpoint("/api/risk-assessment"), transformProfile(profile), &resp); err != nil {
				return nil, err
			}
			payload := resp.riskPayload
			if resp.RiskAssessment != nil {
				payload = *resp.RiskAssessment
			}
			return payload.toModel()
		},
		func() *models.RiskAssessment { return fallback.AssessRisk(profile) },
	)
}

func (p riskPayload) toModel() (*models.RiskAssessment, error) {
	category := strings.TrimSpace(p.RiskCategory)
	if category == "" || p.RiskScore == nil {
		return nil, fmt.Errorf("%w: risk assessment missing score or category", ErrMalformedResponse)
	}
	if *p.RiskScore < 0 || *p.RiskScore > 100 || math.IsNaN(*p.RiskScore) {
		return nil, fmt.Errorf("%w: risk score %v outside 0-100", ErrMalformedResponse, *p.RiskScore)
	}
	return &models.RiskAssessment{
		RiskScore:    int(*p.RiskScore + 0.5),
		RiskCategory: category,
		Explanation:  p.Explanation,
		Breakdown: models.RiskBreakdown{
			AgeImpact:       p.AgeFactorScore,
			HorizonImpact:   p.TimeHorizonScore,
			StyleImpact:     p.FinancialStabilityScore,
			ToleranceImpact: p.SelfReportedRiskScore,
		},
	}, nil
}

type allocationRequest struct {
	ClientProfile profileRequest     `json:"clientProfile"`
	RiskProfile   riskProfileRequest `json:"riskProfile"`
}

type allocationResponse struct {
	AssetAllocation *models.AssetAllocation `json:"assetAllocation"`
}

// GetAssetAllocation asks the backend for an allocation. Server numbers are
// kept as returned; product types are derived locally only when absent.
func (c *Client) GetAssetAllocation(ctx context.Context, profile *models.ClientProfile, risk *models.RiskAssessment) models.Outcome[*models.AssetAllocation] {
	return remoteOr(c, ctx, "asset_allocation",
		func(ctx context.Context) (*models.AssetAllocation, error) {
			req := allocationRequest{
				ClientProfile: transformProfile(profile),
				RiskProfile:   transformRisk(profile, risk),
			}
			var resp allocationResponse
			if err := c.post(ctx, c.endpoint("/api/asset-allocation"), req, &resp); err != nil {
				return nil, err
			}
			a := resp.AssetAllocation
			if a == nil || len(a.AssetClassAllocation) == 0 {
				return nil, fmt.Errorf("%w: asset allocation missing asset classes", ErrMalformedResponse)
			}
			if a.PortfolioSize <= 0 {
				a.PortfolioSize = req.RiskProfile.PortfolioSize
			}
			if len(a.ProductTypeAllocation) == 0 {
				a.ProductTypeAllocation = fallback.AllocateProductTypes(a.AssetClassAllocation)
			}
			return a, nil
		},
		func() *models.AssetAllocation { return fallback.AllocateAssets(profile, risk) },
	)
}

type proposalResponse struct {
	InvestmentProposal *models.InvestmentProposal `json:"investmentProposal"`
}

// GenerateProposal asks the backend for the final proposal. A bundle
// without a risk category or client name is refused before any request
// and falls back like any other failure.
func (c *Client) GenerateProposal(ctx context.Context, bundle models.ProposalBundle) models.Outcome[*models.InvestmentProposal] {
	return remoteOr(c, ctx, "generate_proposal",
		func(ctx context.Context) (*models.InvestmentProposal, error) {
			if err := validateBundle(bundle); err != nil {
				return nil, err
			}
			var resp proposalResponse
			if err := c.post(ctx, c.endpoint("/api/generate-proposal"), bundle, &resp); err != nil {
				return nil, err
			}
			if resp.InvestmentProposal == nil {
				return nil, fmt.Errorf("%w: missing investmentProposal", ErrMalformedResponse)
			}
			return completeProposal(resp.InvestmentProposal, bundle, c.now()), nil
		},
		func() *models.InvestmentProposal { return fallback.BuildProposal(bundle, c.now()) },
	)
}

func validateBundle(bundle models.ProposalBundle) error {
	if strings.TrimSpace(bundle.RiskCategory()) == "" {
		return &ValidationError{Field: "riskCategory", Message: "is required"}
	}
	if bundle.ClientProfile.ClientName() == "" {
		return &ValidationError{Field: "clientName", Message: "is required"}
	}
	return nil
}

// completeProposal fills the sections the backend left empty from the
// bundle and the local defaults.
func completeProposal(p *models.InvestmentProposal, bundle models.ProposalBundle, now time.Time) *models.InvestmentProposal {
	local := fallback.BuildProposal(bundle, now)
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = local.GeneratedAt
	}
	if p.ClientName == "" {
		p.ClientName = local.ClientName
	}
	if p.ClientProfile == nil {
		p.ClientProfile = local.ClientProfile
	}
	if p.RiskAssessment == nil {
		p.RiskAssessment = local.RiskAssessment
	}
	if p.AssetAllocation == nil {
		p.AssetAllocation = local.AssetAllocation
	}
	if p.ProductRecommendations == nil {
		p.ProductRecommendations = local.ProductRecommendations
	}
	if p.CompanyIntro == "" {
		p.CompanyIntro = local.CompanyIntro
	}
	if p.MarketOutlook == "" {
		p.MarketOutlook = local.MarketOutlook
	}
	if len(p.ImplementationPlan) == 0 {
		p.ImplementationPlan = local.ImplementationPlan
	}
	if p.Disclaimer == "" {
		p.Disclaimer = local.Disclaimer
	}
	return p
}
