package fallback

import (
	"fmt"
	"time"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/models"
)

const companyIntro = "We are a SEBI-registered wealth advisory firm helping families and professionals " +
	"build disciplined, goal-based portfolios. Our recommendations combine quantitative risk " +
	"profiling with research-driven product selection across equity and fixed income."

const staticMarketOutlook = "Indian equities remain supported by steady domestic growth, healthy corporate " +
	"earnings and sustained retail participation, although valuations in the mid and small cap " +
	"segments call for selectivity. In fixed income, moderating inflation gives room for stable to " +
	"softer policy rates, which favours high-quality government and AAA corporate bonds for " +
	"investors with a medium-term horizon."

const disclaimer = "This proposal is for discussion purposes only and does not constitute an offer " +
	"or solicitation. Mutual fund and market investments are subject to market risks; read all " +
	"scheme-related documents carefully. Past performance is not indicative of future returns. " +
	"Expected returns are indicative and not guaranteed."

// MarketOutlook returns the static outlook narrative.
func MarketOutlook() *models.MarketOutlook {
	return &models.MarketOutlook{
		Summary: staticMarketOutlook,
		Equity:  "Favour large caps as the core holding with a measured allocation to mid and small caps.",
		Debt:    "Prefer sovereign and AAA-rated paper; keep duration aligned with the investment horizon.",
	}
}

// BuildProposal assembles a complete proposal from whatever the bundle has,
// computing any missing piece locally.
func BuildProposal(bundle models.ProposalBundle, now time.Time) *models.InvestmentProposal {
	profile := bundle.ClientProfile
	risk := bundle.RiskAssessment
	if risk == nil {
		risk = AssessRisk(profile)
	}
	allocation := bundle.AssetAllocation
	if allocation == nil {
		allocation = AllocateAssets(profile, risk)
	}
	recs := bundle.ProductRecommendations
	if recs == nil {
		recs = RecommendProducts(profile, risk, allocation)
	}

	name := profile.ClientName()
	if name == "" {
		name = DefaultClientName
	}

	return &models.InvestmentProposal{
		GeneratedAt:            now.UTC(),
		ClientName:             name,
		ClientProfile:          profile.Clone(),
		RiskAssessment:         risk.Clone(),
		AssetAllocation:        allocation.Clone(),
		ProductRecommendations: recs.Clone(),
		CompanyIntro:           companyIntro,
		MarketOutlook:          staticMarketOutlook,
		ImplementationPlan:     implementationPlan(allocation),
		Disclaimer:             disclaimer,
	}
}

func implementationPlan(allocation *models.AssetAllocation) []string {
	size := allocation.PortfolioSize
	equity := allocation.AssetClassAllocation[models.AssetClassEquity]
	debt := allocation.AssetClassAllocation[models.AssetClassDebt]
	return []string{
		fmt.Sprintf("Deploy the debt allocation of %s (%.0f%%) immediately to secure current yields.",
			common.FormatINR(size*debt/100), debt),
		fmt.Sprintf("Invest the equity allocation of %s (%.0f%%) in staggered tranches over three to six months.",
			common.FormatINR(size*equity/100), equity),
		"Set up recurring SIPs for ongoing contributions in line with the recommended product mix.",
		"Review the portfolio quarterly and rebalance when any asset class drifts more than 5% from target.",
	}
}
