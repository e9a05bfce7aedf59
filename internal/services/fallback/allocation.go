package fallback

import (
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/models"
)

// split is an equity percentage; debt is always the remainder.
type split struct {
	equity float64
}

// Equity/debt lookup tables keyed by risk category.
var (
	// portfolios up to 1 crore
	smallPortfolioSplits = map[string]split{
		models.RiskConservative:           {30},
		models.RiskModeratelyConservative: {45},
		models.RiskModerate:               {60},
		models.RiskModeratelyAggressive:   {75},
		models.RiskAggressive:             {85},
		models.RiskUltraAggressive:        {90},
	}

	// Conservative portfolios between 1 and 2 crore
	conservativeMidSplit = split{35}

	// portfolios above 1 crore, up to 5 crore
	largePortfolioSplits = map[string]split{
		models.RiskConservative:           {40},
		models.RiskModeratelyConservative: {50},
		models.RiskModerate:               {65},
		models.RiskModeratelyAggressive:   {75},
		models.RiskAggressive:             {80},
		models.RiskUltraAggressive:        {85},
	}

	// portfolios above 5 crore
	veryLargePortfolioSplits = map[string]split{
		models.RiskConservative:           {45},
		models.RiskModeratelyConservative: {55},
		models.RiskModerate:               {65},
		models.RiskModeratelyAggressive:   {70},
		models.RiskAggressive:             {75},
		models.RiskUltraAggressive:        {80},
	}
)

// PortfolioSize returns the profile's initial investment, or the default.
func PortfolioSize(p *models.ClientProfile) float64 {
	if p != nil && p.Investment.InitialAmount > 0 {
		return p.Investment.InitialAmount
	}
	return DefaultPortfolioSize
}

// SuggestSplit returns the equity and debt percentages for a risk category
// and portfolio size, plus the rationale for the choice.
func SuggestSplit(category string, portfolioSize float64) (equity, debt float64, rationale string) {
	if !models.ValidRiskCategories[category] {
		category = DefaultRiskCategory
	}
	if portfolioSize <= 0 {
		portfolioSize = DefaultPortfolioSize
	}
	crores := portfolioSize / common.Crore
	size := common.FormatPortfolioSize(portfolioSize)

	var s split
	switch {
	case crores <= 1:
		s = smallPortfolioSplits[category]
		rationale = fmt.Sprintf(
			"For a %s client with a portfolio of %s, we recommend %.0f%% equity and %.0f%% debt, balancing growth with the liquidity a smaller portfolio needs.",
			category, size, s.equity, 100-s.equity)
	case category == models.RiskConservative && crores <= 2:
		s = conservativeMidSplit
		rationale = fmt.Sprintf(
			"For a Conservative client with a portfolio of %s, we recommend %.0f%% equity and %.0f%% debt, keeping capital preservation first while adding modest growth.",
			size, s.equity, 100-s.equity)
	case crores <= 5:
		s = largePortfolioSplits[category]
		rationale = fmt.Sprintf(
			"For a %s client with a portfolio of %s, we recommend %.0f%% equity and %.0f%% debt, using the portfolio's scale to diversify across market capitalisations.",
			category, size, s.equity, 100-s.equity)
	default:
		s = veryLargePortfolioSplits[category]
		rationale = fmt.Sprintf(
			"For a %s client with a portfolio of %s, we recommend %.0f%% equity and %.0f%% debt, tempering equity exposure to protect accumulated wealth.",
			category, size, s.equity, 100-s.equity)
	}

	return s.equity, 100 - s.equity, rationale
}

// AllocateAssets builds the full allocation for a profile and risk category.
func AllocateAssets(p *models.ClientProfile, risk *models.RiskAssessment) *models.AssetAllocation {
	category := DefaultRiskCategory
	if risk != nil && risk.RiskCategory != "" {
		category = risk.RiskCategory
	}
	size := PortfolioSize(p)
	equity, debt, rationale := SuggestSplit(category, size)

	classes := map[string]float64{
		models.AssetClassEquity: equity,
		models.AssetClassDebt:   debt,
	}
	return &models.AssetAllocation{
		PortfolioSize:         size,
		AssetClassAllocation:  classes,
		ProductTypeAllocation: AllocateProductTypes(classes),
		AllocationExplanation: rationale,
	}
}

// productWeight is a product type's share of its asset class.
type productWeight struct {
	productType string
	weight      float64
}

func equityWeights(pct float64) []productWeight {
	switch {
	case pct <= 40:
		return []productWeight{{models.ProductLargeCap, 0.60}, {models.ProductMidCap, 0.30}, {models.ProductSmallCap, 0.10}}
	case pct <= 60:
		return []productWeight{{models.ProductLargeCap, 0.50}, {models.ProductMidCap, 0.30}, {models.ProductSmallCap, 0.20}}
	default:
		return []productWeight{{models.ProductLargeCap, 0.40}, {models.ProductMidCap, 0.35}, {models.ProductSmallCap, 0.25}}
	}
}

func debtWeights(pct float64) []productWeight {
	if pct <= 30 {
		return []productWeight{{models.ProductGovernmentBonds, 0.60}, {models.ProductCorporateBonds, 0.40}}
	}
	return []productWeight{{models.ProductGovernmentBonds, 0.40}, {models.ProductCorporateBonds, 0.35}, {models.ProductFixedDeposits, 0.25}}
}

// AllocateProductTypes splits each asset class into product types. Buckets
// are rounded independently, so a class may drift from its percentage by at
// most one point. Unknown asset classes are carried as a single bucket.
func AllocateProductTypes(classes map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(classes))
	for class, pct := range classes {
		var weights []productWeight
		switch class {
		case models.AssetClassEquity:
			weights = equityWeights(pct)
		case models.AssetClassDebt:
			weights = debtWeights(pct)
		default:
			out[class] = map[string]float64{class: pct}
			continue
		}
		types := make(map[string]float64, len(weights))
		for _, w := range weights {
			types[w.productType] = roundHalfUp(pct * w.weight)
		}
		out[class] = types
	}
	return out
}
