package fallback

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/vire-intake/internal/models"
)

// catalog is the static product list used when the backend cannot recommend.
var catalog = map[string]map[string][]models.ProductRecommendation{
	models.AssetClassEquity: {
		models.ProductLargeCap: {
			{Name: "Axis Bluechip Fund", Description: "Large-cap fund investing in established market leaders", ExpectedReturn: "10-12%", Risk: "Moderate", Category: "Mutual Fund", MinInvestment: 5000, Rating: 4.5},
			{Name: "Nifty 50 Index Fund", Description: "Passive fund tracking the Nifty 50 index", ExpectedReturn: "10-11%", Risk: "Moderate", Category: "Index Fund", MinInvestment: 1000, Rating: 4.3},
		},
		models.ProductMidCap: {
			{Name: "Kotak Emerging Equity Fund", Description: "Mid-cap fund targeting high-growth companies", ExpectedReturn: "12-15%", Risk: "High", Category: "Mutual Fund", MinInvestment: 5000, Rating: 4.4},
			{Name: "Marcellus Consistent Compounders PMS", Description: "Concentrated portfolio of consistent compounders", ExpectedReturn: "14-16%", Risk: "High", Category: "PMS", MinInvestment: 5000000, LockIn: "None", Rating: 4.2},
		},
		models.ProductSmallCap: {
			{Name: "SBI Small Cap Fund", Description: "Small-cap fund with a long-term growth focus", ExpectedReturn: "14-18%", Risk: "Very High", Category: "Mutual Fund", MinInvestment: 5000, Rating: 4.1},
			{Name: "Category III Long-Short AIF", Description: "Alternative Investment Fund using long-short equity strategies", ExpectedReturn: "15-20%", Risk: "Very High", Category: "AIF", MinInvestment: 10000000, LockIn: "3 years", Rating: 4.0},
		},
	},
	models.AssetClassDebt: {
		models.ProductGovernmentBonds: {
			{Name: "7.18% GOI 2033", Description: "Sovereign bond issued by the Government of India", ExpectedReturn: "7.1-7.3%", Risk: "Low", Category: "Government Bond", MinInvestment: 10000, Rating: 5.0},
			{Name: "RBI Floating Rate Savings Bond", Description: "Floating-rate bond reset every six months", ExpectedReturn: "8.05%", Risk: "Low", Category: "Government Bond", MinInvestment: 1000, LockIn: "7 years", Rating: 4.8},
		},
		models.ProductCorporateBonds: {
			{Name: "HDFC Corporate Bond Fund", Description: "Fund investing in AAA-rated corporate debt", ExpectedReturn: "7-8%", Risk: "Low to Moderate", Category: "Debt Fund", MinInvestment: 5000, Rating: 4.4},
			{Name: "Bajaj Finance NCD", Description: "Secured non-convertible debenture from an AAA-rated NBFC", ExpectedReturn: "8.1%", Risk: "Moderate", Category: "Bond", MinInvestment: 10000, LockIn: "3 years", Rating: 4.2},
		},
		models.ProductFixedDeposits: {
			{Name: "SBI Fixed Deposit", Description: "Bank fixed deposit with guaranteed returns", ExpectedReturn: "6.8-7.1%", Risk: "Very Low", Category: "Fixed Deposit", MinInvestment: 1000, LockIn: "1-5 years", Rating: 4.6},
			{Name: "Shriram Finance FD", Description: "Corporate fixed deposit with higher yields", ExpectedReturn: "8.5-9%", Risk: "Low to Moderate", Category: "Fixed Deposit", MinInvestment: 5000, LockIn: "1-5 years", Rating: 4.1},
		},
	},
}

// RecommendProducts annotates the static catalog with the allocation's
// product-type percentages. Types without a percentage are left out.
func RecommendProducts(p *models.ClientProfile, risk *models.RiskAssessment, allocation *models.AssetAllocation) *models.ProductRecommendations {
	if allocation == nil {
		allocation = AllocateAssets(p, risk)
	}
	types := allocation.ProductTypeAllocation
	if len(types) == 0 {
		types = AllocateProductTypes(allocation.AssetClassAllocation)
	}

	recs := make(map[string]map[string]*models.ProductTypeRecommendation)
	for class, byType := range types {
		for productType, pct := range byType {
			if pct <= 0 {
				continue
			}
			products := catalog[class][productType]
			if recs[class] == nil {
				recs[class] = make(map[string]*models.ProductTypeRecommendation)
			}
			recs[class][productType] = &models.ProductTypeRecommendation{
				Products:   append([]models.ProductRecommendation(nil), products...),
				Allocation: pct,
			}
		}
	}

	category := DefaultRiskCategory
	if risk != nil && risk.RiskCategory != "" {
		category = risk.RiskCategory
	}

	return &models.ProductRecommendations{
		Summary: fmt.Sprintf(
			"Based on your %s risk profile and an allocation of %.0f%% equity and %.0f%% debt, these products balance return potential with your comfort with volatility.",
			category,
			allocation.AssetClassAllocation[models.AssetClassEquity],
			allocation.AssetClassAllocation[models.AssetClassDebt]),
		Recommendations: recs,
	}
}

// StockCategories lists the catalog's product types.
func StockCategories() []models.StockCategory {
	var out []models.StockCategory
	for class, byType := range catalog {
		for productType, products := range byType {
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			out = append(out, models.StockCategory{
				AssetClass:   class,
				ProductType:  productType,
				ProductNames: names,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssetClass != out[j].AssetClass {
			return out[i].AssetClass < out[j].AssetClass
		}
		return out[i].ProductType < out[j].ProductType
	})
	return out
}
