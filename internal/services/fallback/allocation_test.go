package fallback

import (
	"math"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-intake/internal/models"
)

func TestAllocateAssets_SmallModeratePortfolio(t *testing.T) {
	p := profile(35, models.HorizonLong, models.StyleBalanced, 15)
	p.Investment.InitialAmount = 800000
	risk := &models.RiskAssessment{RiskCategory: models.RiskModerate}

	got := AllocateAssets(p, risk)

	if got.AssetClassAllocation[models.AssetClassEquity] != 60 {
		t.Errorf("equity = %v, want 60", got.AssetClassAllocation[models.AssetClassEquity])
	}
	if got.AssetClassAllocation[models.AssetClassDebt] != 40 {
		t.Errorf("debt = %v, want 40", got.AssetClassAllocation[models.AssetClassDebt])
	}
	if !strings.Contains(got.AllocationExplanation, "₹8.00 lakhs") {
		t.Errorf("rationale %q should mention ₹8.00 lakhs", got.AllocationExplanation)
	}
	if got.PortfolioSize != 800000 {
		t.Errorf("PortfolioSize = %v, want 800000", got.PortfolioSize)
	}

	equity := got.ProductTypeAllocation[models.AssetClassEquity]
	if equity[models.ProductLargeCap] != 30 || equity[models.ProductMidCap] != 18 || equity[models.ProductSmallCap] != 12 {
		t.Errorf("equity product types = %v", equity)
	}
	debt := got.ProductTypeAllocation[models.AssetClassDebt]
	if debt[models.ProductGovernmentBonds] != 16 || debt[models.ProductCorporateBonds] != 14 || debt[models.ProductFixedDeposits] != 10 {
		t.Errorf("debt product types = %v", debt)
	}
}

func TestSuggestSplit_EquityPlusDebtIs100(t *testing.T) {
	sizes := []float64{0, 500000, 10000000, 15000000, 20000000, 30000000, 50000000, 80000000}
	for category := range models.ValidRiskCategories {
		for _, size := range sizes {
			equity, debt, rationale := SuggestSplit(category, size)
			if equity+debt != 100 {
				t.Errorf("SuggestSplit(%q, %v) = %v + %v, want sum 100", category, size, equity, debt)
			}
			if equity <= 0 || debt <= 0 {
				t.Errorf("SuggestSplit(%q, %v) produced empty class: %v/%v", category, size, equity, debt)
			}
			if rationale == "" {
				t.Errorf("SuggestSplit(%q, %v) missing rationale", category, size)
			}
		}
	}
}

func TestSuggestSplit_Tables(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		size       float64
		wantEquity float64
		wantSize   string
	}{
		{"small conservative", models.RiskConservative, 5000000, 30, "₹50.00 lakhs"},
		{"one crore is small", models.RiskAggressive, 10000000, 85, "₹100.00 lakhs"},
		{"conservative mid", models.RiskConservative, 15000000, 35, "₹1.50 crores"},
		{"conservative two crore", models.RiskConservative, 20000000, 35, "₹2.00 crores"},
		{"large conservative", models.RiskConservative, 30000000, 40, "₹3.00 crores"},
		{"large moderate mid size", models.RiskModerate, 15000000, 65, "₹1.50 crores"},
		{"very large aggressive", models.RiskAggressive, 60000000, 75, "₹6.00 crores"},
		{"unknown category uses moderate", "Adventurous", 800000, 60, "₹8.00 lakhs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equity, _, rationale := SuggestSplit(tt.category, tt.size)
			if equity != tt.wantEquity {
				t.Errorf("equity = %v, want %v", equity, tt.wantEquity)
			}
			if !strings.Contains(rationale, tt.wantSize) {
				t.Errorf("rationale %q should contain %q", rationale, tt.wantSize)
			}
		})
	}
}

func TestAllocateProductTypes_DriftAtMostOne(t *testing.T) {
	for pct := 0.0; pct <= 100; pct++ {
		classes := map[string]float64{
			models.AssetClassEquity: pct,
			models.AssetClassDebt:   100 - pct,
		}
		types := AllocateProductTypes(classes)
		for class, classPct := range classes {
			var sum float64
			for _, v := range types[class] {
				sum += v
			}
			if math.Abs(sum-classPct) > 1 {
				t.Errorf("class %s at %v%%: product types sum to %v", class, classPct, sum)
			}
		}
	}
}

func TestAllocateProductTypes_Tiers(t *testing.T) {
	types := AllocateProductTypes(map[string]float64{
		models.AssetClassEquity: 30,
		models.AssetClassDebt:   20,
	})
	if len(types[models.AssetClassEquity]) != 3 {
		t.Errorf("equity should have three buckets, got %v", types[models.AssetClassEquity])
	}
	if types[models.AssetClassEquity][models.ProductLargeCap] != 18 {
		t.Errorf("large cap at 30%% equity = %v, want 18", types[models.AssetClassEquity][models.ProductLargeCap])
	}
	debt := types[models.AssetClassDebt]
	if len(debt) != 2 {
		t.Errorf("debt at 20%% should have two buckets, got %v", debt)
	}
	if _, ok := debt[models.ProductFixedDeposits]; ok {
		t.Error("fixed deposits only appear above 30% debt")
	}

	high := AllocateProductTypes(map[string]float64{models.AssetClassEquity: 80})
	if high[models.AssetClassEquity][models.ProductSmallCap] != 20 {
		t.Errorf("small cap at 80%% equity = %v, want 20", high[models.AssetClassEquity][models.ProductSmallCap])
	}
}

func TestAllocateProductTypes_UnknownClassCarried(t *testing.T) {
	types := AllocateProductTypes(map[string]float64{"gold": 10})
	if types["gold"]["gold"] != 10 {
		t.Errorf("unknown class = %v, want single bucket of 10", types["gold"])
	}
}

func TestAllocateAssets_Defaults(t *testing.T) {
	got := AllocateAssets(nil, nil)
	if got.PortfolioSize != DefaultPortfolioSize {
		t.Errorf("PortfolioSize = %v, want default", got.PortfolioSize)
	}
	if got.ClassTotal() != 100 {
		t.Errorf("ClassTotal = %v, want 100", got.ClassTotal())
	}
	if !strings.Contains(got.AllocationExplanation, "₹10.00 lakhs") {
		t.Errorf("rationale %q should mention default size", got.AllocationExplanation)
	}
}
