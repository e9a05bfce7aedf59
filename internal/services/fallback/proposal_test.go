package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/vire-intake/internal/models"
)

func TestRecommendProducts_FollowsAllocation(t *testing.T) {
	p := profile(35, models.HorizonLong, models.StyleBalanced, 15)
	risk := &models.RiskAssessment{RiskCategory: models.RiskModerate}
	allocation := AllocateAssets(p, risk)

	recs := RecommendProducts(p, risk, allocation)

	for class, types := range allocation.ProductTypeAllocation {
		for productType, pct := range types {
			rec := recs.Recommendations[class][productType]
			if rec == nil {
				t.Fatalf("missing recommendation for %s/%s", class, productType)
			}
			if rec.Allocation != pct {
				t.Errorf("%s/%s allocation = %v, want %v", class, productType, rec.Allocation, pct)
			}
			if len(rec.Products) == 0 {
				t.Errorf("%s/%s has no products", class, productType)
			}
		}
	}
	if !strings.Contains(recs.Summary, models.RiskModerate) || !strings.Contains(recs.Summary, "60% equity") {
		t.Errorf("summary %q should mention category and split", recs.Summary)
	}
}

func TestRecommendProducts_SkipsEmptyTypesAndCopiesCatalog(t *testing.T) {
	allocation := &models.AssetAllocation{
		PortfolioSize:        1000000,
		AssetClassAllocation: map[string]float64{models.AssetClassEquity: 100},
		ProductTypeAllocation: map[string]map[string]float64{
			models.AssetClassEquity: {models.ProductLargeCap: 100, models.ProductMidCap: 0},
		},
	}
	recs := RecommendProducts(nil, nil, allocation)
	if _, ok := recs.Recommendations[models.AssetClassEquity][models.ProductMidCap]; ok {
		t.Error("zero-percent product type should be skipped")
	}

	recs.Recommendations[models.AssetClassEquity][models.ProductLargeCap].Products[0].Name = "mutated"
	again := RecommendProducts(nil, nil, allocation)
	if again.Recommendations[models.AssetClassEquity][models.ProductLargeCap].Products[0].Name == "mutated" {
		t.Error("recommendations must not alias the static catalog")
	}
}

func TestRecommendProducts_NilAllocation(t *testing.T) {
	recs := RecommendProducts(nil, nil, nil)
	if recs.ProductCount() == 0 {
		t.Error("expected default recommendations")
	}
}

func TestBuildProposal_FullyDefaulted(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	got := BuildProposal(models.ProposalBundle{}, now)

	if got.ClientName != DefaultClientName {
		t.Errorf("ClientName = %q, want %q", got.ClientName, DefaultClientName)
	}
	if got.RiskAssessment == nil || got.AssetAllocation == nil || got.ProductRecommendations == nil {
		t.Fatal("defaulted proposal must carry every section")
	}
	if got.CompanyIntro == "" || got.MarketOutlook == "" || got.Disclaimer == "" {
		t.Error("narrative sections must be filled")
	}
	if len(got.ImplementationPlan) != 4 {
		t.Errorf("ImplementationPlan has %d steps, want 4", len(got.ImplementationPlan))
	}
	if !got.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, now)
	}
}

func TestBuildProposal_UsesBundleAndCopies(t *testing.T) {
	p := profile(40, models.HorizonMedium, models.StyleGrowth, 20)
	risk := AssessRisk(p)
	allocation := AllocateAssets(p, risk)
	bundle := models.ProposalBundle{
		ClientProfile:          p,
		RiskAssessment:         risk,
		AssetAllocation:        allocation,
		ProductRecommendations: RecommendProducts(p, risk, allocation),
	}

	got := BuildProposal(bundle, time.Now())
	if got.ClientName != "Asha Menon" {
		t.Errorf("ClientName = %q", got.ClientName)
	}
	if got.RiskAssessment.RiskScore != risk.RiskScore {
		t.Errorf("risk score changed: %d vs %d", got.RiskAssessment.RiskScore, risk.RiskScore)
	}

	got.AssetAllocation.AssetClassAllocation[models.AssetClassEquity] = 0
	if allocation.AssetClassAllocation[models.AssetClassEquity] == 0 {
		t.Error("proposal must not alias the bundle's allocation")
	}
	if !strings.Contains(got.ImplementationPlan[0], "₹") {
		t.Errorf("plan step %q should carry a rupee amount", got.ImplementationPlan[0])
	}
}

func TestStockCategories_Sorted(t *testing.T) {
	cats := StockCategories()
	if len(cats) != 6 {
		t.Fatalf("got %d categories, want 6", len(cats))
	}
	if cats[0].AssetClass != models.AssetClassDebt {
		t.Errorf("first class = %q, want debt", cats[0].AssetClass)
	}
	for _, c := range cats {
		if len(c.ProductNames) == 0 {
			t.Errorf("%s/%s has no products", c.AssetClass, c.ProductType)
		}
	}
}
