package intake

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/metrics"
	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
	"github.com/bobmcallan/vire-intake/internal/storage/memory"
	"github.com/bobmcallan/vire-intake/internal/validation"
	"github.com/bobmcallan/vire-intake/internal/wizard"
)

// fakeAdvisory answers every call with the local calculators, marked as
// remote, unless a hook overrides it.
type fakeAdvisory struct {
	mu    sync.Mutex
	calls map[string]int

	recommend func(ctx context.Context, n int) models.Outcome[*models.ProductRecommendations]
	proposal  func(bundle models.ProposalBundle) models.Outcome[*models.InvestmentProposal]
	outlook   func() models.Outcome[*models.MarketOutlook]
}

func (f *fakeAdvisory) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
	return f.calls[op]
}

func (f *fakeAdvisory) SubmitProfile(_ context.Context, p *models.ClientProfile) models.Outcome[*models.ClientProfile] {
	f.count("profile")
	return models.Remote(p.Clone())
}

func (f *fakeAdvisory) GetRiskAssessment(_ context.Context, p *models.ClientProfile) models.Outcome[*models.RiskAssessment] {
	f.count("risk")
	return models.Remote(fallback.AssessRisk(p))
}

func (f *fakeAdvisory) GetAssetAllocation(_ context.Context, p *models.ClientProfile, r *models.RiskAssessment) models.Outcome[*models.AssetAllocation] {
	f.count("allocation")
	return models.Remote(fallback.AllocateAssets(p, r))
}

func (f *fakeAdvisory) GetProductRecommendations(ctx context.Context, p *models.ClientProfile, r *models.RiskAssessment, a *models.AssetAllocation) models.Outcome[*models.ProductRecommendations] {
	n := f.count("recommendations")
	if f.recommend != nil {
		return f.recommend(ctx, n)
	}
	return models.Remote(fallback.RecommendProducts(p, r, a))
}

func (f *fakeAdvisory) GenerateProposal(_ context.Context, bundle models.ProposalBundle) models.Outcome[*models.InvestmentProposal] {
	f.count("proposal")
	if f.proposal != nil {
		return f.proposal(bundle)
	}
	return models.Remote(fallback.BuildProposal(bundle, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))
}

func (f *fakeAdvisory) GetStockCategories(context.Context) models.Outcome[[]models.StockCategory] {
	return models.Remote(fallback.StockCategories())
}

func (f *fakeAdvisory) GetMarketOutlook(context.Context) models.Outcome[*models.MarketOutlook] {
	f.count("outlook")
	if f.outlook != nil {
		return f.outlook()
	}
	return models.Remote(fallback.MarketOutlook())
}

func (f *fakeAdvisory) SubmitManualAllocation(_ context.Context, m *models.ManualAllocation) models.Outcome[*models.ManualAllocation] {
	f.count("manual")
	c := m.Clone()
	c.ProductTypeAllocation = fallback.AllocateProductTypes(c.AssetClassAllocation)
	return models.Fallback(c, errors.New("manual service down"))
}

type fakeRenderer struct {
	data []byte
	err  error
}

func (f *fakeRenderer) Render(context.Context, *models.InvestmentProposal) ([]byte, error) {
	return f.data, f.err
}

func validProfile() *models.ClientProfile {
	return &models.ClientProfile{
		Personal: models.PersonalInfo{Name: "Asha Menon", Age: 40},
		Investment: models.InvestmentPreferences{
			Horizon:       models.HorizonLong,
			Style:         models.StyleCapitalProtection,
			InitialAmount: 800000,
		},
		RiskTolerance: models.RiskTolerance{
			MarketDropReaction: models.ReactionHold,
			MaxAcceptableLoss:  15,
		},
	}
}

type fixture struct {
	svc      *Service
	advisory *fakeAdvisory
	pdf      *fakeRenderer
	archive  *memory.ProposalStore
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		advisory: &fakeAdvisory{},
		pdf:      &fakeRenderer{data: []byte("%PDF-1.4 stub")},
		archive:  memory.NewProposalStore(common.NewSilentLogger()),
		metrics:  metrics.New(),
	}
	opts = append([]Option{WithMetrics(f.metrics)}, opts...)
	f.svc = NewService(f.advisory, f.pdf, f.archive, opts...)
	return f
}

// throughStep runs the wizard up to and including the given step.
func (f *fixture) throughStep(t *testing.T, id string, last wizard.Step) {
	t.Helper()
	ctx := context.Background()
	steps := []func() (*StepResult, error){
		func() (*StepResult, error) { return f.svc.SubmitProfile(ctx, id, validProfile()) },
		func() (*StepResult, error) { return f.svc.AssessRisk(ctx, id) },
		func() (*StepResult, error) { return f.svc.AllocateAssets(ctx, id) },
		func() (*StepResult, error) { return f.svc.RecommendProducts(ctx, id) },
		func() (*StepResult, error) { return f.svc.GenerateProposal(ctx, id) },
	}
	for i := 0; i < int(last) && i < len(steps); i++ {
		_, err := steps[i]()
		require.NoError(t, err, "step %d", i+1)
	}
}

func TestService_CompleteWizard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	assert.Equal(t, wizard.StepClientProfile, snap.State.CurrentStep)
	assert.Equal(t, "default", snap.Advisor)
	assert.Equal(t, 1, f.svc.ActiveSessions())

	res, err := f.svc.SubmitProfile(ctx, snap.ID, validProfile())
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRiskAssessment, res.State.CurrentStep)
	assert.Equal(t, models.SourceRemote, res.Source)
	assert.Empty(t, res.Warning)

	res, err = f.svc.AssessRisk(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepAssetAllocation, res.State.CurrentStep)
	assert.Equal(t, 26, res.State.RiskAssessment.RiskScore)

	res, err = f.svc.AllocateAssets(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProductRecommendations, res.State.CurrentStep)
	assert.InDelta(t, 100, res.State.AssetAllocation.ClassTotal(), 0.1)

	res, err = f.svc.RecommendProducts(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepInvestmentProposal, res.State.CurrentStep)
	assert.Positive(t, res.State.ProductRecommendations.ProductCount())

	res, err = f.svc.GenerateProposal(ctx, snap.ID)
	require.NoError(t, err)
	proposal := res.State.InvestmentProposal
	require.NotNil(t, proposal)
	assert.Regexp(t, `^prop_[0-9a-f]{8}$`, proposal.ID)
	assert.Equal(t, "Asha Menon", proposal.ClientName)

	records, err := f.svc.ListProposals(ctx, "asha", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, proposal.ID, records[0].ID)
	assert.Equal(t, snap.ID, records[0].SessionID)
	assert.Equal(t, "remote", records[0].Source)

	record, err := f.svc.GetProposal(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskModeratelyConservative, record.RiskCategory)
}

func TestService_NavigateRefusedByGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	_, err := f.svc.SubmitProfile(ctx, snap.ID, validProfile())
	require.NoError(t, err)

	_, err = f.svc.Navigate(ctx, snap.ID, 3)
	var gateErr *wizard.GateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, wizard.StepRiskAssessment, gateErr.Missing)
	assert.Contains(t, err.Error(), "step 2 (Risk Assessment)")

	got, err := f.svc.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRiskAssessment, got.State.CurrentStep)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GateRejections.WithLabelValues("Asset Allocation")))

	_, err = f.svc.AllocateAssets(ctx, snap.ID)
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, 0, f.advisory.calls["allocation"])

	res, err := f.svc.Navigate(ctx, snap.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepManualAllocation, res.State.CurrentStep)

	_, err = f.svc.Navigate(ctx, snap.ID, 7)
	assert.ErrorIs(t, err, wizard.ErrInvalidStep)
}

func TestService_SubmitProfileValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	p := validProfile()
	p.Personal.Age = 12
	_, err := f.svc.SubmitProfile(ctx, snap.ID, p)
	var profileErr *validation.ProfileError
	require.ErrorAs(t, err, &profileErr)
	assert.Equal(t, 0, f.advisory.calls["profile"])

	got, err := f.svc.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	assert.Nil(t, got.State.ClientProfile)
}

func TestService_OverrideRisk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	f.throughStep(t, snap.ID, wizard.StepRiskAssessment)

	res, err := f.svc.OverrideRisk(ctx, snap.ID, models.RiskAggressive)
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, res.Source)
	assert.Equal(t, 75, res.State.RiskAssessment.RiskScore)
	assert.True(t, res.State.RiskAssessment.ManualOverride)
	assert.Equal(t, wizard.StepAssetAllocation, res.State.CurrentStep)

	_, err = f.svc.OverrideRisk(ctx, snap.ID, "Reckless")
	assert.ErrorIs(t, err, ErrUnknownRiskCategory)
}

func TestService_EditAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	f.throughStep(t, snap.ID, wizard.StepAssetAllocation)

	bad := &models.AssetAllocation{
		PortfolioSize:        800000,
		AssetClassAllocation: map[string]float64{models.AssetClassEquity: 70, models.AssetClassDebt: 20},
	}
	_, err := f.svc.EditAllocation(ctx, snap.ID, bad)
	var allocErr *wizard.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Contains(t, allocErr.Reason, "90.0")

	got, _ := f.svc.GetSession(ctx, snap.ID)
	assert.Equal(t, 45.0, got.State.AssetAllocation.AssetClassAllocation[models.AssetClassEquity])

	good := &models.AssetAllocation{
		PortfolioSize:        800000,
		AssetClassAllocation: map[string]float64{models.AssetClassEquity: 70, models.AssetClassDebt: 30},
	}
	good.ProductTypeAllocation = fallback.AllocateProductTypes(good.AssetClassAllocation)
	res, err := f.svc.EditAllocation(ctx, snap.ID, good)
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.State.AssetAllocation.AssetClassAllocation[models.AssetClassEquity])
	assert.Equal(t, models.SourceManual, res.Source)
}

func TestService_SupersededRefreshDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	f.throughStep(t, snap.ID, wizard.StepAssetAllocation)

	started := make(chan struct{})
	release := make(chan struct{})
	f.advisory.recommend = func(_ context.Context, n int) models.Outcome[*models.ProductRecommendations] {
		if n == 1 {
			close(started)
			<-release
			return models.Remote(&models.ProductRecommendations{Summary: "first"})
		}
		return models.Remote(&models.ProductRecommendations{Summary: "second"})
	}

	var first *StepResult
	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		first, firstErr = f.svc.RecommendProducts(ctx, snap.ID)
	}()

	<-started
	second, err := f.svc.RecommendProducts(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, second.Superseded)
	assert.Equal(t, "second", second.State.ProductRecommendations.Summary)

	close(release)
	<-done
	require.NoError(t, firstErr)
	assert.True(t, first.Superseded)
	assert.Equal(t, "second", first.State.ProductRecommendations.Summary)

	got, _ := f.svc.GetSession(ctx, snap.ID)
	assert.Equal(t, "second", got.State.ProductRecommendations.Summary)
}

func TestService_ProductEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	_, err := f.svc.AddProduct(ctx, snap.ID, ProductEdit{
		AssetClass: models.AssetClassEquity, ProductType: models.ProductLargeCap,
		Product: models.ProductRecommendation{Name: "Index Fund"},
	})
	assert.ErrorIs(t, err, wizard.ErrNoRecommendations)

	f.throughStep(t, snap.ID, wizard.StepProductRecommendations)

	edit := ProductEdit{
		AssetClass:  models.AssetClassEquity,
		ProductType: models.ProductLargeCap,
		Product:     models.ProductRecommendation{Name: "Nifty 50 Index Fund", Risk: "Moderate"},
	}
	_, err = f.svc.AddProduct(ctx, snap.ID, edit)
	assert.ErrorIs(t, err, wizard.ErrDuplicateProduct, "catalog product is already recommended")

	edit.Product.Name = "UTI Nifty Next 50 Fund"
	res, err := f.svc.AddProduct(ctx, snap.ID, edit)
	require.NoError(t, err)
	before := res.State.ProductRecommendations.ProductCount()

	edit.Product.Name = "uti nifty next 50 fund"
	_, err = f.svc.AddProduct(ctx, snap.ID, edit)
	assert.ErrorIs(t, err, wizard.ErrDuplicateProduct)

	edit.Name = "UTI Nifty Next 50 Fund"
	edit.Product.Name = "Sensex Index Fund"
	res, err = f.svc.UpdateProduct(ctx, snap.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, before, res.State.ProductRecommendations.ProductCount())

	res, err = f.svc.RemoveProduct(ctx, snap.ID, ProductEdit{
		AssetClass: models.AssetClassEquity, ProductType: models.ProductLargeCap, Name: "sensex index fund",
	})
	require.NoError(t, err)
	assert.Equal(t, before-1, res.State.ProductRecommendations.ProductCount())
}

func TestService_FallbackProposalUsesMarketOutlook(t *testing.T) {
	f := newFixture(t)
	f.advisory.proposal = func(bundle models.ProposalBundle) models.Outcome[*models.InvestmentProposal] {
		return models.Fallback(fallback.BuildProposal(bundle, time.Now()), errors.New("connection refused"))
	}
	f.advisory.outlook = func() models.Outcome[*models.MarketOutlook] {
		return models.Remote(&models.MarketOutlook{Summary: "Rates are on hold."})
	}
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)
	f.throughStep(t, snap.ID, wizard.StepProductRecommendations)

	res, err := f.svc.GenerateProposal(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Contains(t, res.Warning, "connection refused")
	assert.Equal(t, "Rates are on hold.", res.State.InvestmentProposal.MarketOutlook)

	records, err := f.svc.ListProposals(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fallback", records[0].Source)
}

func TestService_ManualAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	_, err := f.svc.SubmitManualAllocation(ctx, snap.ID, &models.ManualAllocation{
		ClientName:           "Ravi",
		AssetClassAllocation: map[string]float64{models.AssetClassEquity: 50, models.AssetClassDebt: 40},
	})
	var allocErr *wizard.AllocationError
	require.ErrorAs(t, err, &allocErr)

	res, err := f.svc.SubmitManualAllocation(ctx, snap.ID, &models.ManualAllocation{
		ClientName:           "Ravi",
		PortfolioSize:        2500000,
		RiskCategory:         models.RiskModerate,
		AssetClassAllocation: map[string]float64{models.AssetClassEquity: 50, models.AssetClassDebt: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepManualAllocation, res.State.CurrentStep)
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, 25.0, res.State.ManualAllocation.ProductTypeAllocation[models.AssetClassEquity][models.ProductLargeCap])
}

func TestService_Exports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	_, err := f.svc.ExportJSON(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNoProposal)

	f.throughStep(t, snap.ID, wizard.StepInvestmentProposal)

	out, err := f.svc.ExportJSON(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "investment-proposal-asha-menon.json", out.Filename)
	assert.Equal(t, "application/json", out.ContentType)
	assert.Contains(t, string(out.Data), `"clientName": "Asha Menon"`)

	pdfOut, err := f.svc.ExportPDF(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "investment-proposal-asha-menon.pdf", pdfOut.Filename)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ProposalsExported.WithLabelValues("pdf", "success")))

	f.pdf.err = errors.New("pdf service returned 500")
	_, err = f.svc.ExportPDF(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.Contains(t, err.Error(), "returned 500")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ProposalsExported.WithLabelValues("pdf", "failure")))
}

func TestService_AllocationChart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	_, err := f.svc.AllocationChart(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNoAllocation)

	f.throughStep(t, snap.ID, wizard.StepAssetAllocation)
	png, err := f.svc.AllocationChart(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "expected PNG data")
}

func TestService_SessionsScopedToAdvisor(t *testing.T) {
	f := newFixture(t)
	asha := common.WithAdvisor(context.Background(), &common.AdvisorContext{Username: "asha"})
	ravi := common.WithAdvisor(context.Background(), &common.AdvisorContext{Username: "ravi"})

	snap := f.svc.CreateSession(asha)
	_, err := f.svc.GetSession(ravi, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.DeleteSession(ravi, snap.ID), ErrSessionNotFound)

	require.NoError(t, f.svc.DeleteSession(asha, snap.ID))
	_, err = f.svc.GetSession(asha, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_SessionExpires(t *testing.T) {
	f := newFixture(t, WithSessionTTL(50*time.Millisecond))
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	time.Sleep(120 * time.Millisecond)
	_, err := f.svc.GetSession(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ResetAndSubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.svc.CreateSession(ctx)

	var mu sync.Mutex
	var seen []wizard.Step
	unsubscribe, err := f.svc.Subscribe(ctx, snap.ID, func(s wizard.State) {
		mu.Lock()
		seen = append(seen, s.CurrentStep)
		mu.Unlock()
	})
	require.NoError(t, err)

	f.throughStep(t, snap.ID, wizard.StepRiskAssessment)
	res, err := f.svc.Reset(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.InitialState(), res.State)

	unsubscribe()
	f.throughStep(t, snap.ID, wizard.StepClientProfile)

	mu.Lock()
	defer mu.Unlock()
	// Two dispatches per step, then the reset.
	assert.Len(t, seen, 5)
	assert.Equal(t, wizard.StepClientProfile, seen[len(seen)-1])
}
