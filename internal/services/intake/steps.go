package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
	"github.com/bobmcallan/vire-intake/internal/validation"
	"github.com/bobmcallan/vire-intake/internal/wizard"
)

// Operations tracked by the per-session generation counter.
const (
	opProfile         = "profile"
	opRisk            = "risk_assessment"
	opAllocation      = "asset_allocation"
	opRecommendations = "product_recommendations"
	opProposal        = "proposal"
	opManual          = "manual_allocation"
)

var allOperations = []string{opProfile, opRisk, opAllocation, opRecommendations, opProposal, opManual}

// StepResult is the session state after a step operation. Source and
// Warning report how the step's result was produced. Superseded is set when
// a newer request for the same step was issued while this one was running;
// its result was dropped and State is the session's current state.
type StepResult struct {
	State      wizard.State  `json:"state"`
	Source     models.Source `json:"source,omitempty"`
	Warning    string        `json:"warning,omitempty"`
	Superseded bool          `json:"superseded,omitempty"`
}

func newResult[T any](state wizard.State, applied bool, out models.Outcome[T]) *StepResult {
	return &StepResult{
		State:      state,
		Source:     out.Source,
		Warning:    out.Warning(),
		Superseded: !applied,
	}
}

// requireStep checks the step gate for target against the current state.
func (s *Service) requireStep(sess *Session, target wizard.Step) (wizard.State, error) {
	state := sess.store.State()
	if err := wizard.CheckNavigation(state, target); err != nil {
		s.observeGate(err)
		return state, err
	}
	return state, nil
}

func (s *Service) observeGate(err error) {
	var gateErr *wizard.GateError
	if errors.As(err, &gateErr) {
		s.metrics.ObserveGateRejection(gateErr.Target.Name())
	}
}

// Navigate moves the session to step if the gate allows it.
func (s *Service) Navigate(ctx context.Context, id string, step int) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := sess.store.NavigateToStep(wizard.Step(step))
	if err != nil {
		s.observeGate(err)
		s.logger.Debug().Str("session", id).Int("step", step).Err(err).Msg("Navigation refused")
		return nil, err
	}
	return &StepResult{State: state}, nil
}

// Reset clears the session back to step 1. Requests still in flight are
// superseded.
func (s *Service) Reset(ctx context.Context, id string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for _, op := range allOperations {
		sess.generations[op]++
	}
	state, err := sess.dispatch(wizard.Reset{})
	if err != nil {
		return nil, err
	}
	return &StepResult{State: state}, nil
}

// SubmitProfile validates and records the client profile, then opens step 2.
func (s *Service) SubmitProfile(ctx context.Context, id string, profile *models.ClientProfile) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(profile); err != nil {
		return nil, err
	}

	gen := sess.begin(opProfile)
	out := s.advisory.SubmitProfile(ctx, profile)
	state, applied, err := sess.applyIfCurrent(opProfile, gen,
		wizard.SetClientProfile{Profile: out.Data},
		wizard.SetStep{Step: wizard.StepRiskAssessment},
	)
	if err != nil {
		return nil, err
	}
	return newResult(state, applied, out), nil
}

// AssessRisk scores the recorded profile and opens step 3.
func (s *Service) AssessRisk(ctx context.Context, id string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.requireStep(sess, wizard.StepRiskAssessment)
	if err != nil {
		return nil, err
	}

	gen := sess.begin(opRisk)
	out := s.advisory.GetRiskAssessment(ctx, state.ClientProfile)
	state, applied, err := sess.applyIfCurrent(opRisk, gen,
		wizard.SetRiskAssessment{Assessment: out.Data},
		wizard.SetStep{Step: wizard.StepAssetAllocation},
	)
	if err != nil {
		return nil, err
	}
	return newResult(state, applied, out), nil
}

// OverrideRisk replaces the risk assessment with the advisor's chosen
// category and opens step 3.
func (s *Service) OverrideRisk(ctx context.Context, id, category string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireStep(sess, wizard.StepRiskAssessment); err != nil {
		return nil, err
	}
	assessment, ok := fallback.ManualRiskAssessment(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRiskCategory, category)
	}

	gen := sess.begin(opRisk)
	state, _, err := sess.applyIfCurrent(opRisk, gen,
		wizard.SetRiskAssessment{Assessment: assessment},
		wizard.SetStep{Step: wizard.StepAssetAllocation},
	)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("session", id).Str("category", category).Msg("Risk category overridden")
	return &StepResult{State: state, Source: models.SourceManual}, nil
}

// AllocateAssets computes the asset allocation and opens step 4.
func (s *Service) AllocateAssets(ctx context.Context, id string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.requireStep(sess, wizard.StepAssetAllocation)
	if err != nil {
		return nil, err
	}

	gen := sess.begin(opAllocation)
	out := s.advisory.GetAssetAllocation(ctx, state.ClientProfile, state.RiskAssessment)
	state, applied, err := sess.applyIfCurrent(opAllocation, gen,
		wizard.SetAssetAllocation{Allocation: out.Data},
		wizard.SetStep{Step: wizard.StepProductRecommendations},
	)
	if err != nil {
		return nil, err
	}
	return newResult(state, applied, out), nil
}

// EditAllocation replaces the allocation with an advisor's edit. Edits
// that fail the sum checks return *wizard.AllocationError and leave the
// state untouched.
func (s *Service) EditAllocation(ctx context.Context, id string, allocation *models.AssetAllocation) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireStep(sess, wizard.StepAssetAllocation); err != nil {
		return nil, err
	}

	gen := sess.begin(opAllocation)
	state, _, err := sess.applyIfCurrent(opAllocation, gen, wizard.EditAssetAllocation{Allocation: allocation})
	if err != nil {
		return nil, err
	}
	return &StepResult{State: state, Source: models.SourceManual}, nil
}

// RecommendProducts computes or refreshes the product recommendations and
// opens step 5. Of overlapping refreshes only the last one issued is kept.
func (s *Service) RecommendProducts(ctx context.Context, id string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.requireStep(sess, wizard.StepProductRecommendations)
	if err != nil {
		return nil, err
	}

	gen := sess.begin(opRecommendations)
	out := s.advisory.GetProductRecommendations(ctx, state.ClientProfile, state.RiskAssessment, state.AssetAllocation)
	state, applied, err := sess.applyIfCurrent(opRecommendations, gen,
		wizard.SetProductRecommendations{Recommendations: out.Data},
		wizard.SetStep{Step: wizard.StepInvestmentProposal},
	)
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Debug().Str("session", id).Msg("Superseded product recommendations discarded")
	}
	return newResult(state, applied, out), nil
}

// ProductEdit addresses one product of the recommendations.
type ProductEdit struct {
	AssetClass  string                       `json:"assetClass"`
	ProductType string                       `json:"productType"`
	Name        string                       `json:"name,omitempty"`
	Product     models.ProductRecommendation `json:"product"`
}

// AddProduct appends a product to the recommendations.
func (s *Service) AddProduct(ctx context.Context, id string, edit ProductEdit) (*StepResult, error) {
	return s.editProducts(ctx, id, wizard.AddProduct{
		AssetClass:  edit.AssetClass,
		ProductType: edit.ProductType,
		Product:     edit.Product,
	})
}

// UpdateProduct replaces the product called edit.Name.
func (s *Service) UpdateProduct(ctx context.Context, id string, edit ProductEdit) (*StepResult, error) {
	return s.editProducts(ctx, id, wizard.UpdateProduct{
		AssetClass:  edit.AssetClass,
		ProductType: edit.ProductType,
		Name:        edit.Name,
		Product:     edit.Product,
	})
}

// RemoveProduct deletes the product called edit.Name.
func (s *Service) RemoveProduct(ctx context.Context, id string, edit ProductEdit) (*StepResult, error) {
	return s.editProducts(ctx, id, wizard.RemoveProduct{
		AssetClass:  edit.AssetClass,
		ProductType: edit.ProductType,
		Name:        edit.Name,
	})
}

func (s *Service) editProducts(ctx context.Context, id string, action wizard.Action) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	state, err := sess.dispatch(action)
	if err != nil {
		return nil, err
	}
	return &StepResult{State: state, Source: models.SourceManual}, nil
}

// GenerateProposal assembles the proposal from the recorded results and
// archives it.
func (s *Service) GenerateProposal(ctx context.Context, id string) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.requireStep(sess, wizard.StepInvestmentProposal)
	if err != nil {
		return nil, err
	}

	gen := sess.begin(opProposal)
	out := s.advisory.GenerateProposal(ctx, state.Bundle())
	proposal := out.Data
	if proposal.ID == "" {
		proposal.ID = fmt.Sprintf("prop_%s", uuid.New().String()[:8])
	}
	if out.IsFallback() {
		// The backend outlook or the narrator may still be reachable.
		if outlook := s.advisory.GetMarketOutlook(ctx); outlook.Data != nil && outlook.Data.Summary != "" {
			proposal.MarketOutlook = outlook.Data.Summary
		}
	}

	state, applied, err := sess.applyIfCurrent(opProposal, gen,
		wizard.SetInvestmentProposal{Proposal: proposal},
		wizard.SetStep{Step: wizard.StepInvestmentProposal},
	)
	if err != nil {
		return nil, err
	}
	if applied {
		s.archiveProposal(ctx, sess, proposal, out.Source)
	}
	return newResult(state, applied, out), nil
}

// SubmitManualAllocation records a hand-entered allocation on step 6,
// completing its product-type split remotely or locally.
func (s *Service) SubmitManualAllocation(ctx context.Context, id string, manual *models.ManualAllocation) (*StepResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if manual == nil {
		return nil, &wizard.AllocationError{Reason: "manual allocation is required"}
	}
	if err := wizard.ValidateAllocation(manual.AsAssetAllocation()); err != nil {
		return nil, err
	}

	gen := sess.begin(opManual)
	out := s.advisory.SubmitManualAllocation(ctx, manual)
	state, applied, err := sess.applyIfCurrent(opManual, gen,
		wizard.SetManualAllocation{Allocation: out.Data},
		wizard.SetStep{Step: wizard.StepManualAllocation},
	)
	if err != nil {
		return nil, err
	}
	return newResult(state, applied, out), nil
}

// StockCategories lists the product categories on offer.
func (s *Service) StockCategories(ctx context.Context) models.Outcome[[]models.StockCategory] {
	return s.advisory.GetStockCategories(ctx)
}

// MarketOutlook returns the current market commentary.
func (s *Service) MarketOutlook(ctx context.Context) models.Outcome[*models.MarketOutlook] {
	return s.advisory.GetMarketOutlook(ctx)
}
