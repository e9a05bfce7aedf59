// Package wizard holds the intake wizard's state, the pure reducer that
// transitions it, the step gate, and an observable store per session.
package wizard

import (
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/models"
)

// Step is a wizard page, 1 through 6.
type Step int

const (
	StepClientProfile Step = iota + 1
	StepRiskAssessment
	StepAssetAllocation
	StepProductRecommendations
	StepInvestmentProposal
	StepManualAllocation
)

var stepNames = map[Step]string{
	StepClientProfile:          "Client Profile",
	StepRiskAssessment:         "Risk Assessment",
	StepAssetAllocation:        "Asset Allocation",
	StepProductRecommendations: "Product Recommendations",
	StepInvestmentProposal:     "Investment Proposal",
	StepManualAllocation:       "Manual Allocation",
}

// Valid reports whether s is one of the six wizard steps.
func (s Step) Valid() bool {
	return s >= StepClientProfile && s <= StepManualAllocation
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return fmt.Sprintf("step %d (%s)", int(s), name)
	}
	return fmt.Sprintf("step %d", int(s))
}

// Name returns the page title.
func (s Step) Name() string {
	return stepNames[s]
}

// State is the whole wizard state. It is a value: the reducer returns a new
// State and never mutates the objects the previous one points to.
type State struct {
	CurrentStep            Step                           `json:"currentStep"`
	ClientProfile          *models.ClientProfile          `json:"clientProfile"`
	RiskAssessment         *models.RiskAssessment         `json:"riskAssessment"`
	AssetAllocation        *models.AssetAllocation        `json:"assetAllocation"`
	ProductRecommendations *models.ProductRecommendations `json:"productRecommendations"`
	InvestmentProposal     *models.InvestmentProposal     `json:"investmentProposal"`
	ManualAllocation       *models.ManualAllocation       `json:"manualAllocation"`
}

// InitialState is a fresh wizard on step 1.
func InitialState() State {
	return State{CurrentStep: StepClientProfile}
}

// Bundle collects the results the proposal generator needs.
func (s State) Bundle() models.ProposalBundle {
	return models.ProposalBundle{
		ClientProfile:          s.ClientProfile,
		RiskAssessment:         s.RiskAssessment,
		AssetAllocation:        s.AssetAllocation,
		ProductRecommendations: s.ProductRecommendations,
	}
}

// completed reports whether the result produced on step has been recorded.
func (s State) completed(step Step) bool {
	switch step {
	case StepClientProfile:
		return s.ClientProfile != nil
	case StepRiskAssessment:
		return s.RiskAssessment != nil
	case StepAssetAllocation:
		return s.AssetAllocation != nil
	case StepProductRecommendations:
		return s.ProductRecommendations != nil
	case StepInvestmentProposal:
		return s.InvestmentProposal != nil
	case StepManualAllocation:
		return s.ManualAllocation != nil
	}
	return false
}
