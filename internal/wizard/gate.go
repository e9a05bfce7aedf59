package wizard

import (
	"errors"
	"fmt"
)

// ErrInvalidStep is returned for steps outside 1-6.
var ErrInvalidStep = errors.New("invalid wizard step")

// GateError is returned when a step's prerequisite is missing.
type GateError struct {
	Target  Step
	Missing Step
}

func (e *GateError) Error() string {
	return fmt.Sprintf("complete %s before opening %s", e.Missing, e.Target)
}

// CanNavigateToStep reports whether target is reachable from s. Steps 1 and
// 6 are always reachable; steps 2-5 need the previous step's result.
func CanNavigateToStep(s State, target Step) bool {
	switch target {
	case StepClientProfile, StepManualAllocation:
		return true
	case StepRiskAssessment, StepAssetAllocation, StepProductRecommendations, StepInvestmentProposal:
		return s.completed(target - 1)
	}
	return false
}

// CheckNavigation returns nil when target is reachable, otherwise an error
// naming the first step whose result is missing.
func CheckNavigation(s State, target Step) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(target))
	}
	if CanNavigateToStep(s, target) {
		return nil
	}
	missing := target - 1
	for step := StepClientProfile; step < target; step++ {
		if !s.completed(step) {
			missing = step
			break
		}
	}
	return &GateError{Target: target, Missing: missing}
}
