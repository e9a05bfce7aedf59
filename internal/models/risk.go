package models

// RiskAssessment is the outcome of the second wizard step.
type RiskAssessment struct {
	RiskScore      int           `json:"riskScore"`
	RiskCategory   string        `json:"riskCategory"`
	Breakdown      RiskBreakdown `json:"breakdown"`
	Explanation    string        `json:"explanation,omitempty"`
	ManualOverride bool          `json:"manualOverride,omitempty"`
}

// RiskBreakdown holds the four component impacts behind a risk score.
type RiskBreakdown struct {
	AgeImpact       float64 `json:"ageImpact"`
	HorizonImpact   float64 `json:"horizonImpact"`
	StyleImpact     float64 `json:"styleImpact"`
	ToleranceImpact float64 `json:"toleranceImpact"`
}

// Total is the unweighted sum of the four impacts.
func (b RiskBreakdown) Total() float64 {
	return b.AgeImpact + b.HorizonImpact + b.StyleImpact + b.ToleranceImpact
}

// Risk categories.
const (
	RiskConservative           = "Conservative"
	RiskModeratelyConservative = "Moderately Conservative"
	RiskModerate               = "Moderate"
	RiskModeratelyAggressive   = "Moderately Aggressive"
	RiskAggressive             = "Aggressive"
	RiskUltraAggressive        = "Ultra Aggressive"
)

// ValidRiskCategories is the set of categories a risk assessment may carry.
var ValidRiskCategories = map[string]bool{
	RiskConservative:           true,
	RiskModeratelyConservative: true,
	RiskModerate:               true,
	RiskModeratelyAggressive:   true,
	RiskAggressive:             true,
	RiskUltraAggressive:        true,
}

// Clone returns a copy of the assessment.
func (r *RiskAssessment) Clone() *RiskAssessment {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
