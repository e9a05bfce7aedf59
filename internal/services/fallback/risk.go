// Package fallback holds the local calculators used when the advisory backend
// is unavailable. Every function is pure and never fails: missing inputs are
// replaced with the defaults below.
package fallback

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/vire-intake/internal/models"
)

// Defaults applied to missing profile inputs.
const (
	DefaultAge               = 35
	DefaultHorizon           = models.HorizonMedium
	DefaultStyle             = models.StyleBalanced
	DefaultMaxAcceptableLoss = 10.0
	DefaultPortfolioSize     = 1000000.0
	DefaultClientName        = "Valued Client"
	DefaultRiskCategory      = models.RiskModerate
)

// AssessRisk scores a profile from four unweighted components.
func AssessRisk(p *models.ClientProfile) *models.RiskAssessment {
	age, horizon, style, maxLoss := riskInputs(p)

	breakdown := models.RiskBreakdown{
		AgeImpact:       ageImpact(age),
		HorizonImpact:   horizonImpact(horizon),
		StyleImpact:     styleImpact(style),
		ToleranceImpact: toleranceImpact(maxLoss),
	}

	score := roundHalfUp(breakdown.Total() / 4)
	score = math.Max(0, math.Min(100, score))
	category := RiskCategoryForScore(int(score))

	return &models.RiskAssessment{
		RiskScore:    int(score),
		RiskCategory: category,
		Breakdown:    breakdown,
		Explanation: fmt.Sprintf(
			"Risk score %d (%s) from age %d, %s horizon, %s style and a maximum acceptable loss of %.0f%%.",
			int(score), category, age, horizon, style, maxLoss),
	}
}

// RiskCategoryForScore maps a 0-100 score to its category.
func RiskCategoryForScore(score int) string {
	switch {
	case score < 20:
		return models.RiskConservative
	case score < 40:
		return models.RiskModeratelyConservative
	case score < 60:
		return models.RiskModerate
	case score < 80:
		return models.RiskModeratelyAggressive
	default:
		return models.RiskAggressive
	}
}

// manualOverrideScores are the fixed scores used when an advisor picks a
// category by hand.
var manualOverrideScores = map[string]int{
	models.RiskConservative:    20,
	models.RiskModerate:        50,
	models.RiskAggressive:      75,
	models.RiskUltraAggressive: 90,
}

// ManualOverrideCategories lists the categories an advisor may pick.
var ManualOverrideCategories = []string{
	models.RiskConservative,
	models.RiskModerate,
	models.RiskAggressive,
	models.RiskUltraAggressive,
}

// ManualRiskAssessment builds the assessment for a hand-picked category. The
// second return is false when the category cannot be picked manually.
func ManualRiskAssessment(category string) (*models.RiskAssessment, bool) {
	for _, c := range ManualOverrideCategories {
		if strings.EqualFold(c, strings.TrimSpace(category)) {
			return &models.RiskAssessment{
				RiskScore:      manualOverrideScores[c],
				RiskCategory:   c,
				Explanation:    fmt.Sprintf("Risk category set manually to %s.", c),
				ManualOverride: true,
			}, true
		}
	}
	return nil, false
}

func riskInputs(p *models.ClientProfile) (age int, horizon, style string, maxLoss float64) {
	age, horizon, style, maxLoss = DefaultAge, DefaultHorizon, DefaultStyle, DefaultMaxAcceptableLoss
	if p == nil {
		return
	}
	if p.Personal.Age > 0 {
		age = p.Personal.Age
	}
	if h := strings.TrimSpace(p.Investment.Horizon); h != "" {
		horizon = h
	}
	if s := strings.TrimSpace(p.Investment.Style); s != "" {
		style = s
	}
	if p.RiskTolerance.MaxAcceptableLoss > 0 {
		maxLoss = p.RiskTolerance.MaxAcceptableLoss
	}
	return
}

// ageImpact decreases by one point per year above 25, between 0 and 40.
func ageImpact(age int) float64 {
	return math.Min(40, math.Max(0, float64(40-(age-25))))
}

func horizonImpact(horizon string) float64 {
	switch horizon {
	case models.HorizonShort:
		return 10
	case models.HorizonMedium:
		return 25
	default:
		return 40
	}
}

func styleImpact(style string) float64 {
	switch style {
	case models.StyleCapitalProtection:
		return 10
	case models.StyleBalanced:
		return 25
	default:
		return 40
	}
}

func toleranceImpact(maxLoss float64) float64 {
	return math.Min(50, 2*maxLoss)
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
