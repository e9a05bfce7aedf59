package models

import "strings"

// ClientProfile is the data collected on the first wizard step.
type ClientProfile struct {
	Personal      PersonalInfo          `json:"personal"`
	Financial     FinancialInfo         `json:"financial"`
	Investment    InvestmentPreferences `json:"investment"`
	RiskTolerance RiskTolerance         `json:"riskTolerance"`
}

// PersonalInfo holds identity and household details.
type PersonalInfo struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Occupation    string `json:"occupation,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	Dependents    int    `json:"dependents"`
}

// FinancialInfo holds the client's balance sheet in rupees.
type FinancialInfo struct {
	Investments      float64  `json:"investments"`
	Liabilities      float64  `json:"liabilities"`
	RealEstate       float64  `json:"realEstate"`
	Savings          float64  `json:"savings"`
	MonthlyExpenses  float64  `json:"monthlyExpenses"`
	EmergencyFund    string   `json:"emergencyFund,omitempty"` // bucket, e.g. "3-6 months"
	ExistingProducts []string `json:"existingProducts,omitempty"`
}

// InvestmentPreferences holds goals and the planned investment.
type InvestmentPreferences struct {
	Goals              []string `json:"goals,omitempty"`
	Horizon            string   `json:"horizon"`
	Style              string   `json:"style"`
	InitialAmount      float64  `json:"initialAmount"`
	RecurringAmount    float64  `json:"recurringAmount,omitempty"`
	RecurringFrequency string   `json:"recurringFrequency,omitempty"`
}

// RiskTolerance holds the questionnaire answers that drive risk scoring.
type RiskTolerance struct {
	MarketDropReaction string  `json:"marketDropReaction"`
	VolatilityComfort  string  `json:"volatilityComfort,omitempty"`
	MaxAcceptableLoss  float64 `json:"maxAcceptableLoss"`
	KnowledgeLevel     string  `json:"knowledgeLevel,omitempty"`
}

// Investment horizon buckets.
const (
	HorizonShort  = "short"
	HorizonMedium = "medium"
	HorizonLong   = "long"
)

// Investment style values.
const (
	StyleCapitalProtection = "capital-protection"
	StyleBalanced          = "balanced"
	StyleGrowth            = "growth"
	StyleAggressiveGrowth  = "aggressive-growth"
)

// Market drop reactions.
const (
	ReactionSell = "sell"
	ReactionHold = "hold"
	ReactionBuy  = "buy"
)

// ValidHorizons is the set of accepted horizon values.
var ValidHorizons = map[string]bool{
	HorizonShort:  true,
	HorizonMedium: true,
	HorizonLong:   true,
}

// ValidStyles is the set of accepted investment style values.
var ValidStyles = map[string]bool{
	StyleCapitalProtection: true,
	StyleBalanced:          true,
	StyleGrowth:            true,
	StyleAggressiveGrowth:  true,
}

// ClientName returns the trimmed client name.
func (p *ClientProfile) ClientName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Personal.Name)
}

// NetWorth is total assets less liabilities.
func (f FinancialInfo) NetWorth() float64 {
	return f.Investments + f.RealEstate + f.Savings - f.Liabilities
}

// Clone returns a deep copy of the profile.
func (p *ClientProfile) Clone() *ClientProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Financial.ExistingProducts = append([]string(nil), p.Financial.ExistingProducts...)
	c.Investment.Goals = append([]string(nil), p.Investment.Goals...)
	return &c
}
