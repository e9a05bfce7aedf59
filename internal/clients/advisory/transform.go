package advisory

import (
	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
)

var (
	horizonVocabulary = map[string]string{
		models.HorizonShort:  "short_term",
		models.HorizonMedium: "medium_term",
		models.HorizonLong:   "long_term",
	}
	styleVocabulary = map[string]string{
		models.StyleCapitalProtection: "capital_protection",
		models.StyleBalanced:          "balanced",
		models.StyleGrowth:            "growth",
		models.StyleAggressiveGrowth:  "aggressive_growth",
	}
	reactionVocabulary = map[string]string{
		models.ReactionSell: "sell_all",
		models.ReactionHold: "do_nothing",
		models.ReactionBuy:  "buy_more",
	}
)

// translate maps v through vocab; unknown values pass through unchanged.
func translate(vocab map[string]string, v string) string {
	if mapped, ok := vocab[v]; ok {
		return mapped
	}
	return v
}

// profileRequest is the flat profile shape the backend expects.
type profileRequest struct {
	Name               string   `json:"name"`
	Age                int      `json:"age"`
	Occupation         string   `json:"occupation,omitempty"`
	Email              string   `json:"email,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	MaritalStatus      string   `json:"maritalStatus,omitempty"`
	Dependents         int      `json:"dependents"`
	Investments        float64  `json:"investments"`
	Liabilities        float64  `json:"liabilities"`
	RealEstate         float64  `json:"realEstate"`
	Savings            float64  `json:"savings"`
	MonthlyExpenses    float64  `json:"monthlyExpenses"`
	NetWorth           float64  `json:"netWorth"`
	EmergencyFund      string   `json:"emergencyFund,omitempty"`
	ExistingProducts   []string `json:"existingProducts,omitempty"`
	InvestmentGoals    []string `json:"investmentGoals,omitempty"`
	InvestmentHorizon  string   `json:"investmentHorizon"`
	InvestmentStyle    string   `json:"investmentStyle"`
	InitialInvestment  float64  `json:"initialInvestment"`
	RecurringAmount    float64  `json:"recurringInvestment,omitempty"`
	RecurringFrequency string   `json:"recurringFrequency,omitempty"`
	MarketDropReaction string   `json:"marketDropReaction"`
	VolatilityComfort  string   `json:"volatilityComfort,omitempty"`
	MaxAcceptableLoss  float64  `json:"maxAcceptableLoss"`
	KnowledgeLevel     string   `json:"investmentKnowledge,omitempty"`
}

func transformProfile(p *models.ClientProfile) profileRequest {
	if p == nil {
		p = &models.ClientProfile{}
	}
	return profileRequest{
		Name:               p.Personal.Name,
		Age:                p.Personal.Age,
		Occupation:         p.Personal.Occupation,
		Email:              p.Personal.Email,
		Phone:              p.Personal.Phone,
		MaritalStatus:      p.Personal.MaritalStatus,
		Dependents:         p.Personal.Dependents,
		Investments:        p.Financial.Investments,
		Liabilities:        p.Financial.Liabilities,
		RealEstate:         p.Financial.RealEstate,
		Savings:            p.Financial.Savings,
		MonthlyExpenses:    p.Financial.MonthlyExpenses,
		NetWorth:           p.Financial.NetWorth(),
		EmergencyFund:      p.Financial.EmergencyFund,
		ExistingProducts:   p.Financial.ExistingProducts,
		InvestmentGoals:    p.Investment.Goals,
		InvestmentHorizon:  translate(horizonVocabulary, p.Investment.Horizon),
		InvestmentStyle:    translate(styleVocabulary, p.Investment.Style),
		InitialInvestment:  p.Investment.InitialAmount,
		RecurringAmount:    p.Investment.RecurringAmount,
		RecurringFrequency: p.Investment.RecurringFrequency,
		MarketDropReaction: translate(reactionVocabulary, p.RiskTolerance.MarketDropReaction),
		VolatilityComfort:  p.RiskTolerance.VolatilityComfort,
		MaxAcceptableLoss:  p.RiskTolerance.MaxAcceptableLoss,
		KnowledgeLevel:     p.RiskTolerance.KnowledgeLevel,
	}
}

// riskProfileRequest carries the risk result plus the locally suggested split.
type riskProfileRequest struct {
	RiskScore         int     `json:"riskScore"`
	RiskCategory      string  `json:"riskCategory"`
	SuggestedEquity   float64 `json:"suggestedEquity"`
	SuggestedDebt     float64 `json:"suggestedDebt"`
	PortfolioSize     float64 `json:"portfolioSize"`
	SuggestionSummary string  `json:"suggestionSummary,omitempty"`
}

func transformRisk(p *models.ClientProfile, risk *models.RiskAssessment) riskProfileRequest {
	category := fallback.DefaultRiskCategory
	score := 0
	if risk != nil {
		score = risk.RiskScore
		if risk.RiskCategory != "" {
			category = risk.RiskCategory
		}
	}
	size := fallback.PortfolioSize(p)
	equity, debt, rationale := fallback.SuggestSplit(category, size)
	return riskProfileRequest{
		RiskScore:         score,
		RiskCategory:      category,
		SuggestedEquity:   equity,
		SuggestedDebt:     debt,
		PortfolioSize:     size,
		SuggestionSummary: rationale,
	}
}
