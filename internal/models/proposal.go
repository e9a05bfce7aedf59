package models

import "time"

// InvestmentProposal aggregates every wizard result with the narrative
// sections of the final document.
type InvestmentProposal struct {
	ID                     string                  `json:"id"`
	GeneratedAt            time.Time               `json:"generatedAt"`
	ClientName             string                  `json:"clientName"`
	ClientProfile          *ClientProfile          `json:"clientProfile"`
	RiskAssessment         *RiskAssessment         `json:"riskAssessment"`
	AssetAllocation        *AssetAllocation        `json:"assetAllocation"`
	ProductRecommendations *ProductRecommendations `json:"productRecommendations"`
	CompanyIntro           string                  `json:"companyIntro"`
	MarketOutlook          string                  `json:"marketOutlook"`
	ImplementationPlan     []string                `json:"implementationPlan"`
	Disclaimer             string                  `json:"disclaimer"`
}

// ProposalBundle is everything the proposal generator needs.
type ProposalBundle struct {
	ClientProfile          *ClientProfile          `json:"clientProfile"`
	RiskAssessment         *RiskAssessment         `json:"riskAssessment"`
	AssetAllocation        *AssetAllocation        `json:"assetAllocation"`
	ProductRecommendations *ProductRecommendations `json:"productRecommendations"`
}

// RiskCategory returns the bundle's risk category, or empty.
func (b ProposalBundle) RiskCategory() string {
	if b.RiskAssessment == nil {
		return ""
	}
	return b.RiskAssessment.RiskCategory
}

// Clone returns a deep copy of the proposal.
func (p *InvestmentProposal) Clone() *InvestmentProposal {
	if p == nil {
		return nil
	}
	c := *p
	c.ClientProfile = p.ClientProfile.Clone()
	c.RiskAssessment = p.RiskAssessment.Clone()
	c.AssetAllocation = p.AssetAllocation.Clone()
	c.ProductRecommendations = p.ProductRecommendations.Clone()
	c.ImplementationPlan = append([]string(nil), p.ImplementationPlan...)
	return &c
}

// ProposalRecord is an archived proposal with its ownership metadata.
type ProposalRecord struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"sessionId"`
	Advisor      string              `json:"advisor"`
	ClientName   string              `json:"clientName"`
	RiskCategory string              `json:"riskCategory"`
	Source       string              `json:"source"`
	Proposal     *InvestmentProposal `json:"proposal"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// MarketOutlook is the narrative returned by GET /api/market-outlook.
type MarketOutlook struct {
	Summary   string    `json:"summary"`
	Equity    string    `json:"equity,omitempty"`
	Debt      string    `json:"debt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockCategory is one entry of GET /api/stock-categories.
type StockCategory struct {
	AssetClass   string   `json:"assetClass"`
	ProductType  string   `json:"productType"`
	Description  string   `json:"description,omitempty"`
	ProductNames []string `json:"productNames,omitempty"`
}
