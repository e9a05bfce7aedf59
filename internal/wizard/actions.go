package wizard

import "github.com/bobmcallan/vire-intake/internal/models"

// Action is a state transition request handled by Reduce.
type Action interface {
	Type() string
}

// SetClientProfile records the step 1 result.
type SetClientProfile struct{ Profile *models.ClientProfile }

// SetRiskAssessment records the step 2 result, computed or manual.
type SetRiskAssessment struct{ Assessment *models.RiskAssessment }

// SetAssetAllocation records a generated step 3 result.
type SetAssetAllocation struct{ Allocation *models.AssetAllocation }

// EditAssetAllocation replaces the allocation with an advisor's edit after
// validating it.
type EditAssetAllocation struct{ Allocation *models.AssetAllocation }

// SetProductRecommendations records the step 4 result.
type SetProductRecommendations struct {
	Recommendations *models.ProductRecommendations
}

// AddProduct appends a product under a class and product type.
type AddProduct struct {
	AssetClass  string
	ProductType string
	Product     models.ProductRecommendation
}

// UpdateProduct replaces the product called Name.
type UpdateProduct struct {
	AssetClass  string
	ProductType string
	Name        string
	Product     models.ProductRecommendation
}

// RemoveProduct deletes the product called Name.
type RemoveProduct struct {
	AssetClass  string
	ProductType string
	Name        string
}

// SetInvestmentProposal records the step 5 result.
type SetInvestmentProposal struct{ Proposal *models.InvestmentProposal }

// SetManualAllocation records the step 6 result.
type SetManualAllocation struct{ Allocation *models.ManualAllocation }

// SetStep moves to another page, subject to the step gate.
type SetStep struct{ Step Step }

// Reset returns the wizard to its initial state.
type Reset struct{}

func (SetClientProfile) Type() string          { return "set_client_profile" }
func (SetRiskAssessment) Type() string         { return "set_risk_assessment" }
func (SetAssetAllocation) Type() string        { return "set_asset_allocation" }
func (EditAssetAllocation) Type() string       { return "edit_asset_allocation" }
func (SetProductRecommendations) Type() string { return "set_product_recommendations" }
func (AddProduct) Type() string                { return "add_product" }
func (UpdateProduct) Type() string             { return "update_product" }
func (RemoveProduct) Type() string             { return "remove_product" }
func (SetInvestmentProposal) Type() string     { return "set_investment_proposal" }
func (SetManualAllocation) Type() string       { return "set_manual_allocation" }
func (SetStep) Type() string                   { return "set_step" }
func (Reset) Type() string                     { return "reset" }
