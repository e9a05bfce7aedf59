package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/fallback"
)

// manualAllocationRequest is the simplified schema of the manual service.
type manualAllocationRequest struct {
	ClientName      string             `json:"clientName"`
	PortfolioSize   float64            `json:"portfolioSize"`
	RiskCategory    string             `json:"riskCategory"`
	AssetAllocation map[string]float64 `json:"assetAllocation"`
	Notes           string             `json:"notes,omitempty"`
}

type manualAllocationResponse struct {
	Success               bool                          `json:"success"`
	ProductTypeAllocation map[string]map[string]float64 `json:"productTypeAllocation"`
	Explanation           string                        `json:"explanation"`
}

// SubmitManualAllocation sends an advisor's hand-entered allocation to the
// manual service, which fills in product types. On failure the product
// types are split locally.
func (c *Client) SubmitManualAllocation(ctx context.Context, manual *models.ManualAllocation) models.Outcome[*models.ManualAllocation] {
	return remoteOr(c, ctx, "manual_allocation",
		func(ctx context.Context) (*models.ManualAllocation, error) {
			if manual == nil || len(manual.AssetClassAllocation) == 0 {
				return nil, &ValidationError{Field: "assetClassAllocation", Message: "is required"}
			}
			req := manualAllocationRequest{
				ClientName:      strings.TrimSpace(manual.ClientName),
				PortfolioSize:   manual.PortfolioSize,
				RiskCategory:    manual.RiskCategory,
				AssetAllocation: manual.AssetClassAllocation,
				Notes:           manual.Notes,
			}
			var resp manualAllocationResponse
			if err := c.post(ctx, c.manualURL+"/api/manual-allocation", req, &resp); err != nil {
				return nil, err
			}
			if !resp.Success {
				return nil, fmt.Errorf("%w: manual allocation reported success=false", ErrMalformedResponse)
			}
			out := manual.Clone()
			if len(out.ProductTypeAllocation) == 0 {
				out.ProductTypeAllocation = resp.ProductTypeAllocation
			}
			if len(out.ProductTypeAllocation) == 0 {
				out.ProductTypeAllocation = fallback.AllocateProductTypes(out.AssetClassAllocation)
			}
			if out.Notes == "" {
				out.Notes = resp.Explanation
			}
			return out, nil
		},
		func() *models.ManualAllocation {
			out := manual.Clone()
			if out == nil {
				out = &models.ManualAllocation{}
			}
			if len(out.ProductTypeAllocation) == 0 {
				out.ProductTypeAllocation = fallback.AllocateProductTypes(out.AssetClassAllocation)
			}
			return out
		},
	)
}
