package server

import (
	"context"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/intake"
)

// IntakeService runs client intake wizards. Implemented by *intake.Service.
type IntakeService interface {
	// CreateSession starts a wizard on step 1
	CreateSession(ctx context.Context) *intake.Snapshot

	// GetSession returns the session's current state
	GetSession(ctx context.Context, id string) (*intake.Snapshot, error)

	// DeleteSession discards a session
	DeleteSession(ctx context.Context, id string) error

	// Navigate moves to a step through the step gate
	Navigate(ctx context.Context, id string, step int) (*intake.StepResult, error)

	// Reset returns the session to step 1
	Reset(ctx context.Context, id string) (*intake.StepResult, error)

	// SubmitProfile validates and records the client profile
	SubmitProfile(ctx context.Context, id string, profile *models.ClientProfile) (*intake.StepResult, error)

	// AssessRisk scores the recorded profile
	AssessRisk(ctx context.Context, id string) (*intake.StepResult, error)

	// OverrideRisk sets the risk category by hand
	OverrideRisk(ctx context.Context, id, category string) (*intake.StepResult, error)

	// AllocateAssets computes the asset allocation
	AllocateAssets(ctx context.Context, id string) (*intake.StepResult, error)

	// EditAllocation replaces the allocation with a validated edit
	EditAllocation(ctx context.Context, id string, allocation *models.AssetAllocation) (*intake.StepResult, error)

	// AllocationChart renders the asset-class split as PNG
	AllocationChart(ctx context.Context, id string) ([]byte, error)

	// RecommendProducts computes or refreshes product recommendations
	RecommendProducts(ctx context.Context, id string) (*intake.StepResult, error)

	// AddProduct, UpdateProduct and RemoveProduct edit the recommendations
	AddProduct(ctx context.Context, id string, edit intake.ProductEdit) (*intake.StepResult, error)
	UpdateProduct(ctx context.Context, id string, edit intake.ProductEdit) (*intake.StepResult, error)
	RemoveProduct(ctx context.Context, id string, edit intake.ProductEdit) (*intake.StepResult, error)

	// GenerateProposal assembles and archives the proposal
	GenerateProposal(ctx context.Context, id string) (*intake.StepResult, error)

	// ExportJSON and ExportPDF render the proposal for download
	ExportJSON(ctx context.Context, id string) (*intake.Export, error)
	ExportPDF(ctx context.Context, id string) (*intake.Export, error)

	// SubmitManualAllocation records a hand-entered allocation on step 6
	SubmitManualAllocation(ctx context.Context, id string, manual *models.ManualAllocation) (*intake.StepResult, error)

	// StockCategories and MarketOutlook are read-throughs to the backend
	StockCategories(ctx context.Context) models.Outcome[[]models.StockCategory]
	MarketOutlook(ctx context.Context) models.Outcome[*models.MarketOutlook]

	// ListProposals and GetProposal read the archive
	ListProposals(ctx context.Context, clientName string, limit int) ([]*models.ProposalRecord, error)
	GetProposal(ctx context.Context, id string) (*models.ProposalRecord, error)

	// ActiveSessions returns the number of live sessions
	ActiveSessions() int
}
