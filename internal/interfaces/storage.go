// Package interfaces defines service contracts for the intake server
package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-intake/internal/models"
)

// ProposalStore archives generated proposals
type ProposalStore interface {
	// Save stores the record, assigning an ID and CreatedAt when empty
	Save(ctx context.Context, record *models.ProposalRecord) error

	// Get returns the record, or nil when it does not exist
	Get(ctx context.Context, id string) (*models.ProposalRecord, error)

	// List returns records newest first
	List(ctx context.Context, opts ProposalListOptions) ([]*models.ProposalRecord, error)

	// Delete removes the record; missing records are not an error
	Delete(ctx context.Context, id string) error

	// Close releases the backend
	Close() error
}

// ProposalListOptions filters archive listings
type ProposalListOptions struct {
	Advisor    string // only records created by this advisor
	ClientName string // case-insensitive substring match
	Limit      int    // default 50, max 200
}

// Normalize applies the listing defaults.
func (o ProposalListOptions) Normalize() ProposalListOptions {
	if o.Limit <= 0 {
		o.Limit = 50
	}
	if o.Limit > 200 {
		o.Limit = 200
	}
	return o
}
