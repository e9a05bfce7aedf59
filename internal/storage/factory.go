// Package storage selects the proposal archive backend.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/storage/memory"
	"github.com/bobmcallan/vire-intake/internal/storage/surrealdb"
)

// Backend names.
const (
	BackendMemory    = "memory"
	BackendSurrealDB = "surrealdb"
)

// Backend reports which archive the configuration selects.
func Backend(config common.StorageConfig) string {
	if config.Address == "" {
		return BackendMemory
	}
	return BackendSurrealDB
}

// NewProposalStore opens the archive for config: SurrealDB when an address
// is configured, in memory otherwise.
func NewProposalStore(ctx context.Context, config common.StorageConfig, logger *common.Logger) (interfaces.ProposalStore, error) {
	switch Backend(config) {
	case BackendSurrealDB:
		db, err := surrealdb.Connect(ctx, config, logger)
		if err != nil {
			return nil, fmt.Errorf("open proposal archive: %w", err)
		}
		return surrealdb.NewProposalStore(db, logger), nil
	default:
		logger.Info().Msg("No storage address configured, proposals archived in memory")
		return memory.NewProposalStore(logger), nil
	}
}
