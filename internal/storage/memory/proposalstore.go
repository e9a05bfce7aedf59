// Package memory provides an in-process proposal archive used when no
// database is configured. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/models"
)

// ProposalStore implements interfaces.ProposalStore in memory.
type ProposalStore struct {
	mu      sync.RWMutex
	records map[string]*models.ProposalRecord
	logger  *common.Logger
}

// NewProposalStore creates an empty store.
func NewProposalStore(logger *common.Logger) *ProposalStore {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &ProposalStore{
		records: make(map[string]*models.ProposalRecord),
		logger:  logger,
	}
}

func (s *ProposalStore) Save(ctx context.Context, record *models.ProposalRecord) error {
	if record == nil {
		return fmt.Errorf("save proposal: record is nil")
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("prop_%s", uuid.New().String()[:8])
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	stored := *record
	stored.Proposal = record.Proposal.Clone()

	s.mu.Lock()
	s.records[record.ID] = &stored
	s.mu.Unlock()

	s.logger.Debug().Str("id", record.ID).Str("client", record.ClientName).Msg("Proposal archived in memory")
	return nil
}

func (s *ProposalStore) Get(ctx context.Context, id string) (*models.ProposalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return copyRecord(r), nil
}

func (s *ProposalStore) List(ctx context.Context, opts interfaces.ProposalListOptions) ([]*models.ProposalRecord, error) {
	opts = opts.Normalize()
	needle := strings.ToLower(strings.TrimSpace(opts.ClientName))

	s.mu.RLock()
	out := make([]*models.ProposalRecord, 0, len(s.records))
	for _, r := range s.records {
		if opts.Advisor != "" && r.Advisor != opts.Advisor {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.ClientName), needle) {
			continue
		}
		out = append(out, copyRecord(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *ProposalStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}

func (s *ProposalStore) Close() error { return nil }

func copyRecord(r *models.ProposalRecord) *models.ProposalRecord {
	c := *r
	c.Proposal = r.Proposal.Clone()
	return &c
}

var _ interfaces.ProposalStore = (*ProposalStore)(nil)
