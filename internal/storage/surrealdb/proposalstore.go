package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// proposalSelectFields aliases proposal_id to id for struct mapping.
const proposalSelectFields = `proposal_id as id, session_id, advisor, client_name,
	risk_category, source, proposal, created_at`

// proposalRow is the stored shape of a models.ProposalRecord.
type proposalRow struct {
	ID           string                     `json:"id"`
	SessionID    string                     `json:"session_id"`
	Advisor      string                     `json:"advisor"`
	ClientName   string                     `json:"client_name"`
	RiskCategory string                     `json:"risk_category"`
	Source       string                     `json:"source"`
	Proposal     *models.InvestmentProposal `json:"proposal"`
	CreatedAt    time.Time                  `json:"created_at"`
}

func (r proposalRow) toModel() *models.ProposalRecord {
	return &models.ProposalRecord{
		ID:           r.ID,
		SessionID:    r.SessionID,
		Advisor:      r.Advisor,
		ClientName:   r.ClientName,
		RiskCategory: r.RiskCategory,
		Source:       r.Source,
		Proposal:     r.Proposal,
		CreatedAt:    r.CreatedAt,
	}
}

// ProposalStore implements interfaces.ProposalStore using SurrealDB.
type ProposalStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewProposalStore creates a new ProposalStore.
func NewProposalStore(db *surrealdb.DB, logger *common.Logger) *ProposalStore {
	return &ProposalStore{db: db, logger: logger}
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

	sql := `UPSERT $rid SET
		proposal_id = $proposal_id, session_id = $session_id, advisor = $advisor,
		client_name = $client_name, client_name_lc = $client_name_lc,
		risk_category = $risk_category, source = $source,
		proposal = $proposal, created_at = $created_at`
	vars := map[string]any{
		"rid":            surrealmodels.NewRecordID("proposal", record.ID),
		"proposal_id":    record.ID,
		"session_id":     record.SessionID,
		"advisor":        record.Advisor,
		"client_name":    record.ClientName,
		"client_name_lc": strings.ToLower(record.ClientName),
		"risk_category":  record.RiskCategory,
		"source":         record.Source,
		"proposal":       record.Proposal,
		"created_at":     record.CreatedAt,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("id", record.ID).Str("client", record.ClientName).Msg("Proposal archived")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save proposal after retries: %w", lastErr)
}

func (s *ProposalStore) Get(ctx context.Context, id string) (*models.ProposalRecord, error) {
	sql := "SELECT " + proposalSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("proposal", id),
	}

	results, err := surrealdb.Query[[]proposalRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *ProposalStore) List(ctx context.Context, opts interfaces.ProposalListOptions) ([]*models.ProposalRecord, error) {
	opts = opts.Normalize()

	where := ""
	vars := map[string]any{"limit": opts.Limit}
	if opts.Advisor != "" {
		where += " AND advisor = $advisor"
		vars["advisor"] = opts.Advisor
	}
	if name := strings.TrimSpace(opts.ClientName); name != "" {
		where += " AND string::contains(client_name_lc, $client_name)"
		vars["client_name"] = strings.ToLower(name)
	}
	whereClause := ""
	if where != "" {
		whereClause = " WHERE " + where[5:]
	}

	sql := "SELECT " + proposalSelectFields + " FROM proposal" + whereClause +
		" ORDER BY created_at DESC, proposal_id DESC LIMIT $limit"

	results, err := surrealdb.Query[[]proposalRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	items := make([]*models.ProposalRecord, 0)
	if results != nil && len(*results) > 0 {
		for _, row := range (*results)[0].Result {
			items = append(items, row.toModel())
		}
	}
	return items, nil
}

func (s *ProposalStore) Delete(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[proposalRow](ctx, s.db, surrealmodels.NewRecordID("proposal", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}
	return nil
}

func (s *ProposalStore) Close() error {
	s.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.ProposalStore = (*ProposalStore)(nil)
