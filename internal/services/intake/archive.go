package intake

import (
	"context"
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/models"
)

// archiveProposal saves a generated proposal. Failures are logged; the
// proposal stays in the session either way.
func (s *Service) archiveProposal(ctx context.Context, sess *Session, proposal *models.InvestmentProposal, source models.Source) {
	if s.archive == nil {
		return
	}
	record := &models.ProposalRecord{
		ID:           proposal.ID,
		SessionID:    sess.ID,
		Advisor:      sess.Advisor,
		ClientName:   proposal.ClientName,
		RiskCategory: riskCategory(proposal),
		Source:       string(source),
		Proposal:     proposal.Clone(),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.archive.Save(ctx, record); err != nil {
		s.logger.Warn().Str("proposal", proposal.ID).Err(err).Msg("Failed to archive proposal")
		return
	}
	s.logger.Info().Str("proposal", proposal.ID).Str("client", proposal.ClientName).Str("source", string(source)).Msg("Proposal archived")
}

func riskCategory(p *models.InvestmentProposal) string {
	if p.RiskAssessment == nil {
		return ""
	}
	return p.RiskAssessment.RiskCategory
}

// ListProposals returns the calling advisor's archived proposals, newest
// first.
func (s *Service) ListProposals(ctx context.Context, clientName string, limit int) ([]*models.ProposalRecord, error) {
	records, err := s.archive.List(ctx, interfaces.ProposalListOptions{
		Advisor:    common.ResolveAdvisor(ctx),
		ClientName: clientName,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return records, nil
}

// GetProposal returns an archived proposal owned by the calling advisor.
func (s *Service) GetProposal(ctx context.Context, id string) (*models.ProposalRecord, error) {
	record, err := s.archive.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal %s: %w", id, err)
	}
	if record == nil || record.Advisor != common.ResolveAdvisor(ctx) {
		return nil, ErrProposalNotFound
	}
	return record, nil
}
