package intake

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/models"
)

// Export is a rendered proposal ready for download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// exportFilename names a download after the client.
func exportFilename(p *models.InvestmentProposal, ext string) string {
	slug := common.Slugify(p.ClientName)
	if slug == "" {
		slug = "client"
	}
	return fmt.Sprintf("investment-proposal-%s.%s", slug, ext)
}

func (s *Service) currentProposal(ctx context.Context, id string) (*models.InvestmentProposal, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	proposal := sess.store.State().InvestmentProposal
	if proposal == nil {
		return nil, ErrNoProposal
	}
	return proposal, nil
}

// ExportJSON serializes the session's proposal as indented JSON.
func (s *Service) ExportJSON(ctx context.Context, id string) (*Export, error) {
	proposal, err := s.currentProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(proposal, "", "  ")
	s.metrics.ObserveExport("json", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return &Export{
		Filename:    exportFilename(proposal, "json"),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// ExportPDF renders the session's proposal through the PDF service. There
// is no local fallback.
func (s *Service) ExportPDF(ctx context.Context, id string) (*Export, error) {
	proposal, err := s.currentProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(ctx, proposal)
	s.metrics.ObserveExport("pdf", err)
	if err != nil {
		s.logger.Warn().Str("session", id).Err(err).Msg("PDF export failed")
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	s.logger.Info().Str("session", id).Int("bytes", len(data)).Msg("Proposal exported as PDF")
	return &Export{
		Filename:    exportFilename(proposal, "pdf"),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
