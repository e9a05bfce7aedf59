// Package intake runs client intake wizards: one session per client, each
// step computed through the advisory client and recorded in the session's
// wizard store.
package intake

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/metrics"
)

const DefaultSessionTTL = 2 * time.Hour

var (
	// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrProposalNotFound is returned for unknown or foreign archived proposals.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrNoProposal is returned when exporting before a proposal exists.
	ErrNoProposal = errors.New("no investment proposal generated yet")
	// ErrNoAllocation is returned when charting before any allocation exists.
	ErrNoAllocation = errors.New("no asset allocation yet")
	// ErrUnknownRiskCategory is returned for manual overrides outside the
	// selectable categories.
	ErrUnknownRiskCategory = errors.New("unknown risk category")
	// ErrExportFailed wraps PDF rendering and export failures.
	ErrExportFailed = errors.New("export failed")
)

// Service manages wizard sessions.
type Service struct {
	advisory interfaces.AdvisoryClient
	pdf      interfaces.PDFRenderer
	archive  interfaces.ProposalStore
	metrics  *metrics.Metrics
	logger   *common.Logger
	sessions *cache.Cache
	now      func() time.Time
}

// Option configures the service
type Option func(*Service)

// WithMetrics records gate rejections, sessions and exports
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSessionTTL sets how long an idle session is kept
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.sessions = cache.New(ttl, ttl/4)
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the intake service.
func NewService(advisory interfaces.AdvisoryClient, pdf interfaces.PDFRenderer, archive interfaces.ProposalStore, opts ...Option) *Service {
	s := &Service{
		advisory: advisory,
		pdf:      pdf,
		archive:  archive,
		logger:   common.NewSilentLogger(),
		sessions: cache.New(DefaultSessionTTL, DefaultSessionTTL/4),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions.OnEvicted(func(id string, _ interface{}) {
		s.logger.Debug().Str("session", id).Msg("Wizard session expired")
		s.metrics.SetActiveSessions(s.sessions.ItemCount())
	})
	return s
}

// ActiveSessions returns the number of live sessions.
func (s *Service) ActiveSessions() int {
	return s.sessions.ItemCount()
}
