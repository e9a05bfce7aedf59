package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/wizard"
)

// Session is one client's wizard.
type Session struct {
	ID        string
	Advisor   string
	CreatedAt time.Time

	store *wizard.Store

	// mu guards generations and makes check-then-dispatch atomic.
	mu          sync.Mutex
	generations map[string]uint64
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID        string       `json:"id"`
	Advisor   string       `json:"advisor"`
	CreatedAt time.Time    `json:"createdAt"`
	State     wizard.State `json:"state"`
}

func (sess *Session) snapshot() *Snapshot {
	return &Snapshot{
		ID:        sess.ID,
		Advisor:   sess.Advisor,
		CreatedAt: sess.CreatedAt,
		State:     sess.store.State(),
	}
}

// begin records a new request for operation and returns its generation.
func (sess *Session) begin(operation string) uint64 {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.generations[operation]++
	return sess.generations[operation]
}

// applyIfCurrent dispatches actions only if no newer request for operation
// was issued since gen. The bool is false when the result was superseded.
func (sess *Session) applyIfCurrent(operation string, gen uint64, actions ...wizard.Action) (wizard.State, bool, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generations[operation] != gen {
		return sess.store.State(), false, nil
	}
	state, err := sess.dispatch(actions...)
	return state, true, err
}

// dispatch applies actions in order, stopping at the first error.
func (sess *Session) dispatch(actions ...wizard.Action) (wizard.State, error) {
	state := sess.store.State()
	for _, a := range actions {
		var err error
		if state, err = sess.store.Dispatch(a); err != nil {
			return state, err
		}
	}
	return state, nil
}

// CreateSession starts a wizard on step 1 owned by the calling advisor.
func (s *Service) CreateSession(ctx context.Context) *Snapshot {
	sess := &Session{
		ID:          uuid.New().String(),
		Advisor:     common.ResolveAdvisor(ctx),
		CreatedAt:   s.now().UTC(),
		store:       wizard.NewStore(wizard.InitialState(), s.logger),
		generations: make(map[string]uint64),
	}
	s.sessions.Set(sess.ID, sess, cache.DefaultExpiration)
	s.metrics.SetActiveSessions(s.sessions.ItemCount())

	s.logger.Info().Str("session", sess.ID).Str("advisor", sess.Advisor).Msg("Wizard session created")
	return sess.snapshot()
}

// session looks up id for the calling advisor and refreshes its expiry.
func (s *Service) session(ctx context.Context, id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess := v.(*Session)
	if sess.Advisor != common.ResolveAdvisor(ctx) {
		return nil, ErrSessionNotFound
	}
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// GetSession returns the session's current state.
func (s *Service) GetSession(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// DeleteSession discards a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.session(ctx, id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	return nil
}

// Subscribe registers l for every state change of the session.
func (s *Service) Subscribe(ctx context.Context, id string, l wizard.Listener) (func(), error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.store.Subscribe(l), nil
}
