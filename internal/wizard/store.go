package wizard

import (
	"sync"

	"github.com/bobmcallan/vire-intake/internal/common"
)

// Listener is called with the new state after every successful dispatch.
// Listeners must not dispatch on the same store.
type Listener func(State)

// Store owns one wizard's state. Dispatches are serialized; listeners see
// states in dispatch order.
type Store struct {
	dispatchMu sync.Mutex
	mu         sync.RWMutex
	state      State
	listeners  map[uint64]Listener
	nextID     uint64
	logger     *common.Logger
}

// NewStore creates a store holding initial.
func NewStore(initial State, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{
		state:     initial,
		listeners: make(map[uint64]Listener),
		logger:    logger,
	}
}

// State returns the current state. Callers must treat the pointed-to results
// as read-only.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces the action into the store and notifies listeners. On
// error the state is unchanged and no listener is called.
func (s *Store) Dispatch(a Action) (State, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.RLock()
	current := s.state
	s.mu.RUnlock()

	next, err := Reduce(current, a)
	if err != nil {
		s.logger.Debug().Str("action", a.Type()).Err(err).Msg("Wizard action rejected")
		return current, err
	}

	s.mu.Lock()
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.logger.Debug().Str("action", a.Type()).Int("step", int(next.CurrentStep)).Msg("Wizard action applied")

	for _, l := range listeners {
		l(next)
	}
	return next, nil
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// CanNavigateToStep reports whether target is reachable now.
func (s *Store) CanNavigateToStep(target Step) bool {
	return CanNavigateToStep(s.State(), target)
}

// NavigateToStep moves to target if the gate allows it. Otherwise the state
// is unchanged and the *GateError names the first missing step.
func (s *Store) NavigateToStep(target Step) (State, error) {
	return s.Dispatch(SetStep{Step: target})
}
