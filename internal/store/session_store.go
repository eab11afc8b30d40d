// Package store owns the live application state for a server process. The
// core guarantees every transition is a total replacement of an immutable
// snapshot; the store serializes those replacements so exactly one state
// value is current at any time.
package store

import (
	"sync"

	"github.com/fireplan/fireplan-backend/internal/domain"
	"github.com/fireplan/fireplan-backend/internal/usecase/session"
)

// SessionStore holds the current state and funnels every change through the
// reducer under a single lock.
type SessionStore struct {
	mu      sync.RWMutex
	reducer *session.Reducer
	state   *domain.State
}

// NewSessionStore creates a store seeded with the reducer's default state.
func NewSessionStore(reducer *session.Reducer) *SessionStore {
	return &SessionStore{
		reducer: reducer,
		state:   reducer.Initial(),
	}
}

// Current returns the live state snapshot. Callers must treat it as
// read-only; it is shared and will be swapped out, never mutated.
func (s *SessionStore) Current() *domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action and returns the resulting state. A no-op action
// leaves the stored state untouched.
func (s *SessionStore) Dispatch(action session.Action) *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reducer.Reduce(s.state, action)
	return s.state
}
