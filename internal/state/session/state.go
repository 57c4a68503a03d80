// Package session tracks who is signed in. Its State is the first service
// a workspace resolves; every other state service waits on its gate.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// State is one user's session projection.
type State struct {
	current *state.Observable[*Session]
	gate    *state.Gate

	mu       sync.Mutex
	admitted map[uuid.UUID]struct{}
}

func NewState() *State {
	return &State{
		current:  state.NewObservable[*Session](nil),
		gate:     state.NewGate(),
		admitted: make(map[uuid.UUID]struct{}),
	}
}

// Resolve records the outcome of session resolution and opens the readiness
// gate. A failed resolution leaves no session but still opens the gate.
func (s *State) Resolve(sess *Session, err error) {
	if err != nil {
		sess = nil
	}
	if sess != nil {
		s.Admit(sess.ID)
	}
	s.current.Set(sess)
	s.gate.Open()
}

func (s *State) Current() *Session {
	return s.current.Get()
}

func (s *State) Ready() <-chan struct{} {
	return s.gate.Ready()
}

// Await waits for resolution and returns the signed-in session.
func (s *State) Await(ctx context.Context) (*Session, error) {
	if err := s.gate.Wait(ctx); err != nil {
		return nil, err
	}
	sess := s.current.Get()
	if sess == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return sess, nil
}

func (s *State) Subscribe(fn func(*Session)) func() {
	return s.current.Subscribe(fn)
}

// Admit marks a verified session id (one per browser tab) as usable.
func (s *State) Admit(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admitted[sessionID] = struct{}{}
}

func (s *State) Admitted(sessionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.admitted[sessionID]
	return ok
}

// Forget drops a session id after sign-out and returns how many remain.
// When none remain the identity is cleared.
func (s *State) Forget(sessionID uuid.UUID) int {
	s.mu.Lock()
	delete(s.admitted, sessionID)
	remaining := len(s.admitted)
	s.mu.Unlock()

	if remaining == 0 {
		s.current.Set(nil)
	}
	return remaining
}
