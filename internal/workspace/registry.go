package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Verifier turns validated token claims into a live session.
type Verifier interface {
	Verify(ctx context.Context, claims jwt.MapClaims) (*session.Session, error)
}

type Option func(*Registry)

// WithIdleTTL sets how long an untouched workspace survives a Sweep.
func WithIdleTTL(d time.Duration) Option {
	return func(r *Registry) { r.idleTTL = d }
}

// WithNotificationLifetime sets the tag de-duplication window.
func WithNotificationLifetime(d time.Duration) Option {
	return func(r *Registry) { r.lifetime = d }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

type Registry struct {
	store    Store
	verifier Verifier
	outbox   notify.Outbox
	bg       *state.Background

	idleTTL  time.Duration
	lifetime time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	byUser map[uuid.UUID]*Workspace
}

func NewRegistry(store Store, verifier Verifier, outbox notify.Outbox, bg *state.Background, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		verifier: verifier,
		outbox:   outbox,
		bg:       bg,
		idleTTL:  30 * time.Minute,
		lifetime: 5 * time.Minute,
		now:      time.Now,
		byUser:   make(map[uuid.UUID]*Workspace),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the caller's workspace, building and initialising it on
// first use. A session id already admitted to the workspace skips
// verification.
func (r *Registry) Acquire(ctx context.Context, claims jwt.MapClaims) (*Workspace, error) {
	userID, sessionID, err := session.ParseClaims(claims)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	ws := r.byUser[userID]
	r.mu.RUnlock()
	if ws != nil && ws.Session.Admitted(sessionID) && ws.Session.Current() != nil {
		ws.touch(r.now())
		return ws, nil
	}

	sess, err := r.verifier.Verify(ctx, claims)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	ws, existed := r.byUser[userID]
	if !existed {
		ws = newWorkspace(userID, r.store, r.outbox, r.bg, r.lifetime)
		r.byUser[userID] = ws
	}
	ws.touch(r.now())
	r.mu.Unlock()

	if existed {
		ws.Session.Resolve(sess, nil)
		return ws, nil
	}

	r.initialise(ctx, ws, sess)
	return ws, nil
}

// initialise starts every service's first fetch, then resolves the session.
// The fetches block on the session gate, so none of them reach the gateway
// before the identity is known.
func (r *Registry) initialise(ctx context.Context, ws *Workspace, sess *session.Session) {
	defer ws.ready.Open()

	var g errgroup.Group
	for name, refresh := range ws.refreshers() {
		g.Go(func() error {
			if err := refresh(ctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	ws.Session.Resolve(sess, nil)
	if err := g.Wait(); err != nil {
		slog.Warn("workspace initial load failed", "user_id", ws.UserID, "error", err)
	}

	r.bg.Go("record_daily_login", ws.Achievements.RecordDailyLogin, "user_id", ws.UserID)
}

func (r *Registry) Get(userID uuid.UUID) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.byUser[userID]
	return ws, ok
}

// Release drops a signed-out session id. The workspace is discarded when
// no session remains.
func (r *Registry) Release(userID, sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.byUser[userID]
	if !ok {
		return
	}
	if ws.Session.Forget(sessionID) == 0 {
		delete(r.byUser, userID)
		r.discard(userID)
	}
}

// Each calls fn for every live workspace, outside the registry lock.
func (r *Registry) Each(fn func(*Workspace)) {
	r.mu.RLock()
	list := make([]*Workspace, 0, len(r.byUser))
	for _, ws := range r.byUser {
		list = append(list, ws)
	}
	r.mu.RUnlock()

	for _, ws := range list {
		fn(ws)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// Sweep evicts workspaces idle for longer than the idle TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ws := range r.byUser {
		if ws.idleSince().Before(cutoff) {
			delete(r.byUser, id)
			r.discard(id)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) discard(userID uuid.UUID) {
	if f, ok := r.outbox.(notify.Forgetter); ok {
		f.Forget(userID)
	}
}
