// Package workspace holds each signed-in user's state services. A
// workspace is built on the first authenticated request, initialised in
// readiness order and evicted after it has been idle for a while.
package workspace

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/achievement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/forum"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/reminder"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/google/uuid"
)

// Store is everything the state services need from the remote data gateway.
type Store interface {
	entitlement.Store
	achievement.Store
	forum.Store
	forum.Files
	reminder.Store
}

type Workspace struct {
	UserID        uuid.UUID
	Session       *session.State
	Entitlement   *entitlement.State
	Achievements  *achievement.State
	Forum         *forum.State
	Reminders     *reminder.State
	Notifications *notify.Bridge

	ready    *state.Gate
	lastSeen atomic.Int64
}

func newWorkspace(userID uuid.UUID, store Store, outbox notify.Outbox, bg *state.Background, lifetime time.Duration) *Workspace {
	sessions := session.NewState()
	bridge := notify.NewBridge(userID, outbox, lifetime)
	achievements := achievement.New(store, sessions)

	return &Workspace{
		UserID:        userID,
		Session:       sessions,
		Entitlement:   entitlement.New(store, sessions, bg),
		Achievements:  achievements,
		Forum:         forum.New(store, store, achievements, sessions),
		Reminders:     reminder.New(store, sessions, bridge),
		Notifications: bridge,
		ready:         state.NewGate(),
	}
}

// Ready is closed once the initial fetches have finished, successfully or
// not.
func (w *Workspace) Ready() <-chan struct{} {
	return w.ready.Ready()
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) idleSince() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// refreshers lists the initial fetches. Each one waits on the session gate
// before reaching the gateway.
func (w *Workspace) refreshers() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"entitlement":  w.Entitlement.Refresh,
		"achievements": w.Achievements.Refresh,
		"forum":        w.Forum.Refresh,
		"reminders":    w.Reminders.Refresh,
	}
}
