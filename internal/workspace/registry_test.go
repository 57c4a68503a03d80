package workspace_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/fakegateway"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	gw       *fakegateway.Gateway
	sessions *session.Service
	bg       *state.Background
	outbox   *notify.MemoryOutbox
	registry *workspace.Registry

	mu  sync.Mutex
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gw:     fakegateway.New(),
		bg:     state.NewBackground(time.Second),
		outbox: notify.NewMemoryOutbox(),
		now:    time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.sessions = session.NewService(f.gw, "test-secret", time.Hour)
	f.registry = workspace.NewRegistry(f.gw, f.sessions, f.outbox, f.bg,
		workspace.WithIdleTTL(10*time.Minute),
		workspace.WithClock(f.clock),
	)
	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func claimsOf(issued *session.Issued) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": issued.Session.UserID.String(),
		"sid": issued.Session.ID.String(),
	}
}

func TestAcquire_BuildsOnceAndLoadsEverything(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.sessions.SignUp(ctx, "fern@example.com", "password123")
	require.NoError(t, err)

	ws, err := f.registry.Acquire(ctx, claimsOf(issued))
	require.NoError(t, err)
	f.bg.Wait()

	select {
	case <-ws.Ready():
	default:
		t.Fatal("workspace not ready after Acquire")
	}
	assert.Equal(t, issued.Session.UserID, ws.UserID)
	assert.True(t, ws.Entitlement.Snapshot().Loaded)
	assert.True(t, ws.Achievements.Snapshot().Loaded)
	assert.True(t, ws.Reminders.Snapshot().Loaded)
	assert.Equal(t, 1, f.gw.Calls("RecordDailyLogin"))

	again, err := f.registry.Acquire(ctx, claimsOf(issued))
	require.NoError(t, err)

	assert.Same(t, ws, again)
	assert.Equal(t, 1, f.gw.Calls("SessionActive"))
	assert.Equal(t, 1, f.gw.Calls("ListPosts"))
	assert.Equal(t, 1, f.registry.Len())
}

func TestAcquire_RevokedSessionIsRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.sessions.SignUp(ctx, "moss@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SignOut(ctx, issued.Session.ID))

	_, err = f.registry.Acquire(ctx, claimsOf(issued))

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Zero(t, f.registry.Len())
}

func TestAcquire_SecondTabJoinsWorkspace(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.sessions.SignUp(ctx, "ivy@example.com", "password123")
	require.NoError(t, err)
	second, err := f.sessions.SignIn(ctx, "ivy@example.com", "password123")
	require.NoError(t, err)

	a, err := f.registry.Acquire(ctx, claimsOf(first))
	require.NoError(t, err)
	b, err := f.registry.Acquire(ctx, claimsOf(second))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.True(t, a.Session.Admitted(second.Session.ID))

	f.registry.Release(first.Session.UserID, first.Session.ID)
	_, ok := f.registry.Get(first.Session.UserID)
	assert.True(t, ok, "workspace survives while a tab remains")

	f.registry.Release(second.Session.UserID, second.Session.ID)
	_, ok = f.registry.Get(first.Session.UserID)
	assert.False(t, ok)
}

func TestSweep_EvictsIdleWorkspaces(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	idle, err := f.sessions.SignUp(ctx, "idle@example.com", "password123")
	require.NoError(t, err)
	busy, err := f.sessions.SignUp(ctx, "busy@example.com", "password123")
	require.NoError(t, err)

	_, err = f.registry.Acquire(ctx, claimsOf(idle))
	require.NoError(t, err)
	f.advance(8 * time.Minute)
	_, err = f.registry.Acquire(ctx, claimsOf(busy))
	require.NoError(t, err)
	f.advance(5 * time.Minute)

	assert.Equal(t, 1, f.registry.Sweep())
	_, ok := f.registry.Get(idle.Session.UserID)
	assert.False(t, ok)
	_, ok = f.registry.Get(busy.Session.UserID)
	assert.True(t, ok)
}

func TestSweep_DropsQueuedNotifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	idle, err := f.sessions.SignUp(ctx, "idle@example.com", "password123")
	require.NoError(t, err)
	busy, err := f.sessions.SignUp(ctx, "busy@example.com", "password123")
	require.NoError(t, err)
	_, err = f.registry.Acquire(ctx, claimsOf(idle))
	require.NoError(t, err)
	f.advance(8 * time.Minute)
	_, err = f.registry.Acquire(ctx, claimsOf(busy))
	require.NoError(t, err)
	for _, issued := range []*session.Issued{idle, busy} {
		_, err := f.outbox.Push(ctx, issued.Session.UserID, notify.Notification{Title: "Полить"}, time.Minute)
		require.NoError(t, err)
	}
	f.advance(5 * time.Minute)

	require.Equal(t, 1, f.registry.Sweep())

	left, err := f.outbox.Drain(ctx, idle.Session.UserID)
	require.NoError(t, err)
	assert.Empty(t, left)
	left, err = f.outbox.Drain(ctx, busy.Session.UserID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRelease_LastSessionDropsQueuedNotifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.sessions.SignUp(ctx, "fern@example.com", "password123")
	require.NoError(t, err)
	_, err = f.registry.Acquire(ctx, claimsOf(issued))
	require.NoError(t, err)
	_, err = f.outbox.Push(ctx, issued.Session.UserID, notify.Notification{Title: "Полить"}, time.Minute)
	require.NoError(t, err)

	f.registry.Release(issued.Session.UserID, issued.Session.ID)

	left, err := f.outbox.Drain(ctx, issued.Session.UserID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestEach_VisitsEveryWorkspace(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		issued, err := f.sessions.SignUp(ctx, email, "password123")
		require.NoError(t, err)
		_, err = f.registry.Acquire(ctx, claimsOf(issued))
		require.NoError(t, err)
	}

	seen := 0
	f.registry.Each(func(*workspace.Workspace) { seen++ })

	assert.Equal(t, 3, seen)
}
