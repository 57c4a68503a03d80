package entitlement_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/fakegateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	gw    *fakegateway.Gateway
	user  *models.User
	bg    *state.Background
	state *entitlement.State
	clock *atomic.Pointer[time.Time]
}

func newFixture(t *testing.T, tier int) *fixture {
	t.Helper()

	gw := fakegateway.New()
	user := gw.AddUser(models.User{Email: "u@example.com", SubscriptionTierID: tier})

	sessions := session.NewState()
	sessions.Resolve(&session.Session{ID: uuid.New(), UserID: user.ID}, nil)

	clock := &atomic.Pointer[time.Time]{}
	now := fixedNow
	clock.Store(&now)

	bg := state.NewBackground(time.Second)
	st := entitlement.New(gw, sessions, bg, entitlement.WithClock(func() time.Time { return *clock.Load() }))
	require.NoError(t, st.Refresh(context.Background()))

	return &fixture{gw: gw, user: user, bg: bg, state: st, clock: clock}
}

func TestCheckAndIncrement_FreeScanQuota(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	ctx := context.Background()

	for i := 0; i < entitlement.ScanQuota; i++ {
		ok, err := f.state.CheckAndIncrement(ctx, entitlement.Scan)
		require.NoError(t, err)
		require.True(t, ok, "scan %d should pass", i+1)
	}

	ok, err := f.state.CheckAndIncrement(ctx, entitlement.Scan)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, entitlement.ScanQuota, f.gw.Usage(f.user.ID, "2025-06-01").ScansCount)
	assert.Equal(t, entitlement.ScanQuota, f.gw.Calls("IncrementUsage"))
	assert.False(t, f.state.CanPerform(entitlement.Scan))
	assert.True(t, f.state.CanPerform(entitlement.Chat))
}

func TestCheckAndIncrement_ChatQuotaIsIndependent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	ctx := context.Background()

	passed := 0
	for i := 0; i < entitlement.ChatQuota+3; i++ {
		ok, err := f.state.CheckAndIncrement(ctx, entitlement.Chat)
		require.NoError(t, err)
		if ok {
			passed++
		}
	}

	assert.Equal(t, entitlement.ChatQuota, passed)
	assert.Equal(t, entitlement.ScanQuota, f.state.Snapshot().Remaining(entitlement.Scan))
}

func TestCheckAndIncrement_BumpsLocallyBeforeRemoteCompletes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	release := make(chan struct{})
	entered := make(chan struct{})
	f.gw.Intercept("IncrementUsage", func() {
		close(entered)
		<-release
	})

	done := make(chan bool, 1)
	go func() {
		ok, _ := f.state.CheckAndIncrement(context.Background(), entitlement.Scan)
		done <- ok
	}()

	<-entered
	assert.Equal(t, 1, f.state.Snapshot().Scans)
	assert.Equal(t, 0, f.gw.Usage(f.user.ID, "2025-06-01").ScansCount)

	close(release)
	assert.True(t, <-done)
}

func TestCheckAndIncrement_ConcurrentCallersCannotPassQuota(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	f.gw.Intercept("IncrementUsage", func() { time.Sleep(5 * time.Millisecond) })

	var passed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := f.state.CheckAndIncrement(context.Background(), entitlement.Scan); ok {
				passed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(entitlement.ScanQuota), passed.Load())
	assert.Equal(t, entitlement.ScanQuota, f.gw.Usage(f.user.ID, "2025-06-01").ScansCount)
}

func TestCheckAndIncrement_PremiumNeverBlocks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierPremium)
	ctx := context.Background()

	for i := 0; i < entitlement.ScanQuota+5; i++ {
		ok, err := f.state.CheckAndIncrement(ctx, entitlement.Scan)
		require.NoError(t, err)
		require.True(t, ok)
	}
	f.bg.Wait()

	assert.Equal(t, entitlement.ScanQuota+5, f.gw.Usage(f.user.ID, "2025-06-01").ScansCount)
	assert.Equal(t, -1, f.state.Snapshot().Remaining(entitlement.Scan))
}

func TestCheckAndIncrement_PremiumIncrementFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierPremium)
	f.gw.Fail("IncrementUsage", errors.New("timeout"))

	ok, err := f.state.CheckAndIncrement(context.Background(), entitlement.Chat)
	f.bg.Wait()

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckAndIncrement_FreeRemoteFailureReconciles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	f.gw.Fail("IncrementUsage", errors.New("connection refused"))

	ok, err := f.state.CheckAndIncrement(context.Background(), entitlement.Scan)

	assert.False(t, ok)
	assert.ErrorIs(t, err, apperr.ErrRemote)
	assert.Equal(t, 0, f.state.Snapshot().Scans)
}

func TestSnapshot_NoUsageRowMeansZero(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)

	snap := f.state.Snapshot()

	assert.Equal(t, entitlement.TierFree, snap.Tier)
	assert.Equal(t, 0, snap.Scans)
	assert.Equal(t, "2025-06-01", snap.Date)
}

func TestSnapshot_ResetsOnNewDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	ctx := context.Background()
	for i := 0; i < entitlement.ScanQuota; i++ {
		_, err := f.state.CheckAndIncrement(ctx, entitlement.Scan)
		require.NoError(t, err)
	}
	require.False(t, f.state.CanPerform(entitlement.Scan))

	tomorrow := fixedNow.Add(24 * time.Hour)
	f.clock.Store(&tomorrow)

	assert.True(t, f.state.CanPerform(entitlement.Scan))
	ok, err := f.state.CheckAndIncrement(ctx, entitlement.Scan)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, f.gw.Usage(f.user.ID, "2025-06-02").ScansCount)
}

func TestRefresh_SignedOutResets(t *testing.T) {
	t.Parallel()

	sessions := session.NewState()
	sessions.Resolve(nil, nil)
	st := entitlement.New(fakegateway.New(), sessions, state.NewBackground(time.Second))

	require.NoError(t, st.Refresh(context.Background()))
	assert.False(t, st.Snapshot().Loaded)

	_, err := st.CheckAndIncrement(context.Background(), entitlement.Scan)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRefresh_DuringInflightIncrementKeepsLocalBump(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.TierFree)
	release := make(chan struct{})
	entered := make(chan struct{})
	f.gw.Intercept("IncrementUsage", func() {
		close(entered)
		<-release
	})

	done := make(chan bool, 1)
	go func() {
		ok, _ := f.state.CheckAndIncrement(context.Background(), entitlement.Scan)
		done <- ok
	}()

	<-entered
	require.NoError(t, f.state.Refresh(context.Background()))
	assert.Equal(t, 1, f.state.Snapshot().Scans)

	close(release)
	require.True(t, <-done)
	assert.Equal(t, 1, f.state.Snapshot().Scans)
	assert.Equal(t, 1, f.gw.Usage(f.user.ID, "2025-06-01").ScansCount)

	require.NoError(t, f.state.Refresh(context.Background()))
	assert.Equal(t, 1, f.state.Snapshot().Scans)
}
