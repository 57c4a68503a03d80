package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestBridge_SendRequiresGrantedPermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(uuid.New(), NewMemoryOutbox(), time.Minute)
	assert.Equal(t, PermissionDefault, b.Permission())

	sent, err := b.Send(ctx, Notification{Tag: "r1", Title: "Полить фикус"})
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, b.RequestPermission(PermissionDenied))
	sent, err = b.Send(ctx, Notification{Tag: "r1", Title: "Полить фикус"})
	require.NoError(t, err)
	assert.False(t, sent)

	pending, err := b.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestBridge_RejectsUnknownPermission(t *testing.T) {
	t.Parallel()

	b := NewBridge(uuid.New(), NewMemoryOutbox(), time.Minute)

	assert.ErrorIs(t, b.RequestPermission("maybe"), ErrInvalidPermission)
	assert.Equal(t, PermissionDefault, b.Permission())
}

func TestBridge_DeduplicatesByTag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBridge(uuid.New(), NewMemoryOutbox(), time.Minute)
	require.NoError(t, b.RequestPermission(PermissionGranted))

	first, err := b.Send(ctx, Notification{Tag: "r1", Title: "Полить фикус"})
	require.NoError(t, err)
	second, err := b.Send(ctx, Notification{Tag: "r1", Title: "Полить фикус"})
	require.NoError(t, err)
	other, err := b.Send(ctx, Notification{Tag: "r2", Title: "Подкормить"})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, other)

	pending, err := b.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "r1", pending[0].Tag)
	assert.False(t, pending[0].CreatedAt.IsZero())
}

func TestMemoryOutbox_TagExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	o := NewMemoryOutbox()
	o.now = func() time.Time { return now }
	user := uuid.New()

	ok, _ := o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	assert.True(t, ok)
	now = now.Add(30 * time.Second)
	ok, _ = o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	assert.False(t, ok)
	now = now.Add(31 * time.Second)
	ok, _ = o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	assert.True(t, ok)
}

func TestMemoryOutbox_PushPrunesExpiredTags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	o := NewMemoryOutbox()
	o.now = func() time.Time { return now }
	user := uuid.New()

	for _, tag := range []string{"r1", "r2", "r3"} {
		ok, _ := o.Push(ctx, user, Notification{Tag: tag}, time.Minute)
		require.True(t, ok)
	}
	now = now.Add(2 * time.Minute)
	ok, _ := o.Push(ctx, user, Notification{Tag: "r4"}, time.Minute)
	require.True(t, ok)

	assert.Len(t, o.tags, 1)
	assert.Contains(t, o.tags, user.String()+":r4")
}

func TestMemoryOutbox_ForgetDropsQueue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	o := NewMemoryOutbox()
	user, other := uuid.New(), uuid.New()
	_, _ = o.Push(ctx, user, Notification{Title: "Полить", Tag: "r1"}, time.Minute)
	_, _ = o.Push(ctx, other, Notification{Title: "Подкормить"}, time.Minute)

	o.Forget(user)

	assert.NotContains(t, o.queues, user)
	assert.Contains(t, o.queues, other)
	ok, _ := o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	assert.False(t, ok)
}

func TestRedisOutbox_DeduplicatesAndDrains(t *testing.T) {
	t.Parallel()

	mr, client := newMiniRedis(t)
	ctx := context.Background()
	o := NewRedisOutbox(client)
	user := uuid.New()

	ok, err := o.Push(ctx, user, Notification{Tag: "r1", Title: "Полить"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = o.Push(ctx, user, Notification{Tag: "r1", Title: "Полить"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = o.Push(ctx, user, Notification{Title: "без тега"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := o.Drain(ctx, user)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Полить", pending[0].Title)

	pending, err = o.Drain(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The tag outlives the drain until its lifetime ends.
	ok, err = o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = o.Push(ctx, user, Notification{Tag: "r1"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisOutbox_UsersAreIsolated(t *testing.T) {
	t.Parallel()

	_, client := newMiniRedis(t)
	ctx := context.Background()
	o := NewRedisOutbox(client)
	alice, bob := uuid.New(), uuid.New()

	_, err := o.Push(ctx, alice, Notification{Tag: "r1"}, time.Minute)
	require.NoError(t, err)
	ok, err := o.Push(ctx, bob, Notification{Tag: "r1"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := o.Drain(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
