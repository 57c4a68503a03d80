package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservable_SubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()

	o := NewObservable(1)
	var seen []int
	unsubscribe := o.Subscribe(func(v int) { seen = append(seen, v) })

	o.Set(2)
	o.Update(func(v int) int { return v * 10 })
	unsubscribe()
	o.Set(99)

	assert.Equal(t, []int{2, 20}, seen)
	assert.Equal(t, 99, o.Get())
}

func TestGate_WaitUnblocksOnOpen(t *testing.T) {
	t.Parallel()

	g := NewGate()
	assert.False(t, g.IsOpen())

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	g.Open()
	g.Open()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("gate did not open")
	}
	assert.True(t, g.IsOpen())
}

func TestGate_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewGate().Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSequence_OnlyLatestWins(t *testing.T) {
	t.Parallel()

	var s Sequence
	first := s.Next()
	second := s.Next()

	assert.False(t, s.IsLatest(first))
	assert.True(t, s.IsLatest(second))
}

func TestBackground_RunsAndSwallowsErrors(t *testing.T) {
	t.Parallel()

	b := NewBackground(time.Second)
	var calls atomic.Int32

	b.Go("ok", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	b.Go("fails", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})
	b.Wait()

	assert.Equal(t, int32(2), calls.Load())
}
