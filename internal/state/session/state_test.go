package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_AwaitBlocksUntilResolved(t *testing.T) {
	t.Parallel()

	s := NewState()
	sess := &Session{ID: uuid.New(), UserID: uuid.New(), Role: "user"}

	got := make(chan *Session, 1)
	go func() {
		current, err := s.Await(context.Background())
		if err == nil {
			got <- current
		}
	}()

	select {
	case <-got:
		t.Fatal("Await returned before resolution")
	case <-time.After(20 * time.Millisecond):
	}

	s.Resolve(sess, nil)

	select {
	case current := <-got:
		assert.Equal(t, sess.UserID, current.UserID)
	case <-time.After(time.Second):
		t.Fatal("Await did not unblock")
	}
}

func TestState_FailedResolutionStillOpensGate(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Resolve(&Session{ID: uuid.New()}, errors.New("gateway down"))

	_, err := s.Await(context.Background())

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Nil(t, s.Current())
}

func TestState_ForgetClearsWhenLastTabLeaves(t *testing.T) {
	t.Parallel()

	s := NewState()
	first := &Session{ID: uuid.New(), UserID: uuid.New()}
	s.Resolve(first, nil)
	second := uuid.New()
	s.Admit(second)

	var published []*Session
	s.Subscribe(func(v *Session) { published = append(published, v) })

	require.Equal(t, 1, s.Forget(first.ID))
	assert.NotNil(t, s.Current())
	assert.False(t, s.Admitted(first.ID))

	require.Equal(t, 0, s.Forget(second))
	assert.Nil(t, s.Current())
	require.Len(t, published, 1)
	assert.Nil(t, published[0])
}
