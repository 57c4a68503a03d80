package chatlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_HistoryIsLatestOldestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	user := uuid.New()

	require.NoError(t, s.Append(ctx, user,
		Message{Role: RoleUser, Content: "листья желтеют"},
		Message{Role: RoleModel, Content: "как часто поливаете?"},
	))
	require.NoError(t, s.Append(ctx, user, Message{Role: RoleUser, Content: "раз в день"}))
	require.NoError(t, s.Append(ctx, uuid.New(), Message{Role: RoleUser, Content: "чужое"}))

	all, err := s.History(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "листья желтеют", all[0].Content)
	assert.Equal(t, user.String(), all[0].UserID)
	assert.True(t, all[0].CreatedAt.Before(all[1].CreatedAt))

	last, err := s.History(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "раз в день", last[1].Content)
}

func TestMemoryStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	user := uuid.New()
	require.NoError(t, s.Append(ctx, user, Message{Role: RoleUser, Content: "x"}))

	require.NoError(t, s.Clear(ctx, user))

	got, err := s.History(ctx, user, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
