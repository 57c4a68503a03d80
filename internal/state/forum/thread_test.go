package forum

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(postID uuid.UUID, parent *uuid.UUID, at int) models.CommentRow {
	return models.CommentRow{ForumComment: models.ForumComment{
		ID:        uuid.New(),
		PostID:    postID,
		ParentID:  parent,
		CreatedAt: time.Unix(int64(at), 0),
	}}
}

func TestBuildThread_NestsByParent(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	a := row(post, nil, 1)
	b := row(post, &a.ID, 2)
	c := row(post, &b.ID, 3)
	d := row(post, nil, 4)

	th := BuildThread(post, []models.CommentRow{a, b, c, d})

	require.Equal(t, 4, th.Len())
	roots := th.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, a.ID, roots[0].ID)
	assert.Equal(t, d.ID, roots[1].ID)
	assert.Equal(t, 1, th.Depth(a.ID))
	assert.Equal(t, 2, th.Depth(b.ID))
	assert.Equal(t, 3, th.Depth(c.ID))
	assert.True(t, th.CanReply(b.ID))
	assert.False(t, th.CanReply(c.ID))
}

func TestBuildThread_LiftsRepliesBeyondMaxDepth(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	a := row(post, nil, 1)
	b := row(post, &a.ID, 2)
	c := row(post, &b.ID, 3)
	d := row(post, &c.ID, 4)

	th := BuildThread(post, []models.CommentRow{a, b, c, d})

	assert.Equal(t, MaxReplyDepth, th.Depth(d.ID))
	children := th.Children(b.ID)
	require.Len(t, children, 2)
	assert.Equal(t, c.ID, children[0].ID)
	assert.Equal(t, d.ID, children[1].ID)
	assert.Empty(t, th.Children(c.ID))
}

func TestBuildThread_ForeignAndMissingParentsBecomeRoots(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	otherPost := uuid.New()
	foreign := row(otherPost, nil, 1)
	orphan := row(post, &foreign.ID, 2)
	missing := uuid.New()
	dangling := row(post, &missing, 3)

	th := BuildThread(post, []models.CommentRow{foreign, orphan, dangling})

	assert.Equal(t, 2, th.Len())
	_, ok := th.Get(foreign.ID)
	assert.False(t, ok)
	assert.Len(t, th.Roots(), 2)
}

func TestBuildThread_ParentCycleTerminates(t *testing.T) {
	t.Parallel()

	post := uuid.New()
	a := row(post, nil, 1)
	b := row(post, nil, 2)
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	th := BuildThread(post, []models.CommentRow{a, b})

	require.Len(t, th.Roots(), 1)
	assert.Equal(t, a.ID, th.Roots()[0].ID)
	assert.Equal(t, 2, th.Depth(b.ID))

	nested := th.Nested()
	require.Len(t, nested, 1)
	require.Len(t, nested[0].Replies, 1)
	assert.Empty(t, nested[0].Replies[0].Replies)
}
