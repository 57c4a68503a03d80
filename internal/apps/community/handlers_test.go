package community_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/community"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/forum"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/apptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_CreateListLike(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "Жёлтые листья", "content": "Что делать с фикусом?"},
		apptest.File{Field: "photo", Name: "ficus.png", ContentType: "image/png", Data: []byte("png-bytes")},
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created forum.Post
	apptest.Decode(t, resp, &created)
	assert.Equal(t, "Жёлтые листья", created.Title)
	require.NotNil(t, created.PhotoURL)
	assert.True(t, strings.HasPrefix(*created.PhotoURL, "https://files.test/forum-photos/"))

	resp = apptest.Do(t, app, user, "GET", "/api/forum/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list community.PostListResponse
	apptest.Decode(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.ID, list.Data[0].ID)
	assert.False(t, list.Data[0].Liked)

	resp = apptest.Do(t, app, user, "POST", "/api/forum/posts/"+created.ID.String()+"/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked community.LikeResponse
	apptest.Decode(t, resp, &liked)
	assert.True(t, liked.Post.Liked)
	assert.Equal(t, 1, liked.Post.LikesCount)
	assert.Equal(t, "synced", liked.Phase)
	assert.True(t, h.Gateway.PostLiked(created.ID, user.Session.UserID))
}

func TestPosts_ListShowsOtherUsersChanges(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	reader := h.SignUp(t, "ivy@example.com")
	author := h.SignUp(t, "moss@example.com")

	resp := apptest.Do(t, app, reader, "GET", "/api/forum/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list community.PostListResponse
	apptest.Decode(t, resp, &list)
	require.Empty(t, list.Data)

	resp = apptest.DoMultipart(t, app, author, "POST", "/api/forum/posts",
		map[string]string{"title": "Кактус зимой", "content": "Как часто поливать?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created forum.Post
	apptest.Decode(t, resp, &created)
	resp = apptest.Do(t, app, author, "POST", "/api/forum/posts/"+created.ID.String()+"/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, reader, "GET", "/api/forum/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	apptest.Decode(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.ID, list.Data[0].ID)
	assert.Equal(t, 1, list.Data[0].LikesCount)
	assert.False(t, list.Data[0].Liked)
}

func TestPosts_RejectsMissingTitle(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "  ", "content": "body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, h.Gateway.Calls("CreatePost"))
}

func TestPosts_RejectsUnsupportedPhoto(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "t", "content": "c"},
		apptest.File{Field: "photo", Name: "scan.gif", ContentType: "image/gif", Data: []byte("gif")},
	)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Equal(t, 0, h.Gateway.Calls("UploadFile"))
}

func TestPosts_PinIsAdminOnly(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")
	admin := h.SignUpAdmin(t, "root@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post forum.Post
	apptest.Decode(t, resp, &post)
	path := "/api/forum/posts/" + post.ID.String() + "/pin"

	resp = apptest.Do(t, app, user, "PUT", path, community.PinRequest{Pinned: true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, admin, "PUT", path, community.PinRequest{Pinned: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pinned forum.Post
	apptest.Decode(t, resp, &pinned)
	assert.True(t, pinned.Pinned)
}

func TestPosts_OnlyAuthorDeletes(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	author := h.SignUp(t, "ivy@example.com")
	other := h.SignUp(t, "moss@example.com")

	resp := apptest.DoMultipart(t, app, author, "POST", "/api/forum/posts",
		map[string]string{"title": "t", "content": "c"})
	var post forum.Post
	apptest.Decode(t, resp, &post)

	resp = apptest.Do(t, app, other, "DELETE", "/api/forum/posts/"+post.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, author, "DELETE", "/api/forum/posts/"+post.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestComments_NestedReplies(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "t", "content": "c"})
	var post forum.Post
	apptest.Decode(t, resp, &post)
	comments := fmt.Sprintf("/api/forum/posts/%s/comments", post.ID)

	parentID := ""
	for depth := 1; depth <= forum.MaxReplyDepth; depth++ {
		req := map[string]any{"content": fmt.Sprintf("level %d", depth)}
		if parentID != "" {
			req["parent_id"] = parentID
		}
		resp = apptest.Do(t, app, user, "POST", comments, req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created struct {
			ID string `json:"id"`
		}
		apptest.Decode(t, resp, &created)
		parentID = created.ID
	}

	resp = apptest.Do(t, app, user, "POST", comments, map[string]any{"content": "too deep", "parent_id": parentID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var refused dto.ErrorResponse
	apptest.Decode(t, resp, &refused)
	assert.Contains(t, refused.Message, "replies are limited")

	resp = apptest.Do(t, app, user, "GET", comments, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var thread community.CommentListResponse
	apptest.Decode(t, resp, &thread)
	assert.Equal(t, forum.MaxReplyDepth, thread.Count)
	require.Len(t, thread.Data, 1)
	require.Len(t, thread.Data[0].Replies, 1)
	assert.Equal(t, 2, thread.Data[0].Replies[0].Depth)
}

func TestComments_ToggleLike(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())
	user := h.SignUp(t, "ivy@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/forum/posts",
		map[string]string{"title": "t", "content": "c"})
	var post forum.Post
	apptest.Decode(t, resp, &post)

	resp = apptest.Do(t, app, user, "POST", "/api/forum/posts/"+post.ID.String()+"/comments", map[string]any{"content": "hi"})
	var comment struct {
		ID string `json:"id"`
	}
	apptest.Decode(t, resp, &comment)

	resp = apptest.Do(t, app, user, "POST", "/api/forum/comments/"+comment.ID+"/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked struct {
		NewLikesCount int  `json:"new_likes_count"`
		LikedByUser   bool `json:"liked_by_user"`
	}
	apptest.Decode(t, resp, &liked)
	assert.Equal(t, 1, liked.NewLikesCount)
	assert.True(t, liked.LikedByUser)
}

func TestForum_RequiresToken(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(community.New())

	resp := apptest.Do(t, app, nil, "GET", "/api/forum/posts", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	apptest.Decode(t, resp, &body)
	assert.Equal(t, "/login", body.Redirect)
}
