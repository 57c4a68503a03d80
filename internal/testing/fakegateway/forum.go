package fakegateway

import (
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

func (g *Gateway) authorOf(userID uuid.UUID) models.Author {
	a := models.Author{UserID: userID}
	if u, ok := g.users[userID]; ok {
		a.Name = u.Name
		a.AvatarURL = u.AvatarURL
		a.SubscriptionTierID = u.SubscriptionTierID
	}
	return a
}

func (g *Gateway) ListPosts(ctx context.Context) ([]models.PostRow, error) {
	if err := g.enter("ListPosts"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]models.PostRow, 0, len(g.posts))
	for _, p := range g.posts {
		row := models.PostRow{ForumPost: *p, Author: g.authorOf(p.UserID)}
		for k := range g.postLikes {
			if k.target == p.ID {
				row.LikesCount++
			}
		}
		for _, c := range g.comments {
			if c.PostID == p.ID {
				row.CommentCount++
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].IsPinned != rows[j].IsPinned {
			return rows[i].IsPinned
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (g *Gateway) LikedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := g.enter("LikedPostIDs"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var ids []uuid.UUID
	for k := range g.postLikes {
		if k.user == userID {
			ids = append(ids, k.target)
		}
	}
	return ids, nil
}

func (g *Gateway) CreatePost(ctx context.Context, p *models.ForumPost) error {
	if err := g.enter("CreatePost"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = g.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	g.posts[p.ID] = &cp
	return nil
}

func (g *Gateway) ownedPost(postID, actorID uuid.UUID, asAdmin bool) (*models.ForumPost, error) {
	p, ok := g.posts[postID]
	if !ok {
		return nil, notFound("post")
	}
	if p.UserID != actorID && !asAdmin {
		return nil, apperr.ErrForbidden
	}
	return p, nil
}

func (g *Gateway) UpdatePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool, title, content string, photoURL *string) error {
	if err := g.enter("UpdatePost"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.ownedPost(postID, actorID, asAdmin)
	if err != nil {
		return err
	}
	p.Title, p.Content, p.PhotoURL = title, content, photoURL
	p.UpdatedAt = g.Now()
	return nil
}

func (g *Gateway) DeletePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool) error {
	if err := g.enter("DeletePost"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.ownedPost(postID, actorID, asAdmin); err != nil {
		return err
	}
	delete(g.posts, postID)
	for id, c := range g.comments {
		if c.PostID == postID {
			delete(g.comments, id)
		}
	}
	return nil
}

func (g *Gateway) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error {
	if err := g.enter("SetPinned"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.posts[postID]
	if !ok {
		return notFound("post")
	}
	p.IsPinned = pinned
	return nil
}

func (g *Gateway) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	if err := g.enter("TogglePostLike"); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.posts[postID]; !ok {
		return false, notFound("post")
	}
	key := likeKey{postID, userID}
	if _, liked := g.postLikes[key]; liked {
		delete(g.postLikes, key)
		return false, nil
	}
	g.postLikes[key] = struct{}{}
	return true, nil
}

func (g *Gateway) ListComments(ctx context.Context, postID, viewerID uuid.UUID) ([]models.CommentRow, error) {
	if err := g.enter("ListComments"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var rows []models.CommentRow
	for _, c := range g.comments {
		if c.PostID != postID {
			continue
		}
		_, liked := g.commentLikes[likeKey{c.ID, viewerID}]
		rows = append(rows, models.CommentRow{ForumComment: *c, Author: g.authorOf(c.UserID), LikedByUser: liked})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (g *Gateway) CommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error) {
	if err := g.enter("CommentByID"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.comments[id]
	if !ok {
		return nil, notFound("comment")
	}
	cp := *c
	return &cp, nil
}

func (g *Gateway) CreateComment(ctx context.Context, c *models.ForumComment) error {
	if err := g.enter("CreateComment"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.posts[c.PostID]; !ok {
		return notFound("post")
	}
	c.ID = uuid.New()
	c.CreatedAt = g.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	g.comments[c.ID] = &cp
	return nil
}

func (g *Gateway) ownedComment(id, actorID uuid.UUID, asAdmin bool) (*models.ForumComment, error) {
	c, ok := g.comments[id]
	if !ok {
		return nil, notFound("comment")
	}
	if c.UserID != actorID && !asAdmin {
		return nil, apperr.ErrForbidden
	}
	return c, nil
}

func (g *Gateway) UpdateComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool, content string) error {
	if err := g.enter("UpdateComment"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.ownedComment(id, actorID, asAdmin)
	if err != nil {
		return err
	}
	c.Content = content
	c.UpdatedAt = g.Now()
	return nil
}

func (g *Gateway) DeleteComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool) error {
	if err := g.enter("DeleteComment"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.ownedComment(id, actorID, asAdmin); err != nil {
		return err
	}
	delete(g.comments, id)
	return nil
}

func (g *Gateway) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.CommentLikeResult, error) {
	if err := g.enter("ToggleCommentLike"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.comments[commentID]
	if !ok {
		return nil, notFound("comment")
	}
	key := likeKey{commentID, userID}
	if _, liked := g.commentLikes[key]; liked {
		delete(g.commentLikes, key)
		if c.LikesCount > 0 {
			c.LikesCount--
		}
		return &models.CommentLikeResult{NewLikesCount: c.LikesCount, LikedByUser: false}, nil
	}
	g.commentLikes[key] = struct{}{}
	c.LikesCount++
	return &models.CommentLikeResult{NewLikesCount: c.LikesCount, LikedByUser: true}, nil
}

func (g *Gateway) EquippedTitles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if err := g.enter("EquippedTitles"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[uuid.UUID]string)
	for _, id := range userIDs {
		for _, ut := range g.userTitles[id] {
			if ut.Equipped {
				out[id] = ut.Title.Name
			}
		}
	}
	return out, nil
}
