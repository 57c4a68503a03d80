package gateway

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const authorColumns = "au.user_id AS author_user_id, au.name AS author_name, " +
	"au.avatar_url AS author_avatar_url, au.subscription_tier_id AS author_subscription_tier_id"

// withAuthor joins the author's public profile onto rows of table.
func withAuthor(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("LEFT JOIN users AS au ON au.user_id = " + table + ".user_id")
	}
}

func (g *Gateway) ListPosts(ctx context.Context) ([]models.PostRow, error) {
	var rows []models.PostRow
	err := g.conn(ctx).Table("forum_posts").
		Scopes(withAuthor("forum_posts")).
		Select("forum_posts.*, " + authorColumns + ", " +
			"(SELECT COUNT(*) FROM forum_likes fl WHERE fl.post_id = forum_posts.id) AS likes_count, " +
			"(SELECT COUNT(*) FROM forum_comments fc WHERE fc.post_id = forum_posts.id) AS comment_count").
		Order("forum_posts.is_pinned DESC").
		Order("forum_posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "forum posts")
	}
	return rows, nil
}

func (g *Gateway) LikedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := g.conn(ctx).Model(&models.ForumLike{}).Scopes(ownedBy(userID)).Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translate(err, "forum likes")
	}
	return ids, nil
}

// EquippedTitles maps each user to the name of their equipped title. Users
// without one are absent.
func (g *Gateway) EquippedTitles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID uuid.UUID
		Name   string
	}
	err := g.conn(ctx).Table("user_titles").
		Joins("JOIN titles ON titles.id = user_titles.title_id").
		Select("user_titles.user_id, titles.name").
		Where("user_titles.user_id IN ? AND user_titles.equipped = ?", userIDs, true).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "equipped titles")
	}
	for _, r := range rows {
		out[r.UserID] = r.Name
	}
	return out, nil
}

func (g *Gateway) CreatePost(ctx context.Context, p *models.ForumPost) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return translate(g.conn(ctx).Create(p).Error, "forum post")
}

func (g *Gateway) UpdatePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool, title, content string, photoURL *string) error {
	res := g.conn(ctx).Model(&models.ForumPost{}).
		Scopes(authoredBy(actorID, asAdmin)).
		Where("id = ?", postID).
		Updates(map[string]any{"title": title, "content": content, "photo_url": photoURL})
	return g.affected(ctx, res, &models.ForumPost{}, postID, "forum post")
}

// DeletePost removes the post together with its likes and comments.
func (g *Gateway) DeletePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool) error {
	return g.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(authoredBy(actorID, asAdmin)).Where("id = ?", postID).Delete(&models.ForumPost{})
		if err := g.affected(ctx, res, &models.ForumPost{}, postID, "forum post"); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.ForumLike{}).Error; err != nil {
			return translate(err, "forum likes")
		}
		return translate(tx.Where("post_id = ?", postID).Delete(&models.ForumComment{}).Error, "forum comments")
	})
}

func (g *Gateway) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error {
	res := g.conn(ctx).Model(&models.ForumPost{}).Where("id = ?", postID).Update("is_pinned", pinned)
	if res.Error != nil {
		return translate(res.Error, "forum post")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: forum post", apperr.ErrNotFound)
	}
	return nil
}

// TogglePostLike calls toggle_like_and_get_result, which reports whether a
// like row was inserted.
func (g *Gateway) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var inserted bool
	err := g.conn(ctx).Raw("SELECT toggle_like_and_get_result(?, ?)", postID, userID).Scan(&inserted).Error
	if err != nil {
		return false, translate(err, "toggle_like_and_get_result")
	}
	return inserted, nil
}

// ListComments returns the post's comments oldest first, each flagged with
// whether viewerID liked it.
func (g *Gateway) ListComments(ctx context.Context, postID, viewerID uuid.UUID) ([]models.CommentRow, error) {
	var rows []models.CommentRow
	err := g.conn(ctx).Table("forum_comments").
		Scopes(withAuthor("forum_comments")).
		Select("forum_comments.*, "+authorColumns+", "+
			"EXISTS (SELECT 1 FROM forum_comment_likes cl WHERE cl.comment_id = forum_comments.id AND cl.user_id = ?) AS liked_by_user",
			viewerID).
		Where("forum_comments.post_id = ?", postID).
		Order("forum_comments.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "forum comments")
	}
	return rows, nil
}

func (g *Gateway) CommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error) {
	var c models.ForumComment
	if err := g.conn(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "forum comment")
	}
	return &c, nil
}

func (g *Gateway) CreateComment(ctx context.Context, c *models.ForumComment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return translate(g.conn(ctx).Create(c).Error, "forum comment")
}

func (g *Gateway) UpdateComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool, content string) error {
	res := g.conn(ctx).Model(&models.ForumComment{}).
		Scopes(authoredBy(actorID, asAdmin)).
		Where("id = ?", id).
		Update("content", content)
	return g.affected(ctx, res, &models.ForumComment{}, id, "forum comment")
}

func (g *Gateway) DeleteComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool) error {
	res := g.conn(ctx).Scopes(authoredBy(actorID, asAdmin)).Where("id = ?", id).Delete(&models.ForumComment{})
	return g.affected(ctx, res, &models.ForumComment{}, id, "forum comment")
}

// ToggleCommentLike calls toggle_comment_like, which returns the new count
// and the caller's like state as a single row.
func (g *Gateway) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.CommentLikeResult, error) {
	var rows []models.CommentLikeResult
	err := g.conn(ctx).Raw("SELECT new_likes_count, liked_by_user FROM toggle_comment_like(?, ?)", commentID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "toggle_comment_like")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: forum comment", apperr.ErrNotFound)
	}
	return &rows[0], nil
}
