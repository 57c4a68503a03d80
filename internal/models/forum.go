package models

import (
	"time"

	"github.com/google/uuid"
)

type ForumPost struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"size:300;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PhotoURL  *string   `gorm:"size:500" json:"photo_url"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	IsPinned  bool      `gorm:"default:false" json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ForumPost) TableName() string { return "forum_posts" }

// PostRow is a post joined with its author and aggregate counts.
type PostRow struct {
	ForumPost
	Author       Author `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	LikesCount   int    `json:"likes_count"`
	CommentCount int    `json:"comment_count"`
}

type ForumLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ForumLike) TableName() string { return "forum_likes" }

type ForumComment struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PostID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	LikesCount int        `gorm:"default:0" json:"likes_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ForumComment) TableName() string { return "forum_comments" }

// CommentRow is a comment joined with its author and the viewer's like.
type CommentRow struct {
	ForumComment
	Author      Author `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	LikedByUser bool   `json:"liked_by_user"`
}

// CommentLikeResult is what toggle_comment_like reports back.
type CommentLikeResult struct {
	NewLikesCount int  `json:"new_likes_count"`
	LikedByUser   bool `json:"liked_by_user"`
}

// ForumCommentLike rows are written by toggle_comment_like only.
type ForumCommentLike struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ForumCommentLike) TableName() string { return "forum_comment_likes" }
