package community

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/forum"
	"github.com/google/uuid"
)

type PostListResponse struct {
	Data []forum.Post `json:"data"`
}

type LikeResponse struct {
	Post  forum.Post `json:"post"`
	Phase string     `json:"phase"`
}

type PinRequest struct {
	Pinned bool `json:"pinned"`
}

type CommentRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CommentListResponse struct {
	Data  []*forum.Node `json:"data"`
	Count int           `json:"count"`
}
