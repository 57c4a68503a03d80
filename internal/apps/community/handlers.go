package community

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/forum"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// postInput reads the multipart post form. The photo is optional.
func postInput(c *fiber.Ctx) (forum.PostInput, error) {
	in := forum.PostInput{
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		RemovePhoto: c.FormValue("remove_photo") == "true",
	}
	if fh, err := c.FormFile("photo"); err == nil {
		img, err := media.FromForm(fh)
		if err != nil {
			return in, err
		}
		in.Photo = &img
	}
	return in, nil
}

// =============================================================================
// PostHandler
// =============================================================================

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// List refetches the feed on every call so posts and likes from other users
// show up.
func (h *PostHandler) List(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := ws.Forum.Refresh(c.UserContext()); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(PostListResponse{Data: ws.Forum.Snapshot().Posts})
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	in, err := postInput(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	post, err := ws.Forum.CreatePost(c.UserContext(), in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}
	in, err := postInput(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	post, err := ws.Forum.UpdatePost(c.UserContext(), postID, in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	if err := ws.Forum.DeletePost(c.UserContext(), postID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike returns the post as settled by the toggle together with its
// phase. A phase other than "synced" means reconciliation is still pending.
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	post, err := ws.Forum.ToggleLike(c.UserContext(), postID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(LikeResponse{Post: post, Phase: ws.Forum.Phase(postID).String()})
}

func (h *PostHandler) SetPinned(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}
	var req PinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := ws.Forum.SetPinned(c.UserContext(), postID, req.Pinned); err != nil {
		return apperr.Respond(c, err)
	}
	post, _ := ws.Forum.Post(postID)
	return c.JSON(post)
}

// =============================================================================
// CommentHandler
// =============================================================================

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	thread, err := ws.Forum.Thread(c.UserContext(), postID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(CommentListResponse{Data: thread.Nested(), Count: thread.Len()})
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := ws.Forum.CreateComment(c.UserContext(), postID, req.Content, req.ParentID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := ws.Forum.UpdateComment(c.UserContext(), commentID, req.Content); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment updated"})
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}

	if err := ws.Forum.DeleteComment(c.UserContext(), commentID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommentHandler) ToggleLike(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}

	res, err := ws.Forum.ToggleCommentLike(c.UserContext(), commentID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(res)
}
