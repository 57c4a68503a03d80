package handlers

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Releaser forgets a signed-out session's workspace membership.
type Releaser interface {
	Release(userID, sessionID uuid.UUID)
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*session.Issued, error)
	SignIn(ctx context.Context, email, password string) (*session.Issued, error)
	SignOut(ctx context.Context, sessionID uuid.UUID) error
}

type AuthHandler struct {
	auth       AuthService
	workspaces Releaser
}

func NewAuthHandler(auth AuthService, workspaces Releaser) *AuthHandler {
	return &AuthHandler{auth: auth, workspaces: workspaces}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	issued, err := h.auth.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(issued))
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	issued, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return apperr.Respond(c, err)
	}
	return c.JSON(authResponse(issued))
}

// SignOut revokes the token's session. Calling it without a valid token
// still succeeds.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return c.JSON(fiber.Map{"message": "Signed out"})
	}
	claims, _ := token.Claims.(jwt.MapClaims)
	userID, sessionID, err := session.ParseClaims(claims)
	if err != nil {
		return c.JSON(fiber.Map{"message": "Signed out"})
	}

	if err := h.auth.SignOut(c.UserContext(), sessionID); err != nil {
		return apperr.Respond(c, err)
	}
	h.workspaces.Release(userID, sessionID)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me returns the resolved session of the current workspace.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	sess, err := ws.Session.Await(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(dto.UserResponse{ID: sess.UserID, Email: sess.Email, Role: sess.Role})
}

func authResponse(issued *session.Issued) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: issued.Token,
		ExpiresAt:   issued.Session.ExpiresAt.Unix(),
		User: dto.UserResponse{
			ID:    issued.Session.UserID,
			Email: issued.Session.Email,
			Role:  issued.Session.Role,
		},
	}
}
