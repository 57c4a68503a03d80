package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Acquirer resolves a token's claims into the user's workspace.
type Acquirer interface {
	Acquire(ctx context.Context, claims jwt.MapClaims) (*workspace.Workspace, error)
}

// Workspace attaches the caller's workspace to the request. It must run
// after JWTProtected.
func Workspace(workspaces Acquirer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return apperr.Respond(c, apperr.ErrUnauthenticated)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperr.Respond(c, apperr.ErrUnauthenticated)
		}

		ws, err := workspaces.Acquire(c.UserContext(), claims)
		if err != nil {
			return apperr.Respond(c, err)
		}
		_, sessionID, _ := session.ParseClaims(claims)
		c.Locals("session_id", sessionID)
		workspace.Attach(c, ws)
		return c.Next()
	}
}
