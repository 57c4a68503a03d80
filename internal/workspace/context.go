package workspace

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsKey = "workspace"

// Attach stores ws on the request.
func Attach(c *fiber.Ctx, ws *Workspace) {
	c.Locals(localsKey, ws)
}

// FromCtx returns the workspace the middleware attached to the request.
func FromCtx(c *fiber.Ctx) (*Workspace, error) {
	ws, ok := c.Locals(localsKey).(*Workspace)
	if !ok || ws == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return ws, nil
}

// SessionID is the id of the session behind the request's token.
func SessionID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("session_id").(uuid.UUID)
	return id
}
