package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// WorkspaceCounter reports how many user workspaces are live.
type WorkspaceCounter interface {
	Len() int
}

type HealthHandler struct {
	workspaces WorkspaceCounter
	ping       func() error
}

// NewHealthHandler reports the gateway's reachability through ping.
func NewHealthHandler(workspaces WorkspaceCounter, ping func() error) *HealthHandler {
	return &HealthHandler{workspaces: workspaces, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         dbStatus,
		Workspaces: h.workspaces.Len(),
	})
}
