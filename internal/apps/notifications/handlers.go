package notifications

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

type PermissionRequest struct {
	Permission string `json:"permission"`
}

type PermissionResponse struct {
	Permission notify.Permission `json:"permission"`
}

type DrainResponse struct {
	Data []notify.Notification `json:"data"`
}

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func (h *NotificationHandler) Permission(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(PermissionResponse{Permission: ws.Notifications.Permission()})
}

// SetPermission records the browser's answer to the permission prompt.
func (h *NotificationHandler) SetPermission(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := ws.Notifications.RequestPermission(notify.Permission(req.Permission)); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(PermissionResponse{Permission: ws.Notifications.Permission()})
}

// Drain hands the browser every queued notification.
func (h *NotificationHandler) Drain(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	pending, err := ws.Notifications.Drain(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	if pending == nil {
		pending = []notify.Notification{}
	}
	return c.JSON(DrainResponse{Data: pending})
}
