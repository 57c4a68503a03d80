package notifications

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type NotificationsPlugin struct{}

func New() *NotificationsPlugin {
	return &NotificationsPlugin{}
}

func (p *NotificationsPlugin) ID() string { return "notifications" }

func (p *NotificationsPlugin) Models() []interface{} { return nil }

func (p *NotificationsPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewNotificationHandler()

	router.Get("/notifications/permission", h.Permission)
	router.Put("/notifications/permission", h.SetPermission)
	router.Get("/notifications", h.Drain)
}
