package reminders

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type RemindersPlugin struct{}

func New() *RemindersPlugin {
	return &RemindersPlugin{}
}

func (p *RemindersPlugin) ID() string { return "reminders" }

func (p *RemindersPlugin) Models() []interface{} { return nil }

func (p *RemindersPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewReminderHandler(deps.Config.ReminderTolerance)

	router.Get("/reminders", h.List)
	router.Post("/reminders", h.Create)
	router.Get("/reminders/due", h.Due)
	router.Post("/reminders/:id/complete", h.Complete)
}
