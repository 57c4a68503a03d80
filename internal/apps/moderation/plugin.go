package moderation

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type ModerationPlugin struct{}

func New() *ModerationPlugin {
	return &ModerationPlugin{}
}

func (p *ModerationPlugin) ID() string { return "moderation" }

func (p *ModerationPlugin) Models() []interface{} {
	return []interface{}{&models.Report{}}
}

func (p *ModerationPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewReportHandler(NewReportService(deps.Gateway))
	router.Post("/reports", h.Create)
}

func (p *ModerationPlugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewReportHandler(NewReportService(deps.Gateway))
	router.Get("/reports", h.List)
	router.Put("/reports/:id", h.Review)
}
