package achievements

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type AchievementsPlugin struct{}

func New() *AchievementsPlugin {
	return &AchievementsPlugin{}
}

func (p *AchievementsPlugin) ID() string { return "achievements" }

func (p *AchievementsPlugin) Models() []interface{} { return nil }

func (p *AchievementsPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewAchievementHandler()

	router.Get("/achievements", h.Mine)
	router.Get("/achievements/catalog", h.Catalog)
	router.Get("/achievements/requirements", h.Requirements)
	router.Put("/titles/equipped", h.Equip)
	router.Delete("/titles/equipped", h.Unequip)
}

func (p *AchievementsPlugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewAdminHandler(NewGrantService(deps.Gateway))

	router.Get("/titles", h.GrantableTitles)
	router.Post("/titles/grant", h.GrantTitle)
}
