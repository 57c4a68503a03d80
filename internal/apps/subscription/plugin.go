package subscription

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionPlugin struct{}

func New() *SubscriptionPlugin {
	return &SubscriptionPlugin{}
}

func (p *SubscriptionPlugin) ID() string { return "subscription" }

func (p *SubscriptionPlugin) Models() []interface{} { return nil }

func (p *SubscriptionPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewSubscriptionHandler()

	router.Get("/subscription", h.Status)
	router.Post("/subscription/refresh", h.Refresh)
	router.Post("/subscription/checkout", h.Checkout)
}
