package profile

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type ProfilePlugin struct{}

func New() *ProfilePlugin {
	return &ProfilePlugin{}
}

func (p *ProfilePlugin) ID() string { return "profile" }

func (p *ProfilePlugin) Models() []interface{} { return nil }

func (p *ProfilePlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewProfileHandler(NewProfileService(deps.Gateway))

	router.Get("/profile", h.Me)
	router.Put("/profile", h.Update)
	router.Post("/profile/avatar", h.UploadAvatar)
	router.Get("/profiles/:id", h.View)
}
