package community

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type CommunityPlugin struct{}

func New() *CommunityPlugin {
	return &CommunityPlugin{}
}

func (p *CommunityPlugin) ID() string { return "forum" }

func (p *CommunityPlugin) Models() []interface{} { return nil }

func (p *CommunityPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	posts := NewPostHandler()
	comments := NewCommentHandler()

	router.Get("/forum/posts", posts.List)
	router.Post("/forum/posts", posts.Create)
	router.Put("/forum/posts/:id", posts.Update)
	router.Delete("/forum/posts/:id", posts.Delete)
	router.Post("/forum/posts/:id/like", posts.ToggleLike)
	router.Put("/forum/posts/:id/pin", posts.SetPinned)

	router.Get("/forum/posts/:id/comments", comments.List)
	router.Post("/forum/posts/:id/comments", comments.Create)
	router.Put("/forum/comments/:id", comments.Update)
	router.Delete("/forum/comments/:id", comments.Delete)
	router.Post("/forum/comments/:id/like", comments.ToggleLike)
}
