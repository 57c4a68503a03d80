package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	workspaces middleware.Acquirer,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	legalHandler *handlers.LegalHandler,
	plugins []apps.Plugin,
	deps *apps.Deps,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/terms", legalHandler.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/logout", middleware.JWTOptional(cfg), authHandler.SignOut)

	jwtAndWorkspace := []fiber.Handler{middleware.JWTProtected(cfg), middleware.Workspace(workspaces)}
	api.Get("/auth/me", append(jwtAndWorkspace, authHandler.Me)...)

	// Registered last: the public routes above answer before this group's
	// middleware is reached.
	protected := api.Group("", jwtAndWorkspace...)
	admin := protected.Group("/admin", middleware.AdminRequired(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}
