package scanner

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type ScannerPlugin struct{}

func New() *ScannerPlugin {
	return &ScannerPlugin{}
}

func (p *ScannerPlugin) ID() string { return "scanner" }

func (p *ScannerPlugin) Models() []interface{} { return nil }

func (p *ScannerPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	handler := NewScanHandler(NewScanService(deps.Gemini, deps.Gateway))

	router.Get("/scanner/eligibility", handler.Eligibility)
	router.Post("/scanner/identify", handler.Identify)
	router.Post("/scanner/diagnose", handler.Diagnose)
}
