package chatbot

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type ChatbotPlugin struct{}

func New() *ChatbotPlugin {
	return &ChatbotPlugin{}
}

func (p *ChatbotPlugin) ID() string { return "chatbot" }

func (p *ChatbotPlugin) Models() []interface{} { return nil }

func (p *ChatbotPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	var forecaster Forecaster
	if deps.Weather != nil {
		forecaster = deps.Weather
	}
	handler := NewChatHandler(NewChatService(deps.Gemini, deps.Gateway, forecaster, deps.Chatlog))

	router.Post("/chat", handler.Send)
	router.Get("/chat/history", handler.History)
	router.Delete("/chat/history", handler.Clear)
}
