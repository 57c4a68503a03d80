package forecast

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type WeatherPlugin struct{}

func New() *WeatherPlugin {
	return &WeatherPlugin{}
}

func (p *WeatherPlugin) ID() string { return "weather" }

func (p *WeatherPlugin) Models() []interface{} { return nil }

func (p *WeatherPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	handler := NewWeatherHandler(deps.Weather)

	router.Get("/weather/current", handler.Current)
	router.Get("/weather/forecast", handler.Forecast)
	router.Get("/weather/search", handler.Search)
	router.Get("/weather/tips", handler.Tips)
}
