package forecast

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/advice"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

var ErrPremiumForecast = fmt.Errorf("%w: the %d-day forecast is a Premium feature", apperr.ErrForbidden, weather.ForecastDays)

type Provider interface {
	Current(ctx context.Context, q weather.Query) (*weather.Report, error)
	Forecast(ctx context.Context, q weather.Query) (*weather.Report, error)
	Search(ctx context.Context, q string) ([]weather.Place, error)
}

type TipsResponse struct {
	Location weather.Location `json:"location"`
	Premium  bool             `json:"premium"`
	Tips     []advice.CareTip `json:"tips"`
}

type WeatherHandler struct {
	provider Provider
}

func NewWeatherHandler(provider Provider) *WeatherHandler {
	return &WeatherHandler{provider: provider}
}

// queryOf reads lat/lon or a q place name from the query string.
func queryOf(c *fiber.Ctx) weather.Query {
	var q weather.Query
	if lat, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		q.Lat = &lat
	}
	if lon, err := strconv.ParseFloat(c.Query("lon"), 64); err == nil {
		q.Lon = &lon
	}
	q.Place = c.Query("q")
	return q
}

// entitlementOf loads the tier first if the workspace has not managed to yet.
func entitlementOf(c *fiber.Ctx) (entitlement.Snapshot, error) {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return entitlement.Snapshot{}, err
	}
	if !ws.Entitlement.Snapshot().Loaded {
		if err := ws.Entitlement.Refresh(c.UserContext()); err != nil {
			return entitlement.Snapshot{}, err
		}
	}
	return ws.Entitlement.Snapshot(), nil
}

func (h *WeatherHandler) Current(c *fiber.Ctx) error {
	report, err := h.provider.Current(c.UserContext(), queryOf(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(report)
}

func (h *WeatherHandler) Forecast(c *fiber.Ctx) error {
	ent, err := entitlementOf(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if !ent.Premium() {
		return apperr.Respond(c, ErrPremiumForecast)
	}

	report, err := h.provider.Forecast(c.UserContext(), queryOf(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(report)
}

func (h *WeatherHandler) Search(c *fiber.Ctx) error {
	places, err := h.provider.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"data": places})
}

// Tips evaluates the care rules. Forecast rules only fire for premium
// users, whose request fetches the forecast instead of current conditions.
func (h *WeatherHandler) Tips(c *fiber.Ctx) error {
	ent, err := entitlementOf(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	premium := ent.Premium()

	var report *weather.Report
	if premium {
		report, err = h.provider.Forecast(c.UserContext(), queryOf(c))
	} else {
		report, err = h.provider.Current(c.UserContext(), queryOf(c))
	}
	if err != nil {
		return apperr.Respond(c, err)
	}

	cond := advice.Conditions{Current: report.Current, Premium: premium}
	if report.Forecast != nil {
		cond.Forecast = report.Forecast.Days
	}
	return c.JSON(TipsResponse{Location: report.Location, Premium: premium, Tips: advice.CareTips(cond)})
}
