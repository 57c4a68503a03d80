// Package weather reads current conditions, forecasts and place suggestions
// from the weather endpoint, caching responses in Redis.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
)

// ForecastDays is the forecast horizon offered to premium users.
const ForecastDays = 3

var ErrEmptyQuery = fmt.Errorf("%w: coordinates or a place name are required", apperr.ErrValidation)

// Query selects a location by coordinates or by free-text place name.
type Query struct {
	Lat   *float64
	Lon   *float64
	Place string
}

func (q Query) String() string {
	if q.Lat != nil && q.Lon != nil {
		return strconv.FormatFloat(*q.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(*q.Lon, 'f', 4, 64)
	}
	return strings.TrimSpace(q.Place)
}

type Client struct {
	apiURL string
	apiKey string
	cache  Cache
	ttl    time.Duration
	http   *http.Client
}

func New(apiURL, apiKey string, cache Cache, ttl time.Duration) *Client {
	if cache == nil {
		cache = NoCache{}
	}
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		cache:  cache,
		ttl:    ttl,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Current returns current conditions at q.
func (c *Client) Current(ctx context.Context, q Query) (*Report, error) {
	loc := q.String()
	if loc == "" {
		return nil, ErrEmptyQuery
	}
	var out Report
	params := url.Values{"q": {loc}, "lang": {"ru"}}
	if err := c.fetch(ctx, "current.json", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast returns current conditions plus a ForecastDays-day forecast.
func (c *Client) Forecast(ctx context.Context, q Query) (*Report, error) {
	loc := q.String()
	if loc == "" {
		return nil, ErrEmptyQuery
	}
	var out Report
	params := url.Values{"q": {loc}, "days": {strconv.Itoa(ForecastDays)}, "lang": {"ru"}}
	if err := c.fetch(ctx, "forecast.json", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search suggests places matching a partial name. An empty query yields no
// suggestions.
func (c *Client) Search(ctx context.Context, q string) ([]Place, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Place{}, nil
	}
	var out []Place
	if err := c.fetch(ctx, "search.json", url.Values{"q": {q}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values, dest any) error {
	key := path + "?" + params.Encode()
	if hit, err := c.cache.Get(ctx, key, dest); err != nil {
		slog.Warn("weather cache read failed", "key", key, "error", err)
	} else if hit {
		return nil
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: weather request failed: %v", apperr.ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read weather response: %v", apperr.ErrRemote, err)
	}
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: location not found", apperr.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: weather API error: status %d", apperr.ErrRemote, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: failed to decode weather response: %v", apperr.ErrRemote, err)
	}

	if err := c.cache.Set(ctx, key, dest, c.ttl); err != nil {
		slog.Warn("weather cache write failed", "key", key, "error", err)
	}
	return nil
}
