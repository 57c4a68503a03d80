package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
  "location": {"name": "Астана", "country": "Казахстан", "lat": 51.18, "lon": 71.45},
  "current": {"temp_c": 32, "feelslike_c": 34, "humidity": 30, "is_day": 1, "condition": {"text": "Солнечно"}},
  "forecast": {"forecastday": [
    {"date": "2026-07-01", "day": {"avgtemp_c": 30, "totalprecip_mm": 0}},
    {"date": "2026-07-02", "day": {"avgtemp_c": 18, "totalprecip_mm": 7}},
    {"date": "2026-07-03", "day": {"avgtemp_c": 22, "totalprecip_mm": 0}}
  ]}
}`

func newRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCache(client)
}

func TestForecast_DecodesAndSendsParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "3", r.URL.Query().Get("days"))
		assert.Equal(t, "ru", r.URL.Query().Get("lang"))
		assert.Equal(t, "51.1800,71.4500", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	lat, lon := 51.18, 71.45
	rep, err := New(srv.URL, "k", nil, time.Minute).Forecast(context.Background(), Query{Lat: &lat, Lon: &lon})

	require.NoError(t, err)
	assert.Equal(t, "Астана", rep.Location.Name)
	assert.Equal(t, 32.0, rep.Current.TempC)
	require.NotNil(t, rep.Forecast)
	assert.Len(t, rep.Forecast.Days, 3)
	assert.Equal(t, 7.0, rep.Forecast.Days[1].Day.TotalPrecipMM)
}

func TestCurrent_CachedInRedis(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	mr, cache := newRedisCache(t)
	c := New(srv.URL, "k", cache, time.Minute)
	ctx := context.Background()

	first, err := c.Current(ctx, Query{Place: "Астана"})
	require.NoError(t, err)
	second, err := c.Current(ctx, Query{Place: "Астана"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Current.TempC, second.Current.TempC)

	mr.FastForward(2 * time.Minute)
	_, err = c.Current(ctx, Query{Place: "Астана"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCurrent_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Нигде" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "k", nil, time.Minute)
	ctx := context.Background()

	_, err := c.Current(ctx, Query{})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	_, err = c.Current(ctx, Query{Place: "Нигде"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = c.Current(ctx, Query{Place: "Алматы"})
	assert.ErrorIs(t, err, apperr.ErrRemote)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Almaty", "country": "Kazakhstan"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", nil, time.Minute)

	places, err := c.Search(context.Background(), "alm")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Almaty", places[0].Name)

	places, err = c.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, places)
}
