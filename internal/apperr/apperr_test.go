package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Respond(c, err) })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestRespond_Taxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"auth", ErrUnauthenticated, fiber.StatusUnauthorized},
		{"quota", fmt.Errorf("%w: scans", ErrQuotaExceeded), fiber.StatusTooManyRequests},
		{"validation", fmt.Errorf("%w: title is required", ErrValidation), fiber.StatusBadRequest},
		{"media", ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType},
		{"remote", fmt.Errorf("%w: gemini", ErrRemote), fiber.StatusBadGateway},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respondWith(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.True(t, body.Error)
		})
	}
}

func TestRespond_AuthCarriesRedirect(t *testing.T) {
	_, body := respondWith(t, ErrUnauthenticated)

	assert.Equal(t, LoginPath, body.Redirect)
}

func TestRespond_QuotaCarriesUpgradeCode(t *testing.T) {
	_, body := respondWith(t, fmt.Errorf("%w: scans", ErrQuotaExceeded))

	assert.Equal(t, "quota_exceeded", body.Code)
	assert.Contains(t, body.Message, "Upgrade to Premium")
}

func TestRespond_HidesInternalDetail(t *testing.T) {
	_, body := respondWith(t, errors.New("pq: password authentication failed"))

	assert.Equal(t, "Internal server error", body.Message)
}
