package routes_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/subscription"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/fakegateway"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, ping func() error) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: "routes-secret", RateLimitMax: 100}
	gw := fakegateway.New()
	bg := state.NewBackground(time.Second)
	t.Cleanup(bg.Wait)
	sessions := session.NewService(gw, cfg.JWTSecret, time.Hour)
	registry := workspace.NewRegistry(gw, sessions, notify.NewMemoryOutbox(), bg)

	app := fiber.New()
	routes.Setup(app, cfg, registry,
		handlers.NewAuthHandler(sessions, registry),
		handlers.NewHealthHandler(registry, ping),
		handlers.NewLegalHandler("ADOPTD", "support@adoptd.app"),
		[]apps.Plugin{subscription.New()},
		&apps.Deps{Config: cfg, Gateway: gw},
	)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newServer(t, func() error { return errors.New("connection refused") })

	resp := call(t, app, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "unhealthy: connection refused", body.DB)
	assert.Equal(t, 0, body.Workspaces)
}

func TestLegalPages(t *testing.T) {
	t.Parallel()
	app := newServer(t, func() error { return nil })

	for _, path := range []string{"/api/legal/privacy", "/api/legal/terms"} {
		resp := call(t, app, "GET", path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(raw), "ADOPTD")
		assert.Contains(t, string(raw), "support@adoptd.app")
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	app := newServer(t, func() error { return nil })
	creds := dto.SignUpRequest{Email: "Fern@Example.com", Password: "password123"}

	resp := call(t, app, "POST", "/api/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var signedUp dto.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signedUp))
	assert.Equal(t, "fern@example.com", signedUp.User.Email)
	require.NotEmpty(t, signedUp.AccessToken)

	resp = call(t, app, "POST", "/api/auth/signup", "", creds)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, "POST", "/api/auth/signin", "", dto.SignInRequest{Email: creds.Email, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, "POST", "/api/auth/signin", "", dto.SignInRequest{Email: creds.Email, Password: creds.Password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var signedIn dto.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signedIn))

	resp = call(t, app, "GET", "/api/auth/me", signedIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, signedUp.User.ID, me.ID)

	resp = call(t, app, "GET", "/api/subscription", signedIn.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, "POST", "/api/auth/logout", signedIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, "GET", "/api/auth/me", signedIn.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The other session is untouched.
	resp = call(t, app, "GET", "/api/auth/me", signedUp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_WithoutToken(t *testing.T) {
	t.Parallel()
	app := newServer(t, func() error { return nil })

	resp := call(t, app, "POST", "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()
	app := newServer(t, func() error { return nil })

	resp := call(t, app, "GET", "/api/subscription", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "/login", body.Redirect)
}
