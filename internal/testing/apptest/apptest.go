// Package apptest mounts feature plugins on a Fiber app backed by the
// in-memory gateway, behind the same JWT and workspace middleware the
// server uses.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/fakegateway"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const secret = "apptest-secret"

type Harness struct {
	Gateway    *fakegateway.Gateway
	Sessions   *session.Service
	Workspaces *workspace.Registry
	Config     *config.Config
	Deps       *apps.Deps

	bg *state.Background
}

func New(t *testing.T) *Harness {
	t.Helper()
	gw := fakegateway.New()
	bg := state.NewBackground(time.Second)
	sessions := session.NewService(gw, secret, time.Hour)
	cfg := &config.Config{
		JWTSecret:         secret,
		ReminderTolerance: time.Minute,
		AdminToken:        "admin-token",
	}
	h := &Harness{
		Gateway:    gw,
		Sessions:   sessions,
		Workspaces: workspace.NewRegistry(gw, sessions, notify.NewMemoryOutbox(), bg),
		Config:     cfg,
		Deps:       &apps.Deps{Config: cfg, Gateway: gw},
		bg:         bg,
	}
	t.Cleanup(bg.Wait)
	return h
}

// App mounts plugins under /api the way the server does. Admin routes sit
// under /api/admin.
func (h *Harness) App(plugins ...apps.Plugin) *fiber.App {
	app := fiber.New()
	protected := app.Group("/api", middleware.JWTProtected(h.Config), middleware.Workspace(h.Workspaces))
	admin := protected.Group("/admin", middleware.AdminRequired(h.Config))
	for _, plugin := range plugins {
		plugin.RegisterRoutes(protected, h.Deps)
		if ap, ok := plugin.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, h.Deps)
		}
	}
	return app
}

// SignUp registers a user and returns its access token.
func (h *Harness) SignUp(t *testing.T, email string) *session.Issued {
	t.Helper()
	issued, err := h.Sessions.SignUp(context.Background(), email, "password123")
	require.NoError(t, err)
	return issued
}

// SignUpAdmin registers a user with the admin role. The role is read from
// the gateway when the workspace is built, so the token itself is ordinary.
func (h *Harness) SignUpAdmin(t *testing.T, email string) *session.Issued {
	t.Helper()
	issued := h.SignUp(t, email)
	h.Gateway.SetRole(issued.Session.UserID, models.RoleAdmin)
	return issued
}

// Workspace returns the workspace built for the user by earlier requests.
func (h *Harness) Workspace(t *testing.T, issued *session.Issued) *workspace.Workspace {
	t.Helper()
	ws, ok := h.Workspaces.Get(issued.Session.UserID)
	require.True(t, ok, "no workspace for user")
	return ws
}

// Do sends a request with the user's token. A non-nil body is sent as JSON.
func Do(t *testing.T, app *fiber.App, issued *session.Issued, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if issued != nil {
		req.Header.Set("Authorization", "Bearer "+issued.Token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// File is one multipart file part.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// DoMultipart sends a multipart form with the user's token.
func DoMultipart(t *testing.T, app *fiber.App, issued *session.Issued, method, path string, fields map[string]string, files ...File) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		hdr.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if issued != nil {
		req.Header.Set("Authorization", "Bearer "+issued.Token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode reads a JSON response body into out.
func Decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
