package achievements_test

import (
	"net/http"
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/achievements"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/apptest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantTitle_AdminOnly(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(achievements.New())
	special := h.Gateway.AddTitle(models.Title{Name: "Токаев"})
	user := h.SignUp(t, "fern@example.com")
	admin := h.SignUpAdmin(t, "root@example.com")
	grant := achievements.GrantRequest{UserID: user.Session.UserID, TitleID: special.ID}

	resp := apptest.Do(t, app, user, "POST", "/api/admin/titles/grant", grant)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, admin, "POST", "/api/admin/titles/grant", grant)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	titles, err := h.Gateway.UserTitles(t.Context(), user.Session.UserID)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, special.ID, titles[0].TitleID)
}

func TestGrantTitle_RefusesEarnedTitles(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(achievements.New())
	earned := h.Gateway.AddTitle(models.Title{Name: "Садовод"})
	user := h.SignUp(t, "fern@example.com")
	admin := h.SignUpAdmin(t, "root@example.com")

	resp := apptest.Do(t, app, admin, "POST", "/api/admin/titles/grant",
		achievements.GrantRequest{UserID: user.Session.UserID, TitleID: earned.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, admin, "POST", "/api/admin/titles/grant",
		achievements.GrantRequest{UserID: user.Session.UserID, TitleID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, h.Gateway.Calls("GrantTitle"))
}

func TestGrantableTitles(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(achievements.New())
	h.Gateway.AddTitle(models.Title{Name: "Садовод"})
	h.Gateway.AddTitle(models.Title{Name: "Толстый Алхимик"})
	admin := h.SignUpAdmin(t, "root@example.com")

	resp := apptest.Do(t, app, admin, "GET", "/api/admin/titles", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data []models.Title `json:"data"`
	}
	apptest.Decode(t, resp, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Толстый Алхимик", body.Data[0].Name)
}

func TestEquip_GrantedTitle(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(achievements.New())
	special := h.Gateway.AddTitle(models.Title{Name: "Токаев"})
	user := h.SignUp(t, "fern@example.com")

	// Build the workspace before the grant lands.
	resp := apptest.Do(t, app, user, "GET", "/api/achievements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, user, "PUT", "/api/titles/equipped", achievements.EquipRequest{TitleID: special.ID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, h.Gateway.GrantTitle(t.Context(), user.Session.UserID, special.ID))

	resp = apptest.Do(t, app, user, "PUT", "/api/titles/equipped", achievements.EquipRequest{TitleID: special.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, []uuid.UUID{special.ID}, h.Gateway.EquippedTitleIDs(user.Session.UserID))

	resp = apptest.Do(t, app, user, "GET", "/api/achievements", nil)
	var mine achievements.MineResponse
	apptest.Decode(t, resp, &mine)
	require.NotNil(t, mine.Equipped)
	assert.Equal(t, special.ID, mine.Equipped.TitleID)

	resp = apptest.Do(t, app, user, "DELETE", "/api/titles/equipped", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, h.Gateway.EquippedTitleIDs(user.Session.UserID))
}
