package profile_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/profile"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/apptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestUpdate_NameAndOccupation(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	user := h.SignUp(t, "fern@example.com")

	resp := apptest.Do(t, app, user, "PUT", "/api/profile",
		profile.UpdateRequest{Name: ptr("  Айгерим "), Occupation: ptr("агроном")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u models.User
	apptest.Decode(t, resp, &u)
	assert.Equal(t, "Айгерим", u.Name)
	assert.Equal(t, "агроном", u.Occupation)

	// Occupation is left alone when omitted.
	resp = apptest.Do(t, app, user, "PUT", "/api/profile", profile.UpdateRequest{Name: ptr("Aigerim")})
	apptest.Decode(t, resp, &u)
	assert.Equal(t, "Aigerim", u.Name)
	assert.Equal(t, "агроном", u.Occupation)
}

func TestUpdate_Validation(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	user := h.SignUp(t, "fern@example.com")

	tests := []struct {
		name string
		body profile.UpdateRequest
	}{
		{"empty", profile.UpdateRequest{}},
		{"long name", profile.UpdateRequest{Name: ptr(strings.Repeat("я", 101))}},
	}
	for _, tt := range tests {
		resp := apptest.Do(t, app, user, "PUT", "/api/profile", tt.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tt.name)
		resp.Body.Close()
	}
	assert.Equal(t, 0, h.Gateway.Calls("UpdateProfile"))
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	user := h.SignUp(t, "fern@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/profile/avatar", nil,
		apptest.File{Field: "avatar", Name: "me.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u models.User
	apptest.Decode(t, resp, &u)

	key := "avatars/" + user.Session.UserID.String() + ".jpg"
	assert.Equal(t, "https://files.test/"+key, u.AvatarURL)
	data, ok := h.Gateway.Upload(key)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestUploadAvatar_RejectsUnsupportedType(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	user := h.SignUp(t, "fern@example.com")

	resp := apptest.DoMultipart(t, app, user, "POST", "/api/profile/avatar", nil,
		apptest.File{Field: "avatar", Name: "me.bmp", ContentType: "image/bmp", Data: []byte("bmp")})
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, h.Gateway.Calls("UploadFile"))
}

func TestView_ShowsEquippedTitle(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	viewer := h.SignUp(t, "fern@example.com")
	owner := h.SignUp(t, "moss@example.com")
	title := h.Gateway.AddTitle(models.Title{Name: "Садовод"})
	require.NoError(t, h.Gateway.GrantTitle(t.Context(), owner.Session.UserID, title.ID))
	require.NoError(t, h.Gateway.EquipTitle(t.Context(), owner.Session.UserID, title.ID))
	h.Gateway.SetTier(owner.Session.UserID, models.TierPremium)

	resp := apptest.Do(t, app, viewer, "GET", "/api/profiles/"+owner.Session.UserID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card profile.ProfileCard
	apptest.Decode(t, resp, &card)
	assert.Equal(t, owner.Session.UserID, card.UserID)
	assert.Equal(t, "Садовод", card.EquippedTitle)
	assert.True(t, card.Premium)
	assert.Empty(t, card.Achievements)
}

func TestView_UnknownUser(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(profile.New())
	viewer := h.SignUp(t, "fern@example.com")

	resp := apptest.Do(t, app, viewer, "GET", "/api/profiles/1c7d6c4e-3b0a-4b8f-8f3e-5d2a1b9c0e7f", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
