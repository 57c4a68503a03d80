package subscription_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/subscription"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/apptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_FreeTierUsage(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(subscription.New())
	user := h.SignUp(t, "fern@example.com")
	today := time.Now().UTC().Format("2006-01-02")
	for range 2 {
		require.NoError(t, h.Gateway.IncrementUsage(t.Context(), user.Session.UserID, today, "scans_count"))
	}

	resp := apptest.Do(t, app, user, "GET", "/api/subscription", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status subscription.StatusResponse
	apptest.Decode(t, resp, &status)
	assert.Equal(t, entitlement.TierFree, status.Tier)
	assert.False(t, status.Premium)
	assert.Equal(t, subscription.Usage{Used: 2, Quota: entitlement.ScanQuota, Remaining: entitlement.ScanQuota - 2}, status.Scans)
	assert.Equal(t, subscription.Usage{Used: 0, Quota: entitlement.ChatQuota, Remaining: entitlement.ChatQuota}, status.Chat)
}

func TestRefresh_PicksUpUpgrade(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(subscription.New())
	user := h.SignUp(t, "fern@example.com")

	resp := apptest.Do(t, app, user, "GET", "/api/subscription", nil)
	var before subscription.StatusResponse
	apptest.Decode(t, resp, &before)
	require.False(t, before.Premium)

	h.Gateway.SetTier(user.Session.UserID, models.TierPremium)

	resp = apptest.Do(t, app, user, "POST", "/api/subscription/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after subscription.StatusResponse
	apptest.Decode(t, resp, &after)
	assert.True(t, after.Premium)
	assert.Equal(t, -1, after.Scans.Remaining)
	assert.Equal(t, -1, after.Chat.Quota)
}

func TestCheckout_NotAvailable(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(subscription.New())
	user := h.SignUp(t, "fern@example.com")

	resp := apptest.Do(t, app, user, "POST", "/api/subscription/checkout", nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	resp.Body.Close()
}
