package moderation_test

import (
	"net/http"
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/moderation"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/testing/apptest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(moderation.New())
	author := h.SignUp(t, "author@example.com")
	reporter := h.SignUp(t, "reporter@example.com")
	post := h.Gateway.AddPost(models.ForumPost{Title: "Пятна на листьях", Content: "...", UserID: author.Session.UserID})

	resp := apptest.Do(t, app, reporter, "POST", "/api/reports", moderation.CreateReportRequest{
		ContentType: models.ReportContentPost,
		ContentID:   post.ID,
		Reason:      "  spam  ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var report models.Report
	apptest.Decode(t, resp, &report)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, "spam", report.Reason)
	assert.Equal(t, reporter.Session.UserID, report.ReporterID)
}

func TestCreateReport_Validation(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(moderation.New())
	user := h.SignUp(t, "reporter@example.com")
	post := h.Gateway.AddPost(models.ForumPost{Title: "t", Content: "c", UserID: user.Session.UserID})

	cases := []struct {
		name string
		req  moderation.CreateReportRequest
		want int
	}{
		{"user reports are not supported", moderation.CreateReportRequest{ContentType: "user", ContentID: post.ID, Reason: "x"}, http.StatusBadRequest},
		{"blank reason", moderation.CreateReportRequest{ContentType: "post", ContentID: post.ID, Reason: "  "}, http.StatusBadRequest},
		{"unknown post", moderation.CreateReportRequest{ContentType: "post", ContentID: uuid.New(), Reason: "x"}, http.StatusNotFound},
		{"unknown comment", moderation.CreateReportRequest{ContentType: "comment", ContentID: uuid.New(), Reason: "x"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		resp := apptest.Do(t, app, user, "POST", "/api/reports", tc.req)
		assert.Equal(t, tc.want, resp.StatusCode, tc.name)
		resp.Body.Close()
	}
	assert.Equal(t, 0, h.Gateway.Calls("CreateReport"))
}

func TestListReports_AdminOnly(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(moderation.New())
	user := h.SignUp(t, "reporter@example.com")
	admin := h.SignUpAdmin(t, "root@example.com")
	post := h.Gateway.AddPost(models.ForumPost{Title: "t", Content: "c", UserID: user.Session.UserID})
	require.NoError(t, h.Gateway.CreateReport(t.Context(), &models.Report{
		ReporterID: user.Session.UserID, ContentType: "post", ContentID: post.ID, Reason: "spam",
	}))

	resp := apptest.Do(t, app, user, "GET", "/api/admin/reports", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, admin, "GET", "/api/admin/reports?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list moderation.ReportListResponse
	apptest.Decode(t, resp, &list)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Data, 1)

	resp = apptest.Do(t, app, admin, "GET", "/api/admin/reports?status=dismissed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	apptest.Decode(t, resp, &list)
	assert.EqualValues(t, 0, list.Total)
	assert.NotNil(t, list.Data)
}

func TestReview_ActionedRemovesContent(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(moderation.New())
	author := h.SignUp(t, "author@example.com")
	admin := h.SignUpAdmin(t, "root@example.com")
	post := h.Gateway.AddPost(models.ForumPost{Title: "t", Content: "c", UserID: author.Session.UserID})
	comment := h.Gateway.AddComment(models.ForumComment{Content: "buy now", UserID: author.Session.UserID, PostID: post.ID})
	report := &models.Report{ReporterID: admin.Session.UserID, ContentType: "comment", ContentID: comment.ID, Reason: "spam"}
	require.NoError(t, h.Gateway.CreateReport(t.Context(), report))

	resp := apptest.Do(t, app, admin, "PUT", "/api/admin/reports/"+report.ID.String(),
		moderation.ReviewRequest{Status: models.ReportActioned, AdminNote: "removed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	_, err := h.Gateway.CommentByID(t.Context(), comment.ID)
	assert.Error(t, err)
	_, err = h.Gateway.PostByID(t.Context(), post.ID)
	assert.NoError(t, err)

	stored, err := h.Gateway.ReportByID(t.Context(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportActioned, stored.Status)
	assert.Equal(t, "removed", stored.AdminNote)

	// Acting on a report whose content is already gone still succeeds.
	resp = apptest.Do(t, app, admin, "PUT", "/api/admin/reports/"+report.ID.String(),
		moderation.ReviewRequest{Status: models.ReportActioned})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestReview_Validation(t *testing.T) {
	t.Parallel()
	h := apptest.New(t)
	app := h.App(moderation.New())
	admin := h.SignUpAdmin(t, "root@example.com")

	resp := apptest.Do(t, app, admin, "PUT", "/api/admin/reports/"+uuid.NewString(),
		moderation.ReviewRequest{Status: "pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = apptest.Do(t, app, admin, "PUT", "/api/admin/reports/"+uuid.NewString(),
		moderation.ReviewRequest{Status: models.ReportDismissed})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
