package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

const maxReasonLen = 500

var (
	ErrInvalidContentType = fmt.Errorf("%w: content_type must be post or comment", apperr.ErrValidation)
	ErrReasonRequired     = fmt.Errorf("%w: reason is required", apperr.ErrValidation)
	ErrReasonTooLong      = fmt.Errorf("%w: reason must be at most 500 characters", apperr.ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: status must be reviewed, actioned or dismissed", apperr.ErrValidation)
	ErrReportNotFound     = fmt.Errorf("%w: report not found", apperr.ErrNotFound)
	ErrContentNotFound    = fmt.Errorf("%w: reported content not found", apperr.ErrNotFound)
)

type Store interface {
	PostByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error)
	CommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error)
	DeletePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool) error
	DeleteComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool) error
	CreateReport(ctx context.Context, r *models.Report) error
	Reports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error)
	ReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error
}

type ReportService struct {
	store Store
}

func NewReportService(store Store) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) Create(ctx context.Context, reporterID uuid.UUID, req CreateReportRequest) (*models.Report, error) {
	if req.ContentType != models.ReportContentPost && req.ContentType != models.ReportContentComment {
		return nil, ErrInvalidContentType
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return nil, ErrReasonTooLong
	}
	if err := s.contentExists(ctx, req.ContentType, req.ContentID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      reason,
		Status:      models.ReportPending,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func (s *ReportService) contentExists(ctx context.Context, contentType string, id uuid.UUID) error {
	var err error
	if contentType == models.ReportContentPost {
		_, err = s.store.PostByID(ctx, id)
	} else {
		_, err = s.store.CommentByID(ctx, id)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrContentNotFound
	}
	return err
}

func (s *ReportService) List(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Reports(ctx, status, limit, offset)
}

// Review records the admin's decision. An actioned report removes the
// reported content; content that is already gone is not an error.
func (s *ReportService) Review(ctx context.Context, adminID, reportID uuid.UUID, req ReviewRequest) (*models.Report, error) {
	switch req.Status {
	case models.ReportReviewed, models.ReportActioned, models.ReportDismissed:
	default:
		return nil, ErrInvalidStatus
	}

	report, err := s.store.ReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if req.Status == models.ReportActioned {
		if err := s.removeContent(ctx, adminID, report); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("failed to remove reported content: %w", err)
		}
	}

	if err := s.store.UpdateReport(ctx, reportID, req.Status, req.AdminNote); err != nil {
		return nil, err
	}
	slog.Info("report reviewed",
		"action", "report_review",
		"user_id", adminID,
		"report_id", reportID,
		"status", req.Status,
	)

	report.Status = req.Status
	report.AdminNote = req.AdminNote
	return report, nil
}

func (s *ReportService) removeContent(ctx context.Context, adminID uuid.UUID, r *models.Report) error {
	if r.ContentType == models.ReportContentPost {
		return s.store.DeletePost(ctx, r.ContentID, adminID, true)
	}
	return s.store.DeleteComment(ctx, r.ContentID, adminID, true)
}
