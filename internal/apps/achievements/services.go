package achievements

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/achievement"
	"github.com/google/uuid"
)

var (
	ErrTitleNotFound   = fmt.Errorf("%w: title", apperr.ErrNotFound)
	ErrTitleNotGranted = fmt.Errorf("%w: only admin-granted titles can be granted manually", apperr.ErrValidation)
)

type TitleStore interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Titles(ctx context.Context) ([]models.Title, error)
	GrantTitle(ctx context.Context, userID, titleID uuid.UUID) error
}

// GrantService hands out the titles that never unlock on their own.
type GrantService struct {
	store TitleStore
}

func NewGrantService(store TitleStore) *GrantService {
	return &GrantService{store: store}
}

func (s *GrantService) Grantable(ctx context.Context) ([]models.Title, error) {
	titles, err := s.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	out := make([]models.Title, 0, len(achievement.AdminOnlyTitles))
	for _, t := range titles {
		if achievement.IsAdminOnly(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *GrantService) Grant(ctx context.Context, userID, titleID uuid.UUID) (*models.Title, error) {
	titles, err := s.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	var title *models.Title
	for i := range titles {
		if titles[i].ID == titleID {
			title = &titles[i]
			break
		}
	}
	if title == nil {
		return nil, ErrTitleNotFound
	}
	if !achievement.IsAdminOnly(*title) {
		return nil, ErrTitleNotGranted
	}
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.GrantTitle(ctx, userID, titleID); err != nil {
		return nil, fmt.Errorf("failed to grant title: %w", err)
	}
	slog.Info("title granted", "user_id", userID, "title", title.Name, "component", "achievements")
	return title, nil
}
