package profile

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

const (
	avatarFolder     = "avatars"
	maxNameLength    = 100
	maxOccupationLen = 100
)

var (
	ErrNameTooLong       = fmt.Errorf("%w: name must be at most %d characters", apperr.ErrValidation, maxNameLength)
	ErrOccupationTooLong = fmt.Errorf("%w: occupation must be at most %d characters", apperr.ErrValidation, maxOccupationLen)
	ErrNothingToUpdate   = fmt.Errorf("%w: nothing to update", apperr.ErrValidation)
)

type Store interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, occupation *string, avatarURL *string) (*models.User, error)
	UploadFile(ctx context.Context, folder, name string, data []byte) (string, error)
}

// Unlocks reads another user's achievements and titles.
type Unlocks interface {
	AchievementsOf(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error)
	TitlesOf(ctx context.Context, userID uuid.UUID) ([]models.UserTitle, error)
}

type ProfileService struct {
	store Store
}

func NewProfileService(store Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.store.UserByID(ctx, userID)
}

func trimmed(v *string, limit int, tooLong error) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if utf8.RuneCountInString(t) > limit {
		return nil, tooLong
	}
	return &t, nil
}

// Update changes name and occupation. A nil field is left as it is.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*models.User, error) {
	if req.Name == nil && req.Occupation == nil {
		return nil, ErrNothingToUpdate
	}
	name, err := trimmed(req.Name, maxNameLength, ErrNameTooLong)
	if err != nil {
		return nil, err
	}
	occupation, err := trimmed(req.Occupation, maxOccupationLen, ErrOccupationTooLong)
	if err != nil {
		return nil, err
	}

	u, err := s.store.UpdateProfile(ctx, userID, name, occupation, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// UploadAvatar stores img under the user's id, replacing any earlier avatar,
// and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, img media.Image) (*models.User, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s.%s", userID, media.Extension(img.MimeType))
	url, err := s.store.UploadFile(ctx, avatarFolder, name, img.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	u, err := s.store.UpdateProfile(ctx, userID, nil, nil, &url)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// View builds the public card of another user.
func (s *ProfileService) View(ctx context.Context, unlocks Unlocks, userID uuid.UUID) (*ProfileCard, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := unlocks.AchievementsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	titles, err := unlocks.TitlesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}

	card := &ProfileCard{
		UserID:       u.ID,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		Occupation:   u.Occupation,
		Premium:      u.SubscriptionTierID == models.TierPremium,
		Achievements: achievements,
	}
	for _, t := range titles {
		if t.Equipped {
			card.EquippedTitle = t.Title.Name
			break
		}
	}
	if card.Achievements == nil {
		card.Achievements = []models.UserAchievement{}
	}
	return card, nil
}
