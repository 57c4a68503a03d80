package gateway

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

func (g *Gateway) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}
	if err := g.conn(ctx).Create(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (g *Gateway) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (g *Gateway) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := g.conn(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// UpdateProfile changes the non-nil fields and returns the updated row.
func (g *Gateway) UpdateProfile(ctx context.Context, userID uuid.UUID, name, occupation *string, avatarURL *string) (*models.User, error) {
	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if occupation != nil {
		updates["occupation"] = *occupation
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) > 0 {
		res := g.conn(ctx).Model(&models.User{}).Where("user_id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error, "user")
		}
	}
	return g.UserByID(ctx, userID)
}

func (g *Gateway) OpenSession(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (uuid.UUID, error) {
	s := models.AuthSession{ID: uuid.New(), UserID: userID, ExpiresAt: expiresAt}
	if err := g.conn(ctx).Create(&s).Error; err != nil {
		return uuid.Nil, translate(err, "session")
	}
	return s.ID, nil
}

// RevokeSession reports whether a live session was revoked.
func (g *Gateway) RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	res := g.conn(ctx).Model(&models.AuthSession{}).
		Where("id = ? AND revoked = ?", sessionID, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, translate(res.Error, "session")
	}
	return res.RowsAffected > 0, nil
}

func (g *Gateway) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var n int64
	err := g.conn(ctx).Model(&models.AuthSession{}).
		Where("id = ? AND revoked = ? AND expires_at > ?", sessionID, false, time.Now()).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "session")
	}
	return n > 0, nil
}
