package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var usageColumns = map[string]bool{
	"scans_count":            true,
	"chatbot_messages_count": true,
}

func (g *Gateway) UserTier(ctx context.Context, userID uuid.UUID) (int, error) {
	var user models.User
	err := g.conn(ctx).Select("subscription_tier_id").Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return 0, translate(err, "user")
	}
	return user.SubscriptionTierID, nil
}

// UsageFor returns nil without error when the day has no row yet.
func (g *Gateway) UsageFor(ctx context.Context, userID uuid.UUID, date string) (*models.UsageLimit, error) {
	var row models.UsageLimit
	err := g.conn(ctx).Scopes(ownedBy(userID)).Where("date = ?", date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "usage")
	}
	return &row, nil
}

// IncrementUsage calls increment_usage_limit, which upserts the day's row.
func (g *Gateway) IncrementUsage(ctx context.Context, userID uuid.UUID, date, column string) error {
	if !usageColumns[column] {
		return fmt.Errorf("%w: unknown usage column %q", apperr.ErrValidation, column)
	}
	err := g.conn(ctx).Exec("SELECT increment_usage_limit(?, ?::date, ?)", userID, date, column).Error
	return translate(err, "increment_usage_limit")
}
