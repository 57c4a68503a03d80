package gateway

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

func (g *Gateway) ListReminders(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error) {
	var rows []models.Reminder
	err := g.conn(ctx).Scopes(ownedBy(userID)).Order("scheduled_for ASC").Find(&rows).Error
	if err != nil {
		return nil, translate(err, "reminders")
	}
	return rows, nil
}

func (g *Gateway) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return translate(g.conn(ctx).Create(r).Error, "reminder")
}

func (g *Gateway) CompleteReminder(ctx context.Context, userID, id uuid.UUID) error {
	res := g.conn(ctx).Model(&models.Reminder{}).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		Update("completed", true)
	return g.affected(ctx, res, &models.Reminder{}, id, "reminder")
}
