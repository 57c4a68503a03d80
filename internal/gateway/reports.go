package gateway

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (g *Gateway) PostByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	var p models.ForumPost
	if err := g.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "forum post")
	}
	return &p, nil
}

func (g *Gateway) CreateReport(ctx context.Context, r *models.Report) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReportPending
	}
	return translate(g.conn(ctx).Create(r).Error, "report")
}

// Reports lists reports newest first. An empty status lists all of them.
func (g *Gateway) Reports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	byStatus := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", status)
		}
		return db
	}

	var total int64
	if err := g.conn(ctx).Model(&models.Report{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "reports")
	}
	var reports []models.Report
	err := g.conn(ctx).Scopes(byStatus).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, translate(err, "reports")
	}
	return reports, total, nil
}

func (g *Gateway) ReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var r models.Report
	if err := g.conn(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, translate(err, "report")
	}
	return &r, nil
}

func (g *Gateway) UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error {
	res := g.conn(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"admin_note": note,
	})
	if res.Error != nil {
		return translate(res.Error, "report")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: report", apperr.ErrNotFound)
	}
	return nil
}
