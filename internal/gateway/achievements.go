package gateway

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (g *Gateway) Achievements(ctx context.Context) ([]models.Achievement, error) {
	var list []models.Achievement
	if err := g.conn(ctx).Order("required_count ASC").Find(&list).Error; err != nil {
		return nil, translate(err, "achievements")
	}
	return list, nil
}

func (g *Gateway) Titles(ctx context.Context) ([]models.Title, error) {
	var list []models.Title
	if err := g.conn(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, translate(err, "titles")
	}
	return list, nil
}

func (g *Gateway) UserAchievements(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error) {
	var list []models.UserAchievement
	err := g.conn(ctx).Preload("Achievement").Scopes(ownedBy(userID)).Order("unlocked_at ASC").Find(&list).Error
	if err != nil {
		return nil, translate(err, "user achievements")
	}
	return list, nil
}

func (g *Gateway) UserTitles(ctx context.Context, userID uuid.UUID) ([]models.UserTitle, error) {
	var list []models.UserTitle
	err := g.conn(ctx).Preload("Title").Scopes(ownedBy(userID)).Order("unlocked_at ASC").Find(&list).Error
	if err != nil {
		return nil, translate(err, "user titles")
	}
	return list, nil
}

func (g *Gateway) RecordAction(ctx context.Context, userID uuid.UUID, actionType string, targetID *uuid.UUID) error {
	action := models.UserAction{ID: uuid.New(), UserID: userID, ActionType: actionType, TargetID: targetID}
	return translate(g.conn(ctx).Create(&action).Error, "user action")
}

func (g *Gateway) RecordDailyLogin(ctx context.Context, userID uuid.UUID) error {
	return translate(g.conn(ctx).Exec("SELECT record_daily_login(?)", userID).Error, "record_daily_login")
}

func (g *Gateway) GrantAchievements(ctx context.Context, userID uuid.UUID) error {
	return translate(g.conn(ctx).Exec("SELECT check_and_grant_achievements(?)", userID).Error, "check_and_grant_achievements")
}

func (g *Gateway) GrantTitles(ctx context.Context, userID uuid.UUID) error {
	return translate(g.conn(ctx).Exec("SELECT check_and_grant_titles(?)", userID).Error, "check_and_grant_titles")
}

// GrantTitle awards a title directly. Granting a held title is a no-op.
func (g *Gateway) GrantTitle(ctx context.Context, userID, titleID uuid.UUID) error {
	var n int64
	if err := g.conn(ctx).Model(&models.Title{}).Where("id = ?", titleID).Count(&n).Error; err != nil {
		return translate(err, "title")
	}
	if n == 0 {
		return fmt.Errorf("%w: title", apperr.ErrNotFound)
	}
	ut := models.UserTitle{ID: uuid.New(), UserID: userID, TitleID: titleID}
	err := g.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "title_id"}},
		DoNothing: true,
	}).Omit("Title").Create(&ut).Error
	return translate(err, "user title")
}

func (g *Gateway) UnequipTitles(ctx context.Context, userID uuid.UUID) error {
	err := g.conn(ctx).Model(&models.UserTitle{}).Scopes(ownedBy(userID)).
		Where("equipped = ?", true).
		Update("equipped", false).Error
	return translate(err, "user titles")
}

func (g *Gateway) EquipTitle(ctx context.Context, userID, titleID uuid.UUID) error {
	res := g.conn(ctx).Model(&models.UserTitle{}).Scopes(ownedBy(userID)).
		Where("title_id = ?", titleID).
		Update("equipped", true)
	if res.Error != nil {
		return translate(res.Error, "user title")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: title is not unlocked", apperr.ErrNotFound)
	}
	return nil
}
