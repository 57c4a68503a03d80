package fakegateway

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

// actionsFor maps catalog requirement kinds to recorded action types.
var actionsFor = map[string][]string{
	"create_post":     {models.ActionPostCreated},
	"create_comment":  {models.ActionCommentCreated},
	"give_like":       {models.ActionPostLiked, models.ActionCommentLiked},
	"scan_plant":      {models.ActionPlantScanned},
	"chatbot_message": {models.ActionChatbotMessageSent},
}

func (g *Gateway) Achievements(ctx context.Context) ([]models.Achievement, error) {
	if err := g.enter("Achievements"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Achievement(nil), g.achievements...), nil
}

func (g *Gateway) Titles(ctx context.Context) ([]models.Title, error) {
	if err := g.enter("Titles"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Title(nil), g.titles...), nil
}

func (g *Gateway) UserAchievements(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error) {
	if err := g.enter("UserAchievements"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.UserAchievement(nil), g.userAchv[userID]...), nil
}

func (g *Gateway) UserTitles(ctx context.Context, userID uuid.UUID) ([]models.UserTitle, error) {
	if err := g.enter("UserTitles"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.UserTitle(nil), g.userTitles[userID]...), nil
}

func (g *Gateway) RecordAction(ctx context.Context, userID uuid.UUID, actionType string, targetID *uuid.UUID) error {
	if err := g.enter("RecordAction"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.actions = append(g.actions, models.UserAction{
		ID: uuid.New(), UserID: userID, ActionType: actionType, TargetID: targetID, CreatedAt: g.Now(),
	})
	return nil
}

func (g *Gateway) RecordDailyLogin(ctx context.Context, userID uuid.UUID) error {
	if err := g.enter("RecordDailyLogin"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.logins[userID] == nil {
		g.logins[userID] = make(map[string]struct{})
	}
	g.logins[userID][g.Now().UTC().Format("2006-01-02")] = struct{}{}
	return nil
}

func (g *Gateway) progress(userID uuid.UUID, requiredAction string) int {
	if requiredAction == "daily_login" {
		return len(g.logins[userID])
	}
	kinds := actionsFor[requiredAction]
	n := 0
	for _, a := range g.actions {
		if a.UserID != userID {
			continue
		}
		for _, k := range kinds {
			if a.ActionType == k {
				n++
			}
		}
	}
	return n
}

func (g *Gateway) holdsAchievement(userID, achievementID uuid.UUID) bool {
	for _, ua := range g.userAchv[userID] {
		if ua.AchievementID == achievementID {
			return true
		}
	}
	return false
}

func (g *Gateway) holdsTitle(userID, titleID uuid.UUID) bool {
	for _, ut := range g.userTitles[userID] {
		if ut.TitleID == titleID {
			return true
		}
	}
	return false
}

func (g *Gateway) GrantAchievements(ctx context.Context, userID uuid.UUID) error {
	if err := g.enter("GrantAchievements"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, a := range g.achievements {
		if g.holdsAchievement(userID, a.ID) {
			continue
		}
		if p := g.progress(userID, a.RequiredAction); p >= a.RequiredCount {
			g.userAchv[userID] = append(g.userAchv[userID], models.UserAchievement{
				ID: uuid.New(), UserID: userID, AchievementID: a.ID, UnlockedAt: g.Now(), Progress: p, Achievement: a,
			})
		}
	}
	return nil
}

func (g *Gateway) GrantTitles(ctx context.Context, userID uuid.UUID) error {
	if err := g.enter("GrantTitles"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.titles {
		if t.RequiredAchievementID == nil || g.holdsTitle(userID, t.ID) {
			continue
		}
		if g.holdsAchievement(userID, *t.RequiredAchievementID) {
			g.userTitles[userID] = append(g.userTitles[userID], models.UserTitle{
				ID: uuid.New(), UserID: userID, TitleID: t.ID, UnlockedAt: g.Now(), Title: t,
			})
		}
	}
	return nil
}

func (g *Gateway) GrantTitle(ctx context.Context, userID, titleID uuid.UUID) error {
	if err := g.enter("GrantTitle"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holdsTitle(userID, titleID) {
		return nil
	}
	for _, t := range g.titles {
		if t.ID == titleID {
			g.userTitles[userID] = append(g.userTitles[userID], models.UserTitle{
				ID: uuid.New(), UserID: userID, TitleID: t.ID, UnlockedAt: g.Now(), Title: t,
			})
			return nil
		}
	}
	return notFound("title")
}

func (g *Gateway) UnequipTitles(ctx context.Context, userID uuid.UUID) error {
	if err := g.enter("UnequipTitles"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.userTitles[userID] {
		g.userTitles[userID][i].Equipped = false
	}
	return nil
}

func (g *Gateway) EquipTitle(ctx context.Context, userID, titleID uuid.UUID) error {
	if err := g.enter("EquipTitle"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.userTitles[userID] {
		if g.userTitles[userID][i].TitleID == titleID {
			g.userTitles[userID][i].Equipped = true
			return nil
		}
	}
	return notFound("title")
}
