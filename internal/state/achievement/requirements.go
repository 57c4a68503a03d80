package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
)

type AchievementRequirement struct {
	Achievement models.Achievement `json:"achievement"`
	Requirement string             `json:"requirement"`
	Unlocked    bool               `json:"unlocked"`
	UnlockedAt  *time.Time         `json:"unlocked_at,omitempty"`
}

type TitleRequirement struct {
	Title       models.Title `json:"title"`
	Requirement string       `json:"requirement,omitempty"`
	Unlocked    bool         `json:"unlocked"`
	Equipped    bool         `json:"equipped"`
}

type Requirements struct {
	Achievements []AchievementRequirement `json:"achievements"`
	Titles       []TitleRequirement       `json:"titles"`
}

// Requirements lists the catalog against the user's unlocks. Admin-only
// titles carry no requirement and are listed only when already held.
func (s *State) Requirements(ctx context.Context) (*Requirements, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	snap := s.snap.Get()

	byID := make(map[string]models.Achievement, len(catalog.Achievements))
	out := &Requirements{}
	for _, a := range catalog.Achievements {
		byID[a.ID.String()] = a
		req := AchievementRequirement{Achievement: a, Requirement: Describe(a.RequiredAction, a.RequiredCount)}
		for _, ua := range snap.Achievements {
			if ua.AchievementID == a.ID {
				at := ua.UnlockedAt
				req.Unlocked, req.UnlockedAt = true, &at
			}
		}
		out.Achievements = append(out.Achievements, req)
	}

	for _, t := range catalog.Titles {
		req := TitleRequirement{Title: t}
		for _, ut := range snap.Titles {
			if ut.TitleID == t.ID {
				req.Unlocked, req.Equipped = true, ut.Equipped
			}
		}
		if IsAdminOnly(t) {
			if req.Unlocked {
				out.Titles = append(out.Titles, req)
			}
			continue
		}
		if t.RequiredAchievementID != nil {
			if a, ok := byID[t.RequiredAchievementID.String()]; ok {
				req.Requirement = fmt.Sprintf("Получите достижение «%s»", a.Name)
			}
		}
		out.Titles = append(out.Titles, req)
	}
	return out, nil
}

// Describe renders a catalog requirement in Russian.
func Describe(action string, count int) string {
	switch action {
	case "create_post":
		return fmt.Sprintf("Создайте %d %s", count, plural(count, "пост", "поста", "постов"))
	case "create_comment":
		return fmt.Sprintf("Оставьте %d %s", count, plural(count, "комментарий", "комментария", "комментариев"))
	case "receive_post_like":
		return fmt.Sprintf("Получите %d %s на постах", count, plural(count, "лайк", "лайка", "лайков"))
	case "receive_comment_like":
		return fmt.Sprintf("Получите %d %s на комментариях", count, plural(count, "лайк", "лайка", "лайков"))
	case "give_like":
		return fmt.Sprintf("Поставьте %d %s", count, plural(count, "лайк", "лайка", "лайков"))
	case "scan_plant":
		return fmt.Sprintf("Проведите %d %s растений", count, plural(count, "сканирование", "сканирования", "сканирований"))
	case "chatbot_message":
		return fmt.Sprintf("Отправьте %d %s чат-боту", count, plural(count, "сообщение", "сообщения", "сообщений"))
	case "daily_login":
		return fmt.Sprintf("Войдите в систему %d %s подряд", count, plural(count, "день", "дня", "дней"))
	}
	return fmt.Sprintf("Выполните действие «%s» %d раз", action, count)
}

// plural picks the Russian noun form for n.
func plural(n int, one, few, many string) string {
	n100 := n % 100
	n10 := n % 10
	switch {
	case n100 >= 11 && n100 <= 14:
		return many
	case n10 == 1:
		return one
	case n10 >= 2 && n10 <= 4:
		return few
	}
	return many
}
