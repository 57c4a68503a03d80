package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/advice"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/gemini"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/google/uuid"
)

type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

type Profiles interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

const identifyPrompt = `ТЫ — ЭКСПЕРТ-БОТАНИК. Идентифицируй растение на фото. %s %s НЕ ИСПОЛЬЗУЙ markdown. Ответ должен быть в четком формате:
Название: [название]
Сорт: [сорт/разновидность, если применимо]
Происхождение: [регион происхождения]`

const diagnosePrompt = `ТЫ — ЭКСПЕРТ-АГРОНОМ. Проанализируй фото и поставь диагноз. %s %s %s НЕ ИСПОЛЬЗУЙ markdown. Ответ строго по пунктам:
1. Диагноз: [краткое название болезни/проблемы]
2. Симптомы: [перечисление видимых признаков]
3. Причины: [возможные причины]
4. Лечение: [конкретные шаги с указанием временных интервалов, например "через 5-7 дней"]
5. Профилактика: [меры по предотвращению]`

func languageInstruction(lang Language) string {
	return fmt.Sprintf("Твой ответ должен быть СТРОГО на языке: %s.", lang.name())
}

func occupationInstruction(occupation string) string {
	if occupation == "" {
		return ""
	}
	return fmt.Sprintf("Пользователь является специалистом: %s. Учитывай это в терминологии.", occupation)
}

func buildPrompt(kind Kind, lang Language, plantName, occupation string) string {
	if kind == KindIdentify {
		return fmt.Sprintf(identifyPrompt, languageInstruction(lang), occupationInstruction(occupation))
	}
	plant := ""
	if plantName != "" {
		plant = fmt.Sprintf("Диагностика для растения: %s.", plantName)
	}
	return fmt.Sprintf(diagnosePrompt, languageInstruction(lang), plant, occupationInstruction(occupation))
}

type ScanService struct {
	ai       Generator
	profiles Profiles
}

func NewScanService(ai Generator, profiles Profiles) *ScanService {
	return &ScanService{ai: ai, profiles: profiles}
}

// Scan runs one metered identify or diagnose request. The image is
// validated before the quota is touched or anything is sent.
func (s *ScanService) Scan(ctx context.Context, ws *workspace.Workspace, kind Kind, img media.Image, plantName string, lang Language) (*ScanResult, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	ok, err := ws.Entitlement.CheckAndIncrement(ctx, entitlement.Scan)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: daily scan limit reached", apperr.ErrQuotaExceeded)
	}

	occupation := ""
	if user, err := s.profiles.UserByID(ctx, ws.UserID); err == nil {
		occupation = user.Occupation
	} else {
		slog.Warn("scanner profile lookup failed", "user_id", ws.UserID, "error", err)
	}

	text, err := s.ai.Generate(ctx, gemini.Request{
		Prompt: buildPrompt(kind, lang, plantName, occupation),
		Image:  &img,
	})
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Kind: kind, Raw: text, Remaining: ws.Entitlement.Snapshot().Remaining(entitlement.Scan)}
	if kind == KindIdentify {
		id := advice.ParseIdentification(text)
		result.Identification = &id
	} else {
		result.Diagnosis = advice.ParseDiagnosis(text)
	}

	if err := ws.Achievements.Record(ctx, models.ActionPlantScanned, nil); err != nil {
		slog.Error("failed to record scan", "user_id", ws.UserID, "error", err)
	}
	return result, nil
}
