package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/chatlog"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/gemini"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/google/uuid"
)

// historyTurns is how much earlier conversation is replayed to the model.
const historyTurns = 20

var ErrEmptyMessage = fmt.Errorf("%w: message is required", apperr.ErrValidation)

type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

type Profiles interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Forecaster interface {
	Current(ctx context.Context, q weather.Query) (*weather.Report, error)
	Forecast(ctx context.Context, q weather.Query) (*weather.Report, error)
}

type ChatService struct {
	ai       Generator
	profiles Profiles
	weather  Forecaster
	log      chatlog.Store
}

// NewChatService wires the assistant. forecaster and log may be nil; the
// assistant then runs without weather context or without a transcript.
func NewChatService(ai Generator, profiles Profiles, forecaster Forecaster, log chatlog.Store) *ChatService {
	return &ChatService{ai: ai, profiles: profiles, weather: forecaster, log: log}
}

func (s *ChatService) Send(ctx context.Context, ws *workspace.Workspace, req SendRequest) (*SendResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	ok, err := ws.Entitlement.CheckAndIncrement(ctx, entitlement.Chat)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: daily chat message limit reached", apperr.ErrQuotaExceeded)
	}
	premium := ws.Entitlement.Snapshot().Premium()

	occupation := ""
	if user, err := s.profiles.UserByID(ctx, ws.UserID); err == nil {
		occupation = user.Occupation
	} else {
		slog.Warn("chat profile lookup failed", "user_id", ws.UserID, "error", err)
	}

	weatherCtx := weatherContext(s.lookupWeather(ctx, ws.UserID, req, premium), premium)

	history := s.history(ctx, ws.UserID)
	reply, err := s.ai.Generate(ctx, gemini.Request{
		System:  systemPrompt(occupation, weatherCtx, premium),
		History: history,
		Prompt:  message,
		Config:  &gemini.ChatConfig,
	})
	if err != nil {
		return nil, err
	}

	if s.log != nil {
		err := s.log.Append(ctx, ws.UserID,
			chatlog.Message{Role: chatlog.RoleUser, Content: message},
			chatlog.Message{Role: chatlog.RoleModel, Content: reply},
		)
		if err != nil {
			slog.Error("failed to persist chat transcript", "user_id", ws.UserID, "error", err)
		}
	}

	if err := ws.Achievements.Record(ctx, models.ActionChatbotMessageSent, nil); err != nil {
		slog.Error("failed to record chat message", "user_id", ws.UserID, "error", err)
	}

	return &SendResponse{
		Reply:     reply,
		Remaining: ws.Entitlement.Snapshot().Remaining(entitlement.Chat),
		Weather:   weatherCtx,
	}, nil
}

// lookupWeather returns nil when no location was given or the lookup
// failed. Weather is context, never a reason to fail the message.
func (s *ChatService) lookupWeather(ctx context.Context, userID uuid.UUID, req SendRequest, premium bool) *weather.Report {
	if s.weather == nil {
		return nil
	}
	q := weather.Query{Lat: req.Lat, Lon: req.Lon, Place: req.Place}
	if q.String() == "" {
		return nil
	}

	var (
		report *weather.Report
		err    error
	)
	if premium {
		report, err = s.weather.Forecast(ctx, q)
	} else {
		report, err = s.weather.Current(ctx, q)
	}
	if err != nil {
		slog.Warn("chat weather lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return report
}

func (s *ChatService) history(ctx context.Context, userID uuid.UUID) []gemini.Turn {
	if s.log == nil {
		return nil
	}
	msgs, err := s.log.History(ctx, userID, historyTurns)
	if err != nil {
		slog.Warn("chat history unavailable", "user_id", userID, "error", err)
		return nil
	}
	turns := make([]gemini.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, gemini.Turn{Role: m.Role, Text: m.Content})
	}
	return turns
}

func (s *ChatService) History(ctx context.Context, userID uuid.UUID) ([]chatlog.Message, error) {
	if s.log == nil {
		return []chatlog.Message{}, nil
	}
	return s.log.History(ctx, userID, chatlog.DefaultLimit)
}

func (s *ChatService) Clear(ctx context.Context, userID uuid.UUID) error {
	if s.log == nil {
		return nil
	}
	return s.log.Clear(ctx, userID)
}
