// Package achievement keeps a user's unlocked achievements and titles in
// sync with the gateway's grant procedures.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AdminOnlyTitles are granted by administrators and never unlock on their own.
var AdminOnlyTitles = []string{"Толстый Алхимик", "Токаев"}

var ErrTitleNotOwned = fmt.Errorf("%w: title is not unlocked", apperr.ErrForbidden)

type Store interface {
	Achievements(ctx context.Context) ([]models.Achievement, error)
	Titles(ctx context.Context) ([]models.Title, error)
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error)
	UserTitles(ctx context.Context, userID uuid.UUID) ([]models.UserTitle, error)
	RecordAction(ctx context.Context, userID uuid.UUID, actionType string, targetID *uuid.UUID) error
	RecordDailyLogin(ctx context.Context, userID uuid.UUID) error
	GrantAchievements(ctx context.Context, userID uuid.UUID) error
	GrantTitles(ctx context.Context, userID uuid.UUID) error
	UnequipTitles(ctx context.Context, userID uuid.UUID) error
	EquipTitle(ctx context.Context, userID, titleID uuid.UUID) error
}

type Sessions interface {
	Await(ctx context.Context) (*session.Session, error)
}

type Snapshot struct {
	Achievements []models.UserAchievement `json:"achievements"`
	Titles       []models.UserTitle       `json:"titles"`
	Loaded       bool                     `json:"-"`
}

// Equipped returns the equipped title, if any.
func (s Snapshot) Equipped() *models.UserTitle {
	for i := range s.Titles {
		if s.Titles[i].Equipped {
			return &s.Titles[i]
		}
	}
	return nil
}

func (s Snapshot) HasAchievement(id uuid.UUID) bool {
	return slices.ContainsFunc(s.Achievements, func(ua models.UserAchievement) bool { return ua.AchievementID == id })
}

func (s Snapshot) HasTitle(id uuid.UUID) bool {
	return slices.ContainsFunc(s.Titles, func(ut models.UserTitle) bool { return ut.TitleID == id })
}

// Catalog is the static list of achievements and titles.
type Catalog struct {
	Achievements []models.Achievement `json:"achievements"`
	Titles       []models.Title       `json:"titles"`
}

type State struct {
	store    Store
	sessions Sessions

	snap *state.Observable[Snapshot]
	seq  state.Sequence

	catalogMu sync.Mutex
	catalog   *Catalog

	// equipMu keeps the unequip-all then equip pair from interleaving.
	equipMu sync.Mutex
}

func New(store Store, sessions Sessions) *State {
	return &State{
		store:    store,
		sessions: sessions,
		snap:     state.NewObservable(Snapshot{}),
	}
}

func (s *State) Snapshot() Snapshot {
	return s.snap.Get()
}

func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.snap.Subscribe(fn)
}

// Refresh reloads the user's unlocks.
func (s *State) Refresh(ctx context.Context) error {
	sess, err := s.sessions.Await(ctx)
	if errors.Is(err, apperr.ErrUnauthenticated) {
		s.snap.Set(Snapshot{})
		return nil
	}
	if err != nil {
		return err
	}

	token := s.seq.Next()
	var next Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.store.UserAchievements(gctx, sess.UserID)
		next.Achievements = list
		return err
	})
	g.Go(func() error {
		list, err := s.store.UserTitles(gctx, sess.UserID)
		next.Titles = list
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}

	if s.seq.IsLatest(token) {
		next.Loaded = true
		s.snap.Set(next)
	}
	return nil
}

// CheckAndGrant asks the gateway to grant whatever the user has earned,
// then titles that depend on those grants, then reloads. Safe to call when
// nothing new is earned.
func (s *State) CheckAndGrant(ctx context.Context) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if err := s.store.GrantAchievements(ctx, sess.UserID); err != nil {
		return fmt.Errorf("check_and_grant_achievements: %w", err)
	}
	if err := s.store.GrantTitles(ctx, sess.UserID); err != nil {
		return fmt.Errorf("check_and_grant_titles: %w", err)
	}
	return s.Refresh(ctx)
}

// Record stores a qualifying action and reconciles grants.
func (s *State) Record(ctx context.Context, actionType string, targetID *uuid.UUID) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if err := s.store.RecordAction(ctx, sess.UserID, actionType, targetID); err != nil {
		return fmt.Errorf("failed to record %s: %w", actionType, err)
	}
	return s.CheckAndGrant(ctx)
}

func (s *State) RecordDailyLogin(ctx context.Context) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if err := s.store.RecordDailyLogin(ctx, sess.UserID); err != nil {
		return fmt.Errorf("record_daily_login: %w", err)
	}
	return s.CheckAndGrant(ctx)
}

// Equip clears the equipped title and equips titleID. Concurrent calls are
// applied one after another, so the last caller's title ends up equipped.
func (s *State) Equip(ctx context.Context, titleID uuid.UUID) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if !s.snap.Get().HasTitle(titleID) {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if !s.snap.Get().HasTitle(titleID) {
			return ErrTitleNotOwned
		}
	}

	s.equipMu.Lock()
	err = s.store.UnequipTitles(ctx, sess.UserID)
	if err == nil {
		err = s.store.EquipTitle(ctx, sess.UserID, titleID)
	}
	s.equipMu.Unlock()

	if rerr := s.Refresh(ctx); err == nil {
		err = rerr
	}
	return err
}

func (s *State) Unequip(ctx context.Context) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}

	s.equipMu.Lock()
	err = s.store.UnequipTitles(ctx, sess.UserID)
	s.equipMu.Unlock()
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Catalog loads the static catalog once per workspace.
func (s *State) Catalog(ctx context.Context) (*Catalog, error) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}

	achievements, err := s.store.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements catalog: %w", err)
	}
	titles, err := s.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles catalog: %w", err)
	}
	s.catalog = &Catalog{Achievements: achievements, Titles: titles}
	return s.catalog, nil
}

// AchievementsOf and TitlesOf read another user's unlocks for profile cards.
func (s *State) AchievementsOf(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error) {
	return s.store.UserAchievements(ctx, userID)
}

func (s *State) TitlesOf(ctx context.Context, userID uuid.UUID) ([]models.UserTitle, error) {
	return s.store.UserTitles(ctx, userID)
}

func IsAdminOnly(t models.Title) bool {
	return slices.Contains(AdminOnlyTitles, t.Name)
}
