// Package entitlement tracks a user's subscription tier and today's metered
// usage, and is the single gate in front of every metered operation.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/google/uuid"
)

type Action string

const (
	Scan Action = "scan"
	Chat Action = "chat"
)

// Free-tier daily quotas.
const (
	ScanQuota = 7
	ChatQuota = 10
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

const dateLayout = "2006-01-02"

var ErrUnknownAction = fmt.Errorf("%w: unknown metered action", apperr.ErrValidation)

// Store is the slice of the remote data gateway this service needs.
// UsageFor returns nil without error when the day has no usage row.
type Store interface {
	UserTier(ctx context.Context, userID uuid.UUID) (int, error)
	UsageFor(ctx context.Context, userID uuid.UUID, date string) (*models.UsageLimit, error)
	IncrementUsage(ctx context.Context, userID uuid.UUID, date, column string) error
}

type Sessions interface {
	Await(ctx context.Context) (*session.Session, error)
}

type Snapshot struct {
	Tier         Tier   `json:"tier"`
	Scans        int    `json:"scans"`
	ChatMessages int    `json:"chat_messages"`
	Date         string `json:"date"`
	Loaded       bool   `json:"-"`
}

func (s Snapshot) Premium() bool {
	return s.Tier == TierPremium
}

func (s Snapshot) Used(a Action) int {
	if a == Chat {
		return s.ChatMessages
	}
	return s.Scans
}

// Remaining is the number of free-tier uses left today, or -1 when the tier
// is unmetered.
func (s Snapshot) Remaining(a Action) int {
	if s.Premium() {
		return -1
	}
	left := Quota(a) - s.Used(a)
	if left < 0 {
		return 0
	}
	return left
}

func (s Snapshot) with(a Action, delta int) Snapshot {
	if a == Chat {
		s.ChatMessages += delta
	} else {
		s.Scans += delta
	}
	return s
}

func Quota(a Action) int {
	if a == Chat {
		return ChatQuota
	}
	return ScanQuota
}

func column(a Action) (string, error) {
	switch a {
	case Scan:
		return "scans_count", nil
	case Chat:
		return "chatbot_messages_count", nil
	}
	return "", ErrUnknownAction
}

type Option func(*State)

// WithClock overrides the wall clock used to pick the usage date.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// State is one user's entitlement projection.
type State struct {
	store    Store
	sessions Sessions
	bg       *state.Background
	now      func() time.Time

	snap *state.Observable[Snapshot]
	seq  state.Sequence

	// mu serializes check-and-bump and guards pending.
	mu      sync.Mutex
	pending map[Action]int
}

func New(store Store, sessions Sessions, bg *state.Background, opts ...Option) *State {
	s := &State{
		store:    store,
		sessions: sessions,
		bg:       bg,
		now:      time.Now,
		snap:     state.NewObservable(Snapshot{}),
		pending:  make(map[Action]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) today() string {
	return s.now().UTC().Format(dateLayout)
}

// Snapshot returns the current projection. Counters from a previous day
// read as zero.
func (s *State) Snapshot() Snapshot {
	snap := s.snap.Get()
	if today := s.today(); snap.Date != today {
		snap.Scans, snap.ChatMessages, snap.Date = 0, 0, today
	}
	return snap
}

func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.snap.Subscribe(fn)
}

// Refresh reloads tier and today's usage. Increments still in flight are
// added on top of the fetched counters.
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
	date := s.today()

	tier, err := s.store.UserTier(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("failed to load tier: %w", err)
	}
	usage, err := s.store.UsageFor(ctx, sess.UserID, date)
	if err != nil {
		return fmt.Errorf("failed to load usage: %w", err)
	}

	next := Snapshot{Tier: TierFree, Date: date, Loaded: true}
	if tier == models.TierPremium {
		next.Tier = TierPremium
	}
	if usage != nil {
		next.Scans = usage.ScansCount
		next.ChatMessages = usage.ChatbotMessagesCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(token) {
		return nil
	}
	next = next.with(Scan, s.pending[Scan]).with(Chat, s.pending[Chat])
	s.snap.Set(next)
	return nil
}

// CanPerform reports whether action would pass the gate right now.
func (s *State) CanPerform(a Action) bool {
	snap := s.Snapshot()
	return snap.Premium() || snap.Used(a) < Quota(a)
}

// CheckAndIncrement is the gate in front of a metered operation. It returns
// false with a nil error when the free-tier quota is used up. The local
// counter moves before the remote increment is issued, so concurrent callers
// cannot pass the quota while a round-trip is in flight.
func (s *State) CheckAndIncrement(ctx context.Context, a Action) (bool, error) {
	col, err := column(a)
	if err != nil {
		return false, err
	}
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return false, err
	}
	if !s.snap.Get().Loaded {
		if err := s.Refresh(ctx); err != nil {
			return false, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
		}
	}

	s.mu.Lock()
	snap := s.Snapshot()
	if !snap.Premium() && snap.Used(a) >= Quota(a) {
		s.mu.Unlock()
		slog.Info("usage limit reached", "user_id", sess.UserID, "action", string(a))
		return false, nil
	}
	s.snap.Set(snap.with(a, 1))
	s.pending[a]++
	s.seq.Next()
	s.mu.Unlock()

	date := snap.Date

	if snap.Premium() {
		s.bg.Go("usage.increment", func(ctx context.Context) error {
			err := s.store.IncrementUsage(ctx, sess.UserID, date, col)
			s.settle(a)
			return err
		}, "user_id", sess.UserID, "column", col)
		return true, nil
	}

	err = s.store.IncrementUsage(ctx, sess.UserID, date, col)
	s.settle(a)
	if err != nil {
		slog.Error("usage increment failed", "user_id", sess.UserID, "action", string(a), "error", err)
		if rerr := s.Refresh(ctx); rerr != nil {
			slog.Error("entitlement reconcile failed", "user_id", sess.UserID, "error", rerr)
		}
		return false, fmt.Errorf("%w: usage increment failed", apperr.ErrRemote)
	}
	return true, nil
}

// settle retires one in-flight increment and invalidates refreshes that
// may have read the counter before it landed.
func (s *State) settle(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[a] > 0 {
		s.pending[a]--
	}
	s.seq.Next()
}
