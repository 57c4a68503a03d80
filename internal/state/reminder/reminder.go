// Package reminder keeps a user's care reminders and answers which of them
// are due for a notification.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/google/uuid"
)

var (
	ErrEmptyText          = fmt.Errorf("%w: reminder text is required", apperr.ErrValidation)
	ErrInvalidDelay       = fmt.Errorf("%w: delay must be at least one day", apperr.ErrValidation)
	ErrPermissionRequired = fmt.Errorf("%w: notification permission is required", apperr.ErrPreconditionFailed)
	ErrNotFound           = fmt.Errorf("%w: reminder", apperr.ErrNotFound)
)

type Store interface {
	ListReminders(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, r *models.Reminder) error
	CompleteReminder(ctx context.Context, userID, id uuid.UUID) error
}

type Sessions interface {
	Await(ctx context.Context) (*session.Session, error)
}

// Permissions reports whether the browser allowed notifications.
type Permissions interface {
	Permission() notify.Permission
}

type Snapshot struct {
	Reminders []models.Reminder `json:"reminders"`
	Loaded    bool              `json:"-"`
}

func (s Snapshot) find(id uuid.UUID) int {
	for i := range s.Reminders {
		if s.Reminders[i].ID == id {
			return i
		}
	}
	return -1
}

// lookup returns a copy of the reminder with the given id.
func (s Snapshot) lookup(id uuid.UUID) (models.Reminder, bool) {
	if i := s.find(id); i >= 0 {
		return s.Reminders[i], true
	}
	return models.Reminder{}, false
}

type Option func(*State)

func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

type State struct {
	store       Store
	sessions    Sessions
	permissions Permissions
	now         func() time.Time

	snap *state.Observable[Snapshot]
	seq  state.Sequence
	mu   sync.Mutex
}

func New(store Store, sessions Sessions, permissions Permissions, opts ...Option) *State {
	s := &State{
		store:       store,
		sessions:    sessions,
		permissions: permissions,
		now:         time.Now,
		snap:        state.NewObservable(Snapshot{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) Snapshot() Snapshot {
	return s.snap.Get()
}

func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.snap.Subscribe(fn)
}

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
	rows, err := s.store.ListReminders(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(token) {
		return nil
	}
	s.snap.Set(Snapshot{Reminders: rows, Loaded: true})
	return nil
}

// Create schedules a reminder delayDays from now. It requires the browser to
// have granted notification permission.
func (s *State) Create(ctx context.Context, text, diagnosis string, delayDays int) (models.Reminder, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Reminder{}, ErrEmptyText
	}
	if delayDays < 1 {
		return models.Reminder{}, ErrInvalidDelay
	}
	if s.permissions.Permission() != notify.PermissionGranted {
		return models.Reminder{}, ErrPermissionRequired
	}

	r := &models.Reminder{
		UserID:        sess.UserID,
		ReminderText:  text,
		DiagnosisText: strings.TrimSpace(diagnosis),
		ScheduledFor:  s.now().UTC().AddDate(0, 0, delayDays),
	}
	if err := s.store.CreateReminder(ctx, r); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.mu.Lock()
	next := s.snap.Get()
	next.Reminders = append(append([]models.Reminder(nil), next.Reminders...), *r)
	s.seq.Next()
	s.snap.Set(next)
	s.mu.Unlock()
	return *r, nil
}

// Complete marks a reminder done. Completing an already completed reminder
// succeeds without a remote call.
func (s *State) Complete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}

	r, ok := s.snap.Get().lookup(id)
	if !ok {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if r, ok = s.snap.Get().lookup(id); !ok {
			return ErrNotFound
		}
	}
	if r.Completed {
		return nil
	}

	if err := s.store.CompleteReminder(ctx, sess.UserID, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to complete reminder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap.Get()
	next.Reminders = append([]models.Reminder(nil), next.Reminders...)
	if j := next.find(id); j >= 0 {
		next.Reminders[j].Completed = true
	}
	s.seq.Next()
	s.snap.Set(next)
	return nil
}

// Due returns the open reminders scheduled within tolerance of now, in
// either direction. The result is a copy.
func (s *State) Due(now time.Time, tolerance time.Duration) []models.Reminder {
	var due []models.Reminder
	for _, r := range s.snap.Get().Reminders {
		if r.Completed {
			continue
		}
		d := now.Sub(r.ScheduledFor)
		if d < 0 {
			d = -d
		}
		if d < tolerance {
			due = append(due, r)
		}
	}
	return due
}
