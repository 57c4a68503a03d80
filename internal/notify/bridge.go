// Package notify delivers browser notifications. The browser's permission
// answer is recorded per workspace; notifications sit in an outbox until the
// browser drains them.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/google/uuid"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

var ErrInvalidPermission = fmt.Errorf("%w: permission must be default, granted or denied", apperr.ErrValidation)

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	}
	return "", ErrInvalidPermission
}

type Notification struct {
	Tag       string    `json:"tag,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Outbox queues notifications per user. Push reports false when a
// notification with the same non-empty tag was pushed within lifetime.
type Outbox interface {
	Push(ctx context.Context, userID uuid.UUID, n Notification, lifetime time.Duration) (bool, error)
	Drain(ctx context.Context, userID uuid.UUID) ([]Notification, error)
}

// Forgetter is implemented by outboxes that hold queues in process and must
// be told when a user's workspace goes away.
type Forgetter interface {
	Forget(userID uuid.UUID)
}

// Bridge is one user's notification channel.
type Bridge struct {
	userID   uuid.UUID
	outbox   Outbox
	lifetime time.Duration
	now      func() time.Time

	mu         sync.RWMutex
	permission Permission
}

func NewBridge(userID uuid.UUID, outbox Outbox, lifetime time.Duration) *Bridge {
	return &Bridge{
		userID:     userID,
		outbox:     outbox,
		lifetime:   lifetime,
		now:        time.Now,
		permission: PermissionDefault,
	}
}

func (b *Bridge) Permission() Permission {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.permission
}

// RequestPermission records the browser's answer to the permission prompt.
func (b *Bridge) RequestPermission(p Permission) error {
	if _, err := ParsePermission(string(p)); err != nil {
		return err
	}
	b.mu.Lock()
	b.permission = p
	b.mu.Unlock()
	return nil
}

// Send queues n. Without granted permission, or when n's tag was already
// sent within the notification lifetime, it does nothing and reports false.
func (b *Bridge) Send(ctx context.Context, n Notification) (bool, error) {
	if b.Permission() != PermissionGranted {
		return false, nil
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now().UTC()
	}
	sent, err := b.outbox.Push(ctx, b.userID, n, b.lifetime)
	if err != nil {
		return false, fmt.Errorf("failed to queue notification: %w", err)
	}
	return sent, nil
}

// Drain hands every pending notification to the caller and empties the
// outbox. Tags stay reserved until their lifetime ends.
func (b *Bridge) Drain(ctx context.Context) ([]Notification, error) {
	out, err := b.outbox.Drain(ctx, b.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to drain notifications: %w", err)
	}
	return out, nil
}
