package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryOutbox keeps notifications in process. It is used when no Redis URL
// is configured.
type MemoryOutbox struct {
	mu     sync.Mutex
	now    func() time.Time
	tags   map[string]time.Time
	queues map[uuid.UUID][]Notification
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{
		now:    time.Now,
		tags:   make(map[string]time.Time),
		queues: make(map[uuid.UUID][]Notification),
	}
}

func (o *MemoryOutbox) Push(_ context.Context, userID uuid.UUID, n Notification, lifetime time.Duration) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	o.prune(now)
	if n.Tag != "" {
		key := userID.String() + ":" + n.Tag
		if until, ok := o.tags[key]; ok && now.Before(until) {
			return false, nil
		}
		o.tags[key] = now.Add(lifetime)
	}
	o.queues[userID] = append(o.queues[userID], n)
	return true, nil
}

func (o *MemoryOutbox) Drain(_ context.Context, userID uuid.UUID) ([]Notification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := o.queues[userID]
	delete(o.queues, userID)
	o.prune(o.now())
	if out == nil {
		out = []Notification{}
	}
	return out, nil
}

// Forget drops the user's undelivered notifications. Tags stay reserved
// until they expire.
func (o *MemoryOutbox) Forget(userID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.queues, userID)
}

func (o *MemoryOutbox) prune(now time.Time) {
	for key, until := range o.tags {
		if !now.Before(until) {
			delete(o.tags, key)
		}
	}
}
