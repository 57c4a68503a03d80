package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Background runs fire-and-forget tasks. Failures are logged, never
// returned, and Wait lets shutdown and tests drain in-flight work.
type Background struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewBackground(timeout time.Duration) *Background {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Background{timeout: timeout}
}

// Go runs fn detached from the caller's context. attrs are attached to the
// failure log line.
func (b *Background) Go(action string, fn func(ctx context.Context) error, attrs ...any) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			args := append([]any{"action", action, "error", err}, attrs...)
			slog.Error("background task failed", args...)
		}
	}()
}

func (b *Background) Wait() {
	b.wg.Wait()
}
