package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// WorkspaceSweeper evicts idle workspaces on a fixed interval.
type WorkspaceSweeper struct {
	workspaces Workspaces
	interval   time.Duration

	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewWorkspaceSweeper(workspaces Workspaces, interval time.Duration) *WorkspaceSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &WorkspaceSweeper{workspaces: workspaces, interval: interval, stopCh: make(chan struct{})}
}

func (s *WorkspaceSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.workspaces.Sweep(); n > 0 {
					slog.Info("idle workspaces evicted", "count", n)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
}

func (s *WorkspaceSweeper) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}
