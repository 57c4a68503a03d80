package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
)

const reminderTitle = "Напоминание"

// Workspaces is the view of the registry the jobs need.
type Workspaces interface {
	Each(fn func(*workspace.Workspace))
	Sweep() int
}

// ReminderNotifier sends one notification per due reminder in every live
// workspace. Reminder ids double as notification tags, so repeated ticks
// inside the tolerance window deliver once.
type ReminderNotifier struct {
	workspaces Workspaces
	interval   time.Duration
	tolerance  time.Duration
	now        func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewReminderNotifier(workspaces Workspaces, interval, tolerance time.Duration) *ReminderNotifier {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if tolerance <= 0 {
		tolerance = time.Minute
	}
	return &ReminderNotifier{
		workspaces: workspaces,
		interval:   interval,
		tolerance:  tolerance,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
}

func (n *ReminderNotifier) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.mu.Unlock()

	n.wg.Add(1)
	go n.run()
	slog.Info("reminder notifier started", "interval", n.interval, "tolerance", n.tolerance)
}

func (n *ReminderNotifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	n.mu.Unlock()

	close(n.stopCh)
	n.wg.Wait()
	slog.Info("reminder notifier stopped")
}

func (n *ReminderNotifier) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

func (n *ReminderNotifier) run() {
	defer n.wg.Done()

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), n.interval)
			n.RunOnce(ctx)
			cancel()
		case <-n.stopCh:
			return
		}
	}
}

// RunOnce performs a single pass and returns how many notifications were
// delivered.
func (n *ReminderNotifier) RunOnce(ctx context.Context) int {
	now := n.now()
	sent := 0
	n.workspaces.Each(func(ws *workspace.Workspace) {
		if ws.Notifications.Permission() != notify.PermissionGranted {
			return
		}
		for _, r := range ws.Reminders.Due(now, n.tolerance) {
			ok, err := ws.Notifications.Send(ctx, notify.Notification{
				Tag:   r.ID.String(),
				Title: reminderTitle,
				Body:  r.ReminderText,
			})
			if err != nil {
				slog.Error("reminder notification failed", "user_id", ws.UserID, "reminder_id", r.ID, "error", err)
				continue
			}
			if ok {
				sent++
			}
		}
	})
	return sent
}
