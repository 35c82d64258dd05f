package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tasknest/task-manager-api/internal/model"
	"github.com/tasknest/task-manager-api/internal/notify"
	"github.com/tasknest/task-manager-api/internal/repo"
)

// Poller periodically snapshots near-due tasks and recomputes due-soon
// notifications per user. Each cycle is independent and idempotent: the
// result fully replaces the previous one, and a failed snapshot fetch
// leaves the previous result untouched until the next successful cycle.
type Poller struct {
	repo     repo.TaskRepository
	logger   *zap.Logger
	interval time.Duration

	mu    sync.RWMutex
	cache map[string][]model.Notification

	wg   sync.WaitGroup
	stop chan struct{}
}

func NewPoller(taskRepo repo.TaskRepository, logger *zap.Logger, interval time.Duration) *Poller {
	return &Poller{
		repo:     taskRepo,
		logger:   logger,
		interval: interval,
		cache:    map[string][]model.Notification{},
		stop:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting due-soon poller", zap.Duration("interval", p.interval))

	// Warm the cache before the first tick.
	if err := p.Refresh(ctx); err != nil {
		p.logger.Error("initial due-soon refresh failed", zap.Error(err))
	}

	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) Stop() {
	p.logger.Info("Stopping due-soon poller...")
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Due-soon poller stopped")
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Error("due-soon refresh failed, keeping previous cycle", zap.Error(err))
			}
		}
	}
}

// Refresh runs one evaluation cycle. The fetch window is widened by a day
// on each side; the evaluator applies the exact calendar-day bounds.
func (p *Poller) Refresh(ctx context.Context) error {
	now := time.Now()
	from, to := notify.Window(now)

	tasks, err := p.repo.ListDueBetween(ctx, from.AddDate(0, 0, -1), to.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	byUser := map[string][]model.Task{}
	for _, t := range tasks {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}

	next := make(map[string][]model.Notification, len(byUser))
	for userID, snapshot := range byUser {
		if ns := notify.Evaluate(snapshot, now); len(ns) > 0 {
			next[userID] = ns
		}
	}

	p.mu.Lock()
	p.cache = next
	p.mu.Unlock()

	p.logger.Debug("due-soon cycle complete",
		zap.Int("tasks", len(tasks)),
		zap.Int("users_notified", len(next)),
	)
	return nil
}

// Notifications returns the current cycle's notifications for one user.
// The result is always a non-nil slice.
func (p *Poller) Notifications(userID string) []model.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cached := p.cache[userID]
	out := make([]model.Notification, len(cached))
	copy(out, cached)
	return out
}
