package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
)

const (
	DefaultSchedule   = "@every 1m"
	DefaultStaleAfter = 10 * time.Minute
)

// StaleMarker moves long-running building records to error.
type StaleMarker interface {
	MarkStale(ctx context.Context, cutoff time.Time) ([]domain.Project, error)
}

// Sweeper periodically fails projects whose generation never resolved, e.g.
// because the process died while the backend call was in flight.
type Sweeper struct {
	store      StaleMarker
	publisher  events.Publisher
	staleAfter time.Duration
	schedule   string

	cron *cron.Cron
	now  func() time.Time
}

func New(store StaleMarker, publisher events.Publisher, staleAfter time.Duration, schedule string) *Sweeper {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Sweeper{
		store:      store,
		publisher:  publisher,
		staleAfter: staleAfter,
		schedule:   schedule,
		now:        time.Now,
	}
}

// Start registers the sweep on the cron schedule and starts the scheduler.
func (s *Sweeper) Start() error {
	c := cron.New()
	_, err := c.AddFunc(s.schedule, func() {
		ctx := logging.WithRequestID(context.Background(), "sweeper")
		if _, err := s.RunOnce(ctx); err != nil {
			logging.New(ctx).LogError("sweep_stale", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	logging.New(context.Background()).LogInfof("sweep_stale", "scheduler started schedule=%q stale_after=%s", s.schedule, s.staleAfter)
	return nil
}

// Stop halts the scheduler and waits for a running sweep, bounded by ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce marks every project building for longer than the stale threshold as
// failed and returns how many were swept.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.staleAfter)
	stale, err := s.store.MarkStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale projects: %w", err)
	}

	logger := logging.New(ctx)
	reason := fmt.Sprintf("generation did not finish within %s", s.staleAfter)
	for i := range stale {
		p := &stale[i]
		logger.LogWarnf("sweep_stale", "project_id=%s owner_id=%s status=error reason=%q", p.ID, p.OwnerID, reason)
		if err := s.publisher.Publish(ctx, events.NewStatusEvent(p, reason)); err != nil {
			logger.LogWarnf("publish_status", "project_id=%s error=%v", p.ID, err)
		}
	}
	if len(stale) > 0 {
		logger.LogInfof("sweep_stale", "swept=%d cutoff=%s", len(stale), cutoff.Format(time.RFC3339))
	}
	return len(stale), nil
}
