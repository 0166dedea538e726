package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Scheduler wraps gocron for periodic site rebuilds in serve mode.
type Scheduler struct {
	scheduler gocron.Scheduler
	rebuild   func(context.Context) error
}

// NewScheduler creates a scheduler that invokes rebuild on a fixed interval.
func NewScheduler(rebuild func(context.Context) error) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, rebuild: rebuild}, nil
}

// Start registers the periodic rebuild job and begins the scheduler.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, ctx),
		gocron.WithName("site-rebuild"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule rebuild job: %w", err)
	}

	slog.Info("Scheduling periodic rebuilds", slog.Duration("interval", interval))
	s.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	slog.Info("Running scheduled rebuild")
	if err := s.rebuild(ctx); err != nil {
		slog.Error("Scheduled rebuild failed", logfields.Error(err))
	}
}
