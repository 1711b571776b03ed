// Package scheduler runs jobs at a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/blockedby/crypto-digest/internal/logger"
)

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *logger.Logger
}

// New creates a stopped scheduler.
func New(log *logger.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(gocronLogger{log: log}))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, log: log}, nil
}

// Every schedules task every interval, starting immediately. A run that is
// still going when the next one is due delays it instead of overlapping.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { task(ctx) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}

	s.log.Info().Str("job", name).Dur("every", interval).Msg("job scheduled")
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then shuts it down.
func (s *Scheduler) Run(ctx context.Context) error {
	s.scheduler.Start()
	<-ctx.Done()
	return s.Stop()
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}

// gocronLogger adapts the application logger to gocron.Logger.
type gocronLogger struct {
	log *logger.Logger
}

func (l gocronLogger) Debug(msg string, args ...any) {
	l.log.Debug().Str("component", "scheduler").Fields(args).Msg(msg)
}

func (l gocronLogger) Info(msg string, args ...any) {
	l.log.Info().Str("component", "scheduler").Fields(args).Msg(msg)
}

func (l gocronLogger) Warn(msg string, args ...any) {
	l.log.Warn().Str("component", "scheduler").Fields(args).Msg(msg)
}

func (l gocronLogger) Error(msg string, args ...any) {
	l.log.Error().Str("component", "scheduler").Fields(args).Msg(msg)
}
