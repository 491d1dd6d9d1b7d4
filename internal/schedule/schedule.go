// Package schedule runs periodic maintenance jobs against the pickup store.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Resetter is the store operation the demo reset job calls.
type Resetter interface {
	ResetDemo(ctx context.Context) error
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

func New(logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// AddDemoReset resets the store on the given five-field cron spec.
func (s *Scheduler) AddDemoReset(spec string, store Resetter) (string, error) {
	return s.add(gocron.CronJob(spec, false), store)
}

func (s *Scheduler) add(def gocron.JobDefinition, store Resetter) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func() { s.resetDemo(store) }),
		gocron.WithName("demo-reset"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("creating demo reset job: %w", err)
	}
	return job.ID().String(), nil
}

func (s *Scheduler) resetDemo(store Resetter) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.ResetDemo(ctx); err != nil {
		s.logger.Error("scheduled demo reset failed", "error", err)
		return
	}
	s.logger.Info("demo reset by schedule")
}

// Run starts the scheduler and stops it when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.scheduler.Start()
	<-ctx.Done()
	return s.Shutdown()
}

func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	return nil
}
