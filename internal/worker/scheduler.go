// Package worker runs the periodic reservation maintenance jobs.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/model"
)

// Maintainer is the part of the reservation service the jobs drive.
type Maintainer interface {
	Today() model.Date
	PrunePast(ctx context.Context, today model.Date) (int, error)
	StartToday(ctx context.Context, today model.Date) (int, error)
}

type Scheduler struct {
	log           *slog.Logger
	svc           Maintainer
	sweepInterval time.Duration
	pruneInterval time.Duration
	wg            sync.WaitGroup
}

func NewScheduler(log *slog.Logger, svc Maintainer, sweepInterval, pruneInterval time.Duration) *Scheduler {
	return &Scheduler{log: log, svc: svc, sweepInterval: sweepInterval, pruneInterval: pruneInterval}
}

// Start launches the status sweeper and the pruner.  Each job runs once
// right away and then on its interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.every(ctx, "status_sweep", s.sweepInterval, s.sweep)
	s.every(ctx, "prune", s.pruneInterval, s.prune)
}

// Wait blocks until both jobs have stopped.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) every(ctx context.Context, job string, interval time.Duration, run func(context.Context)) {
	const op = "worker.Scheduler.every"
	log := s.log.With(slog.String("op", op), slog.String("job", job))

	if interval <= 0 {
		log.Info("job disabled")
		return
	}
	log.Info("starting job", slog.Duration("interval", interval))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer log.Info("stopping job")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run(ctx)
			}
		}
	}()
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.svc.StartToday(ctx, s.svc.Today())
	if err != nil {
		s.log.Error("status sweep failed", sl.Err(err))
		return
	}
	if n > 0 {
		s.log.Info("reservations started", slog.Int("count", n))
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	n, err := s.svc.PrunePast(ctx, s.svc.Today())
	if err != nil {
		s.log.Error("prune failed", sl.Err(err))
		return
	}
	if n > 0 {
		s.log.Info("past reservations pruned", slog.Int("count", n))
	}
}
