package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/angelmondragon/storefront-pricing/pkg/metrics"
)

const (
	defaultInterval = time.Minute
	releaseTimeout  = 5 * time.Second
)

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	// Interval is the tick between cycles; each job's Schedule.Every spaces
	// it further.
	Interval time.Duration
	// JobTimeout bounds a single job run. Defaults to Interval so a stuck
	// job cannot outlive the leader lock for long.
	JobTimeout time.Duration
}

// Service ticks on Interval and, while holding the leader lock, runs every
// job that is due.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := params.JobTimeout
	if timeout <= 0 {
		timeout = interval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}, nil
}

// Run blocks until ctx is canceled, running one cycle immediately and then
// one per tick.
func (s *Service) Run(ctx context.Context) error {
	s.cycle(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "cron.cycle.failed", err)
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Debug(ctx, "cron.cycle.skipped")
		return nil
	}
	defer func() {
		// ctx may already be canceled on shutdown; the lock still has to go.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if relErr := s.lock.Release(releaseCtx); relErr != nil {
			s.logg.Error(ctx, "cron.lock.release_failed", relErr)
		}
	}()

	for _, job := range s.registry.Due(s.now()) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.runJob(ctx, job)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	name := job.Name()
	jobCtx, cancel := context.WithTimeout(s.logg.WithField(ctx, "job", name), s.timeout)
	defer cancel()

	start := time.Now()
	err := safeRun(jobCtx, job)
	took := time.Since(start)

	s.metrics.ObserveRun(name, took, err)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", took.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "cron.job.failed", err)
		return
	}
	s.logg.Info(jobCtx, "cron.job.done")
}

// safeRun turns a job panic into an error so the remaining jobs still run
// and the lock is released.
func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx)
}
