package cron

import (
	"context"
	"sync"
	"time"
)

// Job is one unit of scheduled maintenance run by the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Schedule pairs a job with the minimum spacing between its runs. A zero
// Every runs the job on every cycle.
type Schedule struct {
	Job   Job
	Every time.Duration
}

type entry struct {
	Schedule
	lastRun time.Time
}

// Registry keeps jobs in registration order and tracks when each last ran in
// this process.
type Registry struct {
	mu      sync.Mutex
	entries []*entry
}

func NewRegistry(schedules ...Schedule) *Registry {
	registry := &Registry{}
	for _, schedule := range schedules {
		registry.Register(schedule.Job, schedule.Every)
	}
	return registry
}

// Register adds job; nil jobs are ignored.
func (r *Registry) Register(job Job, every time.Duration) {
	if job == nil {
		return
	}
	if every < 0 {
		every = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &entry{Schedule: Schedule{Job: job, Every: every}})
}

// Due returns the jobs whose spacing has elapsed at now and stamps them as run.
func (r *Registry) Due(now time.Time) []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := make([]Job, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.lastRun.IsZero() && now.Sub(e.lastRun) < e.Every {
			continue
		}
		e.lastRun = now
		due = append(due, e.Job)
	}
	return due
}

// Jobs returns every registered job in registration order.
func (r *Registry) Jobs() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]Job, 0, len(r.entries))
	for _, e := range r.entries {
		jobs = append(jobs, e.Job)
	}
	return jobs
}
