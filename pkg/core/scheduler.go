package core

import (
	"context"
	"log/slog"

	"traces/pkg/logging"
)

// Scheduler advances every job by the physics delta and runs the due ones in
// registration order. It is driven by the host and is not safe for
// concurrent use.
type Scheduler struct {
	jobs  []Job
	ticks uint64
}

// NewScheduler creates a new Scheduler.
func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// AddJob registers a job.
func (s *Scheduler) AddJob(j Job) {
	s.jobs = append(s.jobs, j)
}

// Jobs returns the registered jobs.
func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// Ticks returns the number of ticks processed.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Tick runs one physics step. Non-positive deltas still evaluate the gates
// but add no time.
func (s *Scheduler) Tick(ctx context.Context, dt float64) {
	s.ticks++
	if dt < 0 {
		dt = 0
	}
	for _, job := range s.jobs {
		job.Advance(dt)
		if job.ShouldFire() {
			logging.TraceDefault("Job firing", "job", job.Name(), "tick", s.ticks)
			job.Run(ctx)
		}
	}
	if s.ticks == 1 {
		slog.Debug("Scheduler started", "jobs", len(s.jobs))
	}
}
