// Package core drives the overlay's rate-gated work from the host's physics
// tick.
package core

import (
	"context"
	"time"
)

const (
	// maxBacklog caps the accumulator at this many periods, so a job that
	// cannot keep up or a long host stall does not build unbounded debt.
	maxBacklog = 3
	// epsilon absorbs float error when a period is an exact multiple of dt.
	epsilon = 1e-9
)

// Job defines a task gated on accumulated physics time.
type Job interface {
	Name() string
	Advance(dt float64)
	ShouldFire() bool
	Run(ctx context.Context)
}

// BaseJob holds the accumulator shared by all rate jobs.
type BaseJob struct {
	name   string
	period float64 // seconds
	timer  float64 // seconds accumulated since the last period was consumed
}

func NewBaseJob(name string, hz float64) BaseJob {
	return BaseJob{name: name, period: 1 / hz}
}

func (b *BaseJob) Name() string {
	return b.name
}

// Period returns the firing period.
func (b *BaseJob) Period() time.Duration {
	return time.Duration(b.period * float64(time.Second))
}

// Advance adds elapsed physics time to the accumulator.
func (b *BaseJob) Advance(dt float64) {
	b.timer += dt
	if limit := maxBacklog * b.period; b.timer > limit {
		b.timer = limit
	}
}

// ShouldFire reports whether more than one period has accumulated.
func (b *BaseJob) ShouldFire() bool {
	return b.timer > b.period
}

// consume removes one period, keeping the remainder so the long-run rate
// stays exact under jittery ticks.
func (b *BaseJob) consume() {
	b.timer -= b.period
}

// RateJob runs its action at most once per tick at a fixed frequency.
type RateJob struct {
	BaseJob
	action func(context.Context)
}

func NewRateJob(name string, hz float64, action func(context.Context)) *RateJob {
	return &RateJob{
		BaseJob: NewBaseJob(name, hz),
		action:  action,
	}
}

func (j *RateJob) Run(ctx context.Context) {
	j.consume()
	j.action(ctx)
}

// BatchJob spreads one period's work over consecutive ticks: once due, each
// tick runs the next step, and the period is consumed after the last step.
type BatchJob struct {
	BaseJob
	steps []func(context.Context)
	next  int
}

func NewBatchJob(name string, hz float64, steps ...func(context.Context)) *BatchJob {
	return &BatchJob{
		BaseJob: NewBaseJob(name, hz),
		steps:   steps,
	}
}

// Step returns the index of the step the next Run executes.
func (j *BatchJob) Step() int {
	return j.next
}

func (j *BatchJob) Run(ctx context.Context) {
	if len(j.steps) == 0 {
		j.consume()
		return
	}

	if step := j.steps[j.next]; step != nil {
		step(ctx)
	}
	j.next++
	if j.next == len(j.steps) {
		j.next = 0
		j.consume()
	}
}

// SampleJob runs its action once for every elapsed period, several times in
// one tick if needed, so its long-run count matches the rate at any tick rate.
type SampleJob struct {
	BaseJob
	action func(context.Context)
}

func NewSampleJob(name string, hz float64, action func(context.Context)) *SampleJob {
	return &SampleJob{
		BaseJob: NewBaseJob(name, hz),
		action:  action,
	}
}

// ShouldFire reports whether at least one full period has accumulated.
func (j *SampleJob) ShouldFire() bool {
	return j.timer >= j.period-epsilon
}

func (j *SampleJob) Run(ctx context.Context) {
	for j.ShouldFire() {
		j.consume()
		j.action(ctx)
	}
}
