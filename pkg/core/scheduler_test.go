package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Tick(t *testing.T) {
	var log []string
	fast := NewRateJob("60hz", 60, func(context.Context) { log = append(log, "fast") })
	slow := NewRateJob("10hz", 10, func(context.Context) { log = append(log, "slow") })
	sched := NewScheduler(slow)
	sched.AddJob(fast)

	ctx := context.Background()
	// 0.19 s of 100 Hz physics
	for i := 0; i < 19; i++ {
		sched.Tick(ctx, 0.01)
	}

	var fastCount, slowCount int
	for _, e := range log {
		if e == "fast" {
			fastCount++
		} else {
			slowCount++
		}
	}
	assert.Equal(t, uint64(19), sched.Ticks())
	assert.Len(t, sched.Jobs(), 2)
	assert.Equal(t, 1, slowCount)
	assert.InDelta(t, 10.5, fastCount, 1)
}

func TestScheduler_RegistrationOrder(t *testing.T) {
	var log []string
	a := NewRateJob("a", 100, func(context.Context) { log = append(log, "a") })
	b := NewRateJob("b", 100, func(context.Context) { log = append(log, "b") })
	sched := NewScheduler(b, a)

	sched.Tick(context.Background(), 0.02)
	assert.Equal(t, []string{"b", "a"}, log)
}

func TestScheduler_NegativeDelta(t *testing.T) {
	fired := 0
	job := NewRateJob("j", 10, func(context.Context) { fired++ })
	sched := NewScheduler(job)

	sched.Tick(context.Background(), -5)
	sched.Tick(context.Background(), 0.05)
	assert.Equal(t, 0, fired)
}
