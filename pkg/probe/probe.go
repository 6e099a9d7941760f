// Package probe runs startup checks and reports which of them block startup.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const defaultTimeout = 2 * time.Second

// CheckFunc returns nil when the check passes.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool          // A failure prevents startup.
	Timeout  time.Duration // Zero uses defaultTimeout.
}

// Result is the outcome of one probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool {
	return r.Error == nil
}

// Run executes the probes in order, each under its own timeout.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))
	for _, p := range probes {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := p.Check(checkCtx)
		cancel()

		results = append(results, Result{Probe: p, Error: err, Duration: time.Since(start)})
	}
	return results
}

// Summarize logs every result and joins the errors of failed critical probes.
func Summarize(results []Result) error {
	var critical []error
	for _, r := range results {
		took := r.Duration.Round(time.Millisecond)
		if r.Passed() {
			slog.Info("Startup check passed", "check", r.Probe.Name, "took", took)
			continue
		}
		if !r.Probe.Critical {
			slog.Warn("Startup check failed", "check", r.Probe.Name, "took", took, "error", r.Error)
			continue
		}
		slog.Error("Startup check failed", "check", r.Probe.Name, "took", took, "error", r.Error)
		critical = append(critical, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
	}
	return errors.Join(critical...)
}
