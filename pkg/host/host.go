// Package host runs the overlay outside a window: a fixed-rate physics loop
// rendering into an in-memory surface.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"traces/pkg/render"
)

// Overlay is what a host drives: a physics callback and a render callback.
type Overlay interface {
	Tick(ctx context.Context, dt float64)
	Render(s render.Surface) (render.Stats, error)
	Size() (width, height float64)
}

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	// Hz is the physics and render rate.
	Hz int
	// MaxTicks stops the loop after that many ticks. Zero runs until the
	// context is cancelled.
	MaxTicks int
}

// RunHeadless ticks and renders app at a fixed rate until ctx is done or
// MaxTicks is reached. Every tick advances simulated time by exactly 1/Hz.
// The returned surface holds the last rendered frame.
func RunHeadless(ctx context.Context, app Overlay, opts HeadlessOptions) (*RecordingSurface, error) {
	if opts.Hz <= 0 {
		return nil, fmt.Errorf("invalid headless rate %d", opts.Hz)
	}

	surface := NewRecordingSurface()
	dt := 1 / float64(opts.Hz)
	ticker := time.NewTicker(time.Second / time.Duration(opts.Hz))
	defer ticker.Stop()

	w, h := app.Size()
	slog.Info("Headless host started", "hz", opts.Hz, "max_ticks", opts.MaxTicks, "width", w, "height", h)

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Headless host stopped", "ticks", ticks, "frames", surface.Frames())
			return surface, nil
		case <-ticker.C:
			app.Tick(ctx, dt)
			surface.BeginFrame()
			// Render failures are logged per drawable by the renderer
			_, _ = app.Render(surface)
			ticks++
			if opts.MaxTicks > 0 && ticks >= opts.MaxTicks {
				slog.Info("Headless host finished", "ticks", ticks, "frames", surface.Frames())
				return surface, nil
			}
		}
	}
}
