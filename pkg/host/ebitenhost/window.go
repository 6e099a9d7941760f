// Package ebitenhost runs the overlay in a transparent desktop window.
package ebitenhost

import (
	"context"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"traces/pkg/host"
)

// Options configures the window.
type Options struct {
	Title string
	// TPS is the physics rate; every Update advances time by 1/TPS.
	TPS       int
	Decorated bool
	Floating  bool
}

// DefaultOptions returns a borderless always-on-top window at 60 TPS.
func DefaultOptions() Options {
	return Options{
		Title:    "Traces",
		TPS:      60,
		Floating: true,
	}
}

type game struct {
	ctx     context.Context
	app     host.Overlay
	surface *Surface
	width   int
	height  int
	dt      float64
}

// Update is the physics callback.
func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.app.Tick(g.ctx, g.dt)
	return nil
}

// Draw is the render callback. Render failures are logged per drawable by
// the renderer.
func (g *game) Draw(screen *ebiten.Image) {
	g.surface.Begin(screen)
	_, _ = g.app.Render(g.surface)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, app host.Overlay, opts Options) error {
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	surface, err := NewSurface()
	if err != nil {
		return err
	}

	w, h := app.Size()
	g := &game{
		ctx:     ctx,
		app:     app,
		surface: surface,
		width:   int(math.Ceil(w)),
		height:  int(math.Ceil(h)),
		dt:      1 / float64(opts.TPS),
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowDecorated(opts.Decorated)
	ebiten.SetWindowFloating(opts.Floating)
	ebiten.SetTPS(opts.TPS)

	slog.Info("Window host started", "width", g.width, "height", g.height, "tps", opts.TPS)
	err = ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: true})
	slog.Info("Window host stopped")
	return err
}
