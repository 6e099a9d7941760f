// Package overlay wires the telemetry source, the geometry builders and the
// render consumer into the running input-trace overlay.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"traces/pkg/config"
	"traces/pkg/core"
	"traces/pkg/history"
	"traces/pkg/indicator"
	"traces/pkg/label"
	"traces/pkg/logging"
	"traces/pkg/pedal"
	"traces/pkg/render"
	"traces/pkg/sim"
	"traces/pkg/trace"
)

// Channel names.
const (
	Throttle = "throttle"
	Brake    = "brake"
	Clutch   = "clutch"
	Steering = "steering"
)

// Job rates in Hz.
const (
	globalRate  = 10
	carRate     = 60
	publishRate = 10
)

// Recorder receives one telemetry frame per sample period (1/sample_rate).
type Recorder interface {
	Record(t sim.Telemetry) bool
}

// Publisher receives every snapshot the overlay publishes.
type Publisher interface {
	Publish(s *Snapshot)
}

// channel is one monitored input: its trace, history and layer.
type channel struct {
	name    string
	trace   *trace.Trace
	history *history.History
	layer   *render.Layer
	value   func(t *sim.Telemetry) float64
}

// App owns every drawable and the timers feeding them. Tick and Render must
// be called from the same goroutine; other goroutines read Snapshot.
type App struct {
	cfg    *config.Config
	layout Layout
	client sim.Client
	logger *slog.Logger

	recorder  Recorder
	publisher Publisher

	sched    *core.Scheduler
	renderer *render.Renderer
	stages   *sim.StageMachine

	// Global data, refreshed at 10 Hz.
	timeMul    float64
	focusedCar int
	stage      string

	// Car data, refreshed at 60 Hz.
	car sim.Telemetry

	channels map[string]*channel

	throttleBar *pedal.Bar
	brakeBar    *pedal.Bar
	clutchBar   *pedal.Bar
	ffbBar      *pedal.Bar
	ffbLayer    *render.Layer
	wheel       *indicator.Wheel

	speedLabel *label.Label
	gearLabel  *label.Label

	snap atomic.Pointer[Snapshot]
}

// New builds all drawables for cfg. A nil logger falls back to slog.Default.
func New(cfg *config.Config, client sim.Client, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:      cfg,
		layout:   NewLayout(cfg),
		client:   client,
		logger:   logger,
		renderer: render.NewRenderer(logger),
		stages:   sim.NewStageMachine(),
		timeMul:  1,
		channels: make(map[string]*channel),
	}

	if err := a.buildTraces(); err != nil {
		return nil, err
	}
	a.buildBars()
	if err := a.buildWheel(); err != nil {
		return nil, err
	}
	a.buildLabels()

	traceRate := float64(cfg.Traces.SampleRate)
	a.sched = core.NewScheduler(
		core.NewRateJob("global", globalRate, a.refreshGlobal),
		core.NewRateJob("car", carRate, a.refreshCar),
		// One channel per physics tick to spread the geometry work
		core.NewBatchJob("traces", traceRate,
			a.traceStep(Clutch),
			a.traceStep(Steering),
			a.traceStep(Throttle),
			a.traceStep(Brake),
		),
		core.NewSampleJob("record", traceRate, a.record),
		core.NewRateJob("publish", publishRate, func(context.Context) { a.publish() }),
	)

	a.publish()
	logger.Info("Overlay ready",
		"width", a.layout.Width,
		"height", a.layout.Height,
		"sample_size", cfg.SampleSize(),
		"traces", len(a.channels),
		"layers", len(a.renderer.Layers()))
	return a, nil
}

func (a *App) buildTraces() error {
	tc := a.layout.Trace(a.cfg.SampleSize())
	capRad := a.cfg.SteeringCapRad()
	defs := []struct {
		name    string
		enabled bool
		color   render.Color
		value   func(t *sim.Telemetry) float64
	}{
		// Draw order: later traces paint over earlier ones
		{Steering, a.cfg.Traces.DisplaySteering, render.LightGrey, func(t *sim.Telemetry) float64 { return t.NormalizedSteering(capRad) }},
		{Clutch, a.cfg.Traces.DisplayClutch, render.Blue, func(t *sim.Telemetry) float64 { return t.Clutch }},
		{Throttle, a.cfg.Traces.DisplayThrottle, render.Green, func(t *sim.Telemetry) float64 { return t.Throttle }},
		{Brake, a.cfg.Traces.DisplayBrake, render.Red, func(t *sim.Telemetry) float64 { return t.Brake }},
	}

	for _, d := range defs {
		if !d.enabled {
			continue
		}
		tr, err := trace.New(tc)
		if err != nil {
			return fmt.Errorf("%s trace: %w", d.name, err)
		}
		h, err := history.New(d.name, a.cfg.Traces.TimeWindow, a.cfg.Traces.SampleRate)
		if err != nil {
			return err
		}
		c := &channel{
			name:    d.name,
			trace:   tr,
			history: h,
			layer:   render.NewLayer("trace."+d.name, d.color, tr),
			value:   d.value,
		}
		a.channels[d.name] = c
		a.renderer.Add(c.layer)
	}
	return nil
}

func (a *App) buildBars() {
	w, h := a.layout.BarWidth(), a.layout.BarHeight()
	a.throttleBar = pedal.New(a.layout.BarOrigin(throttleBarX), w, h)
	a.brakeBar = pedal.New(a.layout.BarOrigin(brakeBarX), w, h)
	a.clutchBar = pedal.New(a.layout.BarOrigin(clutchBarX), w, h)
	a.ffbBar = pedal.New(a.layout.BarOrigin(ffbBarX), w, h)
	a.ffbLayer = render.NewLayer("bar.ffb", render.Grey, a.ffbBar)

	a.renderer.Add(render.NewLayer("bar.throttle", render.Green, a.throttleBar))
	a.renderer.Add(render.NewLayer("bar.brake", render.Red, a.brakeBar))
	a.renderer.Add(render.NewLayer("bar.clutch", render.Blue, a.clutchBar))
	a.renderer.Add(a.ffbLayer)
}

func (a *App) buildWheel() error {
	w, err := indicator.New(a.layout.Wheel())
	if err != nil {
		return fmt.Errorf("wheel: %w", err)
	}
	a.wheel = w
	a.renderer.Add(render.NewLayer("wheel", render.Yellow, w))
	return nil
}

func (a *App) buildLabels() {
	a.speedLabel = label.New("speed", label.FontRegular, label.AlignCenter)
	a.speedLabel.FillHeight(a.layout.SpeedLabel())
	if a.cfg.General.UseKMH {
		a.speedLabel.Postfix = " km/h"
	} else {
		a.speedLabel.Postfix = " mph"
	}

	a.gearLabel = label.New("gear", label.FontBold, label.AlignCenter)
	a.gearLabel.FitHeight(a.layout.GearLabel())

	a.speedLabel.SetText("0")
	a.gearLabel.SetText("N")
	a.renderer.AddLabel(a.speedLabel)
	a.renderer.AddLabel(a.gearLabel)
}

// SetRecorder makes every trace period's telemetry frame go to r.
func (a *App) SetRecorder(r Recorder) {
	a.recorder = r
}

// SetPublisher registers the consumer of published snapshots.
func (a *App) SetPublisher(p Publisher) {
	a.publisher = p
}

// Tick is the physics callback: dt seconds of simulated time have passed.
func (a *App) Tick(ctx context.Context, dt float64) {
	a.sched.Tick(ctx, dt)
}

// Render is the render callback. It only reads geometry.
func (a *App) Render(s render.Surface) (render.Stats, error) {
	stats, err := a.renderer.Render(s)
	logging.FrameLogger.Debug("frame",
		"tick", a.sched.Ticks(),
		"layers", stats.Layers,
		"quads", stats.Quads,
		"labels", stats.Labels,
		"failed", stats.Failed)
	return stats, err
}

// Size returns the window size in pixels.
func (a *App) Size() (width, height float64) {
	return a.layout.Width, a.layout.Height
}

// Layout returns the pixel layout in use.
func (a *App) Layout() Layout {
	return a.layout
}

// Renderer returns the drawable list.
func (a *App) Renderer() *render.Renderer {
	return a.renderer
}

// Channels returns the names of the enabled traces in draw order.
func (a *App) Channels() []string {
	var out []string
	for _, l := range a.renderer.Layers() {
		for name, c := range a.channels {
			if c.layer == l {
				out = append(out, name)
			}
		}
	}
	return out
}

// Trace returns the trace of an enabled channel.
func (a *App) Trace(name string) (*trace.Trace, bool) {
	c, ok := a.channels[name]
	if !ok {
		return nil, false
	}
	return c.trace, true
}

// History returns the bounded history of an enabled channel.
func (a *App) History(name string) (*history.History, bool) {
	c, ok := a.channels[name]
	if !ok {
		return nil, false
	}
	return c.history, true
}

// Wheel returns the steering indicator.
func (a *App) Wheel() *indicator.Wheel {
	return a.wheel
}

func (a *App) fetch(ctx context.Context, job string) (sim.Telemetry, bool) {
	tel, err := a.client.GetTelemetry(ctx)
	if err != nil {
		if !errors.Is(err, sim.ErrNotConnected) {
			a.logger.Warn("Failed to read telemetry", "job", job, "error", err)
		}
		return sim.Telemetry{}, false
	}
	return tel, true
}

// refreshGlobal reads the session-wide values and refreshes the labels.
func (a *App) refreshGlobal(ctx context.Context) {
	tel, ok := a.fetch(ctx, "global")
	if !ok {
		return
	}

	a.timeMul = tel.ReplayTimeMultiplier
	if tel.FocusedCar != a.focusedCar {
		a.logger.Info("Focused car changed", "from", a.focusedCar, "to", tel.FocusedCar)
		a.focusedCar = tel.FocusedCar
	}
	if stage := a.stages.Update(&tel); stage != a.stage {
		a.logger.Info("Session stage changed", "from", sim.FormatStage(a.stage), "to", sim.FormatStage(stage))
		a.stage = stage
	}

	a.speedLabel.SetText(fmt.Sprintf("%.0f", a.car.Speed(a.cfg.General.UseKMH)))
	a.gearLabel.SetText(a.car.GearText())
}

// refreshCar reads the driver inputs and updates the bars and the wheel.
func (a *App) refreshCar(ctx context.Context) {
	tel, ok := a.fetch(ctx, "car")
	if !ok {
		return
	}
	tel.ReplayTimeMultiplier = a.timeMul
	tel.FocusedCar = a.focusedCar
	a.car = tel

	a.wheel.Update(tel.SteeringRad())
	a.throttleBar.Update(tel.Throttle)
	a.brakeBar.Update(tel.Brake)
	a.clutchBar.Update(tel.Clutch)

	if tel.FFBClipping() {
		a.ffbLayer.SetColor(render.Red)
		a.ffbBar.Update(1)
	} else {
		a.ffbLayer.SetColor(render.Grey)
		a.ffbBar.Update(tel.FFB)
	}
}

func (a *App) traceStep(name string) func(context.Context) {
	return func(context.Context) {
		c, ok := a.channels[name]
		if !ok {
			return
		}
		v := c.value(&a.car)
		c.trace.Update(v, a.timeMul)
		c.history.Push(v, a.timeMul)
		logging.Trace(a.logger, "Trace sample", "channel", name, "value", v, "time_mul", a.timeMul, "quads", c.trace.Len())
	}
}

// record hands the current frame to the recorder once per sample period.
func (a *App) record(context.Context) {
	if a.recorder != nil && !a.recorder.Record(a.car) {
		a.logger.Debug("Recorder queue full, frame dropped")
	}
}

// Snapshot returns the last published snapshot.
func (a *App) Snapshot() *Snapshot {
	return a.snap.Load()
}

func (a *App) publish() {
	s := &Snapshot{
		Tick:           a.sched.Ticks(),
		Timestamp:      time.Now().UTC(),
		Stage:          a.stage,
		Mode:           history.ModeOf(a.timeMul).String(),
		TimeMultiplier: a.timeMul,
		FocusedCar:     a.focusedCar,
		Telemetry:      a.car,
		Speed:          a.speedLabel.Text(),
		Gear:           a.gearLabel.Text(),
		Width:          a.layout.Width,
		Height:         a.layout.Height,
		Layers:         a.renderer.Snapshot(),
		Histories:      make(map[string][]float64, len(a.channels)),
	}
	for name, c := range a.channels {
		s.Histories[name] = c.history.Samples()
	}
	a.snap.Store(s)
	if a.publisher != nil {
		a.publisher.Publish(s)
	}
}
