package overlay

import (
	"traces/pkg/config"
	"traces/pkg/geom"
	"traces/pkg/indicator"
	"traces/pkg/trace"
)

// Design-space positions, multiplied by Layout.Scale.
const (
	barBaseY       = 450.0
	throttleBarX   = 1555.0
	brakeBarX      = 1480.0
	clutchBarX     = 1405.0
	ffbBarX        = 1630.0
	wheelX         = 1935.0
	wheelY         = 300.0
	wheelOuter     = 150.0
	wheelInner     = 112.0
	speedLabelSize = 50.0
)

// Layout converts the window height into the pixel geometry of every
// drawable.
type Layout struct {
	Width     float64
	Height    float64
	Scale     float64
	Padding   float64
	Thickness float64
}

// NewLayout derives the layout from the configuration.
func NewLayout(cfg *config.Config) Layout {
	return Layout{
		Width:     cfg.AppWidth(),
		Height:    cfg.AppHeight(),
		Scale:     cfg.AppScale(),
		Padding:   config.AppPadding,
		Thickness: cfg.Traces.Thickness,
	}
}

// Trace returns the drawing area shared by all traces.
func (l Layout) Trace(sampleSize int) trace.Config {
	half := l.Thickness / 2
	return trace.Config{
		Origin:     geom.Pt(l.Height*l.Padding+half, l.Height*(1-l.Padding)-half),
		Width:      l.Height*2.5 - l.Thickness,
		Height:     l.Height*(1-2*l.Padding) - l.Thickness,
		SampleSize: sampleSize,
		Thickness:  l.Thickness,
	}
}

// BarOrigin returns the bottom-left corner of a pedal bar at design x.
func (l Layout) BarOrigin(x float64) geom.Point {
	return geom.Pt(x*l.Scale, barBaseY*l.Scale)
}

// BarWidth returns the pedal bar width.
func (l Layout) BarWidth() float64 {
	return l.Height * l.Padding
}

// BarHeight returns the height of a bar at level 1.
func (l Layout) BarHeight() float64 {
	return l.Height * (1 - 2*l.Padding)
}

// Wheel returns the steering indicator geometry.
func (l Layout) Wheel() indicator.Config {
	return indicator.Config{
		Pivot:       geom.Pt(wheelX*l.Scale, wheelY*l.Scale),
		OuterRadius: wheelOuter * l.Scale,
		InnerRatio:  wheelInner / wheelOuter,
		Offsets:     indicator.DefaultOffsets,
	}
}

// SpeedLabel returns the anchor and height of the speed readout above the
// wheel.
func (l Layout) SpeedLabel() (geom.Point, float64) {
	return geom.Pt(wheelX*l.Scale, l.Padding*l.Height), speedLabelSize * l.Scale
}

// GearLabel returns the anchor and height of the gear readout inside the
// wheel rim.
func (l Layout) GearLabel() (geom.Point, float64) {
	return geom.Pt(wheelX*l.Scale, (wheelY-wheelInner)*l.Scale), 2 * wheelInner * l.Scale
}
