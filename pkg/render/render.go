// Package render walks the overlay drawables once per frame and issues
// primitive draw calls to the host surface.
package render

import (
	"errors"
	"fmt"
	"log/slog"

	"traces/pkg/geom"
	"traces/pkg/label"
)

// QuadSource is any geometry builder exposing its current quads.
type QuadSource interface {
	EachQuad(fn func(q geom.Quad))
}

// Surface is the host 2D renderer. Every DrawQuad is an independent filled
// quad of four vertices.
type Surface interface {
	SetColor(c Color)
	DrawQuad(q geom.Quad) error
	DrawText(l *label.Label, c Color) error
}

// Layer pairs a geometry source with its name and flat color.
type Layer struct {
	name  string
	color Color
	src   QuadSource
}

// NewLayer creates a named, colored layer.
func NewLayer(name string, c Color, src QuadSource) *Layer {
	return &Layer{name: name, color: c, src: src}
}

func (l *Layer) Name() string { return l.name }
func (l *Layer) Color() Color { return l.color }
func (l *Layer) SetColor(c Color) { l.color = c }
func (l *Layer) Source() QuadSource { return l.src }

// Stats summarizes one rendered frame.
type Stats struct {
	Layers int
	Quads  int
	Labels int
	Failed int
}

// Renderer holds the ordered drawable list. Later layers paint over earlier
// ones; labels are drawn last.
type Renderer struct {
	layers     []*Layer
	labels     []*label.Label
	labelColor Color
	logger     *slog.Logger
}

// NewRenderer creates an empty renderer. A nil logger falls back to
// slog.Default.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{labelColor: White, logger: logger}
}

// Add appends a layer unless it is already present.
func (r *Renderer) Add(l *Layer) {
	for _, have := range r.layers {
		if have == l {
			return
		}
	}
	r.layers = append(r.layers, l)
}

// Remove drops a layer.
func (r *Renderer) Remove(l *Layer) {
	for i, have := range r.layers {
		if have == l {
			r.layers = append(r.layers[:i], r.layers[i+1:]...)
			return
		}
	}
}

// AddLabel appends a text label.
func (r *Renderer) AddLabel(l *label.Label) {
	r.labels = append(r.labels, l)
}

// SetLabelColor sets the color used for all labels.
func (r *Renderer) SetLabelColor(c Color) {
	r.labelColor = c
}

// Layers returns the drawables in draw order.
func (r *Renderer) Layers() []*Layer {
	return r.layers
}

// Labels returns the labels in draw order.
func (r *Renderer) Labels() []*label.Label {
	return r.labels
}

// Render draws every layer and label. A failing drawable is logged and
// skipped; the returned error joins all failures of the frame.
func (r *Renderer) Render(s Surface) (Stats, error) {
	var stats Stats
	var errs []error

	for _, l := range r.layers {
		n, err := r.drawLayer(s, l)
		stats.Quads += n
		if err != nil {
			stats.Failed++
			r.logger.Error("Failed to draw layer", "drawable", l.name, "quads_drawn", n, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
			continue
		}
		stats.Layers++
	}

	if len(r.labels) > 0 {
		s.SetColor(r.labelColor)
	}
	for _, lb := range r.labels {
		if err := r.drawLabel(s, lb); err != nil {
			stats.Failed++
			r.logger.Error("Failed to draw label", "drawable", lb.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", lb.Name, err))
			continue
		}
		stats.Labels++
	}

	return stats, errors.Join(errs...)
}

// drawLayer stops at the first failing quad of a layer and turns backend
// panics into errors.
func (r *Renderer) drawLayer(s Surface, l *Layer) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	s.SetColor(l.color)
	var drawErr error
	l.src.EachQuad(func(q geom.Quad) {
		if drawErr != nil {
			return
		}
		if drawErr = s.DrawQuad(q); drawErr == nil {
			n++
		}
	})
	return n, drawErr
}

func (r *Renderer) drawLabel(s Surface, lb *label.Label) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return s.DrawText(lb, r.labelColor)
}

// LayerSnapshot is a detached copy of one layer's geometry.
type LayerSnapshot struct {
	Name  string      `json:"name"`
	Color Color       `json:"color"`
	Quads []geom.Quad `json:"quads"`
}

// Snapshot copies the current geometry of every layer so it can be handed
// to other goroutines.
func (r *Renderer) Snapshot() []LayerSnapshot {
	out := make([]LayerSnapshot, 0, len(r.layers))
	for _, l := range r.layers {
		snap := LayerSnapshot{Name: l.name, Color: l.color}
		l.src.EachQuad(func(q geom.Quad) {
			snap.Quads = append(snap.Quads, q)
		})
		out = append(out, snap)
	}
	return out
}
