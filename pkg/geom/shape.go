package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Line is a segment between two points.
type Line struct {
	Points [2]Point `json:"points"`
}

// Triangle is a shape of three points.
type Triangle struct {
	Points [3]Point `json:"points"`
}

// Quad is a shape of four points. Quads built by this module are wound
// counterclockwise as seen on screen.
type Quad struct {
	Points [4]Point `json:"points"`
}

// NewLine builds a line from a to b.
func NewLine(a, b Point) Line {
	return Line{Points: [2]Point{a, b}}
}

// NewTriangle builds a triangle from three points.
func NewTriangle(a, b, c Point) Triangle {
	return Triangle{Points: [3]Point{a, b, c}}
}

// NewQuad builds a quad from four points, kept in the given order.
func NewQuad(a, b, c, d Point) Quad {
	return Quad{Points: [4]Point{a, b, c, d}}
}

func (l *Line) Translate(d Point) { translateAll(l.Points[:], d) }
func (l *Line) TranslateScalar(v float64) { translateAll(l.Points[:], Pt(v, v)) }
func (l *Line) Scale(f Point) { scaleAll(l.Points[:], f) }
func (l *Line) ScaleScalar(v float64) { scaleAll(l.Points[:], Pt(v, v)) }
func (l *Line) RotateRad(a float64, c Point) { rotateAll(l.Points[:], NewRotation(a), c) }
func (l *Line) RotateDeg(a float64, c Point) { rotateAll(l.Points[:], NewRotation(DegToRad(a)), c) }

func (t *Triangle) Translate(d Point) { translateAll(t.Points[:], d) }
func (t *Triangle) TranslateScalar(v float64) { translateAll(t.Points[:], Pt(v, v)) }
func (t *Triangle) Scale(f Point) { scaleAll(t.Points[:], f) }
func (t *Triangle) ScaleScalar(v float64) { scaleAll(t.Points[:], Pt(v, v)) }
func (t *Triangle) RotateRad(a float64, c Point) {
	rotateAll(t.Points[:], NewRotation(a), c)
}
func (t *Triangle) RotateDeg(a float64, c Point) {
	rotateAll(t.Points[:], NewRotation(DegToRad(a)), c)
}

func (q *Quad) Translate(d Point) { translateAll(q.Points[:], d) }
func (q *Quad) TranslateScalar(v float64) { translateAll(q.Points[:], Pt(v, v)) }
func (q *Quad) Scale(f Point) { scaleAll(q.Points[:], f) }
func (q *Quad) ScaleScalar(v float64) { scaleAll(q.Points[:], Pt(v, v)) }
func (q *Quad) RotateRad(a float64, c Point) {
	q.Rotate(NewRotation(a), c)
}
func (q *Quad) RotateDeg(a float64, c Point) {
	q.Rotate(NewRotation(DegToRad(a)), c)
}

// Rotate applies a precomputed rotation, for callers rotating many quads by
// the same angle.
func (q *Quad) Rotate(r Rotation, c Point) {
	rotateAll(q.Points[:], r, c)
}

// ShiftX moves every point horizontally by dx.
func (q *Quad) ShiftX(dx float64) {
	for i := range q.Points {
		q.Points[i].X += dx
	}
}

// Ring returns the quad as a closed orb ring.
func (q Quad) Ring() orb.Ring {
	return orb.Ring{
		q.Points[0].Orb(),
		q.Points[1].Orb(),
		q.Points[2].Orb(),
		q.Points[3].Orb(),
		q.Points[0].Orb(),
	}
}

// Bound returns the axis-aligned bounding box.
func (q Quad) Bound() orb.Bound {
	return q.Ring().Bound()
}

// Area returns the unsigned area in square pixels.
func (q Quad) Area() float64 {
	return math.Abs(planar.Area(q.Ring()))
}

// ScreenCCW reports whether the quad is wound counterclockwise on screen.
// orb measures orientation in a Y-up frame, so on a Y-down surface a
// screen-CCW quad reads as orb.CW.
func (q Quad) ScreenCCW() bool {
	return q.Ring().Orientation() == orb.CW
}

func translateAll(pts []Point, d Point) {
	for i := range pts {
		pts[i].Translate(d)
	}
}

func scaleAll(pts []Point, f Point) {
	for i := range pts {
		pts[i].Scale(f)
	}
}

func rotateAll(pts []Point, r Rotation, c Point) {
	for i := range pts {
		pts[i].rotate(r, c)
	}
}
