// Package geom provides the 2D value types the overlay builds its geometry
// from. Coordinates are pixels with Y growing downwards.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a position in the 2D pixel plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Translate adds d to the point.
func (p *Point) Translate(d Point) {
	p.X += d.X
	p.Y += d.Y
}

// TranslateScalar adds v to both coordinates.
func (p *Point) TranslateScalar(v float64) {
	p.X += v
	p.Y += v
}

// Scale multiplies each coordinate by the matching factor of f.
func (p *Point) Scale(f Point) {
	p.X *= f.X
	p.Y *= f.Y
}

// ScaleScalar multiplies both coordinates by v.
func (p *Point) ScaleScalar(v float64) {
	p.X *= v
	p.Y *= v
}

// RotateRad rotates the point by angle radians about center.
// Positive angles are counterclockwise in a Y-up frame, which shows up as
// clockwise on screen.
func (p *Point) RotateRad(angle float64, center Point) {
	p.rotate(NewRotation(angle), center)
}

// RotateDeg is RotateRad with the angle in degrees.
func (p *Point) RotateDeg(angle float64, center Point) {
	p.RotateRad(DegToRad(angle), center)
}

func (p *Point) rotate(r Rotation, center Point) {
	x := p.X - center.X
	y := p.Y - center.Y
	p.X = x*r.cos - y*r.sin + center.X
	p.Y = x*r.sin + y*r.cos + center.Y
}

// Orb converts the point to an orb.Point.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Rotation caches the cosine and sine of an angle so that every point of a
// batch rotates with the same trig values.
type Rotation struct {
	cos float64
	sin float64
}

// NewRotation computes the trig values for angle (radians).
func NewRotation(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{cos: c, sin: s}
}

// Apply rotates every point in pts about center.
func (r Rotation) Apply(center Point, pts ...*Point) {
	for _, p := range pts {
		p.rotate(r, center)
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
