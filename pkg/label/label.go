// Package label models the overlay text labels.
package label

import "traces/pkg/geom"

// Align is the horizontal text alignment relative to the label position.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font selects one of the faces the host provides.
type Font int

const (
	FontRegular Font = iota
	FontBold
)

// Label is a positioned piece of text with a fixed postfix (a unit).
type Label struct {
	Name     string
	Position geom.Point
	Size     float64
	Align    Align
	Font     Font
	Postfix  string

	text string
}

// New creates an empty label.
func New(name string, font Font, align Align) *Label {
	return &Label{Name: name, Font: font, Align: align}
}

// SetText replaces the text before the postfix.
func (l *Label) SetText(s string) {
	l.text = s
}

// Text returns the full label string.
func (l *Label) Text() string {
	return l.text + l.Postfix
}

// FillHeight sizes the label so its glyphs fill height pixels from pos,
// overflowing vertically if needed. Tuned for the Go font metrics.
func (l *Label) FillHeight(pos geom.Point, height float64) {
	l.Size = 1.4 * height
	pos.Y -= height / 3
	l.Position = pos
}

// FitHeight sizes the label to sit centred inside height pixels with spacing.
func (l *Label) FitHeight(pos geom.Point, height float64) {
	l.Size = 0.84 * height
	l.Position = pos
}
