package layout

import (
	"testing"

	"ribbons/alignment"
	"ribbons/geometry"
)

// boxValidator checks arranged token boxes.
type boxValidator struct {
	t *testing.T
}

func newBoxValidator(t *testing.T) *boxValidator {
	t.Helper()
	return &boxValidator{t: t}
}

// noOverlaps ensures no two boxes share any area.
func (v *boxValidator) noOverlaps(boxes []geometry.Rect) {
	v.t.Helper()
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			a, b := boxes[i], boxes[j]
			if a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				v.t.Errorf("Boxes %d and %d overlap: %+v and %+v", i, j, a, b)
			}
		}
	}
}

// within ensures every box lies inside [x0, x0+width).
func (v *boxValidator) within(boxes []geometry.Rect, x0, width float64) {
	v.t.Helper()
	for i, b := range boxes {
		if b.X < x0 || (b.X > x0 && b.X+b.Width > x0+width) {
			v.t.Errorf("Box %d outside row [%v, %v): %+v", i, x0, x0+width, b)
		}
	}
}

// stubSurface is a Surface with fixed contents.
type stubSurface struct {
	canvas  geometry.Rect
	mounted bool
	source  []Element
	target  []Element
}

func (s *stubSurface) Canvas() (geometry.Rect, bool) {
	return s.canvas, s.mounted
}

func (s *stubSurface) Elements(side alignment.Side) []Element {
	if side == alignment.Target {
		return s.target
	}
	return s.source
}

func element(id string, side alignment.Side, x, y, w, h float64) Element {
	return Element{ID: id, Side: side, Box: geometry.Rect{X: x, Y: y, Width: w, Height: h}}
}

// charWidth measures every rune as 10 units.
func charWidth(s string) float64 {
	return float64(len([]rune(s))) * 10
}

func catPair() *alignment.SentencePair {
	return &alignment.SentencePair{
		ID: "cat",
		Source: alignment.TokenizedSentence{Lang: "en", Text: "The cat sleeps", Tokens: []alignment.Token{
			{ID: "s0", Form: "The"}, {ID: "s1", Form: "cat"}, {ID: "s2", Form: "sleeps"},
		}},
		Target: alignment.TokenizedSentence{Lang: "eu", Text: "Katua lo dago", Tokens: []alignment.Token{
			{ID: "t0", Form: "Katua"}, {ID: "t1", Form: "lo"}, {ID: "t2", Form: "dago"},
		}},
	}
}
