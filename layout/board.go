package layout

import (
	"ribbons/alignment"
	"ribbons/geometry"
)

// BoardOptions controls the arrangement of a sentence pair.
type BoardOptions struct {
	Width        float64 // total board width
	Margin       float64 // outer margin on every edge
	Gap          float64 // horizontal gap between tokens
	LineHeight   float64 // height of one token line
	LineGap      float64 // vertical gap between wrapped token lines
	HeaderHeight float64 // space for the language tag and sentence text
	CanvasHeight float64 // height of the ribbon space
	TokenPadding float64 // horizontal padding added to each token's text width
}

// TextMeasure returns the rendered width of a string.
type TextMeasure func(s string) float64

// Board is an arranged sentence pair: source header, source tokens, ribbon
// canvas, target tokens, target header, top to bottom. It implements Surface.
type Board struct {
	Width, Height float64
	SourceHeader  geometry.Rect
	TargetHeader  geometry.Rect

	canvas  geometry.Rect
	source  []Element
	target  []Element
	mounted bool
}

// Arrange lays out a pair. measure supplies text widths in board units.
func Arrange(p *alignment.SentencePair, measure TextMeasure, opts BoardOptions) *Board {
	inner := opts.Width - 2*opts.Margin
	rows := NewRowLayout(inner, opts.Gap, opts.LineHeight, opts.LineGap)

	b := &Board{Width: opts.Width, mounted: true}
	y := opts.Margin

	b.SourceHeader = geometry.Rect{X: opts.Margin, Y: y, Width: inner, Height: opts.HeaderHeight}
	y += opts.HeaderHeight

	var h float64
	b.source, h = arrangeRow(p.Source, alignment.Source, rows, measure, opts, geometry.Point{X: opts.Margin, Y: y})
	y += h

	b.canvas = geometry.Rect{X: opts.Margin, Y: y, Width: inner, Height: opts.CanvasHeight}
	y += opts.CanvasHeight

	b.target, h = arrangeRow(p.Target, alignment.Target, rows, measure, opts, geometry.Point{X: opts.Margin, Y: y})
	y += h

	b.TargetHeader = geometry.Rect{X: opts.Margin, Y: y, Width: inner, Height: opts.HeaderHeight}
	y += opts.HeaderHeight

	b.Height = y + opts.Margin
	return b
}

func arrangeRow(s alignment.TokenizedSentence, side alignment.Side, rows *RowLayout, measure TextMeasure, opts BoardOptions, origin geometry.Point) ([]Element, float64) {
	widths := make([]float64, len(s.Tokens))
	for i, t := range s.Tokens {
		widths[i] = measure(t.Form) + 2*opts.TokenPadding
	}
	boxes, h := rows.Layout(widths, origin)
	elements := make([]Element, len(s.Tokens))
	for i, t := range s.Tokens {
		elements[i] = Element{ID: t.ID, Side: side, Box: boxes[i]}
	}
	return elements, h
}

// Canvas implements Surface.
func (b *Board) Canvas() (geometry.Rect, bool) {
	if b == nil || !b.mounted {
		return geometry.Rect{}, false
	}
	return b.canvas, true
}

// Elements implements Surface.
func (b *Board) Elements(side alignment.Side) []Element {
	if b == nil || !b.mounted {
		return nil
	}
	if side == alignment.Target {
		return b.target
	}
	return b.source
}

// Unmount hides the board from measurement, as before the first render.
func (b *Board) Unmount() {
	b.mounted = false
}

// HitTest returns the token element under a point.
func (b *Board) HitTest(p geometry.Point) (Element, bool) {
	if b == nil {
		return Element{}, false
	}
	for _, list := range [][]Element{b.source, b.target} {
		for _, e := range list {
			if e.Box.Contains(p) {
				return e, true
			}
		}
	}
	return Element{}, false
}
