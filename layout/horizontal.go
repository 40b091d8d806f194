package layout

import "ribbons/geometry"

// RowLayout flows token boxes left to right, wrapping onto a new line when
// the next box would cross the maximum width.
type RowLayout struct {
	gap        float64
	lineHeight float64
	lineGap    float64
	maxWidth   float64
}

// NewRowLayout creates a RowLayout.
func NewRowLayout(maxWidth, gap, lineHeight, lineGap float64) *RowLayout {
	return &RowLayout{
		gap:        gap,
		lineHeight: lineHeight,
		lineGap:    lineGap,
		maxWidth:   maxWidth,
	}
}

// Name returns the name of this layout algorithm.
func (r *RowLayout) Name() string {
	return "RowLayout"
}

// Layout places boxes of the given widths starting at origin and returns the
// boxes plus the total height used. A box wider than the row still gets a
// line of its own.
func (r *RowLayout) Layout(widths []float64, origin geometry.Point) ([]geometry.Rect, float64) {
	if len(widths) == 0 {
		return nil, 0
	}
	boxes := make([]geometry.Rect, len(widths))
	x, y := origin.X, origin.Y
	for i, w := range widths {
		if x > origin.X && x+w > origin.X+r.maxWidth {
			x = origin.X
			y += r.lineHeight + r.lineGap
		}
		boxes[i] = geometry.Rect{X: x, Y: y, Width: w, Height: r.lineHeight}
		x += w + r.gap
	}
	return boxes, y + r.lineHeight - origin.Y
}
