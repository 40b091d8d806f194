package canvas

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"ribbons/geometry"
	"ribbons/ribbon"
)

// Glyphs used for ribbon strokes.
type Glyphs struct {
	Vertical   rune
	Falling    rune // x grows as y grows
	Rising     rune
	Horizontal rune
	Faint      rune // any direction, very low opacity
	Dot        rune
}

// DefaultGlyphs are box-drawing glyphs.
var DefaultGlyphs = Glyphs{
	Vertical:   '│',
	Falling:    '╲',
	Rising:     '╱',
	Horizontal: '─',
	Faint:      '·',
	Dot:        '●',
}

// faintAlpha is the opacity below which strokes use the faint glyph.
const faintAlpha = 0.3

// RasterOptions controls scene rasterization.
type RasterOptions struct {
	Glyphs Glyphs
	// Progress returns the revealed fraction of a ribbon in [0, 1]. Nil uses
	// the ribbon's dash state.
	Progress func(r ribbon.Ribbon) float64
	// DotVisible filters dots; nil shows dots with non-zero opacity.
	DotVisible func(d ribbon.Dot) bool
}

// Revealed returns the revealed fraction implied by a ribbon's dash.
func Revealed(r ribbon.Ribbon) float64 {
	if r.Dash == nil || r.Dash.Array <= 0 {
		return 1
	}
	return geometry.Clamp(1-r.Dash.Offset/r.Dash.Array, 0, 1)
}

// DrawScene rasterizes ribbons and dots into the rows of area. Scene
// coordinates are relative to area's top-left corner. Anchors sit just
// outside the area; their dots are pulled onto the nearest row inside it.
func (c *MatrixCanvas) DrawScene(scene ribbon.Scene, area geometry.Rect, color colorful.Color, opts RasterOptions) {
	if opts.Glyphs == (Glyphs{}) {
		opts.Glyphs = DefaultGlyphs
	}
	progress := opts.Progress
	if progress == nil {
		progress = Revealed
	}
	top := int(math.Floor(area.Y))
	bottom := int(math.Ceil(area.Y+area.Height)) - 1

	for _, r := range scene.Ribbons {
		f := progress(r)
		if f <= 0 {
			continue
		}
		c.drawRibbon(r, area, top, bottom, f, Ink{Color: color, Alpha: r.Opacity}, opts.Glyphs)
	}

	for _, d := range scene.Dots {
		if opts.DotVisible != nil && !opts.DotVisible(d) {
			continue
		}
		if d.Opacity <= 0 {
			continue
		}
		x := int(math.Floor(area.X + d.Center.X))
		y := int(math.Floor(area.Y + d.Center.Y))
		y = max(top, min(bottom, y))
		_ = c.Set(x, y, opts.Glyphs.Dot, Ink{Color: color, Alpha: d.Opacity, Attr: AttrBold})
	}
}

func (c *MatrixCanvas) drawRibbon(r ribbon.Ribbon, area geometry.Rect, top, bottom int, fraction float64, ink Ink, g Glyphs) {
	curve := r.Curve
	if fraction < 1 {
		curve, _ = curve.Split(fraction)
	}
	steps := int(math.Ceil(r.Length*fraction*2)) + 8
	for i, p := range curve.Flatten(steps) {
		x := int(math.Floor(area.X + p.X))
		y := int(math.Floor(area.Y + p.Y))
		if y < top || y > bottom {
			continue
		}
		_ = c.Set(x, y, glyphFor(curve.Derivative(float64(i)/float64(steps)), ink.Alpha, g), ink)
	}
}

// glyphFor picks a stroke glyph from the local direction.
func glyphFor(d geometry.Point, alpha float64, g Glyphs) rune {
	if alpha < faintAlpha {
		return g.Faint
	}
	dx, dy := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case dx < 0.5*dy:
		return g.Vertical
	case dx > 2*dy:
		return g.Horizontal
	case (d.X > 0) == (d.Y > 0):
		return g.Falling
	default:
		return g.Rising
	}
}
