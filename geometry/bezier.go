package geometry

import (
	"errors"
	"math"
)

// ErrDegenerate is returned when a curve cannot be measured.
var ErrDegenerate = errors.New("degenerate curve")

// lengthTolerance is the maximum difference between chord and control-polygon
// length accepted for one subdivided segment.
const (
	lengthTolerance = 0.01
	maxDepth        = 24
)

// Cubic is a cubic Bézier segment.
type Cubic struct {
	P0, P1, P2, P3 Point
}

// VerticalRibbon builds the S-curve between two anchors: each control point
// sits above/below its anchor by min(0.3*span, maxOffset), towards the other.
func VerticalRibbon(from, to Point, maxOffset float64) Cubic {
	span := to.Y - from.Y
	offset := math.Min(span*0.3, maxOffset)
	return Cubic{
		P0: from,
		P1: Point{from.X, from.Y + offset},
		P2: Point{to.X, to.Y - offset},
		P3: to,
	}
}

// At evaluates the curve at t in [0, 1].
func (c Cubic) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Derivative evaluates the first derivative at t.
func (c Cubic) Derivative(t float64) Point {
	mt := 1 - t
	a := c.P1.Sub(c.P0).Scale(3 * mt * mt)
	b := c.P2.Sub(c.P1).Scale(6 * mt * t)
	d := c.P3.Sub(c.P2).Scale(3 * t * t)
	return a.Add(b).Add(d)
}

// Split divides the curve at t using de Casteljau's construction.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)
	return Cubic{c.P0, p01, p012, mid}, Cubic{mid, p123, p23, c.P3}
}

// Length measures the true arc length by adaptive subdivision: a segment is
// accepted once its chord and control polygon agree within tolerance.
func (c Cubic) Length() (float64, error) {
	for _, p := range []Point{c.P0, c.P1, c.P2, c.P3} {
		if !IsFinite(p.X) || !IsFinite(p.Y) {
			return 0, ErrDegenerate
		}
	}
	l := c.length(0)
	if !IsFinite(l) {
		return 0, ErrDegenerate
	}
	return l, nil
}

func (c Cubic) length(depth int) float64 {
	chord := Distance(c.P0, c.P3)
	poly := Distance(c.P0, c.P1) + Distance(c.P1, c.P2) + Distance(c.P2, c.P3)
	if poly-chord <= lengthTolerance || depth >= maxDepth {
		// Gravesen's estimate for a nearly flat segment
		return (2*chord + poly) / 3
	}
	left, right := c.Split(0.5)
	return left.length(depth+1) + right.length(depth+1)
}

// Flatten samples the curve into at least n+1 points.
func (c Cubic) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}

// PathData renders the curve as SVG path data ("M x y C ...").
func (c Cubic) PathData() string {
	return "M " + fmtPoint(c.P0) + " C " + fmtPoint(c.P1) + ", " + fmtPoint(c.P2) + ", " + fmtPoint(c.P3)
}
