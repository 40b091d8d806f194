// Package geometry provides the float geometry used to build ribbons.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate in canvas space.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Distance returns the euclidean distance between two points.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CenterX returns the horizontal centre.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// FormatFloat writes a coordinate the way it appears in path data.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// fmtPoint renders "x y".
func fmtPoint(p Point) string {
	var sb strings.Builder
	sb.WriteString(FormatFloat(p.X))
	sb.WriteByte(' ')
	sb.WriteString(FormatFloat(p.Y))
	return sb.String()
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%s)", fmtPoint(p))
}
