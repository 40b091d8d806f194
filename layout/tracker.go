// Package layout measures rendered token geometry.
//
// The tracker converts token boxes reported by a Surface into anchor
// coordinates in the ribbon canvas's own coordinate space, so ribbon
// geometry never depends on where the canvas sits on the page or screen.
package layout

import (
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/geometry"
)

// Element is one mounted token element.
type Element struct {
	ID   string
	Side alignment.Side
	Box  geometry.Rect // surface coordinates
}

// Surface exposes whatever the renderer has currently mounted.
type Surface interface {
	// Canvas returns the ribbon canvas box; false while it is not mounted.
	Canvas() (geometry.Rect, bool)
	// Elements returns the mounted token elements of one side in row order.
	Elements(side alignment.Side) []Element
}

// TokenPosition is a token's ribbon anchor in canvas-local coordinates.
type TokenPosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Anchor returns the anchor as a point.
func (p TokenPosition) Anchor() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Positions is the result of one measurement pass.
type Positions struct {
	Source []TokenPosition `json:"source"`
	Target []TokenPosition `json:"target"`
	Canvas geometry.Rect   `json:"canvas"`
}

// Ready reports whether both rows have at least one measured token.
func (p Positions) Ready() bool {
	return len(p.Source) > 0 && len(p.Target) > 0
}

// Lookup returns the position of id on side.
func (p Positions) Lookup(side alignment.Side, id string) (TokenPosition, bool) {
	list := p.Source
	if side == alignment.Target {
		list = p.Target
	}
	for _, pos := range list {
		if pos.ID == id {
			return pos, true
		}
	}
	return TokenPosition{}, false
}

// Reason explains why positions were invalidated.
type Reason int

const (
	PairChanged Reason = iota
	LayerChanged
	Resized
)

// String returns the reason name for display
func (r Reason) String() string {
	switch r {
	case PairChanged:
		return "pair-changed"
	case LayerChanged:
		return "layer-changed"
	case Resized:
		return "resized"
	default:
		return "unknown"
	}
}

// Tracker owns the measured positions of one visualizer instance.
type Tracker struct {
	offset float64 // distance of anchors outside the canvas edges
	log    *zap.Logger

	generation uint64
	stale      bool
	pending    bool
	current    Positions
}

// NewTracker creates a tracker. offset is the gap between the canvas edge and
// the anchors (above the top edge for source, below the bottom for target).
func NewTracker(offset float64, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{offset: offset, log: log, stale: true}
}

// Invalidate marks positions stale and starts a new render generation.
func (t *Tracker) Invalidate(reason Reason) {
	t.generation++
	t.stale = true
	t.log.Debug("Token positions invalidated", zap.Stringer("reason", reason), zap.Uint64("generation", t.generation))
}

// Generation returns the current render generation.
func (t *Tracker) Generation() uint64 {
	return t.generation
}

// Stale reports whether a measurement pass is needed.
func (t *Tracker) Stale() bool {
	return t.stale
}

// Positions returns the last committed measurement.
func (t *Tracker) Positions() Positions {
	return t.current
}

// Pass is one in-flight measurement bound to a render generation.
type Pass struct {
	tracker    *Tracker
	generation uint64
}

// Begin opens a measurement pass. It refuses when nothing is stale or when a
// pass is already in flight, so there is at most one pass per generation.
func (t *Tracker) Begin() (*Pass, bool) {
	if !t.stale || t.pending {
		return nil, false
	}
	t.pending = true
	return &Pass{tracker: t, generation: t.generation}, true
}

// Complete measures the surface and commits the result. It reports whether
// the result was committed; a pass overtaken by a newer invalidation is
// dropped and the tracker stays stale.
func (p *Pass) Complete(s Surface) (Positions, bool) {
	t := p.tracker
	t.pending = false
	positions := Measure(s, t.offset)
	if p.generation != t.generation {
		t.log.Debug("Dropping measurement of superseded generation",
			zap.Uint64("pass", p.generation), zap.Uint64("current", t.generation))
		return t.current, false
	}
	t.current = positions
	t.stale = false
	return positions, true
}

// Abort releases the pass without committing.
func (p *Pass) Abort() {
	p.tracker.pending = false
}

// Measure converts mounted elements into canvas-local anchors. An unmounted
// canvas yields empty positions; callers re-measure once it exists.
func Measure(s Surface, offset float64) Positions {
	canvas, ok := s.Canvas()
	if !ok {
		return Positions{}
	}
	return Positions{
		Source: measureSide(s.Elements(alignment.Source), canvas, -offset),
		Target: measureSide(s.Elements(alignment.Target), canvas, canvas.Height+offset),
		Canvas: canvas,
	}
}

func measureSide(elements []Element, canvas geometry.Rect, anchorY float64) []TokenPosition {
	seen := make(map[string]bool, len(elements))
	out := make([]TokenPosition, 0, len(elements))
	for _, e := range elements {
		if e.ID == "" || e.Box.Empty() || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, TokenPosition{
			ID:     e.ID,
			X:      e.Box.CenterX() - canvas.X,
			Y:      anchorY,
			Width:  e.Box.Width,
			Height: e.Box.Height,
		})
	}
	return out
}
