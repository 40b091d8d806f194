// Package ribbon turns alignments, measured anchors and interaction state into
// a drawable scene of curves, endpoint dots and labels.
package ribbon

import (
	"fmt"
	"time"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/geometry"
	"ribbons/interaction"
	"ribbons/layout"
)

// Opacity levels.
const (
	OpacityFull     = 1.0
	OpacityPreview  = 0.7
	OpacityBaseline = 0.6
	OpacityDimmed   = 0.15
)

// Arity classifies an alignment by the number of resolved anchors per side.
type Arity int

const (
	OneToOne Arity = iota
	OneToMany
	ManyToOne
	ManyToMany
)

// String returns the arity in n:m notation
func (a Arity) String() string {
	switch a {
	case OneToOne:
		return "1:1"
	case OneToMany:
		return "1:N"
	case ManyToOne:
		return "N:1"
	case ManyToMany:
		return "N:M"
	default:
		return "unknown"
	}
}

// Classify returns the arity for the given side counts.
func Classify(sources, targets int) Arity {
	switch {
	case sources <= 1 && targets <= 1:
		return OneToOne
	case sources <= 1:
		return OneToMany
	case targets <= 1:
		return ManyToOne
	default:
		return ManyToMany
	}
}

// FanOut reports whether the arity decomposes into several sub-ribbons.
func (a Arity) FanOut() bool {
	return a != OneToOne
}

// Options holds the drawing constants.
type Options struct {
	StrokeWidth       float64
	FanoutStrokeWidth float64
	FanoutOpacity     float64 // multiplier applied to sub-ribbons
	DotRadius         float64
	FanoutDotRadius   float64
	SourceDotDelay    time.Duration // dot fade-in delay behind a revealing stroke
	TargetDotDelay    time.Duration
	FanoutDotStep     time.Duration // added per dot along a fan-out side
	MaxControlOffset  float64
	MinLength         float64 // measured lengths below this use FallbackLength
	FallbackLength    float64
	Timing            animation.Timing
}

// DefaultOptions returns the standard drawing constants.
func DefaultOptions() Options {
	return Options{
		StrokeWidth:       3,
		FanoutStrokeWidth: 2.5,
		FanoutOpacity:     0.8,
		DotRadius:         4,
		FanoutDotRadius:   3,
		SourceDotDelay:    300 * time.Millisecond,
		TargetDotDelay:    350 * time.Millisecond,
		FanoutDotStep:     50 * time.Millisecond,
		MaxControlOffset:  50,
		MinLength:         50,
		FallbackLength:    150,
		Timing:            animation.DefaultTiming(),
	}
}

// Dash is a stroke-dash reveal. Offset equal to Array hides the stroke,
// zero shows it fully.
type Dash struct {
	Array  float64       `json:"array"`
	Offset float64       `json:"offset"`
	Delay  time.Duration `json:"delay"`
}

// Ribbon is one drawable curve. A fan-out alignment yields several ribbons
// sharing Index.
type Ribbon struct {
	Index       int            `json:"index"`
	Sub         int            `json:"sub"`
	Arity       Arity          `json:"-"`
	Source      string         `json:"source"`
	Target      string         `json:"target"`
	Curve       geometry.Cubic `json:"-"`
	Path        string         `json:"path"`
	Length      float64        `json:"length"`
	Width       float64        `json:"width"`
	Opacity     float64        `json:"opacity"`
	Dash        *Dash          `json:"dash,omitempty"`
	Highlighted bool           `json:"highlighted"`
	Animating   bool           `json:"animating"`
}

// Dot is an endpoint marker.
type Dot struct {
	Index   int            `json:"index"`
	Side    alignment.Side `json:"-"`
	TokenID string         `json:"token"`
	Center  geometry.Point `json:"center"`
	Radius  float64        `json:"radius"`
	Opacity float64        `json:"opacity"`
	Delay   time.Duration  `json:"delay"`
}

// Label is a visible alignment label.
type Label struct {
	Index  int      `json:"index"`
	Text   string   `json:"text"`
	Source []string `json:"source"`
	Target []string `json:"target"`
}

// Scene is everything drawn into the ribbon canvas. Coordinates are canvas
// local.
type Scene struct {
	Layer   alignment.Layer `json:"-"`
	Color   string          `json:"color"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Ribbons []Ribbon        `json:"ribbons"`
	Dots    []Dot           `json:"dots"`
	Labels  []Label         `json:"labels"`
}

// RibbonsFor returns the ribbons of one alignment.
func (s Scene) RibbonsFor(index int) []Ribbon {
	var out []Ribbon
	for _, r := range s.Ribbons {
		if r.Index == index {
			out = append(out, r)
		}
	}
	return out
}

// DotsFor returns the dots of one alignment on one side.
func (s Scene) DotsFor(index int, side alignment.Side) []Dot {
	var out []Dot
	for _, d := range s.Dots {
		if d.Index == index && d.Side == side {
			out = append(out, d)
		}
	}
	return out
}

// Opacity returns the stroke opacity of alignment i before the fan-out
// multiplier.
func Opacity(i int, snap interaction.Snapshot) float64 {
	if !snap.AnyHighlighted() {
		return OpacityBaseline
	}
	origin, ok := snap.Origin(i)
	if !ok {
		return OpacityDimmed
	}
	if origin == interaction.OriginPreview {
		return OpacityPreview
	}
	return OpacityFull
}

// Build produces the scene for one layer. color is the layer accent.
func Build(alignments []alignment.Alignment, pos layout.Positions, snap interaction.Snapshot, color string, opts Options) Scene {
	scene := Scene{
		Layer:   snap.Layer,
		Color:   color,
		Width:   pos.Canvas.Width,
		Height:  pos.Canvas.Height,
		Ribbons: []Ribbon{},
		Dots:    []Dot{},
		Labels:  []Label{},
	}
	for i, a := range alignments {
		sources := resolve(pos, alignment.Source, a.Source)
		targets := resolve(pos, alignment.Target, a.Target)
		if len(sources) > 0 && len(targets) > 0 {
			ribbons, dots := buildAlignment(i, sources, targets, snap, opts)
			scene.Ribbons = append(scene.Ribbons, ribbons...)
			scene.Dots = append(scene.Dots, dots...)
		}
		if snap.LabelVisible(i) && a.Label != "" {
			scene.Labels = append(scene.Labels, Label{Index: i, Text: a.Label, Source: a.Source, Target: a.Target})
		}
	}
	return scene
}

// resolve maps ids to positions, dropping unresolved and repeated ids.
func resolve(pos layout.Positions, side alignment.Side, ids []string) []layout.TokenPosition {
	seen := make(map[string]bool, len(ids))
	out := make([]layout.TokenPosition, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		p, ok := pos.Lookup(side, id)
		if !ok {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out
}

func buildAlignment(i int, sources, targets []layout.TokenPosition, snap interaction.Snapshot, opts Options) ([]Ribbon, []Dot) {
	arity := Classify(len(sources), len(targets))
	highlighted := snap.IsHighlighted(i)
	animating := snap.IsAnimating(i)

	// dots keep the base opacity, only strokes take the fan-out multiplier
	dotOpacity := Opacity(i, snap)
	opacity, width, radius := dotOpacity, opts.StrokeWidth, opts.DotRadius
	if arity.FanOut() {
		opacity *= opts.FanoutOpacity
		width, radius = opts.FanoutStrokeWidth, opts.FanoutDotRadius
	}

	ribbons := make([]Ribbon, 0, len(sources)*len(targets))
	sub := 0
	for si, s := range sources {
		for ti, t := range targets {
			var delay time.Duration
			if arity.FanOut() {
				delay = opts.Timing.SubRibbonDelay(si, ti)
			}
			curve := geometry.VerticalRibbon(s.Anchor(), t.Anchor(), opts.MaxControlOffset)
			length := pathLength(curve, opts)
			r := Ribbon{
				Index:       i,
				Sub:         sub,
				Arity:       arity,
				Source:      s.ID,
				Target:      t.ID,
				Curve:       curve,
				Path:        curve.PathData(),
				Length:      length,
				Width:       width,
				Opacity:     opacity,
				Highlighted: highlighted,
				Animating:   highlighted && animating,
			}
			if highlighted {
				r.Dash = &Dash{Array: length, Offset: length}
				if animating {
					r.Dash.Offset = 0
					r.Dash.Delay = delay
				}
			}
			ribbons = append(ribbons, r)
			sub++
		}
	}

	var dots []Dot
	seen := make(map[string]bool)
	addDots := func(side alignment.Side, row []layout.TokenPosition, base time.Duration) {
		for n, p := range row {
			key := fmt.Sprintf("%d:%s", side, p.Anchor())
			if seen[key] {
				continue
			}
			seen[key] = true
			d := Dot{Index: i, Side: side, TokenID: p.ID, Center: p.Anchor(), Radius: radius, Opacity: dotOpacity}
			switch {
			case highlighted && animating:
				d.Delay = base
				if arity.FanOut() {
					d.Delay += time.Duration(n) * opts.FanoutDotStep
				}
			case highlighted:
				d.Opacity = 0
			}
			dots = append(dots, d)
		}
	}
	addDots(alignment.Source, sources, opts.SourceDotDelay)
	addDots(alignment.Target, targets, opts.TargetDotDelay)
	return ribbons, dots
}

// pathLength measures the true arc length, falling back to a fixed value for
// degenerate or very short curves so a reveal stays visible.
func pathLength(c geometry.Cubic, opts Options) float64 {
	l, err := c.Length()
	if err != nil || !geometry.IsFinite(l) || l < opts.MinLength {
		return opts.FallbackLength
	}
	return l
}
