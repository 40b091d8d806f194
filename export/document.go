package export

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/canvas"
	"ribbons/interaction"
	"ribbons/layout"
	"ribbons/ribbon"
)

// Style holds the visual parameters shared by all exporters.
type Style struct {
	Accent     string
	Background string
	Foreground string
	Muted      string

	FontSize     float64 // px
	Width        float64 // board width in px
	CanvasHeight float64 // ribbon space height in px
	AnchorOffset float64 // px
	TokenGap     float64 // px between tokens of a row

	TerminalWidth  int // cells
	TerminalRows   int // ribbon rows
	TerminalOffset float64

	Ribbon ribbon.Options
}

// DefaultStyle returns the standard export style.
func DefaultStyle() Style {
	return Style{
		Accent:         "#10B981",
		Background:     "#FFFFFF",
		Foreground:     "#1F2937",
		Muted:          "#6B7280",
		FontSize:       16,
		Width:          720,
		CanvasHeight:   140,
		AnchorOffset:   8,
		TokenGap:       12,
		TerminalWidth:  80,
		TerminalRows:   10,
		TerminalOffset: 0.5,
		Ribbon:         ribbon.DefaultOptions(),
	}
}

// Palette parses the style colours.
func (s Style) Palette() (canvas.Palette, error) {
	var p canvas.Palette
	var err error
	if p.Accent, err = canvas.ParseColor(s.Accent); err != nil {
		return p, err
	}
	if p.Background, err = canvas.ParseColor(s.Background); err != nil {
		return p, err
	}
	if p.Foreground, err = canvas.ParseColor(s.Foreground); err != nil {
		return p, err
	}
	if p.Muted, err = canvas.ParseColor(s.Muted); err != nil {
		return p, err
	}
	return p, nil
}

// Replay describes the interaction to reproduce before capturing.
type Replay struct {
	At    time.Duration       // instant of the timeline to capture
	Hover *alignment.TokenRef // token under the pointer, if any
	Pin   *alignment.TokenRef // token clicked, if any
}

// Document is a captured visualizer state.
type Document struct {
	Pair     *alignment.SentencePair
	Layer    alignment.Layer
	Snapshot interaction.Snapshot
	At       time.Duration
	Style    Style
}

// Alignments returns the alignments of the captured layer.
func (d *Document) Alignments() []alignment.Alignment {
	return d.Pair.Alignments(d.Layer)
}

// Capture replays an interaction on a manual clock and returns the state at
// replay.At. Without hover or pin the replay is the intro sequence.
func Capture(p *alignment.SentencePair, layer alignment.Layer, replay Replay, style Style, log *zap.Logger) (*Document, error) {
	if p == nil {
		return nil, fmt.Errorf("capture: %w", alignment.ErrSentenceNotFound)
	}
	if log == nil {
		log = zap.NewNop()
	}
	for _, ref := range []*alignment.TokenRef{replay.Pin, replay.Hover} {
		if ref == nil {
			continue
		}
		if _, ok := p.Sentence(ref.Side).Token(ref.ID); !ok {
			return nil, fmt.Errorf("capture %s: %w: no token %s", p.ID, alignment.ErrBadTokenRef, ref)
		}
	}

	clock := animation.NewManualClock()
	sched := animation.NewScheduler(clock, animation.Immediate, style.Ribbon.Timing, log)
	m := interaction.New(sched, log)
	m.SetPair(p)
	m.SetLayer(layer)

	metrics := NewMetrics(style.FontSize)
	board := vectorBoard(p, metrics, style)
	tracker := layout.NewTracker(style.AnchorOffset, log)
	if pass, ok := tracker.Begin(); ok {
		if pos, ok := pass.Complete(board); ok {
			m.MeasurementReady(pos)
		}
	}

	if replay.Pin != nil {
		m.Click(*replay.Pin)
	}
	if replay.Hover != nil {
		m.PointerEnter(*replay.Hover)
	}
	clock.Advance(replay.At)

	log.Debug("Captured state", zap.String("sentence", p.ID), zap.Stringer("layer", layer),
		zap.Duration("at", replay.At), zap.Stringer("phase", m.Phase()))
	return &Document{
		Pair:     p,
		Layer:    layer,
		Snapshot: m.Snapshot(),
		At:       replay.At,
		Style:    style,
	}, nil
}

// scene measures a surface and builds the ribbon scene of a document.
func (d *Document) scene(s layout.Surface, offset float64) (ribbon.Scene, layout.Positions) {
	tracker := layout.NewTracker(offset, nil)
	pass, _ := tracker.Begin()
	pos, _ := pass.Complete(s)
	return ribbon.Build(d.Alignments(), pos, d.Snapshot, d.Style.Accent, d.Style.Ribbon), pos
}
