package ribbon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/geometry"
	"ribbons/interaction"
	"ribbons/layout"
)

const accent = "#10B981"

func positions() layout.Positions {
	row := func(y float64, ids ...string) []layout.TokenPosition {
		out := make([]layout.TokenPosition, len(ids))
		for i, id := range ids {
			out[i] = layout.TokenPosition{ID: id, X: 40 + float64(i)*80, Y: y, Width: 60, Height: 20}
		}
		return out
	}
	return layout.Positions{
		Source: row(-8, "s0", "s1", "s2"),
		Target: row(148, "t0", "t1", "t2"),
		Canvas: geometry.Rect{X: 0, Y: 100, Width: 300, Height: 140},
	}
}

func catLayer() []alignment.Alignment {
	return []alignment.Alignment{
		{Source: []string{"s1"}, Target: []string{"t0"}, Label: "cat→katua"},
		{Source: []string{"s2"}, Target: []string{"t1", "t2"}, Label: "sleeps→lo dago"},
	}
}

func snapshot(highlighted map[int]interaction.Origin, animating ...int) interaction.Snapshot {
	s := interaction.Snapshot{Highlighted: highlighted, Animating: map[int]struct{}{}}
	if s.Highlighted == nil {
		s.Highlighted = map[int]interaction.Origin{}
	}
	for _, i := range animating {
		s.Animating[i] = struct{}{}
	}
	return s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		s, t int
		want Arity
	}{
		{1, 1, OneToOne},
		{1, 3, OneToMany},
		{2, 1, ManyToOne},
		{2, 2, ManyToMany},
	}
	for _, tt := range tests {
		got := Classify(tt.s, tt.t)
		assert.Equal(t, tt.want, got, "%d:%d", tt.s, tt.t)
	}
	assert.Equal(t, "N:M", ManyToMany.String())
	assert.False(t, OneToOne.FanOut())
}

func TestManyToOneFanOut(t *testing.T) {
	als := []alignment.Alignment{{Source: []string{"s1", "s2"}, Target: []string{"t1"}, Label: "x"}}
	scene := Build(als, positions(), snapshot(nil), accent, DefaultOptions())

	assert.Len(t, scene.Ribbons, 2)
	assert.Len(t, scene.DotsFor(0, alignment.Target), 1)
	src := scene.DotsFor(0, alignment.Source)
	require.Len(t, src, 2)
	assert.NotEqual(t, src[0].Center, src[1].Center)

	for _, r := range scene.Ribbons {
		assert.Equal(t, ManyToOne, r.Arity)
		assert.Equal(t, 2.5, r.Width)
		assert.InDelta(t, OpacityBaseline*0.8, r.Opacity, 1e-9)
		assert.Nil(t, r.Dash)
	}
}

func TestOneToOneGeometry(t *testing.T) {
	scene := Build(catLayer()[:1], positions(), snapshot(nil), accent, DefaultOptions())
	require.Len(t, scene.Ribbons, 1)
	r := scene.Ribbons[0]
	assert.Equal(t, OneToOne, r.Arity)
	assert.Equal(t, 3.0, r.Width)
	assert.Equal(t, geometry.Point{X: 120, Y: -8}, r.Curve.P0)
	assert.Equal(t, geometry.Point{X: 40, Y: 148}, r.Curve.P3)
	// span 156, 0.3*156 = 46.8 below the cap
	assert.InDelta(t, 38.8, r.Curve.P1.Y, 1e-9)
	assert.InDelta(t, 101.2, r.Curve.P2.Y, 1e-9)
	assert.Len(t, scene.Dots, 2)
	assert.Equal(t, 4.0, scene.Dots[0].Radius)
	assert.Greater(t, r.Length, 156.0)
}

func TestControlOffsetCapped(t *testing.T) {
	pos := positions()
	for i := range pos.Target {
		pos.Target[i].Y = 400
	}
	scene := Build(catLayer()[:1], pos, snapshot(nil), accent, DefaultOptions())
	require.Len(t, scene.Ribbons, 1)
	assert.InDelta(t, 42, scene.Ribbons[0].Curve.P1.Y, 1e-9)
}

func TestEndToEndOpacity(t *testing.T) {
	hover := snapshot(map[int]interaction.Origin{1: interaction.OriginPreview})
	scene := Build(catLayer(), positions(), hover, accent, DefaultOptions())
	for _, r := range scene.RibbonsFor(0) {
		assert.Equal(t, OpacityDimmed, r.Opacity)
	}
	for _, r := range scene.RibbonsFor(1) {
		assert.InDelta(t, OpacityPreview*0.8, r.Opacity, 1e-9)
	}

	idle := Build(catLayer(), positions(), snapshot(nil), accent, DefaultOptions())
	assert.Equal(t, OpacityBaseline, idle.RibbonsFor(0)[0].Opacity)
	assert.Empty(t, idle.Labels)
}

func TestOpacityRule(t *testing.T) {
	pinned := snapshot(map[int]interaction.Origin{0: interaction.OriginPin, 1: interaction.OriginPreview})
	assert.Equal(t, OpacityFull, Opacity(0, pinned))
	assert.Equal(t, OpacityPreview, Opacity(1, pinned))
	assert.Equal(t, OpacityDimmed, Opacity(2, pinned))

	intro := snapshot(map[int]interaction.Origin{0: interaction.OriginIntro})
	intro.Phase = interaction.PhaseIntro
	assert.Equal(t, OpacityFull, Opacity(0, intro))
	assert.Equal(t, OpacityBaseline, Opacity(0, snapshot(nil)))
}

func TestDashReveal(t *testing.T) {
	opts := DefaultOptions()
	pending := Build(catLayer(), positions(), snapshot(map[int]interaction.Origin{1: interaction.OriginPin}), accent, opts)
	for _, r := range pending.RibbonsFor(1) {
		require.NotNil(t, r.Dash)
		assert.Equal(t, r.Length, r.Dash.Array)
		assert.Equal(t, r.Length, r.Dash.Offset)
		assert.False(t, r.Animating)
	}
	for _, d := range pending.DotsFor(1, alignment.Target) {
		assert.Zero(t, d.Opacity)
	}

	running := Build(catLayer(), positions(), snapshot(map[int]interaction.Origin{1: interaction.OriginPin}, 1), accent, opts)
	subs := running.RibbonsFor(1)
	require.Len(t, subs, 2)
	assert.Zero(t, subs[0].Dash.Offset)
	assert.Equal(t, time.Duration(0), subs[0].Dash.Delay)
	assert.Equal(t, 100*time.Millisecond, subs[1].Dash.Delay)

	targets := running.DotsFor(1, alignment.Target)
	require.Len(t, targets, 2)
	assert.Equal(t, 350*time.Millisecond, targets[0].Delay)
	assert.Equal(t, 400*time.Millisecond, targets[1].Delay)
	assert.Equal(t, OpacityFull, targets[0].Opacity)
}

func TestDotDelays(t *testing.T) {
	pinned := func(i int) interaction.Snapshot {
		return snapshot(map[int]interaction.Origin{i: interaction.OriginPin}, i)
	}

	t.Run("one to one", func(t *testing.T) {
		scene := Build(catLayer(), positions(), pinned(0), accent, DefaultOptions())
		src := scene.DotsFor(0, alignment.Source)
		tgt := scene.DotsFor(0, alignment.Target)
		require.Len(t, src, 1)
		require.Len(t, tgt, 1)
		assert.Equal(t, 300*time.Millisecond, src[0].Delay)
		assert.Equal(t, 350*time.Millisecond, tgt[0].Delay)
	})

	t.Run("fan-out cascades along each side", func(t *testing.T) {
		als := []alignment.Alignment{{Source: []string{"s0", "s1", "s2"}, Target: []string{"t0", "t2"}}}
		scene := Build(als, positions(), pinned(0), accent, DefaultOptions())
		var src, tgt []time.Duration
		for _, d := range scene.DotsFor(0, alignment.Source) {
			src = append(src, d.Delay)
			assert.Equal(t, OpacityFull, d.Opacity)
			assert.Equal(t, 3.0, d.Radius)
		}
		for _, d := range scene.DotsFor(0, alignment.Target) {
			tgt = append(tgt, d.Delay)
		}
		ms := time.Millisecond
		assert.Equal(t, []time.Duration{300 * ms, 350 * ms, 400 * ms}, src)
		assert.Equal(t, []time.Duration{350 * ms, 400 * ms}, tgt)
	})

	t.Run("idle dots carry no delay", func(t *testing.T) {
		scene := Build(catLayer(), positions(), snapshot(nil), accent, DefaultOptions())
		for _, d := range scene.Dots {
			assert.Zero(t, d.Delay)
			assert.Equal(t, OpacityBaseline, d.Opacity)
		}
	})

	t.Run("custom step", func(t *testing.T) {
		opts := DefaultOptions()
		opts.FanoutDotStep = 0
		scene := Build(catLayer(), positions(), pinned(1), accent, opts)
		for _, d := range scene.DotsFor(1, alignment.Target) {
			assert.Equal(t, opts.TargetDotDelay, d.Delay)
		}
	})
}

func TestDropsUnresolvedTokens(t *testing.T) {
	als := []alignment.Alignment{
		{Source: []string{"s1", "ghost"}, Target: []string{"t0"}},
		{Source: []string{"ghost"}, Target: []string{"t0"}},
		{Source: []string{"s0"}, Target: []string{}},
	}
	scene := Build(als, positions(), snapshot(nil), accent, DefaultOptions())
	require.Len(t, scene.Ribbons, 1)
	assert.Equal(t, "s1", scene.Ribbons[0].Source)
	assert.Equal(t, OneToOne, scene.Ribbons[0].Arity)
	assert.Empty(t, scene.RibbonsFor(1))
	assert.Empty(t, scene.RibbonsFor(2))
}

func TestEmptyLayerAndPositions(t *testing.T) {
	scene := Build(nil, positions(), snapshot(nil), accent, DefaultOptions())
	assert.Empty(t, scene.Ribbons)
	assert.NotNil(t, scene.Ribbons)

	scene = Build(catLayer(), layout.Positions{}, snapshot(nil), accent, DefaultOptions())
	assert.Empty(t, scene.Ribbons)
	assert.Empty(t, scene.Dots)
}

func TestShortCurveUsesFallbackLength(t *testing.T) {
	pos := layout.Positions{
		Source: []layout.TokenPosition{{ID: "s0", X: 10, Y: 0}},
		Target: []layout.TokenPosition{{ID: "t0", X: 10, Y: 5}},
	}
	als := []alignment.Alignment{{Source: []string{"s0"}, Target: []string{"t0"}}}
	scene := Build(als, pos, snapshot(nil), accent, DefaultOptions())
	require.Len(t, scene.Ribbons, 1)
	assert.Equal(t, 150.0, scene.Ribbons[0].Length)
}

func TestLabelsHiddenDuringIntro(t *testing.T) {
	s := snapshot(map[int]interaction.Origin{0: interaction.OriginIntro, 1: interaction.OriginIntro}, 0)
	s.Phase = interaction.PhaseIntro
	scene := Build(catLayer(), positions(), s, accent, DefaultOptions())
	assert.Empty(t, scene.Labels)

	s = snapshot(map[int]interaction.Origin{1: interaction.OriginPreview})
	s.Phase = interaction.PhaseHovering
	scene = Build(catLayer(), positions(), s, accent, DefaultOptions())
	require.Len(t, scene.Labels, 1)
	assert.Equal(t, "sleeps→lo dago", scene.Labels[0].Text)
}

func TestBuildFromMachine(t *testing.T) {
	clock := animation.NewManualClock()
	m := interaction.New(animation.NewScheduler(clock, nil, animation.DefaultTiming(), nil), nil)
	m.SetPair(&alignment.SentencePair{
		ID:     "cat",
		Layers: alignment.AlignmentLayers{Lexical: catLayer()},
	})

	m.PointerEnter(alignment.TokenRef{ID: "s2", Side: alignment.Source})
	clock.Advance(0)
	scene := Build(m.Alignments(), positions(), m.Snapshot(), accent, DefaultOptions())
	assert.Equal(t, OpacityDimmed, scene.RibbonsFor(0)[0].Opacity)
	assert.True(t, scene.RibbonsFor(1)[0].Animating)

	m.PointerLeave()
	scene = Build(m.Alignments(), positions(), m.Snapshot(), accent, DefaultOptions())
	for _, r := range scene.Ribbons {
		assert.Equal(t, OpacityBaseline*fanout(r), r.Opacity)
		assert.False(t, r.Highlighted)
	}
}

func fanout(r Ribbon) float64 {
	if r.Arity.FanOut() {
		return 0.8
	}
	return 1
}
