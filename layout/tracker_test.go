package layout

import (
	"testing"

	"ribbons/alignment"
	"ribbons/geometry"
)

func testSurface() *stubSurface {
	return &stubSurface{
		canvas:  geometry.Rect{X: 20, Y: 50, Width: 200, Height: 100},
		mounted: true,
		source: []Element{
			element("s0", alignment.Source, 30, 20, 40, 20),
			element("s1", alignment.Source, 80, 20, 60, 20),
		},
		target: []Element{
			element("t0", alignment.Target, 20, 160, 100, 20),
		},
	}
}

func TestMeasure(t *testing.T) {
	pos := Measure(testSurface(), 8)

	if !pos.Ready() {
		t.Fatal("Expected positions to be ready")
	}
	want := []TokenPosition{
		{ID: "s0", X: 30, Y: -8, Width: 40, Height: 20},
		{ID: "s1", X: 90, Y: -8, Width: 60, Height: 20},
	}
	if len(pos.Source) != len(want) {
		t.Fatalf("Expected %d source positions, got %d", len(want), len(pos.Source))
	}
	for i, w := range want {
		if pos.Source[i] != w {
			t.Errorf("Source %d: expected %+v, got %+v", i, w, pos.Source[i])
		}
	}
	if got := pos.Target[0]; got.X != 50 || got.Y != 108 {
		t.Errorf("Target anchor: expected (50, 108), got (%v, %v)", got.X, got.Y)
	}
	if pos.Canvas.Width != 200 {
		t.Errorf("Canvas not recorded: %+v", pos.Canvas)
	}

	p, ok := pos.Lookup(alignment.Source, "s1")
	if !ok || p.Anchor() != (geometry.Point{X: 90, Y: -8}) {
		t.Errorf("Lookup s1: got %+v, %v", p, ok)
	}
	if _, ok := pos.Lookup(alignment.Target, "s1"); ok {
		t.Error("Lookup must respect the side")
	}
}

func TestMeasureSkipsBadElements(t *testing.T) {
	s := testSurface()
	s.source = append(s.source,
		element("", alignment.Source, 0, 0, 10, 10),
		element("s2", alignment.Source, 0, 0, 0, 0),
		element("s3", alignment.Source, 150, 20, 0, 20),
		element("s4", alignment.Source, 150, 20, 40, 0),
		element("s0", alignment.Source, 150, 20, 40, 20),
	)

	pos := Measure(s, 0)
	if len(pos.Source) != 2 {
		t.Fatalf("Expected 2 source positions, got %+v", pos.Source)
	}
	// first occurrence wins
	if pos.Source[0].X != 30 {
		t.Errorf("Duplicate id replaced the first element: %+v", pos.Source[0])
	}
}

func TestMeasureUnmounted(t *testing.T) {
	s := testSurface()
	s.mounted = false

	pos := Measure(s, 8)
	if pos.Ready() || len(pos.Source) != 0 || len(pos.Target) != 0 {
		t.Errorf("Unmounted surface must measure empty, got %+v", pos)
	}

	s.mounted = true
	s.target = nil
	if Measure(s, 8).Ready() {
		t.Error("Positions with an empty row must not be ready")
	}
}

func TestTrackerPasses(t *testing.T) {
	tr := NewTracker(8, nil)
	s := testSurface()

	if !tr.Stale() {
		t.Fatal("New tracker must be stale")
	}

	pass, ok := tr.Begin()
	if !ok {
		t.Fatal("Begin refused on a stale tracker")
	}
	if _, ok := tr.Begin(); ok {
		t.Error("Second pass opened while one is in flight")
	}

	pos, ok := pass.Complete(s)
	if !ok || !pos.Ready() {
		t.Fatalf("Pass not committed: %v %+v", ok, pos)
	}
	if tr.Stale() {
		t.Error("Tracker still stale after commit")
	}
	if _, ok := tr.Begin(); ok {
		t.Error("Begin must refuse when nothing is stale")
	}

	t.Run("Superseded pass", func(t *testing.T) {
		tr.Invalidate(Resized)
		gen := tr.Generation()
		pass, ok := tr.Begin()
		if !ok {
			t.Fatal("Begin refused after invalidation")
		}
		tr.Invalidate(LayerChanged)
		if tr.Generation() != gen+1 {
			t.Errorf("Expected generation %d, got %d", gen+1, tr.Generation())
		}

		s.source = s.source[:1]
		if _, ok := pass.Complete(s); ok {
			t.Error("Superseded pass must not commit")
		}
		if !tr.Stale() {
			t.Error("Tracker must stay stale after a dropped pass")
		}
		if len(tr.Positions().Source) != 2 {
			t.Errorf("Dropped pass replaced positions: %+v", tr.Positions())
		}

		pass, ok = tr.Begin()
		if !ok {
			t.Fatal("Begin refused after a dropped pass")
		}
		if _, ok := pass.Complete(s); !ok {
			t.Error("Fresh pass must commit")
		}
		if len(tr.Positions().Source) != 1 {
			t.Errorf("Expected remeasured positions, got %+v", tr.Positions())
		}
	})

	t.Run("Abort", func(t *testing.T) {
		tr.Invalidate(PairChanged)
		pass, _ := tr.Begin()
		pass.Abort()
		if _, ok := tr.Begin(); !ok {
			t.Error("Begin refused after abort")
		}
	})
}

func TestReasonString(t *testing.T) {
	for r, want := range map[Reason]string{PairChanged: "pair-changed", LayerChanged: "layer-changed", Resized: "resized", Reason(9): "unknown"} {
		if r.String() != want {
			t.Errorf("Reason %d: expected %q, got %q", int(r), want, r.String())
		}
	}
}
