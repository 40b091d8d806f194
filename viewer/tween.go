package viewer

import (
	"time"

	"ribbons/canvas"
	"ribbons/geometry"
	"ribbons/interaction"
	"ribbons/ribbon"
)

// tween plays the stroke reveals of the scene. A ribbon that starts animating
// is drawn progressively over the reveal duration, after its transition
// delay.
type tween struct {
	now    func() time.Duration
	reveal time.Duration
	since  map[int]time.Duration
}

func newTween(now func() time.Duration, reveal time.Duration) *tween {
	return &tween{now: now, reveal: reveal, since: make(map[int]time.Duration)}
}

// update records when each alignment started animating.
func (t *tween) update(snap interaction.Snapshot) {
	now := t.now()
	for i := range snap.Animating {
		if _, ok := t.since[i]; !ok {
			t.since[i] = now
		}
	}
	for i := range t.since {
		if !snap.IsAnimating(i) {
			delete(t.since, i)
		}
	}
}

func (t *tween) reset() {
	clear(t.since)
}

func (t *tween) progress(r ribbon.Ribbon) float64 {
	start, ok := t.since[r.Index]
	if r.Dash == nil || !r.Animating || !ok {
		return canvas.Revealed(r)
	}
	if t.reveal <= 0 {
		return 1
	}
	elapsed := t.now() - start - r.Dash.Delay
	return geometry.Clamp(float64(elapsed)/float64(t.reveal), 0, 1)
}

func (t *tween) dotVisible(d ribbon.Dot) bool {
	if d.Opacity <= 0 {
		return false
	}
	start, ok := t.since[d.Index]
	if !ok {
		return true
	}
	return t.now()-start >= d.Delay
}

// running reports whether any reveal of the scene is still in progress.
func (t *tween) running(scene ribbon.Scene) bool {
	for _, r := range scene.Ribbons {
		if _, ok := t.since[r.Index]; ok && r.Animating && t.progress(r) < 1 {
			return true
		}
	}
	for _, d := range scene.Dots {
		if _, ok := t.since[d.Index]; ok && d.Opacity > 0 && !t.dotVisible(d) {
			return true
		}
	}
	return false
}

func (t *tween) options() canvas.RasterOptions {
	return canvas.RasterOptions{Progress: t.progress, DotVisible: t.dotVisible}
}
