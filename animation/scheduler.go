// Package animation sequences ribbon reveal transitions.
//
// All scheduled work lives in one registry keyed by a reset epoch. A reset
// bumps the epoch and stops every timer; a callback that still fires (the
// timer raced the stop, or was already queued on the event loop) compares
// its epoch with the current one and does nothing when they differ.
package animation

import (
	"time"

	"go.uber.org/zap"
)

// Kind classifies scheduled tasks so groups can be cancelled.
type Kind int

const (
	KindReveal   Kind = iota // User driven reveal of a hovered or pinned alignment
	KindIntro                // Staggered reveal step of the intro sequence
	KindIntroEnd             // Completion of the intro sequence
)

// String returns the kind name for display
func (k Kind) String() string {
	switch k {
	case KindReveal:
		return "reveal"
	case KindIntro:
		return "intro"
	case KindIntroEnd:
		return "intro-end"
	default:
		return "unknown"
	}
}

// Task is one pending reveal step.
type Task struct {
	ID    uint64
	Kind  Kind
	Index int // alignment index, -1 for sequence-level tasks
	Delay time.Duration
	Epoch uint64

	timer Timer
	run   func()
}

// Dispatch moves a fired callback onto the goroutine that owns the state.
type Dispatch func(func())

// Immediate runs callbacks on the calling goroutine.
func Immediate(f func()) { f() }

// Scheduler owns cancelable timers for one visualizer instance. Its methods
// must be called from the event loop goroutine; only the clock's timer
// goroutines run elsewhere and they never touch the registry directly.
type Scheduler struct {
	clock    Clock
	dispatch Dispatch
	timing   Timing
	log      *zap.Logger

	epoch  uint64
	nextID uint64
	tasks  map[uint64]*Task
}

// NewScheduler creates a scheduler. A nil dispatch runs callbacks inline.
func NewScheduler(clock Clock, dispatch Dispatch, timing Timing, log *zap.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if dispatch == nil {
		dispatch = Immediate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		clock:    clock,
		dispatch: dispatch,
		timing:   timing,
		log:      log,
		tasks:    make(map[uint64]*Task),
	}
}

// Timing returns the timing constants in use.
func (s *Scheduler) Timing() Timing {
	return s.timing
}

// Epoch returns the current reset generation.
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// Schedule registers fn to run after delay, tagged with the current epoch.
func (s *Scheduler) Schedule(kind Kind, index int, delay time.Duration, fn func()) *Task {
	s.nextID++
	t := &Task{
		ID:    s.nextID,
		Kind:  kind,
		Index: index,
		Delay: delay,
		Epoch: s.epoch,
		run:   fn,
	}
	s.tasks[t.ID] = t
	t.timer = s.clock.AfterFunc(delay, func() {
		s.dispatch(func() { s.fire(t) })
	})
	return t
}

func (s *Scheduler) fire(t *Task) {
	if t.Epoch != s.epoch {
		s.log.Debug("Discarding stale animation task",
			zap.Uint64("task", t.ID), zap.Stringer("kind", t.Kind),
			zap.Uint64("epoch", t.Epoch), zap.Uint64("current", s.epoch))
		return
	}
	if _, ok := s.tasks[t.ID]; !ok {
		// cancelled after the timer fired
		return
	}
	delete(s.tasks, t.ID)
	t.run()
}

// Cancel stops every pending task of the given kinds.
func (s *Scheduler) Cancel(kinds ...Kind) int {
	n := 0
	for id, t := range s.tasks {
		for _, k := range kinds {
			if t.Kind == k {
				t.timer.Stop()
				delete(s.tasks, id)
				n++
				break
			}
		}
	}
	return n
}

// CancelIndex stops pending tasks of kind for one alignment index.
func (s *Scheduler) CancelIndex(kind Kind, index int) {
	for id, t := range s.tasks {
		if t.Kind == kind && t.Index == index {
			t.timer.Stop()
			delete(s.tasks, id)
		}
	}
}

// Reset cancels everything and starts a new epoch.
func (s *Scheduler) Reset() {
	for _, t := range s.tasks {
		t.timer.Stop()
	}
	cancelled := len(s.tasks)
	s.tasks = make(map[uint64]*Task)
	s.epoch++
	s.log.Debug("Animation scheduler reset", zap.Uint64("epoch", s.epoch), zap.Int("cancelled", cancelled))
}

// Pending returns a copy of the registered tasks.
func (s *Scheduler) Pending() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, Task{ID: t.ID, Kind: t.Kind, Index: t.Index, Delay: t.Delay, Epoch: t.Epoch})
	}
	return out
}
