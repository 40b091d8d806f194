// Package interaction owns the hover, pin, highlight and animation state of
// one visualizer instance.
//
// A Machine is not safe for concurrent use. Every method, including the
// scheduler callbacks it registers, runs on the owner's event loop.
package interaction

import (
	"maps"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/layout"
)

// Machine is the interaction state machine.
type Machine struct {
	id       string
	log      *zap.Logger
	sched    *animation.Scheduler
	onChange func()

	pair  *alignment.SentencePair
	layer alignment.Layer

	generation  uint64 // bumped on every hard reset
	introSeeded bool

	phase       Phase
	hover       *alignment.TokenRef
	pin         *alignment.TokenRef
	hovered     map[string]struct{}
	highlighted map[int]Origin
	animating   map[int]struct{}
}

// New creates an idle machine driven by sched.
func New(sched *animation.Scheduler, log *zap.Logger) *Machine {
	if sched == nil {
		sched = animation.NewScheduler(nil, nil, animation.DefaultTiming(), log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Machine{
		id:          id,
		log:         log.With(zap.String("machine", id)),
		sched:       sched,
		hovered:     make(map[string]struct{}),
		highlighted: make(map[int]Origin),
		animating:   make(map[int]struct{}),
	}
}

// ID returns the instance id used in log lines.
func (m *Machine) ID() string { return m.id }

// OnChange registers a callback invoked after every state mutation.
func (m *Machine) OnChange(f func()) { m.onChange = f }

// Pair returns the active sentence pair.
func (m *Machine) Pair() *alignment.SentencePair { return m.pair }

// Layer returns the active layer.
func (m *Machine) Layer() alignment.Layer { return m.layer }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Generation counts hard resets.
func (m *Machine) Generation() uint64 { return m.generation }

// Alignments returns the alignments of the active layer.
func (m *Machine) Alignments() []alignment.Alignment {
	return m.pair.Alignments(m.layer)
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         m.phase,
		Layer:         m.layer,
		HoveredTokens: maps.Clone(m.hovered),
		Highlighted:   maps.Clone(m.highlighted),
		Animating:     maps.Clone(m.animating),
	}
	if m.hover != nil {
		h := *m.hover
		s.Hover = &h
	}
	if m.pin != nil {
		p := *m.pin
		s.Pin = &p
	}
	return s
}

// SetPair switches the sentence pair and hard resets the machine.
func (m *Machine) SetPair(p *alignment.SentencePair) {
	m.pair = p
	id := ""
	if p != nil {
		id = p.ID
	}
	m.reset("pair", zap.String("sentence", id))
}

// SetLayer switches the active layer and hard resets the machine.
func (m *Machine) SetLayer(l alignment.Layer) {
	m.layer = l
	m.reset("layer", zap.Stringer("layer", l))
}

func (m *Machine) reset(reason string, fields ...zap.Field) {
	m.sched.Reset()
	m.generation++
	m.introSeeded = false
	m.hover = nil
	m.pin = nil
	m.clearSets()
	m.phase = PhaseIdle
	m.log.Debug("Interaction reset", append(fields, zap.String("reason", reason), zap.Uint64("generation", m.generation))...)
	m.changed()
}

// MeasurementReady reports a committed measurement. The first ready
// measurement after a reset seeds the intro sequence; later ones are ignored.
func (m *Machine) MeasurementReady(p layout.Positions) {
	if m.introSeeded || !p.Ready() {
		return
	}
	m.introSeeded = true
	if m.phase != PhaseIdle {
		// the user got there first
		return
	}
	als := m.Alignments()
	if len(als) == 0 {
		return
	}

	timing := m.sched.Timing()
	m.clearSets()
	m.phase = PhaseIntro
	for i := range als {
		m.highlighted[i] = OriginIntro
		m.sched.Schedule(animation.KindIntro, i, timing.IntroDelay(i), func() {
			if m.phase != PhaseIntro {
				return
			}
			m.animating[i] = struct{}{}
			m.changed()
		})
	}
	m.sched.Schedule(animation.KindIntroEnd, -1, timing.IntroDuration(len(als)), func() {
		if m.phase != PhaseIntro {
			return
		}
		m.clearSets()
		m.phase = PhaseIdle
		m.log.Debug("Intro finished")
		m.changed()
	})
	m.log.Debug("Intro started", zap.Int("ribbons", len(als)), zap.Duration("duration", timing.IntroDuration(len(als))))
	m.changed()
}

// PointerEnter previews the connections of ref, on top of the pin if any.
func (m *Machine) PointerEnter(ref alignment.TokenRef) {
	m.stopIntro()
	als := m.Alignments()
	res := alignment.Resolve(als, ref.ID, ref.Side)

	m.sched.Cancel(animation.KindReveal)
	prevAnimating := m.animating
	m.clearSets()
	h := ref
	m.hover = &h

	m.hovered[ref.ID] = struct{}{}
	for id := range res.Touched {
		m.hovered[id] = struct{}{}
	}

	pinned := map[int]struct{}{}
	if m.pin != nil {
		pres := alignment.Resolve(als, m.pin.ID, m.pin.Side)
		m.hovered[m.pin.ID] = struct{}{}
		for id := range pres.Touched {
			m.hovered[id] = struct{}{}
		}
		for i := range pres.Indices {
			m.highlighted[i] = OriginPin
			pinned[i] = struct{}{}
		}
	}
	for i := range res.Indices {
		if _, ok := m.highlighted[i]; !ok {
			m.highlighted[i] = OriginPreview
		}
	}

	switch {
	case m.pin == nil:
		m.phase = PhaseHovering
	case *m.pin == ref:
		m.phase = PhasePinned
	default:
		m.phase = PhasePinnedHovering
	}

	// pinned ribbons keep their reveal state, preview ribbons restart
	for i := range pinned {
		if _, ok := prevAnimating[i]; ok {
			m.animating[i] = struct{}{}
		} else {
			m.reveal(i)
		}
	}
	for _, i := range res.SortedIndices() {
		if m.highlighted[i] == OriginPreview {
			m.reveal(i)
		}
	}

	m.log.Debug("Pointer enter", zap.Stringer("token", ref), zap.Stringer("phase", m.phase),
		zap.Int("highlighted", len(m.highlighted)))
	m.changed()
}

// PointerLeave drops the hover preview and reverts to the pin, if any.
func (m *Machine) PointerLeave() {
	if m.phase == PhaseIntro {
		return
	}
	m.hover = nil
	m.sched.Cancel(animation.KindReveal)
	if m.pin == nil {
		m.clearSets()
		m.phase = PhaseIdle
	} else {
		m.applyPin(false)
	}
	m.log.Debug("Pointer leave", zap.Stringer("phase", m.phase))
	m.changed()
}

// Click toggles the pin on ref.
func (m *Machine) Click(ref alignment.TokenRef) {
	m.stopIntro()
	m.sched.Cancel(animation.KindReveal)
	m.hover = nil
	if m.pin != nil && *m.pin == ref {
		m.pin = nil
		m.clearSets()
		m.phase = PhaseIdle
		m.log.Debug("Unpinned", zap.Stringer("token", ref))
		m.changed()
		return
	}
	p := ref
	m.pin = &p
	m.applyPin(true)
	m.log.Debug("Pinned", zap.Stringer("token", ref), zap.Int("highlighted", len(m.highlighted)))
	m.changed()
}

// applyPin rebuilds every set from the pin alone. With restart the reveal
// plays again; otherwise the animating set becomes exactly the pinned
// indices.
func (m *Machine) applyPin(restart bool) {
	res := alignment.Resolve(m.Alignments(), m.pin.ID, m.pin.Side)
	m.clearSets()
	m.phase = PhasePinned
	m.hovered[m.pin.ID] = struct{}{}
	for id := range res.Touched {
		m.hovered[id] = struct{}{}
	}
	for _, i := range res.SortedIndices() {
		m.highlighted[i] = OriginPin
		if restart {
			m.reveal(i)
		} else {
			m.animating[i] = struct{}{}
		}
	}
}

// reveal restarts the stroke animation of index i with a zero delay.
func (m *Machine) reveal(i int) {
	delete(m.animating, i)
	m.sched.CancelIndex(animation.KindReveal, i)
	m.sched.Schedule(animation.KindReveal, i, 0, func() {
		if _, ok := m.highlighted[i]; !ok {
			return
		}
		m.animating[i] = struct{}{}
		m.changed()
	})
}

// stopIntro ends a running intro early when the user starts interacting.
func (m *Machine) stopIntro() {
	if m.phase != PhaseIntro {
		return
	}
	n := m.sched.Cancel(animation.KindIntro, animation.KindIntroEnd)
	m.clearSets()
	m.phase = PhaseIdle
	m.log.Debug("Intro interrupted", zap.Int("cancelled", n))
}

func (m *Machine) clearSets() {
	m.hovered = make(map[string]struct{})
	m.highlighted = make(map[int]Origin)
	m.animating = make(map[int]struct{})
}

func (m *Machine) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
