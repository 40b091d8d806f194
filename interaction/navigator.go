package interaction

import "ribbons/alignment"

// Navigator drives a Machine from the keyboard. Focus moves over the source
// row then the target row; the focused token is treated as hovered.
type Navigator struct {
	m          *Machine
	order      []alignment.TokenRef
	focus      int
	generation uint64
}

// NewNavigator creates a navigator with no focus.
func NewNavigator(m *Machine) *Navigator {
	n := &Navigator{m: m, focus: -1}
	n.sync()
	return n
}

// sync rebuilds the focus order after the machine was reset.
func (n *Navigator) sync() {
	if n.order != nil && n.generation == n.m.Generation() {
		return
	}
	n.generation = n.m.Generation()
	n.focus = -1
	n.order = []alignment.TokenRef{}
	p := n.m.Pair()
	if p == nil {
		return
	}
	for _, side := range []alignment.Side{alignment.Source, alignment.Target} {
		for _, t := range p.Sentence(side).Tokens {
			n.order = append(n.order, alignment.TokenRef{ID: t.ID, Side: side})
		}
	}
}

// Focused returns the focused token.
func (n *Navigator) Focused() (alignment.TokenRef, bool) {
	n.sync()
	if n.focus < 0 || n.focus >= len(n.order) {
		return alignment.TokenRef{}, false
	}
	return n.order[n.focus], true
}

// Next focuses the following token, wrapping around.
func (n *Navigator) Next() {
	n.move(1)
}

// Prev focuses the preceding token, wrapping around.
func (n *Navigator) Prev() {
	n.move(-1)
}

func (n *Navigator) move(delta int) {
	n.sync()
	if len(n.order) == 0 {
		return
	}
	switch {
	case n.focus < 0 && delta > 0:
		n.focus = 0
	case n.focus < 0:
		n.focus = len(n.order) - 1
	default:
		n.focus = (n.focus + delta + len(n.order)) % len(n.order)
	}
	n.m.PointerEnter(n.order[n.focus])
}

// Focus moves focus to ref without changing the machine, used when the
// pointer takes over.
func (n *Navigator) Focus(ref alignment.TokenRef) {
	n.sync()
	for i, r := range n.order {
		if r == ref {
			n.focus = i
			return
		}
	}
}

// Activate toggles the pin on the focused token.
func (n *Navigator) Activate() {
	ref, ok := n.Focused()
	if !ok {
		return
	}
	n.m.Click(ref)
}

// Blur drops focus and the hover it implied.
func (n *Navigator) Blur() {
	n.sync()
	n.focus = -1
	n.m.PointerLeave()
}
