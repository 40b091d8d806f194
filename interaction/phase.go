package interaction

import (
	"slices"

	"ribbons/alignment"
)

// Phase represents the current interaction state
type Phase int

const (
	PhaseIdle           Phase = iota // No hover, no pin
	PhaseHovering                    // Token previewed, nothing pinned
	PhasePinned                      // Token pinned
	PhasePinnedHovering              // Token pinned, another token previewed
	PhaseIntro                       // Silent intro sequence running
)

// String returns the phase name for display
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseHovering:
		return "HOVER"
	case PhasePinned:
		return "PINNED"
	case PhasePinnedHovering:
		return "PINNED+HOVER"
	case PhaseIntro:
		return "INTRO"
	default:
		return "UNKNOWN"
	}
}

// Origin tags why an alignment is highlighted.
type Origin int

const (
	OriginPin     Origin = iota // Connected to the pinned token
	OriginPreview               // Connected only to the hovered token
	OriginIntro                 // Part of the intro sequence
)

// String returns the origin name for display
func (o Origin) String() string {
	switch o {
	case OriginPin:
		return "pin"
	case OriginPreview:
		return "preview"
	case OriginIntro:
		return "intro"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the interaction state, consumed by the
// ribbon builder and the token renderer.
type Snapshot struct {
	Phase         Phase
	Layer         alignment.Layer
	Hover         *alignment.TokenRef
	Pin           *alignment.TokenRef
	HoveredTokens map[string]struct{}
	Highlighted   map[int]Origin
	Animating     map[int]struct{}
}

// IsHighlighted reports whether alignment i is highlighted.
func (s Snapshot) IsHighlighted(i int) bool {
	_, ok := s.Highlighted[i]
	return ok
}

// Origin returns the highlight origin of alignment i.
func (s Snapshot) Origin(i int) (Origin, bool) {
	o, ok := s.Highlighted[i]
	return o, ok
}

// IsAnimating reports whether alignment i is being revealed.
func (s Snapshot) IsAnimating(i int) bool {
	_, ok := s.Animating[i]
	return ok
}

// AnyHighlighted reports whether anything is highlighted.
func (s Snapshot) AnyHighlighted() bool {
	return len(s.Highlighted) > 0
}

// Intro reports whether the silent intro sequence is running.
func (s Snapshot) Intro() bool {
	return s.Phase == PhaseIntro
}

// LabelVisible reports whether the label of alignment i is shown: it must be
// highlighted and the intro must not be running.
func (s Snapshot) LabelVisible(i int) bool {
	return s.IsHighlighted(i) && !s.Intro()
}

// TokenHovered reports whether the token id is in the hover set.
func (s Snapshot) TokenHovered(id string) bool {
	_, ok := s.HoveredTokens[id]
	return ok
}

// TokenDimmed reports whether a token should render dimmed: something is
// hovered and this token is not part of it.
func (s Snapshot) TokenDimmed(id string) bool {
	return len(s.HoveredTokens) > 0 && !s.TokenHovered(id)
}

// IsPinned reports whether ref is the pinned token.
func (s Snapshot) IsPinned(ref alignment.TokenRef) bool {
	return s.Pin != nil && *s.Pin == ref
}

// HighlightedIndices returns highlighted indices in ascending order.
func (s Snapshot) HighlightedIndices() []int {
	out := make([]int, 0, len(s.Highlighted))
	for i := range s.Highlighted {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// HoveredList returns the hover set sorted.
func (s Snapshot) HoveredList() []string {
	out := make([]string, 0, len(s.HoveredTokens))
	for id := range s.HoveredTokens {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
