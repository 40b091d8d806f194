package alignment

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrUnknownLayer     = errors.New("unknown alignment layer")
	ErrSentenceNotFound = errors.New("sentence not found")
	ErrBadTokenRef      = errors.New("malformed token reference")
)

// Layer is one of the three parallel alignment relations.
type Layer int

const (
	Lexical              Layer = iota // Core meaning mappings
	GrammaticalRelations              // Argument structure and case marking
	Features                          // Morphosyntactic features
)

// Layers returns all layers in display order.
func Layers() []Layer {
	return []Layer{Lexical, GrammaticalRelations, Features}
}

// String returns the wire key of the layer.
func (l Layer) String() string {
	switch l {
	case Lexical:
		return "lexical"
	case GrammaticalRelations:
		return "grammatical_relations"
	case Features:
		return "features"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable layer name.
func (l Layer) DisplayName() string {
	switch l {
	case Lexical:
		return "Lexical"
	case GrammaticalRelations:
		return "Grammatical Relations"
	case Features:
		return "Features"
	default:
		return "Unknown"
	}
}

// Description explains what the layer shows.
func (l Layer) Description() string {
	switch l {
	case Lexical:
		return "What words mean: dictionary-level correspondences between English words and their direct Basque equivalents, if applicable"
	case GrammaticalRelations:
		return "Who does what to whom: English marks sentence roles through word order while Basque marks them through case suffixes and verb agreement"
	case Features:
		return "Where grammar hides: tense, negation, definiteness and agreement that live in one place in English get scattered across Basque words"
	default:
		return ""
	}
}

// Next returns the following layer, wrapping around.
func (l Layer) Next() Layer {
	all := Layers()
	return all[(int(l)+1)%len(all)]
}

// ParseLayer converts a wire key (or a short alias) to a Layer.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lexical", "lex", "":
		return Lexical, nil
	case "grammatical_relations", "grammatical", "gr":
		return GrammaticalRelations, nil
	case "features", "feat":
		return Features, nil
	default:
		return Lexical, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
	}
}

// ParseTokenRef parses "s:ID" / "t:ID" (also "source:ID" / "target:ID").
func ParseTokenRef(s string) (TokenRef, error) {
	side, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return TokenRef{}, fmt.Errorf("%w: %q", ErrBadTokenRef, s)
	}
	switch side {
	case "s", "source":
		return TokenRef{ID: id, Side: Source}, nil
	case "t", "target":
		return TokenRef{ID: id, Side: Target}, nil
	default:
		return TokenRef{}, fmt.Errorf("%w: %q", ErrBadTokenRef, s)
	}
}
