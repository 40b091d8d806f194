// Package alignment contains the sentence-pair data model consumed by the ribbon visualizer.
package alignment

// Token is the atomic unit of a sentence. Ribbon endpoints reference token IDs.
type Token struct {
	ID       string   `json:"id"`
	Form     string   `json:"form"`
	Lemma    string   `json:"lemma"`
	POS      string   `json:"pos"`
	Features []string `json:"features"`
}

// TokenizedSentence is a sentence with its language tag, display text and tokens.
type TokenizedSentence struct {
	Lang   string  `json:"lang"`
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}

// Token returns the token with the given id.
func (s TokenizedSentence) Token(id string) (Token, bool) {
	for _, t := range s.Tokens {
		if t.ID == id {
			return t, true
		}
	}
	return Token{}, false
}

// Alignment maps source tokens to target tokens within one layer.
// Both sides are ordered and expected to be non-empty.
type Alignment struct {
	Source []string `json:"source"`
	Target []string `json:"target"`
	Label  string   `json:"label"`
}

// Side returns the ids on the given side.
func (a Alignment) Side(side Side) []string {
	if side == Target {
		return a.Target
	}
	return a.Source
}

// AlignmentLayers holds the three independent alignment sets over the same tokens.
type AlignmentLayers struct {
	Lexical              []Alignment `json:"lexical"`
	GrammaticalRelations []Alignment `json:"grammatical_relations"`
	Features             []Alignment `json:"features"`
}

// SentencePair is a fully annotated, aligned sentence pair.
type SentencePair struct {
	ID     string            `json:"id"`
	Source TokenizedSentence `json:"source"`
	Target TokenizedSentence `json:"target"`
	Layers AlignmentLayers   `json:"layers"`
}

// Alignments returns the alignment list of a layer. Unknown layers yield nil.
func (p *SentencePair) Alignments(layer Layer) []Alignment {
	if p == nil {
		return nil
	}
	switch layer {
	case Lexical:
		return p.Layers.Lexical
	case GrammaticalRelations:
		return p.Layers.GrammaticalRelations
	case Features:
		return p.Layers.Features
	default:
		return nil
	}
}

// Sentence returns the sentence on the given side.
func (p *SentencePair) Sentence(side Side) TokenizedSentence {
	if side == Target {
		return p.Target
	}
	return p.Source
}

// AlignmentData is the top-level wire container.
type AlignmentData struct {
	Sentences []SentencePair `json:"sentences"`
}

// Side identifies which sentence of a pair a token belongs to.
type Side int

const (
	Source Side = iota
	Target
)

// String returns the string representation of a Side.
func (s Side) String() string {
	switch s {
	case Source:
		return "source"
	case Target:
		return "target"
	default:
		return "unknown"
	}
}

// TokenRef addresses one token of a pair.
type TokenRef struct {
	ID   string
	Side Side
}

// String renders the reference as "s:ID" or "t:ID".
func (r TokenRef) String() string {
	if r.Side == Target {
		return "t:" + r.ID
	}
	return "s:" + r.ID
}
