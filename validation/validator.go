// Package validation checks sentence pairs for structural problems. None of
// the problems it reports stop a pair from rendering; dangling references
// simply drop the affected ribbons.
package validation

import (
	"fmt"

	"go.uber.org/multierr"

	"ribbons/alignment"
)

// Kind classifies a validation issue.
type Kind int

const (
	DuplicateToken Kind = iota // Token id appears twice in one sentence
	DanglingRef                // Alignment references a token that does not exist
	EmptySide                  // Alignment has no ids on one side
	UnknownLang                // Sentence language is not a supported code
	EmptyTokenID               // Token without id
	DuplicateSentence          // Sentence id appears twice in one file
)

// String returns the kind name for display
func (k Kind) String() string {
	switch k {
	case DuplicateToken:
		return "duplicate-token"
	case DanglingRef:
		return "dangling-ref"
	case EmptySide:
		return "empty-side"
	case UnknownLang:
		return "unknown-lang"
	case EmptyTokenID:
		return "empty-token-id"
	case DuplicateSentence:
		return "duplicate-sentence"
	default:
		return "unknown"
	}
}

// Issue is one problem found in a sentence pair.
type Issue struct {
	Kind     Kind
	Sentence string
	Layer    alignment.Layer
	Index    int // alignment index, -1 when not applicable
	Side     alignment.Side
	TokenID  string
	Message  string
}

// Error implements error so issues can be aggregated.
func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Sentence, i.Kind, i.Message)
}

var supportedLangs = map[string]bool{"en": true, "eu": true, "es": true, "fr": true}

// PairValidator validates sentence pairs.
type PairValidator struct {
	// Track validation issues
	issues []Issue
	// Options
	checkLang bool // Report languages outside en/eu/es/fr
}

// NewPairValidator creates a new validator with default settings.
func NewPairValidator() *PairValidator {
	return &PairValidator{checkLang: true}
}

// SetCheckLang enables or disables the language code check.
func (v *PairValidator) SetCheckLang(check bool) {
	v.checkLang = check
}

// Validate checks one sentence pair and returns every issue found.
func (v *PairValidator) Validate(p *alignment.SentencePair) []Issue {
	v.issues = nil

	known := map[alignment.Side]map[string]bool{
		alignment.Source: v.checkSentence(p, alignment.Source),
		alignment.Target: v.checkSentence(p, alignment.Target),
	}

	for _, layer := range alignment.Layers() {
		for i, a := range p.Alignments(layer) {
			for _, side := range []alignment.Side{alignment.Source, alignment.Target} {
				ids := a.Side(side)
				if len(ids) == 0 {
					v.add(Issue{Kind: EmptySide, Sentence: p.ID, Layer: layer, Index: i, Side: side,
						Message: fmt.Sprintf("%s alignment %d has no %s tokens", layer, i, side)})
					continue
				}
				for _, id := range ids {
					if !known[side][id] {
						v.add(Issue{Kind: DanglingRef, Sentence: p.ID, Layer: layer, Index: i, Side: side, TokenID: id,
							Message: fmt.Sprintf("%s alignment %d references unknown %s token %q", layer, i, side, id)})
					}
				}
			}
		}
	}
	return v.issues
}

// checkSentence validates the tokens of one side and returns the set of ids.
func (v *PairValidator) checkSentence(p *alignment.SentencePair, side alignment.Side) map[string]bool {
	s := p.Sentence(side)
	if v.checkLang && !supportedLangs[s.Lang] {
		v.add(Issue{Kind: UnknownLang, Sentence: p.ID, Index: -1, Side: side,
			Message: fmt.Sprintf("%s language %q is not supported", side, s.Lang)})
	}
	ids := make(map[string]bool, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.ID == "" {
			v.add(Issue{Kind: EmptyTokenID, Sentence: p.ID, Index: -1, Side: side,
				Message: fmt.Sprintf("%s token %q has no id", side, t.Form)})
			continue
		}
		if ids[t.ID] {
			v.add(Issue{Kind: DuplicateToken, Sentence: p.ID, Index: -1, Side: side, TokenID: t.ID,
				Message: fmt.Sprintf("duplicate %s token id %q", side, t.ID)})
		}
		ids[t.ID] = true
	}
	return ids
}

func (v *PairValidator) add(issue Issue) {
	v.issues = append(v.issues, issue)
}

// WithoutLangCheck accepts any language code.
func WithoutLangCheck() func(*PairValidator) {
	return func(v *PairValidator) {
		v.SetCheckLang(false)
	}
}

// ValidateData validates every pair and combines the issues into one error
// (nil when the data is clean).
func ValidateData(d *alignment.AlignmentData, options ...func(*PairValidator)) error {
	var err error
	v := NewPairValidator()
	for _, setOpt := range options {
		setOpt(v)
	}
	seen := make(map[string]bool, len(d.Sentences))
	for i := range d.Sentences {
		id := d.Sentences[i].ID
		if seen[id] {
			err = multierr.Append(err, Issue{Kind: DuplicateSentence, Sentence: id, Index: -1,
				Message: fmt.Sprintf("duplicate sentence id %q", id)})
		}
		seen[id] = true
		for _, issue := range v.Validate(&d.Sentences[i]) {
			err = multierr.Append(err, issue)
		}
	}
	return err
}

// Issues unpacks an error produced by ValidateData.
func Issues(err error) []Issue {
	var out []Issue
	for _, e := range multierr.Errors(err) {
		if issue, ok := e.(Issue); ok {
			out = append(out, issue)
		}
	}
	return out
}
