package alignment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/maruel/natural"
)

// Load decodes alignment data in the wire format.
func Load(r io.Reader) (*AlignmentData, error) {
	var data AlignmentData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode alignment data: %w", err)
	}
	for i := range data.Sentences {
		normalize(&data.Sentences[i])
	}
	return &data, nil
}

// LoadFile reads alignment data from a file ("-" reads stdin).
func LoadFile(path string) (*AlignmentData, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open alignment data: %w", err)
	}
	defer f.Close()

	data, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// normalize replaces missing layer arrays with empty ones.
func normalize(p *SentencePair) {
	if p.Layers.Lexical == nil {
		p.Layers.Lexical = []Alignment{}
	}
	if p.Layers.GrammaticalRelations == nil {
		p.Layers.GrammaticalRelations = []Alignment{}
	}
	if p.Layers.Features == nil {
		p.Layers.Features = []Alignment{}
	}
}

// IDs returns the sentence ids in natural order ("s2" before "s10").
func (d *AlignmentData) IDs() []string {
	ids := make([]string, 0, len(d.Sentences))
	for _, s := range d.Sentences {
		ids = append(ids, s.ID)
	}
	sort.Sort(natural.StringSlice(ids))
	return ids
}

// Find returns the sentence pair with the given id. An empty id selects the
// first sentence in natural order.
func (d *AlignmentData) Find(id string) (*SentencePair, error) {
	if d == nil || len(d.Sentences) == 0 {
		return nil, fmt.Errorf("%w: no sentences available", ErrSentenceNotFound)
	}
	if id == "" {
		id = d.IDs()[0]
	}
	for i := range d.Sentences {
		if d.Sentences[i].ID == id {
			return &d.Sentences[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSentenceNotFound, id)
}

// Neighbour returns the id delta steps away from id in natural order, wrapping.
func (d *AlignmentData) Neighbour(id string, delta int) string {
	ids := d.IDs()
	if len(ids) == 0 {
		return ""
	}
	pos := 0
	for i, v := range ids {
		if v == id {
			pos = i
			break
		}
	}
	n := len(ids)
	return ids[((pos+delta)%n+n)%n]
}
