package alignment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catAlignments is the lexical layer of "The cat sleeps" / "Katua lo dago".
var catAlignments = []Alignment{
	{Source: []string{"s1"}, Target: []string{"t0"}, Label: "cat→katua"},
	{Source: []string{"s2"}, Target: []string{"t1", "t2"}, Label: "sleeps→lo dago"},
	{Source: []string{"s0", "s1"}, Target: []string{"t0"}, Label: "the cat"},
}

func keys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		side    Side
		indices []int
		touched []string
	}{
		{"source in two alignments", "s1", Source, []int{0, 2}, []string{"s0", "s1", "t0"}},
		{"target fan-out member", "t2", Target, []int{1}, []string{"s2", "t1", "t2"}},
		{"target in two alignments", "t0", Target, []int{0, 2}, []string{"s0", "s1", "t0"}},
		{"unaligned", "t9", Target, []int{}, nil},
		{"wrong side", "s1", Target, []int{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(catAlignments, tt.token, tt.side)
			assert.Equal(t, tt.indices, res.SortedIndices())
			assert.ElementsMatch(t, tt.touched, keys(res.Touched))
			assert.Equal(t, len(tt.indices) == 0, res.Empty())
		})
	}
}

func TestResolveEmptyLayer(t *testing.T) {
	res := Resolve(nil, "s0", Source)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.Indices)
	assert.NotNil(t, res.Touched)
	assert.False(t, res.Has(0))
}

func TestConnected(t *testing.T) {
	assert.True(t, Connected(catAlignments, "s0", Source))
	assert.True(t, Connected(catAlignments, "t1", Target))
	assert.False(t, Connected(catAlignments, "t1", Source))
	assert.False(t, Connected(nil, "s0", Source))
}

func TestParseLayer(t *testing.T) {
	for in, want := range map[string]Layer{
		"lexical":               Lexical,
		"":                      Lexical,
		"GR":                    GrammaticalRelations,
		"grammatical_relations": GrammaticalRelations,
		" features ":            Features,
	} {
		got, err := ParseLayer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLayer("syntax")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestLayerNames(t *testing.T) {
	assert.Equal(t, "grammatical_relations", GrammaticalRelations.String())
	assert.Equal(t, "Grammatical Relations", GrammaticalRelations.DisplayName())
	assert.Equal(t, GrammaticalRelations, Lexical.Next())
	assert.Equal(t, Lexical, Features.Next())
	assert.True(t, strings.HasPrefix(Features.Description(), "Where grammar hides"))
	assert.Empty(t, Layer(7).Description())
	for _, l := range Layers() {
		assert.NotEmpty(t, l.Description(), l.String())
		parsed, err := ParseLayer(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
}

func TestParseTokenRef(t *testing.T) {
	ref, err := ParseTokenRef("t:t3")
	require.NoError(t, err)
	assert.Equal(t, TokenRef{ID: "t3", Side: Target}, ref)
	assert.Equal(t, "t:t3", ref.String())

	ref, err = ParseTokenRef("source:a:b")
	require.NoError(t, err)
	assert.Equal(t, TokenRef{ID: "a:b", Side: Source}, ref)

	for _, bad := range []string{"", "s1", "s:", "x:s1"} {
		_, err := ParseTokenRef(bad)
		assert.ErrorIs(t, err, ErrBadTokenRef, bad)
	}
}

const wire = `{"sentences": [
  {"id": "s10", "source": {"lang": "en", "text": "b", "tokens": [{"id": "s0", "form": "b"}]},
   "target": {"lang": "eu", "text": "b", "tokens": [{"id": "t0", "form": "b"}]},
   "layers": {"lexical": [{"source": ["s0"], "target": ["t0"]}]}},
  {"id": "s2", "source": {"lang": "en", "text": "a", "tokens": [{"id": "s0", "form": "a", "lemma": "a", "pos": "DET", "features": ["Definite=Ind"]}]},
   "target": {"lang": "eu", "text": "a", "tokens": [{"id": "t0", "form": "a"}]},
   "layers": {}}
]}`

func TestLoad(t *testing.T) {
	data, err := Load(strings.NewReader(wire))
	require.NoError(t, err)
	require.Len(t, data.Sentences, 2)

	assert.Equal(t, []string{"s2", "s10"}, data.IDs())

	p, err := data.Find("")
	require.NoError(t, err)
	assert.Equal(t, "s2", p.ID)
	assert.Equal(t, []string{"Definite=Ind"}, p.Source.Tokens[0].Features)

	// missing layers decode as empty
	for _, l := range Layers() {
		assert.NotNil(t, p.Alignments(l), l.String())
		assert.Empty(t, p.Alignments(l), l.String())
	}

	tok, ok := p.Sentence(Target).Token("t0")
	assert.True(t, ok)
	assert.Equal(t, "a", tok.Form)
	_, ok = p.Sentence(Target).Token("t1")
	assert.False(t, ok)

	_, err = data.Find("s3")
	assert.ErrorIs(t, err, ErrSentenceNotFound)

	assert.Equal(t, "s10", data.Neighbour("s2", 1))
	assert.Equal(t, "s2", data.Neighbour("s2", 2))
	assert.Equal(t, "s10", data.Neighbour("s2", -1))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader(`{"sentences": [`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	empty := &AlignmentData{}
	_, err = empty.Find("")
	assert.ErrorIs(t, err, ErrSentenceNotFound)
	assert.Equal(t, "", empty.Neighbour("s1", 1))

	var nilPair *SentencePair
	assert.Nil(t, nilPair.Alignments(Lexical))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(wire), 0644))

	data, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, data.Sentences, 2)

	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestSides(t *testing.T) {
	a := catAlignments[1]
	assert.Equal(t, []string{"s2"}, a.Side(Source))
	assert.Equal(t, []string{"t1", "t2"}, a.Side(Target))
	assert.Equal(t, "target", Target.String())
}
