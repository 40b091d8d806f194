package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ribbons/alignment"
	"ribbons/geometry"
	"ribbons/interaction"
	"ribbons/layout"
	"ribbons/ribbon"
)

var (
	black = MustColor("#000000")
	white = MustColor("#ffffff")
	green = MustColor("#10B981")
)

func TestMatrixCanvas_Creation(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"Small", 10, 5, false},
		{"Wide", 100, 3, false},
		{"Zero", 0, 5, true},
		{"Negative", 5, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMatrixCanvas(tt.width, tt.height, black)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSize)
				return
			}
			require.NoError(t, err)
			w, h := c.Size()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
			assert.Equal(t, ' ', c.Get(0, 0).Rune)
		})
	}
}

func TestSetKeepsMostOpaque(t *testing.T) {
	c, _ := NewMatrixCanvas(4, 2, black)
	require.NoError(t, c.Set(1, 1, '│', Ink{Color: green, Alpha: 0.6}))
	require.NoError(t, c.Set(1, 1, '·', Ink{Color: green, Alpha: 0.15}))
	assert.Equal(t, '│', c.Get(1, 1).Rune)

	require.NoError(t, c.Set(1, 1, '╲', Ink{Color: green, Alpha: 1}))
	assert.Equal(t, '╲', c.Get(1, 1).Rune)

	assert.ErrorIs(t, c.Set(9, 9, 'x', Ink{}), ErrOutOfBounds)
	assert.Equal(t, ' ', c.Get(-1, 0).Rune)
}

func TestResolveBlendsAgainstBackground(t *testing.T) {
	c, _ := NewMatrixCanvas(1, 1, black)
	full := c.Resolve(Cell{Set: true, Ink: Ink{Color: white, Alpha: 1}})
	assert.Equal(t, "#ffffff", full.Hex())

	half := c.Resolve(Cell{Set: true, Ink: Ink{Color: white, Alpha: 0.5}})
	r, g, b := half.RGB255()
	assert.InDelta(t, 127, int(r), 1)
	assert.InDelta(t, 127, int(g), 1)
	assert.InDelta(t, 127, int(b), 1)

	assert.Equal(t, "#000000", c.Resolve(Cell{}).Hex())
}

func TestWriteTextWide(t *testing.T) {
	c, _ := NewMatrixCanvas(8, 1, black)
	n := c.WriteText(0, 0, "a猫b", Ink{Color: white, Alpha: 1})
	assert.Equal(t, 4, n)
	assert.Equal(t, rune(0), c.Get(2, 0).Rune)
	assert.Equal(t, "a猫b", c.String())

	n = c.WriteText(6, 0, "xyz", Ink{Color: white, Alpha: 1})
	assert.Equal(t, 2, n)
}

func TestWrapAndFit(t *testing.T) {
	assert.Equal(t, []string{"sleeps→lo", "dago"}, WrapText("sleeps→lo dago", 10))
	assert.Equal(t, []string{}, WrapText("", 10))
	assert.Nil(t, WrapText("x", 0))
	assert.Equal(t, "abc…", FitText("abcdefgh", 4, "…"))
	assert.Equal(t, "ab", FitText("ab", 4, "…"))
}

func TestColoredString(t *testing.T) {
	c, _ := NewMatrixCanvas(3, 1, black)
	_ = c.Put(1, 0, 'x', Ink{Color: white, Alpha: 1, Attr: AttrBold})
	out := c.ColoredString()
	assert.Contains(t, out, "\033[38;2;255;255;255m")
	assert.Contains(t, out, StyleBold)
	assert.True(t, strings.HasSuffix(out, ColorReset+" "))
}

func TestGlyphFor(t *testing.T) {
	g := DefaultGlyphs
	assert.Equal(t, g.Vertical, glyphFor(geometry.Point{X: 0, Y: 10}, 1, g))
	assert.Equal(t, g.Horizontal, glyphFor(geometry.Point{X: 10, Y: 1}, 1, g))
	assert.Equal(t, g.Falling, glyphFor(geometry.Point{X: 5, Y: 5}, 1, g))
	assert.Equal(t, g.Rising, glyphFor(geometry.Point{X: -5, Y: 5}, 1, g))
	assert.Equal(t, g.Faint, glyphFor(geometry.Point{X: 0, Y: 10}, 0.15, g))
}

func TestDrawSceneVerticalRibbon(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 8, black)
	curve := geometry.VerticalRibbon(geometry.Point{X: 2.5, Y: -0.5}, geometry.Point{X: 2.5, Y: 6.5}, 50)
	scene := ribbon.Scene{
		Ribbons: []ribbon.Ribbon{{Curve: curve, Length: 7, Opacity: 1}},
		Dots: []ribbon.Dot{
			{Center: curve.P0, Opacity: 1},
			{Center: curve.P3, Opacity: 1},
		},
	}
	area := geometry.Rect{X: 0, Y: 1, Width: 5, Height: 6}
	c.DrawScene(scene, area, green, RasterOptions{})

	assert.Equal(t, ' ', c.Get(2, 0).Rune, "row above the area stays empty")
	assert.Equal(t, '●', c.Get(2, 1).Rune)
	assert.Equal(t, '│', c.Get(2, 3).Rune)
	assert.Equal(t, '●', c.Get(2, 6).Rune)
	assert.Equal(t, ' ', c.Get(2, 7).Rune)
}

func TestDrawSceneHiddenDash(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 6, black)
	curve := geometry.VerticalRibbon(geometry.Point{X: 2, Y: 0}, geometry.Point{X: 2, Y: 6}, 50)
	scene := ribbon.Scene{Ribbons: []ribbon.Ribbon{{
		Curve: curve, Length: 150, Opacity: 1,
		Dash: &ribbon.Dash{Array: 150, Offset: 150},
	}}}
	c.DrawScene(scene, geometry.Rect{Width: 5, Height: 6}, green, RasterOptions{})
	assert.Equal(t, "\n\n\n\n\n", c.String())

	assert.Equal(t, 0.5, Revealed(ribbon.Ribbon{Dash: &ribbon.Dash{Array: 100, Offset: 50}}))
	assert.Equal(t, 1.0, Revealed(ribbon.Ribbon{}))
}

func TestDrawScenePartialReveal(t *testing.T) {
	c, _ := NewMatrixCanvas(5, 8, black)
	curve := geometry.VerticalRibbon(geometry.Point{X: 2, Y: 0}, geometry.Point{X: 2, Y: 8}, 50)
	scene := ribbon.Scene{Ribbons: []ribbon.Ribbon{{
		Curve: curve, Length: 8, Opacity: 1,
		Dash: &ribbon.Dash{Array: 8, Offset: 4},
	}}}
	c.DrawScene(scene, geometry.Rect{Width: 5, Height: 8}, green, RasterOptions{})

	assert.Equal(t, '│', c.Get(2, 1).Rune)
	assert.Equal(t, '│', c.Get(2, 3).Rune)
	assert.Equal(t, ' ', c.Get(2, 6).Rune, "unrevealed half stays empty")
	assert.Equal(t, ' ', c.Get(2, 7).Rune)
}

func TestRenderBoard(t *testing.T) {
	pair := &alignment.SentencePair{
		ID: "cat",
		Source: alignment.TokenizedSentence{Lang: "en", Text: "The cat",
			Tokens: []alignment.Token{{ID: "s0", Form: "The"}, {ID: "s1", Form: "cat"}}},
		Target: alignment.TokenizedSentence{Lang: "eu", Text: "Katua",
			Tokens: []alignment.Token{{ID: "t0", Form: "Katua"}}},
		Layers: alignment.AlignmentLayers{Lexical: []alignment.Alignment{
			{Source: []string{"s1"}, Target: []string{"t0"}, Label: "cat→katua"},
		}},
	}
	board := layout.Arrange(pair, func(s string) float64 { return float64(MeasureText(s)) }, layout.BoardOptions{
		Width: 20, Gap: 1, LineHeight: 1, HeaderHeight: 1, CanvasHeight: 4, TokenPadding: 1,
	})
	pos := layout.Measure(board, 0.5)
	snap := interaction.Snapshot{
		Phase:         interaction.PhaseHovering,
		HoveredTokens: map[string]struct{}{"s1": {}, "t0": {}},
		Highlighted:   map[int]interaction.Origin{0: interaction.OriginPreview},
		Animating:     map[int]struct{}{0: {}},
	}
	als := pair.Alignments(alignment.Lexical)
	scene := ribbon.Build(als, pos, snap, "#10B981", ribbon.DefaultOptions())

	c, err := Render(Frame{
		Board: board, Pair: pair, Alignments: als, Scene: scene, Snapshot: snap,
		Palette: Palette{Background: black, Foreground: white, Muted: white, Accent: green},
	})
	require.NoError(t, err)

	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "EN The cat", lines[0])
	assert.Equal(t, " The   cat", lines[1])
	assert.Equal(t, " Katua", lines[6])
	assert.Equal(t, "EU Katua", lines[7])
	assert.Equal(t, "• cat→katua", lines[8])

	// the hovered token is drawn with the accent, the other one dimmed
	assert.Equal(t, TokenHovered, StateOf(alignment.TokenRef{ID: "s1"}, als, snap))
	assert.Equal(t, TokenDimmed, StateOf(alignment.TokenRef{ID: "s0"}, als, snap))
	assert.True(t, c.Get(7, 1).Ink.Attr.Has(AttrBold))
	assert.False(t, c.Get(1, 1).Ink.Attr.Has(AttrBold))
}
