package canvas

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"ribbons/alignment"
	"ribbons/interaction"
	"ribbons/layout"
	"ribbons/ribbon"
)

// Palette holds the colours of a rendered board.
type Palette struct {
	Background colorful.Color
	Foreground colorful.Color
	Muted      colorful.Color
	Accent     colorful.Color
}

// TokenState is the visual state of a token.
type TokenState int

const (
	TokenPlain     TokenState = iota // Not aligned in the active layer
	TokenConnected                   // Aligned, nothing hovered
	TokenHovered                     // Part of the hover set
	TokenDimmed                      // Something else is hovered
	TokenPinned                      // The pinned token
)

// String returns the state name for display
func (s TokenState) String() string {
	switch s {
	case TokenPlain:
		return "plain"
	case TokenConnected:
		return "connected"
	case TokenHovered:
		return "hovered"
	case TokenDimmed:
		return "dimmed"
	case TokenPinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// StateOf classifies a token against the active layer and interaction state.
func StateOf(ref alignment.TokenRef, alignments []alignment.Alignment, snap interaction.Snapshot) TokenState {
	switch {
	case snap.IsPinned(ref):
		return TokenPinned
	case snap.TokenHovered(ref.ID):
		return TokenHovered
	case snap.TokenDimmed(ref.ID):
		return TokenDimmed
	case alignment.Connected(alignments, ref.ID, ref.Side):
		return TokenConnected
	default:
		return TokenPlain
	}
}

// TokenInk returns the ink for a token state.
func TokenInk(state TokenState, p Palette) Ink {
	switch state {
	case TokenPinned:
		return Ink{Color: p.Accent, Alpha: 1, Attr: AttrBold | AttrUnderline}
	case TokenHovered:
		return Ink{Color: p.Accent, Alpha: 1, Attr: AttrBold}
	case TokenDimmed:
		return Ink{Color: p.Foreground, Alpha: 0.35}
	case TokenConnected:
		return Ink{Color: p.Foreground, Alpha: 1}
	default:
		return Ink{Color: p.Muted, Alpha: 1}
	}
}

// Frame is everything needed to draw one board.
type Frame struct {
	Board      *layout.Board
	Pair       *alignment.SentencePair
	Alignments []alignment.Alignment
	Scene      ribbon.Scene
	Snapshot   interaction.Snapshot
	Focus      *alignment.TokenRef
	Palette    Palette
	Raster     RasterOptions
}

// Render draws a frame: headers, token rows, ribbons, then the label panel
// below the board when labels are visible.
func Render(f Frame) (*MatrixCanvas, error) {
	width := int(math.Ceil(f.Board.Width))
	boardHeight := int(math.Ceil(f.Board.Height))

	var panel []string
	if len(f.Scene.Labels) > 0 {
		for _, l := range f.Scene.Labels {
			for i, line := range WrapText(l.Text, max(1, width-4)) {
				prefix := "  "
				if i == 0 {
					prefix = "• "
				}
				panel = append(panel, prefix+line)
			}
		}
	}

	c, err := NewMatrixCanvas(width, boardHeight+len(panel), f.Palette.Background)
	if err != nil {
		return nil, err
	}

	c.header(f.Board.SourceHeader.X, f.Board.SourceHeader.Y, f.Pair.Source, f.Palette)
	c.header(f.Board.TargetHeader.X, f.Board.TargetHeader.Y, f.Pair.Target, f.Palette)

	area, _ := f.Board.Canvas()
	c.DrawScene(f.Scene, area, f.Palette.Accent, f.Raster)

	for _, side := range []alignment.Side{alignment.Source, alignment.Target} {
		sentence := f.Pair.Sentence(side)
		for _, e := range f.Board.Elements(side) {
			tok, ok := sentence.Token(e.ID)
			if !ok {
				continue
			}
			ref := alignment.TokenRef{ID: e.ID, Side: side}
			ink := TokenInk(StateOf(ref, f.Alignments, f.Snapshot), f.Palette)
			if f.Focus != nil && *f.Focus == ref {
				ink.Attr |= AttrReverse
			}
			tw := MeasureText(tok.Form)
			x := int(math.Floor(e.Box.X + (e.Box.Width-float64(tw))/2))
			c.WriteText(x, int(e.Box.Y), tok.Form, ink)
		}
	}

	labelInk := Ink{Color: f.Palette.Accent, Alpha: 1}
	for i, line := range panel {
		c.WriteText(0, boardHeight+i, line, labelInk)
	}
	return c, nil
}

func (c *MatrixCanvas) header(x, y float64, s alignment.TokenizedSentence, p Palette) {
	w, _ := c.Size()
	tag := strings.ToUpper(s.Lang)
	col := int(x)
	row := int(y)
	col += c.WriteText(col, row, tag, Ink{Color: p.Accent, Alpha: 1, Attr: AttrBold})
	col++
	c.WriteText(col, row, FitText(s.Text, w-col-int(x), "…"), Ink{Color: p.Muted, Alpha: 1})
}
