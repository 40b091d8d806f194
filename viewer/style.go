package viewer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"ribbons/canvas"
)

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// cellStyle converts a resolved canvas cell to a screen style.
func cellStyle(c *canvas.MatrixCanvas, cell canvas.Cell) tcell.Style {
	st := tcell.StyleDefault.
		Background(tcellColor(c.Background())).
		Foreground(tcellColor(c.Resolve(cell)))
	a := cell.Ink.Attr
	return st.
		Bold(a.Has(canvas.AttrBold)).
		Dim(a.Has(canvas.AttrDim)).
		Underline(a.Has(canvas.AttrUnderline)).
		Reverse(a.Has(canvas.AttrReverse))
}

// blit copies at most rows canvas rows to the screen at (x0, y0).
func blit(s tcell.Screen, c *canvas.MatrixCanvas, x0, y0, rows int) {
	w, h := c.Size()
	for y := 0; y < min(h, rows); y++ {
		for x := 0; x < w; x++ {
			cell := c.Get(x, y)
			if cell.Rune == 0 {
				continue
			}
			s.SetContent(x0+x, y0+y, cell.Rune, nil, cellStyle(c, cell))
		}
	}
}
