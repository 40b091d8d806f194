package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// WriteText writes s starting at (x, y) and returns the number of cells
// used. Wide characters occupy two cells, the second holding rune 0.
// Text is clipped at the canvas edge.
func (c *MatrixCanvas) WriteText(x, y int, s string, ink Ink) int {
	start := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			break
		}
		_ = c.Put(x, y, r, ink)
		if w == 2 {
			_ = c.Put(x+1, y, 0, ink)
		}
		x += w
	}
	return x - start
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// WrapText wraps text to fit within maxWidth using word boundaries. A word
// longer than maxWidth is put on its own line and truncated.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	words := strings.Fields(text)
	lines := []string{}
	var line strings.Builder
	width := 0

	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if width > 0 && width+1+ww > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteRune(' ')
			width++
		}
		if ww > maxWidth {
			word = FitText(word, maxWidth, "…")
			ww = runewidth.StringWidth(word)
		}
		line.WriteString(word)
		width += ww
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
