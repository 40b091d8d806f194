package canvas

import "strings"

// ColoredString returns the canvas with 24-bit ANSI colour codes. Unset
// cells are written without codes so the terminal background shows through.
func (c *MatrixCanvas) ColoredString() string {
	var sb strings.Builder

	for y := 0; y < c.height; y++ {
		current := ""
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			if cell.Rune == 0 {
				continue
			}
			code := ""
			if cell.Set && cell.Rune != ' ' {
				code = ForegroundCode(c.Resolve(cell)) + StyleCode(cell.Ink.Attr)
			}

			// Change color if needed
			if code != current {
				if current != "" {
					sb.WriteString(ColorReset)
				}
				sb.WriteString(code)
				current = code
			}
			sb.WriteRune(cell.Rune)
		}

		// Reset color at end of line if needed
		if current != "" {
			sb.WriteString(ColorReset)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
