package canvas

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// MatrixCanvas is a cell matrix with a background colour.
//
// MatrixCanvas is NOT thread-safe. The viewer builds one per frame on its
// event loop.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type MatrixCanvas struct {
	cells      [][]Cell
	width      int
	height     int
	background colorful.Color
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int, background colorful.Color) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	c := &MatrixCanvas{cells: cells, width: width, height: height, background: background}
	c.Clear()
	return c, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Background returns the canvas background colour.
func (c *MatrixCanvas) Background() colorful.Color {
	return c.background
}

func (c *MatrixCanvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the cell at the given position.
// Returns a blank cell if position is out of bounds.
func (c *MatrixCanvas) Get(x, y int) Cell {
	if !c.inside(x, y) {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// Set draws a stroke cell. Where strokes overlap the more opaque one wins;
// on a tie the later one wins.
func (c *MatrixCanvas) Set(x, y int, r rune, ink Ink) error {
	if !c.inside(x, y) {
		return ErrOutOfBounds
	}
	existing := c.cells[y][x]
	if existing.Set && existing.Ink.Alpha > ink.Alpha {
		return nil
	}
	c.cells[y][x] = Cell{Rune: r, Ink: ink, Set: true}
	return nil
}

// Put overwrites a cell unconditionally.
func (c *MatrixCanvas) Put(x, y int, r rune, ink Ink) error {
	if !c.inside(x, y) {
		return ErrOutOfBounds
	}
	c.cells[y][x] = Cell{Rune: r, Ink: ink, Set: true}
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Resolve returns the visible colour of a cell's ink over the background.
func (c *MatrixCanvas) Resolve(cell Cell) colorful.Color {
	if !cell.Set {
		return c.background
	}
	alpha := cell.Ink.Alpha
	if alpha >= 1 {
		return cell.Ink.Color
	}
	if alpha <= 0 {
		return c.background
	}
	return c.background.BlendRgb(cell.Ink.Color, alpha).Clamped()
}

// String returns the canvas as plain text with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		line := make([]rune, 0, c.width)
		for x := 0; x < c.width; x++ {
			r := c.cells[y][x].Rune
			if r == 0 {
				// wide character continuation
				continue
			}
			line = append(line, r)
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
