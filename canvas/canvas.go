// Package canvas provides a 2D cell grid that rasterizes ribbon boards for
// the terminal and for plain-text export.
package canvas

import "github.com/lucasb-eyer/go-colorful"

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

// Has reports whether a is set.
func (a Attr) Has(flag Attr) bool {
	return a&flag != 0
}

// Ink is a colour with coverage. Alpha is blended against the canvas
// background when the cell is resolved.
type Ink struct {
	Color colorful.Color
	Alpha float64
	Attr  Attr
}

// Cell is one grid position. A rune of 0 marks the continuation of a wide
// character on its left.
type Cell struct {
	Rune rune
	Ink  Ink
	Set  bool
}
