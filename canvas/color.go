package canvas

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ANSI codes
const (
	ColorReset = "\033[0m"

	// Text style codes
	StyleBold      = "\033[1m"
	StyleDim       = "\033[2m"
	StyleUnderline = "\033[4m"
	StyleReverse   = "\033[7m"
)

// ParseColor parses a #rrggbb colour.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	return c, nil
}

// MustColor parses a colour known to be valid.
func MustColor(hex string) colorful.Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ForegroundCode returns the 24-bit ANSI foreground sequence for c.
func ForegroundCode(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}

// BackgroundCode returns the 24-bit ANSI background sequence for c.
func BackgroundCode(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b)
}

// StyleCode returns the ANSI sequences for a set of attributes.
func StyleCode(a Attr) string {
	code := ""
	if a.Has(AttrBold) {
		code += StyleBold
	}
	if a.Has(AttrDim) {
		code += StyleDim
	}
	if a.Has(AttrUnderline) {
		code += StyleUnderline
	}
	if a.Has(AttrReverse) {
		code += StyleReverse
	}
	return code
}
