// Package export renders a captured visualizer state to files.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents an export format
type Format string

const (
	// FormatSVG exports a vector image of the board
	FormatSVG Format = "svg"
	// FormatPNG exports a raster image of the board
	FormatPNG Format = "png"
	// FormatJSON exports the ribbon scene and interaction state
	FormatJSON Format = "json"
	// FormatASCII exports the terminal rendering as plain Unicode text
	FormatASCII Format = "ascii"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export renders a document in the target format
	Export(doc *Document) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatPNG:
		return NewPNGExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg", "":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatSVG,
		FormatPNG,
		FormatJSON,
		FormatASCII,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatSVG:   "SVG vector image",
		FormatPNG:   "PNG raster image",
		FormatJSON:  "Ribbon scene as JSON",
		FormatASCII: "Unicode text (terminal rendering)",
	}
}

// FileName returns a file name for a document, e.g. "cat-sleeps-lexical.svg".
func FileName(doc *Document, e Exporter) string {
	id := "sentence"
	if doc.Pair != nil && doc.Pair.ID != "" {
		id = doc.Pair.ID
	}
	return slug.Make(id+" "+doc.Layer.String()) + e.GetFileExtension()
}
