package export

import (
	"fmt"

	"ribbons/canvas"
	"ribbons/layout"
)

// ASCIIExporter exports the terminal rendering as plain Unicode text
type ASCIIExporter struct {
	// Color adds 24-bit ANSI colour codes
	Color bool
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{}
}

// TerminalBoard arranges a pair in terminal cells.
func TerminalBoard(doc *Document) *layout.Board {
	measure := func(s string) float64 { return float64(canvas.MeasureText(s)) }
	return layout.Arrange(doc.Pair, measure, layout.BoardOptions{
		Width:        float64(doc.Style.TerminalWidth),
		Margin:       1,
		Gap:          1,
		LineHeight:   1,
		HeaderHeight: 1,
		CanvasHeight: float64(doc.Style.TerminalRows),
		TokenPadding: 1,
	})
}

// Export converts the document to Unicode text
func (e *ASCIIExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil || doc.Pair == nil {
		return nil, fmt.Errorf("export: empty document")
	}
	palette, err := doc.Style.Palette()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	board := TerminalBoard(doc)
	scene, _ := doc.scene(board, doc.Style.TerminalOffset)
	c, err := canvas.Render(canvas.Frame{
		Board:      board,
		Pair:       doc.Pair,
		Alignments: doc.Alignments(),
		Scene:      scene,
		Snapshot:   doc.Snapshot,
		Palette:    palette,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render board: %w", err)
	}
	if e.Color {
		return []byte(c.ColoredString() + "\n"), nil
	}
	return []byte(c.String() + "\n"), nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
