package export

import (
	"encoding/json"
	"fmt"

	"ribbons/layout"
	"ribbons/ribbon"
)

// JSONExporter exports the scene and interaction state as JSON
type JSONExporter struct {
	svg *SVGExporter
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{svg: NewSVGExporter()}
}

type highlightJSON struct {
	Index  int    `json:"index"`
	Origin string `json:"origin"`
}

type documentJSON struct {
	Sentence    string           `json:"sentence"`
	Layer       string           `json:"layer"`
	AtMS        int64            `json:"at_ms"`
	Phase       string           `json:"phase"`
	Hover       string           `json:"hover,omitempty"`
	Pin         string           `json:"pin,omitempty"`
	Hovered     []string         `json:"hovered"`
	Highlighted []highlightJSON  `json:"highlighted"`
	Animating   []int            `json:"animating"`
	Positions   layout.Positions `json:"positions"`
	Scene       ribbon.Scene     `json:"scene"`
}

// Export converts a document to JSON
func (e *JSONExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil || doc.Pair == nil {
		return nil, fmt.Errorf("export: empty document")
	}
	board := vectorBoard(doc.Pair, e.svg.face(doc.Style.FontSize), doc.Style)
	scene, pos := doc.scene(board, doc.Style.AnchorOffset)

	snap := doc.Snapshot
	out := documentJSON{
		Sentence:    doc.Pair.ID,
		Layer:       doc.Layer.String(),
		AtMS:        doc.At.Milliseconds(),
		Phase:       snap.Phase.String(),
		Hovered:     snap.HoveredList(),
		Highlighted: []highlightJSON{},
		Animating:   []int{},
		Positions:   pos,
		Scene:       scene,
	}
	if snap.Hover != nil {
		out.Hover = snap.Hover.String()
	}
	if snap.Pin != nil {
		out.Pin = snap.Pin.String()
	}
	for _, i := range snap.HighlightedIndices() {
		origin, _ := snap.Origin(i)
		out.Highlighted = append(out.Highlighted, highlightJSON{Index: i, Origin: origin.String()})
		if snap.IsAnimating(i) {
			out.Animating = append(out.Animating, i)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
