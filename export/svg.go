package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"ribbons/alignment"
	"ribbons/canvas"
	"ribbons/geometry"
	"ribbons/layout"
	"ribbons/ribbon"
)

const svgStyle = `.ribbon{transition:stroke-dashoffset 400ms ease-out,stroke-opacity 200ms}` +
	`.dot{transition:fill-opacity 200ms}` +
	`text{font-family:"Go",sans-serif}`

// vectorFrame is a document laid out in px.
type vectorFrame struct {
	doc     *Document
	metrics *Metrics
	board   *layout.Board
	scene   ribbon.Scene
	palette canvas.Palette

	labels    []string
	labelTop  float64
	labelLine float64
	width     float64
	height    float64
}

func newVectorFrame(doc *Document, m *Metrics) (*vectorFrame, error) {
	if doc == nil || doc.Pair == nil {
		return nil, fmt.Errorf("export: empty document")
	}
	palette, err := doc.Style.Palette()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	board := vectorBoard(doc.Pair, m, doc.Style)
	scene, _ := doc.scene(board, doc.Style.AnchorOffset)

	f := &vectorFrame{
		doc:       doc,
		metrics:   m,
		board:     board,
		scene:     scene,
		palette:   palette,
		labelTop:  board.Height,
		labelLine: doc.Style.FontSize * 1.6,
		width:     board.Width,
		height:    board.Height,
	}
	for _, l := range scene.Labels {
		f.labels = append(f.labels, l.Text)
	}
	if len(f.labels) > 0 {
		f.height += float64(len(f.labels))*f.labelLine + doc.Style.FontSize*0.8
	}
	return f, nil
}

func (f *vectorFrame) tokenInk(ref alignment.TokenRef) (canvas.TokenState, canvas.Ink) {
	state := canvas.StateOf(ref, f.doc.Alignments(), f.doc.Snapshot)
	return state, canvas.TokenInk(state, f.palette)
}

// writeSVG renders the frame. With raster set, text and transitions are left
// out and hidden strokes are skipped, producing the subset oksvg draws.
func (f *vectorFrame) writeSVG(buf *bytes.Buffer, raster bool) {
	ff := geometry.FormatFloat
	fs := f.doc.Style.FontSize

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		ff(f.width), ff(f.height), ff(f.width), ff(f.height))
	if !raster {
		fmt.Fprintf(buf, "<style>%s</style>\n", svgStyle)
	}
	fmt.Fprintf(buf, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", ff(f.width), ff(f.height), f.palette.Background.Hex())

	if !raster {
		f.writeHeader(buf, f.board.SourceHeader, f.doc.Pair.Source)
		f.writeHeader(buf, f.board.TargetHeader, f.doc.Pair.Target)
	}

	for _, side := range []alignment.Side{alignment.Source, alignment.Target} {
		fmt.Fprintf(buf, `<g class="tokens %s">`+"\n", side)
		sentence := f.doc.Pair.Sentence(side)
		for _, e := range f.board.Elements(side) {
			tok, ok := sentence.Token(e.ID)
			if !ok {
				continue
			}
			state, ink := f.tokenInk(alignment.TokenRef{ID: e.ID, Side: side})
			fill, fillOpacity, stroke := f.palette.Foreground.Hex(), 0.04, "none"
			switch state {
			case canvas.TokenHovered:
				fill, fillOpacity = f.palette.Accent.Hex(), 0.12
			case canvas.TokenPinned:
				fill, fillOpacity, stroke = f.palette.Accent.Hex(), 0.2, f.palette.Accent.Hex()
			}
			fmt.Fprintf(buf, `<rect class="token %s" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" fill-opacity="%s" stroke="%s"/>`+"\n",
				state, escape(e.ID), ff(e.Box.X), ff(e.Box.Y), ff(e.Box.Width), ff(e.Box.Height),
				fill, ff(fillOpacity), stroke)
			if raster {
				continue
			}
			weight := "normal"
			if ink.Attr.Has(canvas.AttrBold) {
				weight = "bold"
			}
			fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="central" fill="%s" fill-opacity="%s" font-weight="%s">%s</text>`+"\n",
				ff(e.Box.CenterX()), ff(e.Box.Y+e.Box.Height/2), ff(fs), ink.Color.Hex(), ff(ink.Alpha), weight, escape(tok.Form))
		}
		buf.WriteString("</g>\n")
	}

	area, _ := f.board.Canvas()
	fmt.Fprintf(buf, `<g class="ribbons %s" transform="translate(%s %s)">`+"\n", f.doc.Layer, ff(area.X), ff(area.Y))
	for _, r := range f.scene.Ribbons {
		if raster && canvas.Revealed(r) <= 0 {
			continue
		}
		fmt.Fprintf(buf, `<path class="ribbon" data-index="%d" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s" stroke-linecap="round"`,
			r.Index, r.Path, f.scene.Color, ff(r.Width), ff(r.Opacity))
		if r.Dash != nil && !raster {
			fmt.Fprintf(buf, ` stroke-dasharray="%s" stroke-dashoffset="%s"`, ff(r.Dash.Array), ff(r.Dash.Offset))
			if r.Dash.Delay > 0 {
				fmt.Fprintf(buf, ` style="transition-delay:%dms"`, r.Dash.Delay.Milliseconds())
			}
		}
		buf.WriteString("/>\n")
	}
	for _, d := range f.scene.Dots {
		if raster && d.Opacity <= 0 {
			continue
		}
		fmt.Fprintf(buf, `<circle class="dot" data-index="%d" cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"`,
			d.Index, ff(d.Center.X), ff(d.Center.Y), ff(d.Radius), f.scene.Color, ff(d.Opacity))
		if d.Delay > 0 && !raster {
			fmt.Fprintf(buf, ` style="transition-delay:%dms"`, d.Delay.Milliseconds())
		}
		buf.WriteString("/>\n")
	}
	buf.WriteString("</g>\n")

	if !raster {
		for i, l := range f.labels {
			fmt.Fprintf(buf, `<text class="label" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
				ff(f.board.SourceHeader.X), ff(f.labelBaseline(i)), ff(fs*0.875), f.palette.Accent.Hex(), escape(l))
		}
	}
	buf.WriteString("</svg>\n")
}

func (f *vectorFrame) labelBaseline(i int) float64 {
	return f.labelTop + float64(i+1)*f.labelLine
}

func (f *vectorFrame) headerText(s alignment.TokenizedSentence) (string, string) {
	return strings.ToUpper(s.Lang), s.Text
}

func (f *vectorFrame) writeHeader(buf *bytes.Buffer, box geometry.Rect, s alignment.TokenizedSentence) {
	ff := geometry.FormatFloat
	fs := f.doc.Style.FontSize
	tag, text := f.headerText(s)
	y := box.Y + box.Height/2
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" dominant-baseline="central" font-weight="bold" fill="%s">%s</text>`+"\n",
		ff(box.X), ff(y), ff(fs*0.75), f.palette.Accent.Hex(), escape(tag))
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		ff(box.X+fs*2.5), ff(y), ff(fs*0.875), f.palette.Muted.Hex(), escape(text))
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// SVGExporter exports the board as an SVG document.
type SVGExporter struct {
	metrics map[float64]*Metrics
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{metrics: make(map[float64]*Metrics)}
}

func (e *SVGExporter) face(size float64) *Metrics {
	m, ok := e.metrics[size]
	if !ok {
		m = NewMetrics(size)
		e.metrics[size] = m
	}
	return m
}

// Export renders the document as SVG
func (e *SVGExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("export: empty document")
	}
	f, err := newVectorFrame(doc, e.face(doc.Style.FontSize))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	f.writeSVG(&buf, false)
	return buf.Bytes(), nil
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
