package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ribbons/alignment"
	"ribbons/geometry"
)

// maxRasterDim bounds the output size.
const maxRasterDim = 8192

// PNGExporter rasterizes the board. Shapes go through oksvg and rasterx;
// text is drawn afterwards with the same face used for layout.
type PNGExporter struct {
	svg   *SVGExporter
	Scale float64
}

// NewPNGExporter creates a new PNG exporter at 2x scale
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{svg: NewSVGExporter(), Scale: 2}
}

// Export renders the document as PNG
func (e *PNGExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("export: empty document")
	}
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	f, err := newVectorFrame(doc, e.svg.face(doc.Style.FontSize))
	if err != nil {
		return nil, err
	}

	var shapes bytes.Buffer
	f.writeSVG(&shapes, true)
	icon, err := oksvg.ReadIconStream(bytes.NewReader(shapes.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("export png: parse shapes: %w", err)
	}

	w := min(int(math.Ceil(f.width*scale)), maxRasterDim)
	h := min(int(math.Ceil(f.height*scale)), maxRasterDim)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.palette.Background), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	text := NewMetrics(doc.Style.FontSize * scale)
	e.drawText(dst, f, text, scale)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("export png: encode: %w", err)
	}
	return out.Bytes(), nil
}

func (e *PNGExporter) drawText(dst draw.Image, f *vectorFrame, m *Metrics, scale float64) {
	bg := f.palette.Background
	put := func(s string, x, y float64, c colorful.Color, alpha float64, centered bool) {
		if centered {
			x -= m.Measure(s) / 2
		}
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(bg.BlendRgb(c, alpha).Clamped()),
			Face: m.Face(),
			Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
		}
		d.DrawString(s)
	}
	// baseline that centres the face's x-height on a row
	mid := func(top, height float64) float64 {
		return (top+height/2)*scale + m.Ascent()*0.35
	}

	for _, hb := range []struct {
		box      geometry.Rect
		sentence alignment.TokenizedSentence
	}{
		{f.board.SourceHeader, f.doc.Pair.Source},
		{f.board.TargetHeader, f.doc.Pair.Target},
	} {
		tag, txt := f.headerText(hb.sentence)
		y := mid(hb.box.Y, hb.box.Height)
		put(tag, hb.box.X*scale, y, f.palette.Accent, 1, false)
		put(txt, (hb.box.X+f.doc.Style.FontSize*2.5)*scale, y, f.palette.Muted, 1, false)
	}

	for _, side := range []alignment.Side{alignment.Source, alignment.Target} {
		sentence := f.doc.Pair.Sentence(side)
		for _, el := range f.board.Elements(side) {
			tok, ok := sentence.Token(el.ID)
			if !ok {
				continue
			}
			_, ink := f.tokenInk(alignment.TokenRef{ID: el.ID, Side: side})
			put(tok.Form, el.Box.CenterX()*scale, mid(el.Box.Y, el.Box.Height), ink.Color, ink.Alpha, true)
		}
	}

	for i, l := range f.labels {
		put(l, f.board.SourceHeader.X*scale, f.labelBaseline(i)*scale, f.palette.Accent, 1, false)
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// GetFileExtension returns the file extension for PNG
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
