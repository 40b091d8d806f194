package export

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"ribbons/alignment"
	"ribbons/layout"
)

// Metrics measures text in px with the Go Regular face, the same face the
// PNG exporter draws with.
type Metrics struct {
	face font.Face
	size float64
}

// NewMetrics loads the face at size px. If the embedded font cannot be
// parsed, the fixed 7x13 face is used instead.
func NewMetrics(size float64) *Metrics {
	m := &Metrics{face: basicfont.Face7x13, size: 13}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return m
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return m
	}
	return &Metrics{face: face, size: size}
}

// Face returns the font face.
func (m *Metrics) Face() font.Face {
	return m.face
}

// Size returns the face size in px.
func (m *Metrics) Size() float64 {
	return m.size
}

// Measure returns the advance width of s in px.
func (m *Metrics) Measure(s string) float64 {
	return fromFixed(font.MeasureString(m.face, s))
}

// Ascent returns the distance from the baseline to the top of the face.
func (m *Metrics) Ascent() float64 {
	return fromFixed(m.face.Metrics().Ascent)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// vectorBoard arranges a pair in px for the vector exporters.
func vectorBoard(p *alignment.SentencePair, m *Metrics, style Style) *layout.Board {
	fs := style.FontSize
	return layout.Arrange(p, m.Measure, layout.BoardOptions{
		Width:        style.Width,
		Margin:       24,
		Gap:          style.TokenGap,
		LineHeight:   fs * 2,
		LineGap:      fs * 0.6,
		HeaderHeight: fs * 2.4,
		CanvasHeight: style.CanvasHeight,
		TokenPadding: fs * 0.5,
	})
}
