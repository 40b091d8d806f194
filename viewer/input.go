package viewer

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/geometry"
)

func (v *Viewer) handleKey(ev *tcell.EventKey) {
	v.status = ""
	switch ev.Key() {
	case tcell.KeyCtrlC:
		v.quit = true
	case tcell.KeyTab, tcell.KeyRight:
		v.nav.Next()
	case tcell.KeyBacktab, tcell.KeyLeft:
		v.nav.Prev()
	case tcell.KeyEnter:
		v.nav.Activate()
	case tcell.KeyEscape:
		if v.help {
			v.help = false
			return
		}
		v.nav.Blur()
	case tcell.KeyRune:
		v.handleRune(ev.Rune())
	}
}

func (v *Viewer) handleRune(r rune) {
	switch r {
	case 'q':
		v.quit = true
	case ' ':
		v.nav.Activate()
	case '1', '2', '3':
		v.selectLayer(alignment.Layers()[r-'1'])
	case 'l':
		v.selectLayer(v.machine.Layer().Next())
	case 'n', 'p':
		delta := 1
		if r == 'p' {
			delta = -1
		}
		id := v.data.Neighbour(v.machine.Pair().ID, delta)
		if p, err := v.data.Find(id); err == nil && p != v.machine.Pair() {
			layer := v.machine.Layer()
			v.setPair(p)
			v.setLayer(layer)
		}
	case 'e':
		path, err := v.Export()
		if err != nil {
			v.status = "export failed: " + err.Error()
			v.log.Warn("Export failed", zap.Error(err))
			return
		}
		v.status = "saved " + path
	case '?':
		v.help = !v.help
	}
}

// selectLayer switches layers on request and shows what the layer means.
func (v *Viewer) selectLayer(l alignment.Layer) {
	v.setLayer(l)
	v.status = l.Description()
}

// handleMouse turns pointer motion into enter and leave transitions of the
// token under the pointer, and a button press into a click on it.
func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	var under *alignment.TokenRef
	if _, mounted := v.board.Canvas(); mounted {
		if e, ok := v.board.HitTest(geometry.Point{X: float64(x), Y: float64(y)}); ok {
			under = &alignment.TokenRef{ID: e.ID, Side: e.Side}
		}
	}

	if !sameRef(under, v.pointer) {
		if v.pointer != nil {
			v.machine.PointerLeave()
		}
		if under != nil {
			v.nav.Focus(*under)
			v.machine.PointerEnter(*under)
		}
		v.pointer = under
	}

	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !v.pressed && under != nil {
		v.machine.Click(*under)
	}
	v.pressed = pressed
}

func sameRef(a, b *alignment.TokenRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
