// Package viewer is the interactive terminal front end: it renders the board
// of one sentence pair with tcell and feeds pointer and key input to the
// interaction machine.
package viewer

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/canvas"
	"ribbons/config"
	"ribbons/export"
	"ribbons/interaction"
	"ribbons/layout"
	"ribbons/ribbon"
)

const (
	frameInterval = 33 * time.Millisecond
	minRows       = 3
	statusRows    = 1
)

// Clock is the time source of the viewer.
type Clock interface {
	animation.Clock
	Now() time.Duration
}

// Options configures a Viewer.
type Options struct {
	Path      string // data file, reloaded on change when Watch is set
	Sentence  string // initial sentence id, empty for the first one
	Layer     alignment.Layer
	Watch     bool
	ExportDir string // destination of exported views, default working directory

	// Clock and Dispatch replace the wall clock and the event queue. Tests
	// use a manual clock with inline dispatch.
	Clock    Clock
	Dispatch animation.Dispatch
}

// Viewer owns the screen and every engine component of one visualizer. All
// methods run on the event loop goroutine.
type Viewer struct {
	screen tcell.Screen
	cfg    *config.Config
	opts   Options
	log    *zap.Logger
	clock  Clock

	data    *alignment.AlignmentData
	sched   *animation.Scheduler
	machine *interaction.Machine
	nav     *interaction.Navigator
	tracker *layout.Tracker
	tween   *tween

	board   *layout.Board
	pointer *alignment.TokenRef // token under the mouse
	pressed bool
	status  string
	help    bool
	frame   bool
	quit    bool
}

// New creates a viewer over data. The screen must already be initialized.
func New(screen tcell.Screen, data *alignment.AlignmentData, cfg *config.Config, opts Options, log *zap.Logger) (*Viewer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfiguration(""); err != nil {
			return nil, err
		}
	}
	v := &Viewer{
		screen: screen,
		cfg:    cfg,
		opts:   opts,
		log:    log,
		clock:  opts.Clock,
		data:   data,
	}
	if v.clock == nil {
		v.clock = animation.SystemClock{}
	}
	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = v.post
	}
	v.sched = animation.NewScheduler(v.clock, dispatch, cfg.Timing(), log)
	v.machine = interaction.New(v.sched, log)
	v.machine.OnChange(v.changed)
	v.nav = interaction.NewNavigator(v.machine)
	v.tracker = layout.NewTracker(cfg.Terminal.AnchorOffset, log)
	v.tween = newTween(v.clock.Now, cfg.Timing().Reveal)

	p, err := data.Find(opts.Sentence)
	if err != nil {
		return nil, err
	}
	v.setPair(p)
	v.setLayer(opts.Layer)
	return v, nil
}

// Machine exposes the interaction machine.
func (v *Viewer) Machine() *interaction.Machine {
	return v.machine
}

// Status returns the transient message of the status line.
func (v *Viewer) Status() string {
	return v.status
}

// post queues f on the event loop.
func (v *Viewer) post(f func()) {
	if err := v.screen.PostEvent(tcell.NewEventInterrupt(f)); err != nil {
		v.log.Debug("Event queue full, dropping callback", zap.Error(err))
	}
}

func (v *Viewer) changed() {
	v.tween.update(v.machine.Snapshot())
}

func (v *Viewer) setPair(p *alignment.SentencePair) {
	v.tween.reset()
	v.pointer = nil
	v.machine.SetPair(p)
	v.tracker.Invalidate(layout.PairChanged)
	v.log.Debug("Sentence selected", zap.String("sentence", p.ID))
}

func (v *Viewer) setLayer(l alignment.Layer) {
	v.tween.reset()
	v.pointer = nil
	v.machine.SetLayer(l)
	v.tracker.Invalidate(layout.LayerChanged)
	v.log.Debug("Layer selected", zap.Stringer("layer", l), zap.Uint64("epoch", v.sched.Epoch()))
}

func (v *Viewer) style() export.Style {
	s := v.cfg.TerminalStyle(v.machine.Layer())
	w, _ := v.screen.Size()
	s.TerminalWidth = w
	return s
}

// arrange lays out the current pair for the screen. Ribbon rows shrink to
// fit; a board that still does not fit is left unmounted so nothing is
// measured until the next resize.
func (v *Viewer) arrange() *layout.Board {
	_, h := v.screen.Size()
	style := v.style()
	doc := &export.Document{Pair: v.machine.Pair(), Layer: v.machine.Layer(), Style: style}
	board := export.TerminalBoard(doc)
	if over := int(math.Ceil(board.Height)) + statusRows - h; over > 0 && style.TerminalRows > minRows {
		doc.Style.TerminalRows = max(minRows, style.TerminalRows-over)
		board = export.TerminalBoard(doc)
	}
	if int(math.Ceil(board.Height))+statusRows > h {
		board.Unmount()
	}
	return board
}

// measure runs the measurement pass after rendering, once per generation.
func (v *Viewer) measure() {
	if !v.tracker.Stale() && v.board != nil {
		return
	}
	v.board = v.arrange()
	pass, ok := v.tracker.Begin()
	if !ok {
		return
	}
	pos, ok := pass.Complete(v.board)
	if ok && pos.Ready() {
		v.machine.MeasurementReady(pos)
	}
}

func (v *Viewer) scene() ribbon.Scene {
	return ribbon.Build(v.machine.Alignments(), v.tracker.Positions(), v.machine.Snapshot(),
		v.cfg.Layers.Accent(v.machine.Layer()), v.cfg.RibbonOptions())
}

// Draw renders the current state and shows it.
func (v *Viewer) Draw() {
	v.measure()
	style := v.style()
	palette, err := style.Palette()
	if err != nil {
		v.log.Error("Bad palette", zap.Error(err))
		return
	}
	bg := tcell.StyleDefault.Background(tcellColor(palette.Background)).Foreground(tcellColor(palette.Foreground))
	v.screen.SetStyle(bg)
	v.screen.Clear()

	w, h := v.screen.Size()
	if _, mounted := v.board.Canvas(); !mounted {
		v.drawText(0, 0, "terminal too small", bg)
		v.screen.Show()
		return
	}

	scene := v.scene()
	var focus *alignment.TokenRef
	if ref, ok := v.nav.Focused(); ok {
		focus = &ref
	}
	c, err := canvas.Render(canvas.Frame{
		Board:      v.board,
		Pair:       v.machine.Pair(),
		Alignments: v.machine.Alignments(),
		Scene:      scene,
		Snapshot:   v.machine.Snapshot(),
		Focus:      focus,
		Palette:    palette,
		Raster:     v.tween.options(),
	})
	if err != nil {
		v.log.Error("Failed to render board", zap.Error(err))
		return
	}
	blit(v.screen, c, 0, 0, h-statusRows)

	v.drawStatus(w, h, palette)
	if v.help {
		v.drawHelp(w, h, bg)
	}
	v.screen.Show()

	if v.tween.running(scene) {
		v.requestFrame()
	}
}

// requestFrame wakes the loop for the next animation frame.
func (v *Viewer) requestFrame() {
	if v.frame || v.opts.Dispatch != nil {
		return
	}
	v.frame = true
	v.clock.AfterFunc(frameInterval, func() {
		v.post(func() { v.frame = false })
	})
}

func (v *Viewer) drawStatus(w, h int, p canvas.Palette) {
	y := h - 1
	st := tcell.StyleDefault.Background(tcellColor(p.Accent)).Foreground(tcellColor(p.Background))
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, st)
	}
	ids := v.data.IDs()
	pos := 0
	for i, id := range ids {
		if id == v.machine.Pair().ID {
			pos = i + 1
		}
	}
	left := fmt.Sprintf(" %s  %d/%d  %s  %s ", v.machine.Pair().ID, pos, len(ids),
		v.machine.Layer().DisplayName(), v.machine.Phase())
	text := left + " " + CompactHelp()
	if v.status != "" {
		text = left + " " + v.status
	}
	v.drawText(0, y, canvas.FitText(text, w, "…"), st.Bold(true))
}

func (v *Viewer) drawHelp(w, h int, st tcell.Style) {
	lines := HelpLines()
	x := max(0, (w-canvas.MeasureText(lines[0]))/2)
	y := max(0, (h-len(lines))/2)
	for i, l := range lines {
		v.drawText(x, y+i, l, st)
	}
}

func (v *Viewer) drawText(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, st)
		x += max(1, canvas.MeasureText(string(r)))
	}
}

// Export writes the current view as SVG and returns the file path.
func (v *Viewer) Export() (string, error) {
	doc := &export.Document{
		Pair:     v.machine.Pair(),
		Layer:    v.machine.Layer(),
		Snapshot: v.machine.Snapshot(),
		Style:    v.cfg.Style(v.machine.Layer()),
	}
	e := export.NewSVGExporter()
	data, err := e.Export(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(v.opts.ExportDir, export.FileName(doc, e))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	v.log.Info("Exported view", zap.String("file", path))
	return path, nil
}

// reload replaces the data after the file changed, keeping the sentence and
// layer when they still exist.
func (v *Viewer) reload() {
	data, err := alignment.LoadFile(v.opts.Path)
	if err != nil {
		v.status = "reload failed: " + err.Error()
		v.log.Warn("Reload failed", zap.String("file", v.opts.Path), zap.Error(err))
		return
	}
	v.data = data
	layer := v.machine.Layer()
	p, err := data.Find(v.machine.Pair().ID)
	if err != nil {
		p, _ = data.Find("")
	}
	if p == nil {
		v.status = "reload failed: no sentences"
		return
	}
	v.setPair(p)
	v.setLayer(layer)
	v.status = "reloaded " + filepath.Base(v.opts.Path)
	v.log.Info("Reloaded data", zap.String("file", v.opts.Path), zap.Int("sentences", len(data.Sentences)))
}

// Run processes events until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if v.opts.Watch && v.opts.Path != "" {
		w, err := newWatcher(v.opts.Path, v.log)
		if err != nil {
			return err
		}
		go w.run(ctx, func() { v.post(v.reload) })
	}
	go func() {
		<-ctx.Done()
		v.post(func() { v.quit = true })
	}()

	v.screen.EnableMouse(tcell.MouseMotionEvents)
	for !v.quit {
		v.Draw()
		v.HandleEvent(v.screen.PollEvent())
	}
	v.stop()
	return nil
}

// stop drops every animation task still waiting on the clock.
func (v *Viewer) stop() {
	v.log.Debug("Viewer stopped", zap.Int("pending", len(v.sched.Pending())), zap.Uint64("epoch", v.sched.Epoch()))
	v.sched.Reset()
}

// HandleEvent applies one screen event.
func (v *Viewer) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case nil:
		v.quit = true
	case *tcell.EventResize:
		v.screen.Sync()
		v.tracker.Invalidate(layout.Resized)
	case *tcell.EventInterrupt:
		if f, ok := ev.Data().(func()); ok {
			f()
		}
	case *tcell.EventKey:
		v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
}
