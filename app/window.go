package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/session"
	"github.com/pthm-cable/fountain/telemetry"
	"github.com/pthm-cable/fountain/ui"
)

const (
	toolbarWidth   = 220
	inspectorWidth = 220
	dirtyTrailLife = 20
	statsInterval  = 15 // frames between inspector field stats refreshes
)

const controlsLegend = "LMB/RMB paint | MMB pan | Wheel zoom | Ctrl+Z undo | Ctrl+Y redo | Home reset view | Tab next render"

// Window runs the editor inside a raylib window. rl.InitWindow must have
// been called before NewWindow.
type Window struct {
	title string
	ctrl  *Controller
	sess  *session.Session

	screenWidth  float32
	screenHeight float32

	heightmap *renderer.HeightmapRenderer
	hud       *ui.HUD
	toolbar   *ui.Toolbar
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel
	overlays  ui.OverlaySet
	messages  *ui.MessageBox
	trail     *ui.DirtyTrail

	pending ui.ToolbarActions
	cancel  func()

	stats     field.Stats
	statsTick int32
}

// NewWindow wires a session to a raylib window.
func NewWindow(cfg *config.Config, sess *session.Session, opts Options) *Window {
	w := &Window{
		title:        cfg.Window.Title,
		sess:         sess,
		screenWidth:  cfg.Derived.WindowW32,
		screenHeight: cfg.Derived.WindowH32,
		heightmap:    renderer.NewHeightmapRenderer(),
		hud:          ui.NewHUD(),
		overlays:     ui.DefaultOverlays(),
		messages:     ui.NewMessageBox(),
		trail:        ui.NewDirtyTrail(dirtyTrailLife),
	}
	w.toolbar = ui.NewToolbar(int32(w.screenWidth)-toolbarWidth-10, 10, toolbarWidth)
	w.inspector = ui.NewInspector(10, 100, inspectorWidth)
	w.perfPanel = ui.NewPerfPanel(10, 100)

	var iw, ih float32 = 1, 1
	if c, _ := sess.SelectedRender(); c != nil {
		f := c.Render().Field
		iw, ih = float32(f.W), float32(f.H)
	}
	cam := camera.New(w.screenWidth, w.screenHeight, iw, ih)

	opts.Notifier = w.messages
	opts.Dirty = w.onDirty
	w.ctrl = NewController(sess, cam, opts)
	w.cancel = sess.Subscribe(w.onEvent)
	return w
}

// Controller returns the window's controller.
func (w *Window) Controller() *Controller { return w.ctrl }

// Tick returns the number of completed frames.
func (w *Window) Tick() int32 { return w.ctrl.Tick() }

func (w *Window) onDirty(sel field.Selection) {
	w.heightmap.MarkDirty(sel)
	w.trail.Add(sel)
}

func (w *Window) onEvent(e session.Event) {
	switch e.Type {
	case session.EventSelectedRenderChanged, session.EventRenderSet, session.EventCleared:
		w.heightmap.MarkAll()
		if c, _ := w.sess.SelectedRender(); c != nil {
			f := c.Render().Field
			w.ctrl.Camera().SetImage(float32(f.W), float32(f.H))
		}
	}
}

// Frame runs one input/update/draw cycle.
func (w *Window) Frame() {
	w.ctrl.Perf().RecordFrame()
	w.handleResize()
	w.handleKeys()

	w.ctrl.BeginTick()
	w.ctrl.Handle(w.gatherInput())
	w.ctrl.Perf().StartPhase(telemetry.PhasePresent)
	w.draw()
	w.ctrl.EndTick()
}

// Unload frees GPU resources and detaches from the session.
func (w *Window) Unload() {
	w.heightmap.Unload()
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())
	if sw == w.screenWidth && sh == w.screenHeight {
		return
	}
	w.screenWidth = sw
	w.screenHeight = sh
	w.ctrl.Camera().Resize(sw, sh)
	w.toolbar.SetPosition(int32(sw)-toolbarWidth-10, 10)
}

func (w *Window) handleKeys() {
	if w.messages.Visible() {
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyEscape) {
			w.messages.Dismiss()
		}
		return
	}
	if ctrlDown() {
		return
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		_, current := w.sess.SelectedRender()
		if next := ui.Cycle(w.sess.Renders(), current, 1); next != "" && next != current {
			w.report(w.sess.SelectRender(next))
		}
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		w.overlays.HandleKey(key)
	}
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
}

// gatherInput reads raylib input and the toolbar clicks of the previous
// frame into one tick of controller input.
func (w *Window) gatherInput() Input {
	act := w.pending
	w.pending = ui.ToolbarActions{}

	if act.Gradient != "" {
		w.report(w.sess.SelectGradient(act.Gradient))
	}
	if act.PaintEffectsChanged {
		w.sess.SetPaintEffects(act.PaintEffects)
	}

	mouse := rl.GetMousePosition()
	in := Input{
		X:         mouse.X,
		Y:         mouse.Y,
		Undo:      act.Undo,
		Redo:      act.Redo,
		Generator: act.Generator,
		Clear:     act.Clear,
		Refresh:   act.Refresh,
	}

	if w.messages.Visible() {
		return in
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if ctrlDown() {
		if rl.IsKeyDown(rl.KeyZ) && !shift {
			in.Undo = true
		}
		if rl.IsKeyDown(rl.KeyY) || (rl.IsKeyDown(rl.KeyZ) && shift) {
			in.Redo = true
		}
	}
	in.ResetView = rl.IsKeyPressed(rl.KeyHome)

	overPanel := w.toolbar.Contains(mouse.X, mouse.Y)
	if !overPanel {
		in.Wheel = rl.GetMouseWheelMove()
		in.Left = rl.IsMouseButtonDown(rl.MouseButtonLeft)
		in.Right = rl.IsMouseButtonDown(rl.MouseButtonRight)
	}
	in.Middle = rl.IsMouseButtonDown(rl.MouseButtonMiddle)
	return in
}

func (w *Window) report(err error) {
	if err != nil {
		w.messages.Notify(FaultTitle(err), err)
	}
}

func (w *Window) draw() {
	canvas, name := w.sess.SelectedRender()
	cam := w.ctrl.Camera()

	if canvas != nil {
		w.heightmap.Sync(canvas.Render().Bitmap)
	}
	w.trail.Age()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 30, G: 30, B: 34, A: 255})

	if canvas != nil {
		w.heightmap.Draw(cam)
		w.drawCanvasOverlays(canvas.Render().Field, cam)
	}

	w.drawPanels(canvas != nil, name)

	w.hud.DrawControls(int32(w.screenWidth), int32(w.screenHeight), controlsLegend+"   "+w.overlays.Legend())
	w.messages.Draw(int32(w.screenWidth), int32(w.screenHeight))

	rl.EndDrawing()
}

func (w *Window) drawCanvasOverlays(f *field.HeightField, cam *camera.Camera) {
	if w.overlays.Has(ui.OverlayGrid) {
		ui.DrawGrid(cam, f)
	}
	if w.overlays.Has(ui.OverlayEdges) {
		ui.DrawEdges(cam, f)
	}
	if w.overlays.Has(ui.OverlayDirtyRects) {
		w.trail.Draw(cam)
	}
	if b := w.sess.LeftBrush(); b != nil && w.overlays.Has(ui.OverlayFootprint) {
		mouse := rl.GetMousePosition()
		ix, iy := cam.ClientToImage(mouse.X, mouse.Y)
		cx, cy := int(math.Floor(float64(ix))), int(math.Floor(float64(iy)))
		ui.DrawFootprint(cam, f, b.Footprint(cx, cy))
	}
}

func (w *Window) drawPanels(hasRender bool, name string) {
	canvas, _ := w.sess.SelectedRender()
	cam := w.ctrl.Camera()

	data := ui.HUDData{
		Title:        w.title,
		Render:       name,
		Effects:      len(w.sess.SelectedEffects()),
		PaintEffects: w.sess.PaintEffects(),
		Zoom:         cam.Zoom,
		FPS:          rl.GetFPS(),
	}
	if g := w.sess.SelectedGradient(); g != nil {
		data.Gradient = g.Name
	}
	if b := w.sess.LeftBrush(); b != nil {
		data.LeftBrush = b.Name
	}
	if b := w.sess.RightBrush(); b != nil {
		data.RightBrush = b.Name
	}
	if hasRender {
		f := canvas.Render().Field
		data.RenderW, data.RenderH = f.W, f.H
		data.UndoLen, data.RedoLen = canvas.UndoLen(), canvas.RedoLen()
	}
	w.hud.Draw(data)

	gradient := ""
	if g := w.sess.SelectedGradient(); g != nil {
		gradient = g.Name
	}
	w.pending = w.toolbar.Draw(ui.ToolbarData{
		Gradients:    w.sess.Gradients(),
		Gradient:     gradient,
		Generators:   w.sess.Generators(),
		PaintEffects: w.sess.PaintEffects(),
		UndoLen:      data.UndoLen,
		RedoLen:      data.RedoLen,
	})

	switch {
	case w.overlays.Has(ui.OverlayPerf):
		w.perfPanel.Draw(w.ctrl.Perf().Stats())
	case w.overlays.Has(ui.OverlayInspector) && hasRender:
		mouse := rl.GetMousePosition()
		ix, iy := cam.ClientToImage(mouse.X, mouse.Y)
		probe := ui.Probe(canvas.Render(), ix, iy)
		probe.Brush = w.sess.LeftBrush()
		if w.Tick()-w.statsTick >= statsInterval || w.statsTick == 0 {
			w.stats = canvas.Render().Field.ComputeStats()
			w.statsTick = max(w.Tick(), 1)
		}
		probe.Stats = w.stats
		probe.Undo, probe.Redo = canvas.UndoLen(), canvas.RedoLen()
		probe.Capacity = canvas.Capacity()
		probe.Gradient = w.sess.SelectedGradient()
		probe.Lo, probe.Hi = gradientRange(canvas.Render().Field)
		w.inspector.Draw(probe)
	}
}

// gradientRange is the height span shown in the inspector's gradient strip.
func gradientRange(f *field.HeightField) (float32, float32) {
	opts := f.Options()
	if opts.Clamp && opts.Max > opts.Min {
		return opts.Min, opts.Max
	}
	return 0, 1
}
