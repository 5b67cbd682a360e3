// Package app drives a session from per-tick pointer and keyboard input.
// The same Controller serves the raylib window and headless replay.
package app

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/paint"
	"github.com/pthm-cable/fountain/script"
	"github.com/pthm-cable/fountain/session"
	"github.com/pthm-cable/fountain/telemetry"
)

// Input is the pointer and keyboard state for one tick, in client
// coordinates.
type Input struct {
	X, Y   float32
	Left   bool
	Right  bool
	Middle bool

	Undo bool // held: one undo per tick
	Redo bool // held: one redo per tick

	Wheel     float32
	ResetView bool

	// Actions triggered this tick, e.g. by toolbar buttons.
	Generator string // generator to run on the selected render
	Clear     bool   // zero the selected render
	Refresh   bool   // fully re-render the selected render
}

// Notifier reports faults to the user.
type Notifier interface {
	Notify(title string, err error)
}

// LogNotifier reports faults through slog only.
type LogNotifier struct{}

// Notify logs the fault at warn level.
func (LogNotifier) Notify(title string, err error) {
	slog.Warn(title, "error", err)
}

// FaultTitle returns the user-facing heading for an error.
func FaultTitle(err error) string {
	if kind, ok := script.IsFault(err); ok {
		return fmt.Sprintf("There was a runtime error with your %s.", kind)
	}
	return "Operation failed."
}

// Options configures a Controller.
type Options struct {
	Notifier  Notifier
	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
	Output    *telemetry.OutputManager
	// Dirty receives every re-rendered field rectangle of any render.
	Dirty func(sel field.Selection)
}

// Controller turns input into strokes, undo and redo on the selected render.
type Controller struct {
	sess   *session.Session
	cam    *camera.Camera
	notify Notifier

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	dirty     func(sel field.Selection)

	tick       int32
	lastClient paint.Point
	lastImage  paint.Point
	hasLast    bool

	activeBrush string
	strokes     []telemetry.StrokeRecord
}

// NewController wires a controller to the session and installs its canvas
// hooks.
func NewController(sess *session.Session, cam *camera.Camera, opts Options) *Controller {
	c := &Controller{
		sess:      sess,
		cam:       cam,
		notify:    opts.Notifier,
		perf:      opts.Perf,
		collector: opts.Collector,
		output:    opts.Output,
		dirty:     opts.Dirty,
	}
	if c.notify == nil {
		c.notify = LogNotifier{}
	}
	if c.perf == nil {
		c.perf = telemetry.NewPerfCollector(120)
	}
	if c.collector == nil {
		c.collector = telemetry.NewCollector(120)
	}
	sess.SetHooks(paint.Hooks{
		Dirty: c.onDirty,
		Stamp: c.onStamp,
	})
	return c
}

func (c *Controller) onDirty(sel field.Selection) {
	c.collector.RecordDirty(sel)
	if c.dirty != nil {
		c.dirty(sel)
	}
}

func (c *Controller) onStamp(st brush.Stamp) {
	_, render := c.sess.SelectedRender()
	c.strokes = append(c.strokes, telemetry.NewStrokeRecord(c.tick, render, c.activeBrush, st))
}

// Tick returns the number of completed steps.
func (c *Controller) Tick() int32 { return c.tick }

// Camera returns the view camera.
func (c *Controller) Camera() *camera.Camera { return c.cam }

// Session returns the controlled session.
func (c *Controller) Session() *session.Session { return c.sess }

// Perf returns the perf collector.
func (c *Controller) Perf() *telemetry.PerfCollector { return c.perf }

// Step processes one tick of input.
func (c *Controller) Step(in Input) {
	c.BeginTick()
	c.Handle(in)
	c.EndTick()
}

// BeginTick starts timing a tick.
func (c *Controller) BeginTick() {
	c.perf.StartTick()
}

// Handle applies one tick of input. It must run between BeginTick and
// EndTick.
func (c *Controller) Handle(in Input) {
	c.perf.StartPhase(telemetry.PhaseInput)

	client := paint.Point{X: in.X, Y: in.Y}
	if !c.hasLast {
		c.lastClient = client
	}

	c.cam.ZoomWheel(in.Wheel)
	if in.Middle {
		// Drag the image with the pointer.
		c.cam.Pan(c.lastClient.X-client.X, c.lastClient.Y-client.Y)
	}
	if in.ResetView {
		c.cam.Reset()
	}

	ix, iy := c.cam.ClientToImage(in.X, in.Y)
	pt := paint.Point{X: ix, Y: iy}
	if !c.hasLast {
		c.lastImage = pt
		c.hasLast = true
	}

	switch {
	case in.Generator != "":
		c.perf.StartPhase(telemetry.PhaseGenerate)
		c.RunGenerator(in.Generator)
	case in.Clear:
		c.perf.StartPhase(telemetry.PhaseGenerate)
		c.ClearRender()
	}
	if in.Refresh {
		c.perf.StartPhase(telemetry.PhaseRender)
		c.UpdateRender()
	}

	switch {
	case in.Undo:
		c.perf.StartPhase(telemetry.PhaseUndo)
		c.Undo()
	case in.Redo:
		c.perf.StartPhase(telemetry.PhaseRedo)
		c.Redo()
	default:
		var b *brush.Brush
		if in.Left {
			b = c.sess.LeftBrush()
		} else if in.Right {
			b = c.sess.RightBrush()
		}
		if b != nil {
			c.perf.StartPhase(telemetry.PhasePaint)
			c.stroke(c.lastImage, pt, b)
		}
	}

	c.lastClient = client
	c.lastImage = pt
}

// EndTick writes telemetry due this tick and closes the perf sample.
func (c *Controller) EndTick() {
	c.perf.StartPhase(telemetry.PhaseTelemetry)
	c.flushTelemetry()
	c.perf.EndTick()
	c.tick++
}

func (c *Controller) stroke(prev, cur paint.Point, b *brush.Brush) {
	canvas, _ := c.sess.SelectedRender()
	if canvas == nil {
		return
	}
	c.activeBrush = b.Name
	n, err := canvas.Stroke(prev, cur, b)
	c.collector.RecordStroke(prev.Dist(cur), n)
	if err != nil {
		c.fault(err)
	}
}

// Undo reverts the last action on the selected render.
func (c *Controller) Undo() {
	canvas, _ := c.sess.SelectedRender()
	if canvas == nil {
		return
	}
	ok, err := canvas.Undo()
	if ok {
		c.collector.RecordUndo()
	}
	if err != nil {
		c.fault(err)
	}
}

// Redo re-applies the last undone action on the selected render.
func (c *Controller) Redo() {
	canvas, _ := c.sess.SelectedRender()
	if canvas == nil {
		return
	}
	ok, err := canvas.Redo()
	if ok {
		c.collector.RecordRedo()
	}
	if err != nil {
		c.fault(err)
	}
}

// RunGenerator applies a generator to the selected render.
func (c *Controller) RunGenerator(name string) {
	c.collector.RecordGenerate()
	if err := c.sess.RunGenerator(name); err != nil {
		c.fault(err)
	}
}

// ClearRender zeroes the selected render.
func (c *Controller) ClearRender() {
	if err := c.sess.ClearRender(); err != nil {
		c.fault(err)
	}
}

// UpdateRender fully re-renders the selected render.
func (c *Controller) UpdateRender() {
	if err := c.sess.UpdateRender(); err != nil {
		c.fault(err)
	}
}

func (c *Controller) fault(err error) {
	if _, ok := script.IsFault(err); ok {
		c.collector.RecordFault()
	}
	c.notify.Notify(FaultTitle(err), err)
}

func (c *Controller) flushTelemetry() {
	if len(c.strokes) > 0 {
		if err := c.output.WriteStrokes(c.strokes); err != nil {
			slog.Error("failed to write strokes", "error", err)
		}
		c.strokes = c.strokes[:0]
	}
	if !c.collector.ShouldFlush(c.tick) {
		return
	}
	c.Flush()
}

// Flush writes the current telemetry window regardless of its length.
func (c *Controller) Flush() telemetry.WindowStats {
	var undoLen, redoLen int
	var fs field.Stats
	if canvas, _ := c.sess.SelectedRender(); canvas != nil {
		undoLen, redoLen = canvas.UndoLen(), canvas.RedoLen()
		fs = canvas.Render().Field.ComputeStats()
	}
	stats := c.collector.Flush(c.tick, undoLen, redoLen, fs)
	perf := c.perf.Stats()
	if err := c.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := c.output.WritePerf(perf, c.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	return stats
}
