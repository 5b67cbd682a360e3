// Package telemetry provides editor activity tracking, perf timing and CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/field"
)

// StrokeRecord is one committed brush stamp, written to strokes.csv.
type StrokeRecord struct {
	Tick         int32   `csv:"tick"`
	Render       string  `csv:"render"`
	Brush        string  `csv:"brush"`
	Left         int     `csv:"left"`
	Top          int     `csv:"top"`
	Width        int     `csv:"width"`
	Height       int     `csv:"height"`
	StrokeLength float32 `csv:"stroke_length"`
	Skipped      int     `csv:"skipped_cells"` // footprint cells outside a non-wrapping field
}

// NewStrokeRecord builds a record from a committed stamp.
func NewStrokeRecord(tick int32, render, brushName string, st brush.Stamp) StrokeRecord {
	skipped := 0
	for _, v := range st.Prior {
		if math.IsNaN(float64(v)) {
			skipped++
		}
	}
	sel := st.Selection
	return StrokeRecord{
		Tick:         tick,
		Render:       render,
		Brush:        brushName,
		Left:         sel.Left,
		Top:          sel.Top,
		Width:        sel.Width,
		Height:       sel.Height,
		StrokeLength: st.StrokeLength,
		Skipped:      skipped,
	}
}

// Collector accumulates editor events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	strokes    int
	stamps     int
	undos      int
	redos      int
	faults     int
	generates  int
	dirtyCells int

	strokeLengths []float64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordStroke records one pointer stroke and the stamps it committed.
func (c *Collector) RecordStroke(length float32, stamps int) {
	c.strokes++
	c.stamps += stamps
	c.strokeLengths = append(c.strokeLengths, float64(length))
}

// RecordUndo records a successful undo.
func (c *Collector) RecordUndo() { c.undos++ }

// RecordRedo records a successful redo.
func (c *Collector) RecordRedo() { c.redos++ }

// RecordFault records a script fault of any kind.
func (c *Collector) RecordFault() { c.faults++ }

// RecordGenerate records a generator run.
func (c *Collector) RecordGenerate() { c.generates++ }

// RecordDirty records a re-rendered rectangle.
func (c *Collector) RecordDirty(sel field.Selection) { c.dirtyCells += sel.Area() }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// undoLen and redoLen are the selected render's journal sizes; fs summarises
// its field.
func (c *Collector) Flush(currentTick int32, undoLen, redoLen int, fs field.Stats) WindowStats {
	mean, p50, p90 := ComputeLengthStats(c.strokeLengths)
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Strokes:    c.strokes,
		Stamps:     c.stamps,
		Undos:      c.undos,
		Redos:      c.redos,
		Faults:     c.faults,
		Generates:  c.generates,
		DirtyCells: c.dirtyCells,

		StrokeLengthMean: mean,
		StrokeLengthP50:  p50,
		StrokeLengthP90:  p90,

		UndoLen: undoLen,
		RedoLen: redoLen,

		HeightMin:    fs.Min,
		HeightMax:    fs.Max,
		HeightMean:   fs.Mean,
		HeightStdDev: fs.StdDev,
	}

	c.windowStartTick = currentTick
	c.strokes = 0
	c.stamps = 0
	c.undos = 0
	c.redos = 0
	c.faults = 0
	c.generates = 0
	c.dirtyCells = 0
	c.strokeLengths = c.strokeLengths[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
