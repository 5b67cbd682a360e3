package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/field"
)

func TestComputeLengthStats(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
	}{
		{"empty slice", nil, 0},
		{"single element", []float64{5}, 5},
		{"unsorted", []float64{9, 1, 5, 3, 7}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p50, p90 := ComputeLengthStats(tt.values)
			if math.Abs(mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if len(tt.values) == 0 {
				if p50 != 0 || p90 != 0 {
					t.Errorf("empty percentiles = %v, %v", p50, p90)
				}
				return
			}
			lo, hi := tt.values[0], tt.values[0]
			for _, v := range tt.values {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
			if p50 < lo || p50 > hi || p90 < p50 || p90 > hi {
				t.Errorf("percentiles p50=%v p90=%v outside [%v, %v]", p50, p90, lo, hi)
			}
		})
	}
}

func TestComputeLengthStatsDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeLengthStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(10)
	c.RecordStroke(4, 2)
	c.RecordStroke(8, 3)
	c.RecordUndo()
	c.RecordRedo()
	c.RecordRedo()
	c.RecordFault()
	c.RecordGenerate()
	c.RecordDirty(field.Selection{Width: 3, Height: 2})

	if c.ShouldFlush(9) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at window end")
	}

	s := c.Flush(10, 5, 1, field.Stats{Mean: 0.5})
	if s.Strokes != 2 || s.Stamps != 5 || s.Undos != 1 || s.Redos != 2 ||
		s.Faults != 1 || s.Generates != 1 || s.DirtyCells != 6 {
		t.Errorf("counts = %+v", s)
	}
	if s.StrokeLengthMean != 6 {
		t.Errorf("mean stroke length = %v, want 6", s.StrokeLengthMean)
	}
	if s.UndoLen != 5 || s.RedoLen != 1 || s.HeightMean != 0.5 {
		t.Errorf("snapshot fields = %+v", s)
	}

	next := c.Flush(20, 0, 0, field.Stats{})
	if next.WindowStartTick != 10 || next.Strokes != 0 || next.DirtyCells != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestNewStrokeRecordCountsSkippedCells(t *testing.T) {
	nan := float32(math.NaN())
	st := brush.Stamp{
		Selection:    field.Selection{Left: -1, Top: 0, Width: 2, Height: 2},
		Prior:        []float32{nan, 0, nan, 0.5},
		StrokeLength: 3,
	}
	r := NewStrokeRecord(7, "main", "raise", st)
	if r.Skipped != 2 || r.Left != -1 || r.Width != 2 || r.StrokeLength != 3 || r.Tick != 7 {
		t.Errorf("record = %+v", r)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		rec := StrokeRecord{Tick: int32(i), Render: "main", Brush: "raise", Width: 3, Height: 3}
		if err := om.WriteStrokes([]StrokeRecord{rec}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(NewPerfCollector(4).Stats(), 4); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "strokes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "tick,"); n != 1 {
		t.Errorf("header written %d times:\n%s", n, data)
	}

	var back []StrokeRecord
	if err := gocsv.UnmarshalBytes(data, &back); err != nil {
		t.Fatalf("unmarshal strokes: %v", err)
	}
	if len(back) != 3 || back[2].Tick != 2 {
		t.Errorf("read back %+v", back)
	}

	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv missing: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// Methods are safe on a nil manager.
	if err := om.WriteStrokes([]StrokeRecord{{}}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
