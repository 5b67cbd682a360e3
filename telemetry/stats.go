package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated editor activity for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Events during window
	Strokes    int `csv:"strokes"`
	Stamps     int `csv:"stamps"`
	Undos      int `csv:"undos"`
	Redos      int `csv:"redos"`
	Faults     int `csv:"faults"`
	Generates  int `csv:"generates"`
	DirtyCells int `csv:"dirty_cells"`

	// Stroke length distribution (cells)
	StrokeLengthMean float64 `csv:"stroke_length_mean"`
	StrokeLengthP50  float64 `csv:"stroke_length_p50"`
	StrokeLengthP90  float64 `csv:"stroke_length_p90"`

	// Journal sizes at window end
	UndoLen int `csv:"undo_len"`
	RedoLen int `csv:"redo_len"`

	// Field heights at window end
	HeightMin    float64 `csv:"height_min"`
	HeightMax    float64 `csv:"height_max"`
	HeightMean   float64 `csv:"height_mean"`
	HeightStdDev float64 `csv:"height_std_dev"`
}

// ComputeLengthStats returns mean, median and 90th percentile of values.
func ComputeLengthStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.9, stat.LinInterp, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("strokes", s.Strokes),
		slog.Int("stamps", s.Stamps),
		slog.Int("undos", s.Undos),
		slog.Int("redos", s.Redos),
		slog.Int("faults", s.Faults),
		slog.Int("generates", s.Generates),
		slog.Int("dirty_cells", s.DirtyCells),
		slog.Float64("stroke_length_mean", s.StrokeLengthMean),
		slog.Float64("stroke_length_p90", s.StrokeLengthP90),
		slog.Int("undo_len", s.UndoLen),
		slog.Int("redo_len", s.RedoLen),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_std_dev", s.HeightStdDev),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
