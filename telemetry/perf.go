package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one editor tick.
const (
	PhaseInput     = "input"
	PhasePaint     = "paint"
	PhaseUndo      = "undo"
	PhaseRedo      = "redo"
	PhaseGenerate  = "generate"
	PhaseRender    = "render_update"
	PhasePresent   = "present"
	PhaseTelemetry = "telemetry"
)

// phases lists every phase in reporting order.
var phases = [...]string{
	PhaseInput, PhasePaint, PhaseUndo, PhaseRedo,
	PhaseGenerate, PhaseRender, PhasePresent, PhaseTelemetry,
}

// editing marks the phases that change the field. A tick that enters one of
// them counts as active.
var editing = map[string]bool{
	PhasePaint: true, PhaseUndo: true, PhaseRedo: true, PhaseGenerate: true,
}

func phaseIndex(name string) int {
	return slices.Index(phases[:], name)
}

// tickSample is the timing of one tick, one slot per phase.
type tickSample struct {
	total  time.Duration
	phases [len(phases)]time.Duration
	active bool
}

// PerfCollector times the phases of editor ticks over a rolling window.
// Phases not listed above are ignored.
type PerfCollector struct {
	window  []tickSample
	next    int
	filled  int
	current tickSample

	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 outside a phase

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window: make([]tickSample, windowSize),
		phase:  -1,
	}
}

// StartTick begins timing a new editor tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phaseIndex(phase)
	p.phaseStart = now
	if editing[phase] {
		p.current.active = true
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = -1
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Ticks in the window that painted, undid, redid or generated
	ActiveTicks int

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return out
	}

	samples := p.window[:p.filled]
	ticks := make([]float64, len(samples))
	var phaseSum [len(phases)]time.Duration
	for i, s := range samples {
		ticks[i] = float64(s.total)
		for j, d := range s.phases {
			phaseSum[j] += d
		}
		if s.active {
			out.ActiveTicks++
		}
	}
	slices.Sort(ticks)

	n := time.Duration(len(samples))
	out.AvgTickDuration = time.Duration(stat.Mean(ticks, nil))
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	for j, name := range phases {
		if phaseSum[j] == 0 {
			continue
		}
		avg := phaseSum[j] / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging. Phases taking
// under 0.1% of the tick are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int("active_ticks", s.ActiveTicks),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	ActiveTicks  int     `csv:"active_ticks"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	PaintPct     float64 `csv:"paint_pct"`
	UndoPct      float64 `csv:"undo_pct"`
	RedoPct      float64 `csv:"redo_pct"`
	GeneratePct  float64 `csv:"generate_pct"`
	RenderPct    float64 `csv:"render_update_pct"`
	PresentPct   float64 `csv:"present_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		ActiveTicks:  s.ActiveTicks,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		PaintPct:     s.PhasePct[PhasePaint],
		UndoPct:      s.PhasePct[PhaseUndo],
		RedoPct:      s.PhasePct[PhaseRedo],
		GeneratePct:  s.PhasePct[PhaseGenerate],
		RenderPct:    s.PhasePct[PhaseRender],
		PresentPct:   s.PhasePct[PhasePresent],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
