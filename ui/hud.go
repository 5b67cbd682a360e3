package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Render       string
	RenderW      int
	RenderH      int
	Gradient     string
	LeftBrush    string
	RightBrush   string
	Effects      int
	PaintEffects bool
	Zoom         float32
	UndoLen      int
	RedoLen      int
	FPS          int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	render := data.Render
	if render == "" {
		render = "(none)"
	}
	rl.DrawText(
		fmt.Sprintf("Render: %s %dx%d | Gradient: %s | Zoom: %.2fx", render, data.RenderW, data.RenderH, orNone(data.Gradient), data.Zoom),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("L: %s | R: %s | Undo: %d | Redo: %d | FPS: %d", orNone(data.LeftBrush), orNone(data.RightBrush), data.UndoLen, data.RedoLen, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	status := fmt.Sprintf("Effects: %d", data.Effects)
	if data.PaintEffects {
		status += " (while painting)"
	}
	rl.DrawText(status, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PerfRow is one phase line of the perf panel.
type PerfRow struct {
	Phase string
	Avg   time.Duration
	Pct   float64
}

// PerfRows returns the phases with recorded time, slowest first.
func PerfRows(s telemetry.PerfStats) []PerfRow {
	rows := make([]PerfRow, 0, len(s.PhaseAvg))
	for phase, avg := range s.PhaseAvg {
		if avg <= 0 {
			continue
		}
		rows = append(rows, PerfRow{Phase: phase, Avg: avg, Pct: s.PhasePct[phase]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Avg != rows[j].Avg {
			return rows[i].Avg > rows[j].Avg
		}
		return rows[i].Phase < rows[j].Phase
	})
	return rows
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, row := range PerfRows(stats) {
		color := rl.LightGray
		if row.Pct > 50 {
			color = rl.Red
		} else if row.Pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", row.Phase, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
