package ui

import (
	"image/color"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/heightmap"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawFill draws a labelled bar showing n of capacity. A full bar uses the
// warning colour.
func (r *Renderer) DrawFill(x, y int32, label string, n, capacity int, width int32) int32 {
	ratio, full := FillRatio(n, capacity)
	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - 44

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.PanelBorder)
	fill := r.Theme.Accent
	if full {
		fill = r.Theme.Warning
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(strconv.Itoa(n), barX+barW+6, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// FillRatio returns n/capacity in [0, 1] and whether the journal is full,
// i.e. the next push evicts its oldest action.
func FillRatio(n, capacity int) (float32, bool) {
	if capacity <= 0 {
		return 0, false
	}
	ratio := min(float32(n)/float32(capacity), 1)
	return max(ratio, 0), n >= capacity
}

// DrawGradient draws g as a horizontal strip covering heights [lo, hi].
func (r *Renderer) DrawGradient(x, y, width, height int32, g *heightmap.Gradient, lo, hi float32) int32 {
	if g == nil || width <= 0 {
		return y
	}
	for i, c := range GradientStrip(g, int(width), lo, hi) {
		rl.DrawRectangle(x+int32(i), y, 1, height, rl.Color(c))
	}
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
	return y + height + 4
}

// GradientStrip samples g at n evenly spaced heights from lo to hi.
func GradientStrip(g *heightmap.Gradient, n int, lo, hi float32) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	for i := range out {
		t := float32(0)
		if n > 1 {
			t = float32(i) / float32(n-1)
		}
		out[i] = g.At(lo + (hi-lo)*t)
	}
	return out
}
