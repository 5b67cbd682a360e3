package ui

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/heightmap"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	// Cursor cell, after wrapping
	X, Y    int
	InRange bool
	Height  float32
	Pixel   color.RGBA

	Brush    *brush.Brush
	Stats    field.Stats
	Undo     int
	Redo     int
	Capacity int
	Gradient *heightmap.Gradient
	Lo, Hi   float32 // height range for the gradient strip
}

// Probe reads the cell under image point (ix, iy).
func Probe(r *heightmap.Render, ix, iy float32) InspectorData {
	cx := int(math.Floor(float64(ix)))
	cy := int(math.Floor(float64(iy)))
	x, y, ok := r.Field.Resolve(cx, cy)
	if !ok {
		return InspectorData{X: cx, Y: cy}
	}
	h, _ := r.Field.TryGet(x, y)
	return InspectorData{
		X:       x,
		Y:       y,
		InRange: true,
		Height:  h,
		Pixel:   r.PixelAt(x, y),
	}
}

// Inspector renders the cursor inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2
	x := ins.x + padding

	panelHeight := r.Theme.LineHeight*19 + padding*2 + 36
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)
	y := ins.y + padding

	y = r.DrawSectionHeader(x, y, "Cursor")
	if data.InRange {
		y = r.DrawLabelValue(x, y, "Cell", fmt.Sprintf("%d, %d", data.X, data.Y))
		y = r.DrawLabelValue(x, y, "Height", fmt.Sprintf("%.4f", data.Height))
		rl.DrawText("Colour:", x, y, r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, rl.Color(data.Pixel))
		y += r.Theme.LineHeight
	} else {
		rl.DrawText("outside render", x, y, r.Theme.FontSize, r.Theme.Muted)
		y += r.Theme.LineHeight * 3
	}
	y += 4

	y = r.DrawSectionHeader(x, y, "Left brush")
	if b := data.Brush; b != nil {
		y = r.DrawLabelValue(x, y, "Name", b.Name)
		y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%dx%d", b.Width, b.Height))
		y = r.DrawLabelValue(x, y, "Power", fmt.Sprintf("%.2f", b.Power))
		y = r.DrawLabelValue(x, y, "Precision", fmt.Sprintf("%d", b.Precision))
	} else {
		rl.DrawText("none assigned", x, y, r.Theme.FontSize, r.Theme.Muted)
		y += r.Theme.LineHeight * 4
	}
	y += 4

	y = r.DrawSectionHeader(x, y, "Field")
	y = r.DrawLabelValue(x, y, "Range", fmt.Sprintf("%.3f .. %.3f", data.Stats.Min, data.Stats.Max))
	y = r.DrawLabelValue(x, y, "Mean", fmt.Sprintf("%.3f (sd %.3f)", data.Stats.Mean, data.Stats.StdDev))
	y += 4

	y = r.DrawSectionHeader(x, y, "Journals")
	y = r.DrawFill(x, y, "Undo", data.Undo, data.Capacity, contentWidth)
	y = r.DrawFill(x, y, "Redo", data.Redo, data.Capacity, contentWidth)
	y += 4

	return r.DrawGradient(x, y, contentWidth, 16, data.Gradient, data.Lo, data.Hi)
}
