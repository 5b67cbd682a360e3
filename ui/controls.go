package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ToolbarData is the session state shown on the toolbar.
type ToolbarData struct {
	Gradients    []string
	Gradient     string
	Generators   []string
	PaintEffects bool
	UndoLen      int
	RedoLen      int
}

// ToolbarActions reports what the user clicked this frame.
type ToolbarActions struct {
	Undo    bool
	Redo    bool
	Clear   bool
	Refresh bool

	Generator string // non-empty when Generate was clicked
	Gradient  string // non-empty when the gradient changed

	PaintEffects        bool
	PaintEffectsChanged bool
}

// Toolbar renders the right-side panel of editor commands.
type Toolbar struct {
	renderer  *Renderer
	x, y      int32
	width     int32
	generator string
}

// NewToolbar creates a toolbar anchored at (x, y).
func NewToolbar(x, y, width int32) *Toolbar {
	return &Toolbar{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the toolbar position.
func (t *Toolbar) SetPosition(x, y int32) {
	t.x = x
	t.y = y
}

// Contains reports whether a client point is over the toolbar, so the
// caller can keep clicks from reaching the canvas.
func (t *Toolbar) Contains(px, py float32) bool {
	return px >= float32(t.x) && px < float32(t.x+t.width) &&
		py >= float32(t.y) && py < float32(t.y+t.height())
}

func (t *Toolbar) height() int32 {
	th := t.renderer.Theme
	return th.Padding*2 + int32(th.ButtonHeight+6)*7 + th.LineHeight*2
}

// Draw renders the toolbar and returns the actions clicked.
func (t *Toolbar) Draw(data ToolbarData) ToolbarActions {
	var act ToolbarActions
	r := t.renderer
	th := r.Theme

	if t.generator == "" && len(data.Generators) > 0 {
		t.generator = data.Generators[0]
	}

	r.DrawPanel(t.x, t.y, t.width, t.height())
	x := float32(t.x + th.Padding)
	y := float32(t.y + th.Padding)
	full := float32(t.width - th.Padding*2)
	half := (full - 6) / 2
	step := th.ButtonHeight + 6

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Edit"))

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: th.ButtonHeight}, fmt.Sprintf("Undo (%d)", data.UndoLen)) {
		act.Undo = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: th.ButtonHeight}, fmt.Sprintf("Redo (%d)", data.RedoLen)) {
		act.Redo = true
	}
	y += step

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: th.ButtonHeight}, "Clear") {
		act.Clear = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: th.ButtonHeight}, "Update") {
		act.Refresh = true
	}
	y += step

	checked := gui.CheckBox(rl.Rectangle{X: x, Y: y + 4, Width: 16, Height: 16}, "Paint effects", data.PaintEffects)
	if checked != data.PaintEffects {
		act.PaintEffects = checked
		act.PaintEffectsChanged = true
	}
	y += step

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Look"))
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: full, Height: th.ButtonHeight}, "Gradient: "+orNone(data.Gradient)) {
		if next := Cycle(data.Gradients, data.Gradient, 1); next != data.Gradient {
			act.Gradient = next
		}
	}
	y += step

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: full, Height: th.ButtonHeight}, "Generator: "+orNone(t.generator)) {
		t.generator = Cycle(data.Generators, t.generator, 1)
	}
	y += step

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: full, Height: th.ButtonHeight}, "Generate") && t.generator != "" {
		act.Generator = t.generator
	}

	return act
}

// Cycle returns the name delta places after current in names, wrapping
// around. An unknown current yields the first name.
func Cycle(names []string, current string, delta int) string {
	if len(names) == 0 {
		return ""
	}
	for i, n := range names {
		if n == current {
			j := (i + delta) % len(names)
			if j < 0 {
				j += len(names)
			}
			return names[j]
		}
	}
	return names[0]
}
