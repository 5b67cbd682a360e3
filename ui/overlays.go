package ui

import (
	"fmt"
	"image"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/field"
)

// Overlay identifies a toggleable canvas overlay or side panel.
type Overlay uint8

const (
	OverlayFootprint Overlay = iota
	OverlayEdges
	OverlayGrid
	OverlayDirtyRects
	OverlayInspector
	OverlayPerf
	numOverlays
)

// panelSlot groups the side panels; only one overlay per non-zero slot is
// shown at a time.
const panelSlot = 1

type overlayInfo struct {
	name  string
	key   int32
	label string
	on    bool // enabled at startup
	slot  int
}

var overlayTable = [numOverlays]overlayInfo{
	OverlayFootprint:  {name: "Footprint", key: rl.KeyB, label: "B", on: true},
	OverlayEdges:      {name: "Edges", key: rl.KeyE, label: "E", on: true},
	OverlayGrid:       {name: "Grid", key: rl.KeyG, label: "G"},
	OverlayDirtyRects: {name: "Dirty", key: rl.KeyD, label: "D"},
	OverlayInspector:  {name: "Inspector", key: rl.KeyI, label: "I", on: true, slot: panelSlot},
	OverlayPerf:       {name: "Performance", key: rl.KeyP, label: "P", slot: panelSlot},
}

func (o Overlay) String() string {
	if o < numOverlays {
		return overlayTable[o].name
	}
	return "unknown"
}

// OverlaySet is the set of enabled overlays.
type OverlaySet uint32

// DefaultOverlays returns the overlays enabled at startup.
func DefaultOverlays() OverlaySet {
	var s OverlaySet
	for o, info := range overlayTable {
		if info.on {
			s |= 1 << o
		}
	}
	return s
}

// Has reports whether o is enabled.
func (s OverlaySet) Has(o Overlay) bool { return s&(1<<o) != 0 }

// Set enables or disables o. Enabling a panel hides the others in its slot.
func (s *OverlaySet) Set(o Overlay, on bool) {
	if o >= numOverlays {
		return
	}
	if !on {
		*s &^= 1 << o
		return
	}
	if slot := overlayTable[o].slot; slot != 0 {
		for other, info := range overlayTable {
			if info.slot == slot {
				*s &^= 1 << other
			}
		}
	}
	*s |= 1 << o
}

// Toggle flips o and returns its new state.
func (s *OverlaySet) Toggle(o Overlay) bool {
	on := !s.Has(o)
	s.Set(o, on)
	return on
}

// HandleKey toggles the overlay bound to key. ok is false when no overlay
// uses the key.
func (s *OverlaySet) HandleKey(key int32) (o Overlay, on, ok bool) {
	for i, info := range overlayTable {
		if info.key == key {
			o = Overlay(i)
			return o, s.Toggle(o), true
		}
	}
	return 0, false, false
}

// Enabled lists the enabled overlays in table order.
func (s OverlaySet) Enabled() []Overlay {
	var out []Overlay
	for o := range numOverlays {
		if s.Has(o) {
			out = append(out, o)
		}
	}
	return out
}

// Legend renders the key bindings, marking enabled overlays with '*'.
func (s OverlaySet) Legend() string {
	var b strings.Builder
	for o, info := range overlayTable {
		if o > 0 {
			b.WriteString("  ")
		}
		mark := " "
		if s.Has(Overlay(o)) {
			mark = "*"
		}
		fmt.Fprintf(&b, "[%s]%s%s", info.label, mark, info.name)
	}
	return b.String()
}

// DirtyTrail remembers recently re-rendered rectangles for a few frames.
type DirtyTrail struct {
	life    int
	entries []dirtyEntry
}

type dirtyEntry struct {
	rect image.Rectangle
	age  int
}

// NewDirtyTrail keeps each rectangle for life frames.
func NewDirtyTrail(life int) *DirtyTrail {
	return &DirtyTrail{life: max(life, 1)}
}

// Add records a re-rendered selection.
func (d *DirtyTrail) Add(sel field.Selection) {
	if sel.IsEmpty() {
		return
	}
	d.entries = append(d.entries, dirtyEntry{rect: sel.Rect()})
}

// Age advances every entry by a frame and drops expired ones.
func (d *DirtyTrail) Age() {
	kept := d.entries[:0]
	for _, e := range d.entries {
		e.age++
		if e.age < d.life {
			kept = append(kept, e)
		}
	}
	d.entries = kept
}

// Len returns the number of live rectangles.
func (d *DirtyTrail) Len() int { return len(d.entries) }

// Draw outlines live rectangles, fading with age.
func (d *DirtyTrail) Draw(cam *camera.Camera) {
	for _, e := range d.entries {
		alpha := uint8(255 * (d.life - e.age) / d.life)
		drawClientRect(cam.ClientRect(e.rect), rl.Color{R: 255, G: 80, B: 200, A: alpha})
	}
}

// DrawFootprint outlines a brush footprint. Parts beyond a wrapping edge
// are drawn where they land.
func DrawFootprint(cam *camera.Camera, f *field.HeightField, sel field.Selection) {
	for sub := range sel.SubSelectionsOf(f) {
		drawClientRect(cam.ClientRect(sub.Rect()), rl.Color{R: 255, G: 255, B: 255, A: 160})
	}
}

// DrawEdges outlines the render. Wrapping axes are drawn in the accent
// colour.
func DrawEdges(cam *camera.Camera, f *field.HeightField) {
	x0, y0 := cam.ImageToClient(0, 0)
	x1, y1 := cam.ImageToClient(float32(f.W), float32(f.H))
	solid := rl.Color{R: 200, G: 200, B: 200, A: 200}
	wrap := rl.Color{R: 100, G: 200, B: 100, A: 220}

	cx, cy := solid, solid
	if f.WrapX() {
		cx = wrap
	}
	if f.WrapY() {
		cy = wrap
	}
	rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x0, Y: y1}, cx)
	rl.DrawLineV(rl.Vector2{X: x1, Y: y0}, rl.Vector2{X: x1, Y: y1}, cx)
	rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y0}, cy)
	rl.DrawLineV(rl.Vector2{X: x0, Y: y1}, rl.Vector2{X: x1, Y: y1}, cy)
}

// minGridZoom is the zoom below which grid lines would be too dense.
const minGridZoom = 8

// DrawGrid draws visible cell boundaries once zoomed in far enough.
func DrawGrid(cam *camera.Camera, f *field.HeightField) {
	if cam.Zoom < minGridZoom {
		return
	}
	vis := cam.ClientRect(image.Rect(0, 0, f.W, f.H))
	if vis.Empty() {
		return
	}
	ix0, iy0 := cam.ClientToImage(float32(vis.Min.X), float32(vis.Min.Y))
	ix1, iy1 := cam.ClientToImage(float32(vis.Max.X), float32(vis.Max.Y))
	c := rl.Color{R: 0, G: 0, B: 0, A: 60}
	for x := max(int(ix0), 0); x <= min(int(ix1)+1, f.W); x++ {
		px, _ := cam.ImageToClient(float32(x), 0)
		rl.DrawLineV(rl.Vector2{X: px, Y: float32(vis.Min.Y)}, rl.Vector2{X: px, Y: float32(vis.Max.Y)}, c)
	}
	for y := max(int(iy0), 0); y <= min(int(iy1)+1, f.H); y++ {
		_, py := cam.ImageToClient(0, float32(y))
		rl.DrawLineV(rl.Vector2{X: float32(vis.Min.X), Y: py}, rl.Vector2{X: float32(vis.Max.X), Y: py}, c)
	}
}

func drawClientRect(r image.Rectangle, c rl.Color) {
	if r.Empty() {
		return
	}
	rl.DrawRectangleLines(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()), c)
}
