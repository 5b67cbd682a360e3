// Package heightmap holds render targets: a height field plus the RGBA image
// produced from it through a gradient and an optional effect chain.
package heightmap

import (
	"image"
	"image/color"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

// Effect post-processes the gradient colour of each cell.
type Effect struct {
	Name  string
	Apply script.ApplyFunc
}

// Render is a height field with its displayed bitmap.
type Render struct {
	Field  *field.HeightField
	Bitmap *image.RGBA
}

// New allocates a render of the given size.
func New(w, h int, opts field.Options) *Render {
	f := field.New(w, h, opts)
	return &Render{
		Field:  f,
		Bitmap: image.NewRGBA(image.Rect(0, 0, f.W, f.H)),
	}
}

// Bounds returns the field rectangle.
func (r *Render) Bounds() field.Selection {
	return field.Selection{Width: r.Field.W, Height: r.Field.H}
}

// Clear zeroes the field. The bitmap is stale until the next update.
func (r *Render) Clear() {
	r.Field.Clear()
}

// UpdateAll recomputes the whole bitmap.
func (r *Render) UpdateAll(g *Gradient, effects []Effect) error {
	return r.UpdateArea(r.Bounds(), g, effects)
}

// UpdateArea recomputes the bitmap pixels of sel, which is clipped to the
// field. A nil gradient falls back to grayscale over the clamp range (or
// [0,1] without clamping). The first effect fault stops the update and is
// returned as an effect script error; pixels already written keep their
// new colour.
func (r *Render) UpdateArea(sel field.Selection, g *Gradient, effects []Effect) (err error) {
	rect := sel.Rect().Intersect(r.Bitmap.Rect)
	if rect.Empty() {
		return nil
	}
	if g == nil {
		g = r.defaultGradient()
	}

	var current string
	defer func() {
		if rec := recover(); rec != nil {
			err = script.Recovered(script.KindEffect, current, rec)
		}
	}()

	f := r.Field
	cells := f.Cells()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := g.At(cells[y*f.W+x])
			for _, e := range effects {
				if e.Apply == nil {
					continue
				}
				current = e.Name
				c, err = e.Apply(x, y, c, f)
				if err != nil {
					return script.Fault(script.KindEffect, e.Name, err)
				}
			}
			r.Bitmap.SetRGBA(x, y, c)
		}
	}
	return nil
}

// PixelAt returns the displayed colour of cell (x, y).
func (r *Render) PixelAt(x, y int) color.RGBA {
	return r.Bitmap.RGBAAt(x, y)
}

func (r *Render) defaultGradient() *Gradient {
	opts := r.Field.Options()
	if opts.Clamp && opts.Max > opts.Min {
		return Grayscale(opts.Min, opts.Max)
	}
	return Grayscale(0, 1)
}
