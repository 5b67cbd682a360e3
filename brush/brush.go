// Package brush applies script-driven stamps to a height field.
package brush

import (
	"errors"
	"math"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

// Defaults for a freshly created brush.
const (
	DefaultWidth     = 64
	DefaultHeight    = 64
	DefaultPower     = 1
	DefaultPrecision = 8
)

// ErrNotCompiled is the fault raised when a brush has no sample or blend callable.
var ErrNotCompiled = errors.New("brush: sample/blend functions not set")

// Brush is a width×height stamp whose per-cell contribution comes from the
// Sample callable and is merged into the field by Blend.
type Brush struct {
	Name      string
	Width     int
	Height    int
	Power     float32 // falloff exponent
	Precision int     // stroke step length in cells

	Sample script.SampleFunc
	Blend  script.BlendFunc
}

// New creates a brush with no callables bound.
func New(name string, width, height int, power float32, precision int) *Brush {
	return &Brush{
		Name:      name,
		Width:     max(width, 0),
		Height:    max(height, 0),
		Power:     max(power, 0),
		Precision: max(precision, 1),
	}
}

// NewDefault creates a 64×64 brush with power 1 and precision 8.
func NewDefault(name string) *Brush {
	return New(name, DefaultWidth, DefaultHeight, DefaultPower, DefaultPrecision)
}

// Step returns the stroke step length, never below 1.
func (b *Brush) Step() int {
	return max(b.Precision, 1)
}

// Footprint returns the stamp rectangle centred on (cx, cy).
func (b *Brush) Footprint(cx, cy int) field.Selection {
	w, h := max(b.Width, 0), max(b.Height, 0)
	return field.NewSelection(cx-w/2, cy-h/2, w, h)
}

// Intensity returns the falloff weight of cell (x, y) for a stamp centred on
// (cx, cy): one at the centre, zero at the ellipse inscribed in the
// footprint, shaped by Power.
func (b *Brush) Intensity(x, y, cx, cy int) float32 {
	rx := math.Max(float64(b.Width)/2, 0.5)
	ry := math.Max(float64(b.Height)/2, 0.5)
	dx := float64(x-cx) / rx
	dy := float64(y-cy) / ry
	falloff := 1 - math.Sqrt(dx*dx+dy*dy)
	if falloff < 0 {
		falloff = 0
	}
	return float32(math.Pow(falloff, float64(max(b.Power, 0))))
}

// Stamp is the record of one brush application.
type Stamp struct {
	Selection    field.Selection
	Prior        []float32 // row-major pre-paint values; NaN where the cell was out of range
	StrokeLength float32
}

// Paint applies the brush centred on (cx, cy). Every in-range footprint cell
// is captured, sampled, blended and written in row-major order. The returned
// selection is the whole footprint even when some cells were skipped.
//
// A fault from Sample or Blend stops the stamp and is returned as a
// *script.Error; cells already written stay written and the stamp must be
// discarded.
func (b *Brush) Paint(f *field.HeightField, cx, cy int, strokeLength float32) (st Stamp, err error) {
	if b.Sample == nil || b.Blend == nil {
		return Stamp{}, script.Fault(script.KindBrush, b.Name, ErrNotCompiled)
	}
	defer func() {
		if r := recover(); r != nil {
			st = Stamp{}
			err = script.Recovered(script.KindBrush, b.Name, r)
		}
	}()

	sel := b.Footprint(cx, cy)
	prior := make([]float32, sel.Area())
	left, right, top, bottom := sel.Left, sel.Right(), sel.Top, sel.Bottom()

	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			i := sel.Index(x, y)
			old, ok := f.TryGet(x, y)
			if !ok {
				prior[i] = float32(math.NaN())
				continue
			}
			prior[i] = old

			v, err := b.Sample(x, y, b.Intensity(x, y, cx, cy), left, right, top, bottom)
			if err != nil {
				return Stamp{}, script.Fault(script.KindBrush, b.Name, err)
			}
			nv, err := b.Blend(old, v)
			if err != nil {
				return Stamp{}, script.Fault(script.KindBrush, b.Name, err)
			}
			if err := f.Set(x, y, nv); err != nil {
				return Stamp{}, err
			}
		}
	}
	return Stamp{Selection: sel, Prior: prior, StrokeLength: strokeLength}, nil
}

// Bind resolves the named built-in callables and binds them to the brush.
func (b *Brush) Bind(sample string, sampleParams script.Params, blend string, blendParams script.Params) error {
	s, err := script.Sample(sample, sampleParams)
	if err != nil {
		return err
	}
	bl, err := script.Blend(blend, blendParams)
	if err != nil {
		return err
	}
	b.Sample = s
	b.Blend = bl
	return nil
}
