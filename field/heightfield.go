// Package field provides the height field painted by brushes and generators,
// and rectangular selections over it.
package field

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a coordinate falls outside a non-wrapping axis.
var ErrOutOfRange = errors.New("field: coordinate out of range")

// Options configures addressing and write clamping for a HeightField.
type Options struct {
	WrapX, WrapY bool

	// Clamp limits every written value to [Min, Max].
	Clamp    bool
	Min, Max float32
}

// HeightField is a dense 2D grid of heights stored in row-major order.
// Each axis can independently wrap around (toroidal addressing).
type HeightField struct {
	W, H int
	opts Options
	data []float32
}

// New allocates a zeroed field. Non-positive dimensions are raised to 1.
func New(w, h int, opts Options) *HeightField {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if opts.Clamp && opts.Min > opts.Max {
		opts.Min, opts.Max = opts.Max, opts.Min
	}
	f := &HeightField{W: w, H: h, opts: opts, data: make([]float32, w*h)}
	if opts.Clamp {
		f.Clear()
	}
	return f
}

// Options returns the addressing and clamping configuration.
func (f *HeightField) Options() Options { return f.opts }

// WrapX reports whether the horizontal axis wraps.
func (f *HeightField) WrapX() bool { return f.opts.WrapX }

// WrapY reports whether the vertical axis wraps.
func (f *HeightField) WrapY() bool { return f.opts.WrapY }

// Cells exposes the backing slice in row-major order.
func (f *HeightField) Cells() []float32 { return f.data }

// index resolves (x, y) to a slice index, applying wrap per axis.
func (f *HeightField) index(x, y int) (int, bool) {
	if f.opts.WrapX {
		x = modInt(x, f.W)
	} else if x < 0 || x >= f.W {
		return 0, false
	}
	if f.opts.WrapY {
		y = modInt(y, f.H)
	} else if y < 0 || y >= f.H {
		return 0, false
	}
	return y*f.W + x, true
}

// Resolve maps (x, y) to in-field coordinates, wrapping per axis. ok is
// false for a point beyond a non-wrapping edge.
func (f *HeightField) Resolve(x, y int) (rx, ry int, ok bool) {
	i, ok := f.index(x, y)
	if !ok {
		return 0, 0, false
	}
	return i % f.W, i / f.W, true
}

// Get returns the height at (x, y).
func (f *HeightField) Get(x, y int) (float32, error) {
	i, ok := f.index(x, y)
	if !ok {
		return 0, fmt.Errorf("get (%d,%d) in %dx%d: %w", x, y, f.W, f.H, ErrOutOfRange)
	}
	return f.data[i], nil
}

// TryGet is the non-failing form of Get, used when out-of-range cells are
// simply skipped.
func (f *HeightField) TryGet(x, y int) (float32, bool) {
	i, ok := f.index(x, y)
	if !ok {
		return 0, false
	}
	return f.data[i], true
}

// Set writes v at (x, y), clamping it first when clamping is enabled.
func (f *HeightField) Set(x, y int, v float32) error {
	i, ok := f.index(x, y)
	if !ok {
		return fmt.Errorf("set (%d,%d) in %dx%d: %w", x, y, f.W, f.H, ErrOutOfRange)
	}
	f.data[i] = f.clamp(v)
	return nil
}

// Clear resets every cell to zero, or to the nearest bound when zero lies
// outside the clamp range.
func (f *HeightField) Clear() {
	v := f.clamp(0)
	for i := range f.data {
		f.data[i] = v
	}
}

func (f *HeightField) clamp(v float32) float32 {
	if !f.opts.Clamp {
		return v
	}
	if v < f.opts.Min {
		return f.opts.Min
	}
	if v > f.opts.Max {
		return f.opts.Max
	}
	return v
}

// modInt is floor-modulo: the result always lies in [0, m).
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
