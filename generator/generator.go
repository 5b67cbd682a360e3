// Package generator fills whole height fields from a generator callable.
package generator

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

// Generator is a named whole-field generator.
type Generator struct {
	Name     string
	Generate script.GenerateFunc

	// Normalize rescales the result to the field's clamp range (or [0,1])
	// after a successful run.
	Normalize bool
}

// New resolves a registered generator kind.
func New(name, kind string, p script.Params) (*Generator, error) {
	fn, err := script.Generate(kind, p)
	if err != nil {
		return nil, err
	}
	return &Generator{Name: name, Generate: fn}, nil
}

// Run writes Generate(x, y, f) into every cell, column by column. The
// generator sees the cells it has already written. A fault aborts the run
// and is returned as a generator script error; the field keeps whatever was
// written before it.
func (g *Generator) Run(f *field.HeightField) (err error) {
	if g.Generate == nil {
		return script.Fault(script.KindGenerator, g.Name, script.ErrMissingFunction)
	}
	defer func() {
		if r := recover(); r != nil {
			err = script.Recovered(script.KindGenerator, g.Name, r)
		}
	}()

	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			v, err := g.Generate(x, y, f)
			if err != nil {
				return script.Fault(script.KindGenerator, g.Name, err)
			}
			if err := f.Set(x, y, v); err != nil {
				return err
			}
		}
	}
	if g.Normalize {
		lo, hi := float32(0), float32(1)
		if opts := f.Options(); opts.Clamp && opts.Max > opts.Min {
			lo, hi = opts.Min, opts.Max
		}
		Normalize(f, lo, hi)
	}
	return nil
}

// Normalize linearly rescales the field so its extremes become lo and hi.
// A flat field is set to lo.
func Normalize(f *field.HeightField, lo, hi float32) {
	vals := f.Float64s()
	if len(vals) == 0 {
		return
	}
	mn, mx := floats.Min(vals), floats.Max(vals)
	span := mx - mn
	cells := f.Cells()
	for i, v := range vals {
		t := 0.0
		if span > 0 {
			t = (v - mn) / span
		}
		cells[i] = lo + float32(t)*(hi-lo)
	}
}
