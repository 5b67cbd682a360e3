package heightmap

import (
	"image/color"
	"math"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

func init() {
	script.RegisterApply("hillshade", hillshade)
	script.RegisterApply("contour", contour)
}

// NewEffect resolves a registered effect callable.
func NewEffect(name, kind string, p script.Params) (Effect, error) {
	fn, err := script.Apply(kind, p)
	if err != nil {
		return Effect{}, err
	}
	return Effect{Name: name, Apply: fn}, nil
}

// hillshade lights the surface from a direction using central differences.
// Missing neighbours on non-wrapping edges fall back to the centre height.
func hillshade(p script.Params) script.ApplyFunc {
	az := p.Get("azimuth", 315) * math.Pi / 180
	alt := p.Get("altitude", 45) * math.Pi / 180
	z := p.Get("z", 1)
	strength := p.Get("strength", 1)
	lx := math.Cos(alt) * math.Cos(az)
	ly := math.Cos(alt) * math.Sin(az)
	lz := math.Sin(alt)

	return func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error) {
		centre, ok := f.TryGet(x, y)
		if !ok {
			return c, nil
		}
		at := func(dx, dy int) float64 {
			v, ok := f.TryGet(x+dx, y+dy)
			if !ok {
				return float64(centre)
			}
			return float64(v)
		}
		gx := (at(1, 0) - at(-1, 0)) * 0.5 * z
		gy := (at(0, 1) - at(0, -1)) * 0.5 * z
		// normal = (-gx, -gy, 1) normalised
		n := math.Sqrt(gx*gx + gy*gy + 1)
		shade := (-gx*lx - gy*ly + lz) / n
		// neutral at flat ground
		k := 1 + (shade/lz-1)*strength
		return scaleRGB(c, k), nil
	}
}

// contour darkens cells lying close to multiples of interval.
func contour(p script.Params) script.ApplyFunc {
	interval := p.Get("interval", 0.1)
	width := p.Get("width", 0.1)
	darken := p.Get("darken", 0.5)

	return func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error) {
		if interval <= 0 {
			return c, nil
		}
		v, ok := f.TryGet(x, y)
		if !ok {
			return c, nil
		}
		frac := float64(v)/interval - math.Floor(float64(v)/interval)
		if frac < width {
			return scaleRGB(c, 1-darken), nil
		}
		return c, nil
	}
}

func scaleRGB(c color.RGBA, k float64) color.RGBA {
	s := func(v uint8) uint8 {
		return uint8(math.Round(math.Min(math.Max(float64(v)*k, 0), 255)))
	}
	return color.RGBA{R: s(c.R), G: s(c.G), B: s(c.B), A: c.A}
}
