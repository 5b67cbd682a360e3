package generator

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

func init() {
	script.RegisterGenerate("flat", flat)
	script.RegisterGenerate("simplex", func(p script.Params) script.GenerateFunc {
		q := noiseParams(p)
		q.octaves = 1
		return q.generate(func(n float64) float64 { return n })
	})
	script.RegisterGenerate("fbm", func(p script.Params) script.GenerateFunc {
		return noiseParams(p).generate(func(n float64) float64 { return n })
	})
	// ridged folds each octave around its midpoint, giving sharp crests.
	script.RegisterGenerate("ridged", func(p script.Params) script.GenerateFunc {
		return noiseParams(p).generate(func(n float64) float64 {
			r := 1 - math.Abs(2*n-1)
			return r * r
		})
	})
}

func flat(p script.Params) script.GenerateFunc {
	v := float32(p.Get("value", 0))
	return func(x, y int, f *field.HeightField) (float32, error) {
		return v, nil
	}
}

type fractal struct {
	noise      opensimplex.Noise
	scale      float64 // base frequency in periods per field
	octaves    int
	lacunarity float64
	gain       float64
	amplitude  float64
	offset     float64
}

func noiseParams(p script.Params) fractal {
	return fractal{
		noise:      opensimplex.NewNormalized(int64(p.Get("seed", 42))),
		scale:      p.Get("scale", 4),
		octaves:    max(int(p.Get("octaves", 5)), 1),
		lacunarity: p.Get("lacunarity", 2),
		gain:       p.Get("gain", 0.5),
		amplitude:  p.Get("amplitude", 1),
		offset:     p.Get("offset", 0),
	}
}

// generate sums octaves of shaped noise, normalised by the total amplitude
// so the result stays in [offset, offset+amplitude].
func (q fractal) generate(shape func(n float64) float64) script.GenerateFunc {
	return func(x, y int, f *field.HeightField) (float32, error) {
		sum, norm := 0.0, 0.0
		amp := 1.0
		freq := q.scale
		for o := 0; o < q.octaves; o++ {
			sum += amp * shape(q.sample(x, y, f, freq))
			norm += amp
			freq *= q.lacunarity
			amp *= q.gain
		}
		if norm > 0 {
			sum /= norm
		}
		return float32(q.offset + q.amplitude*sum), nil
	}
}

// sample evaluates noise at cell (x, y) with freq periods across the field.
// Wrapping axes are mapped onto circles so the result tiles seamlessly.
func (q fractal) sample(x, y int, f *field.HeightField, freq float64) float64 {
	u := float64(x) / float64(f.W)
	v := float64(y) / float64(f.H)
	r := freq / (2 * math.Pi)
	su, cu := math.Sincos(2 * math.Pi * u)
	sv, cv := math.Sincos(2 * math.Pi * v)

	switch {
	case f.WrapX() && f.WrapY():
		return q.noise.Eval4(r*cu, r*su, r*cv, r*sv)
	case f.WrapX():
		return q.noise.Eval3(r*cu, r*su, v*freq)
	case f.WrapY():
		return q.noise.Eval3(u*freq, r*cv, r*sv)
	default:
		return q.noise.Eval2(u*freq, v*freq)
	}
}
