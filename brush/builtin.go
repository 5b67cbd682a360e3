package brush

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/fountain/script"
)

func init() {
	script.RegisterSample("constant", func(p script.Params) script.SampleFunc {
		value := float32(p.Get("value", 1))
		return func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
			return value, nil
		}
	})
	script.RegisterSample("falloff", func(p script.Params) script.SampleFunc {
		strength := float32(p.Get("strength", 1))
		return func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
			return intensity * strength, nil
		}
	})
	// noise modulates the falloff with world-anchored simplex noise so that
	// repeated stamps build a coherent texture.
	script.RegisterSample("noise", func(p script.Params) script.SampleFunc {
		noise := opensimplex.NewNormalized(int64(p.Get("seed", 1)))
		scale := p.Get("scale", 0.05)
		strength := float32(p.Get("strength", 1))
		return func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
			n := float32(noise.Eval2(float64(x)*scale, float64(y)*scale))
			return intensity * strength * n, nil
		}
	})

	script.RegisterBlend("add", func(script.Params) script.BlendFunc {
		return func(base, value float32) (float32, error) { return base + value, nil }
	})
	script.RegisterBlend("subtract", func(script.Params) script.BlendFunc {
		return func(base, value float32) (float32, error) { return base - value, nil }
	})
	script.RegisterBlend("max", func(script.Params) script.BlendFunc {
		return func(base, value float32) (float32, error) { return max(base, value), nil }
	})
	script.RegisterBlend("min", func(script.Params) script.BlendFunc {
		return func(base, value float32) (float32, error) { return min(base, value), nil }
	})
	script.RegisterBlend("replace", func(script.Params) script.BlendFunc {
		return func(base, value float32) (float32, error) { return value, nil }
	})
	// mix moves the base toward target by value*amount (value is usually the falloff).
	script.RegisterBlend("mix", func(p script.Params) script.BlendFunc {
		target := float32(p.Get("target", 0))
		amount := float32(p.Get("amount", 0.25))
		return func(base, value float32) (float32, error) {
			return base + (target-base)*value*amount, nil
		}
	})
}
