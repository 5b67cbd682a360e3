package heightmap

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hsluv/hsluv-go"
)

// InterpMode selects the colour space used between gradient stops.
type InterpMode string

const (
	InterpLinear InterpMode = "linear" // straight sRGB lerp
	InterpHSLuv  InterpMode = "hsluv"  // perceptually uniform hue/saturation/lightness
)

// Stop places a colour at a height value.
type Stop struct {
	Height float32
	Color  color.RGBA

	h, s, l float64 // HSLuv form of Color
}

// Gradient maps heights to colours. Heights below the first stop or above
// the last take the edge colour.
type Gradient struct {
	Name  string
	Mode  InterpMode
	stops []Stop
}

// NewGradient sorts stops by height and precomputes their HSLuv form.
func NewGradient(name string, mode InterpMode, stops []Stop) *Gradient {
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})
	for i := range sorted {
		c := sorted[i].Color
		sorted[i].h, sorted[i].s, sorted[i].l = hsluv.HsluvFromRGB(
			float64(c.R)/255, float64(c.G)/255, float64(c.B)/255,
		)
	}
	if mode == "" {
		mode = InterpLinear
	}
	return &Gradient{Name: name, Mode: mode, stops: sorted}
}

// Grayscale returns a black→white gradient over [lo, hi].
func Grayscale(lo, hi float32) *Gradient {
	return NewGradient("grayscale", InterpLinear, []Stop{
		{Height: lo, Color: color.RGBA{A: 255}},
		{Height: hi, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	})
}

// Stops returns a copy of the sorted stops.
func (g *Gradient) Stops() []Stop {
	out := make([]Stop, len(g.stops))
	copy(out, g.stops)
	return out
}

// At returns the colour for height v.
func (g *Gradient) At(v float32) color.RGBA {
	n := len(g.stops)
	switch {
	case n == 0:
		return color.RGBA{A: 255}
	case n == 1 || v <= g.stops[0].Height || v != v:
		return g.stops[0].Color
	case v >= g.stops[n-1].Height:
		return g.stops[n-1].Color
	}

	i := sort.Search(n, func(i int) bool { return g.stops[i].Height > v })
	a, b := g.stops[i-1], g.stops[i]
	span := b.Height - a.Height
	if span <= 0 {
		return b.Color
	}
	t := float64((v - a.Height) / span)

	if g.Mode == InterpHSLuv {
		return lerpHSLuv(a, b, t)
	}
	return lerpRGBA(a.Color, b.Color, t)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// lerpHSLuv interpolates along the shorter hue arc.
func lerpHSLuv(a, b Stop, t float64) color.RGBA {
	dh := b.h - a.h
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	h := math.Mod(a.h+dh*t+360, 360)
	s := a.s + (b.s-a.s)*t
	l := a.l + (b.l-a.l)*t
	r, g, bl := hsluv.HsluvToRGB(h, s, l)
	alpha := float64(a.Color.A) + (float64(b.Color.A)-float64(a.Color.A))*t
	return color.RGBA{R: unit8(r), G: unit8(g), B: unit8(bl), A: uint8(math.Round(alpha))}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("parsing colour %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
