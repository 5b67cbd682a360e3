package heightmap

import (
	"errors"
	"image/color"
	"testing"

	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/script"
)

func TestGradientLinear(t *testing.T) {
	g := NewGradient("bw", InterpLinear, []Stop{
		{Height: 1, Color: color.RGBA{R: 200, G: 100, B: 0, A: 255}},
		{Height: 0, Color: color.RGBA{A: 255}},
	})

	tests := []struct {
		name string
		v    float32
		want color.RGBA
	}{
		{"below", -3, color.RGBA{A: 255}},
		{"first", 0, color.RGBA{A: 255}},
		{"middle", 0.5, color.RGBA{R: 100, G: 50, A: 255}},
		{"last", 1, color.RGBA{R: 200, G: 100, A: 255}},
		{"above", 4, color.RGBA{R: 200, G: 100, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.At(tt.v); got != tt.want {
				t.Errorf("At(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestGradientHSLuvEndpoints(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	g := NewGradient("rb", InterpHSLuv, []Stop{{Height: 0, Color: red}, {Height: 1, Color: blue}})

	if got := g.At(0); got != red {
		t.Errorf("At(0) = %v, want %v", got, red)
	}
	if got := g.At(1); got != blue {
		t.Errorf("At(1) = %v, want %v", got, blue)
	}
	mid := g.At(0.5)
	if mid.A != 255 {
		t.Errorf("alpha lost in hsluv interpolation: %v", mid)
	}
	if mid == red || mid == blue {
		t.Errorf("midpoint %v should differ from endpoints", mid)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2b3c")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c != (color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}) {
		t.Errorf("got %v", c)
	}
	if _, err := ParseHex("#123"); err == nil {
		t.Error("expected error for short colour")
	}
}

func TestUpdateAreaTouchesOnlySelection(t *testing.T) {
	r := New(6, 6, field.Options{})
	for i := range r.Field.Cells() {
		r.Field.Cells()[i] = 1
	}
	g := Grayscale(0, 1)

	if err := r.UpdateArea(field.Selection{Left: 2, Top: 2, Width: 2, Height: 2}, g, nil); err != nil {
		t.Fatalf("UpdateArea: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			inside := x >= 2 && x < 4 && y >= 2 && y < 4
			got := r.PixelAt(x, y)
			if inside && got.R != 255 {
				t.Errorf("(%d,%d) not updated: %v", x, y, got)
			}
			if !inside && got != (color.RGBA{}) {
				t.Errorf("(%d,%d) updated outside selection: %v", x, y, got)
			}
		}
	}
}

func TestUpdateAreaClipsToField(t *testing.T) {
	r := New(3, 3, field.Options{})
	if err := r.UpdateArea(field.Selection{Left: -5, Top: -5, Width: 20, Height: 20}, nil, nil); err != nil {
		t.Fatalf("UpdateArea: %v", err)
	}
	if got := r.PixelAt(2, 2); got.A != 255 {
		t.Errorf("expected opaque pixel, got %v", got)
	}
}

func TestUpdateAreaEffectFault(t *testing.T) {
	r := New(2, 2, field.Options{})
	boom := errors.New("boom")
	effects := []Effect{{Name: "broken", Apply: func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error) {
		return c, boom
	}}}

	err := r.UpdateAll(nil, effects)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if kind, ok := script.IsFault(err); !ok || kind != script.KindEffect {
		t.Errorf("kind = %v, %v; want effect script", kind, ok)
	}
}

func TestContourEffect(t *testing.T) {
	r := New(2, 1, field.Options{})
	r.Field.Cells()[0] = 0.5
	r.Field.Cells()[1] = 0.55
	e, err := NewEffect("lines", "contour", script.Params{"interval": 0.5, "width": 0.05, "darken": 1})
	if err != nil {
		t.Fatalf("NewEffect: %v", err)
	}
	g := NewGradient("white", InterpLinear, []Stop{{Height: 0, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}})
	if err := r.UpdateAll(g, []Effect{e}); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	if got := r.PixelAt(0, 0); got.R != 0 {
		t.Errorf("contour cell = %v, want black", got)
	}
	if got := r.PixelAt(1, 0); got.R != 255 {
		t.Errorf("off-contour cell = %v, want white", got)
	}
}

func TestHillshadeFlatIsNeutral(t *testing.T) {
	r := New(3, 3, field.Options{WrapX: true, WrapY: true})
	e, err := NewEffect("shade", "hillshade", nil)
	if err != nil {
		t.Fatalf("NewEffect: %v", err)
	}
	c := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	got, err := e.Apply(1, 1, c, r.Field)
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Errorf("flat hillshade = %v, want %v", got, c)
	}
}
