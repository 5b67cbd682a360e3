package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/pthm-cable/fountain/field"
)

func TestPlanUpload(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)

	tests := []struct {
		name     string
		dirty    []image.Rectangle
		full     bool
		wantFull bool
		wantN    int
	}{
		{"forced full", []image.Rectangle{image.Rect(0, 0, 1, 1)}, true, true, 0},
		{"small rects", []image.Rectangle{image.Rect(0, 0, 2, 2), image.Rect(5, 5, 7, 7)}, false, false, 2},
		{"clipped away", []image.Rectangle{image.Rect(20, 20, 30, 30)}, false, false, 0},
		{"half the bitmap", []image.Rectangle{image.Rect(0, 0, 10, 5)}, false, true, 0},
		{"clipped to bounds", []image.Rectangle{image.Rect(-5, -5, 2, 2)}, false, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rects, full := planUpload(tt.dirty, tt.full, bounds)
			if full != tt.wantFull {
				t.Errorf("full = %v, want %v", full, tt.wantFull)
			}
			if len(rects) != tt.wantN {
				t.Errorf("rects = %v, want %d", rects, tt.wantN)
			}
			for _, r := range rects {
				if !r.In(bounds) {
					t.Errorf("rect %v outside bounds", r)
				}
			}
		})
	}
}

func TestRegionPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	px := regionPixels(img, image.Rect(1, 1, 3, 3))
	want := []color.RGBA{
		{R: 1, G: 1, A: 255}, {R: 2, G: 1, A: 255},
		{R: 1, G: 2, A: 255}, {R: 2, G: 2, A: 255},
	}
	if len(px) != len(want) {
		t.Fatalf("len = %d, want %d", len(px), len(want))
	}
	for i := range want {
		if px[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, px[i], want[i])
		}
	}
}

func TestMarkDirtyIgnoresEmpty(t *testing.T) {
	r := NewHeightmapRenderer()
	r.MarkDirty(field.Selection{Left: 1, Top: 1, Width: 0, Height: 4})
	r.MarkDirty(field.Selection{Left: 1, Top: 1, Width: 2, Height: 2})
	if len(r.dirty) != 1 || r.dirty[0] != image.Rect(1, 1, 3, 3) {
		t.Errorf("dirty = %v", r.dirty)
	}

	r.MarkAll()
	if !r.full || len(r.dirty) != 0 {
		t.Errorf("MarkAll left full=%v dirty=%v", r.full, r.dirty)
	}
}
