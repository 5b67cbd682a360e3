package camera

import (
	"image"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(800, 600, 256, 128)

	// Should be centred on the image
	if cam.X != 128 || cam.Y != 64 {
		t.Errorf("expected camera at (128, 64), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestImageToClientCentered(t *testing.T) {
	cam := New(800, 600, 256, 128)

	cx, cy := cam.ImageToClient(128, 64)
	if math.Abs(float64(cx-400)) > 0.01 || math.Abs(float64(cy-300)) > 0.01 {
		t.Errorf("expected client centre (400, 300), got (%f, %f)", cx, cy)
	}
}

func TestClientToImageRoundtrip(t *testing.T) {
	cam := New(800, 600, 256, 128)
	cam.SetZoom(2.5)
	cam.Pan(-37, 12)

	testCases := []struct{ cx, cy float32 }{
		{400, 300}, // centre
		{0, 0},     // top-left
		{799, 599}, // bottom-right
	}

	for _, tc := range testCases {
		ix, iy := cam.ClientToImage(tc.cx, tc.cy)
		cx, cy := cam.ImageToClient(ix, iy)
		if math.Abs(float64(cx-tc.cx)) > 0.01 || math.Abs(float64(cy-tc.cy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.cx, tc.cy, ix, iy, cx, cy)
		}
	}
}

func TestClientToImageOutsideIsUnwrapped(t *testing.T) {
	cam := New(800, 600, 256, 128)

	ix, _ := cam.ClientToImage(0, 300)
	if ix >= 0 {
		t.Errorf("expected negative image x left of the bitmap, got %f", ix)
	}
}

func TestClientRect(t *testing.T) {
	cam := New(800, 600, 256, 128)
	cam.SetZoom(2)

	// Image (128,64) is client (400,300); a 4x2 rect becomes 8x4 client pixels.
	got := cam.ClientRect(image.Rect(128, 64, 132, 66))
	want := image.Rect(400, 300, 408, 304)
	if got != want {
		t.Errorf("ClientRect = %v, want %v", got, want)
	}

	// Off-screen rects clip to empty.
	if r := cam.ClientRect(image.Rect(-1000, -1000, -990, -990)); !r.Empty() {
		t.Errorf("expected empty rect, got %v", r)
	}

	// Partially visible rects clip at zero.
	r := cam.ClientRect(image.Rect(-300, 64, 130, 65))
	if r.Min.X != 0 {
		t.Errorf("expected clip at x=0, got %v", r)
	}
}

func TestZoomWheelClampsNotches(t *testing.T) {
	cam := New(800, 600, 256, 128)

	cam.ZoomWheel(5)
	want := float32(math.Pow(1.1, 2))
	if math.Abs(float64(cam.Zoom-want)) > 1e-5 {
		t.Errorf("expected zoom %f after clamped wheel, got %f", want, cam.Zoom)
	}

	cam.ZoomWheel(0)
	if math.Abs(float64(cam.Zoom-want)) > 1e-5 {
		t.Errorf("zero wheel should not change zoom, got %f", cam.Zoom)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 256, 128)

	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	cam := New(800, 600, 256, 128)
	cam.SetZoom(2)
	cam.Pan(20, -10)

	if cam.X != 138 || cam.Y != 59 {
		t.Errorf("expected (138, 59), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 256, 128)
	cam.X = 5
	cam.Y = 5
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 128 || cam.Y != 64 {
		t.Errorf("expected position (128, 64), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
