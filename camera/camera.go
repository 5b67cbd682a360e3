// Package camera maps between render (image) coordinates and window (client)
// coordinates for the pan/zoom view of a render.
package camera

import (
	"image"
	"math"
)

// Wheel zoom steps are clamped to this many notches per frame.
const maxWheelNotches = 2

// Camera controls the viewport onto a render bitmap.
type Camera struct {
	// Position is the view centre in image coordinates
	X, Y float32

	// Zoom level (1.0 = one cell per pixel)
	Zoom float32

	// Viewport dimensions (client area size)
	ViewportW, ViewportH float32

	// Image dimensions
	ImageW, ImageH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centred on the image with 1:1 zoom.
func New(viewportW, viewportH, imageW, imageH float32) *Camera {
	return &Camera{
		X:         imageW / 2,
		Y:         imageH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ImageW:    imageW,
		ImageH:    imageH,
		MinZoom:   1.0 / 16,
		MaxZoom:   32.0,
	}
}

// ImageToClient converts image coordinates to client coordinates.
func (c *Camera) ImageToClient(ix, iy float32) (cx, cy float32) {
	cx = c.ViewportW/2 + (ix-c.X)*c.Zoom
	cy = c.ViewportH/2 + (iy-c.Y)*c.Zoom
	return cx, cy
}

// ClientToImage converts client coordinates to image coordinates. The result
// is not wrapped; points beyond the image edges map outside [0, size).
func (c *Camera) ClientToImage(cx, cy float32) (ix, iy float32) {
	ix = c.X + (cx-c.ViewportW/2)/c.Zoom
	iy = c.Y + (cy-c.ViewportH/2)/c.Zoom
	return ix, iy
}

// ClientRect returns the client-space rectangle covering image rectangle r,
// clipped to the viewport. The result is empty when r is off screen.
func (c *Camera) ClientRect(r image.Rectangle) image.Rectangle {
	x0, y0 := c.ImageToClient(float32(r.Min.X), float32(r.Min.Y))
	x1, y1 := c.ImageToClient(float32(r.Max.X), float32(r.Max.Y))
	out := image.Rect(
		int(math.Floor(float64(x0))), int(math.Floor(float64(y0))),
		int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))),
	)
	return out.Intersect(image.Rect(0, 0, int(c.ViewportW), int(c.ViewportH)))
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetImage changes the image size and recentres the view.
func (c *Camera) SetImage(imageW, imageH float32) {
	c.ImageW = imageW
	c.ImageH = imageH
	c.Reset()
}

// Pan moves the view centre by the given delta in client pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomWheel applies a mouse wheel movement: each notch scales by 1.1, at
// most two notches at a time.
func (c *Camera) ZoomWheel(notches float32) {
	if notches == 0 {
		return
	}
	n := clamp(notches, -maxWheelNotches, maxWheelNotches)
	c.ZoomBy(float32(math.Pow(1.1, float64(n))))
}

// Reset returns the camera to the image centre at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.ImageW / 2
	c.Y = c.ImageH / 2
	c.Zoom = 1.0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
