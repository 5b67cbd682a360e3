// Package renderer presents render bitmaps through raylib textures.
package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/field"
)

// HeightmapRenderer keeps a GPU texture in sync with a render bitmap,
// uploading only the rectangles reported dirty since the last sync.
type HeightmapRenderer struct {
	tex         rl.Texture2D
	texW, texH  int
	initialized bool

	dirty []image.Rectangle
	full  bool
}

// NewHeightmapRenderer creates a renderer. The texture is created lazily on
// the first Sync, after the raylib window exists.
func NewHeightmapRenderer() *HeightmapRenderer {
	return &HeightmapRenderer{full: true}
}

// MarkDirty queues a field rectangle for upload.
func (r *HeightmapRenderer) MarkDirty(sel field.Selection) {
	if sel.IsEmpty() {
		return
	}
	r.dirty = append(r.dirty, sel.Rect())
}

// MarkAll queues the whole bitmap for upload.
func (r *HeightmapRenderer) MarkAll() {
	r.full = true
	r.dirty = r.dirty[:0]
}

// Sync uploads pending changes of img to the texture, recreating the
// texture when the bitmap size changed.
func (r *HeightmapRenderer) Sync(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if !r.initialized || w != r.texW || h != r.texH {
		r.init(w, h)
		r.full = true
	}

	rects, full := planUpload(r.dirty, r.full, img.Rect)
	if full {
		rl.UpdateTexture(r.tex, regionPixels(img, img.Rect))
	} else {
		for _, rc := range rects {
			rl.UpdateTextureRec(r.tex, rl.Rectangle{
				X:      float32(rc.Min.X),
				Y:      float32(rc.Min.Y),
				Width:  float32(rc.Dx()),
				Height: float32(rc.Dy()),
			}, regionPixels(img, rc))
		}
	}
	r.dirty = r.dirty[:0]
	r.full = false
}

func (r *HeightmapRenderer) init(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	r.texW, r.texH = w, h
	r.initialized = true
}

// Draw renders the texture through the camera.
func (r *HeightmapRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x0, y0 := cam.ImageToClient(0, 0)
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: x0, Y: y0, Width: float32(r.texW) * cam.Zoom, Height: float32(r.texH) * cam.Zoom}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *HeightmapRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// planUpload clips the dirty rectangles to bounds and decides whether a
// single full upload is cheaper, which is the case once the dirty area
// reaches half the bitmap.
func planUpload(dirty []image.Rectangle, full bool, bounds image.Rectangle) ([]image.Rectangle, bool) {
	if full {
		return nil, true
	}
	out := make([]image.Rectangle, 0, len(dirty))
	area := 0
	for _, d := range dirty {
		c := d.Intersect(bounds)
		if c.Empty() {
			continue
		}
		out = append(out, c)
		area += c.Dx() * c.Dy()
	}
	if area*2 >= bounds.Dx()*bounds.Dy() {
		return nil, true
	}
	return out, false
}

// regionPixels copies rect out of img as a row-major pixel slice.
func regionPixels(img *image.RGBA, rect image.Rectangle) []color.RGBA {
	rect = rect.Intersect(img.Rect)
	out := make([]color.RGBA, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			out = append(out, img.RGBAAt(x, y))
		}
	}
	return out
}
