package field

import (
	"fmt"
	"image"
	"iter"
)

// Selection is an axis-aligned rectangle in the unwrapped coordinate space of
// a paint or generator pass. It may extend past the field edges.
type Selection struct {
	Left, Top     int
	Width, Height int
}

// NewSelection builds a selection, treating negative sizes as zero.
func NewSelection(left, top, width, height int) Selection {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Selection{Left: left, Top: top, Width: width, Height: height}
}

// Right is the exclusive right edge.
func (s Selection) Right() int { return s.Left + s.Width }

// Bottom is the exclusive bottom edge.
func (s Selection) Bottom() int { return s.Top + s.Height }

// IsEmpty reports whether the selection covers no cells.
func (s Selection) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Area returns the number of cells in the footprint.
func (s Selection) Area() int {
	if s.IsEmpty() {
		return 0
	}
	return s.Width * s.Height
}

// Index returns the row-major offset of (x, y) within the footprint.
func (s Selection) Index(x, y int) int {
	return (y-s.Top)*s.Width + (x - s.Left)
}

// Rect converts the selection to an image rectangle.
func (s Selection) Rect() image.Rectangle {
	return image.Rect(s.Left, s.Top, s.Right(), s.Bottom())
}

func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", s.Left, s.Top, s.Width, s.Height)
}

// span is a half-open interval [lo, hi) on one axis.
type span struct{ lo, hi int }

// axisSpans clips [start, start+n) against [0, dim). On a wrapping axis the
// part that runs past either edge is moved to the opposite side, giving at
// most two spans. Empty spans are kept so callers see a stable shape.
func axisSpans(start, n, dim int, wrap bool) []span {
	if !wrap {
		lo := min(max(start, 0), dim)
		hi := min(max(start+n, lo), dim)
		return []span{{lo, hi}}
	}
	if n >= dim {
		return []span{{0, dim}}
	}
	lo := modInt(start, dim)
	hi := lo + n
	if hi <= dim {
		return []span{{lo, hi}}
	}
	return []span{{lo, dim}, {0, hi - dim}}
}

// SubSelectionsOf splits the selection into one to four rectangles lying
// inside f, following its wrap rules. Zero-area rectangles can be produced;
// filter them with IsEmpty.
func (s Selection) SubSelectionsOf(f *HeightField) iter.Seq[Selection] {
	return func(yield func(Selection) bool) {
		xs := axisSpans(s.Left, s.Width, f.W, f.opts.WrapX)
		ys := axisSpans(s.Top, s.Height, f.H, f.opts.WrapY)
		for _, sy := range ys {
			for _, sx := range xs {
				sub := Selection{Left: sx.lo, Top: sy.lo, Width: sx.hi - sx.lo, Height: sy.hi - sy.lo}
				if !yield(sub) {
					return
				}
			}
		}
	}
}
