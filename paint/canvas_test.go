package paint

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/heightmap"
	"github.com/pthm-cable/fountain/journal"
	"github.com/pthm-cable/fountain/script"
)

// addBrush returns a brush that adds the falloff intensity to the field.
func addBrush(w, h, precision int) *brush.Brush {
	b := brush.New("add", w, h, 1, precision)
	b.Sample = func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
		return intensity, nil
	}
	b.Blend = func(base, v float32) (float32, error) {
		return base + v, nil
	}
	return b
}

func snapshot(f *field.HeightField) []uint32 {
	out := make([]uint32, len(f.Cells()))
	for i, v := range f.Cells() {
		out[i] = math.Float32bits(v)
	}
	return out
}

func TestStampAndUndoScenario(t *testing.T) {
	c := NewCanvas(heightmap.New(10, 10, field.Options{}), journal.DefaultCapacity)
	b := brush.New("one", 3, 3, 1, 1)
	b.Sample = func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
		return 1, nil
	}
	b.Blend = func(base, v float32) (float32, error) { return base + v, nil }

	n, err := c.Stroke(Point{5, 5}, Point{5, 5}, b)
	if err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 application, got %d", n)
	}

	f := c.Render().Field
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := float32(0)
			if x >= 4 && x <= 6 && y >= 4 && y <= 6 {
				want = 1
			}
			if got, _ := f.Get(x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	ok, err := c.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	for i, v := range f.Cells() {
		if v != 0 {
			t.Fatalf("cell %d = %v after undo, want 0", i, v)
		}
	}
	if c.UndoLen() != 0 || c.RedoLen() != 1 {
		t.Errorf("journals = %d/%d, want 0/1", c.UndoLen(), c.RedoLen())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts field.Options
	}{
		{"non-wrapping", field.Options{}},
		{"wrapping", field.Options{WrapX: true, WrapY: true}},
		{"wrap x only", field.Options{WrapX: true}},
		{"clamped", field.Options{Clamp: true, Min: 0, Max: 1.5}},
	}

	strokes := [][2]Point{
		{{3, 3}, {0, 0}},
		{{15.5, 2}, {9, 14}},
		{{1, 15}, {1, 15}},
		{{-2, 8}, {18, 8}},
		{{8, 8}, {7.2, 7.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(heightmap.New(16, 16, tt.opts), journal.DefaultCapacity)
			f := c.Render().Field
			for i := range f.Cells() {
				f.Cells()[i] = float32(i%7) * 0.125
			}
			before := snapshot(f)

			b := addBrush(5, 5, 2)
			total := 0
			for _, s := range strokes {
				n, err := c.Stroke(s[0], s[1], b)
				if err != nil {
					t.Fatalf("Stroke: %v", err)
				}
				total += n
			}
			after := snapshot(f)
			if slices.Equal(before, after) {
				t.Fatal("strokes did not change the field")
			}
			if c.UndoLen() != total {
				t.Fatalf("UndoLen = %d, want %d", c.UndoLen(), total)
			}

			for i := 0; i < total; i++ {
				if ok, err := c.Undo(); !ok || err != nil {
					t.Fatalf("Undo %d = %v, %v", i, ok, err)
				}
			}
			if !slices.Equal(before, snapshot(f)) {
				t.Error("undo did not restore the pre-stroke field bit for bit")
			}

			for i := 0; i < total; i++ {
				if ok, err := c.Redo(); !ok || err != nil {
					t.Fatalf("Redo %d = %v, %v", i, ok, err)
				}
			}
			if !slices.Equal(after, snapshot(f)) {
				t.Error("redo did not restore the post-stroke field bit for bit")
			}
		})
	}
}

func TestStrokeSubdivisionCount(t *testing.T) {
	tests := []struct {
		name      string
		p0, p1    Point
		precision int
		want      int
	}{
		{"zero length", Point{4, 4}, Point{4, 4}, 8, 1},
		{"shorter than step", Point{7.9, 0}, Point{0, 0}, 8, 1},
		{"exactly one step", Point{8, 0}, Point{0, 0}, 8, 2},
		{"long diagonal", Point{60, 80}, Point{0, 0}, 3, 34},
		{"precision below one", Point{5, 0}, Point{0, 0}, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(heightmap.New(128, 128, field.Options{}), journal.DefaultCapacity)
			n, err := c.Stroke(tt.p0, tt.p1, addBrush(1, 1, tt.precision))
			if err != nil {
				t.Fatalf("Stroke: %v", err)
			}
			if n != tt.want {
				t.Errorf("applications = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestStrokeCentresAreEquallySpaced(t *testing.T) {
	c := NewCanvas(heightmap.New(64, 64, field.Options{}), journal.DefaultCapacity)
	var centres []int
	c.SetHooks(Hooks{Stamp: func(st brush.Stamp) {
		centres = append(centres, st.Selection.Left+st.Selection.Width/2)
	}})

	// Length 20 at precision 5: five stamps, 4 cells apart, oldest first and
	// ending on the current position.
	if _, err := c.Stroke(Point{10, 10}, Point{30, 10}, addBrush(3, 3, 5)); err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	want := []int{14, 18, 22, 26, 30}
	if !slices.Equal(centres, want) {
		t.Errorf("centres = %v, want %v", centres, want)
	}
}

func TestUndoRemovesNewestStampFirst(t *testing.T) {
	c := NewCanvas(heightmap.New(64, 64, field.Options{}), journal.DefaultCapacity)
	if _, err := c.Stroke(Point{10, 10}, Point{30, 10}, addBrush(3, 3, 5)); err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	f := c.Render().Field
	if v, _ := f.Get(30, 10); v <= 0 {
		t.Fatalf("current position not painted: %v", v)
	}

	if ok, err := c.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if v, _ := f.Get(30, 10); v != 0 {
		t.Errorf("(30,10) = %v after one undo, want 0", v)
	}
	if v, _ := f.Get(26, 10); v <= 0 {
		t.Errorf("(26,10) = %v after one undo, want still painted", v)
	}
	if v, _ := f.Get(14, 10); v <= 0 {
		t.Errorf("(14,10) = %v after one undo, want still painted", v)
	}
}

func TestRenderFaultDoesNotStopStroke(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	effects := []heightmap.Effect{{Name: "flaky", Apply: func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error) {
		calls++
		return c, boom
	}}}

	c := NewCanvas(heightmap.New(32, 32, field.Options{}), journal.DefaultCapacity)
	c.SetLook(heightmap.Grayscale(0, 1), effects)
	c.SetPaintEffects(true)

	n, err := c.Stroke(Point{0, 4}, Point{8, 4}, addBrush(1, 1, 4))
	if n != 3 {
		t.Errorf("committed = %d, want 3", n)
	}
	if c.UndoLen() != 3 {
		t.Errorf("UndoLen = %d, want 3", c.UndoLen())
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if kind, ok := script.IsFault(err); !ok || kind != script.KindEffect {
		t.Errorf("fault kind = %v, %v; want effect script", kind, ok)
	}
	if calls != 3 {
		t.Errorf("effect ran %d times, want once per stamp", calls)
	}
	if v, _ := c.Render().Field.Get(8, 4); v != 1 {
		t.Errorf("(8,4) = %v, want the final stamp applied", v)
	}
}

func TestFaultStopsRemainingSteps(t *testing.T) {
	c := NewCanvas(heightmap.New(32, 32, field.Options{}), journal.DefaultCapacity)
	boom := errors.New("boom")
	calls := 0
	b := addBrush(1, 1, 1)
	b.Name = "flaky"
	b.Sample = func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return 1, nil
	}

	n, err := c.Stroke(Point{4, 0}, Point{0, 0}, b)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if kind, ok := script.IsFault(err); !ok || kind != script.KindBrush {
		t.Errorf("fault kind = %v, %v; want brush script", kind, ok)
	}
	if n != 2 {
		t.Errorf("committed = %d, want 2", n)
	}
	if calls != 3 {
		t.Errorf("sample called %d times after fault, want 3", calls)
	}
	if c.UndoLen() != 2 {
		t.Errorf("UndoLen = %d, want 2", c.UndoLen())
	}
}

func TestNewStrokeClearsRedo(t *testing.T) {
	c := NewCanvas(heightmap.New(16, 16, field.Options{}), journal.DefaultCapacity)
	b := addBrush(3, 3, 4)

	if _, err := c.Stroke(Point{8, 8}, Point{0, 8}, b); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Undo(); err != nil {
		t.Fatal(err)
	}
	if c.RedoLen() != 1 {
		t.Fatalf("RedoLen = %d, want 1", c.RedoLen())
	}
	if _, err := c.Stroke(Point{2, 2}, Point{2, 2}, b); err != nil {
		t.Fatal(err)
	}
	if c.RedoLen() != 0 {
		t.Errorf("RedoLen = %d after new stroke, want 0", c.RedoLen())
	}
}

func TestUndoRedoOnEmptyJournalIsNoop(t *testing.T) {
	c := NewCanvas(heightmap.New(4, 4, field.Options{}), journal.DefaultCapacity)
	c.Render().Field.Cells()[5] = 2
	before := snapshot(c.Render().Field)

	if ok, err := c.Undo(); ok || err != nil {
		t.Errorf("Undo on empty = %v, %v", ok, err)
	}
	if ok, err := c.Redo(); ok || err != nil {
		t.Errorf("Redo on empty = %v, %v", ok, err)
	}
	if !slices.Equal(before, snapshot(c.Render().Field)) {
		t.Error("empty undo/redo modified the field")
	}
}

func TestDirtyRectsFollowWrapping(t *testing.T) {
	c := NewCanvas(heightmap.New(8, 8, field.Options{WrapX: true, WrapY: true}), journal.DefaultCapacity)
	var dirty []field.Selection
	c.SetHooks(Hooks{Dirty: func(sel field.Selection) { dirty = append(dirty, sel) }})

	if _, err := c.Stroke(Point{0, 0}, Point{0, 0}, addBrush(4, 4, 1)); err != nil {
		t.Fatal(err)
	}
	if len(dirty) != 4 {
		t.Fatalf("dirty rects = %v, want 4", dirty)
	}
	area := 0
	for _, d := range dirty {
		if d.IsEmpty() || d.Left < 0 || d.Top < 0 || d.Right() > 8 || d.Bottom() > 8 {
			t.Errorf("dirty rect %v outside field", d)
		}
		area += d.Area()
	}
	if area != 16 {
		t.Errorf("dirty area = %d, want 16", area)
	}
}

func TestDirtyRectsSkipOffFieldParts(t *testing.T) {
	c := NewCanvas(heightmap.New(8, 8, field.Options{}), journal.DefaultCapacity)
	var dirty []field.Selection
	c.SetHooks(Hooks{Dirty: func(sel field.Selection) { dirty = append(dirty, sel) }})

	if _, err := c.Stroke(Point{0, 0}, Point{0, 0}, addBrush(4, 4, 1)); err != nil {
		t.Fatal(err)
	}
	want := []field.Selection{{Left: 0, Top: 0, Width: 2, Height: 2}}
	if !slices.Equal(dirty, want) {
		t.Errorf("dirty = %v, want %v", dirty, want)
	}
}

func TestPaintEffectsToggle(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	effects := []heightmap.Effect{{Name: "red", Apply: func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error) {
		return red, nil
	}}}

	c := NewCanvas(heightmap.New(8, 8, field.Options{}), journal.DefaultCapacity)
	c.SetLook(heightmap.Grayscale(0, 1), effects)

	if _, err := c.Stroke(Point{2, 2}, Point{2, 2}, addBrush(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := c.Render().PixelAt(2, 2); got == red {
		t.Error("effects applied with paint effects off")
	}

	c.SetPaintEffects(true)
	if _, err := c.Stroke(Point{5, 5}, Point{5, 5}, addBrush(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := c.Render().PixelAt(5, 5); got != red {
		t.Errorf("pixel = %v with paint effects on, want %v", got, red)
	}
}

func TestExclusiveClearsHistoryAndRefreshes(t *testing.T) {
	c := NewCanvas(heightmap.New(8, 8, field.Options{}), journal.DefaultCapacity)
	var dirty []field.Selection
	c.SetHooks(Hooks{Dirty: func(sel field.Selection) { dirty = append(dirty, sel) }})

	if _, err := c.Stroke(Point{4, 4}, Point{0, 4}, addBrush(2, 2, 1)); err != nil {
		t.Fatal(err)
	}
	dirty = nil

	boom := errors.New("boom")
	err := c.Exclusive(func(f *field.HeightField) error {
		if err := f.Set(1, 1, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.UndoLen() != 0 || c.RedoLen() != 0 {
		t.Errorf("journals = %d/%d, want empty", c.UndoLen(), c.RedoLen())
	}
	if len(dirty) != 1 || dirty[0] != c.Render().Bounds() {
		t.Errorf("dirty = %v, want full bounds", dirty)
	}
	if got := c.Render().PixelAt(1, 1); got.R != 255 {
		t.Errorf("partial write not rendered: %v", got)
	}
}

func TestClear(t *testing.T) {
	c := NewCanvas(heightmap.New(4, 4, field.Options{}), journal.DefaultCapacity)
	if _, err := c.Stroke(Point{1, 1}, Point{1, 1}, addBrush(2, 2, 1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	for i, v := range c.Render().Field.Cells() {
		if v != 0 {
			t.Fatalf("cell %d = %v after clear", i, v)
		}
	}
	if c.UndoLen() != 0 {
		t.Errorf("UndoLen = %d after clear", c.UndoLen())
	}
}

func TestSetCapacityTrimsHistory(t *testing.T) {
	c := NewCanvas(heightmap.New(16, 16, field.Options{}), 4)
	if _, err := c.Stroke(Point{10, 0}, Point{0, 0}, addBrush(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if c.UndoLen() != 4 {
		t.Fatalf("UndoLen = %d, want capacity 4", c.UndoLen())
	}
	c.SetCapacity(2)
	if c.UndoLen() != 2 || c.Capacity() != 2 {
		t.Errorf("UndoLen = %d, Capacity = %d after SetCapacity(2)", c.UndoLen(), c.Capacity())
	}
}

func TestUndoFootprintWiderThanWrappingField(t *testing.T) {
	c := NewCanvas(heightmap.New(2, 2, field.Options{WrapX: true, WrapY: true}), journal.DefaultCapacity)
	b := brush.New("one", 3, 3, 1, 1)
	b.Sample = func(x, y int, intensity float32, left, right, top, bottom int) (float32, error) {
		return 1, nil
	}
	b.Blend = func(base, v float32) (float32, error) { return base + v, nil }

	f := c.Render().Field
	if _, err := c.Stroke(Point{1, 1}, Point{1, 1}, b); err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	after := snapshot(f)
	sum := float32(0)
	for _, v := range f.Cells() {
		sum += v
	}
	if sum != 9 {
		t.Fatalf("field sum = %v, want 9 after a 3x3 stamp", sum)
	}

	if ok, err := c.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	for i, v := range f.Cells() {
		if v != 0 {
			t.Errorf("cell %d = %v after undo, want 0", i, v)
		}
	}

	if ok, err := c.Redo(); !ok || err != nil {
		t.Fatalf("Redo = %v, %v", ok, err)
	}
	if !slices.Equal(after, snapshot(f)) {
		t.Error("redo did not reproduce the stamp")
	}
	if ok, _ := c.Undo(); !ok {
		t.Fatal("second undo failed")
	}
	for i, v := range f.Cells() {
		if v != 0 {
			t.Errorf("cell %d = %v after second undo, want 0", i, v)
		}
	}
}
