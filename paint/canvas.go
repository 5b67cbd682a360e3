// Package paint drives brush strokes over a render and keeps the undo/redo
// history for it.
package paint

import (
	"errors"
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/heightmap"
	"github.com/pthm-cable/fountain/journal"
)

// Point is a pointer position in render (image) coordinates.
type Point struct {
	X, Y float32
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float32 {
	dx, dy := float64(p.X-q.X), float64(p.Y-q.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// Hooks are optional observers of canvas activity. They run on the caller's
// goroutine while the canvas lock is held and must not call back into the
// canvas.
type Hooks struct {
	// Dirty receives each non-empty, in-field rectangle whose pixels changed.
	Dirty func(sel field.Selection)
	// Stamp receives every committed brush application.
	Stamp func(st brush.Stamp)
}

// Canvas owns one render target together with its undo and redo journals.
type Canvas struct {
	mu sync.Mutex

	render *heightmap.Render
	undo   *journal.Journal
	redo   *journal.Journal

	gradient     *heightmap.Gradient
	effects      []heightmap.Effect
	paintEffects bool

	hooks Hooks
}

// NewCanvas wraps r with journals of the given capacity.
func NewCanvas(r *heightmap.Render, capacity int) *Canvas {
	return &Canvas{
		render: r,
		undo:   journal.New(capacity),
		redo:   journal.New(capacity),
	}
}

// Render returns the render the canvas paints on.
func (c *Canvas) Render() *heightmap.Render { return c.render }

// SetHooks replaces the observers.
func (c *Canvas) SetHooks(h Hooks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = h
}

// SetLook sets the gradient and effect chain used for re-rendering.
func (c *Canvas) SetLook(g *heightmap.Gradient, effects []heightmap.Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gradient = g
	c.effects = slices.Clone(effects)
}

// SetPaintEffects toggles the effect chain for incremental updates made by
// strokes, undo and redo. Full re-renders always apply effects.
func (c *Canvas) SetPaintEffects(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paintEffects = on
}

// PaintEffects reports whether incremental updates apply the effect chain.
func (c *Canvas) PaintEffects() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paintEffects
}

// SetCapacity changes the capacity of both journals, trimming the oldest
// actions if needed.
func (c *Canvas) SetCapacity(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undo.SetCap(n)
	c.redo.SetCap(n)
}

// Capacity returns the per-journal action limit.
func (c *Canvas) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.undo.Cap()
}

// UndoLen returns the number of undoable actions.
func (c *Canvas) UndoLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.undo.Len()
}

// RedoLen returns the number of redoable actions.
func (c *Canvas) RedoLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redo.Len()
}

// ClearHistory empties both journals.
func (c *Canvas) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearHistory()
}

func (c *Canvas) clearHistory() {
	c.undo.Clear()
	c.redo.Clear()
}

// Stroke paints b along the segment from prev (the pointer position last
// tick) to cur. The segment is split into floor(length/precision)+1 equally
// spaced stamps, applied from the prev end towards cur and ending exactly on
// cur, so the journal holds them oldest first. Each committed stamp is
// journalled, clears the redo journal and is re-rendered at once.
//
// A brush fault stops the remaining stamps; stamps committed before it stay.
// A render fault does not: the stroke carries on and the first such fault is
// returned once every stamp is applied. committed is the number of stamps
// journalled.
func (c *Canvas) Stroke(prev, cur Point, b *brush.Brush) (committed int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	length := prev.Dist(cur)
	steps := int(math.Floor(float64(length)/float64(b.Step()))) + 1
	dx := (prev.X - cur.X) / float32(steps)
	dy := (prev.Y - cur.Y) / float32(steps)

	var renderErr error
	f := c.render.Field
	for i := steps - 1; i >= 0; i-- {
		x := cur.X + dx*float32(i)
		y := cur.Y + dy*float32(i)
		cx, cy := int(math.Floor(float64(x))), int(math.Floor(float64(y)))

		st, err := b.Paint(f, cx, cy, length)
		if err != nil {
			if renderErr != nil {
				err = errors.Join(err, renderErr)
			}
			return committed, err
		}
		c.undo.Push(journal.NewAction(st.Selection, st.Prior))
		c.redo.Clear()
		committed++
		if c.hooks.Stamp != nil {
			c.hooks.Stamp(st)
		}
		if err := c.refresh(st.Selection); err != nil && renderErr == nil {
			renderErr = err
		}
	}
	return committed, renderErr
}

// Undo reverts the most recent action and makes it redoable. It reports
// false when there is nothing to undo.
func (c *Canvas) Undo() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restore(c.undo, c.redo, true)
}

// Redo re-applies the most recently undone action. It reports false when
// there is nothing to redo.
func (c *Canvas) Redo() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restore(c.redo, c.undo, false)
}

// restore pops from src, writes its captured values back and pushes the
// values it overwrote onto dst.
//
// A footprint wider than a wrapping field visits some cells more than once.
// Undo walks the selection backwards, so the value captured at the first
// visit is written last; redo walks forwards, replaying the visits in paint
// order.
func (c *Canvas) restore(src, dst *journal.Journal, backwards bool) (bool, error) {
	a, err := src.Pop()
	if errors.Is(err, journal.ErrEmpty) {
		return false, nil
	}

	f := c.render.Field
	sel := a.Selection
	// Slots never in range keep the copied sentinel.
	inverse := slices.Clone(a.Data)
	for k := range sel.Area() {
		if backwards {
			k = sel.Area() - 1 - k
		}
		x, y := sel.Left+k%sel.Width, sel.Top+k/sel.Width
		cur, ok := f.TryGet(x, y)
		if !ok {
			continue
		}
		if err := f.Set(x, y, a.Data[k]); err != nil {
			continue
		}
		inverse[k] = cur
	}
	dst.Push(journal.NewAction(sel, inverse))
	return true, c.refresh(sel)
}

// refresh re-renders the in-field parts of sel and reports them as dirty.
func (c *Canvas) refresh(sel field.Selection) error {
	var effects []heightmap.Effect
	if c.paintEffects {
		effects = c.effects
	}
	for sub := range sel.SubSelectionsOf(c.render.Field) {
		if sub.IsEmpty() {
			continue
		}
		if err := c.render.UpdateArea(sub, c.gradient, effects); err != nil {
			return err
		}
		if c.hooks.Dirty != nil {
			c.hooks.Dirty(sub)
		}
	}
	return nil
}

// RefreshAll re-renders the whole field with the full effect chain.
func (c *Canvas) RefreshAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshAll()
}

func (c *Canvas) refreshAll() error {
	err := c.render.UpdateAll(c.gradient, c.effects)
	if c.hooks.Dirty != nil {
		c.hooks.Dirty(c.render.Bounds())
	}
	return err
}

// Exclusive runs a bulk mutation of the field. Both journals are cleared
// first and the whole render is refreshed afterwards, even when fn fails.
func (c *Canvas) Exclusive(fn func(f *field.HeightField) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearHistory()
	err := fn(c.render.Field)
	return errors.Join(err, c.refreshAll())
}

// Clear zeroes the field under the exclusive guard.
func (c *Canvas) Clear() error {
	return c.Exclusive(func(f *field.HeightField) error {
		f.Clear()
		return nil
	})
}
