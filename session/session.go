// Package session holds the open document: named renders, gradients,
// brushes, effects and generators, plus the current selections. Components
// receive the session explicitly and observe it through Subscribe.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/generator"
	"github.com/pthm-cable/fountain/heightmap"
	"github.com/pthm-cable/fountain/journal"
	"github.com/pthm-cable/fountain/paint"
)

var (
	// ErrInvalidName is returned for empty or blank names.
	ErrInvalidName = errors.New("session: invalid name")
	// ErrNameConflict is returned when creating an item whose name is taken.
	ErrNameConflict = errors.New("session: name already in use")
	// ErrNotFound is returned when a named item does not exist.
	ErrNotFound = errors.New("session: not found")
	// ErrNoRender is returned by render operations when nothing is selected.
	ErrNoRender = errors.New("session: no render selected")
)

// Hand selects which mouse button a brush is assigned to.
type Hand uint8

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Right {
		return "right"
	}
	return "left"
}

// Session is the document being edited.
type Session struct {
	capacity int

	renders    map[string]*paint.Canvas
	gradients  map[string]*heightmap.Gradient
	brushes    map[string]*brush.Brush
	effects    map[string]heightmap.Effect
	generators map[string]*generator.Generator

	selectedRender   string
	selectedGradient string
	selectedEffects  []string
	hands            [2]string
	paintEffects     bool
	hooks            paint.Hooks

	observers    []observer
	nextObserver int
}

// New creates an empty session whose renders keep capacity undo steps.
func New(capacity int) *Session {
	if capacity < 0 {
		capacity = journal.DefaultCapacity
	}
	return &Session{
		capacity:   capacity,
		renders:    make(map[string]*paint.Canvas),
		gradients:  make(map[string]*heightmap.Gradient),
		brushes:    make(map[string]*brush.Brush),
		effects:    make(map[string]heightmap.Effect),
		generators: make(map[string]*generator.Generator),
	}
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

func sortedNames[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// --- renders ---

// CreateRender adds a new render under name.
func (s *Session) CreateRender(name string, r *heightmap.Render) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := s.renders[name]; ok {
		return fmt.Errorf("render %q: %w", name, ErrNameConflict)
	}
	return s.SetRender(name, r)
}

// SetRender adds or replaces the render under name.
func (s *Session) SetRender(name string, r *heightmap.Render) error {
	if err := validName(name); err != nil {
		return err
	}
	c := paint.NewCanvas(r, s.capacity)
	c.SetHooks(s.hooks)
	s.renders[name] = c
	s.emit(EventRenderSet, name)
	if name == s.selectedRender {
		s.applyLook(c)
		return c.RefreshAll()
	}
	return nil
}

// RemoveRender deletes a render, deselecting it if selected.
func (s *Session) RemoveRender(name string) bool {
	if _, ok := s.renders[name]; !ok {
		return false
	}
	delete(s.renders, name)
	s.emit(EventRenderRemoved, name)
	if name == s.selectedRender {
		s.selectedRender = ""
		s.emit(EventSelectedRenderChanged, "")
	}
	return true
}

// Render returns the canvas of a render by name.
func (s *Session) Render(name string) (*paint.Canvas, bool) {
	c, ok := s.renders[name]
	return c, ok
}

// Renders lists render names in order.
func (s *Session) Renders() []string { return sortedNames(s.renders) }

// SelectRender makes name the render being painted. Its journals are
// cleared and it is fully re-rendered with the current gradient and
// effects. An effect fault is returned after the selection has changed.
func (s *Session) SelectRender(name string) error {
	c, ok := s.renders[name]
	if !ok {
		return fmt.Errorf("render %q: %w", name, ErrNotFound)
	}
	s.selectedRender = name
	c.ClearHistory()
	s.applyLook(c)
	s.emit(EventSelectedRenderChanged, name)
	return c.RefreshAll()
}

// SelectedRender returns the selected canvas and its name.
func (s *Session) SelectedRender() (*paint.Canvas, string) {
	if s.selectedRender == "" {
		return nil, ""
	}
	return s.renders[s.selectedRender], s.selectedRender
}

// SetHooks installs canvas observers on every current and future render.
func (s *Session) SetHooks(h paint.Hooks) {
	s.hooks = h
	for _, c := range s.renders {
		c.SetHooks(h)
	}
}

// SetCapacity changes the undo capacity of every render.
func (s *Session) SetCapacity(n int) {
	s.capacity = max(n, 0)
	for _, c := range s.renders {
		c.SetCapacity(s.capacity)
	}
}

// --- gradients ---

// CreateGradient adds a new gradient under name.
func (s *Session) CreateGradient(name string, g *heightmap.Gradient) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := s.gradients[name]; ok {
		return fmt.Errorf("gradient %q: %w", name, ErrNameConflict)
	}
	return s.SetGradient(name, g)
}

// SetGradient adds or replaces the gradient under name. Replacing the
// selected gradient re-renders the selected render.
func (s *Session) SetGradient(name string, g *heightmap.Gradient) error {
	if err := validName(name); err != nil {
		return err
	}
	s.gradients[name] = g
	s.emit(EventGradientSet, name)
	if name == s.selectedGradient {
		return s.lookChanged()
	}
	return nil
}

// RemoveGradient deletes a gradient, deselecting it if selected.
func (s *Session) RemoveGradient(name string) bool {
	if _, ok := s.gradients[name]; !ok {
		return false
	}
	delete(s.gradients, name)
	s.emit(EventGradientRemoved, name)
	if name == s.selectedGradient {
		s.selectedGradient = ""
		s.emit(EventSelectedGradientChanged, "")
		s.logFault(s.lookChanged())
	}
	return true
}

// Gradient returns a gradient by name.
func (s *Session) Gradient(name string) (*heightmap.Gradient, bool) {
	g, ok := s.gradients[name]
	return g, ok
}

// Gradients lists gradient names in order.
func (s *Session) Gradients() []string { return sortedNames(s.gradients) }

// SelectGradient sets the gradient used to colour renders and re-renders
// the selected render.
func (s *Session) SelectGradient(name string) error {
	if _, ok := s.gradients[name]; !ok {
		return fmt.Errorf("gradient %q: %w", name, ErrNotFound)
	}
	s.selectedGradient = name
	s.emit(EventSelectedGradientChanged, name)
	return s.lookChanged()
}

// SelectedGradient returns the selected gradient, or nil.
func (s *Session) SelectedGradient() *heightmap.Gradient {
	return s.gradients[s.selectedGradient]
}

// --- brushes ---

// CreateBrush adds a new brush under its own name.
func (s *Session) CreateBrush(b *brush.Brush) error {
	if err := validName(b.Name); err != nil {
		return err
	}
	if _, ok := s.brushes[b.Name]; ok {
		return fmt.Errorf("brush %q: %w", b.Name, ErrNameConflict)
	}
	return s.SetBrush(b)
}

// SetBrush adds or replaces a brush.
func (s *Session) SetBrush(b *brush.Brush) error {
	if err := validName(b.Name); err != nil {
		return err
	}
	s.brushes[b.Name] = b
	s.emit(EventBrushSet, b.Name)
	return nil
}

// RemoveBrush deletes a brush and unassigns it from either hand.
func (s *Session) RemoveBrush(name string) bool {
	if _, ok := s.brushes[name]; !ok {
		return false
	}
	delete(s.brushes, name)
	s.emit(EventBrushRemoved, name)
	for h := range s.hands {
		if s.hands[h] == name {
			s.hands[h] = ""
		}
	}
	return true
}

// Brush returns a brush by name.
func (s *Session) Brush(name string) (*brush.Brush, bool) {
	b, ok := s.brushes[name]
	return b, ok
}

// Brushes lists brush names in order.
func (s *Session) Brushes() []string { return sortedNames(s.brushes) }

// AssignBrush binds a brush to a mouse button.
func (s *Session) AssignBrush(h Hand, name string) error {
	if _, ok := s.brushes[name]; !ok {
		return fmt.Errorf("brush %q: %w", name, ErrNotFound)
	}
	s.hands[h] = name
	s.emit(EventBrushAssigned, name)
	return nil
}

// HandBrush returns the brush bound to a mouse button, or nil.
func (s *Session) HandBrush(h Hand) *brush.Brush {
	return s.brushes[s.hands[h]]
}

// LeftBrush returns the brush painted with the left button.
func (s *Session) LeftBrush() *brush.Brush { return s.HandBrush(Left) }

// RightBrush returns the brush painted with the right button.
func (s *Session) RightBrush() *brush.Brush { return s.HandBrush(Right) }

// --- effects ---

// CreateEffect adds a new effect under its own name.
func (s *Session) CreateEffect(e heightmap.Effect) error {
	if err := validName(e.Name); err != nil {
		return err
	}
	if _, ok := s.effects[e.Name]; ok {
		return fmt.Errorf("effect %q: %w", e.Name, ErrNameConflict)
	}
	return s.SetEffect(e)
}

// SetEffect adds or replaces an effect.
func (s *Session) SetEffect(e heightmap.Effect) error {
	if err := validName(e.Name); err != nil {
		return err
	}
	s.effects[e.Name] = e
	s.emit(EventEffectSet, e.Name)
	if slices.Contains(s.selectedEffects, e.Name) {
		return s.lookChanged()
	}
	return nil
}

// RemoveEffect deletes an effect, deselecting it first if selected.
func (s *Session) RemoveEffect(name string) bool {
	if _, ok := s.effects[name]; !ok {
		return false
	}
	if slices.Contains(s.selectedEffects, name) {
		s.logFault(s.DeselectEffect(name))
	}
	delete(s.effects, name)
	s.emit(EventEffectRemoved, name)
	return true
}

// Effects lists effect names in order.
func (s *Session) Effects() []string { return sortedNames(s.effects) }

// SelectEffect appends an effect to the active chain and re-renders.
// Selecting an already active effect does nothing.
func (s *Session) SelectEffect(name string) error {
	if _, ok := s.effects[name]; !ok {
		return fmt.Errorf("effect %q: %w", name, ErrNotFound)
	}
	if slices.Contains(s.selectedEffects, name) {
		return nil
	}
	s.selectedEffects = append(s.selectedEffects, name)
	s.emit(EventEffectSelected, name)
	return s.lookChanged()
}

// DeselectEffect removes an effect from the active chain and re-renders.
func (s *Session) DeselectEffect(name string) error {
	i := slices.Index(s.selectedEffects, name)
	if i < 0 {
		return nil
	}
	s.selectedEffects = slices.Delete(s.selectedEffects, i, i+1)
	s.emit(EventEffectDeselected, name)
	return s.lookChanged()
}

// SelectedEffects returns the active effect chain in application order.
func (s *Session) SelectedEffects() []heightmap.Effect {
	out := make([]heightmap.Effect, 0, len(s.selectedEffects))
	for _, name := range s.selectedEffects {
		out = append(out, s.effects[name])
	}
	return out
}

// SetPaintEffects toggles the effect chain for incremental updates.
func (s *Session) SetPaintEffects(on bool) {
	s.paintEffects = on
	if c, _ := s.SelectedRender(); c != nil {
		c.SetPaintEffects(on)
	}
}

// PaintEffects reports whether strokes render with effects.
func (s *Session) PaintEffects() bool { return s.paintEffects }

// --- generators ---

// CreateGenerator adds a new generator under its own name.
func (s *Session) CreateGenerator(g *generator.Generator) error {
	if err := validName(g.Name); err != nil {
		return err
	}
	if _, ok := s.generators[g.Name]; ok {
		return fmt.Errorf("generator %q: %w", g.Name, ErrNameConflict)
	}
	return s.SetGenerator(g)
}

// SetGenerator adds or replaces a generator.
func (s *Session) SetGenerator(g *generator.Generator) error {
	if err := validName(g.Name); err != nil {
		return err
	}
	s.generators[g.Name] = g
	s.emit(EventGeneratorSet, g.Name)
	return nil
}

// RemoveGenerator deletes a generator.
func (s *Session) RemoveGenerator(name string) bool {
	if _, ok := s.generators[name]; !ok {
		return false
	}
	delete(s.generators, name)
	s.emit(EventGeneratorRemoved, name)
	return true
}

// Generator returns a generator by name.
func (s *Session) Generator(name string) (*generator.Generator, bool) {
	g, ok := s.generators[name]
	return g, ok
}

// Generators lists generator names in order.
func (s *Session) Generators() []string { return sortedNames(s.generators) }

// --- render operations ---

// RunGenerator replaces the selected render's heights with the named
// generator's output. History is discarded. A generator fault aborts the
// run; the partially written field is still re-rendered.
func (s *Session) RunGenerator(name string) error {
	g, ok := s.generators[name]
	if !ok {
		return fmt.Errorf("generator %q: %w", name, ErrNotFound)
	}
	c, rname := s.SelectedRender()
	if c == nil {
		return ErrNoRender
	}
	slog.Info("running generator", "generator", name, "render", rname)
	return c.Exclusive(g.Run)
}

// ClearRender zeroes the selected render and discards its history.
func (s *Session) ClearRender() error {
	c, name := s.SelectedRender()
	if c == nil {
		return ErrNoRender
	}
	err := c.Clear()
	s.emit(EventRenderSet, name)
	return err
}

// UpdateRender fully re-renders the selected render with the selected
// gradient and effect chain.
func (s *Session) UpdateRender() error {
	c, _ := s.SelectedRender()
	if c == nil {
		return nil
	}
	return c.RefreshAll()
}

// Clear empties the session.
func (s *Session) Clear() {
	clear(s.renders)
	clear(s.gradients)
	clear(s.brushes)
	clear(s.effects)
	clear(s.generators)
	s.selectedRender = ""
	s.selectedGradient = ""
	s.selectedEffects = nil
	s.hands = [2]string{}
	s.emit(EventCleared, "")
}

func (s *Session) applyLook(c *paint.Canvas) {
	c.SetLook(s.SelectedGradient(), s.SelectedEffects())
	c.SetPaintEffects(s.paintEffects)
}

// lookChanged pushes the gradient and effect chain to the selected render
// and re-renders it.
func (s *Session) lookChanged() error {
	c, _ := s.SelectedRender()
	if c == nil {
		return nil
	}
	s.applyLook(c)
	return c.RefreshAll()
}

func (s *Session) logFault(err error) {
	if err != nil {
		slog.Warn("render update failed", "error", err)
	}
}
