// Package journal stores reversible paint actions in bounded undo/redo stacks.
package journal

import (
	"errors"

	"github.com/pthm-cable/fountain/field"
)

// DefaultCapacity is the number of actions kept per journal.
const DefaultCapacity = 2048

// ErrEmpty is returned by Pop when the journal holds no actions.
var ErrEmpty = errors.New("journal: empty")

// Action pairs a selection with one value per footprint cell (row-major).
// Depending on the journal holding it, Data is the pre-edit state (undo) or
// the state to restore (redo).
type Action struct {
	Selection field.Selection
	Data      []float32
}

// NewAction builds an action. Data is kept by reference.
func NewAction(sel field.Selection, data []float32) Action {
	return Action{Selection: sel, Data: data}
}

// Journal is a bounded LIFO of actions. Pushing past capacity evicts the
// oldest entry. Backed by a ring buffer.
type Journal struct {
	buf   []Action
	head  int // index of the oldest entry
	count int
	cap   int
}

// New creates a journal holding at most capacity actions.
func New(capacity int) *Journal {
	if capacity < 0 {
		capacity = 0
	}
	return &Journal{cap: capacity}
}

// Len returns the number of stored actions.
func (j *Journal) Len() int { return j.count }

// Cap returns the maximum number of stored actions.
func (j *Journal) Cap() int { return j.cap }

// SetCap changes the capacity, immediately evicting the oldest actions when
// it shrinks below Len.
func (j *Journal) SetCap(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	j.cap = capacity
	j.trim()
}

// Push appends a to the tail and then evicts from the head while over capacity.
func (j *Journal) Push(a Action) {
	if j.count == len(j.buf) {
		j.grow()
	}
	j.buf[(j.head+j.count)%len(j.buf)] = a
	j.count++
	j.trim()
}

// Pop removes and returns the most recently pushed action.
func (j *Journal) Pop() (Action, error) {
	if j.count == 0 {
		return Action{}, ErrEmpty
	}
	i := (j.head + j.count - 1) % len(j.buf)
	a := j.buf[i]
	j.buf[i] = Action{}
	j.count--
	return a, nil
}

// Peek returns the most recently pushed action without removing it.
func (j *Journal) Peek() (Action, bool) {
	if j.count == 0 {
		return Action{}, false
	}
	return j.buf[(j.head+j.count-1)%len(j.buf)], true
}

// Clear drops every action.
func (j *Journal) Clear() {
	clear(j.buf)
	j.head = 0
	j.count = 0
}

// trim evicts from the head until count <= cap.
func (j *Journal) trim() {
	for j.count > j.cap {
		j.buf[j.head] = Action{}
		j.head = (j.head + 1) % len(j.buf)
		j.count--
	}
	if j.count == 0 {
		j.head = 0
	}
}

// grow doubles the ring, unrolling it so the oldest entry is at index 0.
func (j *Journal) grow() {
	n := len(j.buf) * 2
	if n == 0 {
		n = 16
	}
	buf := make([]Action, n)
	for i := 0; i < j.count; i++ {
		buf[i] = j.buf[(j.head+i)%len(j.buf)]
	}
	j.buf = buf
	j.head = 0
}
