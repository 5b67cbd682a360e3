package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Pointer buttons recorded in a replay file.
const (
	ButtonNone   = "none"
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// ReplayEvent is one row of a replay CSV: the input state held during a
// tick. Rows are applied in file order; Tick is informational.
type ReplayEvent struct {
	Tick      int32   `csv:"tick"`
	X         float32 `csv:"x"`
	Y         float32 `csv:"y"`
	Button    string  `csv:"button"`
	Undo      bool    `csv:"undo"`
	Redo      bool    `csv:"redo"`
	Generator string  `csv:"generator,omitempty"`
}

// Input converts the event to controller input.
func (e ReplayEvent) Input() Input {
	btn := strings.ToLower(strings.TrimSpace(e.Button))
	return Input{
		X:         e.X,
		Y:         e.Y,
		Left:      btn == ButtonLeft,
		Right:     btn == ButtonRight,
		Middle:    btn == ButtonMiddle,
		Undo:      e.Undo,
		Redo:      e.Redo,
		Generator: e.Generator,
	}
}

// LoadReplay reads a replay CSV file.
func LoadReplay(path string) ([]ReplayEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading replay: %w", err)
	}
	var events []ReplayEvent
	if err := gocsv.UnmarshalBytes(data, &events); err != nil {
		return nil, fmt.Errorf("parsing replay %s: %w", path, err)
	}
	for i, e := range events {
		switch strings.ToLower(strings.TrimSpace(e.Button)) {
		case "", ButtonNone, ButtonLeft, ButtonRight, ButtonMiddle:
		default:
			return nil, fmt.Errorf("replay row %d: unknown button %q", i+1, e.Button)
		}
	}
	return events, nil
}

// RunReplay feeds events to the controller, one per tick, stopping early when
// ctx is cancelled or maxTicks (if positive) steps have run. A row naming a
// generator runs it before the row's pointer input is handled. Returns the
// number of steps taken.
func RunReplay(ctx context.Context, c *Controller, events []ReplayEvent, maxTicks int) (int, error) {
	n := 0
	for _, e := range events {
		if maxTicks > 0 && n >= maxTicks {
			break
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		c.Step(e.Input())
		n++
	}
	return n, nil
}
