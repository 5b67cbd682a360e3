// Package script is the boundary with user-supplied scripts. Brushes,
// generators and effects consume scripts only as the callables declared here;
// failures cross the boundary as *Error values, never as panics.
package script

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/pthm-cable/fountain/field"
)

// Kind names the script family that failed.
type Kind string

const (
	KindBrush     Kind = "brush script"
	KindGenerator Kind = "generator script"
	KindEffect    Kind = "effect script"
)

// SampleFunc returns a brush contribution for cell (x, y) given the falloff
// intensity and the footprint bounds.
type SampleFunc func(x, y int, intensity float32, left, right, top, bottom int) (float32, error)

// BlendFunc combines the existing height with a brush contribution.
type BlendFunc func(base, value float32) (float32, error)

// GenerateFunc produces the height for cell (x, y) of f.
type GenerateFunc func(x, y int, f *field.HeightField) (float32, error)

// ApplyFunc transforms the displayed colour of cell (x, y).
type ApplyFunc func(x, y int, c color.RGBA, f *field.HeightField) (color.RGBA, error)

// Error reports a runtime fault raised by a script.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("runtime error in %s %q: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("runtime error in %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fault wraps err as a script error of the given kind. It returns nil for a
// nil err and leaves an existing *Error untouched.
func Fault(kind Kind, name string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: kind, Name: name, Err: err}
}

// Recovered converts a recovered panic value into a script error.
func Recovered(kind Kind, name string, r any) error {
	if err, ok := r.(error); ok {
		return &Error{Kind: kind, Name: name, Err: err}
	}
	return &Error{Kind: kind, Name: name, Err: fmt.Errorf("%v", r)}
}

// IsFault reports whether err is a script fault, returning its kind.
func IsFault(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
