package script

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingFunction is returned when no callable is registered under a name.
var ErrMissingFunction = errors.New("script: function not found")

// Params carries numeric settings for a built-in callable.
type Params map[string]float64

// Get returns p[key], or def when the key is absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Factories build a configured callable from params.
type (
	SampleFactory   func(p Params) SampleFunc
	BlendFactory    func(p Params) BlendFunc
	GenerateFactory func(p Params) GenerateFunc
	ApplyFactory    func(p Params) ApplyFunc
)

var (
	samples   = map[string]SampleFactory{}
	blends    = map[string]BlendFactory{}
	generates = map[string]GenerateFactory{}
	applies   = map[string]ApplyFactory{}
)

// RegisterSample adds a sample callable under name.
func RegisterSample(name string, f SampleFactory) {
	if name == "" || f == nil {
		return
	}
	samples[name] = f
}

// RegisterBlend adds a blend callable under name.
func RegisterBlend(name string, f BlendFactory) {
	if name == "" || f == nil {
		return
	}
	blends[name] = f
}

// RegisterGenerate adds a generator callable under name.
func RegisterGenerate(name string, f GenerateFactory) {
	if name == "" || f == nil {
		return
	}
	generates[name] = f
}

// RegisterApply adds an effect callable under name.
func RegisterApply(name string, f ApplyFactory) {
	if name == "" || f == nil {
		return
	}
	applies[name] = f
}

// Sample resolves a registered sample callable.
func Sample(name string, p Params) (SampleFunc, error) {
	f, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("sample %q: %w", name, ErrMissingFunction)
	}
	return f(p), nil
}

// Blend resolves a registered blend callable.
func Blend(name string, p Params) (BlendFunc, error) {
	f, ok := blends[name]
	if !ok {
		return nil, fmt.Errorf("blend %q: %w", name, ErrMissingFunction)
	}
	return f(p), nil
}

// Generate resolves a registered generator callable.
func Generate(name string, p Params) (GenerateFunc, error) {
	f, ok := generates[name]
	if !ok {
		return nil, fmt.Errorf("generate %q: %w", name, ErrMissingFunction)
	}
	return f(p), nil
}

// Apply resolves a registered effect callable.
func Apply(name string, p Params) (ApplyFunc, error) {
	f, ok := applies[name]
	if !ok {
		return nil, fmt.Errorf("apply %q: %w", name, ErrMissingFunction)
	}
	return f(p), nil
}

// Names lists the registered callables of each family, sorted.
func Names() (sample, blend, generate, apply []string) {
	return sortedKeys(samples), sortedKeys(blends), sortedKeys(generates), sortedKeys(applies)
}

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
