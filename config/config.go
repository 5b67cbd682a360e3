// Package config provides configuration loading and access for the editor.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all editor configuration.
type Config struct {
	Window        WindowConfig        `yaml:"window"`
	Journal       JournalConfig       `yaml:"journal"`
	BrushDefaults BrushDefaultsConfig `yaml:"brush_defaults"`
	Renders       []RenderConfig      `yaml:"renders"`
	Gradients     []GradientConfig    `yaml:"gradients"`
	Brushes       []BrushConfig       `yaml:"brushes"`
	Effects       []EffectConfig      `yaml:"effects"`
	Generators    []GeneratorConfig   `yaml:"generators"`
	Selection     SelectionConfig     `yaml:"selection"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// JournalConfig holds undo/redo settings.
type JournalConfig struct {
	Capacity int `yaml:"capacity"` // Actions kept per journal
}

// BrushDefaultsConfig fills brush fields left at zero.
type BrushDefaultsConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Power     float64 `yaml:"power"`
	Precision int     `yaml:"precision"`
}

// RenderConfig describes a render target created at startup.
type RenderConfig struct {
	Name   string  `yaml:"name"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	WrapX  bool    `yaml:"wrap_x"`
	WrapY  bool    `yaml:"wrap_y"`
	Clamp  bool    `yaml:"clamp"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// GradientConfig describes a height→colour gradient.
type GradientConfig struct {
	Name  string       `yaml:"name"`
	Mode  string       `yaml:"mode"` // linear or hsluv
	Stops []StopConfig `yaml:"stops"`
}

// StopConfig is one gradient stop.
type StopConfig struct {
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"` // #rrggbb or #rrggbbaa
}

// BrushConfig binds built-in sample and blend callables into a brush.
// Zero sizes, power and precision take brush_defaults.
type BrushConfig struct {
	Name         string             `yaml:"name"`
	Width        int                `yaml:"width"`
	Height       int                `yaml:"height"`
	Power        float64            `yaml:"power"`
	Precision    int                `yaml:"precision"`
	Sample       string             `yaml:"sample"`
	SampleParams map[string]float64 `yaml:"sample_params"`
	Blend        string             `yaml:"blend"`
	BlendParams  map[string]float64 `yaml:"blend_params"`
}

// EffectConfig binds a built-in effect callable.
type EffectConfig struct {
	Name   string             `yaml:"name"`
	Kind   string             `yaml:"kind"`
	Params map[string]float64 `yaml:"params"`
}

// GeneratorConfig binds a built-in generator callable.
type GeneratorConfig struct {
	Name      string             `yaml:"name"`
	Kind      string             `yaml:"kind"`
	Normalize bool               `yaml:"normalize"`
	Params    map[string]float64 `yaml:"params"` // seed, scale, octaves, lacunarity, gain, amplitude, offset
}

// SelectionConfig holds the initial selections.
type SelectionConfig struct {
	Render       string   `yaml:"render"`
	Gradient     string   `yaml:"gradient"`
	Effects      []string `yaml:"effects"`
	LeftBrush    string   `yaml:"left_brush"`
	RightBrush   string   `yaml:"right_brush"`
	PaintEffects bool     `yaml:"paint_effects"`
}

// TelemetryConfig holds perf and output settings.
type TelemetryConfig struct {
	PerfWindow int    `yaml:"perf_window"` // Ticks per perf stats window
	OutputDir  string `yaml:"output_dir"`  // Empty disables CSV output
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	WindowW32 float32
	WindowH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Lists in the user file replace the default lists wholesale
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WindowW32 = float32(c.Window.Width)
	c.Derived.WindowH32 = float32(c.Window.Height)

	if c.Journal.Capacity < 0 {
		c.Journal.Capacity = 0
	}
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = 120
	}

	d := c.BrushDefaults
	for i := range c.Brushes {
		b := &c.Brushes[i]
		if b.Width == 0 {
			b.Width = d.Width
		}
		if b.Height == 0 {
			b.Height = d.Height
		}
		if b.Power == 0 {
			b.Power = d.Power
		}
		if b.Precision == 0 {
			b.Precision = d.Precision
		}
	}

	for i := range c.Renders {
		r := &c.Renders[i]
		if r.Width <= 0 {
			r.Width = c.Window.Width
		}
		if r.Height <= 0 {
			r.Height = c.Window.Height
		}
	}

	for i := range c.Gradients {
		if c.Gradients[i].Mode == "" {
			c.Gradients[i].Mode = "linear"
		}
	}
}

// validate rejects duplicate names and selections naming missing items.
func (c *Config) validate() error {
	sections := []struct {
		what  string
		names []string
	}{
		{"render", names(c.Renders, func(r RenderConfig) string { return r.Name })},
		{"gradient", names(c.Gradients, func(g GradientConfig) string { return g.Name })},
		{"brush", names(c.Brushes, func(b BrushConfig) string { return b.Name })},
		{"effect", names(c.Effects, func(e EffectConfig) string { return e.Name })},
		{"generator", names(c.Generators, func(g GeneratorConfig) string { return g.Name })},
	}
	known := make(map[string]map[string]bool, len(sections))
	for _, s := range sections {
		seen := make(map[string]bool, len(s.names))
		for _, n := range s.names {
			if n == "" {
				return fmt.Errorf("config: %s with empty name", s.what)
			}
			if seen[n] {
				return fmt.Errorf("config: duplicate %s %q", s.what, n)
			}
			seen[n] = true
		}
		known[s.what] = seen
	}

	refs := []struct{ what, name string }{
		{"render", c.Selection.Render},
		{"gradient", c.Selection.Gradient},
		{"brush", c.Selection.LeftBrush},
		{"brush", c.Selection.RightBrush},
	}
	for _, e := range c.Selection.Effects {
		refs = append(refs, struct{ what, name string }{"effect", e})
	}
	for _, r := range refs {
		if r.name != "" && !known[r.what][r.name] {
			return fmt.Errorf("config: selection names unknown %s %q", r.what, r.name)
		}
	}

	for _, r := range c.Renders {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("config: render %q has size %dx%d", r.Name, r.Width, r.Height)
		}
	}
	for _, g := range c.Gradients {
		if g.Mode != "linear" && g.Mode != "hsluv" {
			return fmt.Errorf("config: gradient %q has unknown mode %q", g.Name, g.Mode)
		}
	}
	return nil
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
