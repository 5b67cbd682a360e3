package app

import (
	"fmt"

	"github.com/pthm-cable/fountain/brush"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/generator"
	"github.com/pthm-cable/fountain/heightmap"
	"github.com/pthm-cable/fountain/script"
	"github.com/pthm-cable/fountain/session"
)

// NewSession builds a session holding every render, gradient, brush, effect
// and generator named in cfg, then applies the initial selections.
func NewSession(cfg *config.Config) (*session.Session, error) {
	s := session.New(cfg.Journal.Capacity)

	for _, gc := range cfg.Gradients {
		g, err := newGradient(gc)
		if err != nil {
			return nil, err
		}
		if err := s.CreateGradient(gc.Name, g); err != nil {
			return nil, err
		}
	}

	for _, bc := range cfg.Brushes {
		b := brush.New(bc.Name, bc.Width, bc.Height, float32(bc.Power), bc.Precision)
		if err := b.Bind(bc.Sample, bc.SampleParams, bc.Blend, bc.BlendParams); err != nil {
			return nil, fmt.Errorf("brush %q: %w", bc.Name, err)
		}
		if err := s.CreateBrush(b); err != nil {
			return nil, err
		}
	}

	for _, ec := range cfg.Effects {
		e, err := heightmap.NewEffect(ec.Name, ec.Kind, ec.Params)
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", ec.Name, err)
		}
		if err := s.CreateEffect(e); err != nil {
			return nil, err
		}
	}

	for _, gc := range cfg.Generators {
		g, err := generator.New(gc.Name, gc.Kind, script.Params(gc.Params))
		if err != nil {
			return nil, fmt.Errorf("generator %q: %w", gc.Name, err)
		}
		g.Normalize = gc.Normalize
		if err := s.CreateGenerator(g); err != nil {
			return nil, err
		}
	}

	for _, rc := range cfg.Renders {
		r := heightmap.New(rc.Width, rc.Height, field.Options{
			WrapX: rc.WrapX,
			WrapY: rc.WrapY,
			Clamp: rc.Clamp,
			Min:   float32(rc.Min),
			Max:   float32(rc.Max),
		})
		if err := s.CreateRender(rc.Name, r); err != nil {
			return nil, err
		}
	}

	if err := applySelection(s, cfg.Selection); err != nil {
		return nil, err
	}
	return s, nil
}

func newGradient(gc config.GradientConfig) (*heightmap.Gradient, error) {
	stops := make([]heightmap.Stop, 0, len(gc.Stops))
	for _, sc := range gc.Stops {
		c, err := heightmap.ParseHex(sc.Color)
		if err != nil {
			return nil, fmt.Errorf("gradient %q: %w", gc.Name, err)
		}
		stops = append(stops, heightmap.Stop{Height: float32(sc.Height), Color: c})
	}
	return heightmap.NewGradient(gc.Name, heightmap.InterpMode(gc.Mode), stops), nil
}

// applySelection selects the configured look before the render so the first
// full render already uses it.
func applySelection(s *session.Session, sel config.SelectionConfig) error {
	s.SetPaintEffects(sel.PaintEffects)
	if sel.Gradient != "" {
		if err := s.SelectGradient(sel.Gradient); err != nil {
			return err
		}
	}
	for _, name := range sel.Effects {
		if err := s.SelectEffect(name); err != nil {
			return err
		}
	}
	if sel.LeftBrush != "" {
		if err := s.AssignBrush(session.Left, sel.LeftBrush); err != nil {
			return err
		}
	}
	if sel.RightBrush != "" {
		if err := s.AssignBrush(session.Right, sel.RightBrush); err != nil {
			return err
		}
	}
	if sel.Render != "" {
		if err := s.SelectRender(sel.Render); err != nil {
			return err
		}
	}
	return nil
}
