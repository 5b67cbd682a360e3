// Generator preview tool - tune noise generator parameters with sliders.
//
// Usage: go run ./cmd/genpreview
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fountain/app"
	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/field"
	"github.com/pthm-cable/fountain/generator"
	"github.com/pthm-cable/fountain/heightmap"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/script"
	"github.com/pthm-cable/fountain/ui"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

var kinds = []string{"fbm", "ridged", "simplex"}

// previewParams holds the tunable generator parameters.
type previewParams struct {
	Kind       string
	Scale      float32
	Octaves    int
	Lacunarity float32
	Gain       float32
	Seed       int
}

func defaultParams() previewParams {
	return previewParams{
		Kind:       "fbm",
		Scale:      4,
		Octaves:    5,
		Lacunarity: 2,
		Gain:       0.5,
		Seed:       42,
	}
}

func (p previewParams) config() config.GeneratorConfig {
	return config.GeneratorConfig{
		Name:      "preview",
		Kind:      p.Kind,
		Normalize: true,
		Params: map[string]float64{
			"seed":       float64(p.Seed),
			"scale":      float64(p.Scale),
			"octaves":    float64(p.Octaves),
			"lacunarity": float64(p.Lacunarity),
			"gain":       float64(p.Gain),
		},
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	sess, err := app.NewSession(cfg)
	if err != nil {
		slog.Error("failed to build session", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Generator Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	gradient := ui.Cycle(sess.Gradients(), "terrain", 0)

	render := heightmap.New(gridSize, gridSize, field.Options{WrapX: true, WrapY: true, Clamp: true, Min: 0, Max: 1})
	tex := renderer.NewHeightmapRenderer()
	defer tex.Unload()
	cam := camera.New(previewSize, previewSize, gridSize, gridSize)
	tiled := false

	needsRegen := true
	var genErr error

	for !rl.WindowShouldClose() {
		if needsRegen {
			g, _ := sess.Gradient(gradient)
			genErr = regenerate(render, params, g)
			tex.MarkAll()
			needsRegen = false
		}
		tex.Sync(render.Bitmap)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview; tiled mode draws 2x2 copies at 1:1 to expose seams
		if tiled {
			cam.SetZoom(1)
			for _, c := range [][2]float32{{gridSize, gridSize}, {0, gridSize}, {gridSize, 0}, {0, 0}} {
				cam.X, cam.Y = c[0], c[1]
				tex.Draw(cam)
			}
		} else {
			cam.SetZoom(previewSize / gridSize)
			cam.X, cam.Y = gridSize/2, gridSize/2
			tex.Draw(cam)
		}
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		stats := render.Field.ComputeStats()
		statsY := int32(previewSize + 15)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  SD: %.3f", stats.Min, stats.Max, stats.Mean, stats.StdDev), 15, statsY, 16, rl.DarkGray)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY+20, 14, rl.Red)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Generator Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Kind: "+params.Kind) {
			params.Kind = ui.Cycle(kinds, params.Kind, 1)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 200, Height: 30}, "Gradient: "+gradient) {
			gradient = ui.Cycle(sess.Gradients(), gradient, 1)
			needsRegen = true
		}
		panelY += 45

		var changed bool
		params.Scale, changed = slider(&panelX, &panelY, "Scale (base frequency)", "%.1f", params.Scale, 1, 16)
		needsRegen = needsRegen || changed

		var octaves float32
		octaves, changed = slider(&panelX, &panelY, "Octaves (detail level)", "%.0f", float32(params.Octaves), 1, 8)
		params.Octaves = int(octaves)
		needsRegen = needsRegen || changed

		params.Lacunarity, changed = slider(&panelX, &panelY, "Lacunarity (frequency multiplier)", "%.2f", params.Lacunarity, 1.5, 4)
		needsRegen = needsRegen || changed

		params.Gain, changed = slider(&panelX, &panelY, "Gain (amplitude multiplier)", "%.2f", params.Gain, 0.2, 0.9)
		needsRegen = needsRegen || changed

		var seed float32
		seed, changed = slider(&panelX, &panelY, "Seed", "%.0f", float32(params.Seed), 0, 99999)
		params.Seed = int(seed)
		needsRegen = needsRegen || changed
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, toggleText(tiled, "Single", "Tile 2x2")) {
			tiled = !tiled
		}
		panelY += 55

		// Output YAML
		out := generatorYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances the layout cursor.
func slider(x, y *float32, label, format string, value, lo, hi float32) (float32, bool) {
	rl.DrawText(label, int32(*x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: *x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(*x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return next, next != value
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// regenerate runs the generator into the render and recolours it.
func regenerate(r *heightmap.Render, p previewParams, g *heightmap.Gradient) error {
	gc := p.config()
	gen, err := generator.New(gc.Name, gc.Kind, script.Params(gc.Params))
	if err != nil {
		return err
	}
	gen.Normalize = gc.Normalize
	runErr := gen.Run(r.Field)
	if err := r.UpdateAll(g, nil); err != nil {
		return err
	}
	return runErr
}

func generatorYAML(p previewParams) string {
	data, err := yaml.Marshal([]config.GeneratorConfig{p.config()})
	if err != nil {
		return err.Error()
	}
	return "generators:\n" + indent(string(data), "  ")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
