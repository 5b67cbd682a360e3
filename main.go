package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/app"
	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/session"
	"github.com/pthm-cable/fountain/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics (requires -replay)")
	replayPath := flag.String("replay", "", "CSV of recorded input to play back")
	render := flag.String("render", "", "Render to select at startup (empty = use config)")
	generate := flag.String("generate", "", "Generator to run on the selected render before input starts")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	dir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}
	output, err := telemetry.NewOutputManager(dir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	sess, err := app.NewSession(cfg)
	if err != nil {
		slog.Error("failed to build session", "error", err)
		os.Exit(1)
	}
	if *render != "" {
		if err := sess.SelectRender(*render); err != nil {
			slog.Error("failed to select render", "render", *render, "error", err)
			os.Exit(1)
		}
	}

	opts := app.Options{
		Perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		Collector: telemetry.NewCollector(cfg.Telemetry.PerfWindow),
		Output:    output,
	}

	if *headless {
		if err := runHeadless(sess, *replayPath, *generate, *maxTicks, *logStats, opts); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))

	w := app.NewWindow(cfg, sess, opts)
	defer w.Unload()

	if *generate != "" {
		w.Controller().RunGenerator(*generate)
	}

	for !rl.WindowShouldClose() {
		w.Frame()

		if *maxTicks > 0 && int(w.Tick()) >= *maxTicks {
			break
		}
	}
	if *logStats {
		w.Controller().Perf().Stats().LogStats()
	}
}

// runHeadless replays recorded input against the session without a window.
// The camera maps client coordinates 1:1 onto the selected render.
func runHeadless(sess *session.Session, replayPath, generate string, maxTicks int, logStats bool, opts app.Options) error {
	var events []app.ReplayEvent
	if replayPath != "" {
		var err error
		if events, err = app.LoadReplay(replayPath); err != nil {
			return err
		}
	}

	var w, h float32 = 1, 1
	if c, _ := sess.SelectedRender(); c != nil {
		f := c.Render().Field
		w, h = float32(f.W), float32(f.H)
	}
	ctrl := app.NewController(sess, camera.New(w, h, w, h), opts)

	if generate != "" {
		ctrl.RunGenerator(generate)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless replay",
		"replay", replayPath,
		"events", len(events),
		"max_ticks", maxTicks,
	)
	steps, err := app.RunReplay(ctx, ctrl, events, maxTicks)
	stats := ctrl.Flush()
	if logStats {
		slog.Info("window", "stats", stats)
		ctrl.Perf().Stats().LogStats()
	}
	slog.Info("replay finished",
		"steps", steps,
		"undo_len", stats.UndoLen,
		"redo_len", stats.RedoLen,
		"height_min", stats.HeightMin,
		"height_max", stats.HeightMax,
		"height_mean", stats.HeightMean,
	)
	return err
}
