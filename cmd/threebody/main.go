package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/gui"
	"github.com/san-kum/threebody/internal/live"
	"github.com/san-kum/threebody/internal/logging"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	// Batch window
	tStart float64
	tEnd   float64
	dt     float64
	save   bool
	// Interactive mode
	timeScale  float64
	maxTrail   int
	accel      float64
	controlled int
	frameRate  int
	scale      float64
	headless   bool
	frames     int
	// Output
	outFile string
	steps   int

	logger = zap.NewNop()
)

// main registers the commands and executes the root command. Errors are
// logged and exit the process with status 1.
func main() {
	rootCmd := &cobra.Command{
		Use:           "threebody",
		Short:         "newtonian three-body simulator",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".threebody", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch simulation and store its trajectory",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().Float64Var(&tStart, "t-start", 0, "start time (s)")
	runCmd.Flags().Float64Var(&tEnd, "t-end", 3e10, "end time (s)")
	runCmd.Flags().Float64Var(&dt, "dt", 1e5, "timestep (s)")
	runCmd.Flags().BoolVar(&save, "save", true, "store the trajectory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	addLiveFlags(liveCmd)
	liveCmd.Flags().BoolVar(&headless, "headless", false, "run without a display, logging frames")
	liveCmd.Flags().IntVar(&frames, "frames", 600, "frames to run in headless mode")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)
	addLiveFlags(guiCmd)

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored trajectory in 3D",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}
	playCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant periods and separations of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	addConfigFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&dt, "dt", 1e5, "timestep (s)")
	lyapunovCmd.Flags().IntVar(&steps, "steps", 10000, "steps to follow")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addConfigFlags(initCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrator",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, playCmd, listCmd, plotCmd, analyzeCmd, lyapunovCmd,
		exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, initCmd, benchCmd)

	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated seconds per wall-clock second")
	cmd.Flags().IntVar(&maxTrail, "max-trail", config.DefaultMaxTrail, "trail length per body")
	cmd.Flags().Float64Var(&accel, "accel", config.DefaultAccel, "stimulus acceleration (m/s^2)")
	cmd.Flags().IntVar(&controlled, "body", 0, "controlled body (0-2)")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "metres per pixel (gui)")
}

// loadConfig resolves the preset, then the config file over it, then any
// flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("t-start") {
		cfg.Batch.Start = tStart
	}
	if flags.Changed("t-end") {
		cfg.Batch.End = tEnd
	}
	if flags.Changed("dt") {
		cfg.Batch.Dt = dt
	}
	if flags.Changed("time-scale") {
		cfg.Live.TimeScale = timeScale
	}
	if flags.Changed("max-trail") {
		cfg.Live.MaxTrail = maxTrail
	}
	if flags.Changed("accel") {
		cfg.Live.Accel = accel
	}
	if flags.Changed("body") {
		cfg.Live.Controlled = controlled
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = frameRate
	}
	if flags.Changed("scale") {
		cfg.Live.Scale = scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initial, err := cfg.System()
	if err != nil {
		return err
	}

	batch := sim.New(cfg.NewIntegrator(), logger)
	for _, m := range metrics.Defaults() {
		batch.AddMetric(m)
	}
	batch.AddObserver(sim.NewProgress(logger, cfg.BatchConfig(), 0.1))

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d steps...\n", cfg.Name, sim.Steps(cfg.BatchConfig()))
	result, runErr := batch.Run(ctx, initial, cfg.BatchConfig())
	if result == nil {
		return runErr
	}

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, result.Elapsed)
	printMetrics(result.Metrics)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Name, cfg.G, masses(cfg), cfg.Colors(), cfg.BatchConfig(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return runErr
}

func masses(cfg *config.Config) [3]float64 {
	var m [3]float64
	for i, b := range cfg.Bodies {
		m[i] = b.Mass
	}
	return m
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func newLoop(cfg *config.Config, clock live.Clock, interval time.Duration) (*live.Loop, error) {
	initial, err := cfg.System()
	if err != nil {
		return nil, err
	}
	injector, err := control.NewInjector(cfg.Live.Controlled, cfg.Live.Accel)
	if err != nil {
		return nil, err
	}
	return live.New(initial, live.Options{
		Integrator:    cfg.NewIntegrator(),
		Injector:      injector,
		Clock:         clock,
		MaxTrail:      cfg.Live.MaxTrail,
		FrameInterval: interval,
		Logger:        logger,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if headless {
		return runHeadless(cfg)
	}

	loop, err := newLoop(cfg, live.NewWallClock(cfg.Live.TimeScale), 0)
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewLiveModel(loop, cfg.Name, cfg.Colors(), cfg.Live.FPS), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// runHeadless steps the loop at a fixed dt of one frame's worth of
// simulated time and logs roughly once per simulated wall-clock second.
func runHeadless(cfg *config.Config) error {
	frameDt := cfg.Live.TimeScale / float64(cfg.Live.FPS)
	loop, err := newLoop(cfg, live.FixedClock(frameDt), 0)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return loop.Run(ctx, live.RenderFunc(func(s live.Snapshot) error {
		if s.Frame%cfg.Live.FPS == 0 || s.Frame == frames {
			sep := physics.Separations(s.Bodies)
			logger.Info("frame",
				zap.Int("frame", s.Frame),
				zap.Float64("t", s.Time),
				zap.Float64("min_separation", min(sep[0], sep[1], sep[2])),
				zap.Float64("centroid_drift", physics.Centroid(s.Bodies).Norm()),
			)
		}
		if s.Frame >= frames {
			cancel()
		}
		return nil
	}))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	loop, err := newLoop(cfg, gui.Clock(cfg.Live.TimeScale), 0)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	app := gui.NewApp(loop, cfg.Name, cfg.Colors(), cfg.Live.Scale, logger)
	return app.Run(ctx, cfg.Live.FPS)
}

// runColors returns the colours a run was recorded with, falling back to
// the defaults for runs saved without them.
func runColors(meta *storage.RunMetadata) [3]string {
	colors := config.DefaultConfig().Colors()
	for i, c := range meta.Colors {
		if c != "" {
			colors[i] = c
		}
	}
	return colors
}

func playRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	buf, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewPlaybackModel(buf, meta.Name, runColors(meta), frameRate), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tDT\tT_END")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3gs\t%.3gs\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.End,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	buf, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", buf.Len())

	axes := []string{"x", "y", "z"}
	for b := 0; b < 3; b++ {
		for axis := 0; axis < 2; axis++ {
			graph := asciigraph.Plot(buf.Series(b, axis),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("body %d %s (m) vs time", b, axes[axis])),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	buf, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d frames, dt=%.3gs)\n\n", meta.ID, buf.Len(), meta.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tAXIS\tPERIOD")
	for b := 0; b < 3; b++ {
		for axis, name := range []string{"x", "y"} {
			period, err := analysis.DominantPeriod(buf.Series(b, axis), meta.Dt)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f d\n", b, name, period/86400)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	closest := make([]float64, 0, buf.Len())
	for _, f := range buf.Frames() {
		var s [3]float64
		s[0] = f.Positions[0].Sub(f.Positions[1]).Norm()
		s[1] = f.Positions[0].Sub(f.Positions[2]).Norm()
		s[2] = f.Positions[1].Sub(f.Positions[2]).Norm()
		closest = append(closest, min(s[0], s[1], s[2]))
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(closest,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("closest pair separation (m)"),
	))
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initial, err := cfg.System()
	if err != nil {
		return err
	}

	lambda, err := analysis.LyapunovExponent(cfg.NewIntegrator(), initial, cfg.Batch.Dt, steps, 1e3)
	if err != nil {
		return err
	}

	fmt.Printf("largest lyapunov exponent: %.4g 1/s\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.1f d\n", 1/lambda/86400)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	buf, err := storage.New(dataDir).LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, buf.Frames())
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	buf, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, buf)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	buf, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(buf, 800, 800, runColors(meta))
	if svg == "" {
		return errors.New("trajectory too short to render")
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	initial, err := cfg.System()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tTIME\tSTEPS/SEC")

	batch := sim.New(cfg.NewIntegrator(), zap.NewNop())
	for _, n := range []int{1000, 10000, 100000} {
		window := sim.Config{Start: 0, End: float64(n) * 1e3, Dt: 1e3}
		result, err := batch.Run(context.Background(), initial, window)
		if err != nil {
			return err
		}
		rate := float64(result.StepsTaken) / result.Elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%v\t%.0f\n", n, result.Elapsed, rate)
	}
	return w.Flush()
}
