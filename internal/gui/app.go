package gui

import (
	"context"
	"strconv"
	"unicode"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/live"
	"github.com/san-kum/threebody/internal/physics"
)

const (
	screenWidth  = 800
	screenHeight = 600
	maxTelemetry = 300
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

type App struct {
	Loop      *live.Loop
	Name      string
	Scale     float64 // metres per pixel
	Colors    [3]rl.Color
	Running   bool
	Snapshot  live.Snapshot
	Telemetry []float64 // minimum separation history
	Err       error
	Font      rl.Font

	logger *zap.Logger
}

// initWindow opens an 800×600 window at the given frame rate and disables
// the default exit key so Escape does not close it.
func initWindow(title string, fps int) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(loop *live.Loop, name string, colors [3]string, scale float64, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Loop:      loop,
		Name:      name,
		Scale:     scale,
		Running:   true,
		Snapshot:  live.Snapshot{Bodies: loop.State()},
		Telemetry: make([]float64, 0, maxTelemetry),
		logger:    logger,
	}
	for i, c := range colors {
		a.Colors[i] = parseColor(c)
	}
	return a
}

// Clock returns a live.Clock backed by the window's frame time. The loop
// must only read it once the window is open.
func Clock(timeScale float64) live.Clock {
	return live.SecondsClock(func() float64 { return float64(rl.GetFrameTime()) }, timeScale)
}

// Run opens the window and drives frames until it is closed or ctx is
// done. A failed frame pauses the simulation and is shown on screen.
func (a *App) Run(ctx context.Context, fps int) error {
	initWindow(a.Name, fps)
	defer rl.CloseWindow()
	a.Font = rl.GetFontDefault()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if rl.IsKeyPressed(rl.KeyQ) {
			return nil
		}
		a.Update()
		a.Draw()
	}
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Loop.Reset()
		a.Snapshot = live.Snapshot{Bodies: a.Loop.State()}
		a.Telemetry = a.Telemetry[:0]
		a.Err = nil
		a.Running = true
	}
	for r, st := range control.Keys {
		if rl.IsKeyPressed(int32(unicode.ToUpper(r))) {
			a.Loop.Submit(st)
		}
	}

	if !a.Running || a.Err != nil {
		a.Loop.Discard()
		return
	}

	snap, err := a.Loop.Frame()
	if err != nil {
		a.logger.Error("frame failed", zap.Error(err))
		a.Err = err
		a.Running = false
		return
	}
	a.Snapshot = snap

	sep := physics.Separations(snap.Bodies)
	a.Telemetry = append(a.Telemetry, min(sep[0], sep[1], sep[2]))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// parseColor reads "#rrggbb", falling back to white.
func parseColor(hex string) rl.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return rl.White
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rl.White
	}
	return rl.GetColor(uint(v<<8 | 0xff))
}
