package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawTrails()
	a.drawCentroid()
	a.drawBodies()
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

// toScreen maps a position onto the window, origin at the centre and
// screen y growing downwards. z is not shown.
func (a *App) toScreen(p dynamo.Vec3) rl.Vector2 {
	return rl.NewVector2(
		float32(p.X/a.Scale)+screenWidth/2,
		float32(p.Y/a.Scale)+screenHeight/2,
	)
}

// drawTrails fades each trail from transparent (oldest) to the body color.
func (a *App) drawTrails() {
	for b, trail := range a.Snapshot.Trails {
		n := len(trail)
		for i := 1; i < n; i++ {
			alpha := float32(i) / float32(n)
			rl.DrawLineV(a.toScreen(trail[i-1]), a.toScreen(trail[i]), rl.ColorAlpha(a.Colors[b], alpha))
		}
	}
}

// drawCentroid marks the centre of mass with a small cross.
func (a *App) drawCentroid() {
	c := a.toScreen(physics.Centroid(a.Snapshot.Bodies))
	rl.DrawLineV(rl.NewVector2(c.X-4, c.Y), rl.NewVector2(c.X+4, c.Y), ColTextDim)
	rl.DrawLineV(rl.NewVector2(c.X, c.Y-4), rl.NewVector2(c.X, c.Y+4), ColTextDim)
}

func (a *App) drawBodies() {
	for b, body := range a.Snapshot.Bodies {
		pos := a.toScreen(body.Position)
		rl.DrawCircleV(pos, 5, a.Colors[b])
		if b == a.Loop.Controlled() {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), 9, ColSelect)
		}
	}
}

func (a *App) DrawHUD() {
	a.drawText("threebody", 20, 20, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 160, 24, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Err != nil:
		status, col = "STOPPED", rl.Red
		a.drawText(a.Err.Error(), 20, 60, 14, rl.Red)
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, screenWidth-110, 20, 16, col)

	a.drawText(fmt.Sprintf("t = %.1f d", a.Snapshot.Time/86400), 20, 90, 14, ColText)
	a.drawText(fmt.Sprintf("dt = %.3g s", a.Snapshot.Dt), 20, 110, 14, ColText)
	a.drawText(fmt.Sprintf("control: body %d", a.Loop.Controlled()), 20, 130, 14, ColText)

	a.drawText("[WASD/IK] PUSH  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 20, screenHeight-30, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), screenWidth-80, screenHeight-30, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 20, screenHeight-110
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("min sep: %.2e m", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
