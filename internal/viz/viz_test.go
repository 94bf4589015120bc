package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/live"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

var colors = [3]string{"#ff0000", "#00ff00", "#0000ff"}

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Pen = 2
	c.Set(0, 0)
	c.Set(3, 7)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}
	if c.Grid[1][1] != blank|0x80 {
		t.Errorf("expected dot 8 set, got %U", c.Grid[1][1])
	}
	if c.Ink[0][0] != 2 || c.Ink[1][1] != 2 {
		t.Error("expected pen recorded for drawn cells")
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != blank && r != '\n' }) {
		t.Error("expected blank canvas after clear")
	}
	if c.Ink[0][0] != -1 {
		t.Error("expected ink cleared")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0)
	for col := 0; col < 10; col++ {
		if c.Grid[0][col] != blank|0x1|0x8 {
			t.Errorf("col %d: expected top row filled, got %U", col, c.Grid[0][col])
		}
	}
}

func TestCanvas_RenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Pen = 0
	c.Set(0, 0)
	c.Pen = 7
	c.Set(2, 0)

	out := c.Render([]lipgloss.Style{lipgloss.NewStyle()})
	if strings.Count(out, string(rune(blank|0x1))) != 2 {
		t.Errorf("expected both dots rendered, got %q", out)
	}
}

func TestCamera_ProjectsOriginToCenter(t *testing.T) {
	cam := NewCamera(10)
	x, y, _, ok := cam.Project(dynamo.Vec3{}, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("expected (80,48) visible, got (%d,%d) %v", x, y, ok)
	}

	cam.RotateX(math.Pi / 2)
	if _, _, _, ok := cam.Project(dynamo.Vec3{Y: 1e6}, 160, 96); ok {
		t.Error("expected point behind the camera to be hidden")
	}
}

func threeBody() dynamo.System {
	h := math.Sqrt(3) / 2
	r, v := 1.5e11, 3e4
	return dynamo.System{
		{Mass: 2e30, Position: dynamo.Vec3{X: r}, Velocity: dynamo.Vec3{Y: v}},
		{Mass: 2e30, Position: dynamo.Vec3{X: -0.5 * r, Y: h * r}, Velocity: dynamo.Vec3{X: -h * v, Y: -0.5 * v}},
		{Mass: 2e30, Position: dynamo.Vec3{X: -0.5 * r, Y: -h * r}, Velocity: dynamo.Vec3{X: h * v, Y: -0.5 * v}},
	}
}

func newLiveModel(t *testing.T) LiveModel {
	t.Helper()
	in, err := control.NewInjector(1, 5e-3)
	if err != nil {
		t.Fatal(err)
	}
	loop, err := live.New(threeBody(), live.Options{
		Integrator: integrators.NewSemiImplicitEuler(physics.NewGravity()),
		Injector:   in,
		Clock:      live.FixedClock(1e5),
		MaxTrail:   100,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewLiveModel(loop, "test", colors, 60)
}

func send(m tea.Model, msg tea.Msg) tea.Model {
	next, _ := m.Update(msg)
	return next
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestLiveModel_KeysBecomeStimuli(t *testing.T) {
	var m tea.Model = newLiveModel(t)
	m = send(m, key('w'))
	m = send(m, key('i'))
	m = send(m, TickMsg{})

	lm := m.(LiveModel)
	want := []control.Stimulus{control.MinusY, control.PlusZ}
	if len(lm.last.Applied) != 2 || lm.last.Applied[0] != want[0] || lm.last.Applied[1] != want[1] {
		t.Errorf("expected %v applied, got %v", want, lm.last.Applied)
	}
	if lm.last.Frame != 1 {
		t.Errorf("expected frame 1, got %d", lm.last.Frame)
	}
}

func TestLiveModel_PauseAndReset(t *testing.T) {
	var m tea.Model = newLiveModel(t)
	m = send(m, TickMsg{})
	m = send(m, key(' '))
	m = send(m, TickMsg{})

	lm := m.(LiveModel)
	if lm.running || lm.last.Frame != 1 {
		t.Errorf("expected paused at frame 1, got running=%v frame=%d", lm.running, lm.last.Frame)
	}

	m = send(m, key('r'))
	lm = m.(LiveModel)
	if !lm.running || lm.last.Frame != 0 || lm.loop.Time() != 0 {
		t.Error("expected reset to restart from the initial state")
	}
}

func TestLiveModel_ViewShowsBodies(t *testing.T) {
	var m tea.Model = newLiveModel(t)
	for i := 0; i < 5; i++ {
		m = send(m, TickMsg{})
	}
	view := m.View()
	for _, s := range []string{"TEST", "RUNNING", "Body 0", "Body 2", "body 1"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected %q in view", s)
		}
	}
}

func TestPlaybackModel_SeekBounds(t *testing.T) {
	frames := make([]trajectory.Frame, 50)
	for i := range frames {
		frames[i] = trajectory.Frame{Time: float64(i), Positions: threeBody().Positions()}
	}
	buf, err := trajectory.FromFrames(frames)
	if err != nil {
		t.Fatal(err)
	}

	var m tea.Model = NewPlaybackModel(buf, "replay", colors, 60)
	m = send(m, key('['))
	if pm := m.(PlaybackModel); pm.head != 0 {
		t.Errorf("expected head clamped to 0, got %d", pm.head)
	}

	for i := 0; i < 100; i++ {
		m = send(m, TickMsg{})
	}
	pm := m.(PlaybackModel)
	if pm.head != 49 || pm.running {
		t.Errorf("expected to stop on the last frame, got head=%d running=%v", pm.head, pm.running)
	}
	if !strings.Contains(m.View(), "50/50") {
		t.Error("expected frame counter in view")
	}
}
