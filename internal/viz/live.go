package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/threebody/internal/control"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/live"
	"github.com/san-kum/threebody/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel drives a live.Loop from bubbletea ticks and renders each
// snapshot as a top-down braille view with per-body trails.
type LiveModel struct {
	loop        *live.Loop
	name        string
	fps         int
	extent      float64
	canvas      *Canvas
	palette     []lipgloss.Style
	running     bool
	showHelp    bool
	last        live.Snapshot
	separations []float64
	err         error
}

// NewLiveModel sizes the view to twice the initial spread of the bodies.
func NewLiveModel(loop *live.Loop, name string, colors [3]string, fps int) LiveModel {
	if fps <= 0 {
		fps = 60
	}
	s := loop.State()
	extent := 2 * Extent(s.Positions())
	if extent == 0 {
		extent = 1
	}
	return LiveModel{
		loop:        loop,
		name:        name,
		fps:         fps,
		extent:      extent,
		canvas:      NewCanvas(width, height),
		palette:     Palette(colors),
		running:     true,
		last:        live.Snapshot{Bodies: s},
		separations: make([]float64, 0, historyCapacity),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tick(m.fps)
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "?":
			m.showHelp = !m.showHelp
		default:
			if len(msg.Runes) == 1 {
				if st, ok := control.ForKey(msg.Runes[0]); ok {
					m.loop.Submit(st)
				}
			}
		}
	case TickMsg:
		m.step()
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *LiveModel) step() {
	if !m.running || m.err != nil {
		m.loop.Discard()
		return
	}
	snap, err := m.loop.Frame()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	if snap.Frame == m.last.Frame {
		return
	}
	m.last = snap

	sep := physics.Separations(snap.Bodies)
	m.separations = append(m.separations, math.Min(sep[0], math.Min(sep[1], sep[2]))/1e9)
	if len(m.separations) > historyCapacity {
		m.separations = m.separations[1:]
	}
}

func (m *LiveModel) reset() {
	m.loop.Reset()
	m.last = live.Snapshot{Bodies: m.loop.State()}
	m.separations = m.separations[:0]
	m.err = nil
	m.running = true
}

// project maps a world position to sub-pixels. Screen y grows downwards.
func (m *LiveModel) project(p dynamo.Vec3) (int, int) {
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()
	half := math.Min(float64(sw), float64(sh)) / 2
	return sw/2 + int(p.X/m.extent*half), sh/2 + int(p.Y/m.extent*half)
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	for b := range m.last.Bodies {
		m.canvas.Pen = b
		for _, p := range m.last.Trails[b] {
			x, y := m.project(p)
			m.canvas.Set(x, y)
		}
	}
	for b, body := range m.last.Bodies {
		m.canvas.Pen = b
		x, y := m.project(body.Position)
		r := 1
		if b == m.loop.Controlled() {
			r = 2
		}
		m.canvas.Dot(x, y, r)
	}
}

func (m LiveModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.palette))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("STOPPED") + "\n")
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.separations) > 1 {
		chart := asciigraph.Plot(m.separations, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("min separation (Gm)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f d", m.last.Time/86400)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.last.Frame)) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.3g s", m.last.Dt)) + "\n")
	s.WriteString(labelStyle.Render("Control") + valueStyle.Render(fmt.Sprintf("body %d", m.loop.Controlled())) + "\n")
	if len(m.last.Applied) > 0 {
		s.WriteString(labelStyle.Render("Applied") + valueStyle.Render(fmt.Sprint(m.last.Applied)) + "\n")
	}
	s.WriteString("\n")
	for b, body := range m.last.Bodies {
		line := fmt.Sprintf("%.2f km/s", body.Velocity.Norm()/1e3)
		s.WriteString(labelStyle.Render(fmt.Sprintf("Body %d", b)) + m.palette[b].Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nWASD:Push IK:Depth\nSP:Pause R:Reset Q:Quit ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  W/S      - Push controlled body y   ║
║  A/D      - Push controlled body x   ║
║  I/K      - Push controlled body z   ║
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
