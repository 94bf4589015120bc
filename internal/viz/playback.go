package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/threebody/internal/trajectory"
)

const playbackTrail = 400

// PlaybackModel replays a recorded trajectory in 3D with a rotatable
// camera.
type PlaybackModel struct {
	name     string
	frames   []trajectory.Frame
	head     int
	speed    int
	fps      int
	running  bool
	camera   *Camera
	canvas   *Canvas
	palette  []lipgloss.Style
	trailLen int
}

func NewPlaybackModel(buf *trajectory.Buffer, name string, colors [3]string, fps int) PlaybackModel {
	if fps <= 0 {
		fps = 60
	}
	frames := buf.Frames()
	ext := 0.0
	for _, f := range frames {
		if e := Extent(f.Positions); e > ext {
			ext = e
		}
	}

	speed := len(frames) / (20 * fps)
	if speed < 1 {
		speed = 1
	}
	return PlaybackModel{
		name:     name,
		frames:   frames,
		speed:    speed,
		fps:      fps,
		running:  true,
		camera:   NewCamera(ext),
		canvas:   NewCanvas(width, height),
		palette:  Palette(colors),
		trailLen: playbackTrail,
	}
}

func (m PlaybackModel) Init() tea.Cmd {
	return tick(m.fps)
}

func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
		case "[":
			m.seek(-10 * m.speed)
		case "]":
			m.seek(10 * m.speed)
		case ">", ".":
			m.speed *= 2
		case "<", ",":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.head == len(m.frames)-1 {
				m.running = false
			}
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *PlaybackModel) seek(delta int) {
	m.head += delta
	if m.head < 0 {
		m.head = 0
	}
	if m.head > len(m.frames)-1 {
		m.head = len(m.frames) - 1
	}
}

func (m *PlaybackModel) draw() {
	m.canvas.Clear()
	if len(m.frames) == 0 {
		return
	}
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()

	// Trails are sampled so the drawn length is independent of speed.
	stride := m.speed
	from := m.head - m.trailLen*stride
	if from < 0 {
		from = 0
	}
	for b := 0; b < 3; b++ {
		m.canvas.Pen = b
		px, py, pv := 0, 0, false
		for i := from; i <= m.head; i += stride {
			x, y, _, v := m.camera.Project(m.frames[i].Positions[b], sw, sh)
			if v && pv {
				m.canvas.DrawLine(px, py, x, y)
			}
			px, py, pv = x, y, v
		}
	}

	for b, p := range m.frames[m.head].Positions {
		if x, y, _, v := m.camera.Project(p, sw, sh); v {
			m.canvas.Pen = b
			m.canvas.Dot(x, y, 1)
		}
	}
}

func (m PlaybackModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.palette))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("PLAYING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.frames) > 0 {
		f := m.frames[m.head]
		progress := float64(m.head) / float64(max(1, len(m.frames)-1))
		s.WriteString(ProgressBar(progress, 30) + "\n\n")
		s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f d", f.Time/86400)) + "\n")
		s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", m.head+1, len(m.frames))) + "\n")
		s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%dx", m.speed)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nXYZ:Rotate +-:Zoom <>:Speed\n[ ]:Seek SP:Pause R:Restart Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
