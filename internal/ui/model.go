package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/specviz/internal/util"
	"github.com/olivier-w/specviz/internal/visualizer"
)

// chromeRows is the number of terminal rows below the canvas.
const chromeRows = 5

// Controls is the playback surface the keys act on.
type Controls interface {
	TogglePause()
	Paused() bool
	Volume() float64
	AdjustVolume(delta float64)
}

// Model is the Bubbletea model for the visualization screen. Every tick
// advances the render loop once and repaints the canvas.
type Model struct {
	loop     *visualizer.Loop
	controls Controls
	canvas   *visualizer.Canvas
	title    string
	interval time.Duration

	frame    string // last rendered canvas
	elapsed  float64
	volume   float64
	paused   bool
	width    int
	quitting bool
}

// New creates a Model drawing the width x height logical scene into the
// terminal at fps frames per second.
func New(loop *visualizer.Loop, controls Controls, title string, width, height, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		loop:     loop,
		controls: controls,
		canvas:   visualizer.NewCanvas(width, height, 80, 24-chromeRows),
		title:    title,
		interval: time.Second / time.Duration(fps),
		volume:   controls.Volume(),
	}
}

// StopReason reports why the loop ended once the program has finished.
func (m Model) StopReason() visualizer.StopReason {
	return m.loop.StopReason()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), tea.SetWindowTitle(windowTitle(m.title, false)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.loop.RequestQuit()
			return m.step()
		}
		switch msg.String() {
		case " ":
			m.controls.TogglePause()
			m.paused = m.controls.Paused()
			return m, tea.SetWindowTitle(windowTitle(m.title, m.paused))
		case "up", "k", "+", "=":
			m.controls.AdjustVolume(0.05)
			m.volume = m.controls.Volume()
		case "down", "j", "-":
			m.controls.AdjustVolume(-0.05)
			m.volume = m.controls.Volume()
		}
		return m, nil

	case tickMsg:
		next, cmd := m.step()
		if next.(Model).quitting {
			return next, cmd
		}
		return next, tea.Batch(cmd, tickCmd(m.interval))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.canvas.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		return m, nil
	}

	return m, nil
}

// step runs one loop tick and quits the program once the loop stops.
func (m Model) step() (tea.Model, tea.Cmd) {
	if m.loop.Step(m.canvas) == visualizer.Stopped {
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	m.frame = m.canvas.String()
	m.elapsed = m.loop.Elapsed()
	m.paused = m.controls.Paused()
	m.volume = m.controls.Volume()
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}

	elapsed := util.FormatSeconds(m.elapsed)
	total := util.FormatSeconds(m.loop.Duration())
	barWidth := max(w-len(elapsed)-len(total)-6, 10)
	bar := renderProgressBar(m.elapsed, m.loop.Duration(), barWidth)
	progressLine := fmt.Sprintf("%s %s %s", timeStyle.Render(elapsed), bar, timeStyle.Render(total))

	statusText := "▶  playing"
	if m.paused {
		statusText = "❚❚ paused"
	}
	volStr := renderVolumePercent(m.volume)
	gap := max(w-len(statusText)-len(volStr)-4, 2)
	statusLine := statusStyle.Render(statusText) + strings.Repeat(" ", gap) + statusStyle.Render(volStr)

	var b strings.Builder
	b.WriteString(m.frame)
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render(m.title) + "\n")
	b.WriteString("  " + progressLine + "\n")
	b.WriteString("  " + statusLine + "\n")
	b.WriteString("  " + helpStyle.Render(helpText()))
	return b.String()
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - specviz"
	}
	return "▶ " + title + " - specviz"
}
