package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/session"
	"github.com/olivier-w/specviz/internal/ui"
)

type startupPhase uint8

const (
	phaseAnalyzing startupPhase = iota
	phasePlaying
)

type startupResolvedMsg struct {
	sess *session.Session
	err  error
}

// openResult hands the opened session, or the failure, back to the caller
// after the program exits. A session that finishes opening after close is
// closed immediately.
type openResult struct {
	mu      sync.Mutex
	res     io.Closer
	failure error
	closed  bool
}

func (o *openResult) set(res io.Closer, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failure = err
		return
	}
	if o.closed {
		_ = res.Close()
		return
	}
	o.res = res
}

func (o *openResult) fail(err error) {
	o.mu.Lock()
	o.failure = err
	o.mu.Unlock()
}

func (o *openResult) err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

func (o *openResult) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.res != nil {
		_ = o.res.Close()
		o.res = nil
	}
}

// startupModel shows a spinner while the track is decoded and analyzed,
// then hands over to the visualization model.
type startupModel struct {
	ctx     context.Context
	opts    session.Options
	display config.DisplayConfig
	open    func(context.Context, session.Options) (*session.Session, error)
	opened  *openResult

	phase   startupPhase
	width   int
	height  int
	spinner spinner.Model
}

func newStartupModel(ctx context.Context, opts session.Options, display config.DisplayConfig) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return startupModel{
		ctx:     ctx,
		opts:    opts,
		display: display,
		open:    session.Open,
		opened:  &openResult{},
		phase:   phaseAnalyzing,
		spinner: s,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.openCmd())
}

func (m startupModel) openCmd() tea.Cmd {
	ctx, opts, open, opened := m.ctx, m.opts, m.open, m.opened
	return func() tea.Msg {
		sess, err := open(ctx, opts)
		if err != nil {
			opened.set(nil, err)
			return startupResolvedMsg{err: err}
		}
		opened.set(sess, nil)
		return startupResolvedMsg{sess: sess}
	}
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupResolvedMsg:
		if msg.err != nil {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		loop, err := msg.sess.Start()
		if err != nil {
			m.opened.fail(err)
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		m.phase = phasePlaying

		d := m.display
		model := ui.New(loop, msg.sess.Playback(), msg.sess.Title, d.Width, d.Height, d.FPS)
		cmds := []tea.Cmd{model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}
	return m, nil
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("specviz"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render("Analyzing " + filepath.Base(m.opts.Path) + "..."))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
