package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/specviz/internal/spectrum"
	"github.com/olivier-w/specviz/internal/visualizer"
)

type fakeControls struct {
	paused bool
	volume float64
}

func (f *fakeControls) TogglePause()           { f.paused = !f.paused }
func (f *fakeControls) Paused() bool           { return f.paused }
func (f *fakeControls) Volume() float64        { return f.volume }
func (f *fakeControls) AdjustVolume(d float64) { f.volume += d }

type fakeClock struct {
	t       float64
	playing bool
}

func (c *fakeClock) Elapsed() (float64, bool) { return c.t, c.playing }

func newTestModel(t *testing.T) (Model, *fakeClock, *fakeControls) {
	t.Helper()

	frames := spectrum.Sequence{{1, 0.5}, {0.5, 1}}
	smoother, err := spectrum.NewSmoother(2, 1)
	if err != nil {
		t.Fatalf("smoother: %v", err)
	}
	scene := &visualizer.Scene{
		Title:   "Theme",
		Layout:  visualizer.DefaultLayout,
		Palette: visualizer.Palette{Bar: visualizer.White, Progress: visualizer.Red, Text: visualizer.White},
	}
	clock := &fakeClock{t: 30, playing: true}
	loop := visualizer.NewLoop(scene, spectrum.NewSampler(frames, 100, 10), smoother, clock, 120)
	controls := &fakeControls{volume: 0.5}
	return New(loop, controls, "Theme", 800, 450, 60), clock, controls
}

func TestTickStepsLoopAndRendersCanvas(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected next tick command")
	}
	if m.frame == "" {
		t.Fatal("expected rendered canvas")
	}
	if m.elapsed != 30 {
		t.Fatalf("expected elapsed 30, got %v", m.elapsed)
	}

	view := m.View()
	if !containsAll(view, "Theme", "0:30", "2:00", "vol 50%", "playing") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestQuitKeyStopsLoop(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.quitting {
		t.Fatal("expected model to be quitting")
	}
	if got := m.StopReason(); got != visualizer.StopQuit {
		t.Fatalf("expected quit reason, got %v", got)
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestPlaybackEndQuitsOnNextTick(t *testing.T) {
	m, clock, _ := newTestModel(t)
	clock.playing = false

	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if !m.quitting {
		t.Fatal("expected model to be quitting")
	}
	if got := m.StopReason(); got != visualizer.StopEnded {
		t.Fatalf("expected ended reason, got %v", got)
	}
}

func TestPauseAndVolumeKeys(t *testing.T) {
	m, _, controls := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if !m.paused || !controls.paused {
		t.Fatal("expected paused")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Fatal("expected paused status")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.volume < 0.549 || m.volume > 0.551 {
		t.Fatalf("expected volume 0.55, got %v", m.volume)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.volume < 0.499 || m.volume > 0.501 {
		t.Fatalf("expected volume 0.5, got %v", m.volume)
	}
}

func TestWindowResizeResizesCanvas(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	cols, rows := m.canvas.Cells()
	if cols != 100 || rows != 40-chromeRows {
		t.Fatalf("expected 100x%d cells, got %dx%d", 40-chromeRows, cols, rows)
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(5, 10, 12)
	if got := strings.Count(bar, "━"); got != 5 {
		t.Fatalf("expected 5 filled cells, got %d in %q", got, bar)
	}
	if got := strings.Count(renderProgressBar(20, 10, 12), "─"); got != 0 {
		t.Fatalf("expected overrun to clamp, got %d empty cells", got)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
