package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/session"
	"github.com/olivier-w/specviz/internal/ui"
	"github.com/olivier-w/specviz/internal/visualizer"
	"github.com/olivier-w/specviz/internal/window"
	"go.uber.org/zap"
)

func (a *app) runVisualize(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case len(args) == 1:
		return a.play(ctx, target{path: args[0]})
	case a.preset != "":
		p, err := findPreset(a.presets, a.preset)
		if err != nil {
			return err
		}
		return a.play(ctx, presetTarget(p))
	}
	return a.menu(ctx)
}

func presetTarget(p config.Preset) target {
	return target{path: p.File, title: p.Title, color: p.Color}
}

// menu shows the picker until the user cancels. Load failures are shown
// in the picker instead of ending the program.
func (a *app) menu(ctx context.Context) error {
	status := ""
	for ctx.Err() == nil {
		picker := ui.NewPicker(a.presets, ".")
		if picker.HasError() {
			return picker.Error()
		}

		final, err := tea.NewProgram(picker.WithStatus(status), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		}
		pm, ok := final.(ui.PickerModel)
		if !ok {
			return fmt.Errorf("unexpected model type from picker: %T", final)
		}
		result := pm.Result()
		if result.Cancelled {
			return nil
		}

		status = ""
		err = a.play(ctx, target{path: result.Path, title: result.Title, color: result.Color})
		if err != nil {
			a.log.Warn("session failed", zap.String("path", result.Path), zap.Error(err))
			status = "Error: " + err.Error()
		}
		// ebiten can run only one game per process.
		if a.cfg.Display.Backend == config.BackendWindow {
			return err
		}
	}
	return nil
}

func (a *app) play(ctx context.Context, t target) error {
	switch a.cfg.Display.Backend {
	case config.BackendWindow:
		return a.playWindow(ctx, t)
	case config.BackendHeadless:
		return a.playHeadless(ctx, t)
	default:
		return a.playTerminal(ctx, t)
	}
}

func (a *app) playTerminal(ctx context.Context, t target) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newStartupModel(ctx, a.options(t), a.cfg.Display)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	// Abort an analysis still in flight, then release whatever was opened.
	cancel()
	m.opened.close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if err := m.opened.err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) playWindow(ctx context.Context, t target) error {
	sess, err := session.Open(ctx, a.options(t))
	if err != nil {
		return err
	}
	defer sess.Close()

	loop, err := sess.Start()
	if err != nil {
		return err
	}
	d := a.cfg.Display
	g := window.New(loop, sess.Playback(), d.Width, d.Height)

	go func() {
		<-ctx.Done()
		loop.RequestQuit()
	}()
	return window.Run(g, sess.Title+" - specviz", d.FPS)
}

func (a *app) playHeadless(ctx context.Context, t target) error {
	sess, err := session.Open(ctx, a.options(t))
	if err != nil {
		return err
	}
	defer sess.Close()

	d := a.cfg.Display
	fmt.Printf("Playing %s (%.1fs, %d frames)\n", sess.Title, sess.Duration(), len(sess.Frames))
	reason, err := sess.Run(ctx, visualizer.NewRecorder(d.Width, d.Height), d.FPS)
	if err != nil {
		return err
	}
	fmt.Printf("Stopped: %s\n", reason)
	return nil
}
