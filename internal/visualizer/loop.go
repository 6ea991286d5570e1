package visualizer

import (
	"sync"

	"github.com/olivier-w/specviz/internal/spectrum"
)

// State is the render loop state.
type State uint8

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason records which exit condition stopped the loop.
type StopReason uint8

const (
	NotStopped StopReason = iota
	StopQuit
	StopEnded
)

func (r StopReason) String() string {
	switch r {
	case StopQuit:
		return "quit"
	case StopEnded:
		return "ended"
	default:
		return "none"
	}
}

// Clock reports playback progress. playing is false once playback has
// ended; that is the loop's end-of-track signal.
type Clock interface {
	Elapsed() (seconds float64, playing bool)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() (float64, bool)

func (f ClockFunc) Elapsed() (float64, bool) { return f() }

// Loop is the per-tick render state machine. It starts Running; Stopped is
// terminal. A Loop is driven from one goroutine, except RequestQuit which
// may be called from anywhere.
type Loop struct {
	scene    *Scene
	sampler  *spectrum.Sampler
	smoother *spectrum.Smoother
	clock    Clock
	duration float64

	quitMu sync.Mutex
	quit   bool

	state   State
	reason  StopReason
	elapsed float64
	onStop  []func(StopReason)
}

// NewLoop creates a Running loop. duration is the track length in seconds.
func NewLoop(scene *Scene, sampler *spectrum.Sampler, smoother *spectrum.Smoother, clock Clock, duration float64) *Loop {
	return &Loop{
		scene:    scene,
		sampler:  sampler,
		smoother: smoother,
		clock:    clock,
		duration: duration,
	}
}

// OnStop registers fn to run once when the loop enters Stopped.
func (l *Loop) OnStop(fn func(StopReason)) {
	l.onStop = append(l.onStop, fn)
}

// RequestQuit raises the quit signal; the loop stops on its next tick.
func (l *Loop) RequestQuit() {
	l.quitMu.Lock()
	l.quit = true
	l.quitMu.Unlock()
}

func (l *Loop) quitRequested() bool {
	l.quitMu.Lock()
	defer l.quitMu.Unlock()
	return l.quit
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// StopReason returns why the loop stopped.
func (l *Loop) StopReason() StopReason { return l.reason }

// Elapsed returns the clamped playback time used for the last frame.
func (l *Loop) Elapsed() float64 { return l.elapsed }

// Duration returns the track length in seconds.
func (l *Loop) Duration() float64 { return l.duration }

// Progress returns Elapsed as a fraction of the track length.
func (l *Loop) Progress() float64 {
	if l.duration <= 0 {
		return 0
	}
	return clamp01(l.elapsed / l.duration)
}

// Step runs one tick: check the quit signal and the clock, then sample,
// smooth and draw onto dst. The caller yields until the next tick.
func (l *Loop) Step(dst Surface) State {
	if l.state == Stopped {
		return Stopped
	}
	if l.quitRequested() {
		l.stop(StopQuit)
		return Stopped
	}

	t, playing := l.clock.Elapsed()
	if !playing {
		l.stop(StopEnded)
		return Stopped
	}
	t = min(max(t, 0), l.duration)
	l.elapsed = t

	frame := l.smoother.Smooth(l.sampler.Sample(t))
	l.scene.Draw(dst, frame, l.Progress())
	return Running
}

// Stop forces the Stopped transition, e.g. when the driver fails.
func (l *Loop) Stop() {
	if l.state != Stopped {
		l.stop(StopQuit)
	}
}

func (l *Loop) stop(reason StopReason) {
	l.state = Stopped
	l.reason = reason
	for _, fn := range l.onStop {
		fn(reason)
	}
	l.onStop = nil
}
