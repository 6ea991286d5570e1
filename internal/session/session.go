// Package session ties one visualization together: the decoded track, its
// precomputed spectrum frames, smoothing state, and the playback handle.
// Whatever exit path a driver takes, Close releases all of it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/player"
	"github.com/olivier-w/specviz/internal/spectrum"
	"github.com/olivier-w/specviz/internal/visualizer"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a session that is playing or
// has played.
var ErrAlreadyStarted = errors.New("session already started")

// Playback is the audio output the render loop follows.
type Playback interface {
	Play()
	TogglePause()
	Paused() bool
	Elapsed() (seconds float64, playing bool)
	Volume() float64
	AdjustVolume(delta float64)
	Close()
}

// Seams for tests.
var (
	loadTrack    = player.Load
	readMetadata = player.ReadMetadata
	newPlayback  = func(pcm *player.PCMBuffer) (Playback, error) {
		return player.New(pcm)
	}
)

// Options selects the source and presentation of a session.
type Options struct {
	Path     string
	Title    string // empty: tag title or file name
	BarColor string // empty: display.bar_color
	Config   *config.Config
	Logger   *zap.Logger
}

// Session owns every resource of one visualization.
type Session struct {
	Title  string
	Track  *player.Track
	Frames spectrum.Sequence

	chunkSize int
	hop       int
	scene     *visualizer.Scene
	smoother  *spectrum.Smoother
	log       *zap.Logger

	mu       sync.Mutex
	playback Playback
	loop     *visualizer.Loop

	closeOnce sync.Once
	closeErr  error
}

// Open loads and analyzes the source. Playback does not start until Start.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("session: nil config")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	palette, err := cfg.Display.Palette(opts.BarColor)
	if err != nil {
		return nil, err
	}

	track, err := loadTrack(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.Path, err)
	}
	log.Info("source resolved",
		zap.String("path", track.Path),
		zap.String("format", string(track.Format)),
		zap.Bool("transcoded", track.Transcoded),
	)
	pcm := track.PCM
	log.Info("pcm loaded",
		zap.Int("sample_rate", pcm.SampleRate),
		zap.Int("channels", pcm.Channels),
		zap.Int("samples", pcm.Frames()),
		zap.Float64("duration", pcm.Duration()),
	)

	chunk := cfg.Analysis.ChunkSize
	hop := cfg.Analysis.HopSize()
	start := time.Now()
	frames, err := spectrum.Build(ctx, pcm.Mono(), chunk, hop, spectrum.BuildOptions{Workers: cfg.Analysis.Workers})
	if err != nil {
		closeTrack(log, track)
		return nil, err
	}
	log.Info("frames built",
		zap.Int("count", len(frames)),
		zap.Int("chunk", chunk),
		zap.Int("hop", hop),
		zap.Duration("elapsed", time.Since(start)),
	)

	smoother, err := spectrum.NewSmoother(frames.Bins(), cfg.Smoothing.Alpha)
	if err != nil {
		closeTrack(log, track)
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = readMetadata(track.Path).DisplayTitle()
	}

	return &Session{
		Title:     title,
		Track:     track,
		Frames:    frames,
		chunkSize: chunk,
		hop:       hop,
		scene: &visualizer.Scene{
			Title:   title,
			Layout:  cfg.Display.Layout(),
			Palette: palette,
		},
		smoother: smoother,
		log:      log,
	}, nil
}

func closeTrack(log *zap.Logger, t *player.Track) {
	if err := t.Close(); err != nil {
		log.Warn("temp artifact cleanup failed", zap.String("path", t.DecodePath), zap.Error(err))
	}
}

// Duration returns the track length in seconds.
func (s *Session) Duration() float64 {
	return s.Track.PCM.Duration()
}

// Start opens the audio device, begins playback and returns the render
// loop. The loop closes the session when it stops.
func (s *Session) Start() (*visualizer.Loop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		return nil, ErrAlreadyStarted
	}

	pb, err := newPlayback(s.Track.PCM)
	if err != nil {
		return nil, fmt.Errorf("opening audio output: %w", err)
	}
	s.playback = pb

	sampler := spectrum.NewSampler(s.Frames, float64(s.Track.PCM.SampleRate), s.hop)
	loop := visualizer.NewLoop(s.scene, sampler, s.smoother, pb, s.Duration())
	loop.OnStop(func(reason visualizer.StopReason) {
		s.log.Info("loop stopped", zap.Stringer("reason", reason), zap.Float64("elapsed", loop.Elapsed()))
		_ = s.Close()
	})
	s.loop = loop

	pb.Play()
	s.log.Info("playback started", zap.Float64("duration", s.Duration()))
	return loop, nil
}

// Playback returns the active playback handle, or nil before Start.
func (s *Session) Playback() Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback
}

// Close stops playback and removes any temporary artifact. It is safe to
// call more than once and from any exit path.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		pb := s.playback
		s.mu.Unlock()
		if pb != nil {
			pb.Close()
		}
		if err := s.Track.Close(); err != nil {
			s.log.Warn("temp artifact cleanup failed", zap.String("path", s.Track.DecodePath), zap.Error(err))
			s.closeErr = err
			return
		}
		if s.Track.Transcoded {
			s.log.Info("temp artifact removed", zap.String("path", s.Track.DecodePath))
		}
	})
	return s.closeErr
}

// Run drives a loop headlessly at fps until playback ends or ctx is
// cancelled, drawing every tick onto dst.
func (s *Session) Run(ctx context.Context, dst visualizer.Surface, fps int) (visualizer.StopReason, error) {
	defer s.Close()
	if fps <= 0 {
		return visualizer.NotStopped, fmt.Errorf("fps must be positive, got %d", fps)
	}

	loop, err := s.Start()
	if err != nil {
		return visualizer.NotStopped, err
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for loop.Step(dst) == visualizer.Running {
		select {
		case <-ctx.Done():
			loop.RequestQuit()
		case <-ticker.C:
		}
	}
	return loop.StopReason(), nil
}
