package player

import (
	"bytes"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	outputChannels = 2
	bytesPerSample = 2 // 16-bit
	frameBytes     = outputChannels * bytesPerSample
)

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

// sink is the part of *oto.Player the Player drives.
type sink interface {
	Play()
	Pause()
	IsPlaying() bool
	BufferedSize() int
	SetVolume(float64)
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// openOto opens the process-wide audio context at playbackSampleRate.
func openOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

var newSink = func(r io.Reader) (sink, error) {
	ctx, err := openOto()
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(r), nil
}

// Player plays a decoded track and reports how far playback has got.
type Player struct {
	counter     *countingReader
	out         sink
	totalBytes  int64
	bytesPerSec int64
	duration    float64
	volume      float64
	paused      bool
	started     bool
	ended       bool
	last        float64
	mu          sync.Mutex
	closed      bool
}

// New prepares pcm for playback. Playback starts with Play.
func New(pcm *PCMBuffer) (*Player, error) {
	if err := pcm.validate(); err != nil {
		return nil, err
	}
	raw := toPlaybackPCM(pcm)
	cr := &countingReader{reader: bytes.NewReader(raw)}

	out, err := newSink(cr)
	if err != nil {
		return nil, err
	}

	p := &Player{
		counter:     cr,
		out:         out,
		totalBytes:  int64(len(raw)),
		bytesPerSec: playbackSampleRate * frameBytes,
		duration:    pcm.Duration(),
		volume:      0.8,
	}
	p.out.SetVolume(p.volume)
	return p, nil
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.started = true
	p.paused = false
	p.out.Play()
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.ended {
		return
	}

	if p.paused {
		p.out.Play()
		p.paused = false
	} else {
		p.out.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Elapsed returns the playback position in seconds. playing is false once
// the whole track has been heard (or the player was closed); from then on
// the position stays at its final value.
func (p *Player) Elapsed() (seconds float64, playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ended || p.closed {
		return p.last, false
	}
	if !p.started {
		return 0, true
	}

	consumed := p.counter.Pos()
	buffered := int64(p.out.BufferedSize())
	if !p.paused && consumed >= p.totalBytes && (buffered == 0 || !p.out.IsPlaying()) {
		p.ended = true
		p.last = p.duration
		return p.last, false
	}

	played := consumed - buffered
	if played < 0 {
		played = 0
	}
	secs := float64(played) / float64(p.bytesPerSec)
	if secs < p.last {
		secs = p.last
	}
	p.last = secs
	return secs, true
}

// Duration returns the total duration of the track in seconds.
func (p *Player) Duration() float64 {
	return p.duration
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	if p.out != nil {
		p.out.SetVolume(v)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback. It is safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.out != nil {
		p.out.Pause()
	}
}
