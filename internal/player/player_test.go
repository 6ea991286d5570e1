package player

import (
	"io"
	"testing"
)

type stubSink struct {
	buffered int
	playing  bool
	volume   float64
	plays    int
	pauses   int
}

func (s *stubSink) Play()               { s.playing = true; s.plays++ }
func (s *stubSink) Pause()              { s.playing = false; s.pauses++ }
func (s *stubSink) IsPlaying() bool     { return s.playing }
func (s *stubSink) BufferedSize() int   { return s.buffered }
func (s *stubSink) SetVolume(v float64) { s.volume = v }

func stubNewSink(t *testing.T, out *stubSink) {
	t.Helper()
	orig := newSink
	newSink = func(io.Reader) (sink, error) { return out, nil }
	t.Cleanup(func() { newSink = orig })
}

const oneSecond = playbackSampleRate * frameBytes

// one second of stereo audio at the output rate
func testPCM() *PCMBuffer {
	return &PCMBuffer{Samples: make([]int16, 2*playbackSampleRate), SampleRate: playbackSampleRate, Channels: 2}
}

func drain(t *testing.T, p *Player, n int) {
	t.Helper()
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.counter, buf); err != nil {
		t.Fatalf("reading %d bytes: %v", n, err)
	}
}

func TestElapsedBeforePlayIsZero(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, err := New(testPCM())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	secs, playing := p.Elapsed()
	if secs != 0 || !playing {
		t.Fatalf("expected (0, true) before Play, got (%v, %v)", secs, playing)
	}
}

func TestElapsedSubtractsBufferedBytes(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, err := New(testPCM())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	p.Play()
	drain(t, p, oneSecond/2)
	out.buffered = oneSecond / 10

	secs, playing := p.Elapsed()
	if !playing {
		t.Fatal("expected playback to be running")
	}
	if secs != 0.4 {
		t.Fatalf("expected 0.4s elapsed, got %v", secs)
	}
}

func TestElapsedIsMonotonic(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, _ := New(testPCM())
	p.Play()
	drain(t, p, oneSecond/2)
	first, _ := p.Elapsed()

	// the device buffer grew without more bytes being read
	out.buffered = oneSecond / 4
	second, _ := p.Elapsed()
	if second < first {
		t.Fatalf("elapsed went backwards: %v then %v", first, second)
	}
}

func TestElapsedReportsEndOnceDrained(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, _ := New(testPCM())
	p.Play()
	drain(t, p, oneSecond)
	out.buffered = 8
	if _, playing := p.Elapsed(); !playing {
		t.Fatal("expected playback to continue while the device buffer drains")
	}

	out.buffered = 0
	secs, playing := p.Elapsed()
	if playing {
		t.Fatal("expected end of playback")
	}
	if secs != 1 {
		t.Fatalf("expected final position 1s, got %v", secs)
	}

	// latched
	out.buffered = 8
	if _, playing := p.Elapsed(); playing {
		t.Fatal("expected end of playback to stay latched")
	}
}

func TestPausedPlayerDoesNotEnd(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, _ := New(testPCM())
	p.Play()
	drain(t, p, oneSecond)
	p.TogglePause()
	if !p.Paused() {
		t.Fatal("expected paused state")
	}
	if _, playing := p.Elapsed(); !playing {
		t.Fatal("paused playback must not report the end sentinel")
	}
	p.TogglePause()
	if p.Paused() || !out.playing {
		t.Fatal("expected playback to resume")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, _ := New(testPCM())
	p.AdjustVolume(1)
	if p.Volume() != 1 || out.volume != 1 {
		t.Fatalf("expected volume clamped to 1, got %v (sink %v)", p.Volume(), out.volume)
	}
	p.SetVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("expected volume clamped to 0, got %v", p.Volume())
	}
}

func TestPlayerCloseEndsPlaybackOnce(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, _ := New(testPCM())
	p.Play()
	p.Close()
	p.Close()

	if out.pauses != 1 {
		t.Fatalf("expected one pause on close, got %d", out.pauses)
	}
	if _, playing := p.Elapsed(); playing {
		t.Fatal("expected closed player to report end of playback")
	}
	p.Play()
	if out.plays != 1 {
		t.Fatal("expected Play after Close to be ignored")
	}
}

func TestNewRejectsEmptyBuffer(t *testing.T) {
	stubNewSink(t, &stubSink{})
	if _, err := New(&PCMBuffer{SampleRate: 44100, Channels: 2}); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestNewResamplesToOutputRate(t *testing.T) {
	out := &stubSink{}
	stubNewSink(t, out)

	p, err := New(&PCMBuffer{Samples: make([]int16, 22050), SampleRate: 44100, Channels: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.totalBytes != oneSecond/2 {
		t.Fatalf("expected %d output bytes, got %d", oneSecond/2, p.totalBytes)
	}
	if p.Duration() != 0.5 {
		t.Fatalf("expected duration 0.5s, got %v", p.Duration())
	}
}
