package player

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/olivier-w/specviz/internal/media"
)

// writeWAV writes interleaved samples as a 16-bit PCM WAV file.
func writeWAV(t *testing.T, path string, sampleRate, channels int, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing WAV encoder: %v", err)
	}
}

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 8000, 2, []int{100, -100, 200, -200, 300, -300})

	track, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer track.Close()

	if track.Format != media.FormatWAV || track.Transcoded {
		t.Fatalf("expected native WAV track, got %q transcoded=%v", track.Format, track.Transcoded)
	}
	pcm := track.PCM
	if pcm.SampleRate != 8000 || pcm.Channels != 2 || pcm.Frames() != 3 {
		t.Fatalf("unexpected PCM shape: rate=%d channels=%d frames=%d", pcm.SampleRate, pcm.Channels, pcm.Frames())
	}
	if pcm.Samples[2] != 200 || pcm.Samples[3] != -200 {
		t.Fatalf("unexpected samples %v", pcm.Samples)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "album.wav")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadEmptyWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	writeWAV(t, path, 8000, 1, nil)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestLoadTranscodedRemovesTempArtifactOnClose(t *testing.T) {
	restore := stubExtractDeps()
	defer restore()

	root := t.TempDir()
	tmpDir := filepath.Join(root, "job")
	ffmpegLookPath = func(string) (string, error) { return "ffmpeg", nil }
	mkdirTemp = func(string, string) (string, error) {
		return tmpDir, os.MkdirAll(tmpDir, 0o755)
	}
	ffmpegRun = func(name string, args ...string) ([]byte, error) {
		writeWAV(t, args[len(args)-1], 44100, 1, make([]int, 2048))
		return nil, nil
	}

	src := filepath.Join(root, "theme.m4a")
	if err := os.WriteFile(src, []byte("not really aac"), 0o644); err != nil {
		t.Fatal(err)
	}

	track, err := Load(src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !track.Transcoded || track.DecodePath != filepath.Join(tmpDir, "theme.wav") {
		t.Fatalf("expected transcoded track decoded from temp WAV, got %+v", track)
	}
	if track.PCM.Frames() != 2048 {
		t.Fatalf("expected 2048 frames, got %d", track.PCM.Frames())
	}

	if err := track.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := track.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := os.Stat(tmpDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp dir removed, stat err = %v", err)
	}
}

func TestLoadTranscodeDecodeFailureCleansUp(t *testing.T) {
	restore := stubExtractDeps()
	defer restore()

	root := t.TempDir()
	tmpDir := filepath.Join(root, "job")
	ffmpegLookPath = func(string) (string, error) { return "ffmpeg", nil }
	mkdirTemp = func(string, string) (string, error) {
		return tmpDir, os.MkdirAll(tmpDir, 0o755)
	}
	ffmpegRun = func(name string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(args[len(args)-1], []byte("garbage"), 0o644)
	}

	src := filepath.Join(root, "theme.aac")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(src); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(tmpDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp dir removed after failed decode, stat err = %v", err)
	}
}

func TestNewTrackCloseRunsCleanupOnce(t *testing.T) {
	calls := 0
	track := NewTrack("x.wav", &PCMBuffer{}, func() error {
		calls++
		return nil
	})
	track.Close()
	track.Close()
	if calls != 1 {
		t.Fatalf("expected cleanup to run once, got %d", calls)
	}
}

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	m := ReadMetadata(filepath.Join("lib", "jurassic_park.wav"))
	if m.Title != "jurassic_park" {
		t.Fatalf("expected file name title, got %q", m.Title)
	}
	if got := (Metadata{Title: "Theme", Artist: "Williams"}).DisplayTitle(); got != "Williams - Theme" {
		t.Fatalf("unexpected display title %q", got)
	}
}
