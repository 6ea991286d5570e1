package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/olivier-w/specviz/internal/media"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Track is a decoded audio file plus the temporary artifact, if any, that
// was created to decode it.
type Track struct {
	Path       string       // file the user asked for
	DecodePath string       // file actually decoded; a temp WAV when Transcoded
	Format     media.Format // resolved once at load time
	Transcoded bool
	PCM        *PCMBuffer

	cleanup  func() error
	once     sync.Once
	closeErr error
}

// NewTrack wraps an already decoded buffer. cleanup may be nil.
func NewTrack(path string, pcm *PCMBuffer, cleanup func() error) *Track {
	return &Track{Path: path, DecodePath: path, PCM: pcm, cleanup: cleanup}
}

// Load resolves the source for path, transcoding through ffmpeg when the
// format has no native decoder, and decodes it completely.
func Load(path string) (*Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	format, ok := media.FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w %s (supported: %s)", ErrUnsupportedFormat, filepath.Ext(path), media.SupportedExtsList())
	}

	t := &Track{Path: path, DecodePath: path, Format: format}
	decodeFormat := format
	if format == media.FormatTranscode {
		art, err := extractPCM(path)
		if err != nil {
			return nil, err
		}
		t.DecodePath = art.Path
		t.Transcoded = true
		t.cleanup = art.Remove
		decodeFormat = media.FormatWAV
	}

	pcm, err := decodeFile(t.DecodePath, decodeFormat)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	t.PCM = pcm
	return t, nil
}

func decodeFile(path string, format media.Format) (*PCMBuffer, error) {
	decode, err := decoderFor(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pcm, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := pcm.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return pcm, nil
}

// Close removes the temporary artifact. It is safe to call more than once.
func (t *Track) Close() error {
	t.once.Do(func() {
		if t.cleanup != nil {
			t.closeErr = t.cleanup()
		}
	})
	return t.closeErr
}
