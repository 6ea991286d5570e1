package spectrum

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInsufficientAudio matches any InsufficientAudioError via errors.Is.
	ErrInsufficientAudio = errors.New("insufficient audio")
	// ErrInvalidHop is returned for a non-positive hop size.
	ErrInvalidHop = errors.New("hop size must be positive")
)

// InsufficientAudioError reports a track shorter than one analysis chunk.
type InsufficientAudioError struct {
	Samples   int
	ChunkSize int
}

func (e *InsufficientAudioError) Error() string {
	return fmt.Sprintf("insufficient audio: %d samples, need at least %d for one frame", e.Samples, e.ChunkSize)
}

func (e *InsufficientAudioError) Is(target error) bool {
	return target == ErrInsufficientAudio
}

// Sequence is the ordered list of frames for a whole track. Frame i covers
// the samples starting at i*hop.
type Sequence []Frame

// HopSize returns the hop between consecutive frames for chunkSize
// (75% overlap).
func HopSize(chunkSize int) int {
	return chunkSize / 4
}

// FrameCount returns how many frames Build produces for total samples.
// It returns 0 when total < chunkSize.
func FrameCount(total, chunkSize, hop int) int {
	if total < chunkSize || hop <= 0 {
		return 0
	}
	return (total-chunkSize)/hop + 1
}

// BuildOptions tunes Build.
type BuildOptions struct {
	// Workers bounds the number of goroutines computing frames.
	// Zero means GOMAXPROCS.
	Workers int
}

// Build computes the frame sequence of samples with windows of chunkSize
// starting at 0, hop, 2*hop, ... while start+chunkSize <= len(samples).
// Frames are independent, so ranges of them are computed concurrently.
func Build(ctx context.Context, samples []float64, chunkSize, hop int, opts BuildOptions) (Sequence, error) {
	if !IsPowerOfTwo(chunkSize) || chunkSize < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidChunkSize, chunkSize)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidHop, hop)
	}
	n := FrameCount(len(samples), chunkSize, hop)
	if n == 0 {
		return nil, &InsufficientAudioError{Samples: len(samples), ChunkSize: chunkSize}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	seq := make(Sequence, n)
	// one backing array keeps frames contiguous
	backing := make([]float64, n*(chunkSize/2))
	for i := range seq {
		seq[i] = Frame(backing[i*(chunkSize/2) : (i+1)*(chunkSize/2) : (i+1)*(chunkSize/2)])
	}

	g, ctx := errgroup.WithContext(ctx)
	per := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += per {
		hi := min(lo+per, n)
		g.Go(func() error {
			c, err := NewComputer(chunkSize)
			if err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				start := i * hop
				c.ComputeInto(seq[i], samples[start:start+chunkSize])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seq, nil
}

// Last returns the final frame, or nil for an empty sequence.
func (s Sequence) Last() Frame {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Bins returns the frame length shared by every frame in s.
func (s Sequence) Bins() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}
