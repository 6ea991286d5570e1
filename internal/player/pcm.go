package player

import (
	"errors"
	"fmt"
)

// ErrNoAudio is returned when a file decodes to zero samples.
var ErrNoAudio = errors.New("no audio samples")

// PCMBuffer is a fully decoded track as interleaved signed 16-bit samples.
// It is never modified after decoding.
type PCMBuffer struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

func (b *PCMBuffer) validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.SampleRate)
	}
	if b.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", b.Channels)
	}
	if b.Frames() == 0 {
		return ErrNoAudio
	}
	return nil
}

// Frames returns the number of samples per channel.
func (b *PCMBuffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the track length in seconds.
func (b *PCMBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Mono returns channel 0 scaled to [-1, 1). Other channels are ignored,
// not mixed down.
func (b *PCMBuffer) Mono() []float64 {
	n := b.Frames()
	out := make([]float64, n)
	for i := range n {
		out[i] = float64(b.Samples[i*b.Channels]) / 32768.0
	}
	return out
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// to16 rescales a signed sample of the given bit depth to 16 bits.
func to16(v, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		return clamp16(v >> (bitDepth - 16))
	case bitDepth < 16:
		return clamp16(v << (16 - bitDepth))
	default:
		return clamp16(v)
	}
}
