package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// DefaultChunkSize is the analysis window length in samples.
const DefaultChunkSize = 1024

// ErrInvalidChunkSize is returned when a chunk size is not a power of two.
var ErrInvalidChunkSize = errors.New("chunk size must be a power of two >= 2")

// Frame is a normalized magnitude spectrum covering the non-negative
// frequencies of one analysis window. Values are in [0,1]; the largest is
// exactly 1 unless the window was silent, in which case all are 0.
type Frame []float64

// Peak returns the index and value of the largest magnitude in f.
// An empty frame reports index -1.
func (f Frame) Peak() (int, float64) {
	idx, peak := -1, 0.0
	for i, v := range f {
		if idx < 0 || v > peak {
			idx, peak = i, v
		}
	}
	return idx, peak
}

// Silent reports whether every magnitude in f is zero.
func (f Frame) Silent() bool {
	for _, v := range f {
		if v != 0 {
			return false
		}
	}
	return true
}

// Computer turns fixed-size PCM chunks into Frames. It owns its transform
// workspace, so a Computer must not be shared between goroutines.
type Computer struct {
	size   int
	fft    *fourier.FFT
	window []float64
	input  []float64
	coeffs []complex128
}

// NewComputer creates a Computer for chunks of size samples.
func NewComputer(size int) (*Computer, error) {
	if !IsPowerOfTwo(size) || size < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidChunkSize, size)
	}

	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 1
	}
	// w[n] = 0.5 - 0.5*cos(2πn/(N-1))
	window.Hann(coeffs)

	return &Computer{
		size:   size,
		fft:    fourier.NewFFT(size),
		window: coeffs,
		input:  make([]float64, size),
		coeffs: make([]complex128, size/2+1),
	}, nil
}

// Size returns the chunk length the Computer accepts.
func (c *Computer) Size() int { return c.size }

// Compute returns a newly allocated Frame of length Size()/2 for chunk.
// It panics if len(chunk) != Size().
func (c *Computer) Compute(chunk []float64) Frame {
	out := make(Frame, c.size/2)
	c.ComputeInto(out, chunk)
	return out
}

// ComputeInto writes the spectrum of chunk into dst, which must have
// length Size()/2.
func (c *Computer) ComputeInto(dst Frame, chunk []float64) {
	if len(chunk) != c.size {
		panic(fmt.Sprintf("spectrum: chunk length %d, want %d", len(chunk), c.size))
	}
	if len(dst) != c.size/2 {
		panic(fmt.Sprintf("spectrum: frame length %d, want %d", len(dst), c.size/2))
	}

	// DC removal
	var mean float64
	for _, v := range chunk {
		mean += v
	}
	mean /= float64(c.size)

	for i, v := range chunk {
		c.input[i] = (v - mean) * c.window[i]
	}

	c.fft.Coefficients(c.coeffs, c.input)

	var peak float64
	for i := range dst {
		m := cmplx.Abs(c.coeffs[i])
		dst[i] = m
		if m > peak {
			peak = m
		}
	}
	if peak == 0 {
		return
	}
	for i := range dst {
		dst[i] /= peak
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
