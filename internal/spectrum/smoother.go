package spectrum

import (
	"errors"
	"fmt"
)

// DefaultAlpha is the default smoothing factor.
const DefaultAlpha = 0.1

// ErrInvalidAlpha is returned for a smoothing factor outside (0,1].
var ErrInvalidAlpha = errors.New("alpha must be in (0,1]")

// Smoother keeps an exponential moving average of successive spectra.
// Lower alpha responds slower and looks smoother.
type Smoother struct {
	alpha float64
	state Frame
}

// NewSmoother creates a Smoother for frames of the given length, with its
// state initialized to zeros.
func NewSmoother(bins int, alpha float64) (*Smoother, error) {
	if !(alpha > 0 && alpha <= 1) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidAlpha, alpha)
	}
	return &Smoother{alpha: alpha, state: make(Frame, bins)}, nil
}

// Smooth folds sample into the state and returns the state.
func (s *Smoother) Smooth(sample Frame) Frame {
	return Smooth(s.state, sample, s.alpha)
}

// State returns the current accumulator.
func (s *Smoother) State() Frame { return s.state }

// Alpha returns the smoothing factor.
func (s *Smoother) Alpha() float64 { return s.alpha }

// Reset zeroes the accumulator.
func (s *Smoother) Reset() {
	clear(s.state)
}

// Smooth updates state in place with state[k] = alpha*sample[k] +
// (1-alpha)*state[k] and returns it.
func Smooth(state, sample Frame, alpha float64) Frame {
	n := min(len(state), len(sample))
	if alpha == 1 {
		copy(state, sample[:n])
		return state
	}
	for k := 0; k < n; k++ {
		state[k] = alpha*sample[k] + (1-alpha)*state[k]
	}
	return state
}
