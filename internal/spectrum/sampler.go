package spectrum

import "math"

// Sampler maps a playback time onto the frame sequence, interpolating
// linearly between the two frames surrounding it. The returned Frame is
// either one of the stored frames or the Sampler's internal buffer; it is
// only valid until the next call and must not be modified.
type Sampler struct {
	frames     Sequence
	sampleRate float64
	hop        int
	buf        Frame
}

// NewSampler creates a Sampler over frames produced with the given hop
// from audio at sampleRate Hz.
func NewSampler(frames Sequence, sampleRate float64, hop int) *Sampler {
	return &Sampler{
		frames:     frames,
		sampleRate: sampleRate,
		hop:        hop,
		buf:        make(Frame, frames.Bins()),
	}
}

// Sample returns the spectrum for playback time t in seconds.
func (s *Sampler) Sample(t float64) Frame {
	return sampleInto(s.buf, s.frames, t, s.sampleRate, s.hop)
}

// Sample is the allocating form of Sampler.Sample.
func Sample(frames Sequence, t, sampleRate float64, hop int) Frame {
	return sampleInto(make(Frame, frames.Bins()), frames, t, sampleRate, hop)
}

func sampleInto(dst Frame, frames Sequence, t, sampleRate float64, hop int) Frame {
	n := len(frames)
	if n == 0 || hop <= 0 {
		return nil
	}

	pos := t * sampleRate / float64(hop)
	if pos <= 0 || math.IsNaN(pos) {
		return frames[0]
	}
	// Past the end of the track: hold the last frame. Checked before the
	// int conversion so huge or infinite times cannot overflow the index.
	if pos >= float64(n-1) {
		return frames[n-1]
	}
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	if frac == 0 {
		return frames[i]
	}

	a, b := frames[i], frames[i+1]
	for k := range dst {
		dst[k] = (1-frac)*a[k] + frac*b[k]
	}
	return dst
}
