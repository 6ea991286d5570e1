package session

import "github.com/olivier-w/specviz/internal/spectrum"

// Summary describes an analyzed track.
type Summary struct {
	Title      string
	Path       string
	Format     string
	Transcoded bool
	SampleRate int
	Channels   int
	Duration   float64
	ChunkSize  int
	Hop        int
	Frames     int
	Bins       int
	// PeakBin is the strongest bin of the mean spectrum; PeakHz is its
	// center frequency.
	PeakBin int
	PeakHz  float64
}

// Summary reports the analysis without starting playback.
func (s *Session) Summary() Summary {
	pcm := s.Track.PCM
	sum := Summary{
		Title:      s.Title,
		Path:       s.Track.Path,
		Format:     string(s.Track.Format),
		Transcoded: s.Track.Transcoded,
		SampleRate: pcm.SampleRate,
		Channels:   pcm.Channels,
		Duration:   pcm.Duration(),
		ChunkSize:  s.chunkSize,
		Hop:        s.hop,
		Frames:     len(s.Frames),
		Bins:       s.Frames.Bins(),
	}

	mean := make(spectrum.Frame, sum.Bins)
	for _, f := range s.Frames {
		for i, v := range f {
			mean[i] += v
		}
	}
	sum.PeakBin, _ = mean.Peak()
	sum.PeakHz = float64(sum.PeakBin) * float64(pcm.SampleRate) / float64(s.chunkSize)
	return sum
}
