package visualizer

import "github.com/olivier-w/specviz/internal/spectrum"

// Layout places the bars, progress bar and title on the surface, in
// surface pixels.
type Layout struct {
	BarHeight      int // pixel height of a magnitude of 1.0
	BarWidth       int
	BarStride      int // horizontal distance between bar origins
	Baseline       int // y of the bottom edge of the bars
	ProgressY      int
	ProgressHeight int
	TitleX         int
	TitleY         int
}

// DefaultLayout matches an 800x450 surface.
var DefaultLayout = Layout{
	BarHeight:      300,
	BarWidth:       6,
	BarStride:      8,
	Baseline:       400,
	ProgressY:      430,
	ProgressHeight: 10,
	TitleX:         20,
	TitleY:         20,
}

// Palette holds the scene colors.
type Palette struct {
	Background Color
	Bar        Color
	Progress   Color
	Text       Color
}

// Scene draws one visualization frame.
type Scene struct {
	Title   string
	Layout  Layout
	Palette Palette
}

// Draw renders bars for frame and a progress bar for progress in [0,1].
func (s *Scene) Draw(dst Surface, frame spectrum.Frame, progress float64) {
	width, _ := dst.Size()
	l := s.Layout

	dst.Fill(s.Palette.Background)

	for i, mag := range frame {
		x := i * l.BarStride
		if x >= width {
			// Higher bins fall off the right edge and are not drawn.
			break
		}
		h := int(mag * float64(l.BarHeight))
		if h <= 0 {
			continue
		}
		dst.FillRect(x, l.Baseline-h, l.BarWidth, h, s.Palette.Bar)
	}

	progress = clamp01(progress)
	if w := int(float64(width) * progress); w > 0 {
		dst.FillRect(0, l.ProgressY, w, l.ProgressHeight, s.Palette.Progress)
	}

	if s.Title != "" {
		dst.DrawText(l.TitleX, l.TitleY, s.Title, s.Palette.Text)
	}
}
