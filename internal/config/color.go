package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/specviz/internal/visualizer"
)

// ParseColor accepts "#rrggbb" (or "#rgb") hex or an "r,g,b" decimal
// triple.
func ParseColor(s string) (visualizer.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return visualizer.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return visualizer.Color{R: r, G: g, B: b}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return visualizer.Color{}, fmt.Errorf("invalid color %q: want #rrggbb or r,g,b", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return visualizer.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return visualizer.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Palette resolves the display colors. barColor overrides the configured
// bar color when non-empty.
func (d DisplayConfig) Palette(barColor string) (visualizer.Palette, error) {
	if barColor == "" {
		barColor = d.BarColor
	}
	var p visualizer.Palette
	for _, f := range []struct {
		dst *visualizer.Color
		src string
	}{
		{&p.Background, d.Background},
		{&p.Bar, barColor},
		{&p.Progress, d.ProgressColor},
		{&p.Text, d.TextColor},
	} {
		c, err := ParseColor(f.src)
		if err != nil {
			return visualizer.Palette{}, err
		}
		*f.dst = c
	}
	return p, nil
}

// Layout returns the scene geometry.
func (d DisplayConfig) Layout() visualizer.Layout {
	l := visualizer.DefaultLayout
	l.BarHeight = d.BarHeight
	l.BarWidth = d.BarWidth
	l.BarStride = d.BarStride
	l.Baseline = d.Baseline
	l.ProgressY = d.ProgressY
	l.ProgressHeight = d.ProgressHeight
	return l
}
