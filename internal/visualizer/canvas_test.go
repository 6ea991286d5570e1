package visualizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monoCanvas(width, height, cols, rows int) *Canvas {
	c := NewCanvas(width, height, cols, rows)
	c.profile = colorNone
	return c
}

func TestCanvasMapsRectsToHalfBlocks(t *testing.T) {
	c := monoCanvas(8, 8, 4, 2)
	c.Fill(Black)
	// top-left 2x2 pixels = one cell column, the upper of four pixel rows
	c.FillRect(0, 0, 2, 2, White)
	// bottom-right full cell
	c.FillRect(6, 4, 2, 4, White)

	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "▀   ", lines[0])
	assert.Equal(t, "   █", lines[1])
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := monoCanvas(8, 8, 4, 2)
	c.Fill(Black)
	c.FillRect(-10, 6, 100, 100, White)
	c.FillRect(20, 0, 5, 5, White)

	lines := strings.Split(c.String(), "\n")
	assert.Equal(t, "    ", lines[0])
	assert.Equal(t, "▄▄▄▄", lines[1])
}

func TestCanvasDrawText(t *testing.T) {
	c := monoCanvas(8, 8, 4, 2)
	c.Fill(Black)
	c.DrawText(2, 0, "abcdef", White)

	lines := strings.Split(c.String(), "\n")
	assert.Equal(t, " abc", lines[0])

	c.Fill(Black)
	assert.Equal(t, "    ", strings.Split(c.String(), "\n")[0], "Fill clears text")
}

func TestCanvasResizeKeepsPixelSpace(t *testing.T) {
	c := monoCanvas(800, 450, 10, 5)
	c.Resize(0, 0)
	cols, rows := c.Cells()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
	w, h := c.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 450, h)
}

func TestCanvasTrueColorEmitsSequences(t *testing.T) {
	c := NewCanvas(2, 2, 1, 1)
	c.profile = colorTrueColor
	c.Fill(Black)
	c.FillRect(0, 0, 2, 1, Red)

	out := c.String()
	assert.Contains(t, out, "\x1b[38;2;255;0;0m")
	assert.Contains(t, out, "\x1b[48;2;0;0;0m")
	assert.Contains(t, out, "▀")
	assert.True(t, strings.HasSuffix(out, "\x1b[0m"))
}

func TestDetectColorProfile(t *testing.T) {
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}
	assert.Equal(t, colorNone, detectColorProfile(env(map[string]string{"NO_COLOR": "", "COLORTERM": "truecolor"})))
	assert.Equal(t, colorTrueColor, detectColorProfile(env(map[string]string{"COLORTERM": "24bit"})))
	assert.Equal(t, colorANSI256, detectColorProfile(env(map[string]string{"TERM": "xterm-256color"})))
	assert.Equal(t, colorANSI16, detectColorProfile(env(map[string]string{"TERM": "xterm"})))
	assert.Equal(t, colorNone, detectColorProfile(env(map[string]string{"TERM": "dumb"})))
}

func TestColorSequence16PicksNearest(t *testing.T) {
	assert.Equal(t, "\x1b[31m", colorSequence(colorANSI16, Color{R: 250, G: 10, B: 10}, false))
	assert.Equal(t, "\x1b[41m", colorSequence(colorANSI16, Color{R: 250, G: 10, B: 10}, true))
}
