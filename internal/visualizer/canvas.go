package visualizer

import "strings"

// Canvas is a terminal Surface. It maps a logical pixel space onto a grid
// of cols x rows character cells, each showing two vertically stacked
// pixels with an upper half block.
type Canvas struct {
	width   int
	height  int
	cols    int
	rows    int
	profile colorProfile

	px       []Color // cols x rows*2
	bg       Color
	text     []rune // cols x rows, 0 where no text
	textFG   []Color
	rendered string
}

// NewCanvas creates a canvas for a width x height pixel space shown in
// cols x rows cells.
func NewCanvas(width, height, cols, rows int) *Canvas {
	c := &Canvas{width: width, height: height, profile: currentColorProfile()}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid. The pixel space is unchanged.
func (c *Canvas) Resize(cols, rows int) {
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
	c.px = make([]Color, c.cols*c.rows*2)
	c.text = make([]rune, c.cols*c.rows)
	c.textFG = make([]Color, c.cols*c.rows)
	c.rendered = ""
}

// Cells returns the grid size in character cells.
func (c *Canvas) Cells() (cols, rows int) { return c.cols, c.rows }

func (c *Canvas) Size() (int, int) { return c.width, c.height }

func (c *Canvas) Fill(col Color) {
	c.bg = col
	for i := range c.px {
		c.px[i] = col
	}
	clear(c.text)
	c.rendered = ""
}

func (c *Canvas) FillRect(x, y, w, h int, col Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.width), min(y+h, c.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	vrows := c.rows * 2
	gx0 := x0 * c.cols / c.width
	gx1 := ceilDiv(x1*c.cols, c.width)
	gy0 := y0 * vrows / c.height
	gy1 := ceilDiv(y1*vrows, c.height)

	for gy := gy0; gy < min(gy1, vrows); gy++ {
		row := c.px[gy*c.cols : (gy+1)*c.cols]
		for gx := gx0; gx < min(gx1, c.cols); gx++ {
			row[gx] = col
		}
	}
	c.rendered = ""
}

func (c *Canvas) DrawText(x, y int, text string, col Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	gx := x * c.cols / c.width
	gy := y * c.rows / c.height
	for _, r := range text {
		if gx >= c.cols {
			break
		}
		c.text[gy*c.cols+gx] = r
		c.textFG[gy*c.cols+gx] = col
		gx++
	}
	c.rendered = ""
}

// String renders the grid as ANSI text, one line per row.
func (c *Canvas) String() string {
	if c.rendered != "" {
		return c.rendered
	}

	var sb strings.Builder
	state := newANSIState(c.profile)
	for row := range c.rows {
		if row > 0 {
			state.reset(&sb)
			sb.WriteByte('\n')
		}
		top := c.px[row*2*c.cols : (row*2+1)*c.cols]
		bot := c.px[(row*2+1)*c.cols : (row*2+2)*c.cols]
		for col := range c.cols {
			if r := c.text[row*c.cols+col]; r != 0 {
				state.setBG(&sb, top[col])
				state.setFG(&sb, c.textFG[row*c.cols+col])
				sb.WriteRune(r)
				continue
			}
			if c.profile == colorNone {
				sb.WriteRune(monoGlyph(top[col] != c.bg, bot[col] != c.bg))
				continue
			}
			state.setFG(&sb, top[col])
			state.setBG(&sb, bot[col])
			sb.WriteRune('▀')
		}
	}
	state.reset(&sb)
	c.rendered = sb.String()
	return c.rendered
}

func monoGlyph(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
