package visualizer

// Color is an RGB triple.
type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 255}
)

// Surface is a pixel-addressed drawing target refreshed once per tick.
// Drawing outside its bounds is clipped.
type Surface interface {
	Size() (width, height int)
	Fill(c Color)
	FillRect(x, y, w, h int, c Color)
	DrawText(x, y int, text string, c Color)
}

// OpKind identifies a recorded drawing operation.
type OpKind uint8

const (
	OpFill OpKind = iota
	OpRect
	OpText
)

// Op is one recorded drawing call.
type Op struct {
	Kind       OpKind
	X, Y, W, H int
	Text       string
	Color      Color
}

// Recorder is a Surface that keeps the drawing calls of the last frame so
// they can be replayed onto another surface later.
type Recorder struct {
	Width  int
	Height int
	Ops    []Op
}

// NewRecorder creates a Recorder with the given logical size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// Fill starts a new frame.
func (r *Recorder) Fill(c Color) {
	r.Ops = append(r.Ops[:0], Op{Kind: OpFill, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r.Ops = append(r.Ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawText(x, y int, text string, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, Color: c})
}

// Replay draws the recorded frame onto dst.
func (r *Recorder) Replay(dst Surface) {
	for _, op := range r.Ops {
		switch op.Kind {
		case OpFill:
			dst.Fill(op.Color)
		case OpRect:
			dst.FillRect(op.X, op.Y, op.W, op.H, op.Color)
		case OpText:
			dst.DrawText(op.X, op.Y, op.Text, op.Color)
		}
	}
}

// Rects returns the recorded rectangles in drawing order.
func (r *Recorder) Rects() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpRect {
			out = append(out, op)
		}
	}
	return out
}
