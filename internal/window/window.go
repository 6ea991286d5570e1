// Package window shows the scene in a native pixel window.
package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/olivier-w/specviz/internal/visualizer"
)

// Controls is the playback surface the keys act on.
type Controls interface {
	TogglePause()
	AdjustVolume(delta float64)
}

type input interface {
	quit() bool
	pause() bool
	volume() float64
}

type keyboard struct{}

func (keyboard) quit() bool {
	return ebiten.IsWindowBeingClosed() ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyQ)
}

func (keyboard) pause() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace)
}

func (keyboard) volume() float64 {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return 0.05
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return -0.05
	}
	return 0
}

// Game adapts a render loop to ebiten. Update advances the loop and
// records the frame; Draw replays it onto the screen.
type Game struct {
	loop     *visualizer.Loop
	controls Controls
	rec      *visualizer.Recorder
	in       input
}

// New creates a Game with a width x height logical screen.
func New(loop *visualizer.Loop, controls Controls, width, height int) *Game {
	return &Game{
		loop:     loop,
		controls: controls,
		rec:      visualizer.NewRecorder(width, height),
		in:       keyboard{},
	}
}

func (g *Game) Update() error {
	if g.in.quit() {
		g.loop.RequestQuit()
	}
	if g.in.pause() {
		g.controls.TogglePause()
	}
	if d := g.in.volume(); d != 0 {
		g.controls.AdjustVolume(d)
	}
	if g.loop.Step(g.rec) == visualizer.Stopped {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.rec.Replay(imageSurface{screen})
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	return g.rec.Size()
}

// Run opens the window and blocks until the loop stops.
func Run(g *Game, title string, fps int) error {
	w, h := g.rec.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(fps)
	ebiten.SetWindowClosingHandled(true)
	return ebiten.RunGame(g)
}

// imageSurface draws onto an ebiten image.
type imageSurface struct {
	img *ebiten.Image
}

func (s imageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s imageSurface) Fill(c visualizer.Color) {
	s.img.Fill(rgba(c))
}

func (s imageSurface) FillRect(x, y, w, h int, c visualizer.Color) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), rgba(c), false)
}

// DrawText uses the debug font, which is always white.
func (s imageSurface) DrawText(x, y int, text string, _ visualizer.Color) {
	ebitenutil.DebugPrintAt(s.img, text, x, y)
}

func rgba(c visualizer.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
