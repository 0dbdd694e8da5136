package canopy

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrAlreadyRunning is returned by Start when the renderer's loop is active.
var ErrAlreadyRunning = errors.New("canopy: renderer is already running")

// FrameFunc is called before or after each rendered frame with the frame's
// dt in seconds.
type FrameFunc func(dt float64)

// game adapts a Renderer to ebiten.Game.
type game struct {
	r        *Renderer
	scene    *Object2D
	camera   *Camera2D
	before   FrameFunc
	after    FrameFunc
	canvas   *Canvas
	fps      *Object2D
	cursor   Cursor
	hasFrame bool
}

// Start opens a window from r.Config and renders scene through camera once
// per displayed frame until Stop is called or the window closes. before and
// after may be nil. Start blocks; it returns nil on a normal stop.
//
// If Config.TestScript is set, the script is loaded and replayed through
// the injection queue.
func (r *Renderer) Start(scene *Object2D, camera *Camera2D, before, after FrameFunc) error {
	if r.running {
		return ErrAlreadyRunning
	}
	cfg := r.Config
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultRunConfig()
		r.Config = cfg
	}
	if r.Pointer == nil {
		r.Pointer = NewEbitenPointer()
	}
	if r.Keyboard == nil {
		r.Keyboard = EbitenKeyboard{}
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		r.SetTestRunner(runner)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	// Clearing is the renderer's job.
	ebiten.SetScreenClearedEveryFrame(false)

	g := &game{
		r:      r,
		scene:  scene,
		camera: camera,
		before: before,
		after:  after,
		canvas: NewCanvas(nil),
	}
	if cfg.ShowFPS {
		g.fps = NewFPSWidget()
	}

	r.running = true
	r.stopped = false
	r.lastFrame = time.Time{}
	defer func() { r.running = false }()
	return ebiten.RunGame(g)
}

// Stop ends the loop started by Start after the current frame.
func (r *Renderer) Stop() {
	r.stopped = true
}

// Running reports whether Start's loop is active.
func (r *Renderer) Running() bool {
	return r.running
}

func (g *game) Update() error {
	if g.r.stopped {
		return ebiten.Termination
	}
	if g.r.testRunner != nil && g.r.testRunner.Done() && g.r.Config.TestScript != "" {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.r.lastFrame.IsZero() {
		dt = now.Sub(g.r.lastFrame).Seconds()
	}
	g.r.lastFrame = now

	g.canvas.SetTarget(screen)
	if g.before != nil {
		g.before(dt)
	}
	g.r.Render(g.scene, g.camera, g.canvas, dt)
	if g.after != nil {
		g.after(dt)
	}
	if g.fps != nil {
		g.fps.OnUpdate(dt)
		ebitenutil.DebugPrintAt(screen, g.fps.Shape.(*Text).Text, 4, 4)
	}

	if c := g.r.Cursor(); c != g.cursor || !g.hasFrame {
		ebiten.SetCursorShape(c.ebitenCursor())
		g.cursor = c
	}
	g.hasFrame = true
	g.r.flushScreenshots(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
