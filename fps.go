package canopy

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often the FPS widget rewrites its text, in seconds.
const fpsRefresh = 0.5

// NewFPSWidget creates an object that displays the current FPS and TPS.
// Its text refreshes every half second from OnUpdate. It draws above
// everything on its layer and is never culled.
func NewFPSWidget() *Object2D {
	text := NewText("", Style{Fill: ColorWhite})
	o := NewShape("fps_widget", text)
	o.Layer = 255
	o.IgnoreViewport = true
	o.PointerEvents = false

	elapsed := fpsRefresh
	o.OnUpdate = func(dt float64) {
		elapsed += dt
		if elapsed < fpsRefresh {
			return
		}
		elapsed = 0
		text.Text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		o.InvalidateBounds()
	}
	return o
}
