package canopy

import "math"

// CameraControls pans the camera while PanButton is held and zooms toward
// the pointer with the wheel. The renderer runs it before culling on frames
// without a drag object.
type CameraControls struct {
	Enabled   bool
	PanButton MouseButton
	// ZoomSpeed is the fractional zoom change per wheel notch.
	ZoomSpeed float64
	MinZoom   float64
	MaxZoom   float64

	panning bool
}

// NewCameraControls returns controls panning with the middle button.
func NewCameraControls() *CameraControls {
	return &CameraControls{
		Enabled:   true,
		PanButton: MouseButtonMiddle,
		ZoomSpeed: 0.1,
		MinZoom:   0.1,
		MaxZoom:   10,
	}
}

// Panning reports whether a pan is in progress.
func (cc *CameraControls) Panning() bool {
	return cc.panning
}

// Update applies this frame's pointer input to cam. offsetX and offsetY are
// the rotation pivot passed to Camera2D.UpdateMatrix.
func (cc *CameraControls) Update(cam *Camera2D, p Pointer, offsetX, offsetY float64) {
	if !cc.Enabled || p == nil {
		cc.panning = false
		return
	}

	if p.JustPressed(cc.PanButton) {
		cc.panning = true
	}
	if !p.Pressed(cc.PanButton) {
		cc.panning = false
	}
	if cc.panning {
		d := p.Delta()
		if d.X != 0 || d.Y != 0 {
			cam.Position = cam.Position.Add(cam.screenDeltaToPosition(d))
		}
	}

	if wheel := p.Wheel().Y; wheel != 0 {
		cc.zoomAt(cam, p.Position(), wheel, offsetX, offsetY)
	}
}

// zoomAt scales the camera by the wheel amount, keeping the world point
// under screen point s fixed.
func (cc *CameraControls) zoomAt(cam *Camera2D, s Vector2, wheel, offsetX, offsetY float64) {
	cam.UpdateMatrix(offsetX, offsetY)
	anchor := cam.ScreenToWorld(s)

	factor := math.Pow(1+cc.ZoomSpeed, wheel)
	zoom := cam.Scale.X * factor
	if cc.MinZoom > 0 {
		zoom = math.Max(zoom, cc.MinZoom)
	}
	if cc.MaxZoom > 0 {
		zoom = math.Min(zoom, cc.MaxZoom)
	}
	ratio := zoom / cam.Scale.X
	cam.Scale = Vector2{zoom, cam.Scale.Y * ratio}

	cam.UpdateMatrix(offsetX, offsetY)
	drift := s.Sub(cam.WorldToScreen(anchor))
	cam.Position = cam.Position.Add(cam.screenDeltaToPosition(drift))
}

// Recenter resets pan, zoom and rotation.
func (cc *CameraControls) Recenter(cam *Camera2D) {
	cam.Position = Vector2{}
	cam.Scale = Vector2{1, 1}
	cam.Rotation = 0
	cc.panning = false
}
