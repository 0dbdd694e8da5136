package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera position.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// cameraInputs is the snapshot UpdateMatrix compares against to decide
// whether the matrices are stale.
type cameraInputs struct {
	position Vector2
	scale    Vector2
	rotation float64
	offset   Vector2
}

// Camera2D maps world space onto the screen. Position is the screen-space
// offset of the world origin, Scale the zoom, and Rotation (radians) turns
// the view around the screen point passed to UpdateMatrix, normally the
// canvas center.
type Camera2D struct {
	Position Vector2
	Scale    Vector2
	Rotation float64

	// Viewport is the visible rectangle in screen pixels, refreshed from the
	// canvas size every frame by the renderer.
	Viewport Box2

	// Matrix maps world to screen; InverseMatrix maps screen to world.
	Matrix        Matrix2
	InverseMatrix Matrix2

	// Controls, when set, pan and zoom the camera from pointer input.
	Controls *CameraControls

	last  cameraInputs
	valid bool

	followTarget *Object2D
	followLerp   float64

	scrollTween *scrollAnim
}

// NewCamera2D returns a camera with unit scale and no offset.
func NewCamera2D() *Camera2D {
	return &Camera2D{
		Scale:         Vector2{1, 1},
		Matrix:        identityMatrix,
		InverseMatrix: identityMatrix,
		Viewport:      NewBox2(),
	}
}

// UpdateMatrix recomputes Matrix and InverseMatrix when any input changed:
//
//	Translate(+offset) * Rotate(rotation) * Translate(-offset) * Translate(position) * Scale(scale)
//
// Returns whether a recomputation happened.
func (c *Camera2D) UpdateMatrix(offsetX, offsetY float64) bool {
	c.Position.X = sanitizeOffset(c.Position.X)
	c.Position.Y = sanitizeOffset(c.Position.Y)
	c.Rotation = sanitizeOffset(c.Rotation)
	c.Scale.X = sanitizeScale(c.Scale.X)
	c.Scale.Y = sanitizeScale(c.Scale.Y)

	in := cameraInputs{c.Position, c.Scale, c.Rotation, Vector2{offsetX, offsetY}}
	if c.valid && in == c.last {
		return false
	}
	c.last = in
	c.valid = true

	m := identityMatrix
	m.Translate(offsetX, offsetY)
	m.Rotate(c.Rotation)
	m.Translate(-offsetX, -offsetY)
	m.Translate(c.Position.X, c.Position.Y)
	m.Scale(c.Scale.X, c.Scale.Y)
	c.Matrix = m

	if inv, err := m.Inverse(); err == nil {
		c.InverseMatrix = inv
	}
	return true
}

// MarkDirty forces the next UpdateMatrix to recompute.
func (c *Camera2D) MarkDirty() {
	c.valid = false
}

// UpdateViewport sets the viewport to a w by h screen rectangle.
func (c *Camera2D) UpdateViewport(w, h float64) {
	c.Viewport = B2(0, 0, w, h)
}

// IntersectsViewport reports whether a world-space box overlaps the viewport
// once its four corners are taken through Matrix.
func (c *Camera2D) IntersectsViewport(world Box2) bool {
	if world.IsEmpty() || c.Viewport.IsEmpty() {
		return false
	}
	return c.Viewport.IntersectsBox(world.Transform(c.Matrix))
}

// VisibleBounds returns the world-space box covering the viewport.
func (c *Camera2D) VisibleBounds() Box2 {
	return c.Viewport.Transform(c.InverseMatrix)
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera2D) WorldToScreen(p Vector2) Vector2 {
	return c.Matrix.TransformPoint(p)
}

// ScreenToWorld converts a screen point to world space.
func (c *Camera2D) ScreenToWorld(p Vector2) Vector2 {
	return c.InverseMatrix.TransformPoint(p)
}

// screenDeltaToPosition converts a screen-space movement into the change of
// Position that produces it. Position is applied after the view rotation.
func (c *Camera2D) screenDeltaToPosition(d Vector2) Vector2 {
	return d.Rotate(-c.Rotation)
}

// --- Follow & scroll ---

// Follow keeps target centered in the viewport. A lerp of 1 snaps; lower
// values ease toward the target each update.
func (c *Camera2D) Follow(target *Object2D, lerp float64) {
	c.followTarget = target
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera2D) Unfollow() {
	c.followTarget = nil
}

// centeredPosition returns the Position that puts world point p at the
// viewport center, ignoring rotation.
func (c *Camera2D) centeredPosition(p Vector2) Vector2 {
	center := c.Viewport.Center()
	return center.Sub(p.Mul(c.Scale))
}

// ScrollTo animates the camera so world point (x, y) ends up at the viewport
// center after duration seconds.
func (c *Camera2D) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	to := c.centeredPosition(Vector2{x, y})
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.Position.X), float32(to.X), duration, easeFn),
		tweenY: gween.New(float32(c.Position.Y), float32(to.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera2D) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances follow and scroll animation by dt seconds. The renderer
// calls it once per frame before refreshing the matrix.
func (c *Camera2D) Update(dt float32) {
	if c.followTarget != nil {
		if c.followTarget.IsDestroyed() {
			c.followTarget = nil
		} else {
			to := c.centeredPosition(c.followTarget.WorldPosition())
			c.Position = c.Position.Add(to.Sub(c.Position).MulScalar(c.followLerp))
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.Position.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Position.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}
}
