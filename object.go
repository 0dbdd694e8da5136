package canopy

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Shape is the geometry of a drawable object. BoundingBox and Contains work
// in the object's local coordinate space; Draw issues geometry into ctx,
// whose transform has already been set to the object's screen transform.
type Shape interface {
	BoundingBox() Box2
	Contains(local Vector2) bool
	Draw(ctx Context)
}

// Styler is implemented by shapes that set fill/stroke state before Draw.
type Styler interface {
	ApplyStyle(ctx Context)
}

// MatrixMode controls when UpdateMatrix recomputes an object's matrices.
type MatrixMode uint8

const (
	// MatrixAuto recomputes on every sweep.
	MatrixAuto MatrixMode = iota
	// MatrixDirty recomputes on the next sweep, then becomes MatrixFrozen.
	MatrixDirty
	// MatrixFrozen skips recomputation until marked dirty or forced.
	MatrixFrozen
)

// PointerContext carries pointer event data.
type PointerContext struct {
	Object    *Object2D
	Pointer   Pointer
	Camera    *Camera2D
	Screen    Vector2 // pointer position in screen pixels
	World     Vector2 // pointer position in world space
	Local     Vector2 // pointer position in the object's local space
	Button    MouseButton
	Modifiers KeyModifiers
}

// DragContext carries drag event data.
type DragContext struct {
	Object      *Object2D
	Pointer     Pointer
	Camera      *Camera2D
	Screen      Vector2 // current pointer position in screen pixels
	World       Vector2 // current pointer position in world space
	ScreenStart Vector2 // pointer position when the drag started
	WorldStart  Vector2
	ScreenDelta Vector2 // movement since the previous frame
	WorldDelta  Vector2
	Slop        float64 // manhattan distance in pixels before movement commits
	Button      MouseButton
	Modifiers   KeyModifiers
}

// --- ID counter ---

// objectIDCounter is a plain counter (no atomic — canopy is single-threaded).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// Object2D is the scene graph node. Every drawable, container, mask, and tool
// handle is an Object2D; what it looks like and where it can be hit is
// delegated to its Shape.
type Object2D struct {
	// Identity
	ID   uint32
	UUID string
	Name string

	// Hierarchy
	Parent   *Object2D
	children []*Object2D

	// Transform (local)
	Position Vector2
	Scale    Vector2
	Rotation float64 // radians
	Origin   Vector2 // pivot for rotation and scale, in local units

	// Computed
	Matrix              Matrix2
	GlobalMatrix        Matrix2
	InverseGlobalMatrix Matrix2
	MatrixMode          MatrixMode
	GlobalOpacity       float64

	// Bounds in local space, refreshed from Shape by ComputeBoundingBox.
	BoundingBox Box2
	boundsDirty bool

	// Visibility & interaction
	Visible        bool
	PointerEvents  bool
	Draggable      bool
	Focusable      bool
	Selectable     bool
	IgnoreViewport bool
	Opacity        float64
	Cursor         Cursor

	// Ordering
	Layer int
	Level int

	// Masking. A mask object is never drawn directly; objects listing it in
	// Masks are clipped to its shape.
	IsMask bool
	Masks  []*Object2D

	Shape Shape

	// Metadata
	UserData any
	EntityID uint32

	// Transient interaction state
	IsSelected    bool
	pointerInside bool
	inViewport    bool
	beingDragged  bool
	dragCommitted bool

	// Hooks (nil by default; skipped when nil)
	OnAdd              func(parent *Object2D)
	OnRemove           func(parent *Object2D)
	OnUpdate           func(dt float64)
	OnPointerEnter     func(PointerContext)
	OnPointerLeave     func(PointerContext)
	OnPointerOver      func(PointerContext)
	OnButtonDown       func(PointerContext)
	OnButtonUp         func(PointerContext)
	OnButtonPressed    func(PointerContext)
	OnDoubleClick      func(PointerContext)
	OnPointerDragStart func(DragContext)
	OnPointerDrag      func(DragContext) // nil falls back to ApplyDrag
	OnPointerDragEnd   func(DragContext)

	destroyed bool
}

// NewObject2D creates a standalone object with no shape.
func NewObject2D(name string) *Object2D {
	o := &Object2D{
		ID:                  nextObjectID(),
		UUID:                uuid.NewString(),
		Name:                name,
		Scale:               Vector2{1, 1},
		Matrix:              identityMatrix,
		GlobalMatrix:        identityMatrix,
		InverseGlobalMatrix: identityMatrix,
		GlobalOpacity:       1,
		BoundingBox:         NewBox2(),
		Visible:             true,
		PointerEvents:       true,
		Opacity:             1,
		boundsDirty:         true,
	}
	return o
}

// NewShape creates an object drawn and hit-tested by shape.
func NewShape(name string, shape Shape) *Object2D {
	o := NewObject2D(name)
	o.Shape = shape
	o.ComputeBoundingBox()
	return o
}

// NewScene creates a root container for a scene tree. It has no shape and
// does not take part in pointer dispatch.
func NewScene() *Object2D {
	o := NewObject2D("scene")
	o.PointerEvents = false
	return o
}

// --- Transform property setters ---

// SetPosition sets the local position and marks the object dirty.
func (o *Object2D) SetPosition(x, y float64) {
	o.Position = Vector2{x, y}
	o.MarkDirty()
}

// SetScale sets the local scale and marks the object dirty.
func (o *Object2D) SetScale(sx, sy float64) {
	o.Scale = Vector2{sx, sy}
	o.MarkDirty()
}

// SetRotation sets the rotation (in radians) and marks the object dirty.
func (o *Object2D) SetRotation(r float64) {
	o.Rotation = r
	o.MarkDirty()
}

// SetOrigin sets the pivot point and marks the object dirty.
func (o *Object2D) SetOrigin(x, y float64) {
	o.Origin = Vector2{x, y}
	o.MarkDirty()
}

// SetOpacity sets the opacity and marks the object dirty.
func (o *Object2D) SetOpacity(a float64) {
	o.Opacity = a
	o.MarkDirty()
}

// MarkDirty schedules a matrix recomputation for a frozen object. Objects in
// MatrixAuto mode recompute every sweep anyway.
func (o *Object2D) MarkDirty() {
	if o.MatrixMode == MatrixFrozen {
		o.MatrixMode = MatrixDirty
	}
}

// SetMatrixAutoUpdate switches between MatrixAuto and manual (dirty-driven)
// recomputation.
func (o *Object2D) SetMatrixAutoUpdate(auto bool) {
	if auto {
		o.MatrixMode = MatrixAuto
	} else {
		o.MatrixMode = MatrixDirty
	}
}

// --- Matrices ---

// sanitizeTransform clamps local transform values that would corrupt the
// matrix hierarchy: NaN offsets become 0, zero or NaN scales become a signed
// epsilon.
func (o *Object2D) sanitizeTransform() {
	o.Position.X = sanitizeOffset(o.Position.X)
	o.Position.Y = sanitizeOffset(o.Position.Y)
	o.Origin.X = sanitizeOffset(o.Origin.X)
	o.Origin.Y = sanitizeOffset(o.Origin.Y)
	o.Rotation = sanitizeOffset(o.Rotation)
	o.Scale.X = sanitizeScale(o.Scale.X)
	o.Scale.Y = sanitizeScale(o.Scale.Y)
}

// UpdateMatrix recomputes Matrix, GlobalMatrix, InverseGlobalMatrix and
// GlobalOpacity when force is set or the object's MatrixMode asks for it.
// The parent's GlobalMatrix must already be current. Returns whether a
// recomputation happened.
func (o *Object2D) UpdateMatrix(force bool) bool {
	if !force && o.MatrixMode == MatrixFrozen {
		return false
	}
	o.sanitizeTransform()

	// Translate(position) * Rotate * Scale * Translate(-origin)
	o.Matrix.Compose(o.Position.X, o.Position.Y, o.Scale.X, o.Scale.Y, o.Rotation)
	if o.Origin.X != 0 || o.Origin.Y != 0 {
		o.Matrix.Translate(-o.Origin.X, -o.Origin.Y)
	}

	o.GlobalMatrix = o.Matrix
	parentOpacity := 1.0
	if o.Parent != nil {
		o.GlobalMatrix.Premultiply(o.Parent.GlobalMatrix)
		parentOpacity = o.Parent.GlobalOpacity
	}
	o.GlobalOpacity = parentOpacity * o.Opacity

	inv, err := o.GlobalMatrix.Inverse()
	if err != nil {
		// Unreachable while scales are sanitized; keep the last good inverse.
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] error: %v (object %q)\n", err, o.Name)
	} else {
		o.InverseGlobalMatrix = inv
	}

	if o.MatrixMode == MatrixDirty {
		o.MatrixMode = MatrixFrozen
	}
	return true
}

// UpdateWorldMatrix force-recomputes the matrices of every ancestor, top
// down, then of this object. Use it outside the frame loop when a current
// GlobalMatrix is needed immediately.
func (o *Object2D) UpdateWorldMatrix() {
	var chain []*Object2D
	for p := o; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].UpdateMatrix(true)
	}
}

// sweepScratch holds the child lists being swept by updateSubtreeMatrices,
// one segment per depth, so OnUpdate can detach objects mid-sweep.
var sweepScratch []*Object2D

// updateSubtreeMatrices refreshes o and its descendants in pre-order. When
// o's global matrix or opacity actually changed, its children are forced so
// frozen descendants follow it; otherwise each child follows its own mode.
// Children detached by an OnUpdate earlier in the sweep are skipped.
func updateSubtreeMatrices(o *Object2D, parentChanged bool, dt float64) {
	prevGlobal, prevOpacity := o.GlobalMatrix, o.GlobalOpacity
	o.UpdateMatrix(parentChanged)
	changed := o.GlobalMatrix != prevGlobal || o.GlobalOpacity != prevOpacity
	if o.OnUpdate != nil {
		o.OnUpdate(dt)
	}
	if len(o.children) == 0 {
		return
	}

	base := len(sweepScratch)
	sweepScratch = append(sweepScratch, o.children...)
	end := len(sweepScratch)
	for i := base; i < end; i++ {
		child := sweepScratch[i]
		if child.Parent != o {
			continue
		}
		updateSubtreeMatrices(child, changed, dt)
	}
	clear(sweepScratch[base:end])
	sweepScratch = sweepScratch[:base]
}

// WorldPosition returns the translation of GlobalMatrix.
func (o *Object2D) WorldPosition() Vector2 {
	return o.GlobalMatrix.Position()
}

// WorldRotation returns the rotation of GlobalMatrix.
func (o *Object2D) WorldRotation() float64 {
	return o.GlobalMatrix.Rotation()
}

// WorldScale returns the scale of GlobalMatrix.
func (o *Object2D) WorldScale() Vector2 {
	return o.GlobalMatrix.ScaleVector()
}

// WorldToLocal converts a world-space point to this object's local space.
func (o *Object2D) WorldToLocal(p Vector2) Vector2 {
	return o.InverseGlobalMatrix.TransformPoint(p)
}

// LocalToWorld converts a local-space point to world space.
func (o *Object2D) LocalToWorld(p Vector2) Vector2 {
	return o.GlobalMatrix.TransformPoint(p)
}

// --- Bounds & hit testing ---

// ComputeBoundingBox refreshes BoundingBox from the Shape. Objects without a
// shape keep their current box.
func (o *Object2D) ComputeBoundingBox() {
	if o.Shape != nil {
		o.BoundingBox = o.Shape.BoundingBox()
	}
	o.boundsDirty = false
}

// InvalidateBounds asks the renderer to recompute BoundingBox on its next
// frame. Shapes whose size changes asynchronously (image loads) call this.
func (o *Object2D) InvalidateBounds() {
	o.boundsDirty = true
}

// IsInside reports whether a local-space point hits the Shape.
func (o *Object2D) IsInside(local Vector2) bool {
	if o.Shape == nil {
		return false
	}
	return o.Shape.Contains(local)
}

// IsWorldPointInside converts p to local space and hit-tests it. When
// recursive is set, a hit on any descendant also counts.
func (o *Object2D) IsWorldPointInside(p Vector2, recursive bool) bool {
	if o.IsInside(o.InverseGlobalMatrix.TransformPoint(p)) {
		return true
	}
	if recursive {
		for _, child := range o.children {
			if child.IsWorldPointInside(p, true) {
				return true
			}
		}
	}
	return false
}

// WorldPointIntersections returns every visible object in this subtree hit by
// the world point p, topmost first: higher Layer wins, then deeper Level.
// Equal keys keep traversal order.
func (o *Object2D) WorldPointIntersections(p Vector2) []*Object2D {
	var hits []*Object2D
	o.TraverseVisible(func(child *Object2D) bool {
		if child.IsInside(child.InverseGlobalMatrix.TransformPoint(p)) {
			hits = append(hits, child)
		}
		return false
	})
	sortFrontToBack(hits)
	return hits
}

// WorldBoundingBox returns the axis-aligned world box spanning all four
// corners of BoundingBox transformed by GlobalMatrix.
func (o *Object2D) WorldBoundingBox() Box2 {
	return o.BoundingBox.Transform(o.GlobalMatrix)
}

// InViewport reports whether the last rendered frame found the object inside
// the camera viewport.
func (o *Object2D) InViewport() bool {
	return o.inViewport
}

// PointerInside reports whether the pointer was over the object last frame.
func (o *Object2D) PointerInside() bool {
	return o.pointerInside
}

// BeingDragged reports whether the object is the renderer's drag object.
func (o *Object2D) BeingDragged() bool {
	return o.beingDragged
}

// --- Dragging ---

// ApplyDrag is the default drag behavior: it moves the object by the
// pointer's world delta expressed in the parent's space.
func (o *Object2D) ApplyDrag(ctx DragContext) {
	if d, ok := o.DragDelta(ctx); ok {
		o.moveByWorld(d)
	}
}

// DragDelta returns the world-space movement to apply for this drag frame.
// Nothing is reported until the pointer has travelled Slop (manhattan,
// screen pixels) from where the drag started; the movement held back until
// then is reported at once.
func (o *Object2D) DragDelta(ctx DragContext) (Vector2, bool) {
	if !o.dragCommitted {
		if ctx.Screen.ManhattanDistanceTo(ctx.ScreenStart) < ctx.Slop {
			return Vector2{}, false
		}
		o.dragCommitted = true
		return ctx.World.Sub(ctx.WorldStart), true
	}
	return ctx.WorldDelta, true
}

// DragCommitted reports whether the current drag has passed the slop
// threshold.
func (o *Object2D) DragCommitted() bool {
	return o.dragCommitted
}

// moveByWorld translates the object by a world-space delta.
func (o *Object2D) moveByWorld(d Vector2) {
	if d.X == 0 && d.Y == 0 {
		return
	}
	if o.Parent != nil {
		d = o.Parent.InverseGlobalMatrix.TransformVector(d)
	}
	o.Position = o.Position.Add(d)
	o.MarkDirty()
}
