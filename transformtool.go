package canopy

import "math"

// HandleKind identifies one of the transform tool's handles.
type HandleKind uint8

const (
	HandleTopLeft HandleKind = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
	numHandles
)

// handleAxes gives each resize handle's position on the controller's
// [-1, 1] box. A zero component means the handle does not resize that axis.
var handleAxes = [numHandles]Vector2{
	HandleTopLeft:     {-1, -1},
	HandleTop:         {0, -1},
	HandleTopRight:    {1, -1},
	HandleRight:       {1, 0},
	HandleBottomRight: {1, 1},
	HandleBottom:      {0, 1},
	HandleBottomLeft:  {-1, 1},
	HandleLeft:        {-1, 0},
}

var handleCursors = [numHandles]Cursor{
	HandleTopLeft:     CursorResizeNWSE,
	HandleTop:         CursorResizeNS,
	HandleTopRight:    CursorResizeNESW,
	HandleRight:       CursorResizeEW,
	HandleBottomRight: CursorResizeNWSE,
	HandleBottom:      CursorResizeNS,
	HandleBottomLeft:  CursorResizeNESW,
	HandleLeft:        CursorResizeEW,
	HandleRotate:      CursorCrosshair,
}

const (
	// toolLayer puts the tool above ordinary content.
	toolLayer = 1 << 20

	defaultHandleSize   = 10 // screen pixels
	defaultRotateOffset = 24 // screen pixels above the top edge
	rotateSnap          = math.Pi / 12
)

// targetSnapshot is a target's global matrix at drag start.
type targetSnapshot struct {
	object *Object2D
	global Matrix2
}

// TransformTool moves, resizes and rotates a selection. It owns an
// invisible-filled controller object whose local box is [-1, 1] on both
// axes, scaled to half the selection's size, with eight resize handles and
// one rotate handle as children. Dragging the controller or a handle changes
// the controller, and every target's global matrix is then rebuilt from its
// drag-start snapshot relative to the controller.
//
// Add Controller to the scene root.
type TransformTool struct {
	Controller *Object2D

	// HandleSize and RotateOffset are in screen pixels.
	HandleSize   float64
	RotateOffset float64

	// OnChange fires when a drag on the tool ends.
	OnChange func(targets []*Object2D)

	camera  *Camera2D
	handles [numHandles]*Object2D
	targets []*Object2D

	startController Matrix2
	startInverse    Matrix2
	startCenter     Vector2
	startTargets    []targetSnapshot
}

// NewTransformTool builds a hidden tool. camera is used to keep the handles
// a constant size on screen.
func NewTransformTool(camera *Camera2D) *TransformTool {
	t := &TransformTool{
		HandleSize:   defaultHandleSize,
		RotateOffset: defaultRotateOffset,
		camera:       camera,
	}

	ctl := NewShape("transform_tool", &Box{
		Style: Style{Stroke: HandleStrokeColor, LineWidth: 1},
		Rect:  B2(-1, -1, 1, 1),
	})
	ctl.Visible = false
	ctl.Draggable = true
	ctl.Cursor = CursorMove
	ctl.Layer = toolLayer
	ctl.OnPointerDragStart = t.beginDrag
	ctl.OnPointerDrag = t.translate
	ctl.OnPointerDragEnd = t.endDrag
	ctl.OnUpdate = func(float64) { t.layoutHandles() }
	t.Controller = ctl

	handleStyle := Style{Fill: HandleColor, Stroke: HandleStrokeColor, LineWidth: 1}
	for k := HandleKind(0); k < numHandles; k++ {
		var shape Shape
		if k == HandleRotate {
			shape = NewCircle(0.5, handleStyle)
		} else {
			shape = NewBox(1, 1, handleStyle)
		}
		h := NewShape(handleName(k), shape)
		h.Draggable = true
		h.Cursor = handleCursors[k]
		h.Layer = toolLayer
		kind := k
		h.OnPointerDragStart = t.beginDrag
		h.OnPointerDrag = func(dc DragContext) { t.handleDrag(kind, dc) }
		h.OnPointerDragEnd = t.endDrag
		t.handles[k] = h
		ctl.Add(h)
	}
	return t
}

func handleName(k HandleKind) string {
	names := [numHandles]string{
		"handle_tl", "handle_t", "handle_tr", "handle_r",
		"handle_br", "handle_b", "handle_bl", "handle_l", "handle_rotate",
	}
	return names[k]
}

// Handle returns the handle object of the given kind.
func (t *TransformTool) Handle(kind HandleKind) *Object2D {
	return t.handles[kind]
}

// Targets returns the current selection. The returned slice MUST NOT be
// mutated by the caller.
func (t *TransformTool) Targets() []*Object2D {
	return t.targets
}

// Select replaces the selection and fits the controller to it. With no
// targets the tool hides.
func (t *TransformTool) Select(targets ...*Object2D) {
	for _, o := range t.targets {
		o.IsSelected = false
	}
	t.targets = t.targets[:0]
	for _, o := range targets {
		if o != nil && !o.destroyed {
			t.targets = append(t.targets, o)
			o.IsSelected = true
		}
	}
	t.Refit()
}

// Refit fits the controller to the targets' current transforms. A single
// target gets an oriented frame; several get their combined world box.
func (t *TransformTool) Refit() {
	ctl := t.Controller
	if len(t.targets) == 0 {
		ctl.Visible = false
		return
	}
	ctl.Visible = true

	var world Matrix2
	if len(t.targets) == 1 {
		o := t.targets[0]
		o.UpdateWorldMatrix()
		world = o.GlobalMatrix
		b := o.BoundingBox
		if b.IsEmpty() {
			b = B2(0, 0, 0, 0)
		}
		c := b.Center()
		half := b.Size().MulScalar(0.5)
		world.Translate(c.X, c.Y)
		world.Scale(sanitizeScale(half.X), sanitizeScale(half.Y))
	} else {
		union := NewBox2()
		for _, o := range t.targets {
			o.UpdateWorldMatrix()
			union.Union(o.WorldBoundingBox())
		}
		c := union.Center()
		half := union.Size().MulScalar(0.5)
		world.Compose(c.X, c.Y, sanitizeScale(half.X), sanitizeScale(half.Y), 0)
	}

	if ctl.Parent != nil {
		ctl.Parent.UpdateWorldMatrix()
	}
	setLocalFromWorld(ctl, world)
	ctl.UpdateMatrix(true)
	t.layoutHandles()
}

// --- Drag protocol ---

// beginDrag snapshots the controller and every target.
func (t *TransformTool) beginDrag(DragContext) {
	ctl := t.Controller
	ctl.UpdateWorldMatrix()
	t.startController = ctl.GlobalMatrix
	t.startInverse = ctl.InverseGlobalMatrix
	t.startCenter = ctl.WorldPosition()

	t.startTargets = t.startTargets[:0]
	for _, o := range t.targets {
		o.UpdateWorldMatrix()
		t.startTargets = append(t.startTargets, targetSnapshot{object: o, global: o.GlobalMatrix})
	}
}

func (t *TransformTool) endDrag(DragContext) {
	if t.OnChange != nil {
		t.OnChange(t.targets)
	}
}

// translate moves the controller with the pointer.
func (t *TransformTool) translate(dc DragContext) {
	ctl := t.Controller
	d, ok := ctl.DragDelta(dc)
	if !ok {
		return
	}
	ctl.moveByWorld(d)
	t.apply()
}

func (t *TransformTool) handleDrag(kind HandleKind, dc DragContext) {
	h := t.handles[kind]
	d, ok := h.DragDelta(dc)
	if !ok {
		return
	}
	if kind == HandleRotate {
		t.rotate(dc)
		return
	}
	t.resize(kind, d, dc.Modifiers)
}

// resize applies one frame of world movement d to the given handle. The
// movement is taken into controller space and masked to the handle's axes;
// the edge opposite the handle stays put. Shift on a corner keeps the
// aspect ratio.
func (t *TransformTool) resize(kind HandleKind, d Vector2, mods KeyModifiers) {
	ctl := t.Controller
	h := handleAxes[kind]

	local := ctl.InverseGlobalMatrix.TransformVector(d)
	local = Vector2{local.X * math.Abs(h.X), local.Y * math.Abs(h.Y)}

	// The box spans 2 local units, so a moving edge changes the size by
	// h*local out of 2.
	mul := Vector2{1 + h.X*local.X/2, 1 + h.Y*local.Y/2}
	if mods.Has(ModShift) && h.X != 0 && h.Y != 0 {
		u := (mul.X + mul.Y) / 2
		mul = Vector2{u, u}
		local = Vector2{(u - 1) * 2 * h.X, (u - 1) * 2 * h.Y}
	}

	// The center follows the moving edge by half its travel.
	shift := ctl.Matrix.TransformVector(local.MulScalar(0.5))
	ctl.Position = ctl.Position.Add(shift)
	ctl.Scale = Vector2{
		sanitizeScale(ctl.Scale.X * mul.X),
		sanitizeScale(ctl.Scale.Y * mul.Y),
	}
	ctl.MarkDirty()
	t.apply()
}

// rotate turns the selection around the controller's drag-start center by
// the signed angle between the drag-start and current pointer directions.
// Shift snaps to 15 degree steps.
func (t *TransformTool) rotate(dc DragContext) {
	from := dc.WorldStart.Sub(t.startCenter)
	to := dc.World.Sub(t.startCenter)
	angle := from.AngleBetween(to)
	if dc.Modifiers.Has(ModShift) {
		angle = math.Round(angle/rotateSnap) * rotateSnap
	}

	turn := rotationAbout(t.startCenter, angle)
	world := t.startController
	world.Premultiply(turn)
	setLocalFromWorld(t.Controller, world)
	t.apply()
}

// apply refreshes the controller's matrices and rebuilds every target as
// current * start⁻¹ * target-at-start.
func (t *TransformTool) apply() {
	ctl := t.Controller
	ctl.UpdateMatrix(true)

	delta := t.startInverse
	delta.Premultiply(ctl.GlobalMatrix)
	for _, s := range t.startTargets {
		if s.object.destroyed {
			continue
		}
		world := s.global
		world.Premultiply(delta)
		setLocalFromWorld(s.object, world)
	}
}

// rotationAbout returns T(center) * R(angle) * T(-center).
func rotationAbout(center Vector2, angle float64) Matrix2 {
	m := identityMatrix
	m.Translate(center.X, center.Y)
	m.Rotate(angle)
	m.Translate(-center.X, -center.Y)
	return m
}

// layoutHandles places the handles on the controller's box and scales them
// to HandleSize screen pixels regardless of controller scale or zoom.
func (t *TransformTool) layoutHandles() {
	ctl := t.Controller
	zoom := Vector2{1, 1}
	if t.camera != nil {
		zoom = Vector2{math.Abs(t.camera.Scale.X), math.Abs(t.camera.Scale.Y)}
	}
	ws := ctl.WorldScale()
	sx := sanitizeScale(ws.X * zoom.X)
	sy := sanitizeScale(ws.Y * zoom.Y)

	for k, h := range t.handles {
		h.Scale = Vector2{t.HandleSize / sx, t.HandleSize / sy}
		if HandleKind(k) == HandleRotate {
			h.Position = Vector2{0, -1 - t.RotateOffset/sy}
		} else {
			h.Position = handleAxes[k]
		}
		h.MarkDirty()
	}
}
