package canopy

import (
	"time"
)

// EntityStore is the interface for optional ECS integration. When set on a
// Renderer, interaction events on objects with a non-zero EntityID are
// forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	ObjectID  uint32
	ScreenX   float64
	ScreenY   float64
	WorldX    float64
	WorldY    float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields; zero for pointer events.
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// dragState is the renderer's record of the current drag.
type dragState struct {
	button      MouseButton
	screenStart Vector2
	worldStart  Vector2
	lastScreen  Vector2
}

// Renderer drives frames: it gathers, sorts and culls the scene, dispatches
// pointer events, refreshes matrices and draws. It owns the single drag
// object slot.
type Renderer struct {
	// AutoClear clears the context with ClearColor before drawing.
	AutoClear  bool
	ClearColor Color

	// Pointer and Keyboard are polled once per frame. A nil Pointer reads
	// from the injection queue only; a nil Keyboard reports no modifiers.
	Pointer  Pointer
	Keyboard Keyboard

	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir string

	// Config is the host configuration used by Start.
	Config RunConfig

	scene  *Object2D
	camera *Camera2D

	dragObject   *Object2D
	drag         dragState
	dragDeadZone float64

	cursor    Cursor
	drawCalls int
	frame     uint64
	stats     frameStats

	visible []*Object2D

	handlers handlerRegistry
	store    EntityStore

	virtual         *VirtualPointer
	testRunner      *TestRunner
	screenshotQueue []string

	debug bool

	// host loop
	running   bool
	stopped   bool
	lastFrame time.Time
}

// NewRenderer returns a renderer configured from cfg.
func NewRenderer(cfg RunConfig) *Renderer {
	r := &Renderer{
		AutoClear:     cfg.AutoClear,
		ClearColor:    cfg.clearColor(),
		ScreenshotDir: cfg.ScreenshotDir,
		Config:        cfg,
		dragDeadZone:  cfg.DragDeadZone,
		virtual:       NewVirtualPointer(),
	}
	if r.dragDeadZone <= 0 {
		r.dragDeadZone = defaultDragDeadZone
	}
	r.SetDebugMode(cfg.Debug)
	return r
}

// SetDebugMode enables per-frame stats logging and tree sanity checks.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
	globalDebug = enabled
}

// SetDragDeadZone sets the manhattan distance in screen pixels the pointer
// must travel before default dragging moves an object.
func (r *Renderer) SetDragDeadZone(pixels float64) {
	r.dragDeadZone = pixels
}

// SetEntityStore sets the optional ECS bridge.
func (r *Renderer) SetEntityStore(store EntityStore) {
	r.store = store
}

// DragObject returns the object being dragged, or nil.
func (r *Renderer) DragObject() *Object2D {
	return r.dragObject
}

// Cursor returns the cursor requested by the last frame.
func (r *Renderer) Cursor() Cursor {
	return r.cursor
}

// DrawCalls returns the number of draw submissions in the last frame.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

// Frame returns the number of frames rendered.
func (r *Renderer) Frame() uint64 {
	return r.frame
}

// Scene returns the last rendered scene.
func (r *Renderer) Scene() *Object2D { return r.scene }

// Camera returns the last rendered camera.
func (r *Renderer) Camera() *Camera2D { return r.camera }

// Render runs one frame of scene through camera onto ctx. dt is the time
// since the previous frame in seconds. A nil scene, camera or context makes
// Render a no-op.
//
// Phases run in a fixed order: gather visible objects, sort them front to
// back, refresh the camera and cull, dispatch pointer events, refresh
// matrices (calling OnUpdate), then clear and draw back to front.
func (r *Renderer) Render(scene *Object2D, camera *Camera2D, ctx Context, dt float64) {
	if scene == nil || camera == nil || ctx == nil {
		return
	}
	if scene != r.scene {
		// A newly bound scene has never been swept; give the first frame
		// current matrices to cull and hit-test against.
		scene.Traverse(func(o *Object2D) bool {
			o.UpdateMatrix(true)
			return false
		})
		r.cancelDrag()
	}
	r.scene, r.camera = scene, camera
	r.frame++

	if r.testRunner != nil {
		r.testRunner.step(r)
	}
	ptr := r.pollPointer()
	mods := r.modifiers()

	var stats frameStats
	t := time.Now()

	r.gather(scene)
	stats.gatherTime = time.Since(t)
	stats.gathered = len(r.visible)

	t = time.Now()
	sortFrontToBack(r.visible)
	stats.sortTime = time.Since(t)

	t = time.Now()
	stats.culled = r.cull(camera, ctx, ptr, dt)
	stats.cullTime = time.Since(t)

	t = time.Now()
	r.dispatch(camera, ptr, mods)
	stats.dispatchTime = time.Since(t)

	t = time.Now()
	updateSubtreeMatrices(scene, false, dt)
	stats.updateTime = time.Since(t)

	t = time.Now()
	r.draw(camera, ctx)
	stats.drawTime = time.Since(t)
	stats.drawCalls = r.drawCalls

	r.stats = stats
	r.debugLog(stats)
}

// pollPointer advances the pointer for this frame. Injected events take
// priority over the real device while any are queued or a virtual button
// is still held.
func (r *Renderer) pollPointer() Pointer {
	if r.Pointer == nil || r.virtual.Pending() > 0 || r.virtual.anyPressed() {
		r.virtual.Update()
		return r.virtual
	}
	r.Pointer.Update()
	return r.Pointer
}

func (r *Renderer) modifiers() KeyModifiers {
	if r.Keyboard == nil {
		return 0
	}
	return r.Keyboard.Modifiers()
}

// gather collects every visible object, refreshing stale bounds on the way.
func (r *Renderer) gather(scene *Object2D) {
	r.visible = r.visible[:0]
	scene.TraverseVisible(func(o *Object2D) bool {
		if o.boundsDirty {
			o.ComputeBoundingBox()
		}
		r.visible = append(r.visible, o)
		return false
	})
}

// cull refreshes the camera from the context size and marks each gathered
// object in or out of the viewport. Returns the number culled.
func (r *Renderer) cull(camera *Camera2D, ctx Context, ptr Pointer, dt float64) int {
	w, h := ctx.Size()
	camera.UpdateViewport(float64(w), float64(h))
	if camera.Controls != nil && r.dragObject == nil {
		camera.Controls.Update(camera, ptr, float64(w)/2, float64(h)/2)
	}
	camera.Update(float32(dt))
	camera.UpdateMatrix(float64(w)/2, float64(h)/2)

	culled := 0
	for _, o := range r.visible {
		o.inViewport = o.IgnoreViewport || camera.IntersectsViewport(o.WorldBoundingBox())
		if !o.inViewport {
			culled++
		}
	}
	return culled
}

// cancelDrag drops the drag object without firing DragEnd. Used when the
// renderer switches scenes.
func (r *Renderer) cancelDrag() {
	if r.dragObject != nil {
		r.dragObject.beingDragged = false
		r.dragObject = nil
	}
}
