package canopy

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

// numPointerEvents counts the EventTypes before EventDragStart.
const numPointerEvents = int(EventDragStart)

// handlerRegistry holds renderer-level callbacks that run before the
// object's own hook for every event of their type.
type handlerRegistry struct {
	pointer [numPointerEvents][]pointerHandler
	drag    [3][]dragHandler
	nextID  uint32
}

// CallbackHandle allows removing a registered renderer-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	if isDragEvent(h.event) {
		i := int(h.event - EventDragStart)
		h.reg.drag[i] = removeHandler(h.reg.drag[i], func(d dragHandler) bool { return d.id == h.id })
		return
	}
	i := int(h.event)
	h.reg.pointer[i] = removeHandler(h.reg.pointer[i], func(p pointerHandler) bool { return p.id == h.id })
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func isDragEvent(e EventType) bool {
	return e >= EventDragStart && e <= EventDragEnd
}

// OnPointerEvent registers a callback for a pointer event on any object.
// Panics if event is a drag event; use OnDragEvent for those.
func (r *Renderer) OnPointerEvent(event EventType, fn func(PointerContext)) CallbackHandle {
	if isDragEvent(event) || int(event) >= numPointerEvents {
		panic("canopy: OnPointerEvent called with " + event.String())
	}
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.pointer[event] = append(r.handlers.pointer[event], pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, event: event}
}

// OnDragEvent registers a callback for drag start, drag or drag end on any
// object. Panics for other event types.
func (r *Renderer) OnDragEvent(event EventType, fn func(DragContext)) CallbackHandle {
	if !isDragEvent(event) {
		panic("canopy: OnDragEvent called with " + event.String())
	}
	r.handlers.nextID++
	id := r.handlers.nextID
	i := int(event - EventDragStart)
	r.handlers.drag[i] = append(r.handlers.drag[i], dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, event: event}
}

// --- Dispatch ---

// dispatch walks the sorted objects front to back. The first hit sets the
// cursor. Hover and button transitions are evaluated only while nothing is
// being dragged; a fresh press over a draggable object claims the single
// drag slot, which stops transitions for every object after it. On later
// frames the drag object receives its drag or drag-end callback.
func (r *Renderer) dispatch(camera *Camera2D, ptr Pointer, mods KeyModifiers) {
	screen := ptr.Position()
	world := camera.ScreenToWorld(screen)

	cursor := CursorDefault
	cursorSet := false
	started := false
	for _, o := range r.visible {
		if !o.PointerEvents || !o.inViewport {
			continue
		}
		local := o.WorldToLocal(world)
		inside := o.IsInside(local)
		if inside && !cursorSet {
			cursor = o.Cursor
			cursorSet = true
		}
		if r.dragObject != nil {
			continue
		}

		pc := PointerContext{
			Object: o, Pointer: ptr, Camera: camera,
			Screen: screen, World: world, Local: local,
			Button: MouseButtonLeft, Modifiers: mods,
		}
		if !inside {
			if o.pointerInside {
				o.pointerInside = false
				r.firePointer(EventPointerLeave, o.OnPointerLeave, pc)
			}
			continue
		}
		if !o.pointerInside {
			o.pointerInside = true
			r.firePointer(EventPointerEnter, o.OnPointerEnter, pc)
		}
		r.firePointer(EventPointerOver, o.OnPointerOver, pc)
		if ptr.JustPressed(MouseButtonLeft) {
			r.firePointer(EventButtonDown, o.OnButtonDown, pc)
		}
		if ptr.Pressed(MouseButtonLeft) {
			r.firePointer(EventButtonPressed, o.OnButtonPressed, pc)
		}
		if ptr.DoubleClicked(MouseButtonLeft) {
			r.firePointer(EventDoubleClick, o.OnDoubleClick, pc)
		}
		if ptr.JustReleased(MouseButtonLeft) {
			r.firePointer(EventButtonUp, o.OnButtonUp, pc)
		}
		if ptr.JustPressed(MouseButtonLeft) && o.Draggable && r.dragObject == nil && !o.destroyed {
			r.startDrag(o, camera, ptr, screen, world, mods)
			started = true
		}
	}

	if r.dragObject != nil {
		cursor = r.dragObject.Cursor
		if !started {
			r.continueDrag(camera, ptr, screen, world, mods)
		}
	}
	r.cursor = cursor
}

func (r *Renderer) startDrag(o *Object2D, camera *Camera2D, ptr Pointer, screen, world Vector2, mods KeyModifiers) {
	r.dragObject = o
	r.drag = dragState{
		button:      MouseButtonLeft,
		screenStart: screen,
		worldStart:  world,
		lastScreen:  screen,
	}
	o.beingDragged = true
	o.dragCommitted = false
	dc := r.dragContext(camera, ptr, screen, world, mods)
	r.fireDrag(EventDragStart, o.OnPointerDragStart, dc)
}

// continueDrag delivers one frame of drag movement, then ends the drag when
// the button was released or the object left the tree. Movement on the
// release frame is still delivered before DragEnd.
func (r *Renderer) continueDrag(camera *Camera2D, ptr Pointer, screen, world Vector2, mods KeyModifiers) {
	o := r.dragObject
	dc := r.dragContext(camera, ptr, screen, world, mods)
	r.drag.lastScreen = screen

	detached := o.destroyed || (o != r.scene && o.Root() != r.scene)
	ending := ptr.JustReleased(r.drag.button) || !ptr.Pressed(r.drag.button) || detached

	if !detached && (!ending || dc.ScreenDelta != (Vector2{})) {
		hook := o.OnPointerDrag
		if hook == nil {
			hook = o.ApplyDrag
		}
		r.fireDrag(EventDrag, hook, dc)
	}
	if ending {
		r.dragObject = nil
		o.beingDragged = false
		r.fireDrag(EventDragEnd, o.OnPointerDragEnd, dc)
	}
}

func (r *Renderer) dragContext(camera *Camera2D, ptr Pointer, screen, world Vector2, mods KeyModifiers) DragContext {
	return DragContext{
		Object:      r.dragObject,
		Pointer:     ptr,
		Camera:      camera,
		Screen:      screen,
		World:       world,
		ScreenStart: r.drag.screenStart,
		WorldStart:  r.drag.worldStart,
		ScreenDelta: screen.Sub(r.drag.lastScreen),
		WorldDelta:  world.Sub(camera.ScreenToWorld(r.drag.lastScreen)),
		Slop:        r.dragDeadZone,
		Button:      r.drag.button,
		Modifiers:   mods,
	}
}

// --- Firing ---

func (r *Renderer) firePointer(event EventType, hook func(PointerContext), pc PointerContext) {
	for _, h := range r.handlers.pointer[event] {
		h.fn(pc)
	}
	if hook != nil {
		hook(pc)
	}
	r.emitInteractionEvent(event, pc.Object, pc.Screen, pc.World, pc.Local, pc.Button, pc.Modifiers, DragContext{})
}

func (r *Renderer) fireDrag(event EventType, hook func(DragContext), dc DragContext) {
	for _, h := range r.handlers.drag[event-EventDragStart] {
		h.fn(dc)
	}
	if hook != nil {
		hook(dc)
	}
	var local Vector2
	if dc.Object != nil {
		local = dc.Object.WorldToLocal(dc.World)
	}
	r.emitInteractionEvent(event, dc.Object, dc.Screen, dc.World, local, dc.Button, dc.Modifiers, dc)
}

// --- ECS bridge ---

func (r *Renderer) emitInteractionEvent(event EventType, o *Object2D, screen, world, local Vector2,
	button MouseButton, mods KeyModifiers, drag DragContext) {
	if r.store == nil || o == nil || o.EntityID == 0 {
		return
	}
	r.store.EmitEvent(InteractionEvent{
		Type:      event,
		EntityID:  o.EntityID,
		ObjectID:  o.ID,
		ScreenX:   screen.X,
		ScreenY:   screen.Y,
		WorldX:    world.X,
		WorldY:    world.Y,
		LocalX:    local.X,
		LocalY:    local.Y,
		Button:    button,
		Modifiers: mods,
		StartX:    drag.WorldStart.X,
		StartY:    drag.WorldStart.Y,
		DeltaX:    drag.WorldDelta.X,
		DeltaY:    drag.WorldDelta.Y,
	})
}
