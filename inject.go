package canopy

// InjectPress queues a left-button press at the given screen coordinates.
// Injected events are consumed one per frame and take priority over the
// real pointer while any are pending.
func (r *Renderer) InjectPress(x, y float64) {
	r.virtual.Press(x, y)
}

// InjectMove queues a pointer move to the given screen coordinates. The
// button stays in whatever state the previous injected event left it, so a
// move between InjectPress and InjectRelease is a drag frame.
func (r *Renderer) InjectMove(x, y float64) {
	r.virtual.Move(x, y)
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (r *Renderer) InjectRelease(x, y float64) {
	r.virtual.Release(x, y)
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (r *Renderer) InjectClick(x, y float64) {
	r.InjectPress(x, y)
	r.InjectRelease(x, y)
}

// InjectDoubleClick queues two clicks at the same point. Consumes four
// frames, well inside DoubleClickInterval on the virtual clock.
func (r *Renderer) InjectDoubleClick(x, y float64) {
	r.InjectClick(x, y)
	r.InjectClick(x, y)
}

// InjectScroll queues a wheel movement at the current injected position.
func (r *Renderer) InjectScroll(dx, dy float64) {
	r.virtual.Scroll(dx, dy)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes frames frames.
// Minimum frames is 2 (press + release).
func (r *Renderer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued injected events.
func (r *Renderer) PendingInjections() int {
	return r.virtual.Pending()
}
