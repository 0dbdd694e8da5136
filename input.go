package canopy

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// DoubleClickInterval is the longest gap between two presses of a double click.
	DoubleClickInterval = 350 * time.Millisecond
	// DoubleClickDistance is the farthest the second press may land from the first, in pixels.
	DoubleClickDistance = 5.0

	defaultDragDeadZone = 4.0 // pixels, manhattan
	numMouseButtons     = 3
	virtualFrame        = time.Second / 60
)

// Pointer is the per-frame pointer state the renderer consumes. Update is
// called exactly once at the start of every frame; the queries then answer
// for that frame. Positions are in screen pixels.
type Pointer interface {
	Update()
	Position() Vector2
	Delta() Vector2
	Pressed(b MouseButton) bool
	JustPressed(b MouseButton) bool
	JustReleased(b MouseButton) bool
	DoubleClicked(b MouseButton) bool
	Wheel() Vector2
}

// Keyboard reports modifier keys held this frame.
type Keyboard interface {
	Modifiers() KeyModifiers
}

// --- Button edges ---

// buttonState tracks edges and double clicks for one button.
type buttonState struct {
	pressed       bool
	justPressed   bool
	justReleased  bool
	doubleClicked bool

	lastPress    time.Duration
	lastPressPos Vector2
	hasPress     bool
}

// set records this frame's pressed state at time now and position pos.
func (s *buttonState) set(pressed bool, now time.Duration, pos Vector2) {
	s.justPressed = pressed && !s.pressed
	s.justReleased = !pressed && s.pressed
	s.pressed = pressed
	s.doubleClicked = false

	if !s.justPressed {
		return
	}
	if s.hasPress && now-s.lastPress < DoubleClickInterval &&
		pos.DistanceTo(s.lastPressPos) < DoubleClickDistance {
		s.doubleClicked = true
		s.hasPress = false // a third press starts a new pair
		return
	}
	s.lastPress = now
	s.lastPressPos = pos
	s.hasPress = true
}

// mergeEdges ORs in edges reported by another source for the same frame.
func (s *buttonState) mergeEdges(justPressed, justReleased bool) {
	s.justPressed = s.justPressed || justPressed
	s.justReleased = s.justReleased || justReleased
}

// tickGate reports the first time each game tick is seen. Draw can run
// several times per tick on high refresh displays.
type tickGate struct {
	last int64
	seen bool
}

func (g *tickGate) first(tick int64) bool {
	if g.seen && tick == g.last {
		return false
	}
	g.last, g.seen = tick, true
	return true
}

// pointerState is the query side shared by every Pointer implementation.
type pointerState struct {
	pos     Vector2
	delta   Vector2
	wheel   Vector2
	buttons [numMouseButtons]buttonState
}

func (p *pointerState) button(b MouseButton) *buttonState {
	if int(b) >= numMouseButtons {
		return &buttonState{}
	}
	return &p.buttons[b]
}

func (p *pointerState) Position() Vector2                { return p.pos }
func (p *pointerState) Delta() Vector2                   { return p.delta }
func (p *pointerState) Wheel() Vector2                   { return p.wheel }
func (p *pointerState) Pressed(b MouseButton) bool       { return p.button(b).pressed }
func (p *pointerState) JustPressed(b MouseButton) bool   { return p.button(b).justPressed }
func (p *pointerState) JustReleased(b MouseButton) bool  { return p.button(b).justReleased }
func (p *pointerState) DoubleClicked(b MouseButton) bool { return p.button(b).doubleClicked }

func (p *pointerState) moveTo(pos Vector2) {
	p.delta = pos.Sub(p.pos)
	p.pos = pos
}

// --- Ebiten devices ---

var ebitenButtons = [numMouseButtons]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// EbitenPointer reads the mouse through ebiten and inpututil.
type EbitenPointer struct {
	pointerState
	start   time.Time
	started bool
	ticks   tickGate
}

// NewEbitenPointer returns a pointer bound to ebiten's mouse.
func NewEbitenPointer() *EbitenPointer {
	return &EbitenPointer{}
}

func (p *EbitenPointer) Update() {
	if !p.started {
		p.start = time.Now()
		p.started = true
	}
	now := time.Since(p.start)

	mx, my := ebiten.CursorPosition()
	p.moveTo(Vector2{float64(mx), float64(my)})
	wx, wy := ebiten.Wheel()
	p.wheel = Vector2{wx, wy}

	// inpututil edges stay true for a whole tick; apply them once.
	newTick := p.ticks.first(ebiten.Tick())
	for i, eb := range ebitenButtons {
		st := &p.buttons[i]
		st.set(ebiten.IsMouseButtonPressed(eb), now, p.pos)
		if newTick {
			st.mergeEdges(inpututil.IsMouseButtonJustPressed(eb), inpututil.IsMouseButtonJustReleased(eb))
		}
	}
}

// EbitenKeyboard reads modifier keys through ebiten.
type EbitenKeyboard struct{}

// Modifiers returns the modifier keys currently held.
func (EbitenKeyboard) Modifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// --- Virtual devices ---

// syntheticPointerEvent is one frame of injected pointer state. Screen
// coordinates are used, exactly like real mouse input.
type syntheticPointerEvent struct {
	pos     Vector2
	pressed bool
	button  MouseButton
	wheel   Vector2
}

// VirtualPointer replays queued events, one per frame. Frames without a
// queued event keep the last position and button state with no edges. Its
// clock advances 1/60 s per Update.
type VirtualPointer struct {
	pointerState
	queue []syntheticPointerEvent
	now   time.Duration
}

// NewVirtualPointer returns an idle virtual pointer at (0, 0).
func NewVirtualPointer() *VirtualPointer {
	return &VirtualPointer{}
}

// Pending returns the number of queued events.
func (p *VirtualPointer) Pending() int {
	return len(p.queue)
}

func (p *VirtualPointer) anyPressed() bool {
	for i := range p.buttons {
		if p.buttons[i].pressed {
			return true
		}
	}
	return false
}

func (p *VirtualPointer) push(e syntheticPointerEvent) {
	p.queue = append(p.queue, e)
}

// Update consumes one queued event.
func (p *VirtualPointer) Update() {
	p.now += virtualFrame
	p.wheel = Vector2{}

	if len(p.queue) == 0 {
		p.delta = Vector2{}
		for i := range p.buttons {
			p.buttons[i].set(p.buttons[i].pressed, p.now, p.pos)
		}
		return
	}
	evt := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]

	p.moveTo(evt.pos)
	p.wheel = evt.wheel
	for i := range p.buttons {
		pressed := p.buttons[i].pressed
		if MouseButton(i) == evt.button {
			pressed = evt.pressed
		}
		p.buttons[i].set(pressed, p.now, p.pos)
	}
}

// Press queues a left-button press at (x, y).
func (p *VirtualPointer) Press(x, y float64) {
	p.push(syntheticPointerEvent{pos: Vector2{x, y}, pressed: true, button: MouseButtonLeft})
}

// Move queues a move to (x, y), keeping the left button's current state.
func (p *VirtualPointer) Move(x, y float64) {
	pressed := p.lastPressed(MouseButtonLeft)
	p.push(syntheticPointerEvent{pos: Vector2{x, y}, pressed: pressed, button: MouseButtonLeft})
}

// Release queues a left-button release at (x, y).
func (p *VirtualPointer) Release(x, y float64) {
	p.push(syntheticPointerEvent{pos: Vector2{x, y}, pressed: false, button: MouseButtonLeft})
}

// Scroll queues a wheel movement at the current position.
func (p *VirtualPointer) Scroll(dx, dy float64) {
	pos := p.lastPosition()
	p.push(syntheticPointerEvent{
		pos: pos, pressed: p.lastPressed(MouseButtonLeft),
		button: MouseButtonLeft, wheel: Vector2{dx, dy},
	})
}

// lastPosition returns the position after every queued event has played.
func (p *VirtualPointer) lastPosition() Vector2 {
	if n := len(p.queue); n > 0 {
		return p.queue[n-1].pos
	}
	return p.pos
}

// lastPressed returns button b's state after every queued event has played.
func (p *VirtualPointer) lastPressed(b MouseButton) bool {
	for i := len(p.queue) - 1; i >= 0; i-- {
		if p.queue[i].button == b {
			return p.queue[i].pressed
		}
	}
	return p.button(b).pressed
}

// VirtualKeyboard reports a fixed set of modifiers.
type VirtualKeyboard struct {
	Mods KeyModifiers
}

func (k *VirtualKeyboard) Modifiers() KeyModifiers { return k.Mods }
