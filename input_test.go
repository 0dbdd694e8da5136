package canopy

import (
	"testing"
	"time"
)

func TestButtonStateEdges(t *testing.T) {
	var s buttonState
	steps := []struct {
		pressed                bool
		wantDown, wantUp, held bool
	}{
		{true, true, false, true},
		{true, false, false, true},
		{false, false, true, false},
		{false, false, false, false},
	}
	for i, st := range steps {
		s.set(st.pressed, time.Duration(i)*time.Second, Vector2{})
		if s.justPressed != st.wantDown || s.justReleased != st.wantUp || s.pressed != st.held {
			t.Errorf("frame %d: down=%v up=%v held=%v", i, s.justPressed, s.justReleased, s.pressed)
		}
	}
}

func TestButtonStateDoubleClick(t *testing.T) {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	tests := []struct {
		name   string
		second time.Duration
		pos    Vector2
		want   bool
	}{
		{"fast and close", ms(200), Vec2(2, 1), true},
		{"too slow", ms(400), Vector2{}, false},
		{"too far", ms(100), Vec2(10, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s buttonState
			s.set(true, 0, Vector2{})
			s.set(false, ms(50), Vector2{})
			s.set(true, tt.second, tt.pos)
			if s.doubleClicked != tt.want {
				t.Errorf("doubleClicked = %v, want %v", s.doubleClicked, tt.want)
			}
		})
	}
}

// A third quick press starts a new pair instead of double clicking again.
func TestButtonStateTripleClick(t *testing.T) {
	var s buttonState
	now := time.Duration(0)
	clicks := 0
	for i := 0; i < 3; i++ {
		s.set(true, now, Vector2{})
		if s.doubleClicked {
			clicks++
		}
		now += 50 * time.Millisecond
		s.set(false, now, Vector2{})
		now += 50 * time.Millisecond
	}
	if clicks != 1 {
		t.Errorf("double clicks = %d, want 1", clicks)
	}
}

func TestTickGate(t *testing.T) {
	var g tickGate
	ticks := []struct {
		tick int64
		want bool
	}{
		{0, true},
		{0, false},
		{1, true},
		{1, false},
		{1, false},
		{3, true},
	}
	for i, tt := range ticks {
		if got := g.first(tt.tick); got != tt.want {
			t.Errorf("call %d (tick %d): first = %v, want %v", i, tt.tick, got, tt.want)
		}
	}
}

// Several draws in one tick see inpututil's edge for the whole tick; the
// button edge must fire on the first draw only.
func TestTickEdgesFireOncePerTick(t *testing.T) {
	draws := []struct {
		tick         int64
		pressed      bool
		tickPressed  bool
		tickReleased bool
		wantDown     bool
		wantUp       bool
	}{
		{1, true, true, false, true, false},
		{1, true, true, false, false, false},
		{1, true, true, false, false, false},
		{2, true, false, false, false, false},
		{3, false, false, true, false, true},
		{3, false, false, true, false, false},
		// press and release between two draws
		{5, false, true, true, true, true},
		{5, false, true, true, false, false},
	}
	var g tickGate
	var s buttonState
	for i, d := range draws {
		newTick := g.first(d.tick)
		s.set(d.pressed, time.Duration(i)*time.Millisecond, Vector2{})
		if newTick {
			s.mergeEdges(d.tickPressed, d.tickReleased)
		}
		if s.justPressed != d.wantDown || s.justReleased != d.wantUp {
			t.Errorf("draw %d: down=%v up=%v, want down=%v up=%v",
				i, s.justPressed, s.justReleased, d.wantDown, d.wantUp)
		}
	}
}

func TestVirtualPointerReplay(t *testing.T) {
	p := NewVirtualPointer()
	p.Press(10, 20)
	p.Move(30, 40)
	p.Release(50, 60)
	if p.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", p.Pending())
	}

	p.Update()
	if !p.JustPressed(MouseButtonLeft) || !p.Pressed(MouseButtonLeft) {
		t.Error("frame 1 should press")
	}
	assertVec(t, "frame 1 position", p.Position(), Vec2(10, 20))

	p.Update()
	if p.JustPressed(MouseButtonLeft) || !p.Pressed(MouseButtonLeft) {
		t.Error("frame 2 should hold")
	}
	assertVec(t, "frame 2 delta", p.Delta(), Vec2(20, 20))

	p.Update()
	if !p.JustReleased(MouseButtonLeft) || p.Pressed(MouseButtonLeft) {
		t.Error("frame 3 should release")
	}

	p.Update()
	if p.JustReleased(MouseButtonLeft) {
		t.Error("idle frame should have no edges")
	}
	assertVec(t, "idle delta", p.Delta(), Vector2{})
	assertVec(t, "idle position", p.Position(), Vec2(50, 60))
}

// Move keeps the button state the queue will be in, not the current one.
func TestVirtualPointerMoveAfterQueuedPress(t *testing.T) {
	p := NewVirtualPointer()
	p.Press(0, 0)
	p.Move(5, 5)
	p.Update()
	p.Update()
	if !p.Pressed(MouseButtonLeft) {
		t.Error("move after a queued press should keep the button down")
	}
	if !p.anyPressed() {
		t.Error("anyPressed should report the held button")
	}
}

func TestVirtualPointerScroll(t *testing.T) {
	p := NewVirtualPointer()
	p.Move(70, 80)
	p.Scroll(0, -2)
	p.Update()
	p.Update()
	assertVec(t, "wheel", p.Wheel(), Vec2(0, -2))
	assertVec(t, "position", p.Position(), Vec2(70, 80))
	p.Update()
	assertVec(t, "wheel cleared", p.Wheel(), Vector2{})
}

func TestVirtualPointerDoubleClick(t *testing.T) {
	p := NewVirtualPointer()
	p.Press(5, 5)
	p.Release(5, 5)
	p.Press(5, 5)
	p.Release(5, 5)

	doubles := 0
	for p.Pending() > 0 {
		p.Update()
		if p.DoubleClicked(MouseButtonLeft) {
			doubles++
		}
	}
	if doubles != 1 {
		t.Errorf("double clicks = %d, want 1", doubles)
	}
}

func TestPointerStateUnknownButton(t *testing.T) {
	p := NewVirtualPointer()
	if p.Pressed(MouseButton(99)) || p.JustPressed(MouseButton(99)) {
		t.Error("unknown button should report nothing")
	}
}

func TestVirtualKeyboard(t *testing.T) {
	k := &VirtualKeyboard{Mods: ModShift | ModCtrl}
	m := k.Modifiers()
	if !m.Has(ModShift) || !m.Has(ModCtrl) || m.Has(ModAlt) {
		t.Errorf("modifiers = %b", m)
	}
}
