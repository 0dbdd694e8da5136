package canopy

import (
	"math"
	"testing"
)

// newToolRig returns a rig with a 100x50 box at (200, 200) selected by a
// transform tool.
func newToolRig() (*testRig, *TransformTool, *Object2D) {
	g := newTestRig()
	target := g.addBox("target", 200, 200, 100, 50)
	tool := NewTransformTool(g.cam)
	g.scene.Add(tool.Controller)
	tool.Select(target)
	g.frame()
	return g, tool, target
}

func TestTransformToolSelect(t *testing.T) {
	g, tool, target := newToolRig()
	if !tool.Controller.Visible {
		t.Fatal("tool should show with a selection")
	}
	if !target.IsSelected {
		t.Error("target should be flagged selected")
	}
	if len(tool.Targets()) != 1 || tool.Targets()[0] != target {
		t.Errorf("targets = %v", tool.Targets())
	}

	other := g.addBox("other", 0, 0, 10, 10)
	other.Destroy()
	tool.Select(nil, other)
	if tool.Controller.Visible {
		t.Error("tool should hide with no live targets")
	}
	if target.IsSelected {
		t.Error("deselected target keeps its flag")
	}
}

func TestTransformToolRefitSingle(t *testing.T) {
	_, tool, _ := newToolRig()
	ctl := tool.Controller
	assertVec(t, "position", ctl.Position, Vec2(200, 200))
	assertVec(t, "scale", ctl.Scale, Vec2(50, 25))
	assertNear(t, "rotation", ctl.Rotation, 0)
}

func TestTransformToolRefitRotatedTarget(t *testing.T) {
	g := newTestRig()
	target := g.addBox("target", 200, 200, 100, 50)
	target.Rotation = math.Pi / 2
	tool := NewTransformTool(g.cam)
	g.scene.Add(tool.Controller)
	tool.Select(target)

	ctl := tool.Controller
	assertVec(t, "position", ctl.Position, Vec2(200, 200))
	assertVec(t, "scale", ctl.Scale, Vec2(50, 25))
	assertNear(t, "rotation", ctl.Rotation, math.Pi/2)
}

func TestTransformToolRefitMultiple(t *testing.T) {
	g := newTestRig()
	a := g.addBox("a", 100, 100, 20, 20)
	b := g.addBox("b", 200, 150, 20, 20)
	tool := NewTransformTool(g.cam)
	g.scene.Add(tool.Controller)
	tool.Select(a, b)

	ctl := tool.Controller
	assertVec(t, "position", ctl.Position, Vec2(150, 125))
	assertVec(t, "scale", ctl.Scale, Vec2(60, 35))
}

func TestTransformToolHandleLayout(t *testing.T) {
	g, tool, _ := newToolRig()

	right := tool.Handle(HandleRight)
	assertVec(t, "right position", right.Position, Vec2(1, 0))
	assertVec(t, "right scale", right.Scale, Vec2(0.2, 0.4))
	assertVec(t, "right world", right.WorldPosition(), Vec2(250, 200))

	rot := tool.Handle(HandleRotate)
	assertVec(t, "rotate world", rot.WorldPosition(), Vec2(200, 151))
	if rot.Cursor != CursorCrosshair || right.Cursor != CursorResizeEW {
		t.Error("handle cursors not assigned")
	}

	// Handles keep their screen size under zoom.
	g.cam.Scale = Vec2(2, 2)
	g.frame()
	assertVec(t, "zoomed scale", right.Scale, Vec2(0.1, 0.2))
}

func TestTransformToolTranslate(t *testing.T) {
	g, tool, target := newToolRig()
	changes := 0
	tool.OnChange = func(targets []*Object2D) {
		changes++
		if len(targets) != 1 || targets[0] != target {
			t.Errorf("OnChange targets = %v", targets)
		}
	}

	g.r.InjectDrag(200, 200, 260, 230, 5)
	g.drain()

	assertVec(t, "target", target.Position, Vec2(260, 230))
	assertVec(t, "controller", tool.Controller.Position, Vec2(260, 230))
	if changes != 1 {
		t.Errorf("OnChange fired %d times, want 1", changes)
	}
}

func TestTransformToolResizeKeepsOppositeEdge(t *testing.T) {
	g, tool, target := newToolRig()

	g.r.InjectDrag(250, 200, 270, 200, 4)
	g.drain()

	ctl := tool.Controller
	assertVec(t, "controller scale", ctl.Scale, Vec2(60, 25))
	assertVec(t, "controller position", ctl.Position, Vec2(210, 200))
	assertVec(t, "target scale", target.Scale, Vec2(1.2, 1))
	assertVec(t, "target position", target.Position, Vec2(210, 200))

	target.UpdateWorldMatrix()
	wb := target.WorldBoundingBox()
	assertNear(t, "left edge", wb.Min.X, 150)
	assertNear(t, "right edge", wb.Max.X, 270)
}

func TestTransformToolResizeShiftUniform(t *testing.T) {
	g, tool, _ := newToolRig()
	g.r.Keyboard = &VirtualKeyboard{Mods: ModShift}

	g.r.InjectDrag(250, 225, 270, 225, 4)
	g.drain()

	ctl := tool.Controller
	assertNear(t, "aspect", ctl.Scale.X/ctl.Scale.Y, 2)
	if ctl.Scale.X <= 50 {
		t.Errorf("scale = %v, want larger than 50", ctl.Scale.X)
	}
	// The top-left corner stays put.
	assertVec(t, "top-left", ctl.Position.Sub(ctl.Scale), Vec2(150, 175))
}

func TestTransformToolRotate(t *testing.T) {
	g, tool, target := newToolRig()

	g.r.InjectDrag(200, 151, 249, 200, 4)
	g.drain()

	assertNear(t, "target rotation", target.Rotation, math.Pi/2)
	assertVec(t, "target position", target.Position, Vec2(200, 200))
	assertNear(t, "controller rotation", tool.Controller.Rotation, math.Pi/2)
}

func TestTransformToolRotateSnap(t *testing.T) {
	g, _, target := newToolRig()
	g.r.Keyboard = &VirtualKeyboard{Mods: ModShift}

	// About 94.7 degrees, snapped to 90.
	g.r.InjectDrag(200, 151, 249, 196, 4)
	g.drain()

	assertNear(t, "target rotation", target.Rotation, math.Pi/2)
}

func TestTransformToolHandleClickDoesNothing(t *testing.T) {
	g, tool, target := newToolRig()
	changes := 0
	tool.OnChange = func([]*Object2D) { changes++ }

	// Never leaves the dead zone.
	g.r.InjectDrag(250, 200, 252, 200, 3)
	g.drain()

	assertVec(t, "controller scale", tool.Controller.Scale, Vec2(50, 25))
	assertVec(t, "target scale", target.Scale, Vec2(1, 1))
	if changes != 1 {
		t.Errorf("OnChange fired %d times, want 1", changes)
	}
}
