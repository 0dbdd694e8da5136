package canopy

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "screenshot", "label": "after-click"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerStepClick(t *testing.T) {
	g := newTestRig()
	box := g.addBox("box", 100, 100, 200, 200)
	clicks := 0
	box.OnButtonUp = func(PointerContext) { clicks++ }

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.r.SetTestRunner(runner)

	// Frame 1: the runner queues press+release and the press is consumed.
	g.frame()
	if runner.Done() {
		t.Error("runner should not be done while injections are pending")
	}
	g.frame() // release
	g.frame() // runner sees an empty queue and finishes
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestRunnerWaitAndScreenshot(t *testing.T) {
	g := newTestRig()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "after wait"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.r.SetTestRunner(runner)

	g.frames(3)
	if len(g.r.screenshotQueue) != 0 {
		t.Fatal("screenshot taken before the wait elapsed")
	}
	g.frame()
	if len(g.r.screenshotQueue) != 1 || g.r.screenshotQueue[0] != "after wait" {
		t.Fatalf("screenshot queue = %v", g.r.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done after its last step")
	}
}

func TestRunnerDragAndScroll(t *testing.T) {
	g := newTestRig()
	g.cam.Controls = NewCameraControls()
	box := g.addBox("box", 100, 100, 40, 40)
	box.Draggable = true

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 160, "toY": 100, "frames": 4},
		{"action": "scroll", "x": 400, "y": 300, "dy": 2}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.r.SetTestRunner(runner)
	for i := 0; i < 20 && !runner.Done(); i++ {
		g.frame()
	}
	if !runner.Done() {
		t.Fatal("runner did not finish")
	}
	assertVec(t, "dragged", box.Position, Vec2(160, 100))
	if g.cam.Scale.X <= 1 {
		t.Errorf("zoom = %v, want > 1 after scroll", g.cam.Scale.X)
	}
}
