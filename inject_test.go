package canvas

import "testing"

func TestInjectClickSelectsNode(t *testing.T) {
	in, rec := newInputFixture(t)
	in.InjectClick(400, 300)
	if in.Pending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", in.Pending())
	}

	// Frame 1: press
	if !in.Step() {
		t.Fatal("Step should consume the press")
	}
	if in.Mode() != ModeNodeDrag {
		t.Errorf("mode = %v after press", in.Mode())
	}
	if rec.count(EventNodeSelected) != 1 {
		t.Error("press on node should select it")
	}

	// Frame 2: release
	in.Step()
	if in.Mode() != ModeIdle {
		t.Errorf("mode = %v after release", in.Mode())
	}
	if in.Step() {
		t.Error("empty queue should report false")
	}
	n, _ := in.Engine().GetNode("1")
	if n.Position != (Position{}) {
		t.Errorf("click moved node to %+v", n.Position)
	}
}

func TestInjectDrag(t *testing.T) {
	in, rec := newInputFixture(t)
	// Drag node "3" (world 300,200 → screen 700,500) by 100 screen px over
	// 6 frames: press, 4 moves, release.
	in.InjectDrag(700, 500, 600, 500, 6)
	if in.Pending() != 6 {
		t.Fatalf("pending = %d, want 6", in.Pending())
	}
	frames := 0
	for in.Step() {
		frames++
	}
	if frames != 6 {
		t.Errorf("frames = %d", frames)
	}
	n, _ := in.Engine().GetNode("3")
	if !approxEqual(n.Position.X, 200, 1e-9) || n.Position.Y != 200 {
		t.Errorf("Position = %+v, want {200 200}", n.Position)
	}
	if rec.count(EventNodeDragged) != 5 {
		t.Errorf("node:dragged count = %d, want 5", rec.count(EventNodeDragged))
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	in, _ := newInputFixture(t)
	in.InjectDrag(10, 10, 30, 10, 0)
	if in.Pending() != 2 {
		t.Fatalf("pending = %d, want press+release", in.Pending())
	}
	for in.Step() {
	}
	if in.Engine().Viewport().X != 420 {
		t.Errorf("viewport X = %v, want 420", in.Engine().Viewport().X)
	}
}

func TestInjectWheelAndButton(t *testing.T) {
	in, _ := newInputFixture(t)
	in.InjectWheel(1, 400, 300)
	in.Step()
	assertNear(t, "zoom", in.Engine().Viewport().Zoom, 0.9)

	in.InjectButtonPress(400, 300, MouseButtonRight)
	in.InjectMove(410, 300)
	in.InjectRelease(410, 300)
	for in.Step() {
	}
	n, _ := in.Engine().GetNode("1")
	if n.Position != (Position{}) {
		t.Error("right-button drag should pan, not move the node")
	}
	if !approxEqual(in.Engine().Viewport().X, 410, 1e-9) {
		t.Errorf("viewport X = %v, want 410", in.Engine().Viewport().X)
	}
}
