package host

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/infinispace/canvas"
)

func pickerOf(t *testing.T, h *Host) *nodePicker {
	t.Helper()
	for _, l := range h.Layers() {
		if p, ok := l.(*nodePicker); ok {
			return p
		}
	}
	t.Fatal("node picker layer not active")
	return nil
}

// openPickerShortcut presses Ctrl+Shift+N for one frame.
func (f *fakeInput) openPickerShortcut(t *testing.T, h *Host) {
	f.held[ebiten.KeyControl] = true
	f.held[ebiten.KeyShift] = true
	f.tap(t, h, ebiten.KeyN)
	f.held[ebiten.KeyControl] = false
	f.held[ebiten.KeyShift] = false
}

func (f *fakeInput) rightClick(t *testing.T, h *Host, x, y int) {
	f.x, f.y = x, y
	f.buttons[ebiten.MouseButtonRight] = true
	f.frame(t, h)
	f.buttons[ebiten.MouseButtonRight] = false
	f.frame(t, h)
}

func (f *fakeInput) click(t *testing.T, h *Host, x, y int) {
	f.press(t, h, x, y)
	f.release(t, h)
}

func lastNode(h *Host) canvas.CanvasNode {
	nodes := h.Engine().Nodes()
	return nodes[len(nodes)-1]
}

func TestPickerShortcutOpensAtScreenCentre(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)

	in.openPickerShortcut(t, h)
	if !p.Open() {
		t.Fatal("Ctrl+Shift+N should open the picker")
	}
	if p.screen != (canvas.Position{X: 400, Y: 300}) || p.world != (canvas.Position{}) {
		t.Errorf("opened at screen %+v world %+v", p.screen, p.world)
	}
	if h.Engine().NodeCount() != 3 {
		t.Error("opening must not add nodes")
	}
}

func TestPickerClickAddsNode(t *testing.T) {
	in := stubInput(t)
	h, clock := newTestHost(t, testConfig())
	p := pickerOf(t, h)
	in.openPickerShortcut(t, h)

	// Menu at (400,300): items start at y=304 and are 28px tall. Item 1 is Shape.
	in.click(t, h, 450, 345)

	if h.Engine().NodeCount() != 4 {
		t.Fatalf("NodeCount = %d, want 4", h.Engine().NodeCount())
	}
	n := lastNode(h)
	if n.Type != canvas.NodeTypeShape || n.Content != "Shape" {
		t.Errorf("added %s %q, want shape", n.Type, n.Content)
	}
	if n.Position != (canvas.Position{}) || n.Size != (canvas.Size{Width: 100, Height: 100}) {
		t.Errorf("position %+v size %+v", n.Position, n.Size)
	}
	if n.Metadata["createdVia"] != PluginNodePicker {
		t.Errorf("createdVia = %v", n.Metadata["createdVia"])
	}
	if n.Metadata["timestamp"] != clock.now.UnixMilli() {
		t.Errorf("timestamp = %v, want %d", n.Metadata["timestamp"], clock.now.UnixMilli())
	}
	if p.Open() {
		t.Error("picker should close after adding")
	}
	if h.Engine().Viewport() != (canvas.Viewport{X: 400, Y: 300, Zoom: 1}) {
		t.Errorf("menu click reached the canvas: %+v", h.Engine().Viewport())
	}
}

func TestPickerRightClickOpensAtCursor(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)

	in.rightClick(t, h, 600, 100)
	if !p.Open() {
		t.Fatal("a still right click should open the picker")
	}
	if p.world != (canvas.Position{X: 200, Y: -200}) {
		t.Errorf("world = %+v, want {200 -200}", p.world)
	}

	// Item 0 (Text Node) spans y 104..132.
	in.click(t, h, 650, 118)
	n := lastNode(h)
	if h.Engine().NodeCount() != 4 || n.Type != canvas.NodeTypeText {
		t.Fatalf("nodes = %d, last %+v", h.Engine().NodeCount(), n)
	}
	if n.Position != (canvas.Position{X: 200, Y: -200}) || n.Size != (canvas.Size{Width: 150, Height: 80}) {
		t.Errorf("position %+v size %+v", n.Position, n.Size)
	}
}

func TestPickerRightDragStillPans(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)

	in.x, in.y = 600, 100
	in.buttons[ebiten.MouseButtonRight] = true
	in.frame(t, h)
	in.move(t, h, 640, 120)
	in.buttons[ebiten.MouseButtonRight] = false
	in.frame(t, h)

	if p.Open() {
		t.Error("a right drag should not open the picker")
	}
	if h.Engine().Viewport() != (canvas.Viewport{X: 440, Y: 320, Zoom: 1}) {
		t.Errorf("viewport = %+v, want {440 320 1}", h.Engine().Viewport())
	}
}

func TestPickerOutsideClickCloses(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)
	in.openPickerShortcut(t, h)

	in.press(t, h, 100, 100)
	if p.Open() {
		t.Error("outside press should close the picker")
	}
	in.move(t, h, 150, 150)
	in.release(t, h)

	if h.Engine().NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", h.Engine().NodeCount())
	}
	if h.Engine().Viewport() != (canvas.Viewport{X: 400, Y: 300, Zoom: 1}) {
		t.Errorf("closing press should not pan: %+v", h.Engine().Viewport())
	}
}

func TestPickerReleaseOnOtherItemDoesNothing(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)
	in.openPickerShortcut(t, h)

	in.press(t, h, 450, 318)
	in.move(t, h, 450, 375)
	in.release(t, h)

	if h.Engine().NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", h.Engine().NodeCount())
	}
	if !p.Open() {
		t.Error("picker should stay open")
	}
}

func TestPickerEscapeCloses(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)
	in.openPickerShortcut(t, h)

	in.tap(t, h, ebiten.KeyEscape)
	if p.Open() {
		t.Error("Escape should close the picker")
	}
	if h.dismiss() {
		t.Error("nothing left to dismiss")
	}
}

func TestPickerSwallowsWheelWhileOpen(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	in.openPickerShortcut(t, h)

	in.x, in.y = 100, 100
	in.wheelY = 1
	in.frame(t, h)
	if z := h.Engine().Viewport().Zoom; z != 1 {
		t.Errorf("zoom = %v, want 1 while the picker is open", z)
	}
}

func TestPickerDeactivateStopsListening(t *testing.T) {
	in := stubInput(t)
	h, _ := newTestHost(t, testConfig())
	p := pickerOf(t, h)
	in.openPickerShortcut(t, h)

	if err := p.Deactivate(); err != nil {
		t.Fatal(err)
	}
	if p.Open() {
		t.Error("Deactivate should close the picker")
	}
	h.Engine().RequestContextMenu(canvas.Position{X: 10, Y: 10})
	if p.Open() {
		t.Error("inactive picker should ignore canvas:contextmenu")
	}
}

func TestPickerRect(t *testing.T) {
	screen := canvas.Size{Width: 800, Height: 600}
	height := float64(len(pickerItems))*pickerItemHeight + 2*pickerPadding
	tests := []struct {
		name string
		at   canvas.Position
		want canvas.Rect
	}{
		{"fits", canvas.Position{X: 100, Y: 50}, canvas.Rect{X: 100, Y: 50, Width: pickerWidth, Height: height}},
		{"right edge", canvas.Position{X: 700, Y: 50}, canvas.Rect{X: 600, Y: 50, Width: pickerWidth, Height: height}},
		{"bottom right", canvas.Position{X: 790, Y: 590}, canvas.Rect{X: 600, Y: 600 - height, Width: pickerWidth, Height: height}},
	}
	for _, tt := range tests {
		if got := pickerRect(tt.at, screen); got != tt.want {
			t.Errorf("%s: pickerRect = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
