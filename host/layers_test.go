package host

import (
	"image/color"
	"strings"
	"testing"

	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

func TestGridOpacity(t *testing.T) {
	tests := []struct {
		name string
		fade float64
		zoom float64
		want float64
	}{
		{"above threshold", 0.2, 1, 0.8},
		{"at threshold", 0.2, 0.5, 0.8},
		{"mid fade", 0.2, 0.35, 0.4},
		{"at fade floor", 0.2, 0.2, 0},
		{"below fade floor", 0.2, 0.1, 0},
		{"no fade band", 0.5, 0.49, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GridConfig{FadeBelowZoom: tt.fade, Opacity: 0.8}
			if got := gridOpacity(cfg, tt.zoom); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("gridOpacity(zoom=%v) = %v, want %v", tt.zoom, got, tt.want)
			}
		})
	}
}

func TestGridLines(t *testing.T) {
	tests := []struct {
		offset, step, extent float64
		want                 []float64
	}{
		{0, 20, 60, []float64{0, 20, 40}},
		{5, 20, 60, []float64{5, 25, 45}},
		{-5, 20, 60, []float64{15, 35, 55}},
		{45, 20, 60, []float64{5, 25, 45}},
		{0, 0, 60, nil},
		{0, 20, 0, nil},
	}
	for _, tt := range tests {
		got := gridLines(tt.offset, tt.step, tt.extent)
		if len(got) != len(tt.want) {
			t.Errorf("gridLines(%v, %v, %v) = %v, want %v", tt.offset, tt.step, tt.extent, got, tt.want)
			continue
		}
		for i := range got {
			if !approxEqual(got[i], tt.want[i], 1e-9) {
				t.Errorf("gridLines(%v, %v, %v) = %v, want %v", tt.offset, tt.step, tt.extent, got, tt.want)
				break
			}
		}
	}
}

func TestToolbarLayout(t *testing.T) {
	buttons := toolbarLayout(40, canvas.Size{Width: 1000, Height: 600})
	if len(buttons) != 6 {
		t.Fatalf("got %d buttons", len(buttons))
	}
	wantActions := []Action{ActionZoomIn, ActionReset, ActionZoomOut, ActionFit, ActionSave, ActionLoad}
	for i, b := range buttons {
		if b.action != wantActions[i] {
			t.Errorf("button %d action = %s, want %s", i, b.action, wantActions[i])
		}
		if b.rect.X != 1000-toolbarMargin-40 || b.rect.Width != 40 || b.rect.Height != 40 {
			t.Errorf("button %d rect = %+v", i, b.rect)
		}
	}
	// 6 buttons of 40 plus 5 gaps of 4 is 260 tall, centred in 600.
	if buttons[0].rect.Y != 170 {
		t.Errorf("first button Y = %v, want 170", buttons[0].rect.Y)
	}
	if last := buttons[5].rect; last.Y+last.Height != 430 {
		t.Errorf("last button bottom = %v, want 430", last.Y+last.Height)
	}
}

func TestMinimapRect(t *testing.T) {
	screen := canvas.Size{Width: 800, Height: 600}
	tests := []struct {
		corner string
		x, y   float64
	}{
		{config.CornerBottomLeft, 16, 404},
		{config.CornerBottomRight, 604, 404},
		{config.CornerTopLeft, 16, 16},
		{config.CornerTopRight, 604, 16},
	}
	for _, tt := range tests {
		r := minimapRect(tt.corner, 180, screen)
		if r.X != tt.x || r.Y != tt.y || r.Width != 180 || r.Height != 180 {
			t.Errorf("minimapRect(%s) = %+v, want origin (%v, %v)", tt.corner, r, tt.x, tt.y)
		}
	}
}

func TestMinimapMapping(t *testing.T) {
	cs := canvas.NewCoordinateSystem(10000, canvas.DefaultConstraints())
	r := canvas.Rect{X: 16, Y: 404, Width: 200, Height: 200}

	centre := toMap(cs, r, canvas.Position{})
	if centre != (canvas.Position{X: 116, Y: 504}) {
		t.Errorf("world origin maps to %+v", centre)
	}
	corner := toMap(cs, r, canvas.Position{X: -5000, Y: 5000})
	if corner != (canvas.Position{X: 16, Y: 604}) {
		t.Errorf("world corner maps to %+v", corner)
	}

	world := canvas.Position{X: 1234, Y: -987}
	back := fromMap(cs, r, toMap(cs, r, world))
	if !approxEqual(back.X, world.X, 1e-6) || !approxEqual(back.Y, world.Y, 1e-6) {
		t.Errorf("round trip = %+v, want %+v", back, world)
	}
}

func TestFormatCoordinates(t *testing.T) {
	vp := canvas.Viewport{X: 100.4, Y: -50.5, Zoom: 2}
	tests := []struct {
		format string
		want   string
	}{
		{config.CoordsScreen, "X: 100 Y: -50"},
		{config.CoordsWorld, "X: -50 Y: 25"},
		{config.CoordsBoth, "Screen: 100, -50 | World: -50, 25"},
		{"", "X: 100 Y: -50"},
	}
	for _, tt := range tests {
		if got := formatCoordinates(vp, tt.format); got != tt.want {
			t.Errorf("formatCoordinates(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestRecentEvents(t *testing.T) {
	var history []canvas.Envelope
	for _, name := range []canvas.EventName{canvas.EventViewportChanged, canvas.EventViewportPan, canvas.EventNodeAdded} {
		history = append(history, canvas.Envelope{Event: name})
	}
	if got := strings.Join(recentEvents(history, 2), ","); got != "viewport:pan,node:added" {
		t.Errorf("recentEvents = %q", got)
	}
	if got := recentEvents(history, 10); len(got) != 3 {
		t.Errorf("recentEvents(10) = %v", got)
	}
	if got := recentEvents(nil, 3); len(got) != 0 {
		t.Errorf("recentEvents(nil) = %v", got)
	}
}

func TestNodeScreenRect(t *testing.T) {
	n := canvas.CanvasNode{Position: canvas.Position{X: 10, Y: 20}, Size: canvas.Size{Width: 40, Height: 20}}
	got := nodeScreenRect(n, canvas.Viewport{X: 100, Y: 50, Zoom: 2})
	want := canvas.Rect{X: 100 + (10-20)*2, Y: 50 + (20-10)*2, Width: 80, Height: 40}
	if got != want {
		t.Errorf("nodeScreenRect = %+v, want %+v", got, want)
	}
}

func TestNodeLabelAndColor(t *testing.T) {
	if got := nodeLabel(canvas.CanvasNode{Type: canvas.NodeTypeImage}); got != "image" {
		t.Errorf("label fallback = %q", got)
	}
	if got := nodeLabel(canvas.CanvasNode{Type: canvas.NodeTypeText, Content: "hi"}); got != "hi" {
		t.Errorf("label = %q", got)
	}
	if nodeTypeColor("unknown") != nodeTypeColor(canvas.NodeTypeText) {
		t.Error("unknown types should use the text color")
	}
}

func TestNewTheme(t *testing.T) {
	theme, err := NewTheme(config.Default().Theme)
	if err != nil {
		t.Fatalf("default theme: %v", err)
	}
	if theme.NodeSelected != (color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}) {
		t.Errorf("NodeSelected = %+v", theme.NodeSelected)
	}

	bad := config.Default().Theme
	bad.Grid = "grey"
	bad.NodeText = "#12"
	theme, err = NewTheme(bad)
	if err == nil {
		t.Fatal("expected error for bad colors")
	}
	for _, want := range []string{"theme.grid", "theme.node_text"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err %q missing %q", err, want)
		}
	}
	if theme.Grid != (color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}) {
		t.Errorf("bad grid color should fall back to the default, got %+v", theme.Grid)
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got := withAlpha(c, 0.5); got != (color.RGBA{R: 100, G: 50, B: 25, A: 127}) {
		t.Errorf("withAlpha(0.5) = %+v", got)
	}
	if got := withAlpha(c, 2); got != c {
		t.Errorf("withAlpha should clamp above 1, got %+v", got)
	}
	if got := withAlpha(c, -1); got != (color.RGBA{}) {
		t.Errorf("withAlpha should clamp below 0, got %+v", got)
	}
}
