package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

const (
	toolbarMargin = 16
	toolbarGap    = 4
)

type toolbarButton struct {
	action Action
	label  string
	rect   canvas.Rect
}

// toolbar is a column of buttons on the right edge: zoom in, zoom level
// (click to reset), zoom out, fit, save and load. A button fires when the
// pointer is pressed and released over it.
type toolbar struct {
	canvas.BasePlugin
	cfg     config.ToolbarConfig
	theme   Theme
	actions func(Action)

	pressed int // index into buttons, -1 when none
}

func newToolbar(actions func(Action)) *toolbar {
	return &toolbar{
		BasePlugin: canvas.NewBasePlugin(PluginToolbar, "Toolbar", pluginVersion, canvas.PluginHooks{}),
		actions:    actions,
		pressed:    -1,
	}
}

func (t *toolbar) Configure(cfg *config.Config, theme Theme) {
	t.cfg = cfg.UI.Toolbar
	t.theme = theme
}

// buttons lays out the toolbar for the engine's screen size.
func (t *toolbar) buttons() []toolbarButton {
	e := t.Engine()
	if e == nil || !t.cfg.Enabled || t.cfg.Width <= 0 {
		return nil
	}
	return toolbarLayout(float64(t.cfg.Width), e.ViewportManager().ScreenSize())
}

// toolbarLayout stacks the buttons vertically, centred on the right edge.
func toolbarLayout(width float64, screen canvas.Size) []toolbarButton {
	specs := []struct {
		action Action
		label  string
	}{
		{ActionZoomIn, "+"},
		{ActionReset, ""},
		{ActionZoomOut, "-"},
		{ActionFit, "Fit"},
		{ActionSave, "Save"},
		{ActionLoad, "Load"},
	}
	total := float64(len(specs))*width + float64(len(specs)-1)*toolbarGap
	x := screen.Width - toolbarMargin - width
	y := (screen.Height - total) / 2
	out := make([]toolbarButton, len(specs))
	for i, s := range specs {
		out[i] = toolbarButton{
			action: s.action,
			label:  s.label,
			rect:   canvas.Rect{X: x, Y: y + float64(i)*(width+toolbarGap), Width: width, Height: width},
		}
	}
	return out
}

func (t *toolbar) hit(p canvas.Position) int {
	for i, b := range t.buttons() {
		if b.rect.Contains(p.X, p.Y) {
			return i
		}
	}
	return -1
}

func (t *toolbar) HitTest(p canvas.Position) bool {
	return t.hit(p) >= 0
}

func (t *toolbar) PointerDown(p canvas.Position) {
	t.pressed = t.hit(p)
}

func (t *toolbar) PointerMove(canvas.Position) {}

func (t *toolbar) PointerUp(p canvas.Position) {
	pressed := t.pressed
	t.pressed = -1
	if pressed < 0 || t.hit(p) != pressed || t.actions == nil {
		return
	}
	t.actions(t.buttons()[pressed].action)
}

func (t *toolbar) Draw(screen *ebiten.Image) {
	e := t.Engine()
	if e == nil {
		return
	}
	for i, b := range t.buttons() {
		x, y, w, h := float32(b.rect.X), float32(b.rect.Y), float32(b.rect.Width), float32(b.rect.Height)
		fill := t.theme.NodeBackground
		if i == t.pressed {
			fill = t.theme.NodeSelected
		}
		vector.DrawFilledRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1, t.theme.NodeBorder, false)

		label := b.label
		if b.action == ActionReset {
			label = canvas.ZoomPercent(e.Viewport().Zoom)
		}
		// The debug font is 6x16 pixels per glyph.
		tx := int(b.rect.X + (b.rect.Width-float64(6*len(label)))/2)
		ty := int(b.rect.Y + (b.rect.Height-16)/2)
		ebitenutil.DebugPrintAt(screen, label, tx, ty)
	}
}
