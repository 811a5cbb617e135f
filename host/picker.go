package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

const (
	pickerWidth      = 200
	pickerItemHeight = 28
	pickerPadding    = 4
)

// pickerItem is one entry in the node picker menu.
type pickerItem struct {
	nodeType canvas.NodeType
	label    string
	size     canvas.Size
}

var pickerItems = []pickerItem{
	{canvas.NodeTypeText, "Text Node", canvas.Size{Width: 150, Height: 80}},
	{canvas.NodeTypeShape, "Shape", canvas.Size{Width: 100, Height: 100}},
	{canvas.NodeTypeImage, "Image", canvas.Size{Width: 200, Height: 150}},
	{canvas.NodeTypeAIGenerated, "AI Node", canvas.Size{Width: 200, Height: 120}},
}

// nodePicker is the menu that creates nodes. It opens on canvas:contextmenu
// (right click, or Ctrl+Shift+N at the screen centre) and adds the chosen
// type at the world point the menu was opened on. While open it is modal:
// a press outside the menu closes it and is not passed on.
type nodePicker struct {
	canvas.BasePlugin
	theme Theme

	open    bool
	screen  canvas.Position
	world   canvas.Position
	pressed int // index into pickerItems, -1 when none

	unsubs []func()
}

func newNodePicker() *nodePicker {
	p := &nodePicker{pressed: -1}
	p.BasePlugin = canvas.NewBasePlugin(PluginNodePicker, "Node Picker", pluginVersion, canvas.PluginHooks{})
	p.SetHooks(canvas.PluginHooks{
		OnActivate:   p.subscribe,
		OnDeactivate: p.unsubscribe,
	})
	return p
}

func (p *nodePicker) subscribe() error {
	p.unsubs = append(p.unsubs, p.Engine().EventBus().On(canvas.EventCanvasContextMenu, func(data any) {
		if m, ok := data.(canvas.ContextMenu); ok {
			p.show(m)
		}
	}))
	return nil
}

func (p *nodePicker) unsubscribe() error {
	for _, off := range p.unsubs {
		off()
	}
	p.unsubs = nil
	p.Dismiss()
	return nil
}

func (p *nodePicker) Configure(_ *config.Config, theme Theme) {
	p.theme = theme
}

func (p *nodePicker) show(m canvas.ContextMenu) {
	p.open = true
	p.screen = m.Screen
	p.world = m.World
	p.pressed = -1
}

// Open reports whether the menu is showing.
func (p *nodePicker) Open() bool {
	return p.open
}

// Dismiss closes the menu. Returns false if it was already closed.
func (p *nodePicker) Dismiss() bool {
	if !p.open {
		return false
	}
	p.open = false
	p.pressed = -1
	return true
}

// menuRect places the menu at the opening point, shifted to stay on screen.
func (p *nodePicker) menuRect() canvas.Rect {
	var screen canvas.Size
	if e := p.Engine(); e != nil {
		screen = e.ViewportManager().ScreenSize()
	}
	return pickerRect(p.screen, screen)
}

func pickerRect(at canvas.Position, screen canvas.Size) canvas.Rect {
	r := canvas.Rect{
		X:      at.X,
		Y:      at.Y,
		Width:  pickerWidth,
		Height: float64(len(pickerItems))*pickerItemHeight + 2*pickerPadding,
	}
	if screen.Width > 0 && r.X+r.Width > screen.Width {
		r.X = max(screen.Width-r.Width, 0)
	}
	if screen.Height > 0 && r.Y+r.Height > screen.Height {
		r.Y = max(screen.Height-r.Height, 0)
	}
	return r
}

func pickerItemRect(menu canvas.Rect, i int) canvas.Rect {
	return canvas.Rect{
		X:      menu.X + pickerPadding,
		Y:      menu.Y + pickerPadding + float64(i)*pickerItemHeight,
		Width:  menu.Width - 2*pickerPadding,
		Height: pickerItemHeight,
	}
}

func (p *nodePicker) itemAt(pos canvas.Position) int {
	menu := p.menuRect()
	for i := range pickerItems {
		if pickerItemRect(menu, i).Contains(pos.X, pos.Y) {
			return i
		}
	}
	return -1
}

// HitTest claims every position while the menu is open.
func (p *nodePicker) HitTest(canvas.Position) bool {
	return p.open
}

func (p *nodePicker) PointerDown(pos canvas.Position) {
	if !p.menuRect().Contains(pos.X, pos.Y) {
		p.Dismiss()
		return
	}
	p.pressed = p.itemAt(pos)
}

func (p *nodePicker) PointerMove(canvas.Position) {}

func (p *nodePicker) PointerUp(pos canvas.Position) {
	pressed := p.pressed
	p.pressed = -1
	if !p.open || pressed < 0 || p.itemAt(pos) != pressed {
		return
	}
	p.add(pickerItems[pressed])
}

// add creates a node of the item's type centred on the stored world point.
func (p *nodePicker) add(item pickerItem) {
	e := p.Engine()
	if e == nil {
		return
	}
	e.AddNode(canvas.CanvasNode{
		Type:     item.nodeType,
		Content:  item.label,
		Position: p.world,
		Size:     item.size,
		Metadata: map[string]any{
			"createdVia": PluginNodePicker,
			"timestamp":  e.Now().UnixMilli(),
		},
	})
	p.Dismiss()
}

func (p *nodePicker) Draw(screen *ebiten.Image) {
	if !p.open {
		return
	}
	menu := p.menuRect()
	vector.DrawFilledRect(screen, float32(menu.X), float32(menu.Y), float32(menu.Width), float32(menu.Height), p.theme.NodeBackground, false)
	vector.StrokeRect(screen, float32(menu.X), float32(menu.Y), float32(menu.Width), float32(menu.Height), 1, p.theme.NodeBorder, false)

	for i, item := range pickerItems {
		r := pickerItemRect(menu, i)
		if i == p.pressed {
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), p.theme.NodeSelected, false)
		}
		vector.DrawFilledRect(screen, float32(r.X+6), float32(r.Y+8), 12, 12, nodeTypeColor(item.nodeType), false)
		ebitenutil.DebugPrintAt(screen, item.label, int(r.X)+26, int(r.Y)+6)
	}
}
