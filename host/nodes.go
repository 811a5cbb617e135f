package host

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

// Accent colors per node type, shared with the minimap.
var nodeTypeColors = map[canvas.NodeType]color.RGBA{
	canvas.NodeTypeText:        {R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
	canvas.NodeTypeAIGenerated: {R: 0xd9, G: 0x46, B: 0xef, A: 0xff},
	canvas.NodeTypeImage:       {R: 0x10, G: 0xb9, B: 0x81, A: 0xff},
	canvas.NodeTypeShape:       {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
}

func nodeTypeColor(t canvas.NodeType) color.RGBA {
	if c, ok := nodeTypeColors[t]; ok {
		return c
	}
	return nodeTypeColors[canvas.NodeTypeText]
}

// nodeLayer draws every node in paint order and highlights the last
// selected one.
type nodeLayer struct {
	canvas.BasePlugin
	theme    Theme
	selected string
	unsubs   []func()
}

func newNodeLayer() *nodeLayer {
	l := &nodeLayer{}
	l.BasePlugin = canvas.NewBasePlugin(PluginNodeLayer, "Node Layer", pluginVersion, canvas.PluginHooks{})
	l.SetHooks(canvas.PluginHooks{
		OnActivate:   l.subscribe,
		OnDeactivate: l.unsubscribe,
	})
	return l
}

func (l *nodeLayer) subscribe() error {
	bus := l.Engine().EventBus()
	l.unsubs = append(l.unsubs,
		bus.On(canvas.EventNodeSelected, func(data any) {
			if n, ok := data.(canvas.CanvasNode); ok {
				l.selected = n.ID
			}
		}),
		bus.On(canvas.EventNodeRemoved, func(data any) {
			if n, ok := data.(canvas.CanvasNode); ok && n.ID == l.selected {
				l.selected = ""
			}
		}),
	)
	return nil
}

func (l *nodeLayer) unsubscribe() error {
	for _, off := range l.unsubs {
		off()
	}
	l.unsubs = nil
	l.selected = ""
	return nil
}

func (l *nodeLayer) Configure(_ *config.Config, theme Theme) {
	l.theme = theme
}

// Selected returns the id of the highlighted node.
func (l *nodeLayer) Selected() string {
	return l.selected
}

func (l *nodeLayer) Draw(screen *ebiten.Image) {
	e := l.Engine()
	if e == nil {
		return
	}
	vp := e.Viewport()
	view := canvas.Rect{Width: screenSize(screen).Width, Height: screenSize(screen).Height}

	for _, n := range e.Nodes() {
		r := nodeScreenRect(n, vp)
		if !r.Intersects(view) {
			continue
		}
		border := l.theme.NodeBorder
		if n.ID == l.selected {
			border = l.theme.NodeSelected
		}
		x, y, w, h := float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)

		if n.Type == canvas.NodeTypeShape && n.Metadata["shape"] == "circle" {
			fill := nodeTypeColor(n.Type)
			if s, ok := n.Metadata["color"].(string); ok {
				if c, err := config.ParseHexColor(s); err == nil {
					fill = c
				}
			}
			cx, cy, radius := x+w/2, y+h/2, min(w, h)/2
			vector.DrawFilledCircle(screen, cx, cy, radius, fill, true)
			vector.StrokeCircle(screen, cx, cy, radius, 1, border, true)
			continue
		}

		vector.DrawFilledRect(screen, x, y, w, h, l.theme.NodeBackground, false)
		vector.DrawFilledRect(screen, x, y, 3, h, nodeTypeColor(n.Type), false)
		vector.StrokeRect(screen, x, y, w, h, 1, border, false)
		if label := nodeLabel(n); label != "" && vp.Zoom >= 0.4 {
			ebitenutil.DebugPrintAt(screen, label, int(x)+8, int(y)+4)
		}
	}
}

// nodeScreenRect returns n's bounding box in screen space.
func nodeScreenRect(n canvas.CanvasNode, vp canvas.Viewport) canvas.Rect {
	b := n.Bounds()
	return canvas.Rect{
		X:      b.X*vp.Zoom + vp.X,
		Y:      b.Y*vp.Zoom + vp.Y,
		Width:  b.Width * vp.Zoom,
		Height: b.Height * vp.Zoom,
	}
}

func nodeLabel(n canvas.CanvasNode) string {
	if n.Content != "" {
		return n.Content
	}
	return string(n.Type)
}
