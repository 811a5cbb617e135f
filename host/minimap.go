package host

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

const minimapMargin = 16

// minimap shows the whole world square scaled into a corner box, with a dot
// per node and a rectangle for the visible area. When interactive, dragging
// the rectangle pans the canvas and clicking elsewhere centres the canvas on
// that spot.
type minimap struct {
	canvas.BasePlugin
	cfg   config.MinimapConfig
	theme Theme

	dragging bool
	last     canvas.Position
}

func newMinimap() *minimap {
	return &minimap{BasePlugin: canvas.NewBasePlugin(PluginMinimap, "Minimap", pluginVersion, canvas.PluginHooks{})}
}

func (m *minimap) Configure(cfg *config.Config, theme Theme) {
	m.cfg = cfg.UI.Minimap
	m.theme = theme
}

func (m *minimap) visible() bool {
	return m.Engine() != nil && m.cfg.Enabled && m.cfg.Size > 0
}

func (m *minimap) screen() canvas.Size {
	return m.Engine().ViewportManager().ScreenSize()
}

// minimapRect places a square of side size in corner, minimapMargin pixels
// from the screen edges.
func minimapRect(corner string, size float64, screen canvas.Size) canvas.Rect {
	r := canvas.Rect{X: minimapMargin, Y: screen.Height - minimapMargin - size, Width: size, Height: size}
	switch corner {
	case config.CornerTopLeft:
		r.Y = minimapMargin
	case config.CornerTopRight:
		r.X = screen.Width - minimapMargin - size
		r.Y = minimapMargin
	case config.CornerBottomRight:
		r.X = screen.Width - minimapMargin - size
	}
	return r
}

func (m *minimap) rect() canvas.Rect {
	return minimapRect(m.cfg.Position, float64(m.cfg.Size), m.screen())
}

func imageRect(r canvas.Rect) image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
}

// toMap maps a world point into the minimap rectangle.
func toMap(cs *canvas.CoordinateSystem, r canvas.Rect, world canvas.Position) canvas.Position {
	n := cs.NormalizeWorldPosition(world)
	return canvas.Position{X: r.X + n.X*r.Width, Y: r.Y + n.Y*r.Height}
}

// fromMap is the inverse of toMap.
func fromMap(cs *canvas.CoordinateSystem, r canvas.Rect, p canvas.Position) canvas.Position {
	return cs.DenormalizeWorldPosition(canvas.Position{X: (p.X - r.X) / r.Width, Y: (p.Y - r.Y) / r.Height})
}

// indicatorRect returns the visible area in minimap space.
func (m *minimap) indicatorRect(e *canvas.Engine, r canvas.Rect) canvas.Rect {
	cs := e.CoordinateSystem()
	b := cs.VisibleBounds(e.Viewport(), m.screen())
	tl := toMap(cs, r, canvas.Position{X: b.MinX, Y: b.MinY})
	br := toMap(cs, r, canvas.Position{X: b.MaxX, Y: b.MaxY})
	return canvas.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

func (m *minimap) HitTest(p canvas.Position) bool {
	return m.visible() && m.rect().Contains(p.X, p.Y)
}

// PointerDown starts an indicator drag, or centres the canvas on the pressed
// spot. A non-interactive minimap still swallows the press.
func (m *minimap) PointerDown(p canvas.Position) {
	e := m.Engine()
	if e == nil || !m.cfg.Interactive {
		return
	}
	r := m.rect()
	if m.cfg.ShowViewportIndicator && m.indicatorRect(e, r).Contains(p.X, p.Y) {
		m.dragging = true
		m.last = p
		return
	}
	world := fromMap(e.CoordinateSystem(), r, p)
	e.PanTo(world.X, world.Y)
}

func (m *minimap) PointerMove(p canvas.Position) {
	e := m.Engine()
	if !m.dragging || e == nil {
		return
	}
	r := m.rect()
	ws := e.CoordinateSystem().WorldSize()
	dx := (p.X - m.last.X) / r.Width * ws
	dy := (p.Y - m.last.Y) / r.Height * ws
	m.last = p
	zoom := e.Viewport().Zoom
	e.Pan(-dx*zoom, -dy*zoom)
}

func (m *minimap) PointerUp(p canvas.Position) {
	m.PointerMove(p)
	m.dragging = false
}

func (m *minimap) Draw(screen *ebiten.Image) {
	e := m.Engine()
	if !m.visible() {
		return
	}
	r := m.rect()
	a := m.cfg.Opacity
	x, y, s := float32(r.X), float32(r.Y), float32(r.Width)

	vector.DrawFilledRect(screen, x, y, s, s, withAlpha(m.theme.Background, a), false)
	vector.StrokeRect(screen, x, y, s, s, 1, withAlpha(m.theme.MinimapBorder, a), false)

	sub := screen.SubImage(imageRect(r)).(*ebiten.Image)
	cs := e.CoordinateSystem()
	if m.cfg.ShowNodes {
		for _, n := range e.Nodes() {
			p := toMap(cs, r, n.Position)
			vector.DrawFilledCircle(sub, float32(p.X), float32(p.Y), 2, withAlpha(nodeTypeColor(n.Type), a), true)
		}
	}
	if m.cfg.ShowViewportIndicator {
		ir := m.indicatorRect(e, r)
		fill := color.RGBA{R: 0x0d, G: 0x0d, B: 0x0d, A: 0x0d}
		if m.dragging {
			fill = color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 0x26}
		}
		ix, iy, iw, ih := float32(ir.X), float32(ir.Y), float32(ir.Width), float32(ir.Height)
		vector.DrawFilledRect(sub, ix, iy, iw, ih, fill, false)
		vector.StrokeRect(sub, ix, iy, iw, ih, 1, withAlpha(m.theme.MinimapIndicator, a), false)
	}
	c := toMap(cs, r, canvas.Position{})
	vector.DrawFilledRect(sub, float32(c.X)-1, float32(c.Y)-1, 2, 2, color.RGBA{R: 0x4d, G: 0x4d, B: 0x4d, A: 0x4d}, false)
}
