package host

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

// Built-in plugin ids. They match the ids in config.Default.
const (
	PluginGrid       = "grid"
	PluginNodeLayer  = "node-layer"
	PluginToolbar    = "toolbar"
	PluginNodePicker = "node-picker"
	PluginMinimap    = "minimap"
	PluginDebug      = "debug"
)

const pluginVersion = "1.0.0"

// Layer is a plugin the host draws every frame, lowest priority first.
type Layer interface {
	canvas.Plugin

	// Configure is called after creation and on every config reload.
	Configure(cfg *config.Config, theme Theme)

	Draw(screen *ebiten.Image)
}

// PointerLayer is a layer that can claim pointer input before the canvas
// sees it. Layers are asked topmost first.
type PointerLayer interface {
	Layer

	// HitTest reports whether the layer claims input at p. A claimed press
	// sends the following moves and the release to the same layer, and a
	// claimed wheel is dropped.
	HitTest(p canvas.Position) bool

	PointerDown(p canvas.Position)
	PointerMove(p canvas.Position)
	PointerUp(p canvas.Position)
}

// Dismisser is a layer with transient UI that Escape closes. Dismiss
// reports whether anything was closed.
type Dismisser interface {
	Dismiss() bool
}

// NewRegistry returns a registry holding the built-in layers. The toolbar
// sends its buttons to actions.
func NewRegistry(logger *slog.Logger, actions func(Action)) *canvas.PluginRegistry {
	r := canvas.NewPluginRegistry(logger)
	r.Register(PluginGrid, func() canvas.Plugin { return newGridLayer() })
	r.Register(PluginNodeLayer, func() canvas.Plugin { return newNodeLayer() })
	r.Register(PluginToolbar, func() canvas.Plugin { return newToolbar(actions) })
	r.Register(PluginNodePicker, func() canvas.Plugin { return newNodePicker() })
	r.Register(PluginMinimap, func() canvas.Plugin { return newMinimap() })
	r.Register(PluginDebug, func() canvas.Plugin { return newDebugOverlay() })
	return r
}

// screenSize returns the size of img as a canvas size.
func screenSize(img *ebiten.Image) canvas.Size {
	b := img.Bounds()
	return canvas.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}
