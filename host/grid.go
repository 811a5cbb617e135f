package host

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

// fullOpacityZoom is the zoom at and above which the grid is fully visible.
const fullOpacityZoom = 0.5

// gridLayer draws a dot grid with optional major lines every
// LargeGridMultiplier cells.
type gridLayer struct {
	canvas.BasePlugin
	cfg   config.GridConfig
	color color.RGBA
}

func newGridLayer() *gridLayer {
	return &gridLayer{BasePlugin: canvas.NewBasePlugin(PluginGrid, "Grid", pluginVersion, canvas.PluginHooks{})}
}

func (g *gridLayer) Configure(cfg *config.Config, theme Theme) {
	g.cfg = cfg.UI.Grid
	g.color = theme.Grid
}

func (g *gridLayer) Draw(screen *ebiten.Image) {
	e := g.Engine()
	if e == nil || !g.cfg.Enabled || g.cfg.Size <= 0 {
		return
	}
	vp := e.Viewport()
	alpha := gridOpacity(g.cfg, vp.Zoom)
	if alpha <= 0 {
		return
	}
	size := screenSize(screen)

	step := g.cfg.Size * vp.Zoom
	// Dots closer than this are a solid smear, so skip them.
	if step >= 4 {
		dot := withAlpha(g.color, alpha)
		xs := gridLines(vp.X, step, size.Width)
		ys := gridLines(vp.Y, step, size.Height)
		for _, x := range xs {
			for _, y := range ys {
				vector.DrawFilledRect(screen, float32(x), float32(y), 1, 1, dot, false)
			}
		}
	}

	if !g.cfg.ShowLargeGrid {
		return
	}
	mult := max(g.cfg.LargeGridMultiplier, 1)
	major := step * float64(mult)
	line := withAlpha(g.color, alpha*0.5*0.125)
	for _, x := range gridLines(vp.X, major, size.Width) {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(size.Height), 1, line, false)
	}
	for _, y := range gridLines(vp.Y, major, size.Height) {
		vector.StrokeLine(screen, 0, float32(y), float32(size.Width), float32(y), 1, line, false)
	}
}

// gridOpacity fades the grid linearly from full opacity at zoom 0.5 down to
// nothing at FadeBelowZoom.
func gridOpacity(cfg config.GridConfig, zoom float64) float64 {
	if zoom >= fullOpacityZoom {
		return cfg.Opacity
	}
	span := fullOpacityZoom - cfg.FadeBelowZoom
	if span <= 0 {
		return 0
	}
	return max(0, (zoom-cfg.FadeBelowZoom)/span) * cfg.Opacity
}

// gridLines returns the screen coordinates in [0, extent) of lines spaced by
// step and aligned to offset.
func gridLines(offset, step, extent float64) []float64 {
	if step <= 0 || extent <= 0 {
		return nil
	}
	first := offset - math.Floor(offset/step)*step
	lines := make([]float64, 0, int(extent/step)+1)
	for v := first; v < extent; v += step {
		lines = append(lines, v)
	}
	return lines
}
