package host

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

const (
	fpsRefresh      = 500 * time.Millisecond
	debugEventLines = 6
)

// debugOverlay prints the viewport origin, FPS/TPS and the most recent bus
// events in the top-left corner. The FPS line refreshes every ~0.5 seconds.
type debugOverlay struct {
	canvas.BasePlugin
	cfg config.DebugConfig

	now        func() time.Time
	lastUpdate time.Time
	fpsText    string
}

func newDebugOverlay() *debugOverlay {
	return &debugOverlay{
		BasePlugin: canvas.NewBasePlugin(PluginDebug, "Debug Overlay", pluginVersion, canvas.PluginHooks{}),
		now:        time.Now,
	}
}

func (d *debugOverlay) Configure(cfg *config.Config, _ Theme) {
	d.cfg = cfg.UI.Debug
}

// formatCoordinates renders the viewport origin in the configured format.
func formatCoordinates(vp canvas.Viewport, format string) string {
	round := func(v float64) int { return int(math.Floor(v + 0.5)) }
	wx, wy := -vp.X/vp.Zoom, -vp.Y/vp.Zoom
	switch format {
	case config.CoordsWorld:
		return fmt.Sprintf("X: %d Y: %d", round(wx), round(wy))
	case config.CoordsBoth:
		return fmt.Sprintf("Screen: %d, %d | World: %d, %d", round(vp.X), round(vp.Y), round(wx), round(wy))
	default:
		return fmt.Sprintf("X: %d Y: %d", round(vp.X), round(vp.Y))
	}
}

// recentEvents formats the last n history entries, newest last.
func recentEvents(history []canvas.Envelope, n int) []string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]string, len(history))
	for i, env := range history {
		out[i] = string(env.Event)
	}
	return out
}

func (d *debugOverlay) lines() []string {
	e := d.Engine()
	var lines []string
	if d.cfg.ShowCoordinates {
		lines = append(lines, formatCoordinates(e.Viewport(), d.cfg.CoordinateFormat))
		lines = append(lines, "Zoom: "+canvas.ZoomPercent(e.Viewport().Zoom))
	}
	if d.cfg.ShowFPS {
		if now := d.now(); d.fpsText == "" || now.Sub(d.lastUpdate) >= fpsRefresh {
			d.lastUpdate = now
			d.fpsText = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		}
		lines = append(lines, d.fpsText)
	}
	if d.cfg.ShowEvents {
		lines = append(lines, recentEvents(e.EventBus().History(), debugEventLines)...)
	}
	return lines
}

func (d *debugOverlay) Draw(screen *ebiten.Image) {
	if d.Engine() == nil || !d.cfg.Enabled {
		return
	}
	lines := d.lines()
	if len(lines) == 0 {
		return
	}
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	// Semi-transparent background for readability.
	vector.DrawFilledRect(screen, 12, 12, float32(width*6+8), float32(len(lines)*16+8), translucentBlack, false)
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 16, 16)
}
