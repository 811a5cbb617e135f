// Package config loads, validates and watches the canvas TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/infinispace/canvas"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Section names used when announcing changes on the engine bus.
const (
	SectionViewport = "viewport"
	SectionUI       = "ui"
	SectionTheme    = "theme"
	SectionWindow   = "window"
	SectionPlugins  = "plugins"
)

// Config is the full application configuration.
type Config struct {
	Viewport ViewportConfig `toml:"viewport"`
	UI       UIConfig       `toml:"ui"`
	Theme    ThemeConfig    `toml:"theme"`
	Window   WindowConfig   `toml:"window"`
	Plugins  []PluginEntry  `toml:"plugins"`
}

// ViewportConfig holds the starting viewport and engine constraints.
type ViewportConfig struct {
	Initial     InitialConfig     `toml:"initial"`
	Constraints ConstraintsConfig `toml:"constraints"`
	Behaviors   BehaviorsConfig   `toml:"behaviors"`
}

// InitialConfig is the viewport at startup.
type InitialConfig struct {
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	Zoom float64 `toml:"zoom"`
}

// ConstraintsConfig bounds zoom and the world.
type ConstraintsConfig struct {
	MinZoom   float64 `toml:"min_zoom"`
	MaxZoom   float64 `toml:"max_zoom"`
	WorldSize float64 `toml:"world_size"`
}

// BehaviorsConfig toggles optional interaction behavior.
type BehaviorsConfig struct {
	SnapToGrid       bool    `toml:"snap_to_grid"`
	GridSize         float64 `toml:"grid_size"`
	ConstrainToWorld bool    `toml:"constrain_to_world"`
	AnimationMS      int     `toml:"animation_ms"`
	FitPadding       float64 `toml:"fit_padding"`
}

// UIConfig configures the built-in visual layers.
type UIConfig struct {
	Grid    GridConfig    `toml:"grid"`
	Minimap MinimapConfig `toml:"minimap"`
	Toolbar ToolbarConfig `toml:"toolbar"`
	Debug   DebugConfig   `toml:"debug"`
}

// GridConfig configures the background dot grid.
type GridConfig struct {
	Enabled             bool    `toml:"enabled"`
	Size                float64 `toml:"size"`
	FadeBelowZoom       float64 `toml:"fade_below_zoom"`
	Opacity             float64 `toml:"opacity"`
	ShowLargeGrid       bool    `toml:"show_large_grid"`
	LargeGridMultiplier int     `toml:"large_grid_multiplier"`
}

// Minimap corners.
const (
	CornerBottomLeft  = "bottom-left"
	CornerBottomRight = "bottom-right"
	CornerTopLeft     = "top-left"
	CornerTopRight    = "top-right"
)

// MinimapConfig configures the overview map.
type MinimapConfig struct {
	Enabled               bool    `toml:"enabled"`
	Size                  int     `toml:"size"`
	Position              string  `toml:"position"`
	Opacity               float64 `toml:"opacity"`
	ShowNodes             bool    `toml:"show_nodes"`
	Interactive           bool    `toml:"interactive"`
	ShowViewportIndicator bool    `toml:"show_viewport_indicator"`
}

// ToolbarConfig configures the zoom toolbar.
type ToolbarConfig struct {
	Enabled bool `toml:"enabled"`
	Width   int  `toml:"width"`
}

// Coordinate formats for the debug overlay.
const (
	CoordsScreen = "screen"
	CoordsWorld  = "world"
	CoordsBoth   = "both"
)

// DebugConfig configures the debug overlay.
type DebugConfig struct {
	Enabled          bool   `toml:"enabled"`
	ShowCoordinates  bool   `toml:"show_coordinates"`
	ShowFPS          bool   `toml:"show_fps"`
	ShowEvents       bool   `toml:"show_events"`
	CoordinateFormat string `toml:"coordinate_format"`
}

// ThemeConfig holds colors as "#rrggbb" or "#rrggbbaa".
type ThemeConfig struct {
	Background       string `toml:"background"`
	Grid             string `toml:"grid"`
	NodeBackground   string `toml:"node_background"`
	NodeBorder       string `toml:"node_border"`
	NodeSelected     string `toml:"node_selected"`
	NodeText         string `toml:"node_text"`
	MinimapBorder    string `toml:"minimap_border"`
	MinimapIndicator string `toml:"minimap_indicator"`
}

// WindowConfig configures the host window.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// PluginEntry enables a registered plugin. Lower priority draws first.
type PluginEntry struct {
	ID       string `toml:"id"`
	Enabled  bool   `toml:"enabled"`
	Priority int    `toml:"priority"`
}

// Default returns the default configuration. The initial viewport puts the
// world origin at the centre of the default window.
func Default() *Config {
	win := WindowConfig{Title: "infinispace", Width: 1280, Height: 720, Resizable: true}
	return &Config{
		Viewport: ViewportConfig{
			Initial: InitialConfig{X: float64(win.Width) / 2, Y: float64(win.Height) / 2, Zoom: 1},
			Constraints: ConstraintsConfig{
				MinZoom:   canvas.DefaultMinZoom,
				MaxZoom:   canvas.DefaultMaxZoom,
				WorldSize: canvas.DefaultWorldSize,
			},
			Behaviors: BehaviorsConfig{GridSize: 20, AnimationMS: 300, FitPadding: 50},
		},
		UI: UIConfig{
			Grid: GridConfig{
				Enabled:             true,
				Size:                20,
				FadeBelowZoom:       0.5,
				Opacity:             1,
				ShowLargeGrid:       true,
				LargeGridMultiplier: 10,
			},
			Minimap: MinimapConfig{
				Enabled:               true,
				Size:                  180,
				Position:              CornerBottomLeft,
				Opacity:               0.8,
				ShowNodes:             true,
				Interactive:           true,
				ShowViewportIndicator: true,
			},
			Toolbar: ToolbarConfig{Enabled: true, Width: 38},
			Debug: DebugConfig{
				Enabled:          true,
				ShowCoordinates:  true,
				CoordinateFormat: CoordsScreen,
			},
		},
		Theme: ThemeConfig{
			Background:       "#0f172a",
			Grid:             "#334155",
			NodeBackground:   "#1e293b",
			NodeBorder:       "#475569",
			NodeSelected:     "#3b82f6",
			NodeText:         "#f1f5f9",
			MinimapBorder:    "#475569",
			MinimapIndicator: "#3b82f6",
		},
		Window: win,
		Plugins: []PluginEntry{
			{ID: "grid", Enabled: true, Priority: 100},
			{ID: "node-layer", Enabled: true, Priority: 200},
			{ID: "toolbar", Enabled: true, Priority: 300},
			{ID: "node-picker", Enabled: true, Priority: 350},
			{ID: "minimap", Enabled: true, Priority: 400},
			{ID: "debug", Enabled: true, Priority: 500},
		},
	}
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg. Keys absent from data keep cfg's values;
// unknown keys are an error. A plugins list in data replaces cfg's list
// rather than merging into it element by element.
func Decode(data []byte, cfg *Config) error {
	plugins := cfg.Plugins
	cfg.Plugins = nil
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		cfg.Plugins = plugins
		return fmt.Errorf("decode toml: %w", err)
	}
	if !md.IsDefined("plugins") {
		cfg.Plugins = plugins
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Validate reports every problem found, joined. Each wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	cons := c.Viewport.Constraints
	if cons.MinZoom <= 0 {
		bad("viewport.constraints.min_zoom must be positive, got %v", cons.MinZoom)
	}
	if cons.MaxZoom < cons.MinZoom {
		bad("viewport.constraints.max_zoom %v is below min_zoom %v", cons.MaxZoom, cons.MinZoom)
	}
	if cons.WorldSize <= 0 {
		bad("viewport.constraints.world_size must be positive, got %v", cons.WorldSize)
	}
	if c.Viewport.Initial.Zoom <= 0 {
		bad("viewport.initial.zoom must be positive, got %v", c.Viewport.Initial.Zoom)
	}
	beh := c.Viewport.Behaviors
	if beh.SnapToGrid && beh.GridSize <= 0 {
		bad("viewport.behaviors.grid_size must be positive when snap_to_grid is set")
	}
	if beh.AnimationMS < 0 {
		bad("viewport.behaviors.animation_ms must not be negative")
	}

	if c.UI.Grid.Enabled && c.UI.Grid.Size <= 0 {
		bad("ui.grid.size must be positive, got %v", c.UI.Grid.Size)
	}
	if c.UI.Minimap.Enabled {
		if c.UI.Minimap.Size <= 0 {
			bad("ui.minimap.size must be positive, got %d", c.UI.Minimap.Size)
		}
		switch c.UI.Minimap.Position {
		case CornerBottomLeft, CornerBottomRight, CornerTopLeft, CornerTopRight:
		default:
			bad("ui.minimap.position %q is not a corner", c.UI.Minimap.Position)
		}
	}
	switch c.UI.Debug.CoordinateFormat {
	case CoordsScreen, CoordsWorld, CoordsBoth:
	default:
		bad("ui.debug.coordinate_format %q is not screen, world or both", c.UI.Debug.CoordinateFormat)
	}

	for name, value := range c.Theme.colors() {
		if _, err := ParseHexColor(value); err != nil {
			bad("theme.%s: %v", name, err)
		}
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	seen := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		if p.ID == "" {
			bad("plugins[%d] has no id", i)
			continue
		}
		if seen[p.ID] {
			bad("plugin %q listed twice", p.ID)
		}
		seen[p.ID] = true
	}

	return errors.Join(errs...)
}

func (t ThemeConfig) colors() map[string]string {
	return map[string]string{
		"background":        t.Background,
		"grid":              t.Grid,
		"node_background":   t.NodeBackground,
		"node_border":       t.NodeBorder,
		"node_selected":     t.NodeSelected,
		"node_text":         t.NodeText,
		"minimap_border":    t.MinimapBorder,
		"minimap_indicator": t.MinimapIndicator,
	}
}

// Constraints converts the constraint section to engine constraints.
func (c *Config) Constraints() canvas.ViewportConstraints {
	return canvas.ViewportConstraints{
		MinZoom:          c.Viewport.Constraints.MinZoom,
		MaxZoom:          c.Viewport.Constraints.MaxZoom,
		WorldSize:        c.Viewport.Constraints.WorldSize,
		ConstrainToWorld: c.Viewport.Behaviors.ConstrainToWorld,
	}
}

// InitialViewport returns the startup viewport.
func (c *Config) InitialViewport() canvas.Viewport {
	return canvas.Viewport{X: c.Viewport.Initial.X, Y: c.Viewport.Initial.Y, Zoom: c.Viewport.Initial.Zoom}
}

// EngineOptions returns engine options derived from the config.
func (c *Config) EngineOptions() []canvas.Option {
	opts := []canvas.Option{
		canvas.WithScreenSize(canvas.Size{Width: float64(c.Window.Width), Height: float64(c.Window.Height)}),
	}
	if c.Viewport.Behaviors.SnapToGrid {
		opts = append(opts, canvas.WithSnapToGrid(c.Viewport.Behaviors.GridSize))
	}
	return opts
}

// EnabledPlugins returns enabled plugin entries ordered by priority. Ties
// keep file order.
func (c *Config) EnabledPlugins() []PluginEntry {
	out := make([]PluginEntry, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		if p.Enabled {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b PluginEntry) int { return a.Priority - b.Priority })
	return out
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("color %q must start with #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q has bad length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
