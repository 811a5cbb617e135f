package host

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/infinispace/canvas/config"
)

// Theme holds parsed colors for drawing.
type Theme struct {
	Background       color.RGBA
	Grid             color.RGBA
	NodeBackground   color.RGBA
	NodeBorder       color.RGBA
	NodeSelected     color.RGBA
	NodeText         color.RGBA
	MinimapBorder    color.RGBA
	MinimapIndicator color.RGBA
}

// NewTheme parses every color in cfg. Colors that fail to parse fall back
// to the default theme and are reported together in the returned error.
func NewTheme(cfg config.ThemeConfig) (Theme, error) {
	def := config.Default().Theme
	var errs []error
	parse := func(name, v, fallback string) color.RGBA {
		c, err := config.ParseHexColor(v)
		if err == nil {
			return c
		}
		errs = append(errs, fmt.Errorf("theme.%s: %w", name, err))
		c, _ = config.ParseHexColor(fallback)
		return c
	}
	t := Theme{
		Background:       parse("background", cfg.Background, def.Background),
		Grid:             parse("grid", cfg.Grid, def.Grid),
		NodeBackground:   parse("node_background", cfg.NodeBackground, def.NodeBackground),
		NodeBorder:       parse("node_border", cfg.NodeBorder, def.NodeBorder),
		NodeSelected:     parse("node_selected", cfg.NodeSelected, def.NodeSelected),
		NodeText:         parse("node_text", cfg.NodeText, def.NodeText),
		MinimapBorder:    parse("minimap_border", cfg.MinimapBorder, def.MinimapBorder),
		MinimapIndicator: parse("minimap_indicator", cfg.MinimapIndicator, def.MinimapIndicator),
	}
	return t, errors.Join(errs...)
}

// withAlpha scales c's alpha by a in [0,1]. Colors are premultiplied so every
// channel scales.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = min(max(a, 0), 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
