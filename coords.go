package canvas

import "math"

// CoordinateSystem maps between screen and world space. Apart from the
// configured world size and constraints it holds no state.
type CoordinateSystem struct {
	worldSize   float64
	constraints ViewportConstraints
}

// NewCoordinateSystem creates a CoordinateSystem for a square world of side
// worldSize.
func NewCoordinateSystem(worldSize float64, constraints ViewportConstraints) *CoordinateSystem {
	return &CoordinateSystem{worldSize: worldSize, constraints: constraints}
}

// ScreenToWorld converts a screen point to world space: (p - offset) / zoom.
func (cs *CoordinateSystem) ScreenToWorld(screen Position, vp Viewport) Position {
	return Position{
		X: (screen.X - vp.X) / vp.Zoom,
		Y: (screen.Y - vp.Y) / vp.Zoom,
	}
}

// WorldToScreen converts a world point to screen space: p*zoom + offset.
func (cs *CoordinateSystem) WorldToScreen(world Position, vp Viewport) Position {
	return Position{
		X: world.X*vp.Zoom + vp.X,
		Y: world.Y*vp.Zoom + vp.Y,
	}
}

// BatchScreenToWorld maps ScreenToWorld over points.
func (cs *CoordinateSystem) BatchScreenToWorld(points []Position, vp Viewport) []Position {
	out := make([]Position, len(points))
	for i, p := range points {
		out[i] = cs.ScreenToWorld(p, vp)
	}
	return out
}

// BatchWorldToScreen maps WorldToScreen over points.
func (cs *CoordinateSystem) BatchWorldToScreen(points []Position, vp Viewport) []Position {
	out := make([]Position, len(points))
	for i, p := range points {
		out[i] = cs.WorldToScreen(p, vp)
	}
	return out
}

// IsInWorldBounds reports whether p lies inside the square world.
func (cs *CoordinateSystem) IsInWorldBounds(p Position) bool {
	half := cs.worldSize / 2
	return p.X >= -half && p.X <= half && p.Y >= -half && p.Y <= half
}

// ConstrainToWorld clamps p to the world square. It is the identity unless
// the ConstrainToWorld constraint is set.
func (cs *CoordinateSystem) ConstrainToWorld(p Position) Position {
	if !cs.constraints.ConstrainToWorld {
		return p
	}
	half := cs.worldSize / 2
	return Position{
		X: math.Max(-half, math.Min(half, p.X)),
		Y: math.Max(-half, math.Min(half, p.Y)),
	}
}

// NormalizeWorldPosition maps world coordinates into [0, 1] on both axes.
func (cs *CoordinateSystem) NormalizeWorldPosition(p Position) Position {
	half := cs.worldSize / 2
	return Position{
		X: (p.X + half) / cs.worldSize,
		Y: (p.Y + half) / cs.worldSize,
	}
}

// DenormalizeWorldPosition is the inverse of NormalizeWorldPosition.
func (cs *CoordinateSystem) DenormalizeWorldPosition(n Position) Position {
	half := cs.worldSize / 2
	return Position{
		X: n.X*cs.worldSize - half,
		Y: n.Y*cs.worldSize - half,
	}
}

// SnapToGrid rounds p to the nearest multiple of gridSize, halves rounding
// toward positive infinity. A non-positive gridSize returns p unchanged.
func (cs *CoordinateSystem) SnapToGrid(p Position, gridSize float64) Position {
	if gridSize <= 0 {
		return p
	}
	return Position{
		X: math.Floor(p.X/gridSize+0.5) * gridSize,
		Y: math.Floor(p.Y/gridSize+0.5) * gridSize,
	}
}

// VisibleBounds returns the world-space box visible through a container of
// the given size.
func (cs *CoordinateSystem) VisibleBounds(vp Viewport, container Size) Bounds {
	x0 := cs.ScreenToWorld(Position{0, 0}, vp)
	x1 := cs.ScreenToWorld(Position{container.Width, 0}, vp)
	x2 := cs.ScreenToWorld(Position{container.Width, container.Height}, vp)
	x3 := cs.ScreenToWorld(Position{0, container.Height}, vp)

	return Bounds{
		MinX: math.Min(math.Min(x0.X, x1.X), math.Min(x2.X, x3.X)),
		MaxX: math.Max(math.Max(x0.X, x1.X), math.Max(x2.X, x3.X)),
		MinY: math.Min(math.Min(x0.Y, x1.Y), math.Min(x2.Y, x3.Y)),
		MaxY: math.Max(math.Max(x0.Y, x1.Y), math.Max(x2.Y, x3.Y)),
	}
}

// CalculateZoomToFit returns the zoom that fits content inside container
// with padding on every side, capped at MaxZoom. A zero-size container or
// content yields Inf or NaN; callers guard.
func (cs *CoordinateSystem) CalculateZoomToFit(content, container Size, padding float64) float64 {
	availW := container.Width - padding*2
	availH := container.Height - padding*2

	scaleX := availW / content.Width
	scaleY := availH / content.Height

	return math.Min(math.Min(scaleX, scaleY), cs.constraints.MaxZoom)
}

// IsPointVisible reports whether a world point lands inside the container.
func (cs *CoordinateSystem) IsPointVisible(world Position, vp Viewport, container Size) bool {
	s := cs.WorldToScreen(world, vp)
	return s.X >= 0 && s.X <= container.Width && s.Y >= 0 && s.Y <= container.Height
}

// WorldSize returns the side length of the world square.
func (cs *CoordinateSystem) WorldSize() float64 {
	return cs.worldSize
}

// SetWorldSize changes the side length of the world square.
func (cs *CoordinateSystem) SetWorldSize(size float64) {
	cs.worldSize = size
}
