package canvas

import "math"

// Position is a 2D point. Whether it is in screen pixels or world units is
// decided by the call site; the type carries no tag.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns p * s.
func (p Position) Scale(s float64) Position {
	return Position{X: p.X * s, Y: p.Y * s}
}

// Distance returns the euclidean distance between p and o.
func (p Position) Distance(o Position) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the affine world-to-screen transform:
//
//	screen = world*Zoom + (X, Y)
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Offset returns the viewport translation as a Position.
func (v Viewport) Offset() Position {
	return Position{X: v.X, Y: v.Y}
}

// ViewportConstraints is fixed at engine construction. WorldSize is the side
// of a square world centred at the origin.
type ViewportConstraints struct {
	MinZoom          float64 `json:"minZoom"`
	MaxZoom          float64 `json:"maxZoom"`
	WorldSize        float64 `json:"worldSize"`
	ConstrainToWorld bool    `json:"constrainToWorld,omitempty"`
}

// Default constraint values.
const (
	DefaultMinZoom   = 0.1
	DefaultMaxZoom   = 5.0
	DefaultWorldSize = 10000
)

// DefaultConstraints returns the stock zoom range and world size.
func DefaultConstraints() ViewportConstraints {
	return ViewportConstraints{
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
		WorldSize: DefaultWorldSize,
	}
}

// normalized replaces unusable fields with defaults: a non-positive MinZoom,
// a MaxZoom below MinZoom, or a non-positive WorldSize.
func (c ViewportConstraints) normalized() ViewportConstraints {
	if c.MinZoom <= 0 || math.IsNaN(c.MinZoom) {
		c.MinZoom = DefaultMinZoom
	}
	if c.MaxZoom < c.MinZoom || math.IsNaN(c.MaxZoom) {
		c.MaxZoom = math.Max(DefaultMaxZoom, c.MinZoom)
	}
	if c.WorldSize <= 0 || math.IsNaN(c.WorldSize) {
		c.WorldSize = DefaultWorldSize
	}
	return c
}

// ClampZoom clamps z into [MinZoom, MaxZoom].
func (c ViewportConstraints) ClampZoom(z float64) float64 {
	return math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the centre point of the rectangle.
func (r Rect) Center() Position {
	return Position{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds is a min/max box, used for visible-area queries.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Rect converts b to a Rect.
func (b Bounds) Rect() Rect {
	return Rect{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
