package canvas

import (
	"log/slog"
	"time"
)

// Zoom step factors applied per discrete zoom call, independent of the
// delta's magnitude.
const (
	zoomOutFactor = 0.9
	zoomInFactor  = 1.1
)

// DefaultAnimationDuration is used by AnimateTo when duration is zero.
const DefaultAnimationDuration = 300 * time.Millisecond

// ViewportPatch selects which viewport fields SetViewport changes.
// Nil fields keep their current value.
type ViewportPatch struct {
	X, Y, Zoom *float64
}

// PatchOffset returns a patch that sets X and Y.
func PatchOffset(x, y float64) ViewportPatch {
	return ViewportPatch{X: &x, Y: &y}
}

// PatchZoom returns a patch that sets Zoom.
func PatchZoom(z float64) ViewportPatch {
	return ViewportPatch{Zoom: &z}
}

// PatchAll returns a patch that sets every field from v.
func PatchAll(v Viewport) ViewportPatch {
	return ViewportPatch{X: &v.X, Y: &v.Y, Zoom: &v.Zoom}
}

// ViewportManager is the only writer of the viewport. Every committed change
// emits viewport:changed exactly once; a change to identical values emits
// nothing.
type ViewportManager struct {
	viewport    Viewport
	constraints ViewportConstraints
	coords      *CoordinateSystem
	bus         *EventBus
	screen      Size

	// Drag-to-pan state.
	dragging          bool
	dragStart         Position
	dragStartViewport Viewport

	scheduler FrameScheduler
	now       func() time.Time
	anim      *viewportAnimation

	logger   *slog.Logger
	disposed bool
}

// NewViewportManager creates a manager emitting on bus. The initial zoom is
// clamped to the constraints.
func NewViewportManager(initial Viewport, constraints ViewportConstraints, coords *CoordinateSystem, bus *EventBus) *ViewportManager {
	vm := &ViewportManager{
		viewport:    initial,
		constraints: constraints,
		coords:      coords,
		bus:         bus,
		screen:      Size{Width: defaultScreenWidth, Height: defaultScreenHeight},
		scheduler:   NewManualScheduler(),
		now:         time.Now,
		logger:      slog.Default().With("component", "viewport"),
	}
	vm.viewport.Zoom = constraints.ClampZoom(initial.Zoom)
	return vm
}

// Viewport returns a copy of the current viewport.
func (vm *ViewportManager) Viewport() Viewport {
	return vm.viewport
}

// Constraints returns the constraints.
func (vm *ViewportManager) Constraints() ViewportConstraints {
	return vm.constraints
}

// EventBus returns the bus the manager emits on.
func (vm *ViewportManager) EventBus() *EventBus {
	return vm.bus
}

// SetScreenSize records the size of the viewing surface, used for Center,
// ResetViewport and PanTo.
func (vm *ViewportManager) SetScreenSize(s Size) {
	vm.screen = s
}

// ScreenSize returns the size of the viewing surface.
func (vm *ViewportManager) ScreenSize() Size {
	return vm.screen
}

// Center returns the screen-space centre of the viewing surface.
func (vm *ViewportManager) Center() Position {
	return Position{X: vm.screen.Width / 2, Y: vm.screen.Height / 2}
}

// VisibleBounds returns the world box visible on the viewing surface.
func (vm *ViewportManager) VisibleBounds() Bounds {
	return vm.coords.VisibleBounds(vm.viewport, vm.screen)
}

// SetViewport merges p onto the current viewport, clamps zoom, and emits
// viewport:changed if any field differs by exact comparison.
func (vm *ViewportManager) SetViewport(p ViewportPatch) {
	next := vm.viewport
	if p.X != nil {
		next.X = *p.X
	}
	if p.Y != nil {
		next.Y = *p.Y
	}
	if p.Zoom != nil {
		next.Zoom = *p.Zoom
	}
	vm.commit(next)
}

// commit is the single choke point for viewport writes. It reports whether
// the viewport changed.
func (vm *ViewportManager) commit(next Viewport) bool {
	next.Zoom = vm.constraints.ClampZoom(next.Zoom)
	if next == vm.viewport {
		return false
	}
	vm.viewport = next
	vm.bus.Emit(EventViewportChanged, vm.viewport)
	return true
}

// Zoom steps the zoom by a fixed factor (out for delta > 0, in otherwise)
// while keeping the world point under focal fixed on screen. Emits
// viewport:changed then viewport:zoom; nothing if the zoom is already at
// the relevant bound.
func (vm *ViewportManager) Zoom(delta float64, focal Position) {
	current := vm.viewport.Zoom
	factor := zoomInFactor
	if delta > 0 {
		factor = zoomOutFactor
	}
	newZoom := vm.constraints.ClampZoom(current * factor)
	if newZoom == current {
		return
	}

	worldFocus := vm.coords.ScreenToWorld(focal, vm.viewport)

	next := vm.viewport
	next.Zoom = newZoom
	projected := vm.coords.WorldToScreen(worldFocus, next)
	next.X += focal.X - projected.X
	next.Y += focal.Y - projected.Y

	if !vm.commit(next) {
		return
	}
	vm.bus.Emit(EventViewportZoom, ZoomChange{Delta: delta, FocalPoint: focal, NewZoom: newZoom})
}

// ZoomIn zooms one step in around focal, or the screen centre if nil.
func (vm *ViewportManager) ZoomIn(focal *Position) {
	vm.Zoom(-100, vm.focalOrCenter(focal))
}

// ZoomOut zooms one step out around focal, or the screen centre if nil.
func (vm *ViewportManager) ZoomOut(focal *Position) {
	vm.Zoom(100, vm.focalOrCenter(focal))
}

// ZoomTo sets the zoom directly, clamped, without moving the offset.
func (vm *ViewportManager) ZoomTo(z float64) {
	vm.SetViewport(PatchZoom(z))
}

func (vm *ViewportManager) focalOrCenter(focal *Position) Position {
	if focal != nil {
		return *focal
	}
	return vm.Center()
}

// Pan translates the viewport by a screen-space delta. Emits viewport:changed
// then viewport:pan when the viewport moved.
func (vm *ViewportManager) Pan(dx, dy float64) {
	next := vm.viewport
	next.X += dx
	next.Y += dy
	if vm.commit(next) {
		vm.bus.Emit(EventViewportPan, PanChange{DX: dx, DY: dy})
	}
}

// PanTo moves the viewport so the world point (x, y) sits at the screen
// centre.
func (vm *ViewportManager) PanTo(x, y float64) {
	c := vm.Center()
	vm.SetViewport(PatchOffset(c.X-x*vm.viewport.Zoom, c.Y-y*vm.viewport.Zoom))
}

// ResetViewport sets zoom to 1 and places the world origin at center, or at
// the screen centre if center is nil.
func (vm *ViewportManager) ResetViewport(center *Position) {
	c := vm.focalOrCenter(center)
	vm.commit(Viewport{X: c.X, Y: c.Y, Zoom: 1})
}

// --- Drag to pan ---

// StartDrag snapshots the pointer-down position and the current viewport.
func (vm *ViewportManager) StartDrag(x, y float64) {
	vm.dragging = true
	vm.dragStart = Position{X: x, Y: y}
	vm.dragStartViewport = vm.viewport
}

// UpdateDrag offsets the drag-start viewport by the total pointer movement
// since StartDrag. No-op without an active drag.
func (vm *ViewportManager) UpdateDrag(x, y float64) {
	if !vm.dragging {
		return
	}
	dx := x - vm.dragStart.X
	dy := y - vm.dragStart.Y
	vm.SetViewport(PatchOffset(vm.dragStartViewport.X+dx, vm.dragStartViewport.Y+dy))
}

// EndDrag clears the drag snapshot.
func (vm *ViewportManager) EndDrag() {
	vm.dragging = false
	vm.dragStartViewport = Viewport{}
}

// IsDragging reports whether a drag-to-pan is active.
func (vm *ViewportManager) IsDragging() bool {
	return vm.dragging
}

// --- Animation ---

// AnimateTo eases the viewport to target over duration with cubic ease-out.
// Any animation in flight is cancelled first. Each frame commits through
// SetViewport, so intermediate frames emit viewport:changed.
func (vm *ViewportManager) AnimateTo(target Viewport, duration time.Duration) {
	if vm.disposed {
		return
	}
	vm.CancelAnimation()
	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	target.Zoom = vm.constraints.ClampZoom(target.Zoom)
	anim := newViewportAnimation(vm.viewport, target, vm.now(), duration)
	vm.anim = anim
	anim.frame = vm.scheduler.RequestFrame(func(now time.Time) { vm.stepAnimation(anim, now) })
}

func (vm *ViewportManager) stepAnimation(anim *viewportAnimation, now time.Time) {
	if vm.disposed || vm.anim != anim {
		return
	}
	v, done := anim.at(now)
	vm.SetViewport(PatchAll(v))
	if vm.anim != anim {
		// A subscriber started or cancelled an animation.
		return
	}
	if done {
		vm.anim = nil
		return
	}
	anim.frame = vm.scheduler.RequestFrame(func(now time.Time) { vm.stepAnimation(anim, now) })
}

// CancelAnimation stops the animation in flight, leaving the viewport where
// the last frame put it.
func (vm *ViewportManager) CancelAnimation() {
	if vm.anim == nil {
		return
	}
	vm.scheduler.CancelFrame(vm.anim.frame)
	vm.anim = nil
}

// IsAnimating reports whether an animation is in flight.
func (vm *ViewportManager) IsAnimating() bool {
	return vm.anim != nil
}

// --- Transforms ---

// ScreenToWorld converts a screen point using the current viewport.
func (vm *ViewportManager) ScreenToWorld(p Position) Position {
	return vm.coords.ScreenToWorld(p, vm.viewport)
}

// WorldToScreen converts a world point using the current viewport.
func (vm *ViewportManager) WorldToScreen(p Position) Position {
	return vm.coords.WorldToScreen(p, vm.viewport)
}

// Dispose cancels any pending animation frame. Later animation frames and
// AnimateTo calls do nothing.
func (vm *ViewportManager) Dispose() {
	vm.CancelAnimation()
	vm.EndDrag()
	vm.disposed = true
}
