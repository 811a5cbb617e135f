package canvas

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultScreenWidth  = 1280
	defaultScreenHeight = 720
)

// Engine is the canvas façade. It owns the node set, composes the viewport
// manager, coordinate system and event bus, and routes pointer interaction
// into either a viewport pan or a node drag.
//
// An Engine is not safe for concurrent use. All calls, including event
// subscribers, run on the host's frame goroutine. Calling methods after
// Dispose is undefined.
type Engine struct {
	viewport *ViewportManager
	coords   *CoordinateSystem
	bus      *EventBus
	nodes    *nodeStore

	// Node drag state. Only one node drags at a time.
	nodeDragging bool
	dragNodeID   string
	dragNodeLast Position

	snapGrid float64
	newID    func() string
	now      func() time.Time
	logger   *slog.Logger
	disposed bool
}

// NewEngine creates an engine. Unusable constraint fields are replaced with
// defaults and the initial zoom is clamped.
func NewEngine(initial Viewport, constraints ViewportConstraints, opts ...Option) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	constraints = constraints.normalized()

	coords := NewCoordinateSystem(constraints.WorldSize, constraints)
	bus := NewEventBus(
		WithHistorySize(o.historySize),
		WithBusLogger(o.logger),
		WithBusClock(o.now),
	)

	vm := NewViewportManager(initial, constraints, coords, bus)
	vm.logger = o.logger.With("component", "viewport")
	vm.now = o.now
	vm.screen = o.screen
	if o.scheduler != nil {
		vm.scheduler = o.scheduler
	}

	e := &Engine{
		viewport: vm,
		coords:   coords,
		bus:      bus,
		nodes:    newNodeStore(),
		snapGrid: o.snapGrid,
		newID:    o.newID,
		now:      o.now,
		logger:   o.logger.With("component", "engine"),
	}
	if e.newID == nil {
		e.newID = e.defaultID
	}
	e.nodes.replace(e.adoptNodes(o.nodes))
	return e
}

// --- Accessors ---

// Viewport returns a copy of the current viewport.
func (e *Engine) Viewport() Viewport {
	return e.viewport.Viewport()
}

// Nodes returns a copy of the node set in paint order.
func (e *Engine) Nodes() []CanvasNode {
	return e.nodes.snapshot()
}

// NodeCount returns the number of nodes.
func (e *Engine) NodeCount() int {
	return e.nodes.len()
}

// Constraints returns the normalized constraints.
func (e *Engine) Constraints() ViewportConstraints {
	return e.viewport.Constraints()
}

// EventBus returns the bus all engine events are emitted on.
func (e *Engine) EventBus() *EventBus {
	return e.bus
}

// CoordinateSystem returns the engine's coordinate system.
func (e *Engine) CoordinateSystem() *CoordinateSystem {
	return e.coords
}

// ViewportManager returns the engine's viewport manager.
func (e *Engine) ViewportManager() *ViewportManager {
	return e.viewport
}

// DraggedNodeID returns the id of the node being dragged, or "".
func (e *Engine) DraggedNodeID() string {
	return e.dragNodeID
}

// GetNode returns a copy of the node with id.
func (e *Engine) GetNode(id string) (CanvasNode, bool) {
	n := e.nodes.get(id)
	if n == nil {
		return CanvasNode{}, false
	}
	return n.Clone(), true
}

// --- Hit testing ---

// NodeAt returns the topmost node whose box contains the world point.
// Overlaps resolve to the node latest in paint order.
func (e *Engine) NodeAt(world Position) (CanvasNode, bool) {
	i := e.nodes.topmostAt(world)
	if i < 0 {
		return CanvasNode{}, false
	}
	return e.nodes.nodes[i].Clone(), true
}

// --- Viewport delegation ---

// SetViewport merges p onto the viewport; see ViewportManager.SetViewport.
func (e *Engine) SetViewport(p ViewportPatch) {
	e.viewport.SetViewport(p)
}

// Zoom steps the zoom around a screen-space focal point.
func (e *Engine) Zoom(delta float64, focal Position) {
	e.viewport.Zoom(delta, focal)
}

// ZoomIn zooms one step in around focal, or the screen centre if nil.
func (e *Engine) ZoomIn(focal *Position) {
	e.viewport.ZoomIn(focal)
}

// ZoomOut zooms one step out around focal, or the screen centre if nil.
func (e *Engine) ZoomOut(focal *Position) {
	e.viewport.ZoomOut(focal)
}

// Pan translates the viewport by a screen-space delta.
func (e *Engine) Pan(dx, dy float64) {
	e.viewport.Pan(dx, dy)
}

// PanTo centres the world point (x, y) on screen.
func (e *Engine) PanTo(x, y float64) {
	e.viewport.PanTo(x, y)
}

// ResetViewport sets zoom 1 with the world origin at center (or the screen
// centre if nil).
func (e *Engine) ResetViewport(center *Position) {
	e.viewport.ResetViewport(center)
}

// AnimateTo eases the viewport to target.
func (e *Engine) AnimateTo(target Viewport, duration time.Duration) {
	e.viewport.AnimateTo(target, duration)
}

// SetScreenSize records the viewing surface size.
func (e *Engine) SetScreenSize(s Size) {
	e.viewport.SetScreenSize(s)
}

// --- Viewport drag (panning the world) ---

// StartDrag begins a drag-to-pan at a screen position.
func (e *Engine) StartDrag(x, y float64) {
	e.viewport.StartDrag(x, y)
}

// UpdateDrag moves the viewport with the pointer.
func (e *Engine) UpdateDrag(x, y float64) {
	e.viewport.UpdateDrag(x, y)
}

// EndDrag finishes the drag-to-pan.
func (e *Engine) EndDrag() {
	e.viewport.EndDrag()
}

// --- Node drag ---

// StartNodeDrag begins dragging node id from a screen position. The node is
// raised to the top of the paint order and node:selected is emitted.
// Returns false if id is unknown.
func (e *Engine) StartNodeDrag(id string, screenX, screenY float64) bool {
	if !e.nodes.raise(id) {
		return false
	}
	e.nodeDragging = true
	e.dragNodeID = id
	e.dragNodeLast = Position{X: screenX, Y: screenY}
	e.logger.Debug("node drag started", "node", id)
	e.bus.Emit(EventNodeSelected, e.nodes.get(id).Clone())
	return true
}

// UpdateNodeDrag moves the dragged node by the screen movement since the
// previous call, divided by zoom, and emits node:dragged. No-op without an
// active drag or when the node did not move.
func (e *Engine) UpdateNodeDrag(screenX, screenY float64) {
	if !e.nodeDragging {
		return
	}
	n := e.nodes.get(e.dragNodeID)
	if n == nil {
		return
	}
	zoom := e.viewport.Viewport().Zoom
	dx := (screenX - e.dragNodeLast.X) / zoom
	dy := (screenY - e.dragNodeLast.Y) / zoom
	e.dragNodeLast = Position{X: screenX, Y: screenY}

	next := e.coords.ConstrainToWorld(Position{X: n.Position.X + dx, Y: n.Position.Y + dy})
	if next == n.Position {
		return
	}
	n.Position = next
	e.bus.Emit(EventNodeDragged, NodeDragged{NodeID: n.ID, Position: next})
}

// EndNodeDrag finishes the node drag. With snap-to-grid enabled the node is
// snapped and node:updated is emitted if that moved it.
func (e *Engine) EndNodeDrag() {
	if !e.nodeDragging {
		return
	}
	id := e.dragNodeID
	e.nodeDragging = false
	e.dragNodeID = ""
	e.dragNodeLast = Position{}
	e.logger.Debug("node drag ended", "node", id)

	if e.snapGrid <= 0 {
		return
	}
	n := e.nodes.get(id)
	if n == nil {
		return
	}
	snapped := e.coords.ConstrainToWorld(e.coords.SnapToGrid(n.Position, e.snapGrid))
	if snapped == n.Position {
		return
	}
	n.Position = snapped
	e.bus.Emit(EventNodeUpdated, n.Clone())
}

// --- Node CRUD ---

// AddNode appends a copy of n with a freshly generated id (any id on n is
// ignored), emits node:added, and returns the id.
func (e *Engine) AddNode(n CanvasNode) string {
	n = n.Clone()
	n.ID = e.generateID()
	e.nodes.append(n)
	e.logger.Debug("node added", "node", n.ID, "type", string(n.Type))
	e.bus.Emit(EventNodeAdded, n.Clone())
	return n.ID
}

// RemoveNode removes node id and emits node:removed with it. Returns false
// if id is unknown.
func (e *Engine) RemoveNode(id string) bool {
	removed, ok := e.nodes.remove(id)
	if !ok {
		return false
	}
	if e.dragNodeID == id {
		e.nodeDragging = false
		e.dragNodeID = ""
	}
	e.logger.Debug("node removed", "node", id)
	e.bus.Emit(EventNodeRemoved, removed)
	return true
}

// UpdateNode applies p to node id and emits node:updated. Returns false if
// id is unknown.
func (e *Engine) UpdateNode(id string, p NodePatch) bool {
	n := e.nodes.get(id)
	if n == nil {
		return false
	}
	p.apply(n)
	e.logger.Debug("node updated", "node", id)
	e.bus.Emit(EventNodeUpdated, n.Clone())
	return true
}

// BringToFront raises node id to the top of the paint order and emits
// node:updated if the order changed. Returns false if id is unknown.
func (e *Engine) BringToFront(id string) bool {
	if !e.nodes.has(id) {
		return false
	}
	wasTop := e.nodes.nodes[e.nodes.len()-1].ID == id
	e.nodes.raise(id)
	if !wasTop {
		e.bus.Emit(EventNodeUpdated, e.nodes.get(id).Clone())
	}
	return true
}

// --- Fit ---

// ContentBounds returns the union of all node boxes. ok is false when there
// are no nodes.
func (e *Engine) ContentBounds() (r Rect, ok bool) {
	for i := range e.nodes.nodes {
		b := e.nodes.nodes[i].Bounds()
		if !ok {
			r, ok = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, ok
}

// ZoomToFit animates the viewport so every node fits on screen with padding
// pixels to spare. Returns false when there is nothing to fit or the screen
// is too small to produce a usable zoom.
func (e *Engine) ZoomToFit(padding float64, duration time.Duration) bool {
	bounds, ok := e.ContentBounds()
	if !ok {
		return false
	}
	screen := e.viewport.ScreenSize()
	zoom := e.coords.CalculateZoomToFit(Size{Width: bounds.Width, Height: bounds.Height}, screen, padding)
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return false
	}
	zoom = e.Constraints().ClampZoom(zoom)
	c := bounds.Center()
	e.viewport.AnimateTo(Viewport{
		X:    screen.Width/2 - c.X*zoom,
		Y:    screen.Height/2 - c.Y*zoom,
		Zoom: zoom,
	}, duration)
	return true
}

// --- Config ---

// ApplyConfig announces a configuration change for section on the bus.
func (e *Engine) ApplyConfig(section string, cfg any) {
	e.bus.Emit(EventConfigChanged, ConfigChange{Section: section, Config: cfg})
}

// SetSnapToGrid changes the grid used when a node drag ends. Zero disables
// snapping.
func (e *Engine) SetSnapToGrid(gridSize float64) {
	e.snapGrid = max(gridSize, 0)
}

// SnapGrid returns the current snap grid size, or zero when disabled.
func (e *Engine) SnapGrid() float64 {
	return e.snapGrid
}

// RequestContextMenu asks context-menu plugins to open at the screen point
// by emitting canvas:contextmenu.
func (e *Engine) RequestContextMenu(screen Position) {
	e.bus.Emit(EventCanvasContextMenu, ContextMenu{Screen: screen, World: e.ScreenToWorld(screen)})
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time { return e.now() }

// --- Transforms ---

// ScreenToWorld converts a screen point with the current viewport.
func (e *Engine) ScreenToWorld(p Position) Position {
	return e.viewport.ScreenToWorld(p)
}

// WorldToScreen converts a world point with the current viewport.
func (e *Engine) WorldToScreen(p Position) Position {
	return e.viewport.WorldToScreen(p)
}

// Center returns the screen centre.
func (e *Engine) Center() Position {
	return e.viewport.Center()
}

// --- Ids ---

func (e *Engine) defaultID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return "node-" + strconv.FormatInt(e.now().UnixMilli(), 36) + "-" + suffix
}

func (e *Engine) generateID() string {
	for {
		id := e.newID()
		if id != "" && !e.nodes.has(id) {
			return id
		}
	}
}

// adoptNodes clones nodes for storage, giving fresh ids to nodes whose id is
// empty or already taken earlier in the list.
func (e *Engine) adoptNodes(nodes []CanvasNode) []CanvasNode {
	out := make([]CanvasNode, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		n = n.Clone()
		if n.ID == "" || seen[n.ID] {
			for {
				n.ID = e.newID()
				if n.ID != "" && !seen[n.ID] {
					break
				}
			}
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// --- Lifecycle ---

// Dispose cancels animations, drops subscribers and history, and clears the
// node set. Calling it again does nothing.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.viewport.Dispose()
	e.bus.Dispose()
	e.nodes.clear()
	e.nodeDragging = false
	e.dragNodeID = ""
	e.disposed = true
}
