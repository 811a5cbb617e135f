package canvas

import "math"

// InteractionMode is what the current pointer gesture is driving.
type InteractionMode uint8

const (
	ModeIdle     InteractionMode = iota // no pointer held
	ModePanning                         // dragging the world
	ModeNodeDrag                        // dragging a node
)

// String returns the mode name.
func (m InteractionMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeNodeDrag:
		return "node-drag"
	default:
		return "unknown"
	}
}

// contextMenuSlop is how far, in screen pixels, a secondary-button press may
// travel before it counts as a pan rather than a context-menu click.
const contextMenuSlop = 4

// pointerState tracks the single pointer that owns the current gesture.
type pointerState struct {
	down   bool
	button MouseButton // captured at press time
	start  Position    // screen space
	last   Position    // screen space
	moved  bool        // left the slop radius around start
	nodeID string
}

// Interaction turns raw screen-space pointer and wheel input into engine
// calls. A press with the primary button over a node drags that node; any
// other press pans the viewport. The two never run together. A right-button
// press released without moving requests a context menu instead.
type Interaction struct {
	engine  *Engine
	mode    InteractionMode
	pointer pointerState

	injectQueue []syntheticEvent
}

// NewInteraction creates a controller for engine.
func NewInteraction(engine *Engine) *Interaction {
	return &Interaction{engine: engine}
}

// Mode returns the active gesture.
func (in *Interaction) Mode() InteractionMode {
	return in.mode
}

// Engine returns the engine driven by this controller.
func (in *Interaction) Engine() *Engine {
	return in.engine
}

// PointerDown starts a gesture. Presses while a gesture is active are
// ignored.
func (in *Interaction) PointerDown(screen Position, button MouseButton) {
	if in.pointer.down {
		return
	}
	in.pointer = pointerState{down: true, button: button, start: screen, last: screen}

	if button == MouseButtonLeft {
		world := in.engine.ScreenToWorld(screen)
		if hit, ok := in.engine.NodeAt(world); ok && in.engine.StartNodeDrag(hit.ID, screen.X, screen.Y) {
			in.mode = ModeNodeDrag
			in.pointer.nodeID = hit.ID
			return
		}
	}
	in.engine.StartDrag(screen.X, screen.Y)
	in.mode = ModePanning
}

// PointerMove feeds a pointer position to the active gesture. Hover moves
// are ignored.
func (in *Interaction) PointerMove(screen Position) {
	if !in.pointer.down || screen == in.pointer.last {
		return
	}
	in.pointer.last = screen
	if math.Hypot(screen.X-in.pointer.start.X, screen.Y-in.pointer.start.Y) > contextMenuSlop {
		in.pointer.moved = true
	}
	switch in.mode {
	case ModeNodeDrag:
		in.engine.UpdateNodeDrag(screen.X, screen.Y)
	case ModePanning:
		in.engine.UpdateDrag(screen.X, screen.Y)
	}
}

// PointerUp applies the final position and ends the gesture.
func (in *Interaction) PointerUp(screen Position) {
	if !in.pointer.down {
		return
	}
	in.PointerMove(screen)
	p := in.pointer
	switch in.mode {
	case ModeNodeDrag:
		in.engine.EndNodeDrag()
	case ModePanning:
		in.engine.EndDrag()
	}
	in.mode = ModeIdle
	in.pointer = pointerState{}
	if p.button == MouseButtonRight && !p.moved {
		in.engine.RequestContextMenu(p.start)
	}
}

// Wheel zooms one step around the cursor. Positive delta zooms out.
// A zero delta is ignored.
func (in *Interaction) Wheel(delta float64, cursor Position) {
	if delta == 0 {
		return
	}
	in.engine.Zoom(delta, cursor)
}

// Cancel ends any gesture without applying further movement.
func (in *Interaction) Cancel() {
	switch in.mode {
	case ModeNodeDrag:
		in.engine.EndNodeDrag()
	case ModePanning:
		in.engine.EndDrag()
	}
	in.mode = ModeIdle
	in.pointer = pointerState{}
}
