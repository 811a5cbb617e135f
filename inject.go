package canvas

type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthWheel
)

// syntheticEvent is a queued input event in screen coordinates.
type syntheticEvent struct {
	kind   syntheticKind
	screen Position
	button MouseButton
	delta  float64
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed by the next Step call.
func (in *Interaction) InjectPress(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: synthPress, screen: Position{X: x, Y: y}, button: MouseButtonLeft,
	})
}

// InjectButtonPress queues a press with an explicit button.
func (in *Interaction) InjectButtonPress(x, y float64, button MouseButton) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: synthPress, screen: Position{X: x, Y: y}, button: button,
	})
}

// InjectMove queues a pointer move with the button held. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (in *Interaction) InjectMove(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: synthMove, screen: Position{X: x, Y: y},
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (in *Interaction) InjectRelease(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: synthRelease, screen: Position{X: x, Y: y},
	})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two steps.
func (in *Interaction) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). Minimum frames is 2.
func (in *Interaction) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	in.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel step at the given cursor position.
func (in *Interaction) InjectWheel(delta, x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: synthWheel, screen: Position{X: x, Y: y}, delta: delta,
	})
}

// Pending returns the number of queued synthetic events.
func (in *Interaction) Pending() int {
	return len(in.injectQueue)
}

// Step pops one synthetic event and applies it. Returns true if an event was
// consumed, in which case the host should skip real input for this frame.
func (in *Interaction) Step() bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	switch evt.kind {
	case synthPress:
		in.PointerDown(evt.screen, evt.button)
	case synthMove:
		in.PointerMove(evt.screen)
	case synthRelease:
		in.PointerUp(evt.screen)
	case synthWheel:
		in.Wheel(evt.delta, evt.screen)
	}
	return true
}
