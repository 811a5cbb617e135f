package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/infinispace/canvas"
)

// Input sources. Tests replace these to drive Update without a window.
var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
	isKeyJustPressed     = inpututil.IsKeyJustPressed
	wheel                = ebiten.Wheel
)

// pointerSample is one frame of mouse state.
type pointerSample struct {
	pos    canvas.Position
	down   bool
	button canvas.MouseButton
}

// readPointer samples the mouse. Left wins over right, right over middle.
func readPointer() pointerSample {
	mx, my := cursorPosition()
	s := pointerSample{pos: canvas.Position{X: float64(mx), Y: float64(my)}}
	switch {
	case isMouseButtonPressed(ebiten.MouseButtonLeft):
		s.down, s.button = true, canvas.MouseButtonLeft
	case isMouseButtonPressed(ebiten.MouseButtonRight):
		s.down, s.button = true, canvas.MouseButtonRight
	case isMouseButtonPressed(ebiten.MouseButtonMiddle):
		s.down, s.button = true, canvas.MouseButtonMiddle
	}
	return s
}

// wheelDelta converts the ebiten wheel reading to a canvas zoom delta.
// Scrolling up zooms in, which the engine expects as a negative delta.
func wheelDelta() float64 {
	_, dy := wheel()
	return -dy
}

func ctrlPressed() bool {
	return isKeyPressed(ebiten.KeyControl) || isKeyPressed(ebiten.KeyMeta)
}

func shiftPressed() bool {
	return isKeyPressed(ebiten.KeyShift)
}

func anyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if isKeyJustPressed(k) {
			return true
		}
	}
	return false
}
