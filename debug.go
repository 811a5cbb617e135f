package canvas

import (
	"fmt"
	"math"
)

// viewportTolerance is the per-field tolerance used by ViewportsApproxEqual.
const viewportTolerance = 0.01

// roundHalfUp rounds halves toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatViewport renders vp for status lines, e.g. "X: 10, Y: -4, Zoom: 150%".
func FormatViewport(vp Viewport) string {
	return fmt.Sprintf("X: %d, Y: %d, Zoom: %d%%", roundHalfUp(vp.X), roundHalfUp(vp.Y), roundHalfUp(vp.Zoom*100))
}

// ZoomPercent renders a zoom factor as a whole percentage, e.g. "110%".
func ZoomPercent(zoom float64) string {
	return fmt.Sprintf("%d%%", roundHalfUp(zoom*100))
}

// ViewportsApproxEqual reports whether every field of a and b differs by
// less than 0.01.
func ViewportsApproxEqual(a, b Viewport) bool {
	return math.Abs(a.X-b.X) < viewportTolerance &&
		math.Abs(a.Y-b.Y) < viewportTolerance &&
		math.Abs(a.Zoom-b.Zoom) < viewportTolerance
}
