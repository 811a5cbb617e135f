package canvas

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FrameID identifies a pending frame callback. Zero is never issued.
type FrameID uint64

// FrameScheduler is the host's frame-callback primitive. RequestFrame runs
// fn once on a later frame with that frame's timestamp; CancelFrame drops a
// pending request.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn func(time.Time)
}

// ManualScheduler is a FrameScheduler driven by explicit Advance calls, one
// per host frame. Callbacks requested during Advance run on the next call.
type ManualScheduler struct {
	pending []pendingFrame
	nextID  FrameID
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame queues fn for the next Advance.
func (s *ManualScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	s.nextID++
	s.pending = append(s.pending, pendingFrame{id: s.nextID, fn: fn})
	return s.nextID
}

// CancelFrame removes a queued callback. Unknown ids are ignored.
func (s *ManualScheduler) CancelFrame(id FrameID) {
	for i := range s.pending {
		if s.pending[i].id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Advance runs every callback queued before this call with now.
// Returns the number of callbacks run.
func (s *ManualScheduler) Advance(now time.Time) int {
	batch := s.pending
	s.pending = nil
	for _, f := range batch {
		f.fn(now)
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// viewportAnimation eases the viewport from start to target. Progress comes
// from a 0→1 gween tween evaluated at wall-clock elapsed time, so frame rate
// does not change the duration.
type viewportAnimation struct {
	start, target Viewport
	startTime     time.Time
	progress      *gween.Tween
	frame         FrameID
}

func newViewportAnimation(start, target Viewport, startTime time.Time, duration time.Duration) *viewportAnimation {
	return &viewportAnimation{
		start:     start,
		target:    target,
		startTime: startTime,
		progress:  gween.New(0, 1, float32(duration.Seconds()), ease.OutCubic),
	}
}

// at returns the interpolated viewport at now and whether the animation has
// reached its target.
func (a *viewportAnimation) at(now time.Time) (Viewport, bool) {
	elapsed := now.Sub(a.startTime)
	p, done := a.progress.Set(float32(elapsed.Seconds()))
	if done {
		return a.target, true
	}
	t := float64(p)
	return Viewport{
		X:    a.start.X + (a.target.X-a.start.X)*t,
		Y:    a.start.Y + (a.target.Y-a.start.Y)*t,
		Zoom: a.start.Zoom + (a.target.Zoom-a.start.Zoom)*t,
	}, false
}
