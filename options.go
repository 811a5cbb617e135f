package canvas

import (
	"log/slog"
	"time"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger      *slog.Logger
	now         func() time.Time
	scheduler   FrameScheduler
	nodes       []CanvasNode
	screen      Size
	historySize int
	snapGrid    float64
	newID       func() string
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		logger:      slog.Default(),
		now:         time.Now,
		screen:      Size{Width: defaultScreenWidth, Height: defaultScreenHeight},
		historySize: defaultHistorySize,
	}
}

// WithLogger sets the logger shared by the engine and its components.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source for event timestamps, snapshots and
// animations.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithScheduler sets the frame scheduler that drives viewport animations.
// Defaults to a ManualScheduler the host must Advance.
func WithScheduler(s FrameScheduler) Option {
	return func(o *engineOptions) { o.scheduler = s }
}

// WithNodes seeds the node set. Nodes without an id, or with a duplicate
// id, are given fresh ids.
func WithNodes(nodes []CanvasNode) Option {
	return func(o *engineOptions) { o.nodes = nodes }
}

// WithScreenSize sets the initial size of the viewing surface.
func WithScreenSize(s Size) Option {
	return func(o *engineOptions) { o.screen = s }
}

// WithEventHistory sets the event history capacity.
func WithEventHistory(n int) Option {
	return func(o *engineOptions) { o.historySize = n }
}

// WithSnapToGrid snaps a dragged node to multiples of gridSize when the drag
// ends. Zero disables snapping.
func WithSnapToGrid(gridSize float64) Option {
	return func(o *engineOptions) { o.snapGrid = gridSize }
}

// WithIDGenerator replaces the node id generator. The generator must return
// non-empty strings; collisions with live ids are retried.
func WithIDGenerator(fn func() string) Option {
	return func(o *engineOptions) { o.newID = fn }
}
