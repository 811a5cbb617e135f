// Package canvas is the interaction and coordinate engine for an infinite,
// pannable and zoomable 2D canvas.
//
// The [Engine] owns the viewport and the node set. It converts screen input
// into world-space changes, decides whether a pointer press pans the world
// or drags a node, and publishes every change on an [EventBus] that visual
// layers subscribe to. Rendering lives elsewhere (see the host package); the
// engine only does math and bookkeeping.
//
// # Quick start
//
//	engine := canvas.NewEngine(
//		canvas.Viewport{Zoom: 1},
//		canvas.DefaultConstraints(),
//		canvas.WithNodes(canvas.DemoNodes()),
//	)
//	engine.EventBus().On(canvas.EventViewportChanged, func(data any) {
//		vp := data.(canvas.Viewport)
//		fmt.Println(canvas.FormatViewport(vp))
//	})
//	engine.Zoom(-1, canvas.Position{X: 400, Y: 300})
//
// # Coordinates
//
// A [Viewport] maps world to screen as screen = world*Zoom + (X, Y). The
// [CoordinateSystem] holds the conversions and the world-size helpers.
// Node positions are node centres in world units.
//
// # Input
//
// [Interaction] turns pointer and wheel input into engine calls. A primary
// press over a node drags it (and raises it to the top); any other press
// pans. Synthetic input can be queued with the Inject methods and JSON
// scripts can be replayed with [TestRunner].
//
// # Threading
//
// Nothing in this package is safe for concurrent use. Call the engine from
// one goroutine, typically the host's frame loop, and drive animations by
// calling [ManualScheduler.Advance] once per frame.
package canvas
