// Package host runs a canvas engine in an [ebiten] window.
//
// A [Host] owns the engine, an input [canvas.Interaction] and a
// [canvas.ManualScheduler] that it advances once per tick, so viewport
// animations run on the ebiten update goroutine. Visual features are
// plugins that implement [Layer]: grid, node layer, toolbar, node picker,
// minimap and debug overlay are built in and enabled through the config's
// plugin list. A layer whose Draw panics is deactivated.
//
// Keyboard: + and - zoom around the screen centre, 0 resets, F fits all
// nodes, the arrow keys pan, Escape closes the node picker or cancels a
// drag, Ctrl+S and Ctrl+O save and load the snapshot file, and Ctrl+Shift+N
// opens the node picker at the screen centre. A right click without
// dragging opens it at the cursor.
//
// Config hot reload:
//
//	h, _ := host.New(cfg, host.WithSnapshotPath("canvas.json"))
//	w, _ := config.Watch(ctx, path, h.Reload)
//	defer w.Close()
//	err := host.Run(h)
//
// [ebiten]: https://ebitengine.org
package host
