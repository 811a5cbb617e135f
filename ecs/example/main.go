// ECS bridges the canvas event bus into a Donburi world. A system reads the
// camera entity and the queued typed events once per simulated frame, the
// way a game loop would consume canvas activity. No window is opened.
package main

import (
	"fmt"
	"time"

	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/ecs"
	"github.com/yohamta/donburi"
)

func main() {
	start := time.Now()
	sched := canvas.NewManualScheduler()
	engine := canvas.NewEngine(
		canvas.Viewport{X: 400, Y: 300, Zoom: 1},
		canvas.DefaultConstraints(),
		canvas.WithScheduler(sched),
		canvas.WithClock(func() time.Time { return start }),
		canvas.WithScreenSize(canvas.Size{Width: 800, Height: 600}),
		canvas.WithNodes(canvas.DemoNodes()),
	)
	defer engine.Dispose()

	world := donburi.NewWorld()
	link := ecs.Bridge(engine.EventBus(), world)
	defer link.Detach()

	ecs.CanvasEventType.Subscribe(world, func(w donburi.World, env canvas.Envelope) {
		fmt.Printf("  event     %s\n", env.Event)
	})
	ecs.NodeDraggedEventType.Subscribe(world, func(w donburi.World, d canvas.NodeDragged) {
		fmt.Printf("  dragged   node %s to %.0f,%.0f\n", d.NodeID, d.Position.X, d.Position.Y)
	})

	in := canvas.NewInteraction(engine)
	frames := []func(){
		func() { engine.Pan(40, -20) },
		func() { engine.Zoom(-1, canvas.Position{X: 400, Y: 300}) },
		func() {
			in.PointerDown(canvas.Position{X: 500, Y: 320}, canvas.MouseButtonLeft)
			in.PointerMove(canvas.Position{X: 540, Y: 340})
			in.PointerUp(canvas.Position{X: 540, Y: 340})
		},
	}
	for i, step := range frames {
		step()
		fmt.Printf("frame %d\n", i+1)
		ecs.CanvasEventType.ProcessEvents(world)
		ecs.NodeDraggedEventType.ProcessEvents(world)
		vp := ecs.ViewportComponent.Get(world.Entry(link.Camera()))
		fmt.Printf("  camera    %s\n", canvas.FormatViewport(*vp))
	}
}
