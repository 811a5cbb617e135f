package ecs

import (
	"github.com/infinispace/canvas"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CanvasEventType carries every engine event as an envelope.
var CanvasEventType = events.NewEventType[canvas.Envelope]()

// ViewportEventType carries the new viewport after each viewport:changed.
var ViewportEventType = events.NewEventType[canvas.Viewport]()

// NodeDraggedEventType carries node:dragged payloads.
var NodeDraggedEventType = events.NewEventType[canvas.NodeDragged]()

// ViewportComponent holds the engine viewport on the bridge's camera entity.
var ViewportComponent = donburi.NewComponentType[canvas.Viewport]()

// Link connects an engine event bus to a Donburi world.
type Link struct {
	world  donburi.World
	camera donburi.Entity
	detach func()
}

// Bridge subscribes to bus and republishes into world. Events are queued in
// the world until its systems call ProcessEvents. The returned Link also
// owns a camera entity whose ViewportComponent follows the engine viewport.
func Bridge(bus *canvas.EventBus, world donburi.World) *Link {
	l := &Link{world: world}
	l.camera = world.Create(ViewportComponent)
	l.detach = bus.OnAny(l.publish)
	return l
}

func (l *Link) publish(env canvas.Envelope) {
	CanvasEventType.Publish(l.world, env)
	switch data := env.Data.(type) {
	case canvas.Viewport:
		if env.Event != canvas.EventViewportChanged {
			return
		}
		if l.world.Valid(l.camera) {
			ViewportComponent.SetValue(l.world.Entry(l.camera), data)
		}
		ViewportEventType.Publish(l.world, data)
	case canvas.NodeDragged:
		NodeDraggedEventType.Publish(l.world, data)
	}
}

// Camera returns the entity carrying ViewportComponent.
func (l *Link) Camera() donburi.Entity {
	return l.camera
}

// Detach unsubscribes from the bus and removes the camera entity.
func (l *Link) Detach() {
	if l.detach == nil {
		return
	}
	l.detach()
	l.detach = nil
	if l.world.Valid(l.camera) {
		l.world.Remove(l.camera)
	}
}
