// Package ecs bridges canvas engine events into a [Donburi] world.
//
// [Bridge] subscribes to an engine's event bus and republishes every
// envelope as a [CanvasEventType] event, plus typed [ViewportEventType] and
// [NodeDraggedEventType] events. Subscribe to them in your ECS systems and
// drain them with ProcessEvents once per frame.
//
// The package is its own module so the canvas module does not depend on
// Donburi. ecs/example shows a world consuming canvas activity.
//
// Usage:
//
//	link := ecs.Bridge(engine.EventBus(), world)
//	defer link.Detach()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
