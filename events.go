package canvas

import (
	"log/slog"
	"time"
)

// EventName identifies an event on the bus. The names are part of the
// public contract.
type EventName string

const (
	EventViewportChanged   EventName = "viewport:changed"
	EventViewportZoom      EventName = "viewport:zoom"
	EventViewportPan       EventName = "viewport:pan"
	EventNodeAdded         EventName = "node:added"
	EventNodeRemoved       EventName = "node:removed"
	EventNodeSelected      EventName = "node:selected"
	EventNodeUpdated       EventName = "node:updated"
	EventNodeDragged       EventName = "node:dragged"
	EventConfigChanged     EventName = "config:changed"
	EventPluginActivated   EventName = "plugin:activated"
	EventPluginDeactivated EventName = "plugin:deactivated"
	EventCanvasContextMenu EventName = "canvas:contextmenu"
)

// --- Payloads ---

// ZoomChange is the payload of viewport:zoom.
type ZoomChange struct {
	Delta      float64
	FocalPoint Position
	NewZoom    float64
}

// PanChange is the payload of viewport:pan.
type PanChange struct {
	DX, DY float64
}

// NodeDragged is the payload of node:dragged.
type NodeDragged struct {
	NodeID   string
	Position Position
}

// GraphReplaced is the node:updated payload sent when the whole node set is
// swapped by LoadGraph or LoadState. Receivers should re-read all state.
type GraphReplaced struct {
	Nodes []CanvasNode
}

// ConfigChange is the payload of config:changed.
type ConfigChange struct {
	Section string
	Config  any
}

// ContextMenu is the payload of canvas:contextmenu. World is Screen mapped
// through the viewport at the time of the request.
type ContextMenu struct {
	Screen Position
	World  Position
}

// PluginStatus is the payload of plugin:activated and plugin:deactivated.
type PluginStatus struct {
	PluginID string
}

// Envelope is what wildcard subscribers and the history ring receive.
type Envelope struct {
	Event     EventName
	Data      any
	Timestamp int64 // epoch milliseconds
}

// --- Bus ---

const defaultHistorySize = 100

type subscriber struct {
	id uint64
	fn func(any)
}

type wildcardSubscriber struct {
	id uint64
	fn func(Envelope)
}

// EventBus is a synchronous, single-goroutine publish/subscribe channel.
// Subscribers run inside Emit in subscription order; a subscriber may
// itself Emit. Panicking subscribers are recovered and logged.
type EventBus struct {
	listeners map[EventName][]subscriber
	wildcard  []wildcardSubscriber
	nextID    uint64

	history     []Envelope
	historyHead int // index of the oldest entry once the ring is full
	historySize int

	logger   *slog.Logger
	now      func() time.Time
	disposed bool
}

// BusOption configures an EventBus.
type BusOption func(*EventBus)

// WithHistorySize sets the ring capacity. Values below 1 disable history.
func WithHistorySize(n int) BusOption {
	return func(b *EventBus) { b.historySize = n }
}

// WithBusLogger sets the logger used for recovered subscriber panics.
func WithBusLogger(l *slog.Logger) BusOption {
	return func(b *EventBus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBusClock sets the time source for envelope timestamps.
func WithBusClock(now func() time.Time) BusOption {
	return func(b *EventBus) {
		if now != nil {
			b.now = now
		}
	}
}

// NewEventBus creates an empty bus.
func NewEventBus(opts ...BusOption) *EventBus {
	b := &EventBus{
		listeners:   make(map[EventName][]subscriber),
		historySize: defaultHistorySize,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "eventbus")
	return b
}

// On subscribes fn to name. The returned func removes only this subscription.
func (b *EventBus) On(name EventName, fn func(data any)) (unsubscribe func()) {
	if b.disposed || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], subscriber{id: id, fn: fn})
	return func() { b.off(name, id) }
}

// OnAny subscribes fn to every event. Wildcard subscribers receive the full
// envelope and run after the named subscribers.
func (b *EventBus) OnAny(fn func(Envelope)) (unsubscribe func()) {
	if b.disposed || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.wildcard = append(b.wildcard, wildcardSubscriber{id: id, fn: fn})
	return func() { b.offAny(id) }
}

// Once subscribes fn for a single delivery.
func (b *EventBus) Once(name EventName, fn func(data any)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	fired := false
	var unsub func()
	unsub = b.On(name, func(data any) {
		if fired {
			return
		}
		fired = true
		unsub()
		fn(data)
	})
	return unsub
}

func (b *EventBus) off(name EventName, id uint64) {
	subs := b.listeners[name]
	for i := range subs {
		if subs[i].id == id {
			// Build a fresh slice so snapshots held by an in-flight Emit stay intact.
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, name)
			} else {
				b.listeners[name] = next
			}
			return
		}
	}
}

func (b *EventBus) offAny(id uint64) {
	for i := range b.wildcard {
		if b.wildcard[i].id == id {
			next := make([]wildcardSubscriber, 0, len(b.wildcard)-1)
			next = append(next, b.wildcard[:i]...)
			next = append(next, b.wildcard[i+1:]...)
			b.wildcard = next
			return
		}
	}
}

// Emit records the event in history and delivers data to every subscriber
// of name, then the envelope to every wildcard subscriber. Emit on a
// disposed bus does nothing.
func (b *EventBus) Emit(name EventName, data any) {
	if b.disposed {
		return
	}
	env := Envelope{Event: name, Data: data, Timestamp: b.now().UnixMilli()}
	b.record(env)

	// Iterate over copies: subscribers may subscribe, unsubscribe or emit.
	named := append([]subscriber(nil), b.listeners[name]...)
	for _, s := range named {
		b.callNamed(name, s.fn, data)
	}
	wild := append([]wildcardSubscriber(nil), b.wildcard...)
	for _, s := range wild {
		b.callWildcard(s.fn, env)
	}
}

func (b *EventBus) callNamed(name EventName, fn func(any), data any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", string(name), "panic", r)
		}
	}()
	fn(data)
}

func (b *EventBus) callWildcard(fn func(Envelope), env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("wildcard event handler panicked", "event", string(env.Event), "panic", r)
		}
	}()
	fn(env)
}

func (b *EventBus) record(env Envelope) {
	if b.historySize < 1 {
		return
	}
	if len(b.history) < b.historySize {
		b.history = append(b.history, env)
		return
	}
	b.history[b.historyHead] = env
	b.historyHead = (b.historyHead + 1) % b.historySize
}

// History returns the recorded envelopes, oldest first.
func (b *EventBus) History() []Envelope {
	out := make([]Envelope, 0, len(b.history))
	out = append(out, b.history[b.historyHead:]...)
	out = append(out, b.history[:b.historyHead]...)
	return out
}

// ClearHistory drops all recorded envelopes.
func (b *EventBus) ClearHistory() {
	b.history = nil
	b.historyHead = 0
}

// SubscriberCount returns the number of subscribers for name.
func (b *EventBus) SubscriberCount(name EventName) int {
	return len(b.listeners[name])
}

// Dispose drops all subscribers and history. Later Emit calls are no-ops.
func (b *EventBus) Dispose() {
	b.listeners = make(map[EventName][]subscriber)
	b.wildcard = nil
	b.ClearHistory()
	b.disposed = true
}

// Disposed reports whether Dispose has been called.
func (b *EventBus) Disposed() bool {
	return b.disposed
}
