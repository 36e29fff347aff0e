// Package events is the synchronous publish/subscribe bus that connects the
// shape manager, interaction managers, recorder and history.
package events

import "sync"

// Name identifies an event.
type Name string

const (
	ShapeAdded       Name = "shapeAdded"
	ShapeRemoved     Name = "shapeRemoved"
	ShapeMoveStart   Name = "shapeMoveStart"
	ShapeMoved       Name = "shapeMoved"
	ShapeMoveEnd     Name = "shapeMoveEnd"
	ShapeResizeStart Name = "shapeResizeStart"
	ShapeResized     Name = "shapeResized"
	ShapeResizeEnd   Name = "shapeResizeEnd"
	ShapeRotateStart Name = "shapeRotateStart"
	ShapeRotated     Name = "shapeRotated"
	ShapeRotateEnd   Name = "shapeRotateEnd"
	CommandPushed    Name = "commandPushed"
	UndoPerformed    Name = "undoPerformed"
	RedoPerformed    Name = "redoPerformed"
)

// StackSizes is the payload of the history events.
type StackSizes struct {
	UndoStackSize int `json:"undoStackSize"`
	RedoStackSize int `json:"redoStackSize"`
}

// Event is a single notification. ShapeID is set for shape events, Stacks
// for history events.
type Event struct {
	Name    Name        `json:"name"`
	ShapeID string      `json:"shapeId,omitempty"`
	Stacks  *StackSizes `json:"stacks,omitempty"`
}

// Handler receives events on the publisher's goroutine.
type Handler func(Event)

type subscription struct {
	id      int
	name    Name // empty for wildcard
	handler Handler
}

// Bus delivers each published event to its subscribers in subscription
// order before Publish returns.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for events called name. The returned func
// removes the subscription.
func (b *Bus) Subscribe(name Name, handler Handler) func() {
	return b.add(name, handler)
}

// SubscribeAll registers handler for every event.
func (b *Bus) SubscribeAll(handler Handler) func() {
	return b.add("", handler)
}

func (b *Bus) add(name Name, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, handler: handler})
	return func() { b.remove(id) }
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev. Handlers may publish further events; those are
// delivered depth-first.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == "" || s.name == ev.Name {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(ev)
	}
}
