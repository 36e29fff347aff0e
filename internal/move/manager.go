// Package move drags shapes to the pointer, optionally keeping them inside a
// viewport.
package move

import (
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/interaction"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Options configure a Manager.
type Options struct {
	// Viewport enables the bounds check when non-nil.
	Viewport *geom.Rect
	// Worker runs the bounds check asynchronously. Results must be fed back
	// through Manager.Apply.
	Worker *Worker
}

// Manager moves the dragged shape.
type Manager struct {
	bus  *events.Bus
	lock *interaction.Lock
	opts Options

	selected *shape.Shape
	dragging *shape.Shape
	latest   uint64
	seq      uint64
}

var _ interaction.Manager = (*Manager)(nil)

// NewManager creates a move manager sharing lock with the other
// interactions.
func NewManager(bus *events.Bus, lock *interaction.Lock, opts Options) *Manager {
	return &Manager{bus: bus, lock: lock, opts: opts}
}

func (m *Manager) Create(s *shape.Shape) { m.selected = s }
func (m *Manager) Update(*shape.Shape)   {}
func (m *Manager) Hide()                 { m.selected = nil }

func (m *Manager) ActionActive() bool {
	return m.dragging != nil && m.lock.Holds(interaction.ActionMove)
}

// Begin starts dragging s, or the selected shape when s is nil.
func (m *Manager) Begin(s *shape.Shape) bool {
	if s == nil {
		s = m.selected
	}
	if s == nil || !m.lock.TryBegin(interaction.ActionMove, s.ID()) {
		return false
	}
	m.dragging = s
	m.bus.Publish(events.Event{Name: events.ShapeMoveStart, ShapeID: s.ID()})
	return true
}

// Drag moves the shape's centre to p. With a viewport the frame is skipped
// when the shape would leave it; with a worker the check is dispatched and
// Drag returns false until Apply receives the answer.
func (m *Manager) Drag(p geom.Point) bool {
	s := m.dragging
	if s == nil {
		return false
	}
	if m.opts.Viewport == nil {
		m.apply(p)
		return true
	}

	m.seq++
	req := CheckRequest{
		Seq:      m.seq,
		ShapeID:  s.ID(),
		Extent:   ExtentOf(s),
		Target:   p,
		Viewport: *m.opts.Viewport,
	}
	if m.opts.Worker != nil {
		m.latest = req.Seq
		m.opts.Worker.Submit(req)
		return false
	}
	if !Check(req).OK {
		return false
	}
	m.apply(p)
	return true
}

// Apply applies an asynchronous check result. Results that are not the
// latest dispatch for the current drag, or that failed, are discarded.
func (m *Manager) Apply(res CheckResult) bool {
	s := m.dragging
	if s == nil || res.ShapeID != s.ID() || res.Seq != m.latest || !res.OK {
		return false
	}
	m.apply(res.Target)
	return true
}

func (m *Manager) apply(p geom.Point) {
	m.dragging.SetWorldCenter(p)
	m.bus.Publish(events.Event{Name: events.ShapeMoved, ShapeID: m.dragging.ID()})
}

// End finishes the drag. Results still in flight are ignored afterwards.
func (m *Manager) End() {
	s := m.dragging
	if s == nil {
		return
	}
	m.dragging = nil
	m.latest = 0
	m.lock.End(interaction.ActionMove)
	m.bus.Publish(events.Event{Name: events.ShapeMoveEnd, ShapeID: s.ID()})
}
