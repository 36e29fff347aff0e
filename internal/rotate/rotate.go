// Package rotate turns the selected shape with a knob above its top edge.
package rotate

import (
	"math"

	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/interaction"
	"github.com/planform/planform/backend-go/internal/shape"
)

// KnobRadius is the radius of the rotation knob.
const KnobRadius = 10.0

// KnobPosition places the knob two radii beyond the top-centre handle,
// along the shape's up axis.
func KnobPosition(s *shape.Shape) geom.Point {
	up := s.WorldRotation() - math.Pi/2
	offset := geom.Pt(math.Cos(up), math.Sin(up)).Scale(2 * KnobRadius)
	return s.Boundary().TopCenter.Add(offset)
}

// AngleTo is the world rotation that points a shape's top toward p.
func AngleTo(center, p geom.Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) + math.Pi/2
}

// Manager drives knob drags.
type Manager struct {
	bus  *events.Bus
	lock *interaction.Lock

	target   *shape.Shape
	knob     geom.Point
	dragging bool
}

var _ interaction.Manager = (*Manager)(nil)

func NewManager(bus *events.Bus, lock *interaction.Lock) *Manager {
	return &Manager{bus: bus, lock: lock}
}

func (m *Manager) Create(s *shape.Shape) {
	m.target = s
	m.knob = KnobPosition(s)
}

func (m *Manager) Update(s *shape.Shape) {
	if m.target == s {
		m.knob = KnobPosition(s)
	}
}

func (m *Manager) Hide() {
	m.target = nil
}

func (m *Manager) ActionActive() bool {
	return m.dragging && m.lock.Holds(interaction.ActionRotate)
}

// Knob returns the knob centre and whether it is shown.
func (m *Manager) Knob() (geom.Point, bool) {
	return m.knob, m.target != nil
}

// KnobAt reports whether p is on the knob.
func (m *Manager) KnobAt(p geom.Point) bool {
	return m.target != nil && p.Distance(m.knob) <= KnobRadius
}

// Begin starts a knob drag.
func (m *Manager) Begin() bool {
	if m.target == nil || !m.lock.TryBegin(interaction.ActionRotate, m.target.ID()) {
		return false
	}
	m.dragging = true
	m.bus.Publish(events.Event{Name: events.ShapeRotateStart, ShapeID: m.target.ID()})
	return true
}

// Drag turns the shape to face p.
func (m *Manager) Drag(p geom.Point) bool {
	if !m.dragging || m.target == nil {
		return false
	}
	m.target.SetWorldRotation(AngleTo(m.target.Center(), p))
	m.knob = KnobPosition(m.target)
	m.bus.Publish(events.Event{Name: events.ShapeRotated, ShapeID: m.target.ID()})
	return true
}

// End finishes the drag.
func (m *Manager) End() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.lock.End(interaction.ActionRotate)
	if m.target != nil {
		m.bus.Publish(events.Event{Name: events.ShapeRotateEnd, ShapeID: m.target.ID()})
	}
}
