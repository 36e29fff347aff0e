package resize

import (
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/interaction"
	"github.com/planform/planform/backend-go/internal/shape"
)

// DefaultHandleSize is the side of a handle's hit box in world units.
const DefaultHandleSize = 12.0

type dragState struct {
	handle   Handle
	boundary shape.Boundary
	rotation float64
	fixed    Fixed
}

// Manager drives handle drags for the selected shape.
type Manager struct {
	bus        *events.Bus
	lock       *interaction.Lock
	handleSize float64

	target *shape.Shape
	boxes  []HandleBox
	drag   *dragState
}

var _ interaction.Manager = (*Manager)(nil)

// NewManager creates a resize manager sharing lock with the other
// interactions.
func NewManager(bus *events.Bus, lock *interaction.Lock, handleSize float64) *Manager {
	if handleSize <= 0 {
		handleSize = DefaultHandleSize
	}
	return &Manager{bus: bus, lock: lock, handleSize: handleSize}
}

func (m *Manager) Create(s *shape.Shape) {
	m.target = s
	m.refresh()
}

func (m *Manager) Update(s *shape.Shape) {
	if m.target == s {
		m.refresh()
	}
}

func (m *Manager) Hide() {
	m.target = nil
	m.boxes = nil
}

func (m *Manager) ActionActive() bool {
	return m.drag != nil && m.lock.Holds(interaction.ActionResize)
}

func (m *Manager) refresh() {
	if m.target == nil {
		m.boxes = nil
		return
	}
	m.boxes = Boxes(m.target.Boundary(), m.handleSize)
}

// Target returns the shape the handles are attached to.
func (m *Manager) Target() *shape.Shape { return m.target }

// Handles returns the current hit boxes.
func (m *Manager) Handles() []HandleBox {
	return append([]HandleBox(nil), m.boxes...)
}

// HandleAt returns the handle under the world point p.
func (m *Manager) HandleAt(p geom.Point) (Handle, bool) {
	return HitTest(m.boxes, p)
}

// Begin starts dragging h. It fails without a target or while another
// interaction is running.
func (m *Manager) Begin(h Handle) bool {
	if m.target == nil {
		return false
	}
	if _, _, _, _, ok := h.layout(shape.Boundary{}); !ok {
		return false
	}
	if !m.lock.TryBegin(interaction.ActionResize, m.target.ID()) {
		return false
	}
	t := m.target.Transform()
	m.drag = &dragState{
		handle:   h,
		boundary: m.target.Boundary(),
		rotation: m.target.WorldRotation(),
		fixed:    Fixed{Width: t.Width, Height: t.Height},
	}
	m.bus.Publish(events.Event{Name: events.ShapeResizeStart, ShapeID: m.target.ID()})
	return true
}

// Drag applies one frame. Frames that would shrink the shape below the
// minimum size are dropped and reported as false.
func (m *Manager) Drag(p geom.Point) bool {
	if m.drag == nil || m.target == nil {
		return false
	}
	res, ok := Compute(Request{
		Handle:   m.drag.handle,
		Boundary: m.drag.boundary,
		Target:   p,
		Rotation: m.drag.rotation,
		Fixed:    m.drag.fixed,
	})
	if !ok {
		return false
	}
	m.target.SetWorldCenter(res.Center)
	m.target.SetSize(res.Width, res.Height)
	m.refresh()
	m.bus.Publish(events.Event{Name: events.ShapeResized, ShapeID: m.target.ID()})
	return true
}

// End finishes the drag. It is the only way a drag stops.
func (m *Manager) End() {
	if m.drag == nil {
		return
	}
	m.drag = nil
	m.lock.End(interaction.ActionResize)
	if m.target != nil {
		m.bus.Publish(events.Event{Name: events.ShapeResizeEnd, ShapeID: m.target.ID()})
	}
}
