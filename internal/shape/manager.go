package shape

import (
	"errors"
	"fmt"
	"slices"

	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/typeid"
)

var (
	ErrShapeNotFound = errors.New("shape not found")
	ErrDuplicateID   = errors.New("shape id already in use")
	ErrNotContainer  = errors.New("shape is not a container")
	ErrTooSmall      = errors.New("shape smaller than minimum size")
)

// Location is where a shape sits in the tree. ParentID is empty for
// top-level shapes.
type Location struct {
	ParentID string
	Index    int
}

// Manager owns the live shape tree and indexes every shape by id.
type Manager struct {
	registry *Registry
	bus      *events.Bus
	byID     map[string]*Shape
	roots    []*Shape
}

// NewManager creates a manager that builds shapes from registry and
// announces additions and removals on bus. bus may be nil.
func NewManager(registry *Registry, bus *events.Bus) *Manager {
	return &Manager{
		registry: registry,
		bus:      bus,
		byID:     make(map[string]*Shape),
	}
}

func (m *Manager) Registry() *Registry { return m.registry }

// Create adds a new top-level shape.
func (m *Manager) Create(kind Kind, t Transform, params Params) (*Shape, error) {
	return m.AddShapeFromSnapshot(Snapshot{Kind: kind, Transform: t, Params: params})
}

// AddShapeFromSnapshot adds snap as the front-most top-level shape. Ids in
// the snapshot are kept; missing ones are generated.
func (m *Manager) AddShapeFromSnapshot(snap Snapshot) (*Shape, error) {
	return m.Restore(snap, "", -1)
}

// Restore adds snap under parentID (top level when empty) at index. A
// negative or out-of-range index appends. Nothing is registered unless the
// whole subtree is valid.
func (m *Manager) Restore(snap Snapshot, parentID string, index int) (*Shape, error) {
	var parent *Shape
	if parentID != "" {
		p, ok := m.byID[parentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s", ErrShapeNotFound, parentID)
		}
		if !p.container {
			return nil, fmt.Errorf("%w: %s", ErrNotContainer, parentID)
		}
		parent = p
	}

	seen := make(map[string]bool)
	s, err := m.build(snap, seen)
	if err != nil {
		return nil, err
	}

	if parent != nil {
		parent.insertChild(index, s)
	} else {
		m.insertRoot(index, s)
	}
	m.register(s)

	m.bus.Publish(events.Event{Name: events.ShapeAdded, ShapeID: s.id})
	return s, nil
}

func (m *Manager) build(snap Snapshot, seen map[string]bool) (*Shape, error) {
	def, err := m.registry.Lookup(snap.Kind)
	if err != nil {
		return nil, err
	}
	t := snap.Transform
	if t.Width < MinSize || t.Height < MinSize {
		return nil, fmt.Errorf("%w: %s %vx%v", ErrTooSmall, snap.Kind, t.Width, t.Height)
	}
	if len(snap.Children) > 0 && !def.Container {
		return nil, fmt.Errorf("%w: %s has children", ErrNotContainer, snap.Kind)
	}

	id := snap.ID
	if id == "" {
		id = typeid.NewShapeID()
	}
	if _, taken := m.byID[id]; taken || seen[id] {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	seen[id] = true

	params := snap.Params.Clone()
	if def.New != nil {
		if params, err = def.New(t, params); err != nil {
			return nil, fmt.Errorf("create %s: %w", snap.Kind, err)
		}
	}

	md := snap.Metadata
	if md.Version == 0 {
		md.Version = 1
	}
	s := &Shape{
		id:        id,
		kind:      def.Kind,
		container: def.Container,
		transform: t,
		params:    params,
		metadata:  md,
	}
	for _, cs := range snap.Children {
		c, err := m.build(cs, seen)
		if err != nil {
			return nil, err
		}
		s.insertChild(-1, c)
	}
	return s, nil
}

func (m *Manager) insertRoot(index int, s *Shape) {
	if index < 0 || index >= len(m.roots) {
		m.roots = append(m.roots, s)
		return
	}
	m.roots = slices.Insert(m.roots, index, s)
}

func (m *Manager) register(s *Shape) {
	m.byID[s.id] = s
	for _, c := range s.children {
		m.register(c)
	}
}

func (m *Manager) unregister(s *Shape) {
	delete(m.byID, s.id)
	for _, c := range s.children {
		m.unregister(c)
	}
}

// Get returns the shape with id.
func (m *Manager) Get(id string) (*Shape, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// Locate reports where id sits in the tree.
func (m *Manager) Locate(id string) (Location, bool) {
	s, ok := m.byID[id]
	if !ok {
		return Location{}, false
	}
	if s.parent != nil {
		return Location{ParentID: s.parent.id, Index: indexOf(s.parent.children, s)}, true
	}
	return Location{Index: indexOf(m.roots, s)}, true
}

// Remove detaches id and its descendants from the tree.
func (m *Manager) Remove(id string) error {
	s, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	if s.parent != nil {
		s.parent.removeChild(s)
	} else if i := indexOf(m.roots, s); i >= 0 {
		m.roots = append(m.roots[:i], m.roots[i+1:]...)
	}
	m.unregister(s)

	m.bus.Publish(events.Event{Name: events.ShapeRemoved, ShapeID: id})
	return nil
}

// Roots returns the top-level shapes, back to front.
func (m *Manager) Roots() []*Shape {
	return append([]*Shape(nil), m.roots...)
}

// Len is the number of live shapes at any depth.
func (m *Manager) Len() int {
	return len(m.byID)
}

// Snapshots captures every top-level shape.
func (m *Manager) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(m.roots))
	for _, s := range m.roots {
		out = append(out, s.Snapshot())
	}
	return out
}

// Clear drops every shape without publishing removals.
func (m *Manager) Clear() {
	m.roots = nil
	m.byID = make(map[string]*Shape)
}

// HitTest returns the front-most shape under the world point p. Children
// are tested before their container.
func (m *Manager) HitTest(p geom.Point) (*Shape, bool) {
	for i := len(m.roots) - 1; i >= 0; i-- {
		if s := hitTest(m.roots[i], p); s != nil {
			return s, true
		}
	}
	return nil, false
}

func hitTest(s *Shape, p geom.Point) *Shape {
	for i := len(s.children) - 1; i >= 0; i-- {
		if hit := hitTest(s.children[i], p); hit != nil {
			return hit
		}
	}
	if s.ContainsPoint(p) {
		return s
	}
	return nil
}
