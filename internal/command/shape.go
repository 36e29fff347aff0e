package command

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Shapes looks shapes up by id.
type Shapes interface {
	Get(id string) (*shape.Shape, bool)
}

// ShapeStore can also add and remove shapes.
type ShapeStore interface {
	Shapes
	Restore(snap shape.Snapshot, parentID string, index int) (*shape.Shape, error)
	Remove(id string) error
	Locate(id string) (shape.Location, bool)
}

func lookup(shapes Shapes, id string) (*shape.Shape, error) {
	s, ok := shapes.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, id)
	}
	return s, nil
}

// MoveShape sets a shape's stored position.
type MoveShape struct {
	shapes   Shapes
	id       string
	from, to geom.Point
}

func NewMoveShape(shapes Shapes, id string, from, to geom.Point) *MoveShape {
	return &MoveShape{shapes: shapes, id: id, from: from, to: to}
}

func (c *MoveShape) Execute() error { return c.set(c.to) }
func (c *MoveShape) Undo() error    { return c.set(c.from) }

func (c *MoveShape) set(p geom.Point) error {
	s, err := lookup(c.shapes, c.id)
	if err != nil {
		return err
	}
	s.SetPosition(p.X, p.Y)
	return nil
}

// ResizeShape sets a shape's position and size together.
type ResizeShape struct {
	shapes   Shapes
	id       string
	from, to shape.Transform
}

// NewResizeShape records a resize. Only X, Y, Width and Height of from and
// to are used; rotation is left alone.
func NewResizeShape(shapes Shapes, id string, from, to shape.Transform) *ResizeShape {
	return &ResizeShape{shapes: shapes, id: id, from: from, to: to}
}

func (c *ResizeShape) Execute() error { return c.set(c.to) }
func (c *ResizeShape) Undo() error    { return c.set(c.from) }

func (c *ResizeShape) set(v shape.Transform) error {
	s, err := lookup(c.shapes, c.id)
	if err != nil {
		return err
	}
	t := s.Transform()
	t.X, t.Y, t.Width, t.Height = v.X, v.Y, v.Width, v.Height
	s.SetTransform(t)
	return nil
}

// RotateShape sets a shape's stored rotation.
type RotateShape struct {
	shapes   Shapes
	id       string
	from, to float64
}

func NewRotateShape(shapes Shapes, id string, from, to float64) *RotateShape {
	return &RotateShape{shapes: shapes, id: id, from: from, to: to}
}

func (c *RotateShape) Execute() error { return c.set(c.to) }
func (c *RotateShape) Undo() error    { return c.set(c.from) }

func (c *RotateShape) set(r float64) error {
	s, err := lookup(c.shapes, c.id)
	if err != nil {
		return err
	}
	s.SetRotation(r)
	return nil
}

// AddShape inserts a shape from a snapshot. The snapshot's id is kept so
// later commands can refer to the shape across undo and redo.
type AddShape struct {
	store ShapeStore
	snap  shape.Snapshot
	loc   shape.Location
}

// NewAddShape records the addition of snap at loc. snap must carry an id.
func NewAddShape(store ShapeStore, snap shape.Snapshot, loc shape.Location) *AddShape {
	return &AddShape{store: store, snap: snap.Clone(), loc: loc}
}

func (c *AddShape) Execute() error {
	if _, err := c.store.Restore(c.snap, c.loc.ParentID, c.loc.Index); err != nil {
		return fmt.Errorf("add shape %s: %w", c.snap.ID, err)
	}
	return nil
}

func (c *AddShape) Undo() error {
	return c.store.Remove(c.snap.ID)
}

// RemoveShape removes a shape, keeping a snapshot so Undo can restore it
// at the same place in the tree.
type RemoveShape struct {
	store ShapeStore
	id    string
	snap  shape.Snapshot
	loc   shape.Location
	taken bool
}

func NewRemoveShape(store ShapeStore, id string) *RemoveShape {
	return &RemoveShape{store: store, id: id}
}

func (c *RemoveShape) Execute() error {
	s, err := lookup(c.store, c.id)
	if err != nil {
		return err
	}
	loc, _ := c.store.Locate(c.id)
	snap := s.Snapshot()
	if err := c.store.Remove(c.id); err != nil {
		return err
	}
	c.snap, c.loc, c.taken = snap, loc, true
	return nil
}

func (c *RemoveShape) Undo() error {
	if !c.taken {
		return fmt.Errorf("undo remove %s: shape was never removed", c.id)
	}
	if _, err := c.store.Restore(c.snap, c.loc.ParentID, c.loc.Index); err != nil {
		return fmt.Errorf("restore shape %s: %w", c.id, err)
	}
	return nil
}
