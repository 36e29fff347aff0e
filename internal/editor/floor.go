package editor

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

// AddCorner places a floor-plan corner through history. With a shapeID the
// corner sits on that shape's centre and follows it; p is then ignored.
func (e *Editor) AddCorner(p geom.Point, shapeID string) (floor.CornerID, error) {
	if e.tools.ActionActive() {
		return 0, ErrBusy
	}
	if shapeID != "" {
		s, ok := e.shapes.Get(shapeID)
		if !ok {
			return 0, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, shapeID)
		}
		if id, ok := e.floor.CornerForShape(shapeID); ok {
			return 0, fmt.Errorf("%w: shape %s already has corner %d", floor.ErrCornerExists, shapeID, id)
		}
		p = s.Center()
	}
	c := floor.Corner{ID: e.floor.NewCornerID(), Position: p, ShapeID: shapeID}
	if err := e.Execute(floor.NewCreateCorner(e.floor, c)); err != nil {
		return 0, err
	}
	return c.ID, nil
}

// RemoveCorner removes a corner together with its walls as one step.
func (e *Editor) RemoveCorner(id floor.CornerID) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	comp, err := floor.CornerRemoval(e.floor, id)
	if err != nil {
		return err
	}
	return e.Execute(comp)
}

// MoveCorner moves a free corner and its walls. Corners bound to a shape
// move with the shape instead.
func (e *Editor) MoveCorner(id floor.CornerID, p geom.Point) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	c, ok := e.floor.Corner(id)
	if !ok {
		return fmt.Errorf("%w: %d", floor.ErrCornerNotFound, id)
	}
	if c.ShapeID != "" {
		return fmt.Errorf("%w: %d", floor.ErrCornerBound, id)
	}
	if c.Position == p {
		return nil
	}
	comp, err := floor.CornerMove(e.floor, id, c.Position, p)
	if err != nil {
		return err
	}
	return e.Execute(comp)
}

// AddWall joins corners a and b through history.
func (e *Editor) AddWall(a, b floor.CornerID) (floor.WallID, error) {
	if e.tools.ActionActive() {
		return 0, ErrBusy
	}
	cmd, err := floor.WallBetweenCorners(e.floor, a, b)
	if err != nil {
		return 0, err
	}
	if err := e.Execute(cmd); err != nil {
		return 0, err
	}
	return cmd.Wall().ID, nil
}

// RemoveWall deletes a wall through history.
func (e *Editor) RemoveWall(id floor.WallID) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	return e.Execute(floor.NewRemoveWall(e.floor, id))
}

// FloorPlan captures the floor-plan graph for storage.
func (e *Editor) FloorPlan() floor.Plan {
	return e.floor.Plan()
}

// LoadFloorPlan replaces the floor-plan graph. Call it after Load: corners
// bound to shapes the document does not contain are unbound and reported.
// History is not touched.
func (e *Editor) LoadFloorPlan(p floor.Plan) ([]string, error) {
	if e.tools.ActionActive() {
		return nil, ErrBusy
	}
	var warnings []string
	p.Corners = append([]floor.PlanCorner(nil), p.Corners...)
	for i, c := range p.Corners {
		if c.ShapeID == "" {
			continue
		}
		s, ok := e.shapes.Get(c.ShapeID)
		if !ok {
			msg := fmt.Sprintf("corner %d: shape %s not found", c.ID, c.ShapeID)
			warnings = append(warnings, msg)
			e.logger.Warn("load floor plan", "problem", msg)
			p.Corners[i].ShapeID = ""
			continue
		}
		center := s.Center()
		p.Corners[i].PositionX, p.Corners[i].PositionY = center.X, center.Y
	}
	if err := e.floor.LoadPlan(p); err != nil {
		return warnings, err
	}
	return warnings, nil
}
