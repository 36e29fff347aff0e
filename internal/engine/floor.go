package engine

import (
	"encoding/json"
	"fmt"

	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
)

// AddCorner places a floor-plan corner at (x, y), or on shapeID when it is
// not empty, and returns the corner id.
func (e *Engine) AddCorner(x, y float64, shapeID string) (int, error) {
	id, err := e.ed.AddCorner(geom.Pt(x, y), shapeID)
	return int(id), err
}

func (e *Engine) RemoveCorner(id int) error { return e.ed.RemoveCorner(floor.CornerID(id)) }

func (e *Engine) MoveCorner(id int, x, y float64) error {
	return e.ed.MoveCorner(floor.CornerID(id), geom.Pt(x, y))
}

// AddWall joins two corners and returns the wall id.
func (e *Engine) AddWall(start, end int) (int, error) {
	id, err := e.ed.AddWall(floor.CornerID(start), floor.CornerID(end))
	return int(id), err
}

func (e *Engine) RemoveWall(id int) error { return e.ed.RemoveWall(floor.WallID(id)) }

// LoadFloorPlan replaces the floor plan with a JSON {corners, walls} object.
func (e *Engine) LoadFloorPlan(jsonData string) ([]string, error) {
	var p floor.Plan
	if err := json.Unmarshal([]byte(jsonData), &p); err != nil {
		return nil, fmt.Errorf("parse floor plan: %w", err)
	}
	return e.ed.LoadFloorPlan(p)
}

// GetFloorPlan returns the floor plan as JSON, with wall endpoints.
func (e *Engine) GetFloorPlan() string {
	g := e.ed.Floor()
	return toJSON(struct {
		floor.Plan
		Segments []floor.Wall `json:"segments"`
	}{g.Plan(), g.Walls()}, `{"corners":[],"walls":[],"segments":[]}`)
}
