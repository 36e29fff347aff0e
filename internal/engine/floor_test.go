package engine

import (
	"encoding/json"
	"testing"

	"github.com/planform/planform/backend-go/internal/floor"
)

func TestFloorPlanOps(t *testing.T) {
	e := newEngine(t)
	a, err := e.AddCorner(0, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.AddCorner(100, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddWall(a, b); err != nil {
		t.Fatal(err)
	}
	if err := e.MoveCorner(b, 100, 40); err != nil {
		t.Fatal(err)
	}

	var got struct {
		floor.Plan
		Segments []floor.Wall `json:"segments"`
	}
	if err := json.Unmarshal([]byte(e.GetFloorPlan()), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Corners) != 2 || len(got.Walls) != 1 || got.Segments[0].End.Y != 40 {
		t.Fatalf("floor plan = %+v", got)
	}

	other := newEngine(t)
	warnings, err := other.LoadFloorPlan(e.GetFloorPlan())
	if err != nil || len(warnings) != 0 {
		t.Fatalf("load: %v %v", warnings, err)
	}
	if n := len(other.Editor().Floor().Walls()); n != 1 {
		t.Fatalf("walls after load = %d", n)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	c, _ := e.Editor().Floor().Corner(floor.CornerID(b))
	if c.Position.Y != 0 {
		t.Fatalf("corner at %+v after undo", c.Position)
	}
}
