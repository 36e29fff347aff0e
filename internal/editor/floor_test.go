package editor

import (
	"errors"
	"testing"

	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

func TestFloorOperationsThroughHistory(t *testing.T) {
	e := newEditor(t)
	a, err := e.AddCorner(geom.Pt(0, 0), "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.AddCorner(geom.Pt(100, 0), "")
	if err != nil {
		t.Fatal(err)
	}
	w, err := e.AddWall(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddWall(b, a); !errors.Is(err, floor.ErrWallExists) {
		t.Fatalf("duplicate wall: %v", err)
	}

	if err := e.MoveCorner(b, geom.Pt(100, 50)); err != nil {
		t.Fatal(err)
	}
	wall, _ := e.Floor().Wall(w)
	if wall.End != geom.Pt(100, 50) {
		t.Fatalf("wall = %+v", wall)
	}

	if err := e.RemoveCorner(a); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Floor().Wall(w); ok {
		t.Fatal("wall survived its corner")
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Floor().WallBetween(a, b); !ok {
		t.Fatal("undo did not restore the wall")
	}
	for range 3 {
		if err := e.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(e.Floor().Corners()); n != 1 {
		t.Fatalf("%d corners after undoing move, wall and second corner", n)
	}
}

func TestCornerBoundToShape(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindEllipse, shape.Transform{X: 40, Y: 60, Width: 20, Height: 20}, nil)
	id, err := e.AddCorner(geom.Point{}, s.ID())
	if err != nil {
		t.Fatal(err)
	}
	c, _ := e.Floor().Corner(id)
	if c.Position != geom.Pt(40, 60) {
		t.Fatalf("corner at %+v", c.Position)
	}
	if _, err := e.AddCorner(geom.Point{}, s.ID()); !errors.Is(err, floor.ErrCornerExists) {
		t.Fatalf("second corner: %v", err)
	}
	if err := e.MoveCorner(id, geom.Pt(1, 1)); !errors.Is(err, floor.ErrCornerBound) {
		t.Fatalf("move bound corner: %v", err)
	}

	if err := e.RemoveShape(s.ID()); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Floor().Corner(id); ok {
		t.Fatal("corner survived its shape")
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got, ok := e.Floor().CornerForShape(s.ID()); !ok || got != id {
		t.Fatal("undo did not rebind the corner")
	}
}

func TestFloorPlanSurvivesReload(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindEllipse, shape.Transform{X: 40, Y: 60, Width: 20, Height: 20}, nil)
	a, _ := e.AddCorner(geom.Point{}, s.ID())
	b, _ := e.AddCorner(geom.Pt(200, 60), "")
	if _, err := e.AddWall(a, b); err != nil {
		t.Fatal(err)
	}
	list, err := e.EncodeAll()
	if err != nil {
		t.Fatal(err)
	}
	plan := e.FloorPlan()
	plan.Corners = append(plan.Corners, floor.PlanCorner{ID: 9, ShapeID: "shape_gone"})

	other := newEditor(t)
	if _, err := other.Load(list); err != nil {
		t.Fatal(err)
	}
	warnings, err := other.LoadFloorPlan(plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if _, ok := other.Floor().WallBetween(a, b); !ok {
		t.Fatal("wall lost on reload")
	}
	if got, ok := other.Floor().CornerForShape(s.ID()); !ok || got != a {
		t.Fatal("shape binding lost on reload")
	}
	if other.History().CanUndo() {
		t.Fatal("loading recorded history")
	}
}
