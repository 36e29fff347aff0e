package editor

import (
	"errors"
	"testing"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/resize"
	"github.com/planform/planform/backend-go/internal/shape"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	e, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

var square = shape.Transform{X: 50, Y: 50, Width: 100, Height: 100}

func TestInitRunsOnce(t *testing.T) {
	e := newEditor(t)
	if !e.init.Initialized() {
		t.Fatal("editor not initialised")
	}
	if err := e.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if n := len(e.Registry().Kinds()); n != 6 {
		t.Fatalf("%d kinds registered", n)
	}
}

func TestResizeThenUndo(t *testing.T) {
	e := newEditor(t)
	s, err := e.AddShape(shape.KindRectangle, square, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Select(s.ID()); err != nil {
		t.Fatal(err)
	}

	r := e.Resize()
	if !r.Begin(resize.BottomRight) {
		t.Fatal("resize did not start")
	}
	r.Drag(geom.Pt(120, 140))
	r.End()

	want := shape.Transform{X: 60, Y: 70, Width: 120, Height: 140}
	if got := s.Transform(); got != want {
		t.Fatalf("after resize %+v", got)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Transform(); got != square {
		t.Fatalf("after undo %+v", got)
	}
	// handles follow the restored geometry
	if h, ok := e.Resize().HandleAt(geom.Pt(100, 100)); !ok || h != resize.BottomRight {
		t.Fatalf("handles not refreshed: %v %v", h, ok)
	}
}

func TestRejectedResizeLeavesNoHistory(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindRectangle, square, nil)
	_ = e.Select(s.ID())
	before := e.History().Sizes()

	r := e.Resize()
	r.Begin(resize.BottomRight)
	if r.Drag(geom.Pt(5, 5)) {
		t.Fatal("below-minimum resize applied")
	}
	r.End()

	if got := s.Transform(); got != square {
		t.Fatalf("transform = %+v", got)
	}
	if e.History().Sizes() != before {
		t.Fatalf("history changed: %+v", e.History().Sizes())
	}
}

func TestInteractionsAreExclusive(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindRectangle, square, nil)
	_ = e.Select(s.ID())

	if !e.Move().Begin(nil) {
		t.Fatal("move did not start")
	}
	if e.Resize().Begin(resize.TopLeft) || e.Rotate().Begin() {
		t.Fatal("second interaction started during a move")
	}
	if err := e.Undo(); !errors.Is(err, ErrBusy) {
		t.Fatalf("undo during drag: %v", err)
	}
	e.Move().End()
	if e.ActionActive() {
		t.Fatal("still active")
	}
}

func TestRemoveWithLabelUndo(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddShape(shape.KindRectangle, square, nil)
	b, _ := e.AddShape(shape.KindEllipse, shape.Transform{X: 200, Y: 50, Width: 40, Height: 40}, nil)
	if err := e.SetLabel(a.ID(), "Study"); err != nil {
		t.Fatal(err)
	}

	if err := e.RemoveShape(a.ID()); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Shapes().Get(a.ID()); ok || e.Labels().Has(a.ID()) {
		t.Fatal("shape or label survived removal")
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	restored, ok := e.Shapes().Get(a.ID())
	if !ok || e.Shapes().Roots()[0] != restored || e.Shapes().Roots()[1].ID() != b.ID() {
		t.Fatal("shape not restored in place")
	}
	lbl, ok := e.Labels().Get(a.ID())
	if !ok || lbl.Text != "Study" || restored.Metadata().LabelText != "Study" {
		t.Fatalf("label not restored: %+v", lbl)
	}

	if err := e.RemoveShape("shape_missing"); !errors.Is(err, shape.ErrShapeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestAddUndoRedoKeepsID(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindRectangle, square, nil)
	id := s.ID()

	_ = e.Undo()
	if e.Shapes().Len() != 0 {
		t.Fatal("add not undone")
	}
	_ = e.Redo()
	if _, ok := e.Shapes().Get(id); !ok {
		t.Fatal("redo minted a different id")
	}
}

func TestGroupAndUndo(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddShape(shape.KindRectangle, shape.Transform{X: 10, Y: 10, Width: 20, Height: 20}, nil)
	b, _ := e.AddShape(shape.KindRectangle, shape.Transform{X: 90, Y: 50, Width: 20, Height: 20}, nil)

	g, err := e.Group([]string{a.ID(), b.ID()})
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Shapes().Roots()) != 1 || len(g.Children()) != 2 {
		t.Fatalf("roots = %d", len(e.Shapes().Roots()))
	}
	child, _ := e.Shapes().Get(a.ID())
	if !child.Center().Near(geom.Pt(10, 10), 1e-9) {
		t.Fatalf("grouped child moved to %+v", child.Center())
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	roots := e.Shapes().Roots()
	if len(roots) != 2 || roots[0].ID() != a.ID() || roots[1].ID() != b.ID() {
		t.Fatalf("ungroup order wrong: %d roots", len(roots))
	}
	if _, err := e.Group([]string{"nope"}); !errors.Is(err, shape.ErrShapeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	e := newEditor(t)
	outer, err := e.AddSnapshot(shape.Snapshot{
		Kind:      shape.KindContainer,
		Transform: shape.Transform{X: 100, Y: 100, Width: 200, Height: 200, Rotation: 0.5},
		Children: []shape.Snapshot{
			{Kind: shape.KindRectangle, Transform: shape.Transform{X: -20, Y: 10, Width: 30, Height: 30}},
			{Kind: shape.KindArc, Transform: shape.Transform{X: 40, Y: 0, Width: 40, Height: 40}, Params: shape.Params{"radius": 20.0}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetLabel(outer.ID(), "Wing"); err != nil {
		t.Fatal(err)
	}

	list, err := e.EncodeAll()
	if err != nil {
		t.Fatal(err)
	}

	other := newEditor(t)
	res, err := other.Load(list)
	if err != nil || len(res.Warnings) != 0 {
		t.Fatalf("load: %v %v", err, res.Warnings)
	}
	if other.History().CanUndo() {
		t.Fatal("load left history behind")
	}
	again, err := other.EncodeAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(list) {
		t.Fatalf("%d instructions, want %d", len(again), len(list))
	}
	for i := range list {
		if list[i].Command != again[i].Command {
			t.Fatalf("instruction %d: %s vs %s", i, again[i].Command, list[i].Command)
		}
	}
	lbl, ok := other.Labels().Get(outer.ID())
	if !ok || lbl.Text != "Wing" {
		t.Fatalf("label not restored from metadata: %+v", lbl)
	}
}

func TestLoadSkipsInvalidRoots(t *testing.T) {
	e := newEditor(t)
	res, err := e.Load([]codec.Instruction{
		{Command: shape.CommandRectangle, Parameters: map[string]any{"width": 2.0, "height": 20.0}},
		{Command: shape.CommandRectangle, Parameters: map[string]any{"width": 20.0, "height": 20.0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Shapes().Len() != 1 || len(res.Warnings) != 1 {
		t.Fatalf("len = %d warnings = %v", e.Shapes().Len(), res.Warnings)
	}
}

func TestRemovingSelectedShapeDeselects(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindRectangle, square, nil)
	_ = e.Select(s.ID())
	if err := e.RemoveShape(s.ID()); err != nil {
		t.Fatal(err)
	}
	if e.Selected() != nil || e.Resize().Target() != nil {
		t.Fatal("selection survived removal")
	}
}

func TestContainerMoveCarriesChildLabel(t *testing.T) {
	e := newEditor(t)
	box, err := e.AddSnapshot(shape.Snapshot{
		Kind:      shape.KindContainer,
		Transform: shape.Transform{X: 100, Y: 100, Width: 80, Height: 80},
		Children: []shape.Snapshot{{
			ID:        "shape_lamp",
			Kind:      shape.KindEllipse,
			Transform: shape.Transform{X: 20, Width: 20, Height: 20},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetLabel("shape_lamp", "Lamp"); err != nil {
		t.Fatal(err)
	}
	labelAt := func() geom.Point {
		lbl, _ := e.Labels().Get("shape_lamp")
		return lbl.Position
	}

	_ = e.Select(box.ID())
	e.Move().Begin(nil)
	e.Move().Drag(geom.Pt(300, 300))
	e.Move().End()
	if p := labelAt(); !p.Near(geom.Pt(320, 300), 1e-9) {
		t.Fatalf("label at %+v after move", p)
	}

	size := e.History().Sizes().UndoStackSize
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := e.History().Sizes().UndoStackSize; got != size-1 {
		t.Fatalf("undo size %d, want %d", got, size-1)
	}
	if p := labelAt(); !p.Near(geom.Pt(120, 100), 1e-9) {
		t.Fatalf("label at %+v after undo", p)
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if p := labelAt(); !p.Near(geom.Pt(320, 300), 1e-9) {
		t.Fatalf("label at %+v after redo", p)
	}
}

func TestGroupRejectsEmptySelection(t *testing.T) {
	e := newEditor(t)
	if _, err := e.Group(nil); !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("err = %v", err)
	}
	if e.History().CanUndo() || e.Shapes().Len() != 0 {
		t.Fatal("empty group changed the document")
	}
}

func TestEditsRefusedDuringDrag(t *testing.T) {
	e := newEditor(t)
	s, _ := e.AddShape(shape.KindRectangle, square, nil)
	_ = e.Select(s.ID())
	e.Move().Begin(nil)
	defer e.Move().End()

	if err := e.RemoveShape(s.ID()); !errors.Is(err, ErrBusy) {
		t.Fatalf("remove during drag: %v", err)
	}
	if err := e.SetLabel(s.ID(), "Den"); !errors.Is(err, ErrBusy) {
		t.Fatalf("label during drag: %v", err)
	}
	if _, err := e.Group([]string{s.ID()}); !errors.Is(err, ErrBusy) {
		t.Fatalf("group during drag: %v", err)
	}
	if _, ok := e.Shapes().Get(s.ID()); !ok {
		t.Fatal("dragged shape was removed")
	}
}
