package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

type step struct {
	name    string
	log     *[]string
	failExe bool
	failUnd bool
}

func (s *step) Execute() error {
	if s.failExe {
		return errors.New(s.name + " exploded")
	}
	*s.log = append(*s.log, "exec "+s.name)
	return nil
}

func (s *step) Undo() error {
	if s.failUnd {
		return errors.New(s.name + " exploded")
	}
	*s.log = append(*s.log, "undo "+s.name)
	return nil
}

func TestCompositeOrder(t *testing.T) {
	var log []string
	c := NewComposite(&step{name: "a", log: &log}, &step{name: "b", log: &log})
	c.Add(&step{name: "c", log: &log})
	c.Add(nil)

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if err := c.Undo(); err != nil {
		t.Fatal(err)
	}
	got := strings.Join(log, ",")
	want := "exec a,exec b,exec c,undo c,undo b,undo a"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestCompositeExecuteRollsBack(t *testing.T) {
	var log []string
	c := NewComposite(
		&step{name: "a", log: &log},
		&step{name: "b", log: &log},
		&step{name: "c", log: &log, failExe: true},
	)
	err := c.Execute()
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("err = %v", err)
	}
	got := strings.Join(log, ",")
	if got != "exec a,exec b,undo b,undo a" {
		t.Fatalf("log = %s", got)
	}
}

func TestCompositeUndoRollsForward(t *testing.T) {
	var log []string
	c := NewComposite(
		&step{name: "a", log: &log, failUnd: true},
		&step{name: "b", log: &log},
		&step{name: "c", log: &log},
	)
	err := c.Undo()
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("err = %v", err)
	}
	got := strings.Join(log, ",")
	if got != "undo c,undo b,exec b,exec c" {
		t.Fatalf("log = %s", got)
	}
}

func newStore(t *testing.T) *shape.Manager {
	t.Helper()
	reg := shape.NewRegistry()
	if err := shape.RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	return shape.NewManager(reg, nil)
}

func TestShapeCommandsRoundTrip(t *testing.T) {
	m := newStore(t)
	s, err := m.Create(shape.KindRectangle, shape.Transform{X: 10, Y: 10, Width: 20, Height: 20}, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := s.Transform()

	cmds := []Command{
		NewMoveShape(m, s.ID(), geom.Pt(10, 10), geom.Pt(40, 50)),
		NewResizeShape(m, s.ID(), before, shape.Transform{X: 45, Y: 55, Width: 30, Height: 40}),
		NewRotateShape(m, s.ID(), 0, 1.25),
	}
	for _, c := range cmds {
		if err := c.Execute(); err != nil {
			t.Fatal(err)
		}
	}
	want := shape.Transform{X: 45, Y: 55, Width: 30, Height: 40, Rotation: 1.25}
	if got := s.Transform(); got != want {
		t.Fatalf("after execute = %+v, want %+v", got, want)
	}
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Transform(); got != before {
		t.Fatalf("after undo = %+v, want %+v", got, before)
	}
}

func TestCommandOnMissingShape(t *testing.T) {
	m := newStore(t)
	c := NewMoveShape(m, "shape_gone", geom.Pt(0, 0), geom.Pt(1, 1))
	if err := c.Execute(); !errors.Is(err, shape.ErrShapeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRemoveShapeRestoresInPlace(t *testing.T) {
	m := newStore(t)
	var ids []string
	for i := range 3 {
		s, err := m.Create(shape.KindEllipse, shape.Transform{X: float64(i * 30), Width: 20, Height: 20}, shape.Params{"color": 0xff0000})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, s.ID())
	}

	rm := NewRemoveShape(m, ids[0])
	if err := rm.Undo(); err == nil {
		t.Fatal("undo before execute should fail")
	}
	if err := rm.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get(ids[0]); ok {
		t.Fatal("shape still present")
	}
	if err := rm.Undo(); err != nil {
		t.Fatal(err)
	}
	restored, ok := m.Get(ids[0])
	if !ok || m.Roots()[0] != restored {
		t.Fatal("shape not restored at its old index")
	}
	if restored.Param("color") != 0xff0000 {
		t.Fatalf("params lost: %v", restored.Params())
	}
}

func TestAddShapeCommand(t *testing.T) {
	m := newStore(t)
	snap := shape.Snapshot{ID: "shape_fixed", Kind: shape.KindRectangle, Transform: shape.Transform{Width: 10, Height: 10}}
	add := NewAddShape(m, snap, shape.Location{Index: -1})

	for range 2 {
		if err := add.Execute(); err != nil {
			t.Fatal(err)
		}
		if _, ok := m.Get("shape_fixed"); !ok {
			t.Fatal("shape not added")
		}
		if err := add.Undo(); err != nil {
			t.Fatal(err)
		}
		if m.Len() != 0 {
			t.Fatal("shape not removed")
		}
	}
}
