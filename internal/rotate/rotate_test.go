package rotate

import (
	"math"
	"testing"

	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/interaction"
	"github.com/planform/planform/backend-go/internal/shape"
)

func newShape(t *testing.T) (*shape.Shape, *events.Bus) {
	t.Helper()
	reg := shape.NewRegistry()
	if err := shape.RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	bus := events.NewBus()
	s, err := shape.NewManager(reg, bus).Create(shape.KindRectangle, shape.Transform{X: 50, Y: 50, Width: 40, Height: 40}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, bus
}

func TestKnobPosition(t *testing.T) {
	s, _ := newShape(t)
	if got := KnobPosition(s); !got.Near(geom.Pt(50, 10), 1e-9) {
		t.Fatalf("knob = %+v", got)
	}
	s.SetRotation(math.Pi / 2)
	if got := KnobPosition(s); !got.Near(geom.Pt(90, 50), 1e-9) {
		t.Fatalf("knob after quarter turn = %+v", got)
	}
}

func TestDragRotatesTowardPointer(t *testing.T) {
	s, bus := newShape(t)
	var seen []events.Name
	bus.SubscribeAll(func(ev events.Event) { seen = append(seen, ev.Name) })

	m := NewManager(bus, &interaction.Lock{})
	m.Create(s)
	knob, _ := m.Knob()
	if !m.KnobAt(knob.Add(geom.Pt(3, 3))) {
		t.Fatal("knob not hit")
	}
	if !m.Begin() {
		t.Fatal("begin failed")
	}
	m.Drag(geom.Pt(100, 50))
	m.End()

	if r := s.Transform().Rotation; math.Abs(r-math.Pi/2) > 1e-9 {
		t.Fatalf("rotation = %v", r)
	}
	want := []events.Name{events.ShapeRotateStart, events.ShapeRotated, events.ShapeRotateEnd}
	if len(seen) != len(want) {
		t.Fatalf("events = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("events = %v", seen)
		}
	}
}

func TestRotateBlockedDuringResize(t *testing.T) {
	s, bus := newShape(t)
	lock := &interaction.Lock{}
	lock.TryBegin(interaction.ActionResize, s.ID())
	m := NewManager(bus, lock)
	m.Create(s)
	if m.Begin() || m.ActionActive() {
		t.Fatal("rotate began during resize")
	}
}
