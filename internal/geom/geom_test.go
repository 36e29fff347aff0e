package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestRotateAround(t *testing.T) {
	got := RotateAround(Pt(10, 0), Pt(0, 0), math.Pi/2)
	if !got.Near(Pt(0, 10), eps) {
		t.Fatalf("got %+v, want (0,10)", got)
	}

	back := RotateAround(got, Pt(0, 0), -math.Pi/2)
	if !back.Near(Pt(10, 0), eps) {
		t.Fatalf("round trip got %+v", back)
	}
}

func TestNearestPointOnLine(t *testing.T) {
	tests := []struct {
		name    string
		a, b, p Point
		want    Point
	}{
		{"inside segment", Pt(0, 0), Pt(0, 100), Pt(30, 40), Pt(0, 40)},
		{"beyond the end", Pt(50, 100), Pt(50, 0), Pt(50, -10), Pt(50, -10)},
		{"off axis past end", Pt(0, 0), Pt(10, 10), Pt(30, 10), Pt(20, 20)},
		{"degenerate", Pt(5, 5), Pt(5, 5), Pt(9, 9), Pt(5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestPointOnLine(tt.a, tt.b, tt.p)
			if !got.Near(tt.want, eps) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Placement(40, -12, 0.7).Multiply(Placement(3, 9, -1.1))
	p := Pt(17, 23)
	got := m.Invert().Apply(m.Apply(p))
	if !got.Near(p, eps) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
	if math.Abs(m.Angle()-(0.7-1.1)) > eps {
		t.Fatalf("angle = %v", m.Angle())
	}
}

func TestBoundsOfAndContainsRect(t *testing.T) {
	r := BoundsOf(Pt(10, 20), Pt(-5, 7), Pt(3, 30))
	want := Rect{X: -5, Y: 7, Width: 15, Height: 23}
	if r != want {
		t.Fatalf("got %+v, want %+v", r, want)
	}
	if !(Rect{X: -10, Y: 0, Width: 40, Height: 40}).ContainsRect(r) {
		t.Fatal("expected containment")
	}
	if (Rect{X: 0, Y: 0, Width: 40, Height: 40}).ContainsRect(r) {
		t.Fatal("expected rect to overflow on the left")
	}
	if c := RectAround(Pt(5, 5), 10, 4).Center(); c != Pt(5, 5) {
		t.Fatalf("center = %+v", c)
	}
}

func TestUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: -5, Width: 5, Height: 5}
	if got, want := a.Union(b), (Rect{X: 0, Y: -5, Width: 25, Height: 15}); got != want {
		t.Fatalf("union = %+v, want %+v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Fatalf("empty union = %+v", got)
	}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("union with empty = %+v", got)
	}
}
