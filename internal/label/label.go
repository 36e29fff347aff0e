// Package label attaches one text label to a shape and keeps it centred on
// the shape while the shape moves or resizes.
package label

import (
	"errors"
	"fmt"

	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
	"github.com/planform/planform/backend-go/internal/typeid"
)

var (
	ErrLabelExists   = errors.New("shape already has a label")
	ErrLabelNotFound = errors.New("label not found")
)

// Label is the text shown on a shape.
type Label struct {
	ID       string     `json:"id"`
	ShapeID  string     `json:"shapeId"`
	Text     string     `json:"text"`
	Position geom.Point `json:"position"`
}

// Shapes looks shapes up by id.
type Shapes interface {
	Get(id string) (*shape.Shape, bool)
}

// Labeler owns every label of an editor.
type Labeler struct {
	shapes Shapes
	labels map[string]*Label
}

func NewLabeler(shapes Shapes) *Labeler {
	return &Labeler{shapes: shapes, labels: make(map[string]*Label)}
}

// Attach makes labels follow their shapes. The returned func detaches.
func (l *Labeler) Attach(bus *events.Bus) func() {
	follow := func(ev events.Event) { l.Follow(ev.ShapeID) }
	offs := []func(){
		bus.Subscribe(events.ShapeMoved, follow),
		bus.Subscribe(events.ShapeResized, follow),
		bus.Subscribe(events.ShapeRotated, follow),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// New builds a label for shapeID centred on the shape.
func (l *Labeler) New(shapeID, text string) (Label, error) {
	s, ok := l.shapes.Get(shapeID)
	if !ok {
		return Label{}, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, shapeID)
	}
	return Label{ID: typeid.NewLabelID(), ShapeID: shapeID, Text: text, Position: s.Center()}, nil
}

// Get returns the label of shapeID.
func (l *Labeler) Get(shapeID string) (Label, bool) {
	lbl, ok := l.labels[shapeID]
	if !ok {
		return Label{}, false
	}
	return *lbl, true
}

// Has reports whether shapeID carries a label.
func (l *Labeler) Has(shapeID string) bool {
	_, ok := l.labels[shapeID]
	return ok
}

// Add stores lbl.
func (l *Labeler) Add(lbl Label) error {
	if _, ok := l.labels[lbl.ShapeID]; ok {
		return fmt.Errorf("%w: %s", ErrLabelExists, lbl.ShapeID)
	}
	l.labels[lbl.ShapeID] = &lbl
	l.syncText(lbl.ShapeID, lbl.Text)
	return nil
}

// Remove deletes the label of shapeID and returns it.
func (l *Labeler) Remove(shapeID string) (Label, error) {
	lbl, ok := l.labels[shapeID]
	if !ok {
		return Label{}, fmt.Errorf("%w: %s", ErrLabelNotFound, shapeID)
	}
	delete(l.labels, shapeID)
	l.syncText(shapeID, "")
	return *lbl, nil
}

// SetText replaces the label text.
func (l *Labeler) SetText(shapeID, text string) error {
	lbl, ok := l.labels[shapeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, shapeID)
	}
	lbl.Text = text
	l.syncText(shapeID, text)
	return nil
}

// SetPosition moves the label.
func (l *Labeler) SetPosition(shapeID string, p geom.Point) error {
	lbl, ok := l.labels[shapeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, shapeID)
	}
	lbl.Position = p
	return nil
}

// Follow re-centres the labels of shapeID and of every shape nested in it.
func (l *Labeler) Follow(shapeID string) {
	s, ok := l.shapes.Get(shapeID)
	if !ok {
		return
	}
	s.Walk(func(n *shape.Shape) {
		if lbl, ok := l.labels[n.ID()]; ok {
			lbl.Position = n.Center()
		}
	})
}

// Positions returns the label positions of shapeID and its descendants,
// keyed by shape id.
func (l *Labeler) Positions(shapeID string) map[string]geom.Point {
	s, ok := l.shapes.Get(shapeID)
	if !ok {
		return nil
	}
	var out map[string]geom.Point
	s.Walk(func(n *shape.Shape) {
		if lbl, ok := l.labels[n.ID()]; ok {
			if out == nil {
				out = make(map[string]geom.Point)
			}
			out[n.ID()] = lbl.Position
		}
	})
	return out
}

// All returns every label.
func (l *Labeler) All() []Label {
	out := make([]Label, 0, len(l.labels))
	for _, lbl := range l.labels {
		out = append(out, *lbl)
	}
	return out
}

// Clear drops every label.
func (l *Labeler) Clear() {
	l.labels = make(map[string]*Label)
}

func (l *Labeler) syncText(shapeID, text string) {
	if s, ok := l.shapes.Get(shapeID); ok {
		s.SetLabelText(text)
	}
}
