package engine

import (
	"github.com/planform/planform/backend-go/internal/editor"
	"github.com/planform/planform/backend-go/internal/geom"
)

// Gesture is the interaction a pointer press started.
type Gesture string

const (
	GestureNone   Gesture = ""
	GestureMove   Gesture = "move"
	GestureResize Gesture = "resize"
	GestureRotate Gesture = "rotate"
)

// PointerDown starts the gesture under (x, y). The rotation knob wins over
// resize handles, which win over the shape body. Pressing empty canvas
// clears the selection.
func (e *Engine) PointerDown(x, y float64) (Gesture, error) {
	if e.ed.ActionActive() {
		return GestureNone, editor.ErrBusy
	}
	p := geom.Pt(x, y)

	if e.ed.Selected() != nil {
		if e.ed.Rotate().KnobAt(p) && e.ed.Rotate().Begin() {
			e.gesture = GestureRotate
			return e.gesture, nil
		}
		if h, ok := e.ed.Resize().HandleAt(p); ok && e.ed.Resize().Begin(h) {
			e.gesture = GestureResize
			return e.gesture, nil
		}
	}

	s, ok := e.ed.Shapes().HitTest(p)
	if !ok {
		e.ed.Deselect()
		e.gesture = GestureNone
		return e.gesture, nil
	}
	if err := e.ed.Select(s.ID()); err != nil {
		return GestureNone, err
	}
	if !e.ed.Move().Begin(s) {
		return GestureNone, editor.ErrBusy
	}
	e.gesture = GestureMove
	return e.gesture, nil
}

// PointerMove drags the active gesture. It reports whether the frame was
// applied.
func (e *Engine) PointerMove(x, y float64) bool {
	p := geom.Pt(x, y)
	switch e.gesture {
	case GestureMove:
		return e.ed.Move().Drag(p)
	case GestureResize:
		return e.ed.Resize().Drag(p)
	case GestureRotate:
		return e.ed.Rotate().Drag(p)
	}
	return false
}

// PointerUp ends the active gesture, which records it in history.
func (e *Engine) PointerUp() {
	switch e.gesture {
	case GestureMove:
		e.ed.Move().End()
	case GestureResize:
		e.ed.Resize().End()
	case GestureRotate:
		e.ed.Rotate().End()
	}
	e.gesture = GestureNone
}
