// Package engine exposes the editor through a string-in, string-out API for
// the WebAssembly frontend. Every structured value crosses the boundary as
// JSON.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/editor"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/preview"
	"github.com/planform/planform/backend-go/internal/resize"
	"github.com/planform/planform/backend-go/internal/rotate"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Engine owns one editor. It is not safe for concurrent use; the browser
// calls it from a single thread.
type Engine struct {
	ed      *editor.Editor
	gesture Gesture
}

func NewEngine() (*Engine, error) {
	ed, err := editor.New(editor.Options{})
	if err != nil {
		return nil, err
	}
	return &Engine{ed: ed}, nil
}

// Editor returns the wrapped editor.
func (e *Engine) Editor() *editor.Editor { return e.ed }

// --- Commands (frontend → backend) ---

// LoadDocument replaces the document with a JSON instruction list and
// returns the decode warnings.
func (e *Engine) LoadDocument(jsonData string) ([]string, error) {
	var list []codec.Instruction
	if err := json.Unmarshal([]byte(jsonData), &list); err != nil {
		return nil, fmt.Errorf("parse instructions: %w", err)
	}
	res, err := e.ed.Load(list)
	if err != nil {
		return nil, err
	}
	e.gesture = GestureNone
	return res.Warnings, nil
}

// LoadSampleDocument loads the built-in sample plan.
func (e *Engine) LoadSampleDocument() error {
	_, err := e.ed.Load(SampleInstructions())
	e.gesture = GestureNone
	return err
}

type addRequest struct {
	Kind      shape.Kind      `json:"kind"`
	Transform shape.Transform `json:"transform"`
	Params    shape.Params    `json:"params,omitempty"`
}

// AddShape creates a top-level shape from {kind, transform, params} and
// returns its id.
func (e *Engine) AddShape(jsonData string) (string, error) {
	var req addRequest
	if err := json.Unmarshal([]byte(jsonData), &req); err != nil {
		return "", fmt.Errorf("parse shape: %w", err)
	}
	s, err := e.ed.AddShape(req.Kind, req.Transform, req.Params)
	if err != nil {
		return "", err
	}
	return s.ID(), nil
}

func (e *Engine) RemoveShape(id string) error { return e.ed.RemoveShape(id) }

func (e *Engine) SetLabel(id, text string) error { return e.ed.SetLabel(id, text) }

// Group wraps the shapes in a JSON id array into a container.
func (e *Engine) Group(jsonIDs string) (string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(jsonIDs), &ids); err != nil {
		return "", fmt.Errorf("parse ids: %w", err)
	}
	g, err := e.ed.Group(ids)
	if err != nil {
		return "", err
	}
	return g.ID(), nil
}

func (e *Engine) Select(id string) error { return e.ed.Select(id) }

func (e *Engine) Deselect() { e.ed.Deselect() }

func (e *Engine) Undo() error { return e.ed.Undo() }

func (e *Engine) Redo() error { return e.ed.Redo() }

// Subscribe forwards every editor event to fn as JSON. The returned func
// stops forwarding.
func (e *Engine) Subscribe(fn func(string)) func() {
	return e.ed.Bus().SubscribeAll(func(ev events.Event) {
		data, _ := json.Marshal(ev)
		fn(string(data))
	})
}

// --- Queries (frontend ← backend) ---

// Render returns the draw commands of the whole document as JSON.
func (e *Engine) Render() string {
	return toJSON(preview.Compile(e.ed.Shapes().Snapshots()), "[]")
}

// ExportDocument encodes the document as a JSON instruction list.
func (e *Engine) ExportDocument() (string, error) {
	list, err := e.ed.EncodeAll()
	if err != nil {
		return "", err
	}
	if list == nil {
		list = []codec.Instruction{}
	}
	return toJSON(list, "[]"), nil
}

// HitTest returns the id of the frontmost shape at (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	if s, ok := e.ed.Shapes().HitTest(geom.Pt(x, y)); ok {
		return s.ID()
	}
	return ""
}

// Overlay describes what the frontend draws over the selection.
type Overlay struct {
	ShapeID  string             `json:"shapeId,omitempty"`
	Outline  []geom.Point       `json:"outline,omitempty"`
	Handles  []resize.HandleBox `json:"handles,omitempty"`
	Knob     *geom.Point        `json:"knob,omitempty"`
	KnobSize float64            `json:"knobSize,omitempty"`
	Gesture  Gesture            `json:"gesture"`
}

func (e *Engine) Overlay() Overlay {
	o := Overlay{Gesture: e.gesture}
	s := e.ed.Selected()
	if s == nil {
		return o
	}
	o.ShapeID = s.ID()
	b := s.Boundary()
	o.Outline = []geom.Point{b.TopLeft, b.TopRight, b.BottomRight, b.BottomLeft}
	o.Handles = e.ed.Resize().Handles()
	if k, ok := e.ed.Rotate().Knob(); ok {
		o.Knob = &k
		o.KnobSize = rotate.KnobRadius
	}
	return o
}

// GetOverlay is Overlay as JSON.
func (e *Engine) GetOverlay() string { return toJSON(e.Overlay(), "{}") }

type historyState struct {
	CanUndo bool              `json:"canUndo"`
	CanRedo bool              `json:"canRedo"`
	Sizes   events.StackSizes `json:"sizes"`
}

func (e *Engine) GetHistoryState() string {
	h := e.ed.History()
	return toJSON(historyState{CanUndo: h.CanUndo(), CanRedo: h.CanRedo(), Sizes: h.Sizes()}, "{}")
}

// GetSelection returns the selected shape id, or "".
func (e *Engine) GetSelection() string {
	if s := e.ed.Selected(); s != nil {
		return s.ID()
	}
	return ""
}

func toJSON(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(data)
}
