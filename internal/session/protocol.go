package session

import (
	"encoding/json"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/resize"
	"github.com/planform/planform/backend-go/internal/shape"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client requests
	TypeShapeAdd    = "shape.add"
	TypeShapeRemove = "shape.remove"
	TypeShapeGroup  = "shape.group"
	TypeSelect      = "select"
	TypeLabelSet    = "label.set"

	TypeMoveStart   = "move.start"
	TypeMoveDrag    = "move.drag"
	TypeMoveEnd     = "move.end"
	TypeResizeStart = "resize.start"
	TypeResizeDrag  = "resize.drag"
	TypeResizeEnd   = "resize.end"
	TypeRotateStart = "rotate.start"
	TypeRotateDrag  = "rotate.drag"
	TypeRotateEnd   = "rotate.end"

	TypeCornerAdd    = "corner.add"
	TypeCornerRemove = "corner.remove"
	TypeCornerMove   = "corner.move"
	TypeWallAdd      = "wall.add"
	TypeWallRemove   = "wall.remove"

	TypeUndo = "history.undo"
	TypeRedo = "history.redo"

	TypeDocLoad = "doc.load"
	TypeDocSave = "doc.save"

	// Server messages
	TypeWelcome  = "welcome"
	TypeEvent    = "event"
	TypeAck      = "ack"
	TypeDocSync  = "doc.sync"
	TypeDocSaved = "doc.saved"
	TypeError    = "error"
)

type ShapeAddPayload struct {
	Kind      shape.Kind      `json:"kind"`
	Transform shape.Transform `json:"transform"`
	Params    shape.Params    `json:"params,omitempty"`
}

type ShapeRefPayload struct {
	ShapeID string `json:"shapeId"`
}

type GroupPayload struct {
	ShapeIDs []string `json:"shapeIds"`
}

type LabelPayload struct {
	ShapeID string `json:"shapeId"`
	Text    string `json:"text"`
}

type PointPayload struct {
	Point geom.Point `json:"point"`
}

// CornerPayload places a corner at Point, or on the shape ShapeID.
type CornerPayload struct {
	CornerID floor.CornerID `json:"cornerId,omitempty"`
	Point    geom.Point     `json:"point"`
	ShapeID  string         `json:"shapeId,omitempty"`
}

type WallPayload struct {
	WallID        floor.WallID   `json:"wallId,omitempty"`
	StartCornerID floor.CornerID `json:"startCornerId,omitempty"`
	EndCornerID   floor.CornerID `json:"endCornerId,omitempty"`
}

// ResizeStartPayload names a handle directly or gives a point to hit-test.
type ResizeStartPayload struct {
	Handle *resize.Handle `json:"handle,omitempty"`
	Point  *geom.Point    `json:"point,omitempty"`
}

type DocPayload struct {
	Instructions []codec.Instruction `json:"instructions"`
	Floor        floor.Plan          `json:"floor"`
	Warnings     []string            `json:"warnings,omitempty"`
}

type WelcomePayload struct {
	SessionID    string              `json:"sessionId"`
	DocumentID   string              `json:"documentId"`
	Version      int                 `json:"version"`
	Instructions []codec.Instruction `json:"instructions"`
	Floor        floor.Plan          `json:"floor"`
	Warnings     []string            `json:"warnings,omitempty"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

type AckPayload struct {
	// Applied is false when the request was valid but had no effect, such
	// as a drag frame rejected by the bounds check.
	Applied  bool           `json:"applied"`
	ShapeID  string         `json:"shapeId,omitempty"`
	CornerID floor.CornerID `json:"cornerId,omitempty"`
	WallID   floor.WallID   `json:"wallId,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type EventPayload = events.Event
