// Package codec flattens shape trees into instruction lists and rebuilds
// them. Containers are bracketed by BEGIN_CONTAINER and END_CONTAINER.
package codec

import (
	"fmt"
	"log/slog"

	"github.com/planform/planform/backend-go/internal/shape"
)

// CommandEndContainer closes the most recently opened container.
const CommandEndContainer = "END_CONTAINER"

// Parameter names shared by every kind.
const (
	ParamShapeID      = "shapeId"
	ParamShapeVersion = "shapeVersion"
	ParamPositionX    = "positionX"
	ParamPositionY    = "positionY"
	ParamWidth        = "width"
	ParamHeight       = "height"
	ParamRotation     = "rotation"
	ParamLabelText    = "labelText"
)

// Instruction is one entry of an encoded tree.
type Instruction struct {
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Codec encodes and decodes using the kinds of a registry.
type Codec struct {
	registry *shape.Registry
	logger   *slog.Logger
}

// New creates a codec. logger may be nil.
func New(registry *shape.Registry, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{registry: registry, logger: logger}
}

// Encode flattens snap in pre-order. A kind missing from the registry is a
// programming error and aborts the whole encoding.
func (c *Codec) Encode(snap shape.Snapshot) ([]Instruction, error) {
	var out []Instruction
	if err := c.encode(snap, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeAll encodes several top-level trees back to back.
func (c *Codec) EncodeAll(snaps []shape.Snapshot) ([]Instruction, error) {
	out := []Instruction{}
	for _, s := range snaps {
		if err := c.encode(s, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Codec) encode(snap shape.Snapshot, out *[]Instruction) error {
	def, err := c.registry.Lookup(snap.Kind)
	if err != nil {
		return fmt.Errorf("encode shape %s: %w", snap.ID, err)
	}
	if len(snap.Children) > 0 && !def.Container {
		return fmt.Errorf("encode shape %s: %w", snap.ID, shape.ErrNotContainer)
	}

	*out = append(*out, Instruction{Command: def.Command, Parameters: encodeParams(def, snap)})
	if !def.Container {
		return nil
	}
	for _, child := range snap.Children {
		if err := c.encode(child, out); err != nil {
			return err
		}
	}
	// Empty containers are closed too, or decoding would nest the shapes
	// that follow inside them. Lists from encoders that skip END for empty
	// containers decode with exactly that misnesting.
	*out = append(*out, Instruction{Command: CommandEndContainer})
	return nil
}

func encodeParams(def shape.Definition, snap shape.Snapshot) map[string]any {
	t := snap.Transform
	params := map[string]any{
		ParamShapeVersion: snap.Metadata.Version,
		ParamPositionX:    t.X,
		ParamPositionY:    t.Y,
		ParamWidth:        t.Width,
		ParamHeight:       t.Height,
		ParamRotation:     t.Rotation,
	}
	if snap.ID != "" {
		params[ParamShapeID] = snap.ID
	}
	if snap.Metadata.LabelText != "" {
		params[ParamLabelText] = snap.Metadata.LabelText
	}
	for k, v := range snap.Params.Clone() {
		params[k] = v
	}

	for local, wire := range def.FieldMap {
		if v, ok := params[local]; ok {
			delete(params, local)
			params[wire] = v
		}
	}
	return params
}
