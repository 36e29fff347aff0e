// Package preview flattens shape snapshots into draw commands and rasterises
// them to PNG thumbnails.
package preview

import (
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Draw operations.
const (
	OpSave    = "save"
	OpRestore = "restore"
	OpShape   = "shape"
)

// DrawCommand is a single drawing step. Shape commands are expressed in the
// local frame established by the enclosing save, so Transform is the shape's
// placement relative to its parent.
type DrawCommand struct {
	Op        string       `json:"op"`
	ShapeID   string       `json:"shapeId,omitempty"`
	Kind      shape.Kind   `json:"kind,omitempty"`
	Transform []float64    `json:"transform,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	Params    shape.Params `json:"params,omitempty"`
}

// Compile emits commands in painter's order: parents before children, roots
// in slice order.
func Compile(roots []shape.Snapshot) []DrawCommand {
	var cmds []DrawCommand
	for _, r := range roots {
		compileSnapshot(r, &cmds)
	}
	return cmds
}

func compileSnapshot(s shape.Snapshot, cmds *[]DrawCommand) {
	m := geom.Placement(s.Transform.X, s.Transform.Y, s.Transform.Rotation)
	*cmds = append(*cmds,
		DrawCommand{Op: OpSave, Transform: m[:]},
		DrawCommand{
			Op:      OpShape,
			ShapeID: s.ID,
			Kind:    s.Kind,
			Width:   s.Transform.Width,
			Height:  s.Transform.Height,
			Params:  s.Params.Clone(),
		},
	)
	for _, c := range s.Children {
		compileSnapshot(c, cmds)
	}
	*cmds = append(*cmds, DrawCommand{Op: OpRestore})
}

// Bounds is the world-space box covering every root's boundary.
func Bounds(roots []shape.Snapshot) geom.Rect {
	var pts []geom.Point
	for _, r := range roots {
		pts = append(pts, shape.BoundaryOf(r.Transform).All()...)
	}
	return geom.BoundsOf(pts...)
}
