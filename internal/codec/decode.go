package codec

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/shape"
)

// Result is a decoded list. Warnings describe instructions that were
// skipped or left unbalanced; decoding never stops on them.
type Result struct {
	Roots    []shape.Snapshot
	Warnings []string
}

type node struct {
	snap     shape.Snapshot
	children []*node
}

// Decode rebuilds the trees encoded in list.
func (c *Codec) Decode(list []Instruction) Result {
	var (
		res   Result
		roots []*node
		// A nil frame stands for a container whose kind is unknown; it
		// swallows its children so END_CONTAINER still pairs up.
		stack []*node
	)
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Warnings = append(res.Warnings, msg)
		c.logger.Warn("instruction decode", "problem", msg)
	}

	for i, ins := range list {
		if ins.Command == CommandEndContainer {
			if len(stack) == 0 {
				warn("instruction %d: %s without an open container", i, CommandEndContainer)
				continue
			}
			stack = stack[:len(stack)-1]
			continue
		}

		def, ok := c.registry.ForCommand(ins.Command)
		if !ok {
			warn("instruction %d: no shape kind registered for %s", i, ins.Command)
			if ins.Command == shape.CommandBeginContainer {
				stack = append(stack, nil)
			}
			continue
		}

		n := &node{snap: decodeSnapshot(def, ins.Parameters)}
		if len(stack) > 0 {
			if top := stack[len(stack)-1]; top != nil {
				top.children = append(top.children, n)
			}
		} else {
			roots = append(roots, n)
		}
		if def.Container {
			stack = append(stack, n)
		}
	}
	if len(stack) > 0 {
		warn("%d container(s) not closed by %s", len(stack), CommandEndContainer)
	}

	for _, n := range roots {
		res.Roots = append(res.Roots, n.build())
	}
	return res
}

func (n *node) build() shape.Snapshot {
	s := n.snap
	for _, c := range n.children {
		s.Children = append(s.Children, c.build())
	}
	return s
}

func decodeSnapshot(def shape.Definition, wire map[string]any) shape.Snapshot {
	params := shape.Params(wire).Clone()
	if params == nil {
		params = shape.Params{}
	}
	for local, name := range def.FieldMap {
		if v, ok := params[name]; ok {
			delete(params, name)
			params[local] = v
		}
	}

	snap := shape.Snapshot{Kind: def.Kind}
	if id, ok := params[ParamShapeID].(string); ok {
		snap.ID = id
	}
	if v, ok := params.Float(ParamShapeVersion); ok {
		snap.Metadata.Version = int64(v)
	}
	if text, ok := params[ParamLabelText].(string); ok {
		snap.Metadata.LabelText = text
	}
	snap.Transform.X, _ = params.Float(ParamPositionX)
	snap.Transform.Y, _ = params.Float(ParamPositionY)
	snap.Transform.Width, _ = params.Float(ParamWidth)
	snap.Transform.Height, _ = params.Float(ParamHeight)
	snap.Transform.Rotation, _ = params.Float(ParamRotation)

	for _, k := range []string{
		ParamShapeID, ParamShapeVersion, ParamLabelText,
		ParamPositionX, ParamPositionY, ParamWidth, ParamHeight, ParamRotation,
	} {
		delete(params, k)
	}
	if len(params) > 0 {
		snap.Params = params
	}
	return snap
}
