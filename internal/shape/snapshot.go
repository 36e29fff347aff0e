package shape

import (
	"math"

	"github.com/planform/planform/backend-go/internal/geom"
)

// Snapshot is a detached copy of a shape subtree. Snapshots never alias live
// shape state.
type Snapshot struct {
	ID        string     `json:"id,omitempty"`
	Kind      Kind       `json:"kind"`
	Transform Transform  `json:"transform"`
	Params    Params     `json:"params,omitempty"`
	Metadata  Metadata   `json:"metadata"`
	Children  []Snapshot `json:"children,omitempty"`
}

// Snapshot captures s and its descendants.
func (s *Shape) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Kind:      s.kind,
		Transform: s.transform,
		Params:    s.params.Clone(),
		Metadata:  s.metadata,
	}
	for _, c := range s.children {
		snap.Children = append(snap.Children, c.Snapshot())
	}
	return snap
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Params = s.Params.Clone()
	out.Children = nil
	for _, c := range s.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// WithoutIDs returns a copy with every id cleared, so that adding it mints
// fresh shapes.
func (s Snapshot) WithoutIDs() Snapshot {
	out := s.Clone()
	clearIDs(&out)
	return out
}

func clearIDs(s *Snapshot) {
	s.ID = ""
	for i := range s.Children {
		clearIDs(&s.Children[i])
	}
}

// ContainerFromSnapshots wraps top-level snapshots in a new container. The
// container is the bounding box of every member's boundary points, has no
// rotation, and members are re-expressed relative to its centre.
func ContainerFromSnapshots(kind Kind, members []Snapshot) Snapshot {
	var box geom.Rect
	for _, m := range members {
		box = box.Union(geom.BoundsOf(BoundaryOf(m.Transform).All()...))
	}
	c := box.Center()

	out := Snapshot{
		Kind: kind,
		Transform: Transform{
			X:      c.X,
			Y:      c.Y,
			Width:  math.Max(box.Width, MinSize),
			Height: math.Max(box.Height, MinSize),
		},
		Metadata: Metadata{Version: 1},
	}
	for _, m := range members {
		child := m.Clone()
		child.Transform.X -= c.X
		child.Transform.Y -= c.Y
		out.Children = append(out.Children, child)
	}
	return out
}
