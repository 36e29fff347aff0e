package floor

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/command"
	"github.com/planform/planform/backend-go/internal/geom"
)

// CreateCorner inserts a corner; Undo deletes it.
type CreateCorner struct {
	graph  *Graph
	corner Corner
}

func NewCreateCorner(g *Graph, c Corner) *CreateCorner {
	return &CreateCorner{graph: g, corner: c}
}

func (c *CreateCorner) Execute() error { return c.graph.InsertCorner(c.corner) }

func (c *CreateCorner) Undo() error {
	_, err := c.graph.DeleteCorner(c.corner.ID)
	return err
}

// RemoveCorner deletes a wall-free corner; Undo re-inserts it.
type RemoveCorner struct {
	graph *Graph
	id    CornerID
	saved *Corner
}

func NewRemoveCorner(g *Graph, id CornerID) *RemoveCorner {
	return &RemoveCorner{graph: g, id: id}
}

func (c *RemoveCorner) Execute() error {
	saved, err := c.graph.DeleteCorner(c.id)
	if err != nil {
		return err
	}
	c.saved = &saved
	return nil
}

func (c *RemoveCorner) Undo() error {
	if c.saved == nil {
		return fmt.Errorf("%w: %d was never removed", ErrCornerNotFound, c.id)
	}
	return c.graph.InsertCorner(*c.saved)
}

// CreateWall inserts a wall; Undo deletes it.
type CreateWall struct {
	graph *Graph
	wall  Wall
}

func NewCreateWall(g *Graph, w Wall) *CreateWall {
	return &CreateWall{graph: g, wall: w}
}

func (c *CreateWall) Execute() error { return c.graph.InsertWall(c.wall) }

func (c *CreateWall) Wall() Wall { return c.wall }

func (c *CreateWall) Undo() error {
	_, err := c.graph.DeleteWall(c.wall.ID)
	return err
}

// RemoveWall deletes a wall; Undo re-inserts it with the same id.
type RemoveWall struct {
	graph *Graph
	id    WallID
	saved *Wall
}

func NewRemoveWall(g *Graph, id WallID) *RemoveWall {
	return &RemoveWall{graph: g, id: id}
}

func (c *RemoveWall) Execute() error {
	saved, err := c.graph.DeleteWall(c.id)
	if err != nil {
		return err
	}
	c.saved = &saved
	return nil
}

func (c *RemoveWall) Undo() error {
	if c.saved == nil {
		return fmt.Errorf("%w: %d was never removed", ErrWallNotFound, c.id)
	}
	return c.graph.InsertWall(*c.saved)
}

// MoveCorner sets a corner's position.
type MoveCorner struct {
	graph    *Graph
	id       CornerID
	from, to geom.Point
}

func NewMoveCorner(g *Graph, id CornerID, from, to geom.Point) *MoveCorner {
	return &MoveCorner{graph: g, id: id, from: from, to: to}
}

func (c *MoveCorner) Execute() error { return c.graph.SetCornerPosition(c.id, c.to) }
func (c *MoveCorner) Undo() error    { return c.graph.SetCornerPosition(c.id, c.from) }

type wallEnds struct{ start, end geom.Point }

// MoveWall sets a wall's drawn endpoints.
type MoveWall struct {
	graph    *Graph
	id       WallID
	from, to wallEnds
}

func NewMoveWall(g *Graph, id WallID, fromStart, fromEnd, toStart, toEnd geom.Point) *MoveWall {
	return &MoveWall{
		graph: g,
		id:    id,
		from:  wallEnds{fromStart, fromEnd},
		to:    wallEnds{toStart, toEnd},
	}
}

func (c *MoveWall) Execute() error { return c.graph.SetWallEnds(c.id, c.to.start, c.to.end) }
func (c *MoveWall) Undo() error    { return c.graph.SetWallEnds(c.id, c.from.start, c.from.end) }

// CornerMove records moving corner id from one position to another. The
// composite holds the corner step and one MoveWall per incident wall.
func CornerMove(g *Graph, id CornerID, from, to geom.Point) (*command.Composite, error) {
	if _, ok := g.Corner(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrCornerNotFound, id)
	}
	comp := command.NewComposite(NewMoveCorner(g, id, from, to))
	for _, wid := range g.WallsAt(id) {
		w, _ := g.Wall(wid)
		fs, fe := g.wallEndsWith(w, id, from)
		ts, te := g.wallEndsWith(w, id, to)
		comp.Add(NewMoveWall(g, wid, fs, fe, ts, te))
	}
	return comp, nil
}

// CornerRemoval removes every wall at id, then the corner itself.
func CornerRemoval(g *Graph, id CornerID) (*command.Composite, error) {
	if _, ok := g.Corner(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrCornerNotFound, id)
	}
	comp := command.NewComposite()
	for _, wid := range g.WallsAt(id) {
		comp.Add(NewRemoveWall(g, wid))
	}
	comp.Add(NewRemoveCorner(g, id))
	return comp, nil
}

// WallBetweenCorners builds a CreateWall joining a and b with a fresh id.
func WallBetweenCorners(g *Graph, a, b CornerID) (*CreateWall, error) {
	ca, ok := g.Corner(a)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCornerNotFound, a)
	}
	cb, ok := g.Corner(b)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCornerNotFound, b)
	}
	return NewCreateWall(g, Wall{ID: g.NewWallID(), A: a, B: b, Start: ca.Position, End: cb.Position}), nil
}
