// Package floor models a floor plan as corners joined by walls. Corners and
// walls live in arenas keyed by stable integer ids; adjacency is symmetric.
package floor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/shape"
)

var (
	ErrCornerNotFound = errors.New("corner not found")
	ErrCornerExists   = errors.New("corner already exists")
	ErrCornerInUse    = errors.New("corner still has walls")
	ErrWallNotFound   = errors.New("wall not found")
	ErrWallExists     = errors.New("wall already exists")
	ErrSelfWall       = errors.New("wall must join two different corners")
	ErrCornerBound    = errors.New("corner follows a shape")
)

type CornerID int
type WallID int

// Corner is a wall junction. ShapeID links it to the shape that represents
// it on the canvas, if any.
type Corner struct {
	ID       CornerID   `json:"id"`
	Position geom.Point `json:"position"`
	ShapeID  string     `json:"shapeId,omitempty"`
}

// Wall joins corners A and B. Start and End are its drawn endpoints.
type Wall struct {
	ID    WallID     `json:"id"`
	A     CornerID   `json:"a"`
	B     CornerID   `json:"b"`
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

// Graph is confined to the editor goroutine.
type Graph struct {
	corners map[CornerID]*Corner
	walls   map[WallID]*Wall
	adj     map[CornerID]map[CornerID]WallID
	byShape map[string]CornerID

	nextCorner CornerID
	nextWall   WallID
}

func NewGraph() *Graph {
	return &Graph{
		corners: make(map[CornerID]*Corner),
		walls:   make(map[WallID]*Wall),
		adj:     make(map[CornerID]map[CornerID]WallID),
		byShape: make(map[string]CornerID),
	}
}

// NewCornerID reserves a corner id.
func (g *Graph) NewCornerID() CornerID {
	g.nextCorner++
	return g.nextCorner
}

// NewWallID reserves a wall id.
func (g *Graph) NewWallID() WallID {
	g.nextWall++
	return g.nextWall
}

// InsertCorner adds c under its id.
func (g *Graph) InsertCorner(c Corner) error {
	if _, ok := g.corners[c.ID]; ok {
		return fmt.Errorf("%w: %d", ErrCornerExists, c.ID)
	}
	g.corners[c.ID] = &c
	g.adj[c.ID] = make(map[CornerID]WallID)
	if c.ShapeID != "" {
		g.byShape[c.ShapeID] = c.ID
	}
	g.nextCorner = max(g.nextCorner, c.ID)
	return nil
}

// DeleteCorner removes a corner that has no walls.
func (g *Graph) DeleteCorner(id CornerID) (Corner, error) {
	c, ok := g.corners[id]
	if !ok {
		return Corner{}, fmt.Errorf("%w: %d", ErrCornerNotFound, id)
	}
	if len(g.adj[id]) > 0 {
		return Corner{}, fmt.Errorf("%w: %d", ErrCornerInUse, id)
	}
	delete(g.corners, id)
	delete(g.adj, id)
	if c.ShapeID != "" {
		delete(g.byShape, c.ShapeID)
	}
	return *c, nil
}

// InsertWall adds w, linking both corners to each other.
func (g *Graph) InsertWall(w Wall) error {
	if w.A == w.B {
		return ErrSelfWall
	}
	for _, id := range []CornerID{w.A, w.B} {
		if _, ok := g.corners[id]; !ok {
			return fmt.Errorf("%w: %d", ErrCornerNotFound, id)
		}
	}
	if _, ok := g.walls[w.ID]; ok {
		return fmt.Errorf("%w: id %d", ErrWallExists, w.ID)
	}
	if existing, ok := g.adj[w.A][w.B]; ok {
		return fmt.Errorf("%w: %d joins %d and %d", ErrWallExists, existing, w.A, w.B)
	}
	g.walls[w.ID] = &w
	g.adj[w.A][w.B] = w.ID
	g.adj[w.B][w.A] = w.ID
	g.nextWall = max(g.nextWall, w.ID)
	return nil
}

// DeleteWall removes a wall and both adjacency entries.
func (g *Graph) DeleteWall(id WallID) (Wall, error) {
	w, ok := g.walls[id]
	if !ok {
		return Wall{}, fmt.Errorf("%w: %d", ErrWallNotFound, id)
	}
	delete(g.walls, id)
	delete(g.adj[w.A], w.B)
	delete(g.adj[w.B], w.A)
	return *w, nil
}

func (g *Graph) Corner(id CornerID) (Corner, bool) {
	c, ok := g.corners[id]
	if !ok {
		return Corner{}, false
	}
	return *c, true
}

func (g *Graph) Wall(id WallID) (Wall, bool) {
	w, ok := g.walls[id]
	if !ok {
		return Wall{}, false
	}
	return *w, true
}

// CornerForShape finds the corner represented by shapeID.
func (g *Graph) CornerForShape(shapeID string) (CornerID, bool) {
	id, ok := g.byShape[shapeID]
	return id, ok
}

// WallBetween returns the wall joining a and b.
func (g *Graph) WallBetween(a, b CornerID) (WallID, bool) {
	id, ok := g.adj[a][b]
	return id, ok
}

// WallsAt lists the walls incident to id in ascending order.
func (g *Graph) WallsAt(id CornerID) []WallID {
	out := make([]WallID, 0, len(g.adj[id]))
	for _, w := range g.adj[id] {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// Neighbors lists corners sharing a wall with id in ascending order.
func (g *Graph) Neighbors(id CornerID) []CornerID {
	out := make([]CornerID, 0, len(g.adj[id]))
	for c := range g.adj[id] {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (g *Graph) SetCornerPosition(id CornerID, p geom.Point) error {
	c, ok := g.corners[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrCornerNotFound, id)
	}
	c.Position = p
	return nil
}

func (g *Graph) SetWallEnds(id WallID, start, end geom.Point) error {
	w, ok := g.walls[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWallNotFound, id)
	}
	w.Start, w.End = start, end
	return nil
}

// wallEndsWith returns w's endpoints with corner c placed at p.
func (g *Graph) wallEndsWith(w Wall, c CornerID, p geom.Point) (geom.Point, geom.Point) {
	start, end := w.Start, w.End
	if w.A == c {
		start = p
	} else if other, ok := g.corners[w.A]; ok {
		start = other.Position
	}
	if w.B == c {
		end = p
	} else if other, ok := g.corners[w.B]; ok {
		end = other.Position
	}
	return start, end
}

// PlaceCorner moves corner id to p and drags its walls along.
func (g *Graph) PlaceCorner(id CornerID, p geom.Point) error {
	if err := g.SetCornerPosition(id, p); err != nil {
		return err
	}
	for _, wid := range g.WallsAt(id) {
		w := g.walls[wid]
		start, end := g.wallEndsWith(*w, id, p)
		w.Start, w.End = start, end
	}
	return nil
}

// Attach keeps corners bound to a shape, or to any shape nested in it, in
// step with that shape while it is moved, resized or rotated.
func (g *Graph) Attach(bus *events.Bus, shapes interface {
	Get(id string) (*shape.Shape, bool)
}) func() {
	follow := func(ev events.Event) {
		s, ok := shapes.Get(ev.ShapeID)
		if !ok {
			return
		}
		s.Walk(func(n *shape.Shape) {
			if id, ok := g.byShape[n.ID()]; ok {
				_ = g.PlaceCorner(id, n.Center())
			}
		})
	}
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

// Corners lists every corner by ascending id.
func (g *Graph) Corners() []Corner {
	out := make([]Corner, 0, len(g.corners))
	for _, c := range g.corners {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b Corner) int { return int(a.ID - b.ID) })
	return out
}

// Walls lists every wall by ascending id.
func (g *Graph) Walls() []Wall {
	out := make([]Wall, 0, len(g.walls))
	for _, w := range g.walls {
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b Wall) int { return int(a.ID - b.ID) })
	return out
}

// Clear empties the graph. Reserved ids are not reused.
func (g *Graph) Clear() {
	g.corners = make(map[CornerID]*Corner)
	g.walls = make(map[WallID]*Wall)
	g.adj = make(map[CornerID]map[CornerID]WallID)
	g.byShape = make(map[string]CornerID)
}
