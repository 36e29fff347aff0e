package floor

import (
	"fmt"

	"github.com/planform/planform/backend-go/internal/geom"
)

// Plan is the stored form of a graph. Wall endpoints are not stored; they
// are rebuilt from the corners.
type Plan struct {
	Corners []PlanCorner `json:"corners"`
	Walls   []PlanWall   `json:"walls"`
}

type PlanCorner struct {
	ID        CornerID `json:"id"`
	PositionX float64  `json:"positionX"`
	PositionY float64  `json:"positionY"`
	ShapeID   string   `json:"shapeId,omitempty"`
}

type PlanWall struct {
	ID            WallID   `json:"id,omitempty"`
	StartCornerID CornerID `json:"startCornerId"`
	EndCornerID   CornerID `json:"endCornerId"`
}

func (p Plan) IsEmpty() bool { return len(p.Corners) == 0 && len(p.Walls) == 0 }

// Plan captures the graph.
func (g *Graph) Plan() Plan {
	p := Plan{Corners: []PlanCorner{}, Walls: []PlanWall{}}
	for _, c := range g.Corners() {
		p.Corners = append(p.Corners, PlanCorner{
			ID:        c.ID,
			PositionX: c.Position.X,
			PositionY: c.Position.Y,
			ShapeID:   c.ShapeID,
		})
	}
	for _, w := range g.Walls() {
		p.Walls = append(p.Walls, PlanWall{ID: w.ID, StartCornerID: w.A, EndCornerID: w.B})
	}
	return p
}

// LoadPlan replaces the graph with p. Walls without an id get a fresh one.
// On error the graph is left unchanged.
func (g *Graph) LoadPlan(p Plan) error {
	next := NewGraph()
	next.nextCorner, next.nextWall = g.nextCorner, g.nextWall
	for _, pc := range p.Corners {
		c := Corner{ID: pc.ID, Position: geom.Pt(pc.PositionX, pc.PositionY), ShapeID: pc.ShapeID}
		if err := next.InsertCorner(c); err != nil {
			return fmt.Errorf("load corner: %w", err)
		}
	}
	for _, pw := range p.Walls {
		id := pw.ID
		if id == 0 {
			id = next.NewWallID()
		}
		a, _ := next.Corner(pw.StartCornerID)
		b, _ := next.Corner(pw.EndCornerID)
		w := Wall{ID: id, A: pw.StartCornerID, B: pw.EndCornerID, Start: a.Position, End: b.Position}
		if err := next.InsertWall(w); err != nil {
			return fmt.Errorf("load wall: %w", err)
		}
	}
	*g = *next
	return nil
}
