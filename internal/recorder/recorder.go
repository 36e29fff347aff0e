// Package recorder watches interaction start and end events and pushes a
// command for every interaction that changed something.
package recorder

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/planform/planform/backend-go/internal/command"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/label"
	"github.com/planform/planform/backend-go/internal/shape"
)

// Pusher receives finished commands.
type Pusher interface {
	Push(cmd command.Command) error
}

// Options wire the optional side effects folded into recorded commands.
type Options struct {
	Labels *label.Labeler
	Floor  *floor.Graph
	Logger *slog.Logger
}

// start holds what an interaction may change: the shape's transform and
// the label and corner positions of the shape and its descendants.
type start struct {
	transform shape.Transform
	labels    map[string]geom.Point
	corners   map[floor.CornerID]geom.Point
}

// Recorder is confined to the editor goroutine.
type Recorder struct {
	shapes  command.Shapes
	history Pusher
	opts    Options
	starts  map[string]start
}

func New(shapes command.Shapes, history Pusher, opts Options) *Recorder {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Recorder{
		shapes:  shapes,
		history: history,
		opts:    opts,
		starts:  make(map[string]start),
	}
}

// Attach subscribes to bus. The returned func unsubscribes.
func (r *Recorder) Attach(bus *events.Bus) func() {
	offs := []func(){
		bus.Subscribe(events.ShapeMoveStart, r.begin),
		bus.Subscribe(events.ShapeResizeStart, r.begin),
		bus.Subscribe(events.ShapeRotateStart, r.begin),
		bus.Subscribe(events.ShapeMoveEnd, r.endMove),
		bus.Subscribe(events.ShapeResizeEnd, r.endResize),
		bus.Subscribe(events.ShapeRotateEnd, r.endRotate),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

func (r *Recorder) begin(ev events.Event) {
	s, ok := r.shapes.Get(ev.ShapeID)
	if !ok {
		return
	}
	st := start{transform: s.Transform()}
	if r.opts.Labels != nil {
		st.labels = r.opts.Labels.Positions(ev.ShapeID)
	}
	if r.opts.Floor != nil {
		s.Walk(func(n *shape.Shape) {
			id, ok := r.opts.Floor.CornerForShape(n.ID())
			if !ok {
				return
			}
			if st.corners == nil {
				st.corners = make(map[floor.CornerID]geom.Point)
			}
			c, _ := r.opts.Floor.Corner(id)
			st.corners[id] = c.Position
		})
	}
	r.starts[ev.ShapeID] = st
}

func (r *Recorder) finish(ev events.Event) (start, *shape.Shape, bool) {
	st, ok := r.starts[ev.ShapeID]
	delete(r.starts, ev.ShapeID)
	if !ok {
		r.opts.Logger.Warn("interaction ended without a start", "event", ev.Name, "shape", ev.ShapeID)
		return start{}, nil, false
	}
	s, ok := r.shapes.Get(ev.ShapeID)
	if !ok {
		return start{}, nil, false
	}
	return st, s, true
}

func (r *Recorder) endMove(ev events.Event) {
	st, s, ok := r.finish(ev)
	if !ok {
		return
	}
	from, to := st.transform.Position(), s.Transform().Position()
	if from == to {
		return
	}
	r.push(r.withSideEffects(command.NewMoveShape(r.shapes, s.ID(), from, to), st))
}

func (r *Recorder) endResize(ev events.Event) {
	st, s, ok := r.finish(ev)
	if !ok {
		return
	}
	before, after := st.transform, s.Transform()
	if before.X == after.X && before.Y == after.Y && before.Width == after.Width && before.Height == after.Height {
		return
	}
	r.push(r.withSideEffects(command.NewResizeShape(r.shapes, s.ID(), before, after), st))
}

func (r *Recorder) endRotate(ev events.Event) {
	st, s, ok := r.finish(ev)
	if !ok {
		return
	}
	from, to := st.transform.Rotation, s.Transform().Rotation
	if from == to {
		return
	}
	r.push(r.withSideEffects(command.NewRotateShape(r.shapes, s.ID(), from, to), st))
}

// withSideEffects wraps cmd with one step per label and corner that moved
// since the interaction started.
func (r *Recorder) withSideEffects(cmd command.Command, st start) *command.Composite {
	comp := command.NewComposite(cmd)
	for _, id := range slices.Sorted(maps.Keys(st.labels)) {
		from := st.labels[id]
		if lbl, ok := r.opts.Labels.Get(id); ok && lbl.Position != from {
			comp.Add(label.NewMoveLabel(r.opts.Labels, id, from, lbl.Position))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(st.corners)) {
		from := st.corners[id]
		c, ok := r.opts.Floor.Corner(id)
		if !ok || c.Position == from {
			continue
		}
		if step, err := floor.CornerMove(r.opts.Floor, id, from, c.Position); err == nil {
			comp.Add(step)
		}
	}
	return comp
}

// push unwraps single-step composites.
func (r *Recorder) push(cmd command.Command) {
	if comp, ok := cmd.(*command.Composite); ok && comp.Len() == 1 {
		cmd = comp.Commands()[0]
	}
	if err := r.history.Push(cmd); err != nil {
		r.opts.Logger.Error("record command", "error", err)
	}
}
