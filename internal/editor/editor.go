// Package editor assembles the shape tree, interactions, history, labels,
// floor plan and codec into one editing session.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/command"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/history"
	"github.com/planform/planform/backend-go/internal/interaction"
	"github.com/planform/planform/backend-go/internal/label"
	"github.com/planform/planform/backend-go/internal/move"
	"github.com/planform/planform/backend-go/internal/recorder"
	"github.com/planform/planform/backend-go/internal/resize"
	"github.com/planform/planform/backend-go/internal/rotate"
	"github.com/planform/planform/backend-go/internal/shape"
	"github.com/planform/planform/backend-go/internal/typeid"
)

var (
	ErrBusy        = errors.New("another interaction is in progress")
	ErrNoSelection = errors.New("no shape selected")
	ErrNotTopLevel = errors.New("only top-level shapes can be grouped")
	ErrEmptyGroup  = errors.New("group needs at least one shape")
)

// Options configure an Editor.
type Options struct {
	UndoLimit  int
	HandleSize float64
	// Viewport enables the move bounds check.
	Viewport *geom.Rect
	// MoveWorker makes the bounds check asynchronous.
	MoveWorker *move.Worker
	Logger     *slog.Logger
}

// Editor is a single-threaded editing session. Every method must be called
// from the goroutine that owns the editor.
type Editor struct {
	init   InitContext
	logger *slog.Logger

	bus      *events.Bus
	registry *shape.Registry
	shapes   *shape.Manager
	history  *history.Manager
	labels   *label.Labeler
	floor    *floor.Graph
	codec    *codec.Codec

	lock   *interaction.Lock
	move   *move.Manager
	resize *resize.Manager
	rotate *rotate.Manager
	tools  interaction.Group

	selected *shape.Shape
}

// New builds and initialises an editor with the built-in kinds.
func New(opts Options) (*Editor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus := events.NewBus()
	registry := shape.NewRegistry()
	shapes := shape.NewManager(registry, bus)
	lock := &interaction.Lock{}

	e := &Editor{
		logger:   logger,
		bus:      bus,
		registry: registry,
		shapes:   shapes,
		history:  history.New(opts.UndoLimit, bus, logger),
		labels:   label.NewLabeler(shapes),
		floor:    floor.NewGraph(),
		codec:    codec.New(registry, logger),
		lock:     lock,
		move:     move.NewManager(bus, lock, move.Options{Viewport: opts.Viewport, Worker: opts.MoveWorker}),
		resize:   resize.NewManager(bus, lock, opts.HandleSize),
		rotate:   rotate.NewManager(bus, lock),
	}
	e.tools = interaction.Group{e.move, e.resize, e.rotate}

	if err := e.Init(); err != nil {
		return nil, err
	}
	return e, nil
}

// Init registers the built-in kinds and wires the event subscribers. It
// runs once; later calls do nothing.
func (e *Editor) Init() error {
	return e.init.Run(func() error {
		if err := shape.RegisterBuiltins(e.registry); err != nil {
			return fmt.Errorf("register kinds: %w", err)
		}
		e.labels.Attach(e.bus)
		e.floor.Attach(e.bus, e.shapes)
		recorder.New(e.shapes, e.history, recorder.Options{
			Labels: e.labels,
			Floor:  e.floor,
			Logger: e.logger,
		}).Attach(e.bus)

		refresh := func(ev events.Event) {
			if s, ok := e.shapes.Get(ev.ShapeID); ok {
				e.tools.Update(s, nil)
			}
		}
		e.bus.Subscribe(events.ShapeMoved, refresh)
		e.bus.Subscribe(events.ShapeResized, refresh)
		e.bus.Subscribe(events.ShapeRotated, refresh)
		e.bus.Subscribe(events.ShapeRemoved, func(ev events.Event) {
			if e.selected != nil && e.selected.ID() == ev.ShapeID {
				e.Deselect()
			}
		})
		return nil
	})
}

func (e *Editor) Bus() *events.Bus          { return e.bus }
func (e *Editor) Registry() *shape.Registry { return e.registry }
func (e *Editor) Shapes() *shape.Manager    { return e.shapes }
func (e *Editor) History() *history.Manager { return e.history }
func (e *Editor) Labels() *label.Labeler    { return e.labels }
func (e *Editor) Floor() *floor.Graph       { return e.floor }
func (e *Editor) Codec() *codec.Codec       { return e.codec }
func (e *Editor) Move() *move.Manager       { return e.move }
func (e *Editor) Resize() *resize.Manager   { return e.resize }
func (e *Editor) Rotate() *rotate.Manager   { return e.rotate }
func (e *Editor) Selected() *shape.Shape    { return e.selected }
func (e *Editor) ActionActive() bool        { return e.tools.ActionActive() }

// Select attaches the interaction handles to id.
func (e *Editor) Select(id string) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	s, ok := e.shapes.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", shape.ErrShapeNotFound, id)
	}
	e.selected = s
	e.tools.Create(s)
	return nil
}

// Deselect hides every handle.
func (e *Editor) Deselect() {
	e.selected = nil
	e.tools.Hide()
}

// AddShape creates a top-level shape through history.
func (e *Editor) AddShape(kind shape.Kind, t shape.Transform, params shape.Params) (*shape.Shape, error) {
	return e.AddSnapshot(shape.Snapshot{Kind: kind, Transform: t, Params: params})
}

// AddSnapshot adds a shape tree through history. Missing ids are minted
// first so redo recreates the same shapes.
func (e *Editor) AddSnapshot(snap shape.Snapshot) (*shape.Shape, error) {
	snap = snap.Clone()
	assignIDs(&snap)
	cmd := command.NewAddShape(e.shapes, snap, shape.Location{Index: -1})
	if err := e.Execute(cmd); err != nil {
		return nil, err
	}
	s, _ := e.shapes.Get(snap.ID)
	return s, nil
}

func assignIDs(s *shape.Snapshot) {
	if s.ID == "" {
		s.ID = typeid.NewShapeID()
	}
	for i := range s.Children {
		assignIDs(&s.Children[i])
	}
}

// RemoveShape removes id together with its labels and floor-plan corner as
// one undoable step.
func (e *Editor) RemoveShape(id string) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	s, ok := e.shapes.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", shape.ErrShapeNotFound, id)
	}
	return e.Execute(e.removal(s))
}

func (e *Editor) removal(s *shape.Shape) *command.Composite {
	comp := command.NewComposite()
	var walk func(*shape.Shape)
	walk = func(n *shape.Shape) {
		if e.labels.Has(n.ID()) {
			comp.Add(label.NewRemoveLabel(e.labels, n.ID()))
		}
		if cid, ok := e.floor.CornerForShape(n.ID()); ok {
			if step, err := floor.CornerRemoval(e.floor, cid); err == nil {
				comp.Add(step)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(s)
	comp.Add(command.NewRemoveShape(e.shapes, s.ID()))
	return comp
}

// SetLabel adds or edits the label of shapeID through history.
func (e *Editor) SetLabel(shapeID, text string) error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	if lbl, ok := e.labels.Get(shapeID); ok {
		if lbl.Text == text {
			return nil
		}
		return e.Execute(label.NewEditLabel(e.labels, shapeID, lbl.Text, text))
	}
	lbl, err := e.labels.New(shapeID, text)
	if err != nil {
		return err
	}
	return e.Execute(label.NewAddLabel(e.labels, lbl))
}

// Group replaces top-level shapes with one container holding them.
func (e *Editor) Group(ids []string) (*shape.Shape, error) {
	if e.tools.ActionActive() {
		return nil, ErrBusy
	}
	if len(ids) == 0 {
		return nil, ErrEmptyGroup
	}
	var members []shape.Snapshot
	comp := command.NewComposite()
	for _, id := range ids {
		s, ok := e.shapes.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, id)
		}
		if s.Parent() != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotTopLevel, id)
		}
		members = append(members, s.Snapshot())
		comp.Add(command.NewRemoveShape(e.shapes, id))
	}
	group := shape.ContainerFromSnapshots(shape.KindContainer, members)
	assignIDs(&group)
	comp.Add(command.NewAddShape(e.shapes, group, shape.Location{Index: -1}))

	if err := e.Execute(comp); err != nil {
		return nil, err
	}
	s, _ := e.shapes.Get(group.ID)
	return s, nil
}

// Execute applies cmd and records it.
func (e *Editor) Execute(cmd command.Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	return e.history.Push(cmd)
}

// PushCommand records a command the caller already applied.
func (e *Editor) PushCommand(cmd command.Command) error {
	return e.history.Push(cmd)
}

// Undo reverts the latest command.
func (e *Editor) Undo() error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	err := e.history.Undo()
	e.refreshSelection()
	return err
}

// Redo re-applies the latest undone command.
func (e *Editor) Redo() error {
	if e.tools.ActionActive() {
		return ErrBusy
	}
	err := e.history.Redo()
	e.refreshSelection()
	return err
}

func (e *Editor) refreshSelection() {
	if e.selected == nil {
		return
	}
	if s, ok := e.shapes.Get(e.selected.ID()); ok && s == e.selected {
		e.tools.Update(s, nil)
		return
	}
	e.Deselect()
}

// Encode encodes the subtree rooted at id.
func (e *Editor) Encode(id string) ([]codec.Instruction, error) {
	s, ok := e.shapes.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, id)
	}
	return e.codec.Encode(s.Snapshot())
}

// EncodeAll encodes the whole document.
func (e *Editor) EncodeAll() ([]codec.Instruction, error) {
	return e.codec.EncodeAll(e.shapes.Snapshots())
}

// Decode rebuilds snapshots without touching the document.
func (e *Editor) Decode(list []codec.Instruction) codec.Result {
	return e.codec.Decode(list)
}

// Load replaces the document with list and clears history. Roots that fail
// to build are skipped and reported as warnings.
func (e *Editor) Load(list []codec.Instruction) (codec.Result, error) {
	if e.tools.ActionActive() {
		return codec.Result{}, ErrBusy
	}
	res := e.codec.Decode(list)
	e.Reset()
	for _, root := range res.Roots {
		s, err := e.shapes.AddShapeFromSnapshot(root)
		if err != nil {
			msg := fmt.Sprintf("shape %s: %v", root.ID, err)
			res.Warnings = append(res.Warnings, msg)
			e.logger.Warn("load document", "problem", msg)
			continue
		}
		e.restoreLabels(s)
	}
	return res, nil
}

func (e *Editor) restoreLabels(s *shape.Shape) {
	if text := s.Metadata().LabelText; text != "" {
		if lbl, err := e.labels.New(s.ID(), text); err == nil {
			_ = e.labels.Add(lbl)
		}
	}
	for _, c := range s.Children() {
		e.restoreLabels(c)
	}
}

// Reset empties the document and its history.
func (e *Editor) Reset() {
	e.Deselect()
	e.shapes.Clear()
	e.labels.Clear()
	e.floor.Clear()
	e.history.Clear()
}
