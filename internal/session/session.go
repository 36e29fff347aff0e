// Package session runs one editor per websocket connection. A single
// goroutine owns the editor; the read pump and the move worker feed it
// through channels.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/planform/planform/backend-go/internal/editor"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/move"
	"github.com/planform/planform/backend-go/internal/resize"
	"github.com/planform/planform/backend-go/internal/shape"
	"github.com/planform/planform/backend-go/internal/store"
	"github.com/planform/planform/backend-go/internal/typeid"
)

var ErrUnknownType = errors.New("unknown message type")

type Options struct {
	DocumentID  string
	UserID      string
	DisplayName string
	Store       store.Store
	UndoLimit   int
	HandleSize  float64
	Viewport    *geom.Rect
	// AsyncMoveCheck runs the move bounds check on a worker goroutine.
	AsyncMoveCheck bool
	Logger         *slog.Logger
}

type Session struct {
	ID     string
	opts   Options
	editor *editor.Editor
	worker *move.Worker
	logger *slog.Logger

	in   chan Message
	send chan []byte
}

// New loads the document and builds the session's editor.
func New(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := typeid.NewSessionID()
	logger = logger.With("session", id, "doc", opts.DocumentID, "user", opts.UserID, "name", opts.DisplayName)

	doc, err := opts.Store.Get(ctx, opts.DocumentID)
	if err != nil {
		return nil, err
	}

	var worker *move.Worker
	if opts.AsyncMoveCheck && opts.Viewport != nil {
		worker = move.NewWorker(logger)
	}
	ed, err := editor.New(editor.Options{
		UndoLimit:  opts.UndoLimit,
		HandleSize: opts.HandleSize,
		Viewport:   opts.Viewport,
		MoveWorker: worker,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	res, err := ed.Load(doc.Instructions)
	if err != nil {
		return nil, err
	}
	floorWarnings, err := ed.LoadFloorPlan(doc.Floor)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:     id,
		opts:   opts,
		editor: ed,
		worker: worker,
		logger: logger,
		in:     make(chan Message, 64),
		send:   make(chan []byte, 256),
	}
	ed.Bus().SubscribeAll(func(ev events.Event) {
		s.reply(TypeEvent, 0, ev)
	})

	list, err := ed.EncodeAll()
	if err != nil {
		return nil, err
	}
	s.reply(TypeWelcome, 0, WelcomePayload{
		SessionID:    id,
		DocumentID:   doc.ID,
		Version:      doc.Version,
		Instructions: list,
		Floor:        ed.FloorPlan(),
		Warnings:     append(res.Warnings, floorWarnings...),
	})
	return s, nil
}

func (s *Session) Editor() *editor.Editor { return s.editor }

// Run owns the editor until ctx is done or the inbound channel closes.
func (s *Session) Run(ctx context.Context) {
	var results <-chan move.CheckResult
	if s.worker != nil {
		go s.worker.Run(ctx)
		results = s.worker.Results()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.in:
			if !ok {
				return
			}
			s.Handle(ctx, msg)
		case res := <-results:
			s.editor.Move().Apply(res)
		}
	}
}

// Handle dispatches one request. Errors are reported to the client, never
// returned.
func (s *Session) Handle(ctx context.Context, msg Message) {
	ack, err := s.dispatch(ctx, msg)
	if err != nil {
		s.logger.Debug("request failed", "type", msg.Type, "error", err)
		s.reply(TypeError, msg.Seq, ErrorPayload{Message: err.Error()})
		return
	}
	if ack != nil {
		s.reply(TypeAck, msg.Seq, ack)
	}
}

func (s *Session) dispatch(ctx context.Context, msg Message) (*AckPayload, error) {
	ed := s.editor
	switch msg.Type {
	case TypeShapeAdd:
		var p ShapeAddPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		sh, err := ed.AddShape(p.Kind, p.Transform, p.Params)
		if err != nil {
			return nil, err
		}
		return &AckPayload{Applied: true, ShapeID: sh.ID()}, nil

	case TypeShapeRemove:
		var p ShapeRefPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return applied(ed.RemoveShape(p.ShapeID))

	case TypeShapeGroup:
		var p GroupPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		g, err := ed.Group(p.ShapeIDs)
		if err != nil {
			return nil, err
		}
		return &AckPayload{Applied: true, ShapeID: g.ID()}, nil

	case TypeSelect:
		var p ShapeRefPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if p.ShapeID == "" {
			ed.Deselect()
			return &AckPayload{Applied: true}, nil
		}
		return applied(ed.Select(p.ShapeID))

	case TypeLabelSet:
		var p LabelPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return applied(ed.SetLabel(p.ShapeID, p.Text))

	case TypeMoveStart:
		var p ShapeRefPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		target := ed.Selected()
		if p.ShapeID != "" {
			sh, ok := ed.Shapes().Get(p.ShapeID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", shape.ErrShapeNotFound, p.ShapeID)
			}
			target = sh
		}
		if target == nil {
			return nil, editor.ErrNoSelection
		}
		if !ed.Move().Begin(target) {
			return nil, editor.ErrBusy
		}
		return &AckPayload{Applied: true, ShapeID: target.ID()}, nil

	case TypeMoveDrag:
		var p PointPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		// Async checks apply later; the ack only reports the synchronous case.
		return &AckPayload{Applied: ed.Move().Drag(p.Point)}, nil

	case TypeMoveEnd:
		ed.Move().End()
		return &AckPayload{Applied: true}, nil

	case TypeResizeStart:
		var p ResizeStartPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if ed.Selected() == nil {
			return nil, editor.ErrNoSelection
		}
		rm := ed.Resize()
		var (
			h  resize.Handle
			ok bool
		)
		switch {
		case p.Handle != nil:
			h, ok = *p.Handle, true
		case p.Point != nil:
			h, ok = rm.HandleAt(*p.Point)
		}
		if !ok {
			return nil, errors.New("no resize handle")
		}
		if !rm.Begin(h) {
			return nil, editor.ErrBusy
		}
		return &AckPayload{Applied: true}, nil

	case TypeResizeDrag:
		var p PointPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return &AckPayload{Applied: ed.Resize().Drag(p.Point)}, nil

	case TypeResizeEnd:
		ed.Resize().End()
		return &AckPayload{Applied: true}, nil

	case TypeRotateStart:
		if ed.Selected() == nil {
			return nil, editor.ErrNoSelection
		}
		if !ed.Rotate().Begin() {
			return nil, editor.ErrBusy
		}
		return &AckPayload{Applied: true}, nil

	case TypeRotateDrag:
		var p PointPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return &AckPayload{Applied: ed.Rotate().Drag(p.Point)}, nil

	case TypeRotateEnd:
		ed.Rotate().End()
		return &AckPayload{Applied: true}, nil

	case TypeCornerAdd:
		var p CornerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		id, err := ed.AddCorner(p.Point, p.ShapeID)
		if err != nil {
			return nil, err
		}
		return &AckPayload{Applied: true, CornerID: id}, nil

	case TypeCornerRemove:
		var p CornerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return applied(ed.RemoveCorner(p.CornerID))

	case TypeCornerMove:
		var p CornerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return applied(ed.MoveCorner(p.CornerID, p.Point))

	case TypeWallAdd:
		var p WallPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		id, err := ed.AddWall(p.StartCornerID, p.EndCornerID)
		if err != nil {
			return nil, err
		}
		return &AckPayload{Applied: true, WallID: id}, nil

	case TypeWallRemove:
		var p WallPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return applied(ed.RemoveWall(p.WallID))

	case TypeUndo:
		return applied(ed.Undo())

	case TypeRedo:
		return applied(ed.Redo())

	case TypeDocLoad:
		var p DocPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		res, err := ed.Load(p.Instructions)
		if err != nil {
			return nil, err
		}
		floorWarnings, err := ed.LoadFloorPlan(p.Floor)
		if err != nil {
			return nil, err
		}
		return nil, s.sync(msg.Seq, append(res.Warnings, floorWarnings...))

	case TypeDocSave:
		list, err := ed.EncodeAll()
		if err != nil {
			return nil, err
		}
		doc, err := s.opts.Store.Save(ctx, s.opts.DocumentID, store.Content{Instructions: list, Floor: ed.FloorPlan()})
		if err != nil {
			return nil, err
		}
		s.reply(TypeDocSaved, msg.Seq, SavedPayload{Version: doc.Version})
		return nil, nil

	case TypeDocSync:
		return nil, s.sync(msg.Seq, nil)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

func (s *Session) sync(seq int64, warnings []string) error {
	list, err := s.editor.EncodeAll()
	if err != nil {
		return err
	}
	s.reply(TypeDocSync, seq, DocPayload{Instructions: list, Floor: s.editor.FloorPlan(), Warnings: warnings})
	return nil
}

func applied(err error) (*AckPayload, error) {
	if err != nil {
		return nil, err
	}
	return &AckPayload{Applied: true}, nil
}

func decode(msg Message, v any) error {
	if len(msg.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return nil
}

func (s *Session) reply(typ string, seq int64, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal payload", "type", typ, "error", err)
		return
	}
	data, err := json.Marshal(Message{Type: typ, Seq: seq, Payload: raw})
	if err != nil {
		s.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("session send buffer full, dropping message", "type", typ)
	}
}
