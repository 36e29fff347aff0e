package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/planform/planform/backend-go/internal/auth"
	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/events"
	"github.com/planform/planform/backend-go/internal/geom"
	"github.com/planform/planform/backend-go/internal/store"
)

func seed(t *testing.T) (*store.Memory, string) {
	t.Helper()
	st := store.NewMemory()
	doc, err := st.Create(context.Background(), "plan", store.Content{Instructions: []codec.Instruction{{
		Command: "CREATE_RECTANGLE",
		Parameters: map[string]any{
			"shapeId": "shape_seed", "positionX": 50.0, "positionY": 50.0, "width": 100.0, "height": 100.0,
		},
	}}})
	if err != nil {
		t.Fatal(err)
	}
	return st, doc.ID
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := New(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	expect(t, s.send, TypeWelcome)
	return s
}

// expect reads messages until one of type typ arrives.
func expect(t *testing.T, ch <-chan []byte, typ string) Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data := <-ch:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatal(err)
			}
			if msg.Type == typ {
				return msg
			}
		case <-timeout:
			t.Fatalf("no %s message", typ)
		}
	}
}

func request(typ string, seq int64, payload any) Message {
	raw, _ := json.Marshal(payload)
	return Message{Type: typ, Seq: seq, Payload: raw}
}

func ack(t *testing.T, s *Session, msg Message) AckPayload {
	t.Helper()
	s.Handle(context.Background(), msg)
	for {
		reply := expect(t, s.send, TypeAck)
		if reply.Seq != msg.Seq {
			continue
		}
		var p AckPayload
		if err := json.Unmarshal(reply.Payload, &p); err != nil {
			t.Fatal(err)
		}
		return p
	}
}

func TestWelcomeCarriesDocument(t *testing.T) {
	st, docID := seed(t)
	s, err := New(context.Background(), Options{DocumentID: docID, Store: st})
	if err != nil {
		t.Fatal(err)
	}
	msg := expect(t, s.send, TypeWelcome)
	var p WelcomePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.DocumentID != docID || p.Version != 1 || len(p.Instructions) != 1 {
		t.Fatalf("welcome = %+v", p)
	}
	if _, ok := s.Editor().Shapes().Get("shape_seed"); !ok {
		t.Fatal("seeded shape not loaded")
	}
}

func TestResizeUndoAndSave(t *testing.T) {
	st, docID := seed(t)
	s := newSession(t, Options{DocumentID: docID, Store: st})

	if !ack(t, s, request(TypeSelect, 1, ShapeRefPayload{ShapeID: "shape_seed"})).Applied {
		t.Fatal("select not applied")
	}
	s.Handle(context.Background(), Message{Type: TypeResizeStart, Seq: 2, Payload: json.RawMessage(`{"handle":"bottomRight"}`)})
	expect(t, s.send, TypeAck)
	if !ack(t, s, request(TypeResizeDrag, 3, PointPayload{Point: geom.Pt(120, 140)})).Applied {
		t.Fatal("drag rejected")
	}
	ack(t, s, request(TypeResizeEnd, 4, nil))

	sh, _ := s.Editor().Shapes().Get("shape_seed")
	if tr := sh.Transform(); tr.X != 60 || tr.Y != 70 || tr.Width != 120 || tr.Height != 140 {
		t.Fatalf("transform = %+v", tr)
	}
	if !s.Editor().History().CanUndo() {
		t.Fatal("resize not recorded")
	}

	s.Handle(context.Background(), request(TypeDocSave, 5, nil))
	saved := expect(t, s.send, TypeDocSaved)
	var sp SavedPayload
	json.Unmarshal(saved.Payload, &sp)
	if sp.Version != 2 {
		t.Fatalf("saved version = %d", sp.Version)
	}

	ack(t, s, request(TypeUndo, 6, nil))
	if tr := sh.Transform(); tr.Width != 100 || tr.Height != 100 {
		t.Fatalf("after undo = %+v", tr)
	}

	doc, _ := st.Get(context.Background(), docID)
	if w := doc.Instructions[0].Parameters["width"]; w != 120.0 {
		t.Fatalf("stored width = %v", w)
	}
}

func TestErrors(t *testing.T) {
	st, docID := seed(t)
	s := newSession(t, Options{DocumentID: docID, Store: st})

	s.Handle(context.Background(), Message{Type: "nope", Seq: 9})
	msg := expect(t, s.send, TypeError)
	if msg.Seq != 9 || !strings.Contains(string(msg.Payload), "unknown message type") {
		t.Fatalf("error = %s", msg.Payload)
	}

	s.Handle(context.Background(), Message{Type: TypeRotateStart, Seq: 10})
	if msg := expect(t, s.send, TypeError); msg.Seq != 10 {
		t.Fatalf("rotate without selection seq = %d", msg.Seq)
	}

	s.Handle(context.Background(), Message{Type: TypeShapeAdd, Seq: 11, Payload: json.RawMessage(`{"kind":`)})
	if msg := expect(t, s.send, TypeError); msg.Seq != 11 {
		t.Fatalf("bad payload seq = %d", msg.Seq)
	}

	if _, err := New(context.Background(), Options{DocumentID: "doc_missing", Store: st}); err == nil {
		t.Fatal("expected missing document error")
	}
}

func TestAsyncMoveAppliesLatest(t *testing.T) {
	st, docID := seed(t)
	s := newSession(t, Options{
		DocumentID:     docID,
		Store:          st,
		Viewport:       &geom.Rect{Width: 1000, Height: 1000},
		AsyncMoveCheck: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.in <- request(TypeMoveStart, 1, ShapeRefPayload{ShapeID: "shape_seed"})
	s.in <- request(TypeMoveDrag, 2, PointPayload{Point: geom.Pt(300, 300)})

	deadline := time.After(2 * time.Second)
	for {
		msg := expect(t, s.send, TypeEvent)
		var ev events.Event
		json.Unmarshal(msg.Payload, &ev)
		if ev.Name == events.ShapeMoved {
			break
		}
		select {
		case <-deadline:
			t.Fatal("move never applied")
		default:
		}
	}
	s.in <- request(TypeMoveEnd, 3, nil)
	expect(t, s.send, TypeAck)
}

func TestWebsocketSession(t *testing.T) {
	st, docID := seed(t)
	authSvc := auth.NewService("secret")
	tok, _ := authSvc.IssueGuest("Ada")

	r := mux.NewRouter()
	r.Handle("/ws/documents/{docId}", NewHandler(authSvc, nil, Options{Store: st}))
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/documents/" + docID
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, _, err := websocket.Dial(ctx, base, nil); err == nil {
		t.Fatal("dial without token succeeded")
	}

	conn, _, err := websocket.Dial(ctx, base+"?token="+tok.Token, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() Message {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var m Message
		json.Unmarshal(data, &m)
		return m
	}
	if m := read(); m.Type != TypeWelcome {
		t.Fatalf("first message = %s", m.Type)
	}

	out, _ := json.Marshal(request(TypeShapeAdd, 1, ShapeAddPayload{
		Kind: "ellipse",
	}))
	conn.Write(ctx, websocket.MessageText, out)
	for {
		m := read()
		if m.Type == TypeError && m.Seq == 1 {
			break
		}
		if m.Type == TypeAck {
			t.Fatal("zero-size shape accepted")
		}
	}
}

func TestFloorPlanRequestsAreSaved(t *testing.T) {
	st, docID := seed(t)
	s := newSession(t, Options{DocumentID: docID, Store: st})

	bound := ack(t, s, request(TypeCornerAdd, 1, CornerPayload{ShapeID: "shape_seed"}))
	free := ack(t, s, request(TypeCornerAdd, 2, CornerPayload{Point: geom.Pt(300, 50)}))
	if bound.CornerID == 0 || free.CornerID == 0 {
		t.Fatalf("corner acks = %+v %+v", bound, free)
	}
	wall := ack(t, s, request(TypeWallAdd, 3, WallPayload{StartCornerID: bound.CornerID, EndCornerID: free.CornerID}))
	if wall.WallID == 0 {
		t.Fatalf("wall ack = %+v", wall)
	}
	if !ack(t, s, request(TypeCornerMove, 4, CornerPayload{CornerID: free.CornerID, Point: geom.Pt(300, 80)})).Applied {
		t.Fatal("corner move not applied")
	}

	s.Handle(context.Background(), request(TypeDocSave, 5, nil))
	expect(t, s.send, TypeDocSaved)
	doc, err := st.Get(context.Background(), docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Floor.Corners) != 2 || len(doc.Floor.Walls) != 1 || doc.Floor.Corners[1].PositionY != 80 {
		t.Fatalf("stored floor = %+v", doc.Floor)
	}

	reopened := newSession(t, Options{DocumentID: docID, Store: st})
	if _, ok := reopened.Editor().Floor().WallBetween(bound.CornerID, free.CornerID); !ok {
		t.Fatal("reopened session lost the wall")
	}

	ack(t, s, request(TypeWallRemove, 6, WallPayload{WallID: wall.WallID}))
	if _, ok := s.Editor().Floor().Wall(wall.WallID); ok {
		t.Fatal("wall not removed")
	}
	ack(t, s, request(TypeCornerRemove, 7, CornerPayload{CornerID: free.CornerID}))
	if n := len(s.Editor().Floor().Corners()); n != 1 {
		t.Fatalf("%d corners left", n)
	}
}
