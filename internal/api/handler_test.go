package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/planform/planform/backend-go/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(store.NewMemory(), nil).Routes(r.PathPrefix("/api").Subrouter())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const rectDoc = `{"name":"plan","instructions":[
	{"command":"CREATE_RECTANGLE","parameters":{"positionX":50,"positionY":50,"width":40,"height":30}},
	{"command":"CREATE_BOGUS","parameters":{}}
]}`

func TestDocumentLifecycle(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/documents", rectDoc)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created documentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if len(created.Warnings) != 1 {
		t.Fatalf("warnings = %v", created.Warnings)
	}
	if len(created.Instructions) != 1 {
		t.Fatalf("instructions = %+v", created.Instructions)
	}
	if id, _ := created.Instructions[0].Parameters["shapeId"].(string); !strings.HasPrefix(id, "shape_") {
		t.Fatalf("normalized shape id = %v", created.Instructions[0].Parameters["shapeId"])
	}

	docURL := srv.URL + "/api/documents/" + created.ID
	resp = do(t, http.MethodPut, docURL, `{"instructions":[
		{"command":"CREATE_ELLIPSE","parameters":{"positionX":10,"positionY":10,"width":20,"height":20}}
	]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, docURL, "")
	var got documentResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Version != 2 || got.Instructions[0].Command != "CREATE_ELLIPSE" {
		t.Fatalf("got = %+v", got.Document)
	}

	resp = do(t, http.MethodGet, docURL+"/preview.png?w=64&h=48", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("preview = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Fatalf("preview width = %d", img.Bounds().Dx())
	}

	if resp := do(t, http.MethodDelete, docURL, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, docURL, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d", resp.StatusCode)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newServer(t)

	if resp := do(t, http.MethodPost, srv.URL+"/api/documents", `{"instructions":[]}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, srv.URL+"/api/documents", `not json`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad body = %d", resp.StatusCode)
	}
	bad := `{"name":"x","instructions":[{"command":"CREATE_RECTANGLE","parameters":{"positionX":0,"positionY":0,"width":2,"height":2}}]}`
	if resp := do(t, http.MethodPost, srv.URL+"/api/documents", bad); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("too small = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, srv.URL+"/api/documents", `{"name":"empty"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("empty document = %d", resp.StatusCode)
	}
}

func TestFloorPlanIsStored(t *testing.T) {
	srv := newServer(t)

	body := `{"name":"walls","instructions":[
		{"command":"CREATE_ELLIPSE","parameters":{"shapeId":"shape_post","positionX":40,"positionY":60,"width":20,"height":20}}
	],"floor":{
		"corners":[{"id":1,"positionX":0,"positionY":0,"shapeId":"shape_post"},{"id":2,"positionX":200,"positionY":60}],
		"walls":[{"startCornerId":1,"endCornerId":2}]
	}}`
	resp := do(t, http.MethodPost, srv.URL+"/api/documents", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created documentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	fp := created.Floor
	if len(fp.Corners) != 2 || len(fp.Walls) != 1 || fp.Walls[0].ID == 0 {
		t.Fatalf("floor = %+v", fp)
	}
	// the bound corner is snapped onto its shape
	if fp.Corners[0].PositionX != 40 || fp.Corners[0].PositionY != 60 {
		t.Fatalf("bound corner = %+v", fp.Corners[0])
	}

	dangling := `{"instructions":[],"floor":{"corners":[{"id":1}],"walls":[{"startCornerId":1,"endCornerId":5}]}}`
	if resp := do(t, http.MethodPut, srv.URL+"/api/documents/"+created.ID, dangling); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("dangling wall = %d", resp.StatusCode)
	}
}
