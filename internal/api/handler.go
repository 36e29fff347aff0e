// Package api serves the document REST endpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/planform/planform/backend-go/internal/codec"
	"github.com/planform/planform/backend-go/internal/editor"
	"github.com/planform/planform/backend-go/internal/floor"
	"github.com/planform/planform/backend-go/internal/preview"
	"github.com/planform/planform/backend-go/internal/store"
)

var (
	errInvalidDocument  = errors.New("invalid document")
	errInvalidFloorPlan = errors.New("invalid floor plan")
)

type Handler struct {
	store  store.Store
	logger *slog.Logger
}

func NewHandler(s store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, logger: logger}
}

// Routes mounts the document endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/documents", h.List).Methods("GET")
	r.HandleFunc("/documents", h.Create).Methods("POST")
	r.HandleFunc("/documents/{docId}", h.Get).Methods("GET")
	r.HandleFunc("/documents/{docId}", h.Save).Methods("PUT")
	r.HandleFunc("/documents/{docId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/documents/{docId}/preview.png", h.Preview).Methods("GET")
}

type createRequest struct {
	Name         string              `json:"name"`
	Instructions []codec.Instruction `json:"instructions"`
	Floor        floor.Plan          `json:"floor"`
}

type saveRequest struct {
	Instructions []codec.Instruction `json:"instructions"`
	Floor        floor.Plan          `json:"floor"`
}

type documentResponse struct {
	*store.Document
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	content, warnings, err := h.normalize(store.Content{Instructions: req.Instructions, Floor: req.Floor})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	doc, err := h.store.Create(r.Context(), req.Name, content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentResponse{Document: doc, Warnings: warnings})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(r.Context(), mux.Vars(r)["docId"])
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Document: doc})
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	content, warnings, err := h.normalize(store.Content{Instructions: req.Instructions, Floor: req.Floor})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	doc, err := h.store.Save(r.Context(), mux.Vars(r)["docId"], content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Document: doc, Warnings: warnings})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["docId"]); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview renders the latest version as a PNG. Optional w and h query
// parameters set the image size.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(r.Context(), mux.Vars(r)["docId"])
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	ed, err := editor.New(editor.Options{Logger: h.logger})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if _, err := ed.Load(doc.Instructions); err != nil {
		h.handleServiceError(w, err)
		return
	}

	opts := preview.Options{
		Width:  queryInt(r, "w", 0, 2048),
		Height: queryInt(r, "h", 0, 2048),
	}
	w.Header().Set("Content-Type", "image/png")
	if err := preview.WritePNG(w, ed.Shapes().Snapshots(), opts); err != nil {
		h.logger.Error("write preview", "error", err, "doc", doc.ID)
	}
}

// normalize loads c into a scratch editor and re-encodes it, so stored
// documents only hold shapes that build, every shape carries an id and
// every floor-plan corner bound to a shape sits on it.
func (h *Handler) normalize(c store.Content) (store.Content, []string, error) {
	ed, err := editor.New(editor.Options{Logger: h.logger})
	if err != nil {
		return store.Content{}, nil, err
	}
	res, err := ed.Load(c.Instructions)
	if err != nil {
		return store.Content{}, nil, err
	}
	if len(c.Instructions) > 0 && ed.Shapes().Len() == 0 {
		return store.Content{}, res.Warnings, errInvalidDocument
	}
	warnings, err := ed.LoadFloorPlan(c.Floor)
	if err != nil {
		return store.Content{}, nil, fmt.Errorf("%w: %v", errInvalidFloorPlan, err)
	}
	list, err := ed.EncodeAll()
	if err != nil {
		return store.Content{}, nil, err
	}
	return store.Content{Instructions: list, Floor: ed.FloorPlan()}, append(res.Warnings, warnings...), nil
}

func queryInt(r *http.Request, key string, lo, hi int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < lo {
		return lo
	}
	return min(n, hi)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, errInvalidDocument):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "document contains no valid shapes"})
	case errors.Is(err, errInvalidFloorPlan):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
