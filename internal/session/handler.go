package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/planform/planform/backend-go/internal/auth"
	"github.com/planform/planform/backend-go/internal/store"
)

// Handler upgrades /ws/documents/{docId} requests into editing sessions.
// Options.DocumentID and Options.UserID are filled per request.
type Handler struct {
	auth     *auth.Service
	origins  []string
	defaults Options
}

func NewHandler(authSvc *auth.Service, origins []string, defaults Options) *Handler {
	if defaults.Logger == nil {
		defaults.Logger = slog.Default()
	}
	return &Handler{auth: authSvc, origins: origins, defaults: defaults}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["docId"]

	// Browsers cannot set headers on websocket requests.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	id, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	opts := h.defaults
	opts.DocumentID = docID
	opts.UserID = id.UserID
	opts.DisplayName = id.DisplayName
	s, err := New(r.Context(), opts)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		opts.Logger.Error("start session", "error", err, "doc", docID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		opts.Logger.Error("websocket accept", "error", err)
		return
	}

	s.logger.Info("session started")
	s.Serve(r.Context(), conn)
	s.logger.Info("session ended")
}
