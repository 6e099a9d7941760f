package api

import (
	"errors"
	"log/slog"
	"net/http"

	"traces/pkg/store"
)

// SessionHandler lists recorded sessions.
type SessionHandler struct {
	store store.Store
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(st store.Store) *SessionHandler {
	return &SessionHandler{store: st}
}

// HandleList answers GET /api/sessions, newest first.
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		slog.Error("Failed to list sessions", "error", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	writeJSON(w, sessions)
}

// HandleGet answers GET /api/sessions/{id}.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := h.store.GetSession(r.Context(), id)
	if errors.Is(err, store.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to load session", "id", id, "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sess)
}
