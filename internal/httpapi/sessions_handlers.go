package httpapi

import (
	"net/http"
	"strings"

	"jobboard-engine/internal/events"
	"jobboard-engine/internal/session"
)

type SessionsHandler struct {
	Sessions *session.Manager
	Hub      *events.Hub
}

func (h SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Create()
	h.Hub.Publish(id, events.MakeEvent(RequestIDFrom(r.Context()), id, events.TypeSessionCreated, nil))
	WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h SessionsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/sessions/"))
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}
	if !h.Sessions.Delete(id) {
		WriteError(w, r, http.StatusNotFound, "session_not_found", "unknown session")
		return
	}
	h.Hub.Publish(id, events.MakeEvent(RequestIDFrom(r.Context()), id, events.TypeSessionEnded, events.SessionEnded{Reason: "deleted"}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
