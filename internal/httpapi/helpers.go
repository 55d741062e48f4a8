package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"jobboard-engine/internal/session"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// sessionID reads the session from ?session= or the X-Session-ID header.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("session")); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

// requireSession writes the error response itself and returns "" when the
// request carries no usable session.
func requireSession(w http.ResponseWriter, r *http.Request, sessions *session.Manager) string {
	id := sessionID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_session", "session is required (?session= or X-Session-ID)")
		return ""
	}
	if !sessions.Exists(id) {
		WriteError(w, r, http.StatusNotFound, "session_not_found", "unknown session")
		return ""
	}
	return id
}

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

// decodeStrict decodes exactly one JSON value, rejecting unknown fields.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}
