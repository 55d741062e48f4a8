package httpapi

import (
	"net/http"

	"jobboard-engine/internal/session"
	"jobboard-engine/internal/store"
)

type HealthHandler struct {
	Store    *store.Store
	Sessions *session.Manager
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":       true,
		"jobs":     h.Store.Len(),
		"sessions": h.Sessions.Len(),
	})
}
