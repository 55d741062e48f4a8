package httpapi

import (
	"net/http"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/session"
	"jobboard-engine/internal/store"
)

type JobsHandler struct {
	Store    *store.Store
	Sessions *session.Manager
}

type jobsResponse struct {
	Session  string       `json:"session"`
	Jobs     []domain.Job `json:"jobs"`
	Selected []string     `json:"selected"`
	Active   bool         `json:"active"`
	Total    int          `json:"total"`
}

// List returns the listing narrowed by the session's selection.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	id := requireSession(w, r, h.Sessions)
	if id == "" {
		return
	}

	all := h.Store.All()
	resp := jobsResponse{Session: id, Total: len(all)}
	err := h.Sessions.Do(id, func(e *filter.Engine) {
		resp.Jobs = e.Apply(all)
		resp.Selected = e.SelectedTerms()
		resp.Active = e.IsActive()
	})
	if err != nil {
		writeSessionErr(w, r, err)
		return
	}
	writeJSON(w, resp)
}
