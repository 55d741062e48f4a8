package httpapi

import (
	"net/http"
	"strings"

	"jobboard-engine/internal/events"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/session"
)

type FiltersHandler struct {
	Index    *filter.Index
	Sessions *session.Manager
	Hub      *events.Hub
}

type filtersResponse struct {
	Session   string           `json:"session"`
	Selected  []string         `json:"selected"`
	Selection filter.Selection `json:"selection"`
	Active    bool             `json:"active"`
	Changed   bool             `json:"changed"`
	Term      string           `json:"term,omitempty"`
	Category  string           `json:"category,omitempty"`
}

type addFilterReq struct {
	Term string `json:"term"`
}

func (h FiltersHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "", "get", func(e *filter.Engine, resp *filtersResponse) {})
}

// Add selects a term. Terms that name no language or tool are ignored and
// reported with category "unknown" and changed=false.
func (h FiltersHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addFilterReq
	if err := decodeStrict(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	term := strings.TrimSpace(req.Term)
	if term == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_term", "term is required")
		return
	}

	h.run(w, r, term, "add", func(e *filter.Engine, resp *filtersResponse) {
		resp.Category = e.Classify(term).String()
		resp.Changed = e.Add(term)
	})
}

// RemoveByPath expects /filters/{term}.
func (h FiltersHandler) RemoveByPath(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/filters/"))
	if term == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_term", "term is required")
		return
	}
	h.run(w, r, term, "remove", func(e *filter.Engine, resp *filtersResponse) {
		resp.Changed = e.Remove(term)
	})
}

func (h FiltersHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "", "reset", func(e *filter.Engine, resp *filtersResponse) {
		resp.Changed = e.IsActive()
		e.Reset()
	})
}

func (h FiltersHandler) Classify(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_term", "term is required")
		return
	}
	writeJSON(w, map[string]any{
		"term":     term,
		"category": h.Index.Classify(term).String(),
	})
}

func (h FiltersHandler) run(w http.ResponseWriter, r *http.Request, term, action string, op func(*filter.Engine, *filtersResponse)) {
	id := requireSession(w, r, h.Sessions)
	if id == "" {
		return
	}

	resp := filtersResponse{Session: id, Term: filter.Normalize(term)}
	err := h.Sessions.Do(id, func(e *filter.Engine) {
		op(e, &resp)
		resp.Selection = e.Selection()
		resp.Selected = e.SelectedTerms()
		resp.Active = e.IsActive()
	})
	if err != nil {
		writeSessionErr(w, r, err)
		return
	}

	if resp.Changed {
		publishFilters(h.Hub, RequestIDFrom(r.Context()), id, action, resp.Term, resp.Selected, resp.Active)
	}
	writeJSON(w, resp)
}

func publishFilters(hub *events.Hub, reqID, id, action, term string, selected []string, active bool) {
	hub.Publish(id, events.MakeEvent(reqID, id, events.TypeFiltersChanged, events.FiltersChanged{
		Action:   action,
		Term:     term,
		Selected: selected,
		Active:   active,
	}))
}
