package httpapi

import (
	"bytes"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"jobboard-engine/internal/events"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/render"
	"jobboard-engine/internal/session"
	"jobboard-engine/internal/store"
)

const sessionCookie = "jobboard_session"

// PageHandler serves the browser listing. Tag buttons and the search bar
// post back here; the session rides in a cookie.
type PageHandler struct {
	Store    *store.Store
	Sessions *session.Manager
	Hub      *events.Hub
	Log      *zap.Logger
}

func (h PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	id := h.ensureSession(w, r)

	all := h.Store.All()
	page := render.Page{Total: len(all)}
	err := h.Sessions.Do(id, func(e *filter.Engine) {
		page.Jobs = e.Apply(all)
		page.Selected = e.SelectedTerms()
		page.Active = e.IsActive()
	})
	if err != nil {
		writeSessionErr(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Listing(&buf, page); err != nil {
		h.Log.Error("render listing", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "render_failed", "failed to render listing")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h PageHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "add", func(e *filter.Engine, term string) bool { return e.Add(term) })
}

func (h PageHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "remove", func(e *filter.Engine, term string) bool { return e.Remove(term) })
}

func (h PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "reset", func(e *filter.Engine, _ string) bool {
		changed := e.IsActive()
		e.Reset()
		return changed
	})
}

func (h PageHandler) mutate(w http.ResponseWriter, r *http.Request, action string, op func(*filter.Engine, string) bool) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	term := strings.TrimSpace(r.PostFormValue("term"))
	id := h.ensureSession(w, r)

	var changed, active bool
	var selected []string
	err := h.Sessions.Do(id, func(e *filter.Engine) {
		if term == "" && action != "reset" {
			return
		}
		changed = op(e, term)
		selected = e.SelectedTerms()
		active = e.IsActive()
	})
	if err != nil {
		writeSessionErr(w, r, err)
		return
	}
	if changed {
		publishFilters(h.Hub, RequestIDFrom(r.Context()), id, action, filter.Normalize(term), selected, active)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h PageHandler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && h.Sessions.Exists(c.Value) {
		return c.Value
	}
	id := h.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
