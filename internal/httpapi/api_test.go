package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/limiter"
	"jobboard-engine/internal/session"
	"jobboard-engine/internal/store"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	st, err := store.Load(context.Background(), filepath.Join("..", "store", "testdata", "data.json"), store.LoadOptions{})
	require.NoError(t, err)

	ix := filter.NewIndex(st)
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, config.SaveAtomic(cfgPath, config.Default()))

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())

	return Deps{
		Store:       st,
		Index:       ix,
		Sessions:    session.NewManager(ix, time.Hour),
		Hub:         events.NewHub(),
		Log:         zap.NewNop(),
		Limiter:     limiter.NewHostLimiter(1000, 1000),
		CfgVal:      &cfgVal,
		UserCfgPath: cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(cfgPath) },
	}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := serve(h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[map[string]string](t, rec)["id"]
}

func companies(resp jobsResponse) []string {
	out := make([]string, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		out = append(out, j.Company)
	}
	return out
}

func TestHealth(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 10, body["jobs"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMethodNotAllowed(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodPut, "/jobs", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	e := decode[APIError](t, rec)
	assert.Equal(t, "method_not_allowed", e.Error.Code)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), e.Error.RequestID)
}

func TestJobs_RequiresSession(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_session", decode[APIError](t, rec).Error.Code)

	rec = serve(h, http.MethodGet, "/jobs?session=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", decode[APIError](t, rec).Error.Code)
}

func TestFilters_AddNarrowsJobs(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)

	rec := serve(h, http.MethodGet, "/jobs?session="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[jobsResponse](t, rec)
	assert.Len(t, all.Jobs, 10)
	assert.False(t, all.Active)
	assert.Equal(t, 10, all.Total)

	rec = serve(h, http.MethodPost, "/filters?session="+id, `{"term":" React "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	fr := decode[filtersResponse](t, rec)
	assert.True(t, fr.Changed)
	assert.True(t, fr.Active)
	assert.Equal(t, "tool", fr.Category)
	assert.Equal(t, "react", fr.Term)
	assert.Equal(t, []string{"react"}, fr.Selected)

	rec = serve(h, http.MethodPost, "/filters?session="+id, `{"term":"JavaScript"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	fr = decode[filtersResponse](t, rec)
	assert.Equal(t, []string{"javascript", "react"}, fr.Selected)
	assert.Equal(t, []string{"javascript"}, fr.Selection.Languages)
	assert.Equal(t, []string{"react"}, fr.Selection.Tools)

	rec = serve(h, http.MethodGet, "/jobs?session="+id, "")
	got := decode[jobsResponse](t, rec)
	assert.Equal(t, []string{"Account", "The Air Filter Company"}, companies(got))
	assert.True(t, got.Active)
}

func TestFilters_AddIsIdempotentAndUnknownIgnored(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)

	serve(h, http.MethodPost, "/filters?session="+id, `{"term":"python"}`)
	rec := serve(h, http.MethodPost, "/filters?session="+id, `{"term":"Python"}`)
	fr := decode[filtersResponse](t, rec)
	assert.False(t, fr.Changed)
	assert.Equal(t, []string{"python"}, fr.Selected)

	rec = serve(h, http.MethodPost, "/filters?session="+id, `{"term":"cobol"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	fr = decode[filtersResponse](t, rec)
	assert.False(t, fr.Changed)
	assert.Equal(t, "unknown", fr.Category)
	assert.Equal(t, []string{"python"}, fr.Selected)
}

func TestFilters_AddRejectsBadInput(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)

	rec := serve(h, http.MethodPost, "/filters?session="+id, `{"term":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_term", decode[APIError](t, rec).Error.Code)

	rec = serve(h, http.MethodPost, "/filters?session="+id, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decode[APIError](t, rec).Error.Code)
}

func TestFilters_RemoveAndReset(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)

	serve(h, http.MethodPost, "/filters?session="+id, `{"term":"javascript"}`)
	serve(h, http.MethodPost, "/filters?session="+id, `{"term":"sass"}`)

	rec := serve(h, http.MethodDelete, "/filters/JavaScript?session="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fr := decode[filtersResponse](t, rec)
	assert.True(t, fr.Changed)
	assert.Equal(t, []string{"sass"}, fr.Selected)

	rec = serve(h, http.MethodDelete, "/filters/javascript?session="+id, "")
	assert.False(t, decode[filtersResponse](t, rec).Changed)

	rec = serve(h, http.MethodDelete, "/filters?session="+id, "")
	fr = decode[filtersResponse](t, rec)
	assert.True(t, fr.Changed)
	assert.False(t, fr.Active)
	assert.Empty(t, fr.Selected)

	rec = serve(h, http.MethodDelete, "/filters?session="+id, "")
	assert.False(t, decode[filtersResponse](t, rec).Changed)
}

func TestFilters_SessionsAreIsolated(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	a := newSession(t, h)
	b := newSession(t, h)

	serve(h, http.MethodPost, "/filters?session="+a, `{"term":"vue"}`)

	rec := serve(h, http.MethodGet, "/jobs?session="+b, "")
	assert.Len(t, decode[jobsResponse](t, rec).Jobs, 10)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("X-Session-ID", a)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, []string{"Insure"}, companies(decode[jobsResponse](t, rec)))
}

func TestClassify(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	cases := map[string]string{
		"Python": "language",
		"ruby":   "language",
		"Django": "tool",
		"elm":    "unknown",
	}
	for term, want := range cases {
		rec := serve(h, http.MethodGet, "/classify?term="+url.QueryEscape(term), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, decode[map[string]string](t, rec)["category"], term)
	}

	rec := serve(h, http.MethodGet, "/classify", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions_Delete(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)

	rec := serve(h, http.MethodDelete, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, d.Sessions.Len())

	rec = serve(h, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	d := newDeps(t)
	d.Limiter = limiter.NewHostLimiter(0, 1)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode[APIError](t, rec).Error.Code)
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover(zap.NewNop()))

	rec := serve(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decode[APIError](t, rec).Error.Code)
}

func TestCors_Preflight(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	req := httptest.NewRequest(http.MethodOptions, "/filters", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// streamRecorder is a ResponseRecorder that can be read while the handler
// is still writing.
type streamRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func (s *streamRecorder) Header() http.Header { return s.rec.Header() }

func (s *streamRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

func (s *streamRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(b)
}

func (s *streamRecorder) Flush() {}

func (s *streamRecorder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}

func TestEvents_StreamsSessionChanges(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))
	id := newSession(t, h)
	other := newSession(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events?session="+id, nil).WithContext(ctx)
	rec := &streamRecorder{rec: httptest.NewRecorder()}
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool { return d.Hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	serve(h, http.MethodPost, "/filters?session="+other, `{"term":"css"}`)
	serve(h, http.MethodPost, "/filters?session="+id, `{"term":"html"}`)

	require.Eventually(t, func() bool {
		return strings.Contains(rec.String(), events.TypeFiltersChanged)
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	var got []events.Event
	for _, line := range strings.Split(rec.String(), "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var e events.Event
		require.NoError(t, json.Unmarshal([]byte(data), &e))
		got = append(got, e)
	}

	require.Len(t, got, 2)
	assert.Equal(t, events.TypePing, got[0].Type)
	assert.Equal(t, events.TypeFiltersChanged, got[1].Type)
	assert.Equal(t, id, got[1].Session)
	assert.Contains(t, string(got[1].Data), `"html"`)
	assert.Contains(t, rec.String(), "event: filters_changed\n")
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestConfig_GetPutValidate(t *testing.T) {
	d := newDeps(t)
	var applied config.Config
	d.ApplyCfg = func(c config.Config) { applied = c }
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cur := decode[config.Config](t, rec)
	assert.Equal(t, 38471, cur.App.Port)

	cur.Sessions.IdleMinutes = 5
	cur.Logging.Level = "debug"
	b, err := json.Marshal(cur)
	require.NoError(t, err)

	rec = serve(h, http.MethodPut, "/config", string(b))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, applied.Sessions.IdleMinutes)
	assert.Equal(t, "debug", d.CfgVal.Load().(config.Config).Logging.Level)

	onDisk, err := config.Load(d.UserCfgPath)
	require.NoError(t, err)
	assert.Equal(t, 5, onDisk.Sessions.IdleMinutes)

	rec = serve(h, http.MethodPut, "/config", `{"bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decode[APIError](t, rec).Error.Code)

	cur.App.Port = 0
	b, _ = json.Marshal(cur)
	rec = serve(h, http.MethodPut, "/config", string(b))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decode[APIError](t, rec)
	assert.Equal(t, "invalid_config", e.Error.Code)
	assert.Contains(t, e.Error.Details, "app.port must be 1..65535")

	rec = serve(h, http.MethodGet, "/config/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[config.Validation](t, rec).Errors)

	rec = serve(h, http.MethodGet, "/config/path", "")
	assert.True(t, filepath.IsAbs(decode[map[string]string](t, rec)["path"]))
}

func TestSecrets_SetSourceToken(t *testing.T) {
	keyring.MockInit()
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodPost, "/api/secrets/source", `{"token":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_keyring_account", decode[APIError](t, rec).Error.Code)

	cfg := config.Default()
	cfg.Source.KeyringAccount = "listings"
	d.CfgVal.Store(cfg)

	rec = serve(h, http.MethodPost, "/api/secrets/source", `{"token":"abc"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	tok, err := keyring.Get("jobboard", "listings")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	rec = serve(h, http.MethodDelete, "/api/secrets/source", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err = keyring.Get("jobboard", "listings")
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	// already gone
	rec = serve(h, http.MethodDelete, "/api/secrets/source", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPage_RendersAndFollowsForms(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 10, doc.Find(".job-item").Length())
	assert.False(t, doc.Find("#filters").HasClass("active"))

	post := func(path, term string) *httptest.ResponseRecorder {
		form := url.Values{"term": {term}}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	get := func() *goquery.Document {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		return doc
	}

	rec = post("/ui/filters", "Sass")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	doc = get()
	assert.Equal(t, 5, doc.Find(".job-item").Length())
	assert.True(t, doc.Find("#filters").HasClass("active"))
	assert.Equal(t, 1, doc.Find(".filter-chip").Length())

	post("/ui/filters", "ruby")
	assert.Equal(t, 0, get().Find(".job-item").Length())

	post("/ui/filters/remove", "ruby")
	assert.Equal(t, 5, get().Find(".job-item").Length())

	post("/ui/filters/reset", "")
	doc = get()
	assert.Equal(t, 10, doc.Find(".job-item").Length())
	assert.Equal(t, 0, doc.Find(".filter-chip").Length())
	assert.Equal(t, 1, d.Sessions.Len())
}

func TestPage_UnknownPathIs404(t *testing.T) {
	d := newDeps(t)
	h := Handler(d, NewMux(d))

	rec := serve(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
