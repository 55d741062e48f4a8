package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Store: d.Store, Sessions: d.Sessions}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Sessions
	sh := SessionsHandler{Sessions: d.Sessions, Hub: d.Hub}
	mux.HandleFunc("/sessions", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Create,
	}))
	mux.HandleFunc("/sessions/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: sh.DeleteByPath, // expects /sessions/{id}
	}))

	// Jobs
	jh := JobsHandler{Store: d.Store, Sessions: d.Sessions}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))

	// Filters
	fh := FiltersHandler{Index: d.Index, Sessions: d.Sessions, Hub: d.Hub}
	mux.HandleFunc("/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    fh.Get,
		http.MethodPost:   fh.Add,
		http.MethodDelete: fh.Reset,
	}))
	mux.HandleFunc("/filters/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: fh.RemoveByPath, // expects /filters/{term}
	}))
	mux.HandleFunc("/classify", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Classify,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		ApplyCfg:    d.ApplyCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sec := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/source", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sec.SetSourceToken,
		http.MethodDelete: sec.DeleteSourceToken,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Browser UI
	ph := PageHandler{Store: d.Store, Sessions: d.Sessions, Hub: d.Hub, Log: d.Log}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Index,
	}))
	mux.HandleFunc("/ui/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Add,
	}))
	mux.HandleFunc("/ui/filters/remove", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Remove,
	}))
	mux.HandleFunc("/ui/filters/reset", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Reset,
	}))

	return mux
}

// Handler wraps the mux with the standard middleware stack.
func Handler(d Deps, mux *http.ServeMux) http.Handler {
	return Chain(mux,
		RequestID,
		Recover(d.Log),
		AccessLog(d.Log),
		Cors,
		RateLimit(d.Limiter),
	)
}
