package httpapi

import (
	"net/http"
	"path/filepath"
	"sync/atomic"

	"jobboard-engine/internal/config"
)

// ConfigHandler exposes the user config file. Edits are validated, saved
// atomically, reloaded from disk and pushed into the running engine.
type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	ApplyCfg    func(config.Config)
}

func (h ConfigHandler) current() config.Config {
	return h.CfgVal.Load().(config.Config)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.current())
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := decodeStrict(w, r, &incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		WriteError(w, r, http.StatusBadRequest, "invalid_config", "config is invalid", vr.Errors...)
		return
	}
	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	if h.ApplyCfg != nil {
		h.ApplyCfg(saved)
	}
	writeJSON(w, map[string]any{"config": saved, "warnings": vr.Warnings})
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, err := filepath.Abs(h.UserCfgPath)
	if err != nil {
		abs = h.UserCfgPath
	}
	writeJSON(w, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.current())
	writeJSON(w, vr)
}
