package httpapi

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/zalando/go-keyring"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setSourceTokenReq struct {
	Token string `json:"token"`
}

// SetSourceToken stores the bearer token for the configured source in the
// OS keychain. It takes effect on the next start.
func (h SecretsHandler) SetSourceToken(w http.ResponseWriter, r *http.Request) {
	var req setSourceTokenReq
	if err := decodeStrict(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetSourceToken(cfg, req.Token); err != nil {
		code := "store_failed"
		if errors.Is(err, secrets.ErrNoAccount) {
			code = "no_keyring_account"
		}
		WriteError(w, r, http.StatusBadRequest, code, "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSourceToken removes the stored bearer token. Deleting a token that
// was never stored is not an error.
func (h SecretsHandler) DeleteSourceToken(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	err := secrets.DeleteSourceToken(cfg)
	switch {
	case errors.Is(err, secrets.ErrNoAccount):
		WriteError(w, r, http.StatusBadRequest, "no_keyring_account", "source.keyring_account is not set")
		return
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", "failed to delete token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
