package httpapi

import (
	"sync/atomic"

	"go.uber.org/zap"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/limiter"
	"jobboard-engine/internal/session"
	"jobboard-engine/internal/store"
)

type Deps struct {
	Store    *store.Store
	Index    *filter.Index
	Sessions *session.Manager

	Hub *events.Hub
	Log *zap.Logger

	// Per-client request limiter
	Limiter *limiter.HostLimiter

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// ApplyCfg pushes a freshly saved config into the running engine.
	ApplyCfg func(config.Config)
}
