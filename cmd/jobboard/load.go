package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobboard-engine/internal/limiter"
	"jobboard-engine/internal/secrets"
	"jobboard-engine/internal/store"
)

// loadStore reads the configured source once.
func (c *cli) loadStore(ctx context.Context) (*store.Store, error) {
	src := c.cfg.Source

	token, err := secrets.GetSourceToken(c.cfg)
	if err != nil {
		c.log.Warn("source token unavailable; continuing without it", zap.Error(err))
		token = ""
	}

	timeout := time.Duration(src.TimeoutSeconds) * time.Second
	return store.Load(ctx, src.Location, store.LoadOptions{
		Client:  &http.Client{Timeout: timeout},
		Limiter: limiter.NewHostLimiter(src.RequestsPerSec, 1),
		Retries: src.Retries,
		Token:   token,
		Logger:  c.log,
	})
}
