package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/httpapi"
	"jobboard-engine/internal/limiter"
	"jobboard-engine/internal/logging"
	"jobboard-engine/internal/scheduler"
	"jobboard-engine/internal/session"
)

// clientIdle is how long a client address keeps its rate-limit bucket
// after its last request.
const clientIdle = 10 * time.Minute

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the listing, the filter API and the browser page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(parent context.Context) error {
	cfg := c.cfg
	log := c.log

	dataDir := cfg.App.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir: the config file and token are shared state.
	lock := flock.New(filepath.Join(dataDir, "jobboard.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another jobboard instance is serving from %s", dataDir)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := c.loadStore(ctx)
	if err != nil {
		return err
	}

	index := filter.NewIndex(st)
	sessions := session.NewManager(index, time.Duration(cfg.Sessions.IdleMinutes)*time.Minute)
	hub := events.NewHub()
	clients := limiter.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	applyCfg := func(next config.Config) {
		level := next.Logging.Level
		if c.verbose {
			level = "debug"
		}
		logging.SetLevel(c.atom, level)
		clients.SetLimit(next.RateLimit.RequestsPerSecond, next.RateLimit.Burst)
		sessions.SetIdle(time.Duration(next.Sessions.IdleMinutes) * time.Minute)
		hub.Publish("", events.MakeEvent("", "", events.TypeConfigReloaded, events.ConfigReloaded{Path: c.cfgPath}))
	}

	deps := httpapi.Deps{
		Store:       st,
		Index:       index,
		Sessions:    sessions,
		Hub:         hub,
		Log:         log,
		Limiter:     clients,
		CfgVal:      &cfgVal,
		UserCfgPath: c.cfgPath,
		LoadCfg:     func() (config.Config, error) { return c.reloadConfig(cfg) },
		ApplyCfg:    applyCfg,
	}
	mux := httpapi.NewMux(deps)

	addr := net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           httpapi.Handler(deps, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	// Shutdown waits for handlers; end the SSE streams so it does not stall.
	srv.RegisterOnShutdown(hub.Close)

	token, err := randomToken(16)
	if err != nil {
		_ = ln.Close()
		return err
	}
	tokenPath := filepath.Join(dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		_ = ln.Close()
		return err
	}
	defer os.Remove(tokenPath)
	mux.HandleFunc("/shutdown", shutdownHandler(token, srv))

	log.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("config", c.cfgPath),
		zap.Int("jobs", st.Len()),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// /shutdown stops the server without a signal; take the rest down too.
		defer cancel()
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sweep := time.Duration(cfg.Sessions.SweepSeconds) * time.Second
		scheduler.Every(gctx, sweep, "session-sweep", log, func(context.Context) error {
			for _, id := range sessions.Sweep(time.Now()) {
				log.Debug("session expired", zap.String("session", id))
				hub.Publish(id, events.MakeEvent("", id, events.TypeSessionEnded, events.SessionEnded{Reason: "idle"}))
			}
			if n := clients.Prune(clientIdle); n > 0 {
				log.Debug("rate limiter pruned", zap.Int("clients", n))
			}
			return nil
		})
		return nil
	})

	g.Go(func() error {
		return config.Watch(gctx, c.cfgPath, log, func(next config.Config) {
			if err := config.OverlayEnv(&next); err != nil {
				log.Warn("config env overlay failed", zap.Error(err))
			}
			next = pinStartup(next, cfg)
			cfgVal.Store(next)
			applyCfg(next)
		})
	})

	err = g.Wait()
	log.Info("engine stopped")
	return err
}

// reloadConfig re-reads the config file for a running server.
func (c *cli) reloadConfig(startup config.Config) (config.Config, error) {
	next, err := c.loadConfig(c.cfgPath)
	if err != nil {
		return next, err
	}
	return pinStartup(next, startup), nil
}

// pinStartup keeps the settings that only take effect on restart. The
// listing is loaded once, so the source stays what it was at startup.
func pinStartup(next, startup config.Config) config.Config {
	next.Source = startup.Source
	return next
}
