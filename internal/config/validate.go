package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.Host = strings.TrimSpace(out.App.Host)
	if out.App.Host == "" {
		out.App.Host = "127.0.0.1"
	}
	out.Source.Location = strings.TrimSpace(out.Source.Location)
	out.Source.KeyringAccount = strings.TrimSpace(out.Source.KeyringAccount)
	out.Logging.Level = strings.ToLower(strings.TrimSpace(out.Logging.Level))

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	// source sanity
	if out.Source.Location == "" {
		res.addErr("source.location is required")
	}
	if out.Source.TimeoutSeconds <= 0 {
		res.addErr("source.timeout_seconds must be > 0")
	}
	if out.Source.Retries < 0 {
		res.addErr("source.retries must be >= 0")
	} else if out.Source.Retries > 5 {
		res.addWarn("source.retries is high (%d); startup may stall on a dead source.", out.Source.Retries)
	}
	if out.Source.RequestsPerSec <= 0 {
		res.addErr("source.requests_per_second must be > 0")
	}
	if out.Source.KeyringAccount != "" && !isHTTPSource(out.Source.Location) {
		res.addWarn("source.keyring_account is set but %q is not an http(s) source; the token is unused.", out.Source.Location)
	}

	// sessions
	if out.Sessions.IdleMinutes <= 0 {
		res.addErr("sessions.idle_minutes must be > 0")
	}
	if out.Sessions.SweepSeconds <= 0 {
		res.addErr("sessions.sweep_seconds must be > 0")
	} else if out.Sessions.IdleMinutes > 0 && out.Sessions.SweepSeconds > out.Sessions.IdleMinutes*60 {
		res.addWarn("sessions.sweep_seconds (%d) exceeds the idle timeout; sessions will outlive it.", out.Sessions.SweepSeconds)
	}

	// rate limit
	if out.RateLimit.RequestsPerSecond <= 0 {
		res.addErr("rate_limit.requests_per_second must be > 0")
	}
	if out.RateLimit.Burst < 1 {
		res.addErr("rate_limit.burst must be >= 1")
	}

	if !logLevels[out.Logging.Level] {
		res.addErr("logging.level must be one of debug, info, warn, error")
	}

	return out, res
}

func isHTTPSource(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") ||
		strings.HasPrefix(l, "html+http://") || strings.HasPrefix(l, "html+https://")
}
