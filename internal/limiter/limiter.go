package limiter

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits per hostname: source hosts when loading,
// client addresses when serving.
type HostLimiter struct {
	mu  sync.Mutex
	m   map[string]*bucket
	r   rate.Limit
	b   int
	now func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		m:   make(map[string]*bucket),
		r:   rate.Limit(reqPerSec),
		b:   burst,
		now: time.Now,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	now := hl.now()
	if bk, ok := hl.m[host]; ok {
		bk.lastSeen = now
		return bk.lim
	}
	bk := &bucket{lim: rate.NewLimiter(hl.r, hl.b), lastSeen: now}
	hl.m[host] = bk
	return bk.lim
}

// Allow reports whether host may proceed now, without waiting.
func (hl *HostLimiter) Allow(host string) bool {
	return hl.limiterFor(host).Allow()
}

func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}

// SetLimit changes the rate for every host, existing and future.
func (hl *HostLimiter) SetLimit(reqPerSec float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	hl.mu.Lock()
	defer hl.mu.Unlock()
	hl.r = rate.Limit(reqPerSec)
	hl.b = burst
	for _, bk := range hl.m {
		bk.lim.SetLimit(hl.r)
		bk.lim.SetBurst(hl.b)
	}
}

// Prune forgets hosts not seen for longer than idle and returns how many
// were dropped. A forgotten host starts again with a full bucket.
func (hl *HostLimiter) Prune(idle time.Duration) int {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	cutoff := hl.now().Add(-idle)
	n := 0
	for host, bk := range hl.m {
		if bk.lastSeen.Before(cutoff) {
			delete(hl.m, host)
			n++
		}
	}
	return n
}

func (hl *HostLimiter) Len() int {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	return len(hl.m)
}
