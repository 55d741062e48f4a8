// Package scheduler runs housekeeping tasks, such as the session sweep,
// on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task now and then on each tick until ctx is done. Task
// errors are logged, never fatal. A non-positive interval runs the task
// once.
func Every(ctx context.Context, interval time.Duration, name string, log *zap.Logger, task Task) {
	run := func() {
		start := time.Now()
		err := task(ctx)
		if err != nil {
			log.Warn("scheduled task failed", zap.String("task", name), zap.Error(err))
			return
		}
		log.Debug("scheduled task done", zap.String("task", name), zap.Duration("took", time.Since(start)))
	}

	run()
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
