package cron

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Exclusive wraps fn so at most one pass runs per process. Wrap each sweep
// once and hand the same func to the Supervisor and the Worker, so a manual
// run cannot overlap a scheduled tick of the same job. A call that finds a
// pass in flight returns nil without running; that pass covers it.
func Exclusive(name string, logger *zap.Logger, fn SweepFunc) SweepFunc {
	var running sync.Mutex
	return func(ctx context.Context) error {
		if !running.TryLock() {
			logger.Info("sweep already running, skipped", zap.String("job", name))
			return nil
		}
		defer running.Unlock()
		return fn(ctx)
	}
}
