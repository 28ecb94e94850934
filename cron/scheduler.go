package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepFunc is one reconciliation pass.
type SweepFunc func(ctx context.Context) error

// Supervisor runs the periodic sweeps. Ticks of the same job never overlap,
// and each tick gets its own deadline so a hung store call cannot block the
// next one forever.
type Supervisor struct {
	logger  *zap.Logger
	timeout time.Duration
	cron    *robfig.Cron

	mu    sync.Mutex
	names map[string]robfig.EntryID

	base   context.Context
	cancel context.CancelFunc
}

func NewSupervisor(logger *zap.Logger, timeout time.Duration) *Supervisor {
	cl := cronLogger{logger: logger.Named("cron")}
	base, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		logger:  logger,
		timeout: timeout,
		cron: robfig.New(
			robfig.WithLogger(cl),
			robfig.WithChain(robfig.Recover(cl), robfig.SkipIfStillRunning(cl)),
		),
		names:  make(map[string]robfig.EntryID),
		base:   base,
		cancel: cancel,
	}
}

// Register schedules fn every interval under name.
func (s *Supervisor) Register(name string, every time.Duration, fn SweepFunc) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", name, every)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("job %s already registered", name)
	}

	id, err := s.cron.AddFunc("@every "+every.String(), func() { s.tick(name, fn) })
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	s.names[name] = id
	s.logger.Info("sweep registered", zap.String("job", name), zap.Duration("every", every))
	return nil
}

func (s *Supervisor) Start() {
	s.cron.Start()
}

// Stop prevents new ticks, cancels running ones and waits for them to
// return or for ctx to expire.
func (s *Supervisor) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sweeps still running at shutdown: %w", ctx.Err())
	}
}

func (s *Supervisor) tick(name string, fn SweepFunc) {
	ctx, cancel := context.WithTimeout(s.base, s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("sweep failed, retrying next tick",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("sweep done", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
}

// cronLogger adapts zap to robfig's logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
