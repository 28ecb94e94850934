package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"techmate/config"
	"techmate/utils"
)

const (
	TypeReconcileAvailability  = "reconcile:availability"
	TypeReconcileSubscriptions = "reconcile:subscriptions"
)

// jobTypes maps the names used by the admin API to task types.
var jobTypes = map[string]string{
	"availability":  TypeReconcileAvailability,
	"subscriptions": TypeReconcileSubscriptions,
}

// QueueRedisOpt builds the asynq connection from config.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Worker processes manually requested sweeps from the queue.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewWorker registers one handler per sweep. timeout bounds each run the same
// way scheduled ticks are bounded.
func NewWorker(opt asynq.RedisClientOpt, logger *zap.Logger, timeout time.Duration, availability, subscriptions SweepFunc) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Named("asynq").Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeReconcileAvailability, handleSweep(logger, timeout, availability))
	mux.Handle(TypeReconcileSubscriptions, handleSweep(logger, timeout, subscriptions))

	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker and its redis monitor in the background.
func (w *Worker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("could not start sweep worker: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go monitorRedisConnection(ctx, w.logger)
	w.logger.Info("sweep worker started")
	return nil
}

func (w *Worker) Shutdown() {
	if w.cancel != nil {
		w.cancel()
	}
	w.srv.Shutdown()
	w.logger.Info("sweep worker stopped")
}

func handleSweep(logger *zap.Logger, timeout time.Duration, fn SweepFunc) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		logger.Info("manual sweep started", zap.String("type", task.Type()))
		if err := fn(ctx); err != nil {
			logger.Error("manual sweep failed", zap.String("type", task.Type()), zap.Error(err))
			return err
		}
		return nil
	}
}

// Enqueuer submits manual sweeps. A job already waiting in the queue is not
// queued twice.
type Enqueuer struct {
	client    *asynq.Client
	uniqueTTL time.Duration
}

func NewEnqueuer(opt asynq.RedisClientOpt, uniqueTTL time.Duration) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(opt), uniqueTTL: uniqueTTL}
}

// Enqueue returns the task id, or alreadyQueued when the same job is pending.
func (e *Enqueuer) Enqueue(ctx context.Context, job string) (taskID string, alreadyQueued bool, err error) {
	typ, ok := jobTypes[job]
	if !ok {
		return "", false, fmt.Errorf("%w: unknown sweep %q", utils.ErrInvalidInput, job)
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(typ, nil), asynq.Unique(e.uniqueTTL), asynq.MaxRetry(0))
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return "", true, nil
		}
		return "", false, fmt.Errorf("could not enqueue %s: %w", typ, err)
	}
	return info.ID, false, nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// monitorRedisConnection pings the queue database so an outage shows up in
// the logs before tasks start failing.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := utils.NewRedisClient(config.AppConfig.RedisQueueDB)
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && !errors.Is(err, redis.ErrClosed) {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
