package availability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	scheduleRepo "techmate/database/repository/schedule"
	technicianRepo "techmate/database/repository/technician"
	"techmate/models"
	"techmate/utils"
)

// SweepResult summarises one availability sweep.
type SweepResult struct {
	Scanned      int `json:"scanned"`
	Transitioned int `json:"transitioned"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

// Reconciler moves idle technicians to ONJOB once one of their booked
// intervals has started.
type Reconciler struct {
	Technicians technicianRepo.TechnicianRepository
	Schedules   scheduleRepo.ScheduleRepository
	Logger      *zap.Logger
	// Lookback is how far behind now an interval start still counts. It
	// should be at least one tick so restarts do not miss transitions.
	Lookback    time.Duration
	BatchSize   int64
	Concurrency int
	Now         func() time.Time
}

func NewReconciler(techs technicianRepo.TechnicianRepository, schedules scheduleRepo.ScheduleRepository, logger *zap.Logger, lookback time.Duration) *Reconciler {
	return &Reconciler{
		Technicians: techs,
		Schedules:   schedules,
		Logger:      logger,
		Lookback:    lookback,
		BatchSize:   200,
		Concurrency: 8,
		Now:         time.Now,
	}
}

// Sweep runs one pass over APPROVED+FREE technicians. A failure on one
// technician is logged and skipped; only a failed page read aborts the sweep.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	now := r.Now().UTC()
	from := now.Add(-r.Lookback)

	var scanned, transitioned, skipped, failed atomic.Int64
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return r.result(&scanned, &transitioned, &skipped, &failed), fmt.Errorf("availability sweep interrupted: %w", err)
		}

		page, err := r.Technicians.ListByStatusAndAvailability(ctx, models.TechnicianStatusApproved, models.AvailabilityFree, afterID, r.BatchSize)
		if err != nil {
			return r.result(&scanned, &transitioned, &skipped, &failed), fmt.Errorf("availability sweep: %w", err)
		}
		if len(page) == 0 {
			break
		}

		var g errgroup.Group
		g.SetLimit(r.concurrency())
		for _, tech := range page {
			g.Go(func() error {
				scanned.Add(1)
				moved, err := r.reconcileOne(ctx, tech, from, now)
				if err != nil {
					failed.Add(1)
					r.Logger.Error("availability reconcile failed",
						zap.String("technicianId", tech.ID),
						zap.Error(err),
					)
					return nil
				}
				if moved {
					transitioned.Add(1)
				} else {
					skipped.Add(1)
				}
				return nil
			})
		}
		_ = g.Wait()

		afterID = page[len(page)-1].ID
		if int64(len(page)) < r.BatchSize {
			break
		}
	}

	res := r.result(&scanned, &transitioned, &skipped, &failed)
	r.Logger.Info("availability sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("transitioned", res.Transitioned),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, tech models.Technician, from, now time.Time) (bool, error) {
	current := tech.Availability
	if current == "" {
		current = models.AvailabilityFree
	}
	if !current.CanTransitionTo(models.AvailabilityOnJob) {
		return false, fmt.Errorf("%w: %s -> %s", utils.ErrInvalidTransition, current, models.AvailabilityOnJob)
	}

	started, err := r.Schedules.ExistsStartingBetween(ctx, tech.ID, models.ScheduleStatusUnavailable, from, now)
	if err != nil {
		return false, err
	}
	if !started {
		return false, nil
	}

	moved, err := r.Technicians.TransitionAvailability(ctx, tech.ID, models.AvailabilityFree, models.AvailabilityOnJob)
	if err != nil {
		return false, err
	}
	if moved {
		r.Logger.Info("technician is now on job", zap.String("technicianId", tech.ID))
	}
	return moved, nil
}

func (r *Reconciler) concurrency() int {
	if r.Concurrency < 1 {
		return 1
	}
	return r.Concurrency
}

func (r *Reconciler) result(scanned, transitioned, skipped, failed *atomic.Int64) SweepResult {
	return SweepResult{
		Scanned:      int(scanned.Load()),
		Transitioned: int(transitioned.Load()),
		Skipped:      int(skipped.Load()),
		Failed:       int(failed.Load()),
	}
}
