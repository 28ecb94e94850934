package subscription

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	subscriptionRepo "techmate/database/repository/subscription"
)

// SweepResult summarises one expiry sweep.
type SweepResult struct {
	Scanned     int `json:"scanned"`
	Expired     int `json:"expired"`
	Technicians int `json:"technicians"`
	Failed      int `json:"failed"`
}

// Reconciler expires ACTIVE subscriptions whose end date has passed.
type Reconciler struct {
	Subscriptions subscriptionRepo.SubscriptionRepository
	Logger        *zap.Logger
	BatchSize     int64
	Now           func() time.Time
}

func NewReconciler(subs subscriptionRepo.SubscriptionRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		Subscriptions: subs,
		Logger:        logger,
		BatchSize:     200,
		Now:           time.Now,
	}
}

// Sweep is safe to repeat: each expiry re-checks endDate < now at write time,
// so a subscription renewed since it was read is left alone.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	now := r.Now().UTC()
	var res SweepResult
	technicians := make(map[string]struct{})

	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("subscription sweep interrupted: %w", err)
		}
		page, err := r.Subscriptions.FindExpiredCandidates(ctx, now, afterID, r.BatchSize)
		if err != nil {
			return res, fmt.Errorf("subscription sweep: %w", err)
		}

		for _, sub := range page {
			res.Scanned++
			expired, err := r.Subscriptions.ExpireIfDue(ctx, sub.ID, now)
			if err != nil {
				res.Failed++
				r.Logger.Error("subscription expiry failed",
					zap.String("subscriptionId", sub.ID),
					zap.String("technicianId", sub.TechnicianID),
					zap.Error(err),
				)
				continue
			}
			if expired {
				res.Expired++
				technicians[sub.TechnicianID] = struct{}{}
			}
		}

		if len(page) == 0 || int64(len(page)) < r.BatchSize {
			break
		}
		afterID = page[len(page)-1].ID
	}
	res.Technicians = len(technicians)

	r.Logger.Info("subscription sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("expired", res.Expired),
		zap.Int("technicians", res.Technicians),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
