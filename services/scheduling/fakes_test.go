package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"techmate/models"
)

// fakeScheduleRepo keeps intervals in memory. FindOverlapping returns every
// interval of the technician so the resolver's own filtering is exercised.
type fakeScheduleRepo struct {
	mu        sync.Mutex
	intervals []models.ScheduleInterval
	createErr error
}

func (r *fakeScheduleRepo) Create(ctx context.Context, iv *models.ScheduleInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if iv.ID == "" {
		iv.ID = uuid.New().String()
	}
	r.intervals = append(r.intervals, *iv)
	return nil
}

func (r *fakeScheduleRepo) FindOverlapping(ctx context.Context, technicianID string, start, end time.Time) ([]models.ScheduleInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ScheduleInterval
	for _, iv := range r.intervals {
		if iv.TechnicianID == technicianID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) DeleteByActivity(ctx context.Context, scheduleType models.ScheduleType, activityID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []models.ScheduleInterval
	var n int64
	for _, iv := range r.intervals {
		if iv.ScheduleType == scheduleType && iv.ActivityID() == activityID {
			n++
			continue
		}
		kept = append(kept, iv)
	}
	r.intervals = kept
	return n, nil
}

func (r *fakeScheduleRepo) ExistsStartingBetween(ctx context.Context, technicianID string, status models.ScheduleStatus, from, to time.Time) (bool, error) {
	return false, errors.New("not used")
}

func (r *fakeScheduleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeLookup struct {
	summaries map[string]models.ActivitySummary
	err       error
}

func (l *fakeLookup) Lookup(ctx context.Context, bookingIDs, warrantyIDs []string) (map[string]models.ActivitySummary, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.summaries, nil
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }
