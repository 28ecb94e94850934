package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	scheduleRepo "techmate/database/repository/schedule"
	"techmate/models"
	"techmate/utils"
)

// ConflictResolver answers which commitments of a technician intersect a
// time window. It never writes.
type ConflictResolver struct {
	Repo scheduleRepo.ScheduleRepository
}

func NewConflictResolver(repo scheduleRepo.ScheduleRepository) *ConflictResolver {
	return &ConflictResolver{Repo: repo}
}

// Overlaps is the half-open test between [iv.StartTime, iv.EndTime) and
// [start, end). A nil end time extends to infinity. Touching endpoints do not overlap.
func Overlaps(iv models.ScheduleInterval, start, end time.Time) bool {
	if !iv.StartTime.Before(end) {
		return false
	}
	return iv.EndTime == nil || iv.EndTime.After(start)
}

// FindConflicts returns the technician's intervals intersecting
// [windowStart, windowEnd) in ascending start order.
func (r *ConflictResolver) FindConflicts(ctx context.Context, technicianID string, windowStart, windowEnd time.Time) ([]models.ScheduleInterval, error) {
	if technicianID == "" {
		return nil, fmt.Errorf("%w: technician id is required", utils.ErrInvalidInput)
	}
	if !windowStart.Before(windowEnd) {
		return nil, fmt.Errorf("%w: %s is not before %s", utils.ErrInvalidRange,
			windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
	}

	stored, err := r.Repo.FindOverlapping(ctx, technicianID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("find conflicts for technician %s: %w", technicianID, err)
	}

	conflicts := make([]models.ScheduleInterval, 0, len(stored))
	for _, iv := range stored {
		if Overlaps(iv, windowStart, windowEnd) {
			conflicts = append(conflicts, iv)
		}
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		if !conflicts[i].StartTime.Equal(conflicts[j].StartTime) {
			return conflicts[i].StartTime.Before(conflicts[j].StartTime)
		}
		return conflicts[i].ID < conflicts[j].ID
	})
	return conflicts, nil
}
