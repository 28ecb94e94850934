package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	scheduleRepo "techmate/database/repository/schedule"
	"techmate/models"
	"techmate/utils"
)

// ActivityLookup resolves booking and warranty summaries for presentation.
type ActivityLookup interface {
	Lookup(ctx context.Context, bookingIDs, warrantyIDs []string) (map[string]models.ActivitySummary, error)
}

// IntervalSpec describes an interval to record. ScheduleStatus is not part of
// it: the facade only ever records occupancy.
type IntervalSpec struct {
	TechnicianID      string
	ScheduleType      models.ScheduleType
	StartTime         time.Time
	EndTime           *time.Time
	BookingID         string
	BookingWarrantyID string
	Note              string
}

// SchedulingFacade records and releases technician time in response to
// booking lifecycle events.
type SchedulingFacade struct {
	Repo       scheduleRepo.ScheduleRepository
	Resolver   *ConflictResolver
	Activities ActivityLookup
	Logger     *zap.Logger
}

func NewSchedulingFacade(repo scheduleRepo.ScheduleRepository, activities ActivityLookup, logger *zap.Logger) *SchedulingFacade {
	return &SchedulingFacade{
		Repo:       repo,
		Resolver:   NewConflictResolver(repo),
		Activities: activities,
		Logger:     logger,
	}
}

// FindConflicts exposes the resolver so callers only need the facade.
func (f *SchedulingFacade) FindConflicts(ctx context.Context, technicianID string, windowStart, windowEnd time.Time) ([]models.ScheduleInterval, error) {
	return f.Resolver.FindConflicts(ctx, technicianID, windowStart, windowEnd)
}

// CreateInterval persists an UNAVAILABLE interval. Pass a transaction ctx
// (database.Transactor) to make the write atomic with the caller's writes.
func (f *SchedulingFacade) CreateInterval(ctx context.Context, spec IntervalSpec) (*models.ScheduleInterval, error) {
	if spec.TechnicianID == "" {
		return nil, fmt.Errorf("%w: technician id is required", utils.ErrInvalidInput)
	}
	if spec.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", utils.ErrInvalidInput)
	}
	if spec.EndTime != nil && !spec.StartTime.Before(*spec.EndTime) {
		return nil, fmt.Errorf("%w: interval ends before it starts", utils.ErrInvalidRange)
	}
	if spec.BookingID != "" && spec.BookingWarrantyID != "" {
		return nil, fmt.Errorf("%w: an interval references at most one activity", utils.ErrInvalidInput)
	}
	if spec.ScheduleType == "" {
		spec.ScheduleType = models.ScheduleTypeBooking
	}

	interval := &models.ScheduleInterval{
		TechnicianID:      spec.TechnicianID,
		ScheduleType:      spec.ScheduleType,
		ScheduleStatus:    models.ScheduleStatusUnavailable,
		StartTime:         spec.StartTime.UTC(),
		EndTime:           utcPtr(spec.EndTime),
		BookingID:         spec.BookingID,
		BookingWarrantyID: spec.BookingWarrantyID,
		Note:              spec.Note,
	}
	if err := f.Repo.Create(ctx, interval); err != nil {
		return nil, err
	}
	return interval, nil
}

// CreateIntervalForActivity derives an interval from an activity snapshot.
// Unassigned, urgent or untimed activities are skipped, not failed.
func (f *SchedulingFacade) CreateIntervalForActivity(ctx context.Context, snap models.ActivitySnapshot) CreateResult {
	logger := f.Logger.With(zap.String("activityId", snap.ActivityID))

	if snap.TechnicianID == "" {
		return Skipped(SkipNoTechnician)
	}
	if snap.IsUrgent {
		return Skipped(SkipUrgent)
	}
	start, end := snap.Schedule.StartTime, snap.Schedule.ExpectedEndTime
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return Skipped(SkipMissingTime)
	}
	if !start.Before(*end) {
		logger.Warn("activity has inverted schedule, no interval recorded",
			zap.String("technicianId", snap.TechnicianID),
			zap.Time("startTime", *start),
			zap.Time("expectedEndTime", *end),
		)
		return Skipped(SkipInvertedTime)
	}

	spec := IntervalSpec{
		TechnicianID: snap.TechnicianID,
		ScheduleType: models.ScheduleTypeBooking,
		StartTime:    *start,
		EndTime:      end,
		BookingID:    snap.ActivityID,
		Note:         "Booking " + activityLabel(snap),
	}
	if snap.Kind == models.ActivityKindWarranty {
		spec.ScheduleType = models.ScheduleTypeWarranty
		spec.BookingID = ""
		spec.BookingWarrantyID = snap.ActivityID
		spec.Note = "Warranty " + activityLabel(snap)
	}

	interval, err := f.CreateInterval(ctx, spec)
	if err != nil {
		logger.Error("failed to record activity interval", zap.Error(err))
		return Failed(err)
	}
	logger.Debug("activity interval recorded", zap.String("intervalId", interval.ID))
	return Created(interval)
}

// DeleteIntervalsForActivity releases every BOOKING interval of the activity
// and reports how many were removed.
func (f *SchedulingFacade) DeleteIntervalsForActivity(ctx context.Context, activityID string) (int64, error) {
	return f.deleteFor(ctx, models.ScheduleTypeBooking, activityID)
}

// DeleteIntervalsForWarranty is the warranty-visit counterpart of
// DeleteIntervalsForActivity.
func (f *SchedulingFacade) DeleteIntervalsForWarranty(ctx context.Context, warrantyID string) (int64, error) {
	return f.deleteFor(ctx, models.ScheduleTypeWarranty, warrantyID)
}

func (f *SchedulingFacade) deleteFor(ctx context.Context, scheduleType models.ScheduleType, activityID string) (int64, error) {
	if activityID == "" {
		return 0, fmt.Errorf("%w: activity id is required", utils.ErrInvalidInput)
	}
	n, err := f.Repo.DeleteByActivity(ctx, scheduleType, activityID)
	if err != nil {
		return 0, err
	}
	f.Logger.Debug("released activity intervals",
		zap.String("activityId", activityID),
		zap.String("scheduleType", string(scheduleType)),
		zap.Int64("removed", n),
	)
	return n, nil
}

// IntervalsInRange returns the conflicts of the window decorated with the
// referenced activity. Enrichment failures degrade to bare intervals.
func (f *SchedulingFacade) IntervalsInRange(ctx context.Context, technicianID string, start, end time.Time) ([]models.EnrichedInterval, error) {
	intervals, err := f.Resolver.FindConflicts(ctx, technicianID, start, end)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedInterval, len(intervals))
	for i, iv := range intervals {
		enriched[i] = models.EnrichedInterval{ScheduleInterval: iv}
	}
	if f.Activities == nil || len(intervals) == 0 {
		return enriched, nil
	}

	var bookingIDs, warrantyIDs []string
	for _, iv := range intervals {
		switch {
		case iv.BookingID != "":
			bookingIDs = append(bookingIDs, iv.BookingID)
		case iv.BookingWarrantyID != "":
			warrantyIDs = append(warrantyIDs, iv.BookingWarrantyID)
		}
	}

	summaries, err := f.Activities.Lookup(ctx, bookingIDs, warrantyIDs)
	if err != nil {
		f.Logger.Warn("activity enrichment failed", zap.String("technicianId", technicianID), zap.Error(err))
		return enriched, nil
	}
	for i := range enriched {
		if s, ok := summaries[enriched[i].ActivityID()]; ok {
			summary := s
			enriched[i].Activity = &summary
		}
	}
	return enriched, nil
}

func activityLabel(snap models.ActivitySnapshot) string {
	if snap.Code != "" {
		return snap.Code
	}
	return snap.ActivityID
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
