// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"techmate/models"
)

// Create inserts an interval. When ctx belongs to a session transaction the
// insert commits or rolls back with it.
func (r *mongoScheduleRepo) Create(ctx context.Context, interval *models.ScheduleInterval) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if interval.ID == "" {
		interval.ID = uuid.New().String()
	}
	if interval.CreatedAt.IsZero() {
		interval.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, interval); err != nil {
		return fmt.Errorf("failed to insert schedule interval: %w", err)
	}
	return nil
}

// DeleteByActivity removes every interval of the given type that references
// activityID. Zero deletions is not an error.
func (r *mongoScheduleRepo) DeleteByActivity(ctx context.Context, scheduleType models.ScheduleType, activityID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	refField := "bookingId"
	if scheduleType == models.ScheduleTypeWarranty {
		refField = "bookingWarrantyId"
	}
	filter := bson.M{
		refField:       activityID,
		"scheduleType": scheduleType,
	}

	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete intervals for activity %s: %w", activityID, err)
	}
	return res.DeletedCount, nil
}
