// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"time"

	"techmate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "schedule_intervals"

type ScheduleRepository interface {
	Create(ctx context.Context, interval *models.ScheduleInterval) error
	FindOverlapping(ctx context.Context, technicianID string, start, end time.Time) ([]models.ScheduleInterval, error)
	DeleteByActivity(ctx context.Context, scheduleType models.ScheduleType, activityID string) (int64, error)
	ExistsStartingBetween(ctx context.Context, technicianID string, status models.ScheduleStatus, from, to time.Time) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		coll: db.Collection(CollectionName),
	}
}
