// File: database/repository/schedule/queries.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techmate/models"
)

// FindOverlapping returns intervals of a technician intersecting [start, end),
// treating a null endTime as unbounded, sorted by startTime.
func (r *mongoScheduleRepo) FindOverlapping(ctx context.Context, technicianID string, start, end time.Time) ([]models.ScheduleInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"technicianId": technicianID,
		"startTime":    bson.M{"$lt": end},
		"$or": bson.A{
			bson.M{"endTime": nil},
			bson.M{"endTime": bson.M{"$gt": start}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}, {Key: "id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping intervals: %w", err)
	}
	defer cursor.Close(ctx)

	intervals := []models.ScheduleInterval{}
	if err := cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("error decoding schedule intervals: %w", err)
	}
	return intervals, nil
}

// ExistsStartingBetween reports whether the technician has an interval with
// the given status whose startTime lies in [from, to].
func (r *mongoScheduleRepo) ExistsStartingBetween(ctx context.Context, technicianID string, status models.ScheduleStatus, from, to time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"technicianId":   technicianID,
		"scheduleStatus": status,
		"startTime":      bson.M{"$gte": from, "$lte": to},
	}
	opts := options.FindOne().SetProjection(bson.M{"id": 1})

	var hit struct {
		ID string `bson:"id"`
	}
	err := r.coll.FindOne(ctx, filter, opts).Decode(&hit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up started intervals: %w", err)
	}
	return true, nil
}
