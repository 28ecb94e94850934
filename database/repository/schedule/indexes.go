// FILE: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes behind the range and activity lookups.
func (r *mongoScheduleRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Range lookups per technician.
		{
			Keys:    bson.D{{Key: "technicianId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("technician_start_idx"),
		},
		// Availability sweep.
		{
			Keys:    bson.D{{Key: "technicianId", Value: 1}, {Key: "scheduleStatus", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("technician_status_start_idx"),
		},
		{
			Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "scheduleType", Value: 1}},
			Options: options.Index().SetName("booking_type_idx").
				SetPartialFilterExpression(bson.M{"bookingId": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "bookingWarrantyId", Value: 1}, {Key: "scheduleType", Value: 1}},
			Options: options.Index().SetName("warranty_type_idx").
				SetPartialFilterExpression(bson.M{"bookingWarrantyId": bson.M{"$exists": true}}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}
	return nil
}
