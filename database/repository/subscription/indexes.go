// FILE: database/repository/subscription/indexes.go
package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techmate/models"
)

// EnsureIndexes creates the subscription indexes. The partial unique index
// allows at most one ACTIVE subscription per technician.
func (r *mongoSubscriptionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "technicianId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("one_active_per_technician").
				SetPartialFilterExpression(bson.M{"status": models.SubscriptionActive}),
		},
		{
			Keys:    bson.D{{Key: "technicianId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("technician_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create subscription indexes: %w", err)
	}
	return nil
}
