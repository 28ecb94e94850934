// File: database/repository/subscription/queries.go
package subscriptionRepo

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

func (r *mongoSubscriptionRepo) FindActiveByTechnician(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"technicianId": technicianID, "status": models.SubscriptionActive}
	var sub models.TechnicianSubscription
	if err := r.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("active subscription of technician %s: %w", technicianID, err)
		}
		return nil, fmt.Errorf("error fetching active subscription of technician %s: %w", technicianID, err)
	}
	return &sub, nil
}

func (r *mongoSubscriptionRepo) ListByTechnician(ctx context.Context, technicianID string) ([]models.TechnicianSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"technicianId": technicianID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	subs := []models.TechnicianSubscription{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding subscriptions: %w", err)
	}
	return subs, nil
}

func (r *mongoSubscriptionRepo) FindExpiredCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.TechnicianSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":  models.SubscriptionActive,
		"endDate": bson.M{"$lt": now},
	}
	if afterID != "" {
		filter["id"] = bson.M{"$gt": afterID}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"id": 1, "technicianId": 1, "status": 1, "endDate": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.TechnicianSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding expired subscriptions: %w", err)
	}
	return subs, nil
}
