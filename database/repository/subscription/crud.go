// File: database/repository/subscription/crud.go
package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"techmate/models"
	"techmate/utils"
)

func (r *mongoSubscriptionRepo) Create(ctx context.Context, sub *models.TechnicianSubscription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: technician %s", utils.ErrAlreadySubscribed, sub.TechnicianID)
		}
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

func (r *mongoSubscriptionRepo) ExtendActive(ctx context.Context, id string, currentEnd, newEnd time.Time, payment models.PaymentRecord) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"status":  models.SubscriptionActive,
		"endDate": currentEnd,
	}
	update := bson.M{
		"$set":  bson.M{"endDate": newEnd, "updatedAt": time.Now().UTC()},
		"$push": bson.M{"paymentHistory": payment},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to extend subscription %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSubscriptionRepo) TransitionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to move subscription %s to %s: %w", id, to, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSubscriptionRepo) ExpireIfDue(ctx context.Context, id string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"status":  models.SubscriptionActive,
		"endDate": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.SubscriptionExpired, "updatedAt": now}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to expire subscription %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}
