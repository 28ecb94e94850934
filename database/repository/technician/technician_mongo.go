package technicianRepo

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

// GetByID returns mongo.ErrNoDocuments (wrapped) when the technician is missing.
func (r *mongoTechnicianRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tech models.Technician
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tech); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("technician %s: %w", id, err)
		}
		return nil, fmt.Errorf("error fetching technician %s: %w", id, err)
	}
	return &tech, nil
}

func (r *mongoTechnicianRepo) ListByStatusAndAvailability(
	ctx context.Context,
	status models.TechnicianStatus,
	availability models.Availability,
	afterID string,
	limit int64,
) ([]models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":       status,
		"availability": availability,
	}
	if afterID != "" {
		filter["id"] = bson.M{"$gt": afterID}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"id": 1, "status": 1, "availability": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer cursor.Close(ctx)

	var techs []models.Technician
	if err := cursor.All(ctx, &techs); err != nil {
		return nil, fmt.Errorf("error decoding technicians: %w", err)
	}
	return techs, nil
}

func (r *mongoTechnicianRepo) TransitionAvailability(ctx context.Context, id string, from, to models.Availability) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "availability": from}
	update := bson.M{"$set": bson.M{
		"availability": to,
		"updatedAt":    time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update availability of technician %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoTechnicianRepo) DebitBalance(ctx context.Context, id string, amount float64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to debit balance of technician %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates the indexes used by lookups and the availability sweep.
func (r *mongoTechnicianRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "availability", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetName("status_availability_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create technician indexes: %w", err)
	}
	return nil
}
