// File: database/repository/booking/lookup.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techmate/models"
)

// MongoActivityLookup reads booking and warranty summaries owned by the
// booking service. It never writes.
type MongoActivityLookup struct {
	bookingColl  *mongo.Collection
	warrantyColl *mongo.Collection
}

func NewMongoActivityLookup(db *mongo.Database) *MongoActivityLookup {
	return &MongoActivityLookup{
		bookingColl:  db.Collection("bookings"),
		warrantyColl: db.Collection("booking_warranties"),
	}
}

var summaryProjection = bson.M{"id": 1, "code": 1, "status": 1, "customerName": 1, "address": 1, "createdAt": 1}

// Lookup returns summaries keyed by activity id. Unknown ids are absent from the map.
func (l *MongoActivityLookup) Lookup(ctx context.Context, bookingIDs, warrantyIDs []string) (map[string]models.ActivitySummary, error) {
	out := make(map[string]models.ActivitySummary, len(bookingIDs)+len(warrantyIDs))
	if err := l.fetch(ctx, l.bookingColl, bookingIDs, out); err != nil {
		return nil, err
	}
	if err := l.fetch(ctx, l.warrantyColl, warrantyIDs, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *MongoActivityLookup) fetch(ctx context.Context, coll *mongo.Collection, ids []string, out map[string]models.ActivitySummary) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var summaries []models.ActivitySummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return fmt.Errorf("error decoding %s: %w", coll.Name(), err)
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return nil
}
