// File: database/repository/subscription/interface.go
package subscriptionRepo

import (
	"context"
	"time"

	"techmate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "technician_subscriptions"

type SubscriptionRepository interface {
	// Create fails with utils.ErrAlreadySubscribed when another ACTIVE
	// subscription exists for the technician.
	Create(ctx context.Context, sub *models.TechnicianSubscription) error
	// FindActiveByTechnician returns mongo.ErrNoDocuments (wrapped) when there is none.
	FindActiveByTechnician(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error)
	ListByTechnician(ctx context.Context, technicianID string) ([]models.TechnicianSubscription, error)
	// ExtendActive moves endDate from currentEnd to newEnd and appends payment,
	// provided the subscription is still ACTIVE with endDate == currentEnd.
	ExtendActive(ctx context.Context, id string, currentEnd, newEnd time.Time, payment models.PaymentRecord) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (bool, error)
	// FindExpiredCandidates pages through ACTIVE subscriptions with endDate < now, ordered by id.
	FindExpiredCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.TechnicianSubscription, error)
	// ExpireIfDue flips ACTIVE to EXPIRED only if endDate < now still holds at write time.
	ExpireIfDue(ctx context.Context, id string, now time.Time) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo constructs a new MongoDB SubscriptionRepository.
func NewMongoSubscriptionRepo(db *mongo.Database) SubscriptionRepository {
	return &mongoSubscriptionRepo{
		coll: db.Collection(CollectionName),
	}
}
