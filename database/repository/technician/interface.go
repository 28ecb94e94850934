// File: database/repository/technician/interface.go
package technicianRepo

import (
	"context"

	"techmate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "technicians"

type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	// ListByStatusAndAvailability pages through technicians ordered by id,
	// starting after afterID.
	ListByStatusAndAvailability(ctx context.Context, status models.TechnicianStatus, availability models.Availability, afterID string, limit int64) ([]models.Technician, error)
	// TransitionAvailability writes to only if the stored value is still from.
	TransitionAvailability(ctx context.Context, id string, from, to models.Availability) (bool, error)
	// DebitBalance subtracts amount only if the balance covers it.
	DebitBalance(ctx context.Context, id string, amount float64) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTechnicianRepo struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepo constructs a new MongoDB TechnicianRepository.
func NewMongoTechnicianRepo(db *mongo.Database) TechnicianRepository {
	return &mongoTechnicianRepo{
		coll: db.Collection(CollectionName),
	}
}
