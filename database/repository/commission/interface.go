// File: database/repository/commission/interface.go
package commissionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"techmate/models"
)

const CollectionName = "commission_packages"

// PackageRepository is read-only; packages are managed by the catalogue service.
type PackageRepository interface {
	GetByID(ctx context.Context, id string) (*models.CommissionPackage, error)
}

type mongoPackageRepo struct {
	coll *mongo.Collection
}

func NewMongoPackageRepo(db *mongo.Database) PackageRepository {
	return &mongoPackageRepo{coll: db.Collection(CollectionName)}
}

// GetByID returns mongo.ErrNoDocuments (wrapped) when the package is missing.
func (r *mongoPackageRepo) GetByID(ctx context.Context, id string) (*models.CommissionPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pkg models.CommissionPackage
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("commission package %s: %w", id, err)
		}
		return nil, fmt.Errorf("error fetching commission package %s: %w", id, err)
	}
	return &pkg, nil
}
