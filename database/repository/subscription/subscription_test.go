package subscriptionRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"techmate/models"
	"techmate/utils"
)

func TestCreateDuplicateActive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: techmate.technician_subscriptions index: one_active_per_technician",
		}))
		repo := NewMongoSubscriptionRepo(mt.DB)

		err := repo.Create(context.Background(), &models.TechnicianSubscription{
			TechnicianID: "tech-1",
			PackageID:    "pkg-1",
			Status:       models.SubscriptionActive,
		})
		if !errors.Is(err, utils.ErrAlreadySubscribed) {
			t.Fatalf("err = %v, want ErrAlreadySubscribed", err)
		}
	})

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoSubscriptionRepo(mt.DB)

		sub := &models.TechnicianSubscription{TechnicianID: "tech-1", PackageID: "pkg-1", Status: models.SubscriptionActive}
		if err := repo.Create(context.Background(), sub); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if sub.ID == "" {
			t.Error("expected generated id")
		}
	})
}

func TestExpireIfDue(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("renewed in between", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))
		repo := NewMongoSubscriptionRepo(mt.DB)

		ok, err := repo.ExpireIfDue(context.Background(), "sub-1", now)
		if err != nil {
			t.Fatalf("ExpireIfDue: %v", err)
		}
		if ok {
			t.Error("expected no expiry when the predicate no longer matches")
		}
	})
}

func TestFindActiveByTechnicianNone(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("none", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "techmate.technician_subscriptions", mtest.FirstBatch))
		repo := NewMongoSubscriptionRepo(mt.DB)

		_, err := repo.FindActiveByTechnician(context.Background(), "tech-1")
		if !errors.Is(err, mongo.ErrNoDocuments) {
			t.Fatalf("err = %v, want ErrNoDocuments", err)
		}
	})
}
