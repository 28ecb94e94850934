package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"techmate/utils"
)

const (
	transientTransactionLabel = "TransientTransactionError"
	writeConflictCode         = 112
)

// Transactor runs fn as one atomic unit. Repository calls made with the ctx
// handed to fn join the transaction. fn may run more than once, so it must
// not have effects outside the store.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor implements Transactor with a multi-document transaction.
// It needs a replica set or sharded deployment.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

// WithTransaction retries fn on TransientTransactionError and the commit on
// UnknownTransactionCommitResult, so a write conflict with a concurrent
// transaction re-runs against the committed state and fails through the
// conditional filters instead.
func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(context.Background())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return classifyTxError(err)
}

// classifyTxError turns a conflict that outlived the driver's retry budget
// into a conflict error. Everything else passes through unchanged.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) &&
		(serverErr.HasErrorLabel(transientTransactionLabel) || serverErr.HasErrorCode(writeConflictCode)) {
		return fmt.Errorf("%w: %v", utils.ErrConcurrentUpdate, err)
	}
	return err
}
