package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs fn inside a transaction. Repository calls made with the context
// passed to fn take part in the transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner runs transactions on a MongoDB replica set.
type MongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner creates a transaction runner for the given connection.
func NewMongoTxRunner(db *MongoDB) *MongoTxRunner {
	return &MongoTxRunner{client: db.Client}
}

// WithTransaction starts a session and commits fn's writes atomically. The driver
// retries fn on transient transaction errors, so fn must be safe to re-run.
func (t *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NoopTxRunner runs fn directly. It serves stores without transaction support.
type NoopTxRunner struct{}

// WithTransaction calls fn with ctx.
func (NoopTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
