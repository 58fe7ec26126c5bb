package repository

import (
	"context"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogsRepository stores request and audit entries in the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository binds a LogsRepository to db.Logs.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

// Insert writes entries in one unordered batch, assigning an ID and a UTC
// timestamp to entries that lack them.
func (r *LogsRepository) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		docs = append(docs, e)
	}
	if len(docs) == 0 {
		return nil
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Find returns matching entries, newest first.
func (r *LogsRepository) Find(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(q), opts)
	if err != nil {
		return nil, err
	}

	entries := []model.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of matching entries. Limit and Skip are ignored.
func (r *LogsRepository) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(q))
}

func logFilter(q model.LogQuery) bson.M {
	filter := bson.M{}
	for field, value := range map[string]string{
		"request_id":  q.RequestID,
		"level":       q.Level,
		"action_type": q.ActionType,
		"invoice_id":  q.InvoiceID,
		"subject":     q.Subject,
	} {
		if value != "" {
			filter[field] = value
		}
	}

	window := bson.M{}
	if !q.Since.IsZero() {
		window["$gte"] = q.Since
	}
	if !q.Until.IsZero() {
		window["$lt"] = q.Until
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}
	return filter
}
