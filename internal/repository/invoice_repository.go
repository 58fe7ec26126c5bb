package repository

import (
	"context"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvoiceRepository reads invoice headers and performs guarded status transitions.
type InvoiceRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *MongoDB) *InvoiceRepository {
	return &InvoiceRepository{
		collection: db.Invoices,
		now:        time.Now,
	}
}

// Get returns the invoice with the given id, or nil if it does not exist.
func (r *InvoiceRepository) Get(ctx context.Context, id string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Upsert stores an invoice header as produced by the invoicing collaborator.
func (r *InvoiceRepository) Upsert(ctx context.Context, invoice *model.Invoice) error {
	if invoice.UpdatedAt.IsZero() {
		invoice.UpdatedAt = r.now()
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": invoice.ID}, invoice, options.Replace().SetUpsert(true))
	return err
}

// UpdateStatus moves the invoice from expected to next in a single conditional
// write. It reports false when the stored status is not expected (or the invoice
// is missing) and nothing was changed.
//
// Entering the reserved state stamps reserved_at; leaving it clears the stamp.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, expected, next model.InvoiceStatus) (bool, error) {
	now := r.now().UTC()

	update := bson.M{
		"$set": bson.M{
			"status":     next,
			"updated_at": now,
		},
	}
	if next == model.InvoiceStatusReserved {
		update["$set"].(bson.M)["reserved_at"] = now
	} else {
		update["$unset"] = bson.M{"reserved_at": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": expected}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// FindStaleReservations returns invoices reserved before the given time, oldest first.
func (r *InvoiceRepository) FindStaleReservations(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	filter := bson.M{
		"status":      model.InvoiceStatusReserved,
		"reserved_at": bson.M{"$lt": before},
	}

	opts := options.Find().SetSort(bson.D{{Key: "reserved_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var invoices []model.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ReleaseReservation moves a reserved invoice back to confirmed, but only if it
// still carries the reservation stamp observed by the caller. A reservation
// taken again in the meantime is left alone.
func (r *InvoiceRepository) ReleaseReservation(ctx context.Context, id string, reservedAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":         id,
		"status":      model.InvoiceStatusReserved,
		"reserved_at": reservedAt,
	}
	update := bson.M{
		"$set":   bson.M{"status": model.InvoiceStatusConfirmed, "updated_at": r.now().UTC()},
		"$unset": bson.M{"reserved_at": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}
