package repository

import (
	"context"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LineAllocationDocument stores one invoice line's lot breakdown.
type LineAllocationDocument struct {
	InvoiceID            string `bson:"invoice_id"`
	LineNo               int    `bson:"line_no"`
	model.LineAllocation `bson:",inline"`
}

// AllocationRepository reads lot-level fulfillment records.
type AllocationRepository struct {
	collection *mongo.Collection
}

// NewAllocationRepository creates a new allocation repository.
func NewAllocationRepository(db *MongoDB) *AllocationRepository {
	return &AllocationRepository{
		collection: db.LineAllocations,
	}
}

// GetLineAllocations returns the invoice's line allocations in line order.
// Lot order inside each line is preserved as stored.
func (r *AllocationRepository) GetLineAllocations(ctx context.Context, invoiceID string) ([]model.LineAllocation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "line_no", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"invoice_id": invoiceID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []LineAllocationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	lines := make([]model.LineAllocation, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, d.LineAllocation)
	}
	return lines, nil
}

// ReplaceForInvoice replaces the stored allocations of an invoice.
// Lines are numbered in slice order starting at 1.
func (r *AllocationRepository) ReplaceForInvoice(ctx context.Context, invoiceID string, lines []model.LineAllocation) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"invoice_id": invoiceID}); err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	docs := make([]interface{}, len(lines))
	for i, l := range lines {
		docs[i] = LineAllocationDocument{
			InvoiceID:      invoiceID,
			LineNo:         i + 1,
			LineAllocation: l,
		}
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
