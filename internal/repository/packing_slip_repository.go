package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicatePackingSlip is returned when the invoice already has a slip.
	ErrDuplicatePackingSlip = errors.New("packing slip already exists")
	// ErrDuplicateSlipNumber is returned when the slip number is already taken
	// by another slip. It matches ErrDuplicatePackingSlip too.
	ErrDuplicateSlipNumber = fmt.Errorf("%w: packing slip number is taken", ErrDuplicatePackingSlip)
)

const duplicateKeyCode = 11000

// PackingSlipRepository persists generated packing slips. Slips are never updated.
type PackingSlipRepository struct {
	collection *mongo.Collection
}

// NewPackingSlipRepository creates a new packing slip repository.
func NewPackingSlipRepository(db *MongoDB) *PackingSlipRepository {
	return &PackingSlipRepository{
		collection: db.PackingSlips,
	}
}

// Create inserts a packing slip.
func (r *PackingSlipRepository) Create(ctx context.Context, slip *model.PackingSlip) error {
	_, err := r.collection.InsertOne(ctx, slip)
	switch {
	case err == nil:
		return nil
	case duplicateOnID(err):
		return ErrDuplicateSlipNumber
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicatePackingSlip
	}
	return err
}

// duplicateOnID reports whether err is a duplicate key error raised by the
// _id index rather than the unique invoice_id index.
func duplicateOnID(err error) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code != duplicateKeyCode {
			continue
		}
		if pattern, ok := e.Raw.Lookup("keyPattern").DocumentOK(); ok {
			if _, lookupErr := pattern.LookupErr("_id"); lookupErr == nil {
				return true
			}
			continue
		}
		if strings.Contains(e.Message, " index: _id_ ") {
			return true
		}
	}
	return false
}

// FindByNo returns the slip with the given number, or nil if none exists.
func (r *PackingSlipRepository) FindByNo(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	return r.findOne(ctx, bson.M{"_id": packingSlipNo})
}

// FindByInvoice returns the slip generated for an invoice, or nil if none exists.
func (r *PackingSlipRepository) FindByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	return r.findOne(ctx, bson.M{"invoice_id": invoiceID})
}

func (r *PackingSlipRepository) findOne(ctx context.Context, filter bson.M) (*model.PackingSlip, error) {
	var slip model.PackingSlip
	err := r.collection.FindOne(ctx, filter).Decode(&slip)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

// List returns the most recently generated slips first.
func (r *PackingSlipRepository) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	slips := []model.PackingSlip{}
	if err := cursor.All(ctx, &slips); err != nil {
		return nil, err
	}
	return slips, nil
}
