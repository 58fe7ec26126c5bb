//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlip(no, invoiceID string, generatedAt time.Time) *model.PackingSlip {
	return &model.PackingSlip{
		PackingSlipNo: no,
		InvoiceID:     invoiceID,
		InvoiceNo:     "SI/" + invoiceID,
		BoxCapacity:   1000,
		Boxes: []model.Box{
			{BoxNumber: 1, TotalBoxes: 2, TotalQty: 1000, Contents: []model.BoxContent{
				{LotNumber: "A", SourceRef: "GRN-A", ItemID: "SKU-1", Qty: 700},
				{LotNumber: "B", SourceRef: "GRN-B", ItemID: "SKU-1", Qty: 300},
			}},
			{BoxNumber: 2, TotalBoxes: 2, TotalQty: 200, Contents: []model.BoxContent{
				{LotNumber: "B", SourceRef: "GRN-B", ItemID: "SKU-1", Qty: 200},
			}},
		},
		TotalQty:    1200,
		TotalBoxes:  2,
		GeneratedAt: generatedAt.UTC().Truncate(time.Millisecond),
		GeneratedBy: "tester",
	}
}

func TestPackingSlipRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestMongoDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewPackingSlipRepository(db)
	base := time.Now()

	t.Run("create and find", func(t *testing.T) {
		slip := testSlip("PS-1", "INV-1", base)
		require.NoError(t, repo.Create(ctx, slip))

		byNo, err := repo.FindByNo(ctx, "PS-1")
		require.NoError(t, err)
		assert.Equal(t, slip, byNo)

		byInvoice, err := repo.FindByInvoice(ctx, "INV-1")
		require.NoError(t, err)
		assert.Equal(t, slip, byInvoice)
	})

	t.Run("missing slip returns nil", func(t *testing.T) {
		slip, err := repo.FindByNo(ctx, "PS-404")
		require.NoError(t, err)
		assert.Nil(t, slip)
	})

	t.Run("taken number rejected", func(t *testing.T) {
		err := repo.Create(ctx, testSlip("PS-1", "INV-OTHER", base))
		assert.ErrorIs(t, err, ErrDuplicateSlipNumber)
		assert.ErrorIs(t, err, ErrDuplicatePackingSlip)
	})

	t.Run("second slip for an invoice rejected", func(t *testing.T) {
		err := repo.Create(ctx, testSlip("PS-2", "INV-1", base))
		assert.True(t, errors.Is(err, ErrDuplicatePackingSlip))
		assert.False(t, errors.Is(err, ErrDuplicateSlipNumber))
	})

	t.Run("list newest first", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testSlip("PS-3", "INV-3", base.Add(time.Minute))))

		slips, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, slips, 2)
		assert.Equal(t, "PS-3", slips[0].PackingSlipNo)
		assert.Equal(t, "PS-1", slips[1].PackingSlipNo)

		limited, err := repo.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestAllocationRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestMongoDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewAllocationRepository(db)

	lines := []model.LineAllocation{
		{ItemID: "SKU-1", ItemName: "Yarn", Qty: 1200, Lots: []model.LotAllocation{
			{LotNumber: "A", SourceRef: "GRN-A", Qty: 700},
			{LotNumber: "B", SourceRef: "GRN-B", Qty: 500},
		}},
		{ItemID: "SKU-2", ItemName: "Thread", Qty: 10, Lots: []model.LotAllocation{
			{LotNumber: "C", SourceRef: "GRN-C", Qty: 10},
		}},
	}

	require.NoError(t, repo.ReplaceForInvoice(ctx, "INV-1", lines))

	got, err := repo.GetLineAllocations(ctx, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, lines, got, "line and lot order preserved")

	require.NoError(t, repo.ReplaceForInvoice(ctx, "INV-1", lines[:1]))
	got, err = repo.GetLineAllocations(ctx, "INV-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	none, err := repo.GetLineAllocations(ctx, "INV-EMPTY")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMongoTxRunner_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestMongoDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	invoices := NewInvoiceRepository(db)
	slips := NewPackingSlipRepository(db)
	tx := NewMongoTxRunner(db)

	seedInvoice(t, invoices, "INV-TX", model.InvoiceStatusReserved)

	t.Run("rollback discards both writes", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := slips.Create(txCtx, testSlip("PS-TX-1", "INV-TX", time.Now())); err != nil {
				return err
			}
			if _, err := invoices.UpdateStatus(txCtx, "INV-TX", model.InvoiceStatusReserved, model.InvoiceStatusPacked); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		slip, err := slips.FindByNo(ctx, "PS-TX-1")
		require.NoError(t, err)
		assert.Nil(t, slip)

		inv, err := invoices.Get(ctx, "INV-TX")
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusReserved, inv.Status)
	})

	t.Run("commit applies both writes", func(t *testing.T) {
		err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := slips.Create(txCtx, testSlip("PS-TX-2", "INV-TX", time.Now())); err != nil {
				return err
			}
			_, err := invoices.UpdateStatus(txCtx, "INV-TX", model.InvoiceStatusReserved, model.InvoiceStatusPacked)
			return err
		})
		require.NoError(t, err)

		slip, err := slips.FindByNo(ctx, "PS-TX-2")
		require.NoError(t, err)
		assert.NotNil(t, slip)

		inv, err := invoices.Get(ctx, "INV-TX")
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusPacked, inv.Status)
	})
}
