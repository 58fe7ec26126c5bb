//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-slip-service/internal/circuitbreaker"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("connection reset")

type stubInvoiceRepo struct {
	invoice *model.Invoice
	matched bool
	err     error
	calls   int
}

func (s *stubInvoiceRepo) Get(ctx context.Context, id string) (*model.Invoice, error) {
	s.calls++
	return s.invoice, s.err
}

func (s *stubInvoiceRepo) UpdateStatus(ctx context.Context, id string, expected, next model.InvoiceStatus) (bool, error) {
	s.calls++
	return s.matched, s.err
}

func (s *stubInvoiceRepo) FindStaleReservations(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	s.calls++
	if s.invoice == nil {
		return nil, s.err
	}
	return []model.Invoice{*s.invoice}, s.err
}

func (s *stubInvoiceRepo) ReleaseReservation(ctx context.Context, id string, reservedAt time.Time) (bool, error) {
	s.calls++
	return s.matched, s.err
}

type stubSlipRepo struct {
	err   error
	calls int
}

func (s *stubSlipRepo) Create(ctx context.Context, slip *model.PackingSlip) error {
	s.calls++
	return s.err
}

func (s *stubSlipRepo) FindByNo(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	s.calls++
	return nil, s.err
}

func (s *stubSlipRepo) FindByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	s.calls++
	return nil, s.err
}

func (s *stubSlipRepo) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	s.calls++
	return nil, s.err
}

type stubLogsRepo struct {
	err   error
	calls int
}

func (s *stubLogsRepo) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	s.calls++
	return s.err
}

func (s *stubLogsRepo) Find(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	s.calls++
	return nil, s.err
}

func (s *stubLogsRepo) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	s.calls++
	return 0, s.err
}

func newTestBreaker(threshold int) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: threshold,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test",
		IsSuccessful:     IsBreakerNeutral,
	})
}

func TestInvoiceRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("passes results through", func(t *testing.T) {
		inner := &stubInvoiceRepo{invoice: &model.Invoice{ID: "INV-1"}, matched: true}
		repo := NewInvoiceRepositoryWithCircuitBreaker(inner, newTestBreaker(2))

		inv, err := repo.Get(ctx, "INV-1")
		require.NoError(t, err)
		assert.Equal(t, "INV-1", inv.ID)

		ok, err := repo.UpdateStatus(ctx, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved)
		require.NoError(t, err)
		assert.True(t, ok)

		stale, err := repo.FindStaleReservations(ctx, time.Now(), 10)
		require.NoError(t, err)
		assert.Len(t, stale, 1)

		released, err := repo.ReleaseReservation(ctx, "INV-1", time.Now())
		require.NoError(t, err)
		assert.True(t, released)
	})

	t.Run("a lost compare-and-set is not a failure", func(t *testing.T) {
		inner := &stubInvoiceRepo{matched: false}
		repo := NewInvoiceRepositoryWithCircuitBreaker(inner, newTestBreaker(1))

		for i := 0; i < 3; i++ {
			ok, err := repo.UpdateStatus(ctx, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved)
			require.NoError(t, err)
			assert.False(t, ok)
		}
		assert.Equal(t, circuitbreaker.StateClosed, repo.GetCircuitBreaker().State())
	})

	t.Run("opens after store failures", func(t *testing.T) {
		inner := &stubInvoiceRepo{err: errStore}
		repo := NewInvoiceRepositoryWithCircuitBreaker(inner, newTestBreaker(2))

		_, err := repo.Get(ctx, "INV-1")
		assert.ErrorIs(t, err, errStore)
		_, err = repo.Get(ctx, "INV-1")
		assert.ErrorIs(t, err, errStore)

		_, err = repo.Get(ctx, "INV-1")
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, 2, inner.calls)
	})
}

func TestAllocationRepositoryWithCircuitBreaker(t *testing.T) {
	cb := newTestBreaker(1)
	inner := allocationFunc(func(ctx context.Context, invoiceID string) ([]model.LineAllocation, error) {
		return []model.LineAllocation{{ItemID: "SKU-1", Qty: 5}}, nil
	})
	repo := NewAllocationRepositoryWithCircuitBreaker(inner, cb)

	lines, err := repo.GetLineAllocations(context.Background(), "INV-1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Same(t, cb, repo.GetCircuitBreaker())
}

type allocationFunc func(ctx context.Context, invoiceID string) ([]model.LineAllocation, error)

func (f allocationFunc) GetLineAllocations(ctx context.Context, invoiceID string) ([]model.LineAllocation, error) {
	return f(ctx, invoiceID)
}

func TestPackingSlipRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate slip does not trip the breaker", func(t *testing.T) {
		inner := &stubSlipRepo{err: ErrDuplicatePackingSlip}
		repo := NewPackingSlipRepositoryWithCircuitBreaker(inner, newTestBreaker(1))

		for i := 0; i < 3; i++ {
			err := repo.Create(ctx, &model.PackingSlip{PackingSlipNo: "PS-1"})
			assert.ErrorIs(t, err, ErrDuplicatePackingSlip)
		}
		assert.Equal(t, 3, inner.calls)
		assert.False(t, repo.GetCircuitBreaker().IsOpen())
	})

	t.Run("reads open the breaker on failure", func(t *testing.T) {
		inner := &stubSlipRepo{err: errStore}
		repo := NewPackingSlipRepositoryWithCircuitBreaker(inner, newTestBreaker(1))

		_, err := repo.FindByNo(ctx, "PS-1")
		assert.ErrorIs(t, err, errStore)

		_, err = repo.FindByInvoice(ctx, "INV-1")
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		_, err = repo.List(ctx, 10)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, 1, inner.calls)
	})
}

func TestLogsRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	inner := &stubLogsRepo{err: errStore}
	repo := NewLogsRepositoryWithCircuitBreaker(inner, newTestBreaker(1))

	err := repo.Insert(ctx, &model.LogEntry{Message: "first"})
	assert.ErrorIs(t, err, errStore)

	// Open circuit drops writes silently.
	assert.NoError(t, repo.Insert(ctx, &model.LogEntry{Message: "second"}, &model.LogEntry{Message: "third"}))

	_, err = repo.Find(ctx, model.LogQuery{InvoiceID: "INV-1"})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	_, err = repo.Count(ctx, model.LogQuery{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 1, inner.calls)
}

func TestIsBreakerNeutral(t *testing.T) {
	assert.True(t, IsBreakerNeutral(nil))
	assert.True(t, IsBreakerNeutral(ErrDuplicatePackingSlip))
	assert.True(t, IsBreakerNeutral(context.Canceled))
	assert.False(t, IsBreakerNeutral(errStore))
}

func TestNoopTxRunner(t *testing.T) {
	called := false
	err := NoopTxRunner{}.WithTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	err = NoopTxRunner{}.WithTransaction(context.Background(), func(ctx context.Context) error {
		return errStore
	})
	assert.ErrorIs(t, err, errStore)
}
