package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/packing-slip-service/internal/circuitbreaker"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
)

// IsBreakerNeutral reports whether err is an expected outcome that must not
// count against a storage circuit breaker.
func IsBreakerNeutral(err error) bool {
	return err == nil ||
		errors.Is(err, ErrDuplicatePackingSlip) ||
		errors.Is(err, context.Canceled)
}

// breaker is embedded by every wrapper below.
type breaker struct {
	cb *circuitbreaker.CircuitBreaker
}

// GetCircuitBreaker exposes the breaker to readiness checks.
func (b breaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return b.cb
}

// call runs fn through cb and returns its result. The zero value is returned
// whenever the breaker rejects the call.
func call[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	err := cb.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// InvoiceRepositoryWithCircuitBreaker guards an InvoiceRepositoryInterface.
type InvoiceRepositoryWithCircuitBreaker struct {
	breaker
	repo InvoiceRepositoryInterface
}

func NewInvoiceRepositoryWithCircuitBreaker(repo InvoiceRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *InvoiceRepositoryWithCircuitBreaker {
	return &InvoiceRepositoryWithCircuitBreaker{breaker: breaker{cb}, repo: repo}
}

func (r *InvoiceRepositoryWithCircuitBreaker) Get(ctx context.Context, id string) (*model.Invoice, error) {
	return call(ctx, r.cb, func() (*model.Invoice, error) { return r.repo.Get(ctx, id) })
}

// UpdateStatus is the guard's compare-and-set. A lost race (false, nil) is a
// healthy answer for the breaker.
func (r *InvoiceRepositoryWithCircuitBreaker) UpdateStatus(ctx context.Context, id string, expected, next model.InvoiceStatus) (bool, error) {
	return call(ctx, r.cb, func() (bool, error) { return r.repo.UpdateStatus(ctx, id, expected, next) })
}

func (r *InvoiceRepositoryWithCircuitBreaker) FindStaleReservations(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	return call(ctx, r.cb, func() ([]model.Invoice, error) { return r.repo.FindStaleReservations(ctx, before, limit) })
}

func (r *InvoiceRepositoryWithCircuitBreaker) ReleaseReservation(ctx context.Context, id string, reservedAt time.Time) (bool, error) {
	return call(ctx, r.cb, func() (bool, error) { return r.repo.ReleaseReservation(ctx, id, reservedAt) })
}

// AllocationRepositoryWithCircuitBreaker guards an AllocationRepositoryInterface.
type AllocationRepositoryWithCircuitBreaker struct {
	breaker
	repo AllocationRepositoryInterface
}

func NewAllocationRepositoryWithCircuitBreaker(repo AllocationRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *AllocationRepositoryWithCircuitBreaker {
	return &AllocationRepositoryWithCircuitBreaker{breaker: breaker{cb}, repo: repo}
}

func (r *AllocationRepositoryWithCircuitBreaker) GetLineAllocations(ctx context.Context, invoiceID string) ([]model.LineAllocation, error) {
	return call(ctx, r.cb, func() ([]model.LineAllocation, error) { return r.repo.GetLineAllocations(ctx, invoiceID) })
}

// PackingSlipRepositoryWithCircuitBreaker guards a PackingSlipRepositoryInterface.
type PackingSlipRepositoryWithCircuitBreaker struct {
	breaker
	repo PackingSlipRepositoryInterface
}

func NewPackingSlipRepositoryWithCircuitBreaker(repo PackingSlipRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PackingSlipRepositoryWithCircuitBreaker {
	return &PackingSlipRepositoryWithCircuitBreaker{breaker: breaker{cb}, repo: repo}
}

func (r *PackingSlipRepositoryWithCircuitBreaker) Create(ctx context.Context, slip *model.PackingSlip) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, slip) })
}

func (r *PackingSlipRepositoryWithCircuitBreaker) FindByNo(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	return call(ctx, r.cb, func() (*model.PackingSlip, error) { return r.repo.FindByNo(ctx, packingSlipNo) })
}

func (r *PackingSlipRepositoryWithCircuitBreaker) FindByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	return call(ctx, r.cb, func() (*model.PackingSlip, error) { return r.repo.FindByInvoice(ctx, invoiceID) })
}

func (r *PackingSlipRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	return call(ctx, r.cb, func() ([]model.PackingSlip, error) { return r.repo.List(ctx, limit) })
}

// LogsRepositoryWithCircuitBreaker guards a LogsRepositoryInterface.
type LogsRepositoryWithCircuitBreaker struct {
	breaker
	repo LogsRepositoryInterface
}

func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{breaker: breaker{cb}, repo: repo}
}

// Insert drops the entries silently while the circuit is open. Audit writes
// never fail the request that produced them.
func (r *LogsRepositoryWithCircuitBreaker) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	err := r.cb.Execute(ctx, func() error { return r.repo.Insert(ctx, entries...) })
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Find(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	return call(ctx, r.cb, func() ([]model.LogEntry, error) { return r.repo.Find(ctx, q) })
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	return call(ctx, r.cb, func() (int64, error) { return r.repo.Count(ctx, q) })
}
