// Package repository provides interfaces for repository operations.
package repository

import (
	"context"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
)

// InvoiceRepositoryInterface defines the invoice operations the packing engine needs.
// Get returns (nil, nil) when the invoice does not exist.
type InvoiceRepositoryInterface interface {
	Get(ctx context.Context, id string) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, id string, expected, next model.InvoiceStatus) (bool, error)
	FindStaleReservations(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error)
	ReleaseReservation(ctx context.Context, id string, reservedAt time.Time) (bool, error)
}

// AllocationRepositoryInterface defines read access to lot-level fulfillment records.
type AllocationRepositoryInterface interface {
	GetLineAllocations(ctx context.Context, invoiceID string) ([]model.LineAllocation, error)
}

// PackingSlipRepositoryInterface defines the interface for packing slip storage.
// Find methods return (nil, nil) when no slip matches.
type PackingSlipRepositoryInterface interface {
	Create(ctx context.Context, slip *model.PackingSlip) error
	FindByNo(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error)
	FindByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error)
	List(ctx context.Context, limit int) ([]model.PackingSlip, error)
}

// LogsRepositoryInterface stores and reads request and audit log entries.
type LogsRepositoryInterface interface {
	Insert(ctx context.Context, entries ...*model.LogEntry) error
	Find(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error)
	Count(ctx context.Context, q model.LogQuery) (int64, error)
}

var (
	_ InvoiceRepositoryInterface     = (*InvoiceRepository)(nil)
	_ AllocationRepositoryInterface  = (*AllocationRepository)(nil)
	_ PackingSlipRepositoryInterface = (*PackingSlipRepository)(nil)
	_ LogsRepositoryInterface        = (*LogsRepository)(nil)
	_ TxRunner                       = (*MongoTxRunner)(nil)
	_ TxRunner                       = NoopTxRunner{}

	_ InvoiceRepositoryInterface     = (*InvoiceRepositoryWithCircuitBreaker)(nil)
	_ AllocationRepositoryInterface  = (*AllocationRepositoryWithCircuitBreaker)(nil)
	_ PackingSlipRepositoryInterface = (*PackingSlipRepositoryWithCircuitBreaker)(nil)
	_ LogsRepositoryInterface        = (*LogsRepositoryWithCircuitBreaker)(nil)
)
