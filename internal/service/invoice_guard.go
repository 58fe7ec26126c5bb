package service

import (
	"context"
	"fmt"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// InvoiceGuard serializes packing slip generation per invoice through atomic
// status transitions on the stored invoice:
//
//	confirmed --Reserve--> reserved --Commit--> packed
//	reserved --Release--> confirmed
//
// Every transition is a compare-and-set in the store, so the guard holds across
// processes.
type InvoiceGuard struct {
	invoices repository.InvoiceRepositoryInterface
}

// NewInvoiceGuard creates a guard over the given invoice repository.
func NewInvoiceGuard(invoices repository.InvoiceRepositoryInterface) *InvoiceGuard {
	return &InvoiceGuard{invoices: invoices}
}

// Reserve moves the invoice from confirmed to reserved.
//
// When the transition does not apply, the invoice is re-read to explain why:
// ErrNotFound if it is gone, ErrConflict if another generation holds or has
// already used it, ErrInvalidState otherwise. Reserve never blocks or retries.
func (g *InvoiceGuard) Reserve(ctx context.Context, invoiceID string) error {
	ok, err := g.invoices.UpdateStatus(ctx, invoiceID, model.InvoiceStatusConfirmed, model.InvoiceStatusReserved)
	if err != nil {
		metrics.RecordInvoiceTransition("reserve", "error")
		return storageErr("reserve invoice", err)
	}
	if ok {
		metrics.RecordInvoiceTransition("reserve", "success")
		return nil
	}

	invoice, err := g.invoices.Get(ctx, invoiceID)
	if err != nil {
		metrics.RecordInvoiceTransition("reserve", "error")
		return storageErr("load invoice", err)
	}
	if invoice == nil {
		metrics.RecordInvoiceTransition("reserve", "not_found")
		return fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}

	switch invoice.Status {
	case model.InvoiceStatusReserved, model.InvoiceStatusPacked, model.InvoiceStatusConfirmed:
		// Confirmed again means a concurrent attempt reserved and released in between.
		metrics.RecordInvoiceTransition("reserve", "conflict")
		return fmt.Errorf("%w: invoice %s is %s", ErrConflict, invoiceID, invoice.Status)
	default:
		metrics.RecordInvoiceTransition("reserve", "invalid_state")
		return fmt.Errorf("%w: invoice %s is %s", ErrInvalidState, invoiceID, invoice.Status)
	}
}

// Commit moves a reserved invoice to packed.
func (g *InvoiceGuard) Commit(ctx context.Context, invoiceID string) error {
	return g.transition(ctx, "commit", invoiceID, model.InvoiceStatusReserved, model.InvoiceStatusPacked)
}

// Release moves a reserved invoice back to confirmed so generation can be retried.
func (g *InvoiceGuard) Release(ctx context.Context, invoiceID string) error {
	return g.transition(ctx, "release", invoiceID, model.InvoiceStatusReserved, model.InvoiceStatusConfirmed)
}

func (g *InvoiceGuard) transition(ctx context.Context, name, invoiceID string, from, to model.InvoiceStatus) error {
	ok, err := g.invoices.UpdateStatus(ctx, invoiceID, from, to)
	if err != nil {
		metrics.RecordInvoiceTransition(name, "error")
		return storageErr(name+" invoice", err)
	}
	if !ok {
		metrics.RecordInvoiceTransition(name, "conflict")
		log.Error().
			Str("invoice_id", invoiceID).
			Str("transition", name).
			Str("expected", from.String()).
			Msg("Invoice was not in the expected state")
		return fmt.Errorf("%w: invoice %s is no longer %s", ErrConflict, invoiceID, from)
	}
	metrics.RecordInvoiceTransition(name, "success")
	return nil
}

// storageErr wraps a collaborator failure as ErrStorageFailure, keeping the cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
