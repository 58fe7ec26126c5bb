// Package model defines the core domain entities for the packing slip service.
package model

import "time"

// InvoiceStatus is the lifecycle state of a sales invoice.
type InvoiceStatus string

const (
	// InvoiceStatusDraft is an invoice still being edited upstream.
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusConfirmed is an invoice eligible for packing.
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	// InvoiceStatusReserved marks an invoice with a packing slip generation in flight.
	InvoiceStatusReserved InvoiceStatus = "reserved"
	// InvoiceStatusPacked is an invoice whose packing slip has been generated.
	InvoiceStatusPacked InvoiceStatus = "packed"
	// InvoiceStatusDispatched is an invoice that has left the warehouse.
	InvoiceStatusDispatched InvoiceStatus = "dispatched"
)

// String returns the status value.
func (s InvoiceStatus) String() string {
	return string(s)
}

// InvoiceLine is one ordered product on an invoice.
type InvoiceLine struct {
	ItemID   string `bson:"item_id" json:"item_id"`
	ItemName string `bson:"item_name" json:"item_name"`
	Qty      int64  `bson:"qty" json:"qty"`
}

// Invoice is the header of a sales invoice as seen by the packing engine.
// It is owned by the invoicing collaborator; only Status is written here.
type Invoice struct {
	ID         string        `bson:"_id" json:"id"`
	InvoiceNo  string        `bson:"invoice_no" json:"invoice_no"`
	Status     InvoiceStatus `bson:"status" json:"status"`
	Lines      []InvoiceLine `bson:"lines" json:"lines"`
	ReservedAt *time.Time    `bson:"reserved_at,omitempty" json:"reserved_at,omitempty"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}

// TotalQty returns the ordered quantity across all lines. ok is false when the
// sum does not fit in an int64.
func (i *Invoice) TotalQty() (total int64, ok bool) {
	for _, l := range i.Lines {
		if total, ok = AddQty(total, l.Qty); !ok {
			return 0, false
		}
	}
	return total, true
}
