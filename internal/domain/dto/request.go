// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import "github.com/guttosm/packing-slip-service/internal/domain/model"

// GeneratePackingSlipRequest is the body of the generate and preview endpoints.
//
// BoxCapacity is optional; when omitted the server default applies. An explicit
// zero or negative value is rejected as invalid_capacity.
//
// @Description Request to pack an invoice into boxes
// @Example {"box_capacity": 1000}
type GeneratePackingSlipRequest struct {
	// BoxCapacity is the number of units one box holds.
	BoxCapacity *int64 `json:"box_capacity,omitempty" example:"1000"`
} // @name GeneratePackingSlipRequest

// CapacityOr returns the requested capacity, or def when none was given.
func (r *GeneratePackingSlipRequest) CapacityOr(def int64) int64 {
	if r == nil || r.BoxCapacity == nil {
		return def
	}
	return *r.BoxCapacity
}

// CalculateBoxesRequest is the body of the stateless box calculation endpoint.
//
// @Description Lot allocations to pack without touching any invoice
type CalculateBoxesRequest struct {
	// BoxCapacity is the number of units one box holds.
	BoxCapacity int64 `json:"box_capacity" example:"1000"`
	// Lines are the invoice lines with their lot breakdown, in fulfillment order.
	Lines []model.LineAllocation `json:"lines"`
} // @name CalculateBoxesRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrMissingLots is returned when a calculation line carries no lots.
	ErrMissingLots = &ValidationError{
		Field:   "lines.lots",
		Message: "every line needs at least one lot",
	}
	// ErrMissingLotNumber is returned when a lot has no lot number.
	ErrMissingLotNumber = &ValidationError{
		Field:   "lines.lots.lot_number",
		Message: "is required",
	}
)

// Validate checks the shape of the request. Quantities and capacity are left to
// the packer so they surface with their own error codes.
func (r *CalculateBoxesRequest) Validate() error {
	for _, l := range r.Lines {
		if len(l.Lots) == 0 {
			return ErrMissingLots
		}
		for _, lot := range l.Lots {
			if lot.LotNumber == "" {
				return ErrMissingLotNumber
			}
		}
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
