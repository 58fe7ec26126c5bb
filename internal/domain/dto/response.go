package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeServiceUnavailable indicates a dependency of the endpoint is not configured.
	ErrCodeServiceUnavailable = "service_unavailable"
	// ErrCodeIdempotencyReused indicates an Idempotency-Key replayed with a different body.
	ErrCodeIdempotencyReused = "idempotency_key_reused"
)

// Packing error codes. Each packing failure keeps its own code.
const (
	ErrCodeInvalidCapacity   = "invalid_capacity"
	ErrCodeInvalidAllocation = "invalid_allocation"
	ErrCodeInvalidState      = "invalid_state"
	ErrCodeIntegrity         = "integrity_error"
	ErrCodeStorageFailure    = "storage_failure"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-10-19T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_capacity"`
	Message string `json:"message,omitempty" example:"Box capacity must be a positive number"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-10-19T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetail adds one entry to the error details.
func (e ErrorResponse) WithDetail(key, value string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternal
	}
}

// BoxResponse is one box of a packing slip as rendered by the API.
//
// @Description Shipping box with its "N / M" label
type BoxResponse struct {
	BoxNumber  int                `json:"box_number" example:"1"`
	TotalBoxes int                `json:"total_boxes" example:"2"`
	Label      string             `json:"label" example:"1 / 2"`
	TotalQty   int64              `json:"total_qty" example:"1000"`
	Contents   []model.BoxContent `json:"contents"`
} // @name BoxResponse

// PackingSlipResponse is a packing slip as rendered by the API.
//
// @Description Packing slip with its boxes
type PackingSlipResponse struct {
	PackingSlipNo string        `json:"packing_slip_no,omitempty" example:"PS-20261019-3f2a9c1b7d4e"`
	InvoiceID     string        `json:"invoice_id,omitempty" example:"INV-1"`
	InvoiceNo     string        `json:"invoice_no,omitempty" example:"SI/2026/0042"`
	BoxCapacity   int64         `json:"box_capacity" example:"1000"`
	TotalQty      int64         `json:"total_qty" example:"1200"`
	TotalBoxes    int           `json:"total_boxes" example:"2"`
	Boxes         []BoxResponse `json:"boxes"`
	GeneratedAt   *time.Time    `json:"generated_at,omitempty"`
	GeneratedBy   string        `json:"generated_by,omitempty"`
} // @name PackingSlipResponse

// NewBoxResponses converts packed boxes to their API form.
func NewBoxResponses(boxes []model.Box) []BoxResponse {
	out := make([]BoxResponse, len(boxes))
	for i, b := range boxes {
		contents := b.Contents
		if contents == nil {
			contents = []model.BoxContent{}
		}
		out[i] = BoxResponse{
			BoxNumber:  b.BoxNumber,
			TotalBoxes: b.TotalBoxes,
			Label:      b.Label(),
			TotalQty:   b.TotalQty,
			Contents:   contents,
		}
	}
	return out
}

// NewPackingSlipResponse converts a packing slip to its API form. Previews have
// no generation time and omit it.
func NewPackingSlipResponse(slip *model.PackingSlip) PackingSlipResponse {
	resp := PackingSlipResponse{
		PackingSlipNo: slip.PackingSlipNo,
		InvoiceID:     slip.InvoiceID,
		InvoiceNo:     slip.InvoiceNo,
		BoxCapacity:   slip.BoxCapacity,
		TotalQty:      slip.TotalQty,
		TotalBoxes:    slip.TotalBoxes,
		Boxes:         NewBoxResponses(slip.Boxes),
		GeneratedBy:   slip.GeneratedBy,
	}
	if slip.PackingSlipNo != "" && !slip.GeneratedAt.IsZero() {
		at := slip.GeneratedAt
		resp.GeneratedAt = &at
	}
	return resp
}

// NewPackingSlipListResponse converts a list of slips to their API form.
func NewPackingSlipListResponse(slips []model.PackingSlip) []PackingSlipResponse {
	out := make([]PackingSlipResponse, len(slips))
	for i := range slips {
		out[i] = NewPackingSlipResponse(&slips[i])
	}
	return out
}

// BoxCalculationResponse is the result of a stateless box calculation.
//
// @Description Boxes computed for ad-hoc lot allocations
type BoxCalculationResponse struct {
	BoxCapacity int64         `json:"box_capacity" example:"1000"`
	TotalQty    int64         `json:"total_qty" example:"1200"`
	TotalBoxes  int           `json:"total_boxes" example:"2"`
	Boxes       []BoxResponse `json:"boxes"`
} // @name BoxCalculationResponse

// NewBoxCalculationResponse summarises packed boxes.
func NewBoxCalculationResponse(boxCapacity int64, boxes []model.Box) BoxCalculationResponse {
	var total int64
	for _, b := range boxes {
		total += b.TotalQty
	}
	return BoxCalculationResponse{
		BoxCapacity: boxCapacity,
		TotalQty:    total,
		TotalBoxes:  len(boxes),
		Boxes:       NewBoxResponses(boxes),
	}
}

// AuditEntryResponse is one stored audit entry.
//
// @Description Action recorded against an invoice
type AuditEntryResponse struct {
	Timestamp  time.Time              `json:"timestamp"`
	ActionType string                 `json:"action_type" example:"generate_packing_slip"`
	Level      string                 `json:"level" example:"info"`
	Message    string                 `json:"message" example:"Packing slip generated"`
	Subject    string                 `json:"subject,omitempty" example:"picker-7"`
	RequestID  string                 `json:"request_id,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty" swaggertype:"object"`
} // @name AuditEntryResponse

// AuditTrailResponse lists the audit entries of one invoice, newest first.
//
// @Description Audit trail of an invoice
type AuditTrailResponse struct {
	InvoiceID string               `json:"invoice_id" example:"INV-1"`
	Total     int64                `json:"total" example:"3"`
	Entries   []AuditEntryResponse `json:"entries"`
} // @name AuditTrailResponse

// NewAuditTrailResponse renders stored entries. Total counts every matching
// entry, not only the returned page.
func NewAuditTrailResponse(invoiceID string, total int64, entries []model.LogEntry) AuditTrailResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			Timestamp:  e.Timestamp,
			ActionType: e.ActionType,
			Level:      e.Level,
			Message:    e.Message,
			Subject:    e.Subject,
			RequestID:  e.RequestID,
			Fields:     e.Fields,
		}
	}
	return AuditTrailResponse{InvoiceID: invoiceID, Total: total, Entries: out}
}
