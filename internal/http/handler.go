package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/middleware"
	"github.com/guttosm/packing-slip-service/internal/service"
)

// Handler provides HTTP handlers for packing slip routes.
type Handler struct {
	slips           service.PackingSlipService
	packer          service.BoxPacker
	defaultCapacity int64
	audit           service.LoggingService
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefaultBoxCapacity sets the capacity used when a request omits box_capacity.
func WithDefaultBoxCapacity(capacity int64) HandlerOption {
	return func(h *Handler) {
		if capacity > 0 {
			h.defaultCapacity = capacity
		}
	}
}

// WithAuditLog records handler actions through ls and serves the invoice
// audit trail from it.
func WithAuditLog(ls service.LoggingService) HandlerOption {
	return func(h *Handler) { h.audit = ls }
}

// NewHandler creates a new Handler instance. slips may be nil when no database
// is configured; the stateful endpoints then answer 503.
func NewHandler(slips service.PackingSlipService, packer service.BoxPacker, opts ...HandlerOption) *Handler {
	if packer == nil {
		packer = service.NewBoxPacker()
	}

	h := &Handler{
		slips:           slips,
		packer:          packer,
		defaultCapacity: service.DefaultBoxCapacity,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// GeneratePackingSlip handles POST /api/invoices/:invoiceId/packing-slip requests.
//
// @Summary      Generate packing slip
// @Description  Packs the lot allocations of a confirmed invoice into boxes, persists the packing slip and marks the invoice packed. box_capacity defaults to the server setting when omitted. Supports idempotency via Idempotency-Key header.
// @Tags         Packing Slips
// @Accept       json
// @Produce      json
// @Param        invoiceId path string true "Invoice ID"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.GeneratePackingSlipRequest false "Box capacity"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      201 {object} dto.SuccessResponse{data=dto.PackingSlipResponse} "Packing slip generated"
// @Failure      400 {object} dto.ErrorResponse "invalid_capacity or invalid_request"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient role"
// @Failure      404 {object} dto.ErrorResponse "not_found - unknown invoice"
// @Failure      409 {object} dto.ErrorResponse "invalid_state or conflict"
// @Failure      422 {object} dto.ErrorResponse "integrity_error or invalid_allocation"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/invoices/{invoiceId}/packing-slip [post]
func (h *Handler) GeneratePackingSlip(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if !h.requireSlipService(builder) {
		return
	}

	invoiceID := c.Param("invoiceId")
	req, ok := h.bindCapacity(c, builder)
	if !ok {
		return
	}
	capacity := req.CapacityOr(h.defaultCapacity)

	slip, err := h.slips.Generate(c.Request.Context(), invoiceID, capacity, middleware.GetSubject(c))
	if err != nil {
		if h.audit != nil {
			middleware.AuditLogError(h.audit, c, model.ActionGeneratePackingSlip, invoiceID, "Packing slip generation failed", err, map[string]interface{}{
				"box_capacity": capacity,
				"error_code":   service.ErrorCode(err),
			})
		}
		writeServiceError(builder, err)
		return
	}

	if h.audit != nil {
		middleware.AuditLog(h.audit, c, model.ActionGeneratePackingSlip, invoiceID, "Packing slip generated", map[string]interface{}{
			"packing_slip_no": slip.PackingSlipNo,
			"box_capacity":    capacity,
			"total_boxes":     slip.TotalBoxes,
		})
	}

	c.Header("Location", "/api/packing-slips/"+slip.PackingSlipNo)
	builder.SuccessCreated(dto.NewPackingSlipResponse(slip))
}

// PreviewPackingSlip handles POST /api/invoices/:invoiceId/packing-slip/preview requests.
//
// @Summary      Preview packing slip
// @Description  Computes the boxes an invoice would be packed into without reserving or persisting anything. Works for any invoice status.
// @Tags         Packing Slips
// @Accept       json
// @Produce      json
// @Param        invoiceId path string true "Invoice ID"
// @Param        request body dto.GeneratePackingSlipRequest false "Box capacity"
// @Success      200 {object} dto.SuccessResponse{data=dto.PackingSlipResponse} "Packing slip preview"
// @Failure      400 {object} dto.ErrorResponse "invalid_capacity or invalid_request"
// @Failure      404 {object} dto.ErrorResponse "not_found - unknown invoice"
// @Failure      422 {object} dto.ErrorResponse "integrity_error or invalid_allocation"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/invoices/{invoiceId}/packing-slip/preview [post]
func (h *Handler) PreviewPackingSlip(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if !h.requireSlipService(builder) {
		return
	}

	invoiceID := c.Param("invoiceId")
	req, ok := h.bindCapacity(c, builder)
	if !ok {
		return
	}
	capacity := req.CapacityOr(h.defaultCapacity)

	if h.audit != nil {
		middleware.AuditLog(h.audit, c, model.ActionPreviewPackingSlip, invoiceID, "Packing slip preview requested", map[string]interface{}{
			"box_capacity": capacity,
		})
	}

	slip, err := h.slips.Preview(c.Request.Context(), invoiceID, capacity)
	if err != nil {
		writeServiceError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewPackingSlipResponse(slip))
}

// GetInvoicePackingSlip handles GET /api/invoices/:invoiceId/packing-slip requests.
//
// @Summary      Get packing slip of an invoice
// @Tags         Packing Slips
// @Produce      json
// @Param        invoiceId path string true "Invoice ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.PackingSlipResponse} "Packing slip"
// @Failure      404 {object} dto.ErrorResponse "not_found - no slip for invoice"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/invoices/{invoiceId}/packing-slip [get]
func (h *Handler) GetInvoicePackingSlip(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if !h.requireSlipService(builder) {
		return
	}

	slip, err := h.slips.GetByInvoice(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		writeServiceError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewPackingSlipResponse(slip))
}

// GetPackingSlip handles GET /api/packing-slips/:packingSlipNo requests.
//
// @Summary      Get packing slip
// @Description  Returns a generated packing slip by number. Used by dispatch to read the boxes of a shipment.
// @Tags         Packing Slips
// @Produce      json
// @Param        packingSlipNo path string true "Packing slip number"
// @Success      200 {object} dto.SuccessResponse{data=dto.PackingSlipResponse} "Packing slip"
// @Failure      404 {object} dto.ErrorResponse "not_found"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/packing-slips/{packingSlipNo} [get]
func (h *Handler) GetPackingSlip(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if !h.requireSlipService(builder) {
		return
	}

	slip, err := h.slips.Get(c.Request.Context(), c.Param("packingSlipNo"))
	if err != nil {
		writeServiceError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewPackingSlipResponse(slip))
}

// ListPackingSlips handles GET /api/packing-slips requests.
//
// @Summary      List packing slips
// @Description  Returns the most recently generated packing slips, newest first.
// @Tags         Packing Slips
// @Produce      json
// @Param        limit query int false "Maximum number of slips (default 50, max 200)"
// @Success      200 {object} dto.SuccessResponse{data=[]dto.PackingSlipResponse} "Packing slips"
// @Failure      400 {object} dto.ErrorResponse "invalid_request - bad limit"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/packing-slips [get]
func (h *Handler) ListPackingSlips(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if !h.requireSlipService(builder) {
		return
	}

	limit, ok := queryLimit(c, builder)
	if !ok {
		return
	}

	slips, err := h.slips.List(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewPackingSlipListResponse(slips))
}

// GetInvoiceAuditTrail handles GET /api/invoices/:invoiceId/audit-log requests.
//
// @Summary      Invoice audit trail
// @Description  Returns the packing actions recorded against an invoice, newest first. Request log lines are excluded.
// @Tags         Packing Slips
// @Produce      json
// @Param        invoiceId path string true "Invoice ID"
// @Param        action query string false "Only this action type" Enums(generate_packing_slip, preview_packing_slip, release_reservation)
// @Param        limit query int false "Maximum number of entries (default 50, max 500)"
// @Success      200 {object} dto.SuccessResponse{data=dto.AuditTrailResponse} "Audit trail"
// @Failure      400 {object} dto.ErrorResponse "invalid_request - bad limit"
// @Failure      503 {object} dto.ErrorResponse "storage_failure or service_unavailable"
// @Security     BearerAuth
// @Router       /api/invoices/{invoiceId}/audit-log [get]
func (h *Handler) GetInvoiceAuditTrail(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.audit == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, nil)
		return
	}

	limit, ok := queryLimit(c, builder)
	if !ok {
		return
	}

	invoiceID := c.Param("invoiceId")
	query := model.LogQuery{
		InvoiceID:  invoiceID,
		ActionType: c.Query("action"),
		Limit:      limit,
	}

	total, err := h.audit.CountLogs(c.Request.Context(), query)
	if err != nil {
		builder.ErrorWithCode(http.StatusServiceUnavailable, dto.ErrCodeStorageFailure, i18n.ErrKeyStorageFailure, err)
		return
	}
	entries, err := h.audit.QueryLogs(c.Request.Context(), query)
	if err != nil {
		builder.ErrorWithCode(http.StatusServiceUnavailable, dto.ErrCodeStorageFailure, i18n.ErrKeyStorageFailure, err)
		return
	}

	builder.SuccessOK(dto.NewAuditTrailResponse(invoiceID, total, entries))
}

// CalculateBoxes handles POST /api/packing/calculate requests.
//
// @Summary      Calculate boxes
// @Description  Packs the given lot allocations into boxes without reading or writing any invoice. Available without a database.
// @Tags         Packing
// @Accept       json
// @Produce      json
// @Param        request body dto.CalculateBoxesRequest true "Lot allocations and box capacity"
// @Success      200 {object} dto.SuccessResponse{data=dto.BoxCalculationResponse} "Boxes"
// @Failure      400 {object} dto.ErrorResponse "invalid_capacity or invalid_request"
// @Failure      422 {object} dto.ErrorResponse "invalid_allocation"
// @Security     BearerAuth
// @Router       /api/packing/calculate [post]
func (h *Handler) CalculateBoxes(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindJSON[dto.CalculateBoxesRequest](c)
	if err != nil {
		var validationErr *dto.ValidationError
		if errors.As(err, &validationErr) {
			metrics.RecordBoxCalculation("validation_error")
			builder.ValidationError(validationErr, err)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if h.audit != nil {
		middleware.AuditLog(h.audit, c, model.ActionCalculateBoxes, "", "Box calculation requested", map[string]interface{}{
			"box_capacity": req.BoxCapacity,
			"lines":        len(req.Lines),
		})
	}

	boxes, err := h.packer.Pack(req.Lines, req.BoxCapacity)
	if err != nil {
		metrics.RecordBoxCalculation(service.ErrorCode(err))
		writeServiceError(builder, err)
		return
	}

	metrics.RecordBoxCalculation("success")
	builder.SuccessOK(dto.NewBoxCalculationResponse(req.BoxCapacity, boxes))
}

// bindCapacity reads the optional generate/preview body. An empty body is
// valid and leaves the capacity to the server default.
func (h *Handler) bindCapacity(c *gin.Context, builder *ResponseBuilder) (*dto.GeneratePackingSlipRequest, bool) {
	req, err := BindOptionalJSON[dto.GeneratePackingSlipRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return nil, false
	}
	return req, true
}

func (h *Handler) requireSlipService(builder *ResponseBuilder) bool {
	if h.slips == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, nil)
		return false
	}
	return true
}

// queryLimit parses the optional non-negative limit query parameter. Zero
// leaves the page size to the service.
func queryLimit(c *gin.Context, builder *ResponseBuilder) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return 0, false
	}
	return n, true
}
