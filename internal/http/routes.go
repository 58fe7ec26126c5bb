package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// route is one endpoint under /api. Write routes change invoice state and
// sit behind the write guard when one is configured.
type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
	write   bool
}

func packingRouteTable(h *Handler) []route {
	return []route{
		{method: http.MethodPost, path: "/packing/calculate", handler: h.CalculateBoxes},
		{method: http.MethodGet, path: "/invoices/:invoiceId/packing-slip", handler: h.GetInvoicePackingSlip},
		{method: http.MethodPost, path: "/invoices/:invoiceId/packing-slip", handler: h.GeneratePackingSlip, write: true},
		{method: http.MethodPost, path: "/invoices/:invoiceId/packing-slip/preview", handler: h.PreviewPackingSlip},
		{method: http.MethodGet, path: "/invoices/:invoiceId/audit-log", handler: h.GetInvoiceAuditTrail},
		{method: http.MethodGet, path: "/packing-slips", handler: h.ListPackingSlips},
		{method: http.MethodGet, path: "/packing-slips/:packingSlipNo", handler: h.GetPackingSlip},
	}
}

func mountRoutes(rg *gin.RouterGroup, routes []route, writeGuard []gin.HandlerFunc) {
	for _, rt := range routes {
		chain := []gin.HandlerFunc{rt.handler}
		if rt.write && len(writeGuard) > 0 {
			chain = append(append([]gin.HandlerFunc{}, writeGuard...), rt.handler)
		}
		rg.Handle(rt.method, rt.path, chain...)
	}
}
