package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/middleware"
)

// PackingRoutes mounts the packing slip endpoints.
type PackingRoutes struct {
	handler *Handler
}

// NewPackingRoutes creates a new PackingRoutes instance.
func NewPackingRoutes(handler *Handler) *PackingRoutes {
	return &PackingRoutes{handler: handler}
}

// RegisterPublicRoutes mounts every endpoint without a write guard.
func (r *PackingRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	mountRoutes(rg, packingRouteTable(r.handler), nil)
}

// RegisterProtectedRoutes mounts the endpoints behind bearer authentication.
// Generating a slip additionally requires one of cfg.WriteRoles when set.
func (r *PackingRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	var guard []gin.HandlerFunc
	if len(cfg.WriteRoles) > 0 {
		guard = append(guard, middleware.RequireRoles(cfg.WriteRoles...))
	}
	mountRoutes(rg, packingRouteTable(r.handler), guard)
}

// GetHandler returns the underlying packing handler.
func (r *PackingRoutes) GetHandler() *Handler {
	return r.handler
}
