// Package app provides router configuration.
package app

import (
	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/http"
	"github.com/guttosm/packing-slip-service/internal/middleware"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/rs/zerolog/log"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.DB.HealthCheck))
		}
		for name, cb := range dbComponents.CircuitBreakers {
			var opts []http.DependencyOption
			if name == auditLogBreaker {
				opts = append(opts, http.Optional())
			}
			healthHandler.RegisterCircuitBreaker(name, cb, opts...)
		}
	}

	handler := http.NewHandler(
		services.PackingSlips,
		services.Packer,
		http.WithDefaultBoxCapacity(cfg.Packing.DefaultBoxCapacity),
		http.WithAuditLog(loggingService),
	)

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		EnableAuth:     cfg.Auth.Enabled,
		APIKeys:        cfg.Auth.APIKeys,
		Idempotency: middleware.IdempotencyConfig{
			TTL:        cfg.Server.IdempotencyTTL,
			MaxEntries: cfg.Server.IdempotencyMaxEntries,
			Enabled:    cfg.Server.IdempotencyTTL > 0,
		},
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		LoggingService: loggingService,
		TokenValidator: newTokenValidator(cfg.Auth),
		WriteRoles:     cfg.Auth.WriteRoles,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

// newTokenValidator returns a JWT verifier when bearer authentication is
// configured. API keys remain the fallback otherwise.
func newTokenValidator(cfg config.AuthConfig) middleware.TokenValidator {
	if !cfg.Enabled || cfg.JWTSecretKey == "" {
		return nil
	}
	log.Info().Str("issuer", cfg.JWTIssuer).Strs("write_roles", cfg.WriteRoles).Msg("Bearer token authentication enabled")
	return service.NewJWTVerifier(cfg.JWTSecretKey, cfg.JWTIssuer)
}
