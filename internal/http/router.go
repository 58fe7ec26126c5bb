package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/middleware"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	APIKeys        map[string]bool
	EnableAuth     bool
	Idempotency    middleware.IdempotencyConfig
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	LoggingService service.LoggingService
	// TokenValidator switches the API to bearer token authentication.
	TokenValidator middleware.TokenValidator
	// WriteRoles restricts packing slip generation under token authentication.
	WriteRoles []string
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
	}
}

var (
	defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsAllowedHeaders = []string{
		"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Accept-Language",
		"Authorization", "Cache-Control", "X-Requested-With",
		"X-API-Key", middleware.IdempotencyKeyHeader, middleware.RequestIDHeader,
	}
)

// NewRouter builds the engine: operational endpoints at the root and the
// packing API under /api. A nil handler leaves /api without routes.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(cors.New(corsPolicy(cfg.CORSOrigins)))
	engine.Use(commonChain(cfg)...)

	mountOperational(engine, healthHandler, cfg)
	engine.NoRoute(func(c *gin.Context) {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
	})

	api := engine.Group("/api", apiChain(cfg)...)
	if handler == nil {
		return engine
	}

	routes := NewPackingRoutes(handler)
	if cfg.TokenValidator != nil {
		routes.RegisterProtectedRoutes(api, &cfg)
	} else {
		routes.RegisterPublicRoutes(api)
	}
	return engine
}

func corsPolicy(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: corsAllowedHeaders,
		ExposeHeaders: []string{
			middleware.RequestIDHeader,
			middleware.IdempotencyReplayedHeader,
			"Location",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
}

// commonChain runs on every request, operational endpoints included.
func commonChain(cfg RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	}
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		chain = append(chain, limiter.Middleware("global", middleware.ByClientIP))
	}
	return chain
}

func mountOperational(engine *gin.Engine, healthHandler *HealthHandler, cfg RouterConfig) {
	healthHandler.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs := ginSwagger.WrapHandler(swaggerFiles.Handler)
	if cfg.SwaggerUser == "" || cfg.SwaggerPass == "" {
		engine.GET("/swagger/*any", docs)
		return
	}
	engine.GET("/swagger/*any", gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass}), docs)
}

// apiChain guards /api. Idempotency runs after authentication so a replay is
// scoped to the caller.
func apiChain(cfg RouterConfig) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if cfg.RequestTimeout > 0 {
		chain = append(chain, middleware.TimeoutWithDuration(cfg.RequestTimeout))
	}

	if auth := authenticator(cfg); auth != nil {
		chain = append(chain, auth)
		if cfg.RateLimit > 0 {
			limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
			chain = append(chain, limiter.Middleware("subject", middleware.BySubject))
		}
	}

	if cfg.Idempotency.Enabled {
		chain = append(chain, middleware.Idempotency(cfg.Idempotency))
	}
	return chain
}

// authenticator picks bearer tokens over API keys. It returns nil when the
// API is open.
func authenticator(cfg RouterConfig) gin.HandlerFunc {
	switch {
	case cfg.TokenValidator != nil:
		return middleware.JWTAuth(cfg.TokenValidator)
	case cfg.EnableAuth && len(cfg.APIKeys) > 0:
		return middleware.APIKeyAuth(cfg.APIKeys)
	default:
		return nil
	}
}
