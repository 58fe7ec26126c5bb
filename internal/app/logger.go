package app

import (
	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/guttosm/packing-slip-service/internal/middleware"
	"github.com/guttosm/packing-slip-service/internal/service"
)

// InitializeLogger configures the global logger from the LOG_* settings.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(logger.Config{Level: cfg.Level, Pretty: cfg.Pretty})
}

// InitializeAuditLogger starts the worker pool that writes audit entries to
// MongoDB. Without a logging service audit entries are dropped.
func InitializeAuditLogger(loggingService service.LoggingService) {
	if loggingService == nil {
		return
	}
	middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())
}
