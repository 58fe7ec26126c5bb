// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/http"
	"github.com/guttosm/packing-slip-service/internal/jobs"
	"github.com/guttosm/packing-slip-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// Application is the wired service: its router plus the background components
// that must be stopped on shutdown.
type Application struct {
	Router *gin.Engine

	db       *DatabaseComponents
	services *ServiceComponents
	sweeper  *jobs.ReservationSweeper
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *Application {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	// Initialize database components (MongoDB repositories and services)
	dbComponents := InitializeDatabase(cfg.Database)

	// Initialize business services
	serviceComponents := InitializeServices(cfg, dbComponents)

	app := &Application{
		db:       dbComponents,
		services: serviceComponents,
	}

	if dbComponents != nil {
		InitializeAuditLogger(dbComponents.LoggingService)
		app.sweeper = InitializeJobs(cfg.Packing, dbComponents)
	} else {
		log.Warn().Msg("MongoDB unavailable - packing slip endpoints will answer 503, box calculation stays available")
	}

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)
	app.Router = http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)

	return app
}

// Close stops background work and releases connections.
func (a *Application) Close(ctx context.Context) error {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	middleware.StopAsyncLogger()

	var errs []error
	if a.services != nil {
		if a.services.SlipCache != nil {
			a.services.SlipCache.Stop()
		}
		if a.services.Publisher != nil {
			errs = append(errs, a.services.Publisher.Close())
		}
	}
	if a.db != nil && a.db.DB != nil {
		errs = append(errs, a.db.DB.Close(ctx))
	}

	return errors.Join(errs...)
}
