// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/circuitbreaker"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/rs/zerolog/log"
)

// auditLogBreaker guards the audit log store. Its failure only degrades readiness.
const auditLogBreaker = "mongodb_logs"

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB             *repository.MongoDB
	Invoices       repository.InvoiceRepositoryInterface
	Allocations    repository.AllocationRepositoryInterface
	PackingSlips   repository.PackingSlipRepositoryInterface
	TxRunner       repository.TxRunner
	LoggingService service.LoggingService
	// CircuitBreakers are keyed by the name reported on /readyz.
	CircuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if err := db.SetLogsTTL(context.Background(), cfg.LogsTTL); err != nil {
		log.Warn().Err(err).Dur("ttl", cfg.LogsTTL).Msg("Logs keep their previous expiry")
	}

	return newDatabaseComponents(db, cfg)
}

// newDatabaseComponents wraps every repository of db with its own circuit breaker.
func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	invoicesCB := newStorageBreaker(cfg, "mongodb_invoices")
	allocationsCB := newStorageBreaker(cfg, "mongodb_allocations")
	slipsCB := newStorageBreaker(cfg, "mongodb_packing_slips")
	logsCB := newStorageBreaker(cfg, auditLogBreaker)

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:             db,
		Invoices:       repository.NewInvoiceRepositoryWithCircuitBreaker(repository.NewInvoiceRepository(db), invoicesCB),
		Allocations:    repository.NewAllocationRepositoryWithCircuitBreaker(repository.NewAllocationRepository(db), allocationsCB),
		PackingSlips:   repository.NewPackingSlipRepositoryWithCircuitBreaker(repository.NewPackingSlipRepository(db), slipsCB),
		TxRunner:       repository.NewMongoTxRunner(db),
		LoggingService: service.NewLoggingService(logsRepo),
		CircuitBreakers: map[string]*circuitbreaker.CircuitBreaker{
			invoicesCB.Name():    invoicesCB,
			allocationsCB.Name(): allocationsCB,
			slipsCB.Name():       slipsCB,
			logsCB.Name():        logsCB,
		},
	}
}

func newStorageBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsSuccessful:     repository.IsBreakerNeutral,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
