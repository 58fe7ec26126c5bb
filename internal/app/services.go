// Package app provides service initialization.
package app

import (
	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/events"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/rs/zerolog/log"
)

// Publisher is an event publisher owning a connection that must be closed.
type Publisher interface {
	service.EventPublisher
	Close() error
}

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Packer service.BoxPacker
	// PackingSlips is nil when the database is unavailable.
	PackingSlips service.PackingSlipService
	SlipCache    *service.SlipCache
	Publisher    Publisher
}

// InitializeServices initializes business logic services. The box packer is
// always available; slip generation needs database components.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	packer := service.NewBoxPacker(
		service.WithMaxCapacity(cfg.Packing.MaxBoxCapacity),
		service.WithMaxBoxes(cfg.Packing.MaxBoxes),
	)

	components := &ServiceComponents{
		Packer:    packer,
		Publisher: newPublisher(cfg.Events),
	}

	if db == nil {
		return components
	}

	opts := []service.PackingSlipOption{
		service.WithBoxPacker(packer),
		service.WithMaxBoxCapacity(cfg.Packing.MaxBoxCapacity),
		service.WithTxRunner(db.TxRunner),
		service.WithEventPublisher(components.Publisher),
	}

	if cfg.Packing.SlipCacheSize > 0 {
		components.SlipCache = service.NewSlipCache(cfg.Packing.SlipCacheSize, cfg.Packing.SlipCacheTTL)
		opts = append(opts, service.WithSlipCache(components.SlipCache))
	}

	components.PackingSlips = service.NewPackingSlipService(db.Invoices, db.Allocations, db.PackingSlips, opts...)

	return components
}

func newPublisher(cfg config.EventsConfig) Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return events.NoopPublisher{}
	}

	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Publishing packing slip events to Kafka")
	return events.NewKafkaPublisher(events.Config{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		WriteTimeout: cfg.WriteTimeout,
	})
}
