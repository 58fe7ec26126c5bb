package app

import (
	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/jobs"
	"github.com/rs/zerolog/log"
)

// InitializeJobs starts the reservation sweeper. It returns nil when the
// sweeper cannot be scheduled; generation still works without it.
func InitializeJobs(cfg config.PackingConfig, db *DatabaseComponents) *jobs.ReservationSweeper {
	if db == nil || cfg.ReservationTTL <= 0 {
		return nil
	}

	sweeper := jobs.NewReservationSweeper(db.Invoices, cfg.ReservationTTL, jobs.WithSchedule(cfg.SweepSchedule))
	if err := sweeper.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start reservation sweeper")
		return nil
	}
	return sweeper
}
