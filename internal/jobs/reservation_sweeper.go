// Package jobs holds the scheduled background jobs of the packing slip service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSweepSchedule runs the sweeper once a minute.
	DefaultSweepSchedule = "@every 1m"
	// DefaultSweepBatchSize bounds the invoices released per run.
	DefaultSweepBatchSize = 100

	sweepTimeout = 30 * time.Second
)

// ReservationSweeper releases invoices whose packing slip generation was
// abandoned while they were reserved, typically after a process crash.
type ReservationSweeper struct {
	invoices  repository.InvoiceRepositoryInterface
	ttl       time.Duration
	schedule  string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
}

// SweeperOption configures a ReservationSweeper.
type SweeperOption func(*ReservationSweeper)

// WithSchedule sets the cron spec. Descriptors such as "@every 30s" are accepted.
func WithSchedule(spec string) SweeperOption {
	return func(s *ReservationSweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithBatchSize sets how many stale reservations a single run handles.
func WithBatchSize(n int) SweeperOption {
	return func(s *ReservationSweeper) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSweeperClock overrides the time source.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *ReservationSweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReservationSweeper creates a sweeper releasing reservations older than ttl.
func NewReservationSweeper(invoices repository.InvoiceRepositoryInterface, ttl time.Duration, opts ...SweeperOption) *ReservationSweeper {
	s := &ReservationSweeper{
		invoices:  invoices,
		ttl:       ttl,
		schedule:  DefaultSweepSchedule,
		batchSize: DefaultSweepBatchSize,
		now:       time.Now,
		cron:      cron.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the sweeper and starts the cron scheduler.
func (s *ReservationSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if _, err := s.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("Reservation sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.schedule).
		Dur("reservation_ttl", s.ttl).
		Msg("Reservation sweeper started")
	return nil
}

// Stop stops scheduling new runs and waits for a running sweep to finish.
func (s *ReservationSweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Reservation sweeper stopped")
}

// Sweep releases one batch of stale reservations and returns how many were released.
// A reservation renewed after it was listed is skipped.
func (s *ReservationSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.ttl)

	stale, err := s.invoices.FindStaleReservations(ctx, cutoff, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("find stale reservations: %w", err)
	}

	released := 0
	for _, inv := range stale {
		if inv.ReservedAt == nil {
			continue
		}

		ok, err := s.invoices.ReleaseReservation(ctx, inv.ID, *inv.ReservedAt)
		if err != nil {
			metrics.RecordInvoiceTransition("sweep_release", "error")
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("Failed to release stale reservation")
			continue
		}
		if !ok {
			metrics.RecordInvoiceTransition("sweep_release", "skipped")
			continue
		}

		metrics.RecordInvoiceTransition("sweep_release", "success")
		released++
		log.Warn().
			Str("invoice_id", inv.ID).
			Time("reserved_at", *inv.ReservedAt).
			Msg("Released stale invoice reservation")
	}

	if released > 0 {
		metrics.RecordStaleReservationsReleased(released)
	}
	return released, nil
}
