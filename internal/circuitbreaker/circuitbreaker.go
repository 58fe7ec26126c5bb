// Package circuitbreaker guards storage calls with sony/gobreaker and reports
// breaker state to logs, readiness checks and metrics.
package circuitbreaker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned instead of calling through while the breaker is
// open, or half-open with all trial slots taken.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker position.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = map[State]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// Name identifies the breaker in logs, metrics and /readyz.
	Name string
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// SuccessThreshold consecutive half-open successes close it again. It is
	// also the number of trial calls let through while half-open.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before trial calls.
	Timeout time.Duration
	// IsSuccessful classifies call errors. Accepted errors are returned to the
	// caller but do not count as failures. Nil accepts only a nil error.
	IsSuccessful func(err error) bool
	// OnStateChange is called after the breaker moves between states.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the thresholds used when a field is left at zero.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker wraps a gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	config Config
	cb     *gobreaker.CircuitBreaker

	// lastFailure holds UnixNano of the most recent counted failure.
	lastFailure atomic.Int64
}

// New builds a breaker. Non-positive thresholds fall back to DefaultConfig.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}

	b := &CircuitBreaker{config: config}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         config.Name,
		MaxRequests:  uint32(config.SuccessThreshold),
		Timeout:      config.Timeout,
		IsSuccessful: config.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.FailureThreshold)
		},
		OnStateChange: b.stateChanged,
	})
	return b
}

func (b *CircuitBreaker) stateChanged(name string, from, to gobreaker.State) {
	level := log.Info()
	if to == gobreaker.StateOpen {
		level = log.Warn()
	}
	level.Str("circuit_breaker", name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Circuit breaker state changed")

	if b.config.OnStateChange != nil {
		b.config.OnStateChange(name, fromGobreaker(from), fromGobreaker(to))
	}
}

// Execute runs fn unless the circuit rejects it. A done ctx is returned
// without calling fn or touching the counts.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}

	if b.config.IsSuccessful == nil || !b.config.IsSuccessful(err) {
		b.lastFailure.Store(time.Now().UnixNano())
	}
	return err
}

func (b *CircuitBreaker) Name() string {
	return b.config.Name
}

func (b *CircuitBreaker) State() State {
	return fromGobreaker(b.cb.State())
}

func (b *CircuitBreaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Stats is a point-in-time view of a breaker. Counts reset on every state
// change.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	Requests     int
	LastFailure  time.Time
	IsHealthy    bool
}

func (b *CircuitBreaker) GetStats() Stats {
	state := b.State()
	counts := b.cb.Counts()

	var lastFailure time.Time
	if ns := b.lastFailure.Load(); ns != 0 {
		lastFailure = time.Unix(0, ns)
	}

	return Stats{
		State:        state.String(),
		FailureCount: int(counts.ConsecutiveFailures),
		SuccessCount: int(counts.ConsecutiveSuccesses),
		Requests:     int(counts.Requests),
		LastFailure:  lastFailure,
		IsHealthy:    state == StateClosed,
	}
}
