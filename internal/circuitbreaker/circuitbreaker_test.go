//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errServerSelection = errors.New("server selection error: context deadline exceeded")

func failing() error { return errServerSelection }
func succeeding() error { return nil }

func storageBreaker(failures, successes int, cooldown time.Duration) *CircuitBreaker {
	return New(Config{
		FailureThreshold: failures,
		SuccessThreshold: successes,
		Timeout:          cooldown,
		Name:             "mongodb_invoices",
	})
}

func trip(t *testing.T, cb *CircuitBreaker, n int) {
	t.Helper()
	for range n {
		_ = cb.Execute(context.Background(), failing)
	}
	require.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		calls     []func() error
		wantState State
	}{
		{"success keeps closed", 2, []func() error{succeeding, succeeding}, StateClosed},
		{"below threshold", 3, []func() error{failing, failing}, StateClosed},
		{"success resets the streak", 2, []func() error{failing, succeeding, failing}, StateClosed},
		{"threshold reached", 2, []func() error{failing, failing}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := storageBreaker(tt.threshold, 1, time.Minute)
			for _, fn := range tt.calls {
				_ = cb.Execute(context.Background(), fn)
			}
			assert.Equal(t, tt.wantState, cb.State())
			assert.Equal(t, tt.wantState == StateOpen, cb.IsOpen())
		})
	}
}

func TestCircuitBreaker_OpenRejectsWithoutCalling(t *testing.T) {
	cb := storageBreaker(1, 1, time.Minute)
	trip(t, cb, 1)

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_ReturnsCallError(t *testing.T) {
	cb := storageBreaker(5, 1, time.Minute)

	err := cb.Execute(context.Background(), failing)

	assert.ErrorIs(t, err, errServerSelection)
	assert.False(t, cb.GetStats().LastFailure.IsZero())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("successes close the circuit", func(t *testing.T) {
		cb := storageBreaker(2, 2, 30*time.Millisecond)
		trip(t, cb, 2)
		time.Sleep(40 * time.Millisecond)

		require.NoError(t, cb.Execute(context.Background(), succeeding))
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(context.Background(), succeeding))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failure reopens the circuit", func(t *testing.T) {
		cb := storageBreaker(2, 2, 30*time.Millisecond)
		trip(t, cb, 2)
		time.Sleep(40 * time.Millisecond)

		assert.ErrorIs(t, cb.Execute(context.Background(), failing), errServerSelection)
		assert.Equal(t, StateOpen, cb.State())
	})
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errAlreadyPacked := errors.New("invoice already packed")
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "mongodb_invoices",
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errAlreadyPacked)
		},
	})

	err := cb.Execute(context.Background(), func() error { return errAlreadyPacked })
	assert.ErrorIs(t, err, errAlreadyPacked)
	assert.Equal(t, StateClosed, cb.State(), "domain outcomes do not trip the breaker")
	assert.True(t, cb.GetStats().LastFailure.IsZero())

	assert.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.GetStats().LastFailure.IsZero())
}

func TestCircuitBreaker_CanceledContext(t *testing.T) {
	cb := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Zero(t, cb.GetStats().FailureCount)
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb := storageBreaker(3, 1, time.Minute)

	stats := cb.GetStats()
	assert.Equal(t, "closed", stats.State)
	assert.True(t, stats.IsHealthy)

	_ = cb.Execute(context.Background(), failing)
	_ = cb.Execute(context.Background(), failing)

	stats = cb.GetStats()
	assert.Equal(t, 2, stats.FailureCount)
	assert.Zero(t, stats.SuccessCount)

	_ = cb.Execute(context.Background(), failing)
	stats = cb.GetStats()
	assert.Equal(t, "open", stats.State)
	assert.False(t, stats.IsHealthy)
	assert.Zero(t, stats.FailureCount, "counts reset on state change")
}

func TestNew_Defaults(t *testing.T) {
	cb := New(Config{Name: "mongodb_logs"})
	assert.Equal(t, "mongodb_logs", cb.Name())

	for range DefaultConfig().FailureThreshold - 1 {
		_ = cb.Execute(context.Background(), failing)
	}
	assert.Equal(t, StateClosed, cb.State())

	_ = cb.Execute(context.Background(), failing)
	assert.Equal(t, StateOpen, cb.State())
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{
		StateClosed:   "closed",
		StateOpen:     "open",
		StateHalfOpen: "half-open",
		State(42):     "unknown",
	} {
		assert.Equal(t, want, state.String())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.FailureThreshold)
	assert.Equal(t, 2, cfg.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Nil(t, cfg.IsSuccessful)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	type transition struct{ from, to State }
	var seen []transition

	cb := New(Config{
		Name:             "mongodb_packing_slips",
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          20 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "mongodb_packing_slips", name)
			seen = append(seen, transition{from, to})
		},
	})

	trip(t, cb, 1)
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, cb.Execute(context.Background(), succeeding))

	assert.Equal(t, []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, seen)
	assert.Zero(t, cb.GetStats().Requests, "counts reset when the circuit closes")
}
