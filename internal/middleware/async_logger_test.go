package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func auditEntry(invoiceID string) *model.LogEntry {
	return &model.LogEntry{
		Level:      "info",
		ActionType: model.ActionGeneratePackingSlip,
		InvoiceID:  invoiceID,
		Message:    "Packing slip generated",
	}
}

func batchOf(n int) interface{} {
	return mock.MatchedBy(func(entries []*model.LogEntry) bool { return len(entries) == n })
}

func eventuallyWritten(t *testing.T, al *AsyncLogger, n int64) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return al.Stats().Written == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDefaultAsyncLoggerConfig(t *testing.T) {
	cfg := DefaultAsyncLoggerConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 4, cfg.NumWorkers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestNewAsyncLogger(t *testing.T) {
	t.Run("nil logging service", func(t *testing.T) {
		assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))
	})

	t.Run("zero config is usable", func(t *testing.T) {
		m := new(mocks.MockLoggingService)
		m.On("CreateLog", mock.Anything, mock.Anything).Return(nil)

		al := NewAsyncLogger(m, AsyncLoggerConfig{})
		assert.NotNil(t, al)
		assert.Equal(t, 1, al.cfg.BatchSize)
		assert.Equal(t, 1, al.cfg.NumWorkers)
		assert.Equal(t, DefaultAsyncLoggerConfig().FlushInterval, al.cfg.FlushInterval)

		assert.True(t, al.Log(auditEntry("INV-1")))
		eventuallyWritten(t, al, 1)
		al.Stop()
	})
}

func TestAsyncLogger_BatchesBySize(t *testing.T) {
	m := new(mocks.MockLoggingService)
	m.On("CreateLogs", mock.Anything, batchOf(5)).Return(nil).Twice()

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    20,
		NumWorkers:    1,
		BatchSize:     5,
		FlushInterval: time.Hour,
		WriteTimeout:  time.Second,
	})
	defer al.Stop()

	for range 10 {
		assert.True(t, al.Log(auditEntry("INV-1")))
	}

	eventuallyWritten(t, al, 10)
	m.AssertExpectations(t)
}

func TestAsyncLogger_FlushesPartialBatch(t *testing.T) {
	m := new(mocks.MockLoggingService)
	m.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("CreateLogs", mock.Anything, mock.Anything).Return(nil).Maybe()

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    20,
		NumWorkers:    1,
		BatchSize:     50,
		FlushInterval: 20 * time.Millisecond,
		WriteTimeout:  time.Second,
	})
	defer al.Stop()

	for _, id := range []string{"INV-1", "INV-2", "INV-3"} {
		al.Log(auditEntry(id))
	}

	eventuallyWritten(t, al, 3)
}

func TestAsyncLogger_SingleEntryUsesCreateLog(t *testing.T) {
	m := mocks.NewMockLoggingService(t)
	m.On("CreateLog", mock.Anything, mock.MatchedBy(func(e *model.LogEntry) bool {
		return e.InvoiceID == "INV-9"
	})).Return(nil).Once()

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    10,
		NumWorkers:    1,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
	})

	al.Log(auditEntry("INV-9"))
	eventuallyWritten(t, al, 1)
	al.Stop()
}

func TestAsyncLogger_DropsWhenBufferFull(t *testing.T) {
	blockCh := make(chan struct{})
	m := new(mocks.MockLoggingService)
	m.On("CreateLog", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		<-blockCh
	}).Return(nil)

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    3,
		NumWorkers:    1,
		BatchSize:     1,
		FlushInterval: time.Hour,
		WriteTimeout:  time.Second,
	})

	dropped := 0
	for range 10 {
		if !al.Log(auditEntry("INV-1")) {
			dropped++
		}
	}

	assert.Positive(t, dropped)
	assert.Equal(t, int64(dropped), al.Stats().Dropped)

	close(blockCh)
	al.Stop()
}

func TestAsyncLogger_WriteErrorsCountEntries(t *testing.T) {
	m := new(mocks.MockLoggingService)
	m.On("CreateLogs", mock.Anything, batchOf(3)).Return(errors.New("db error"))

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    10,
		NumWorkers:    1,
		BatchSize:     3,
		FlushInterval: time.Hour,
	})

	for range 3 {
		al.Log(auditEntry("INV-1"))
	}

	assert.Eventually(t, func() bool {
		return al.Stats().Failed == 3
	}, 2*time.Second, 10*time.Millisecond)
	al.Stop()
}

func TestAsyncLogger_StopFlushesPending(t *testing.T) {
	m := new(mocks.MockLoggingService)
	m.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("CreateLogs", mock.Anything, mock.Anything).Return(nil).Maybe()

	al := NewAsyncLogger(m, AsyncLoggerConfig{
		BufferSize:    100,
		NumWorkers:    4,
		BatchSize:     4,
		FlushInterval: time.Hour,
	})

	for range 10 {
		al.Log(auditEntry("INV-1"))
	}
	al.Stop()

	assert.Equal(t, AsyncLoggerStats{Enqueued: 10, Written: 10}, al.Stats())

	assert.False(t, al.Log(auditEntry("INV-2")), "stopped logger accepts no entries")
	assert.NotPanics(t, al.Stop)
}

func TestGlobalAsyncLogger(t *testing.T) {
	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())

	m := new(mocks.MockLoggingService)
	m.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	InitAsyncLogger(m, DefaultAsyncLoggerConfig())
	assert.NotNil(t, GetAsyncLogger())
	GetAsyncLogger().Log(auditEntry("INV-1"))

	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())
	StopAsyncLogger()
}

func TestInitAsyncLogger_ReplacesExisting(t *testing.T) {
	first := new(mocks.MockLoggingService)
	second := new(mocks.MockLoggingService)

	InitAsyncLogger(first, DefaultAsyncLoggerConfig())
	previous := GetAsyncLogger()

	InitAsyncLogger(second, DefaultAsyncLoggerConfig())
	assert.NotSame(t, previous, GetAsyncLogger())
	assert.False(t, previous.Log(auditEntry("INV-1")), "replaced logger is stopped")

	StopAsyncLogger()
}
