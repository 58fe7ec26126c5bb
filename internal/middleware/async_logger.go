package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/service"
)

// AsyncLoggerConfig holds configuration for the audit log writer.
type AsyncLoggerConfig struct {
	// BufferSize is the number of entries that may wait for a worker.
	BufferSize int
	// NumWorkers is the number of goroutines writing to the store.
	NumWorkers int
	// BatchSize is the largest number of entries written in one call.
	BatchSize int
	// FlushInterval bounds how long a partial batch waits.
	FlushInterval time.Duration
	// WriteTimeout bounds a single store write.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the defaults used by the service.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		NumWorkers:    4,
		BatchSize:     50,
		FlushInterval: 250 * time.Millisecond,
		WriteTimeout:  5 * time.Second,
	}
}

func (cfg AsyncLoggerConfig) withDefaults() AsyncLoggerConfig {
	defaults := DefaultAsyncLoggerConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	cfg.NumWorkers = max(cfg.NumWorkers, 1)
	cfg.BatchSize = max(cfg.BatchSize, 1)
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaults.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	return cfg
}

// AsyncLoggerStats counts entries by outcome.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger writes audit entries off the request path. Workers group
// entries into batches and a full buffer drops entries instead of blocking a
// packing slip generation.
type AsyncLogger struct {
	store service.LoggingService
	cfg   AsyncLoggerConfig

	queue chan *model.LogEntry
	quit  chan struct{}
	wg    sync.WaitGroup

	// mu orders Log against Stop so nothing is queued once the drain starts.
	mu      sync.RWMutex
	stopped bool

	enqueued, dropped, written, failed atomic.Int64
}

// NewAsyncLogger starts the worker pool. It returns nil without a logging service.
func NewAsyncLogger(store service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if store == nil {
		return nil
	}

	cfg = cfg.withDefaults()
	al := &AsyncLogger{
		store: store,
		cfg:   cfg,
		queue: make(chan *model.LogEntry, cfg.BufferSize),
		quit:  make(chan struct{}),
	}

	al.wg.Add(cfg.NumWorkers)
	for range cfg.NumWorkers {
		go al.run()
	}
	return al
}

func (al *AsyncLogger) run() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.cfg.FlushInterval)
	defer ticker.Stop()

	var batch []*model.LogEntry
	add := func(entry *model.LogEntry) {
		batch = append(batch, entry)
		if len(batch) >= al.cfg.BatchSize {
			al.write(batch)
			batch = nil
		}
	}
	flush := func() {
		if len(batch) > 0 {
			al.write(batch)
			batch = nil
		}
	}

	for {
		select {
		case entry := <-al.queue:
			add(entry)
		case <-ticker.C:
			flush()
		case <-al.quit:
			for {
				select {
				case entry := <-al.queue:
					add(entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (al *AsyncLogger) write(batch []*model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), al.cfg.WriteTimeout)
	defer cancel()

	var err error
	if len(batch) == 1 {
		err = al.store.CreateLog(ctx, batch[0])
	} else {
		err = al.store.CreateLogs(ctx, batch)
	}

	if err != nil {
		al.failed.Add(int64(len(batch)))
		metrics.RecordAuditEntries("failed", len(batch))
		logger.FromContext(ctx).Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write audit log entries")
		return
	}
	al.written.Add(int64(len(batch)))
	metrics.RecordAuditEntries("written", len(batch))
}

// Log enqueues an entry. It returns false when the buffer is full or the
// logger is stopped, and the entry is dropped.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	al.mu.RLock()
	defer al.mu.RUnlock()

	if !al.stopped {
		select {
		case al.queue <- entry:
			al.enqueued.Add(1)
			return true
		default:
		}
	}

	al.dropped.Add(1)
	metrics.RecordAuditEntries("dropped", 1)
	return false
}

// Stop flushes pending entries and waits for the workers. It is safe to call
// more than once.
func (al *AsyncLogger) Stop() {
	al.mu.Lock()
	if al.stopped {
		al.mu.Unlock()
		al.wg.Wait()
		return
	}
	al.stopped = true
	close(al.quit)
	al.mu.Unlock()

	al.wg.Wait()
}

// Stats returns the entry counts so far.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger installs the process-wide audit writer, stopping any
// previous one.
func InitAsyncLogger(store service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(store, cfg)
}

// GetAsyncLogger returns the process-wide audit writer, or nil.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger flushes and removes the process-wide audit writer.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
