package service

import (
	"context"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log query page sizes.
const (
	DefaultLogQueryLimit = 50
	MaxLogQueryLimit     = 500
)

// LoggingService persists request and audit log entries and reads them back.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	// QueryLogs returns matching entries, newest first. A zero limit means
	// DefaultLogQueryLimit; larger limits are capped at MaxLogQueryLimit.
	QueryLogs(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, q model.LogQuery) (int64, error)
}

// LoggingServiceImpl implements LoggingService on a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
	now  func() time.Time
}

// NewLoggingService returns a LoggingService backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo, now: time.Now}
}

// CreateLog stores one entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	s.stamp(entry)
	return s.repo.Insert(ctx, entry)
}

// CreateLogs stores entries in one batch. Nil entries are skipped.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	batch := make([]*model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		s.stamp(e)
		batch = append(batch, e)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.Insert(ctx, batch...)
}

// QueryLogs returns matching entries, newest first.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLogQueryLimit
	case q.Limit > MaxLogQueryLimit:
		q.Limit = MaxLogQueryLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	entries, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return entries, nil
}

// CountLogs counts matching entries.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, q model.LogQuery) (int64, error) {
	return s.repo.Count(ctx, q)
}

// stamp fills the ID, time and level of entries built without them so the
// caller can still reference the stored entry.
func (s *LoggingServiceImpl) stamp(e *model.LogEntry) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if e.Level == "" {
		e.Level = "info"
	}
}
