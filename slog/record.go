package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dashkite/unfurl"
)

// Ensure LoggingRecordService implements unfurl.RecordService.
var _ unfurl.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with debug logging of cache
// lookups and writes.
type LoggingRecordService struct {
	next   unfurl.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next unfurl.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

func (s *LoggingRecordService) CreateRecord(ctx context.Context, rec *unfurl.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("cache store",
			"url", rec.URL,
			"hash", rec.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRecord(ctx, rec)
}

// FindRecordByURL logs a hit or a miss. A miss is not logged as an error.
func (s *LoggingRecordService) FindRecordByURL(ctx context.Context, url, variant string) (rec *unfurl.Record, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "variant", variant, "hit", err == nil, "duration", time.Since(begin)}
		if err == nil {
			attrs = append(attrs, "fetched", rec.FetchedAt)
		} else if unfurl.ErrorCode(err) != unfurl.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		s.logger.Debug("cache lookup", attrs...)
	}(time.Now())
	return s.next.FindRecordByURL(ctx, url, variant)
}

func (s *LoggingRecordService) FindRecords(ctx context.Context, filter unfurl.RecordFilter) ([]*unfurl.Record, error) {
	return s.next.FindRecords(ctx, filter)
}

func (s *LoggingRecordService) DeleteRecord(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("cache evict",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRecord(ctx, id)
}
