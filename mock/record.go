package mock

import (
	"context"

	"github.com/dashkite/unfurl"
)

var _ unfurl.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of unfurl.RecordService.
type RecordService struct {
	CreateRecordFn    func(ctx context.Context, rec *unfurl.Record) error
	FindRecordByURLFn func(ctx context.Context, url, variant string) (*unfurl.Record, error)
	FindRecordsFn     func(ctx context.Context, filter unfurl.RecordFilter) ([]*unfurl.Record, error)
	DeleteRecordFn    func(ctx context.Context, id string) error
}

func (s *RecordService) CreateRecord(ctx context.Context, rec *unfurl.Record) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByURL(ctx context.Context, url, variant string) (*unfurl.Record, error) {
	return s.FindRecordByURLFn(ctx, url, variant)
}

func (s *RecordService) FindRecords(ctx context.Context, filter unfurl.RecordFilter) ([]*unfurl.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}
