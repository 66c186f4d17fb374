package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dashkite/unfurl"
	"github.com/dashkite/unfurl/mock"
	unfurlslog "github.com/dashkite/unfurl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordService_FindRecordByURL(t *testing.T) {
	t.Parallel()

	t.Run("logs hit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
				return &unfurl.Record{URL: url, FetchedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, nil
			},
		}

		svc := unfurlslog.NewLoggingRecordService(inner, debugLogger(&buf))
		_, err := svc.FindRecordByURL(context.Background(), "https://example.com", "oembed=true;ua=bot")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=\"cache lookup\"")
		assert.Contains(t, output, "hit=true")
		assert.Contains(t, output, "variant=oembed=true;ua=bot")
		assert.Contains(t, output, "fetched=2026-01-02T03:04:05.000Z")
	})

	t.Run("logs miss without error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
				return nil, unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
			},
		}

		svc := unfurlslog.NewLoggingRecordService(inner, debugLogger(&buf))
		_, err := svc.FindRecordByURL(context.Background(), "https://example.com", "oembed=true;ua=bot")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "hit=false")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs lookup failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
				return nil, errors.New("disk error")
			},
		}

		svc := unfurlslog.NewLoggingRecordService(inner, debugLogger(&buf))
		_, err := svc.FindRecordByURL(context.Background(), "https://example.com", "oembed=true;ua=bot")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk error\"")
	})
}

func TestLoggingRecordService_CreateAndDelete(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.RecordService{
		CreateRecordFn: func(ctx context.Context, rec *unfurl.Record) error {
			rec.ContentHash = "abc123"
			return nil
		},
		DeleteRecordFn: func(ctx context.Context, id string) error {
			return nil
		},
	}

	svc := unfurlslog.NewLoggingRecordService(inner, debugLogger(&buf))
	require.NoError(t, svc.CreateRecord(context.Background(), &unfurl.Record{URL: "https://example.com"}))
	require.NoError(t, svc.DeleteRecord(context.Background(), "rec-1"))

	output := buf.String()
	assert.Contains(t, output, "msg=\"cache store\"")
	assert.Contains(t, output, "hash=abc123")
	assert.Contains(t, output, "msg=\"cache evict\"")
	assert.Contains(t, output, "id=rec-1")
}
