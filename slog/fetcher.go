// Package slog provides logging decorators for unfurl services using log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dashkite/unfurl"
)

// Ensure LoggingFetcher implements unfurl.Fetcher.
var _ unfurl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   unfurl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next unfurl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, opts unfurl.Options) (resp *unfurl.Response, err error) {
	defer func(begin time.Time) {
		var size int
		var final, contentType string
		if resp != nil {
			size = len(resp.Body)
			final = resp.URL
			contentType = resp.ContentType
		}
		f.logger.Debug("fetch",
			"url", url,
			"final", final,
			"type", contentType,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, opts)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
