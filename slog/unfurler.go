package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dashkite/unfurl"
)

// Ensure LoggingUnfurler implements unfurl.Unfurler.
var _ unfurl.Unfurler = (*LoggingUnfurler)(nil)

// LoggingUnfurler wraps an Unfurler with logging.
type LoggingUnfurler struct {
	next   unfurl.Unfurler
	logger *slog.Logger
}

// NewLoggingUnfurler creates a new LoggingUnfurler.
func NewLoggingUnfurler(next unfurl.Unfurler, logger *slog.Logger) *LoggingUnfurler {
	return &LoggingUnfurler{next: next, logger: logger}
}

// Unfurl delegates to the wrapped unfurler and logs the sections found.
func (u *LoggingUnfurler) Unfurl(ctx context.Context, url string, opts unfurl.Options) (m *unfurl.Metadata, err error) {
	defer func(begin time.Time) {
		u.logger.Info("unfurl",
			"url", url,
			"sections", m.Sections(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return u.next.Unfurl(ctx, url, opts)
}
