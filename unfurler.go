package unfurl

import (
	"context"
	"time"
)

// Unfurler fetches a page and extracts its metadata.
type Unfurler interface {
	Unfurl(ctx context.Context, url string, opts Options) (*Metadata, error)
}

// Extractor extracts metadata from an already decoded HTML document.
type Extractor interface {
	// Extract scans text, resolves its oEmbed document when opts.OEmbed is
	// set, and structures the result. Relative URLs resolve against baseURL.
	// Markup problems never fail the call; only cancellation does.
	Extract(ctx context.Context, text, baseURL string, opts Options) (*Metadata, error)
}

// OEmbedDecoder converts an oEmbed document body into a flat document.
type OEmbedDecoder interface {
	Decode(body []byte) (*OEmbedDocument, error)
}

// Ensure CachingUnfurler implements Unfurler at compile time.
var _ Unfurler = (*CachingUnfurler)(nil)

// CachingUnfurler serves metadata from a RecordService when a fresh record
// exists and stores new results otherwise.
type CachingUnfurler struct {
	Next    Unfurler
	Records RecordService

	// MaxAge is how long a record stays fresh. Zero means records never expire.
	MaxAge time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Unfurl returns cached metadata for url or delegates to Next. Records are
// keyed by url and opts.Variant().
func (c *CachingUnfurler) Unfurl(ctx context.Context, url string, opts Options) (*Metadata, error) {
	variant := opts.Variant()
	rec, err := c.Records.FindRecordByURL(ctx, url, variant)
	switch {
	case err == nil && c.fresh(rec):
		return rec.Metadata, nil
	case err != nil && ErrorCode(err) != ENOTFOUND:
		return nil, err
	}

	m, err := c.Next.Unfurl(ctx, url, opts)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		if err := c.Records.DeleteRecord(ctx, rec.ID); err != nil && ErrorCode(err) != ENOTFOUND {
			return nil, err
		}
	}
	if err := c.Records.CreateRecord(ctx, &Record{URL: url, Variant: variant, Metadata: m}); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *CachingUnfurler) fresh(rec *Record) bool {
	if c.MaxAge == 0 {
		return true
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().Sub(rec.FetchedAt) < c.MaxAge
}
