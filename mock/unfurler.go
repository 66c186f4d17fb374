package mock

import (
	"context"

	"github.com/dashkite/unfurl"
)

var _ unfurl.Unfurler = (*Unfurler)(nil)

// Unfurler is a mock implementation of unfurl.Unfurler.
type Unfurler struct {
	UnfurlFn func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error)
}

func (u *Unfurler) Unfurl(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
	return u.UnfurlFn(ctx, url, opts)
}

var _ unfurl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of unfurl.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, text, baseURL string, opts unfurl.Options) (*unfurl.Metadata, error)
}

func (e *Extractor) Extract(ctx context.Context, text, baseURL string, opts unfurl.Options) (*unfurl.Metadata, error) {
	return e.ExtractFn(ctx, text, baseURL, opts)
}

var _ unfurl.OEmbedDecoder = (*OEmbedDecoder)(nil)

// OEmbedDecoder is a mock implementation of unfurl.OEmbedDecoder.
type OEmbedDecoder struct {
	DecodeFn func(body []byte) (*unfurl.OEmbedDocument, error)
}

func (d *OEmbedDecoder) Decode(body []byte) (*unfurl.OEmbedDocument, error) {
	return d.DecodeFn(body)
}
