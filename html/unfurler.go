package html

import (
	"context"
	"net/url"

	"github.com/dashkite/unfurl"
)

// Ensure Unfurler implements unfurl.Unfurler at compile time.
var _ unfurl.Unfurler = (*Unfurler)(nil)

// Unfurler fetches a page, decodes its character set and extracts its
// metadata.
type Unfurler struct {
	Fetcher   unfurl.Fetcher
	Extractor unfurl.Extractor
}

// NewUnfurler creates a new Unfurler.
func NewUnfurler(fetcher unfurl.Fetcher, extractor unfurl.Extractor) *Unfurler {
	return &Unfurler{Fetcher: fetcher, Extractor: extractor}
}

// Unfurl fetches rawURL and returns its metadata. Non-HTML responses fail
// with ENOTHTML. Relative URLs resolve against the final URL after
// redirects.
func (u *Unfurler) Unfurl(ctx context.Context, rawURL string, opts unfurl.Options) (*unfurl.Metadata, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, unfurl.Errorf(unfurl.EINVALID, "invalid URL %q", rawURL)
	}

	pageOpts := opts
	pageOpts.Accept = unfurl.AcceptHTML
	resp, err := u.Fetcher.Fetch(ctx, rawURL, pageOpts)
	if err != nil {
		return nil, err
	}

	if !resp.IsHTML() {
		return nil, unfurl.Errorf(unfurl.ENOTHTML, "expected HTML from %s but got content type %q", rawURL, resp.ContentType)
	}

	text, err := DecodeBody(resp)
	if err != nil {
		return nil, err
	}

	baseURL := resp.URL
	if baseURL == "" {
		baseURL = rawURL
	}

	return u.Extractor.Extract(ctx, text, baseURL, opts)
}
