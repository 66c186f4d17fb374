// Package rod provides a rendering implementation of unfurl.Fetcher using
// headless Chrome through github.com/go-rod/rod. It serves pages whose
// metadata is only present after JavaScript runs.
package rod

import (
	"context"

	"github.com/dashkite/unfurl"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements unfurl.Fetcher at compile time.
var _ unfurl.Fetcher = (*Fetcher)(nil)

// renderedContentType is reported for every rendered page: the DOM is
// serialized as UTF-8 HTML regardless of what the server sent.
const renderedContentType = "text/html; charset=utf-8"

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Redirects are followed by the browser itself, so opts.Follow is not
// enforced. Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *browser
	maxPages int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages sets how many pages are rendered before Chrome is relaunched.
// Zero never relaunches. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}

	b, err := launchBrowser(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to url and returns the rendered document.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := f.browser.acquire()
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)
	if opts.Timeout > 0 {
		page = page.Timeout(opts.Timeout)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			return nil, err
		}
	}
	if opts.Accept != "" {
		cleanup, err := page.SetExtraHeaders([]string{"Accept", opts.Accept})
		if err != nil {
			return nil, err
		}
		defer cleanup()
	}

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	if opts.Size > 0 && int64(len(html)) > opts.Size {
		return nil, unfurl.Errorf(unfurl.ELIMIT, "content size exceeds %d bytes", opts.Size)
	}

	// The page URL reflects any redirects the browser followed.
	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &unfurl.Response{
		URL:         finalURL,
		StatusCode:  200,
		ContentType: renderedContentType,
		Body:        []byte(html),
	}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.close()
}
