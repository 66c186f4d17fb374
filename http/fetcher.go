// Package http provides an HTTP-based implementation of unfurl.Fetcher
// for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dashkite/unfurl"
)

// Ensure Fetcher implements unfurl.Fetcher at compile time.
var _ unfurl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents using plain HTTP GET requests. Redirect,
// timeout, size and header settings come from the unfurl.Options of each
// call, so a single Fetcher can serve calls with different options.
type Fetcher struct {
	transport http.RoundTripper
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTransport sets the round tripper used for requests.
// Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url. Non-2xx responses fail with EHTTP; exceeding the
// redirect or size limits fails with ELIMIT.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Response, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "invalid URL %q: %v", url, err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}
	if !opts.Compress {
		// Setting the header also stops the transport from asking for gzip.
		req.Header.Set("Accept-Encoding", "identity")
	}

	resp, err := f.client(opts).Do(req)
	if err != nil {
		var appErr *unfurl.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unfurl.Errorf(unfurl.EHTTP, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := readBody(resp.Body, opts.Size)
	if err != nil {
		return nil, err
	}

	return &unfurl.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) client(opts unfurl.Options) *http.Client {
	follow := opts.Follow
	return &http.Client{
		Transport: f.transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > follow {
				return unfurl.Errorf(unfurl.ELIMIT, "maximum redirect reached at: %s", req.URL)
			}
			return nil
		},
	}
}

// readBody reads r, failing with ELIMIT once more than size bytes arrive.
// A size of zero reads everything.
func readBody(r io.Reader, size int64) ([]byte, error) {
	if size <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, size+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > size {
		return nil, unfurl.Errorf(unfurl.ELIMIT, "content size exceeds %d bytes", size)
	}
	return body, nil
}
