package unfurl

import (
	"context"
	"strings"
)

// Response is a fetched document.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	StatusCode  int
	ContentType string
	Body        []byte
}

// IsHTML reports whether the response declares an HTML or XHTML body.
func (r *Response) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// Fetcher retrieves documents over the network.
type Fetcher interface {
	// Fetch retrieves url using opts for user agent, redirect, size and
	// timeout limits. The context controls cancellation.
	Fetch(ctx context.Context, url string, opts Options) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}
