package unfurl

import (
	"strconv"
	"time"
)

// Defaults applied by DefaultOptions.
const (
	DefaultUserAgent = "facebookexternalhit"
	DefaultFollow    = 50
)

// AcceptHTML is the Accept header sent when fetching pages.
const AcceptHTML = "text/html, application/xhtml+xml"

// Options configures a single unfurl call.
type Options struct {
	// OEmbed enables fetching the page's oEmbed document.
	OEmbed bool

	// Timeout bounds each request. Zero disables the timeout.
	Timeout time.Duration

	// Follow is the maximum number of redirects. Zero disables redirects.
	Follow int

	// Compress requests gzip/deflate content encoding.
	Compress bool

	// Size caps response bodies in bytes. Zero disables the cap.
	Size int64

	// UserAgent is sent with every request; it is often used for content
	// negotiation.
	UserAgent string

	// Accept is sent as the Accept header when set.
	Accept string
}

// DefaultOptions returns options with oEmbed and compression enabled,
// 50 redirects and the facebookexternalhit user agent.
func DefaultOptions() Options {
	return Options{
		OEmbed:    true,
		Follow:    DefaultFollow,
		Compress:  true,
		UserAgent: DefaultUserAgent,
	}
}

// Variant identifies the options that change what an unfurl returns for
// the same URL. Results are only shared between calls of equal variant.
func (o *Options) Variant() string {
	return "oembed=" + strconv.FormatBool(o.OEmbed) + ";ua=" + o.UserAgent
}

// Validate returns an error if the options contain invalid fields.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return Errorf(EINVALID, "timeout must not be negative")
	}
	if o.Follow < 0 {
		return Errorf(EINVALID, "follow must not be negative")
	}
	if o.Size < 0 {
		return Errorf(EINVALID, "size must not be negative")
	}
	return nil
}
