package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/dashkite/unfurl"
	"golang.org/x/time/rate"
)

var _ unfurl.DomainLimiter = (*HostLimiter)(nil)

// HostLimiter rate limits requests per host with one token bucket each.
// A batch spanning many sites runs concurrently while any single site sees
// at most rps requests per second.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host with the given burst. A non-positive rps disables limiting and
// a burst below 1 is treated as 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// Wait blocks until host may receive another request. Host names are
// compared case-insensitively. Returns an error if ctx is canceled first.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)

	l.mu.Lock()
	bucket, ok := l.buckets[host]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = bucket
	}
	l.mu.Unlock()

	return bucket.Wait(ctx)
}
