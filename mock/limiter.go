package mock

import (
	"context"

	"github.com/dashkite/unfurl"
)

var _ unfurl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of unfurl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
