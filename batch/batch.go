// Package batch unfurls many URLs concurrently with per-host rate limiting
// and retries.
package batch

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/dashkite/unfurl"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of concurrent unfurls when Runner.Concurrency
// is not set.
const DefaultConcurrency = 4

// Runner unfurls a list of URLs.
type Runner struct {
	Unfurler    unfurl.Unfurler
	RateLimiter unfurl.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Logf, if set, is called for each retry attempt.
	Logf LogFunc
}

// Item is the outcome of unfurling one URL.
type Item struct {
	URL      string           `json:"url" yaml:"url"`
	Metadata *unfurl.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Err      error            `json:"-" yaml:"-"`
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type result struct {
	position int
	item     *Item
}

// Run unfurls urls and returns one item per distinct URL in first-seen
// order. Failures are reported per item; Run itself only stops early when
// ctx is canceled, in which case the remaining items carry ctx.Err().
func (r *Runner) Run(ctx context.Context, urls []string, opts unfurl.Options, progress ProgressFunc) []*Item {
	urls = dedupe(urls)

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan result, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- result{position: i, item: r.unfurl(gctx, u, opts)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	items := make([]*Item, len(urls))
	for res := range resultCh {
		completed.Add(1)
		items[res.position] = res.item

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       res.item.URL,
		}
		if res.item.Err != nil {
			event.Type = ProgressFailed
			event.Error = res.item.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return items
}

func (r *Runner) unfurl(ctx context.Context, rawURL string, opts unfurl.Options) *Item {
	item := &Item{URL: rawURL}

	if r.RateLimiter != nil {
		if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
			if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
				item.Err = err
				return item
			}
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fn := func(ctx context.Context, url string) (*unfurl.Metadata, error) {
		return r.Unfurler.Unfurl(ctx, url, opts)
	}
	item.Metadata, item.Err = UnfurlWithRetryDelays(ctx, rawURL, fn, r.Logf, delays)
	return item
}

// dedupe drops repeated URLs, keeping the first occurrence.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
