package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dashkite/unfurl"
	"github.com/dashkite/unfurl/batch"
	"github.com/dashkite/unfurl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns items in input order without duplicates", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Unfurler: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					// Finish later URLs first to exercise reordering.
					if url == "https://a.example" {
						time.Sleep(20 * time.Millisecond)
					}
					return &unfurl.Metadata{Vanilla: unfurl.Object{"title": url}}, nil
				},
			},
			Concurrency: 3,
			RetryDelays: noDelays(),
		}

		urls := []string{"https://a.example", "https://b.example", "https://a.example", "https://c.example"}
		items := r.Run(context.Background(), urls, unfurl.DefaultOptions(), nil)

		require.Len(t, items, 3)
		for i, want := range []string{"https://a.example", "https://b.example", "https://c.example"} {
			assert.Equal(t, want, items[i].URL)
			require.NoError(t, items[i].Err)
			assert.Equal(t, want, items[i].Metadata.Vanilla["title"])
		}
	})

	t.Run("reports per item failures", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Unfurler: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					if url == "https://bad.example/a.png" {
						return nil, unfurl.Errorf(unfurl.ENOTHTML, "not HTML")
					}
					return &unfurl.Metadata{}, nil
				},
			},
			RetryDelays: noDelays(),
		}

		var mu sync.Mutex
		var events []batch.ProgressEvent
		progress := func(e batch.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}

		items := r.Run(context.Background(), []string{"https://ok.example", "https://bad.example/a.png"}, unfurl.DefaultOptions(), progress)

		require.Len(t, items, 2)
		assert.NoError(t, items[0].Err)
		assert.Equal(t, unfurl.ENOTHTML, unfurl.ErrorCode(items[1].Err))

		require.Len(t, events, 4)
		assert.Equal(t, batch.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, batch.ProgressFinished, events[3].Type)

		var failed int
		for _, e := range events[1:3] {
			if e.Type == batch.ProgressFailed {
				failed++
				assert.Equal(t, "https://bad.example/a.png", e.URL)
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("limits concurrency", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		r := &batch.Runner{
			Unfurler: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					running.Add(-1)
					return &unfurl.Metadata{}, nil
				},
			},
			Concurrency: 2,
		}

		urls := []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example", "https://5.example"}
		items := r.Run(context.Background(), urls, unfurl.DefaultOptions(), nil)

		assert.Len(t, items, 5)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("waits on rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		r := &batch.Runner{
			Unfurler: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					return &unfurl.Metadata{}, nil
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(ctx context.Context, domain string) error {
					mu.Lock()
					defer mu.Unlock()
					hosts = append(hosts, domain)
					return nil
				},
			},
			Concurrency: 1,
		}

		r.Run(context.Background(), []string{"https://example.com/a", "https://example.com:8080/b"}, unfurl.DefaultOptions(), nil)

		assert.Equal(t, []string{"example.com", "example.com:8080"}, hosts)
	})

	t.Run("rate limiter failure fails the item", func(t *testing.T) {
		t.Parallel()

		var called bool
		r := &batch.Runner{
			Unfurler: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					called = true
					return &unfurl.Metadata{}, nil
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(ctx context.Context, domain string) error {
					return errors.New("limiter closed")
				},
			},
		}

		items := r.Run(context.Background(), []string{"https://example.com"}, unfurl.DefaultOptions(), nil)

		require.Len(t, items, 1)
		assert.EqualError(t, items[0].Err, "limiter closed")
		assert.False(t, called)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{Unfurler: &mock.Unfurler{}}
		items := r.Run(context.Background(), nil, unfurl.DefaultOptions(), nil)
		assert.Empty(t, items)
	})
}
