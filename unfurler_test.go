package unfurl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dashkite/unfurl"
	"github.com/dashkite/unfurl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingUnfurler_Unfurl(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cached := &unfurl.Metadata{Vanilla: unfurl.Object{"title": "Cached"}}
	fresh := &unfurl.Metadata{Vanilla: unfurl.Object{"title": "Fresh"}}

	next := func(calls *int) *mock.Unfurler {
		return &mock.Unfurler{
			UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
				*calls++
				return fresh, nil
			},
		}
	}

	t.Run("returns fresh cached record", func(t *testing.T) {
		t.Parallel()

		var calls int
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return &unfurl.Record{ID: "r1", URL: url, Metadata: cached, FetchedAt: now.Add(-time.Minute)}, nil
				},
			},
			MaxAge: time.Hour,
			Now:    func() time.Time { return now },
		}

		m, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		require.NoError(t, err)
		assert.Same(t, cached, m)
		assert.Zero(t, calls)
	})

	t.Run("zero max age never expires", func(t *testing.T) {
		t.Parallel()

		var calls int
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return &unfurl.Record{ID: "r1", URL: url, Metadata: cached, FetchedAt: now.AddDate(-1, 0, 0)}, nil
				},
			},
			Now: func() time.Time { return now },
		}

		m, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		require.NoError(t, err)
		assert.Same(t, cached, m)
		assert.Zero(t, calls)
	})

	t.Run("unfurls and stores on miss", func(t *testing.T) {
		t.Parallel()

		var calls int
		var stored *unfurl.Record
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return nil, unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
				},
				CreateRecordFn: func(ctx context.Context, rec *unfurl.Record) error {
					stored = rec
					return nil
				},
			},
		}

		m, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		require.NoError(t, err)
		assert.Same(t, fresh, m)
		assert.Equal(t, 1, calls)
		require.NotNil(t, stored)
		assert.Equal(t, "https://example.com", stored.URL)
		assert.Equal(t, "oembed=true;ua=facebookexternalhit", stored.Variant)
		assert.Same(t, fresh, stored.Metadata)
	})

	t.Run("does not share records across option variants", func(t *testing.T) {
		t.Parallel()

		var calls int
		var lookups []string
		records := map[string]*unfurl.Record{}
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					lookups = append(lookups, variant)
					if rec, ok := records[url+" "+variant]; ok {
						return rec, nil
					}
					return nil, unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
				},
				CreateRecordFn: func(ctx context.Context, rec *unfurl.Record) error {
					records[rec.URL+" "+rec.Variant] = rec
					return nil
				},
			},
		}

		plain := unfurl.DefaultOptions()
		plain.OEmbed = false
		_, err := u.Unfurl(context.Background(), "https://example.com", plain)
		require.NoError(t, err)

		_, err = u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())
		require.NoError(t, err)

		_, err = u.Unfurl(context.Background(), "https://example.com", plain)
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
		assert.Equal(t, []string{
			"oembed=false;ua=facebookexternalhit",
			"oembed=true;ua=facebookexternalhit",
			"oembed=false;ua=facebookexternalhit",
		}, lookups)
	})

	t.Run("replaces stale record", func(t *testing.T) {
		t.Parallel()

		var calls int
		var deleted string
		var created bool
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return &unfurl.Record{ID: "old", URL: url, Metadata: cached, FetchedAt: now.Add(-2 * time.Hour)}, nil
				},
				DeleteRecordFn: func(ctx context.Context, id string) error {
					deleted = id
					return nil
				},
				CreateRecordFn: func(ctx context.Context, rec *unfurl.Record) error {
					created = true
					return nil
				},
			},
			MaxAge: time.Hour,
			Now:    func() time.Time { return now },
		}

		m, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		require.NoError(t, err)
		assert.Same(t, fresh, m)
		assert.Equal(t, "old", deleted)
		assert.True(t, created)
	})

	t.Run("returns lookup failure", func(t *testing.T) {
		t.Parallel()

		var calls int
		u := &unfurl.CachingUnfurler{
			Next: next(&calls),
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return nil, errors.New("database is locked")
				},
			},
		}

		_, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		require.EqualError(t, err, "database is locked")
		assert.Zero(t, calls)
	})

	t.Run("does not store failures", func(t *testing.T) {
		t.Parallel()

		u := &unfurl.CachingUnfurler{
			Next: &mock.Unfurler{
				UnfurlFn: func(ctx context.Context, url string, opts unfurl.Options) (*unfurl.Metadata, error) {
					return nil, unfurl.Errorf(unfurl.EHTTP, "HTTP 500 for %s", url)
				},
			},
			Records: &mock.RecordService{
				FindRecordByURLFn: func(ctx context.Context, url, variant string) (*unfurl.Record, error) {
					return nil, unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
				},
			},
		}

		_, err := u.Unfurl(context.Background(), "https://example.com", unfurl.DefaultOptions())

		assert.Equal(t, unfurl.EHTTP, unfurl.ErrorCode(err))
	})
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, unfurl.EINVALID, unfurl.ErrorCode((&unfurl.Record{}).Validate()))
	assert.Equal(t, unfurl.EINVALID, unfurl.ErrorCode((&unfurl.Record{URL: "https://example.com"}).Validate()))
	assert.NoError(t, (&unfurl.Record{URL: "https://example.com", Metadata: &unfurl.Metadata{}}).Validate())
}
