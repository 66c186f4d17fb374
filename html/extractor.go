package html

import (
	"context"
	"log/slog"

	"github.com/dashkite/unfurl"
)

// Ensure Extractor implements unfurl.Extractor at compile time.
var _ unfurl.Extractor = (*Extractor)(nil)

// Extractor scans decoded HTML, resolves the page's oEmbed document and
// structures the combined signals into metadata.
type Extractor struct {
	// Fetcher retrieves oEmbed documents. oEmbed is skipped when nil.
	Fetcher unfurl.Fetcher

	// XMLDecoder maps XML oEmbed documents. XML oEmbed is skipped when nil.
	XMLDecoder unfurl.OEmbedDecoder

	Scanner    *Scanner
	Structurer *unfurl.Structurer

	// Logger receives warnings about skipped linked data and oEmbed
	// documents. Nil discards them.
	Logger *slog.Logger
}

// NewExtractor creates an Extractor over the default schema.
func NewExtractor(fetcher unfurl.Fetcher, xml unfurl.OEmbedDecoder, logger *slog.Logger) *Extractor {
	return &Extractor{
		Fetcher:    fetcher,
		XMLDecoder: xml,
		Scanner:    NewScanner(),
		Structurer: unfurl.NewStructurer(Decode),
		Logger:     logger,
	}
}

// Extract returns the metadata of text. The oEmbed document is fetched only
// when opts.OEmbed is set; failing to fetch or decode it leaves the page
// metadata unchanged. The only error returned is context cancellation.
func (e *Extractor) Extract(ctx context.Context, text, baseURL string, opts unfurl.Options) (*unfurl.Metadata, error) {
	scanner := e.Scanner
	if scanner == nil {
		scanner = NewScanner()
	}

	scan := scanner.Scan(text, baseURL, opts.OEmbed)
	for _, err := range scan.Errors {
		e.logger().Warn("skipping linked data", "url", baseURL, "err", err)
	}

	signals := scan.Signals
	if opts.OEmbed && scan.OEmbed != nil && e.Fetcher != nil {
		extra, err := e.resolveOEmbed(ctx, scan.OEmbed, baseURL, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger().Warn("skipping oEmbed", "url", baseURL, "href", scan.OEmbed.Href, "err", err)
		}
		signals = append(signals, extra...)
	}

	return e.structurer().Structure(signals, baseURL), nil
}

func (e *Extractor) structurer() *unfurl.Structurer {
	if e.Structurer == nil {
		return unfurl.NewStructurer(Decode)
	}
	return e.Structurer
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
