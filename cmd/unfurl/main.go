package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dashkite/unfurl"
	"github.com/dashkite/unfurl/batch"
	"github.com/dashkite/unfurl/etree"
	"github.com/dashkite/unfurl/html"
	unfurlhttp "github.com/dashkite/unfurl/http"
	"github.com/dashkite/unfurl/rod"
	unfurlslog "github.com/dashkite/unfurl/slog"
	"github.com/dashkite/unfurl/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used for caching, opened when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("unfurl"),
		kong.Description("Extract Open Graph, Twitter Card, oEmbed and linked data metadata from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'unfurl --help' for usage")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	opts := cli.Options()
	if err := opts.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// oEmbed documents are plain JSON or XML, so they always come over HTTP
	// even when pages are rendered.
	var httpFetcher unfurl.Fetcher = unfurlslog.NewLoggingFetcher(unfurlhttp.NewFetcher(), logger)
	defer httpFetcher.Close()

	pageFetcher := httpFetcher
	if cli.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		pageFetcher = unfurlslog.NewLoggingFetcher(rodFetcher, logger)
		defer pageFetcher.Close()
	}

	extractor := html.NewExtractor(httpFetcher, etree.NewDecoder(), logger)
	var unfurler unfurl.Unfurler = html.NewUnfurler(pageFetcher, extractor)

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set UNFURL_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		unfurler = &unfurl.CachingUnfurler{
			Next:    unfurler,
			Records: unfurlslog.NewLoggingRecordService(sqlite.NewRecordService(m.DB), logger),
			MaxAge:  cli.MaxAge,
		}
	}

	runner := &batch.Runner{
		Unfurler:    unfurlslog.NewLoggingUnfurler(unfurler, logger),
		Concurrency: cli.Concurrency,
		RetryDelays: cli.RetryDelays(),
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}
	if cli.Rate > 0 {
		runner.RateLimiter = batch.NewHostLimiter(cli.Rate, 1)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Runner: runner,
	}

	return run(deps, cli.URLs, opts, cli.Format)
}
