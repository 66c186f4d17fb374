package main

import (
	"context"
	"io"
	"time"

	"github.com/dashkite/unfurl"
	"github.com/dashkite/unfurl/batch"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs []string `arg:"" required:"" name:"url" help:"Page URLs to unfurl"`

	NoOEmbed    bool          `name:"no-oembed" help:"Skip fetching the page's oEmbed document"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Timeout per request (0 disables)"`
	Follow      int           `default:"50" help:"Maximum redirects to follow"`
	Size        int64         `default:"0" help:"Maximum response size in bytes (0 disables)"`
	UserAgent   string        `name:"user-agent" default:"facebookexternalhit" help:"User-Agent header"`
	NoCompress  bool          `name:"no-compress" help:"Request uncompressed responses"`
	Render      bool          `short:"r" help:"Render pages in headless Chrome before extraction"`
	Format      string        `short:"f" enum:"json,yaml" default:"json" help:"Output format (json, yaml)"`
	DB          string        `name:"db" env:"UNFURL_DB" help:"Cache results in this SQLite database"`
	MaxAge      time.Duration `name:"max-age" default:"24h" help:"How long cached results stay fresh (0 never expires)"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent unfurl limit"`
	Rate        float64       `default:"0" help:"Requests per second per host (0 disables)"`
	Retries     int           `default:"2" help:"Retries for transient failures (max 3)"`
	Verbose     bool          `short:"v" help:"Log requests and cache activity to stderr"`
}

// Options returns the unfurl options selected by the flags.
func (c *CLI) Options() unfurl.Options {
	return unfurl.Options{
		OEmbed:    !c.NoOEmbed,
		Timeout:   c.Timeout,
		Follow:    c.Follow,
		Compress:  !c.NoCompress,
		Size:      c.Size,
		UserAgent: c.UserAgent,
	}
}

// RetryDelays returns the first Retries backoff delays.
func (c *CLI) RetryDelays() []time.Duration {
	delays := batch.DefaultRetryDelays()
	n := min(max(c.Retries, 0), len(delays))
	return delays[:n]
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Runner *batch.Runner
}
