package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dashkite/unfurl"
	"gopkg.in/yaml.v3"
)

// run unfurls urls and writes one document per successful URL to stdout.
// Failures are reported on stderr; the returned error summarizes them.
func run(deps *Dependencies, urls []string, opts unfurl.Options, format string) error {
	items := deps.Runner.Run(deps.Ctx, urls, opts, nil)

	var failed, written int
	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "%s: %v\n", item.URL, item.Err)
			continue
		}
		// YAML documents after the first need a separator.
		if format == FormatYAML && written > 0 {
			if _, err := io.WriteString(deps.Stdout, "---\n"); err != nil {
				return err
			}
		}
		if err := write(deps.Stdout, item.Metadata, format); err != nil {
			return err
		}
		written++
	}

	if err := deps.Ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(items))
	}
	return nil
}

func write(w io.Writer, m *unfurl.Metadata, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlMetadata(m)); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(m)
	}
}

// yamlMetadata copies m with JSON numbers turned into Go numbers, which
// yaml.v3 would otherwise emit as quoted strings.
func yamlMetadata(m *unfurl.Metadata) *unfurl.Metadata {
	out := &unfurl.Metadata{
		Vanilla: yamlObject(m.Vanilla),
		OEmbed:  yamlObject(m.OEmbed),
	}
	if m.OpenGraph != nil {
		out.OpenGraph = yamlObjects(m.OpenGraph)
	}
	if m.TwitterCard != nil {
		out.TwitterCard = yamlObjects(m.TwitterCard)
	}
	if m.LinkedData != nil {
		out.LinkedData = yamlValue(m.LinkedData).([]any)
	}
	return out
}

func yamlObjects(objs []unfurl.Object) []unfurl.Object {
	out := make([]unfurl.Object, len(objs))
	for i, obj := range objs {
		out[i] = yamlObject(obj)
	}
	return out
}

func yamlObject(obj unfurl.Object) unfurl.Object {
	if obj == nil {
		return nil
	}
	return yamlValue(obj).(unfurl.Object)
}

func yamlValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []unfurl.Object:
		return yamlObjects(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = yamlValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}
