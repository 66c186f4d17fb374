package html

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/dashkite/unfurl"
)

// oEmbedPrefix namespaces oEmbed fields in the signal stream.
const oEmbedPrefix = "oEmbed:"

// resolveOEmbed fetches the document behind link and returns its fields as
// signals, filtered to schema keys.
func (e *Extractor) resolveOEmbed(ctx context.Context, link *unfurl.OEmbedLink, baseURL string, opts unfurl.Options) ([]unfurl.Signal, error) {
	target := unfurl.ResolveURL(baseURL, link.Href)

	opts.Accept = ""
	resp, err := e.Fetcher.Fetch(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	contentType := strings.ToLower(resp.ContentType)
	var content *unfurl.OEmbedDocument
	switch {
	case link.Type == unfurl.OEmbedJSON && strings.Contains(contentType, "application/json"):
		content, err = decodeOEmbedJSON(resp.Body)
	case link.Type == unfurl.OEmbedXML && strings.Contains(contentType, "text/xml"):
		if e.XMLDecoder == nil {
			return nil, nil
		}
		content, err = e.XMLDecoder.Decode(resp.Body)
	default:
		return nil, unfurl.Errorf(unfurl.EINVALID, "unexpected oEmbed content type %q for %s", resp.ContentType, link.Type)
	}
	if err != nil {
		return nil, err
	}

	return oEmbedSignals(content, e.structurer().Schema), nil
}

// decodeOEmbedJSON reads a JSON object member by member so that the
// document keeps the order of its keys.
func decodeOEmbedJSON(body []byte) (*unfurl.OEmbedDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "invalid oEmbed JSON: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, unfurl.Errorf(unfurl.EINVALID, "oEmbed JSON is not an object")
	}

	doc := unfurl.NewOEmbedDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unfurl.Errorf(unfurl.EINVALID, "invalid oEmbed JSON: %v", err)
		}
		key, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, unfurl.Errorf(unfurl.EINVALID, "invalid oEmbed JSON: %v", err)
		}
		doc.Set(key, v)
	}

	// Closing brace, then nothing.
	if _, err := dec.Token(); err != nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "invalid oEmbed JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, unfurl.Errorf(unfurl.EINVALID, "invalid oEmbed JSON: unexpected data after object")
	}
	return doc, nil
}

// oEmbedSignals turns a flat oEmbed object into signals in document order.
// Scalars are emitted as text so number coercion sees "480" rather than
// a JSON number.
func oEmbedSignals(content *unfurl.OEmbedDocument, schema unfurl.Schema) []unfurl.Signal {
	var signals []unfurl.Signal
	for _, k := range content.Keys() {
		key := oEmbedPrefix + k
		if !schema.Has(key) {
			continue
		}
		v, _ := content.Get(k)
		signals = append(signals, unfurl.Signal{Key: key, Value: scalarText(v)})
	}
	return signals
}

func scalarText(v any) any {
	switch v := v.(type) {
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}
