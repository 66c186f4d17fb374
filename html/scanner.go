// Package html implements metadata extraction on top of golang.org/x/net/html.
// It scans documents into unfurl signals, decodes entities and character
// sets, resolves oEmbed documents and orchestrates unfurling a URL.
package html

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/dashkite/unfurl"
	"golang.org/x/net/html"
)

const typeLinkedData = "application/ld+json"

// voidElements never have content; the tokenizer reports them as start tags
// when they are written without a trailing slash.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var faviconRels = map[string]bool{
	"icon":                         true,
	"shortcut icon":                true,
	"apple-touch-icon":             true,
	"apple-touch-icon-precomposed": true,
}

// Scanner walks an HTML document once, collecting metadata signals.
type Scanner struct {
	// Schema decides which <meta> property and name attributes are collected.
	Schema unfurl.Schema
}

// NewScanner returns a Scanner over unfurl.DefaultSchema.
func NewScanner() *Scanner {
	return &Scanner{Schema: unfurl.DefaultSchema}
}

// Scan tokenizes text and returns its signals in document order, followed
// by the favicon map and the linked data list. oEmbed links are only
// recorded when oembed is set. Malformed markup never fails the scan.
func (s *Scanner) Scan(text, baseURL string, oembed bool) *unfurl.Scan {
	st := &scanState{
		schema:  s.Schema,
		baseURL: baseURL,
		oembed:  oembed,
		scan:    &unfurl.Scan{},
	}

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure; either way the document is over.
			onEnd(st)
			return st.scan
		case html.StartTagToken:
			raw := string(z.Raw())
			tok := z.Token()
			onOpen(st, tok, raw)
			if voidElements[tok.Data] {
				onClose(st, tok.Data)
			}
		case html.SelfClosingTagToken:
			raw := string(z.Raw())
			tok := z.Token()
			onOpen(st, tok, raw)
			onClose(st, tok.Data)
		case html.EndTagToken:
			tok := z.Token()
			onClose(st, tok.Data)
		case html.TextToken:
			// Text is kept as written; entities are decoded when structuring.
			onText(st, string(z.Raw()))
		}
	}
}

// scanState is the whole state of a scan. Handlers receive it by pointer;
// there is no element stack beyond the current tag.
type scanState struct {
	schema  unfurl.Schema
	baseURL string
	oembed  bool

	// Current tag, its attributes and the text seen inside it. attrs holds
	// decoded values for matching; raw holds values as written, which is
	// what gets emitted.
	tag   string
	attrs map[string]string
	raw   map[string]string
	text  strings.Builder

	// title accumulates the first <title> only.
	title     strings.Builder
	inTitle   bool
	titleDone bool

	favicons   unfurl.Favicons
	linkedData []any

	scan *unfurl.Scan
}

func (st *scanState) emit(key string, value any) {
	st.scan.Signals = append(st.scan.Signals, unfurl.Signal{Key: key, Value: value})
}

// value returns the undecoded value of attribute key.
func (st *scanState) value(key string) (string, bool) {
	if v, ok := st.raw[key]; ok {
		return v, true
	}
	v, ok := st.attrs[key]
	return v, ok
}

func onOpen(st *scanState, tok html.Token, raw string) {
	st.tag = tok.Data
	st.attrs = attributes(tok)
	st.raw = rawAttributes(raw)
	st.text.Reset()

	switch tok.Data {
	case "head":
		if st.favicons == nil {
			st.favicons = unfurl.Favicons{}
			st.linkedData = []any{}
		}
	case "title":
		if !st.titleDone {
			st.inTitle = true
		}
	case "link":
		onLink(st)
	case "meta":
		onMeta(st)
	}
}

func onLink(st *scanState) {
	href, ok := st.value("href")
	if !ok || href == "" {
		return
	}

	if st.oembed {
		switch typ := st.attrs["type"]; typ {
		case unfurl.OEmbedJSON, unfurl.OEmbedXML:
			// JSON is preferred: the first JSON link wins, the first XML
			// link is kept only until a JSON one shows up. The href is
			// fetched rather than structured, so it is kept decoded.
			cur := st.scan.OEmbed
			if cur == nil || (!cur.IsJSON() && typ == unfurl.OEmbedJSON) {
				st.scan.OEmbed = &unfurl.OEmbedLink{Href: st.attrs["href"], Type: typ}
			}
		}
	}

	rel, ok := st.attrs["rel"]
	if !ok {
		return
	}
	rel = strings.ToLower(rel)

	if faviconRels[rel] {
		if st.favicons == nil {
			st.favicons = unfurl.Favicons{}
		}
		size := unfurl.FaviconDefault
		if sizes, ok := st.attrs["sizes"]; ok {
			size = sizes
		}
		st.favicons[size] = href
	}

	if rel == "canonical" {
		st.emit(unfurl.KeyURL, href)
	}
}

func onMeta(st *scanState) {
	content, _ := st.value("content")
	name, hasName := st.attrs["name"]
	property, hasProperty := st.attrs["property"]

	switch {
	case hasName && name == "description":
		st.emit(unfurl.KeyDescription, content)
	case hasName && name == "keywords":
		st.emit(unfurl.KeyKeywords, unfurl.ParseKeywords(content))
	case hasProperty && st.schema.Has(property):
		st.emit(property, content)
	case hasName && st.schema.Has(name):
		st.emit(name, content)
	}
}

func onText(st *scanState, text string) {
	if st.inTitle && st.tag == "title" {
		st.title.WriteString(text)
	}
	if st.tag == "script" && st.attrs["type"] == typeLinkedData {
		st.text.WriteString(text)
	}
}

func onClose(st *scanState, name string) {
	if name == "script" && st.tag == "script" && st.attrs["type"] == typeLinkedData {
		onLinkedData(st, st.text.String())
	}

	if name == "title" && st.inTitle {
		st.emit(unfurl.KeyTitle, st.title.String())
		st.inTitle = false
		st.titleDone = true
	}

	st.tag = ""
	st.attrs = nil
	st.raw = nil
	st.text.Reset()
}

func onLinkedData(st *scanState, text string) {
	v, err := decodeJSON([]byte(text))
	if err != nil {
		st.scan.Errors = append(st.scan.Errors,
			unfurl.Errorf(unfurl.EINVALID, "application/ld+json parse failure: %v", err))
		return
	}
	if st.linkedData == nil {
		st.linkedData = []any{}
	}
	st.linkedData = append(st.linkedData, v)
}

func onEnd(st *scanState) {
	// A title or script still open at the end of input is closed here.
	if st.tag == "title" || st.tag == "script" {
		onClose(st, st.tag)
	}

	if st.favicons == nil {
		st.favicons = unfurl.Favicons{}
	}
	if st.linkedData == nil {
		st.linkedData = []any{}
	}
	st.favicons[unfurl.FaviconLastResort] = unfurl.LastResortFavicon(st.baseURL)

	st.emit(unfurl.KeyFavicon, st.favicons)
	st.emit(unfurl.KeyLinkedData, st.linkedData)
}

// attributes returns the tag's attributes; the first of duplicate names wins.
func attributes(tok html.Token) map[string]string {
	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		if _, ok := attrs[a.Key]; !ok {
			attrs[a.Key] = a.Val
		}
	}
	return attrs
}

// rawAttributes returns the attribute values of a start tag as written,
// without entity decoding. It follows the tokenizer: names are lowercased,
// the first of duplicate names wins and values may be double quoted,
// single quoted or unquoted.
func rawAttributes(tag string) map[string]string {
	attrs := make(map[string]string)

	i := strings.IndexByte(tag, '<') + 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}

	for i < len(tag) {
		for i < len(tag) && (isSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			break
		}

		// A leading '=' belongs to the name.
		start := i
		i++
		for i < len(tag) && !isSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' && tag[i] != '=' {
			i++
		}
		name := strings.ToLower(tag[start:i])

		for i < len(tag) && isSpace(tag[i]) {
			i++
		}

		var val string
		if i < len(tag) && tag[i] == '=' {
			i++
			for i < len(tag) && isSpace(tag[i]) {
				i++
			}
			if i < len(tag) && (tag[i] == '"' || tag[i] == '\'') {
				quote := tag[i]
				i++
				start := i
				for i < len(tag) && tag[i] != quote {
					i++
				}
				val = tag[start:i]
				if i < len(tag) {
					i++
				}
			} else {
				start := i
				for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' {
					i++
				}
				val = tag[start:i]
			}
		}

		if _, ok := attrs[name]; !ok {
			attrs[name] = val
		}
	}
	return attrs
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f'
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
