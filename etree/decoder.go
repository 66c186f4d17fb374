// Package etree decodes XML oEmbed documents using github.com/beevik/etree.
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/dashkite/unfurl"
)

// Ensure Decoder implements unfurl.OEmbedDecoder at compile time.
var _ unfurl.OEmbedDecoder = (*Decoder)(nil)

// rootTag is the document element of an XML oEmbed response.
const rootTag = "oembed"

// htmlTag holds embeddable markup, which is kept as markup rather than text.
const htmlTag = "html"

// Decoder maps an XML oEmbed document to a flat object: every element other
// than <oembed> contributes its trimmed text under its tag name, and <html>
// contributes its reconstructed inner markup.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses body and returns the flat object in document order.
func (d *Decoder) Decode(body []byte) (*unfurl.OEmbedDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "parsing oEmbed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "empty oEmbed XML")
	}

	content := unfurl.NewOEmbedDocument()
	collect(root, content)
	return content, nil
}

// collect walks el depth first. Later elements overwrite earlier ones with
// the same tag but keep the earlier position.
func collect(el *etree.Element, content *unfurl.OEmbedDocument) {
	if el.Tag == htmlTag {
		content.Set(htmlTag, innerMarkup(el))
		return
	}

	children := el.ChildElements()
	if len(children) == 0 {
		if el.Tag != rootTag {
			content.Set(el.Tag, strings.TrimSpace(el.Text()))
		}
		return
	}

	for _, child := range children {
		collect(child, content)
	}
}

// innerMarkup serializes the content of el. Escaped markup arrives as text
// and is returned unescaped; element children are rebuilt tag by tag.
func innerMarkup(el *etree.Element) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(el.Text()))
	for _, child := range el.ChildElements() {
		writeElement(&b, child)
		b.WriteString(strings.TrimSpace(child.Tail()))
	}
	return b.String()
}

func writeElement(b *strings.Builder, el *etree.Element) {
	b.WriteString("<")
	b.WriteString(el.FullTag())
	for _, a := range el.Attr {
		b.WriteString(" ")
		b.WriteString(a.FullKey())
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(a.Value)
			b.WriteString(`"`)
		}
	}
	b.WriteString(">")
	b.WriteString(innerMarkup(el))
	b.WriteString("</")
	b.WriteString(el.FullTag())
	b.WriteString(">")
}
