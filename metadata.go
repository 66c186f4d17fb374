package unfurl

// Section names a top-level part of the metadata tree.
type Section string

// Metadata sections.
const (
	SectionVanilla     Section = "vanilla"
	SectionOpenGraph   Section = "open_graph"
	SectionTwitterCard Section = "twitter_card"
	SectionLinkedData  Section = "linked_data"
	SectionOEmbed      Section = "oEmbed"
)

// Object is a node of the metadata tree.
type Object = map[string]any

// Metadata is the structured result of unfurling a page.
// Sections other than Vanilla are nil when the page carried no signals for them.
type Metadata struct {
	Vanilla     Object   `json:"vanilla" yaml:"vanilla"`
	OEmbed      Object   `json:"oEmbed,omitempty" yaml:"oEmbed,omitempty"`
	TwitterCard []Object `json:"twitter_card,omitempty" yaml:"twitter_card,omitempty"`
	OpenGraph   []Object `json:"open_graph,omitempty" yaml:"open_graph,omitempty"`
	LinkedData  []any    `json:"linked_data,omitempty" yaml:"linked_data,omitempty"`
}

// Favicon returns the resolved favicon URL for a size descriptor
// ("default", "lastResort" or a sizes attribute such as "32x32").
func (m *Metadata) Favicon(size string) string {
	if m == nil {
		return ""
	}
	favicons, _ := m.Vanilla["favicon"].(Favicons)
	return favicons[size]
}

// Signal is a raw key/value pair collected from markup before structuring.
// Signals keep document order and duplicates are meaningful.
type Signal struct {
	Key   string
	Value any
}

// Signal keys emitted by the scanner outside of the schema.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyKeywords    = "keywords"
	KeyURL         = "url"
	KeyFavicon     = "favicon"
	KeyLinkedData  = "ld"
)

// Favicons maps a size descriptor to an icon URL.
type Favicons map[string]string

// Favicon map keys that are not size descriptors.
const (
	FaviconDefault    = "default"
	FaviconLastResort = "lastResort"
)

// oEmbed discovery link types.
const (
	OEmbedJSON = "application/json+oembed"
	OEmbedXML  = "text/xml+oembed"
)

// OEmbedLink describes an oEmbed endpoint discovered in a <link> tag.
type OEmbedLink struct {
	Href string
	Type string
}

// IsJSON reports whether the link points at a JSON oEmbed document.
func (l *OEmbedLink) IsJSON() bool {
	return l != nil && l.Type == OEmbedJSON
}

// OEmbedDocument is a flat oEmbed object that remembers the order in which
// its keys first appeared.
type OEmbedDocument struct {
	keys   []string
	values map[string]any
}

// NewOEmbedDocument returns an empty document.
func NewOEmbedDocument() *OEmbedDocument {
	return &OEmbedDocument{values: make(map[string]any)}
}

// Set stores value under key. A repeated key keeps its first position and
// takes the latest value.
func (d *OEmbedDocument) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *OEmbedDocument) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (d *OEmbedDocument) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *OEmbedDocument) Len() int {
	return len(d.keys)
}

// Scan holds everything collected by a single pass over a document.
type Scan struct {
	// Signals in document order.
	Signals []Signal

	// OEmbed is the preferred oEmbed endpoint, nil if none was found.
	OEmbed *OEmbedLink

	// Errors holds non-fatal problems such as malformed JSON-LD blocks.
	Errors []error
}

// Sections returns the names of the sections present in m, vanilla first.
func (m *Metadata) Sections() []Section {
	if m == nil {
		return nil
	}
	sections := []Section{SectionVanilla}
	if m.OpenGraph != nil {
		sections = append(sections, SectionOpenGraph)
	}
	if m.TwitterCard != nil {
		sections = append(sections, SectionTwitterCard)
	}
	if m.OEmbed != nil {
		sections = append(sections, SectionOEmbed)
	}
	if m.LinkedData != nil {
		sections = append(sections, SectionLinkedData)
	}
	return sections
}
