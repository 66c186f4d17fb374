package unfurl

import "sort"

// ValueType selects the coercion applied to a signal value.
type ValueType string

// Value types.
const (
	TypeString ValueType = ""
	TypeNumber ValueType = "number"
	TypeURL    ValueType = "url"
)

// Rule places a signal in the metadata tree.
// It is one of Scalar, NestedObject, ArrayOfObjects or Whole.
type Rule interface {
	// Target returns the section the rule writes into.
	Target() Section
	isRule()
}

// Scalar writes a field directly on the section object.
type Scalar struct {
	Section Section
	Name    string
	Type    ValueType
}

// NestedObject writes a field on section[Parent][Category].
type NestedObject struct {
	Section  Section
	Parent   string
	Category string
	Name     string
	Type     ValueType
}

// ArrayOfObjects writes a field on the last object of the section[Parent]
// list, starting a new object when the field repeats.
type ArrayOfObjects struct {
	Section Section
	Parent  string
	Name    string
	Type    ValueType
}

// Whole makes the signal value the entire section.
type Whole struct {
	Section Section
}

func (r Scalar) Target() Section         { return r.Section }
func (r NestedObject) Target() Section   { return r.Section }
func (r ArrayOfObjects) Target() Section { return r.Section }
func (r Whole) Target() Section          { return r.Section }

func (Scalar) isRule()         {}
func (NestedObject) isRule()   {}
func (ArrayOfObjects) isRule() {}
func (Whole) isRule()          {}

// Schema maps signal keys to placement rules.
type Schema map[string]Rule

// Has reports whether key has a rule.
func (s Schema) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the schema keys in sorted order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeyVideoTag is collected on the side and attached to every Open Graph video.
const KeyVideoTag = "og:video:tag"

// DefaultSchema is the metadata schema for vanilla meta tags, Open Graph,
// Twitter Cards, oEmbed and linked data.
var DefaultSchema = Schema{
	// Vanilla meta tags. description, keywords, title and url are passed
	// through verbatim and have no rule.
	"author":       Scalar{SectionVanilla, "author", TypeString},
	"copyright":    Scalar{SectionVanilla, "copyright", TypeString},
	"publisher":    Scalar{SectionVanilla, "publisher", TypeString},
	"creator":      Scalar{SectionVanilla, "creator", TypeString},
	"designer":     Scalar{SectionVanilla, "designer", TypeString},
	"owner":        Scalar{SectionVanilla, "owner", TypeString},
	"subject":      Scalar{SectionVanilla, "subject", TypeString},
	"summary":      Scalar{SectionVanilla, "summary", TypeString},
	"pubdate":      Scalar{SectionVanilla, "pubdate", TypeString},
	"lastmod":      Scalar{SectionVanilla, "lastmod", TypeString},
	"theme-color":  Scalar{SectionVanilla, "theme_color", TypeString},
	"color-scheme": Scalar{SectionVanilla, "color_scheme", TypeString},

	// oEmbed.
	"oEmbed:type":             Scalar{SectionOEmbed, "type", TypeString},
	"oEmbed:version":          Scalar{SectionOEmbed, "version", TypeString},
	"oEmbed:title":            Scalar{SectionOEmbed, "title", TypeString},
	"oEmbed:author_name":      Scalar{SectionOEmbed, "author_name", TypeString},
	"oEmbed:author_url":       Scalar{SectionOEmbed, "author_url", TypeURL},
	"oEmbed:provider_name":    Scalar{SectionOEmbed, "provider_name", TypeString},
	"oEmbed:provider_url":     Scalar{SectionOEmbed, "provider_url", TypeURL},
	"oEmbed:cache_age":        Scalar{SectionOEmbed, "cache_age", TypeNumber},
	"oEmbed:url":              Scalar{SectionOEmbed, "url", TypeURL},
	"oEmbed:html":             Scalar{SectionOEmbed, "html", TypeString},
	"oEmbed:width":            Scalar{SectionOEmbed, "width", TypeNumber},
	"oEmbed:height":           Scalar{SectionOEmbed, "height", TypeNumber},
	"oEmbed:thumbnail_url":    ArrayOfObjects{SectionOEmbed, "thumbnails", "url", TypeURL},
	"oEmbed:thumbnail_width":  ArrayOfObjects{SectionOEmbed, "thumbnails", "width", TypeNumber},
	"oEmbed:thumbnail_height": ArrayOfObjects{SectionOEmbed, "thumbnails", "height", TypeNumber},

	// Twitter Cards.
	"twitter:card":          Scalar{SectionTwitterCard, "card", TypeString},
	"twitter:url":           Scalar{SectionTwitterCard, "url", TypeURL},
	"twitter:site":          Scalar{SectionTwitterCard, "site", TypeString},
	"twitter:site:id":       Scalar{SectionTwitterCard, "site_id", TypeString},
	"twitter:creator":       Scalar{SectionTwitterCard, "creator", TypeString},
	"twitter:creator:id":    Scalar{SectionTwitterCard, "creator_id", TypeString},
	"twitter:title":         Scalar{SectionTwitterCard, "title", TypeString},
	"twitter:description":   Scalar{SectionTwitterCard, "description", TypeString},
	"twitter:image":         ArrayOfObjects{SectionTwitterCard, "images", "url", TypeURL},
	"twitter:image:src":     ArrayOfObjects{SectionTwitterCard, "images", "url", TypeURL},
	"twitter:image:alt":     ArrayOfObjects{SectionTwitterCard, "images", "alt", TypeString},
	"twitter:image:width":   ArrayOfObjects{SectionTwitterCard, "images", "width", TypeNumber},
	"twitter:image:height":  ArrayOfObjects{SectionTwitterCard, "images", "height", TypeNumber},
	"twitter:player":        ArrayOfObjects{SectionTwitterCard, "players", "url", TypeURL},
	"twitter:player:stream": ArrayOfObjects{SectionTwitterCard, "players", "stream", TypeURL},
	"twitter:player:width":  ArrayOfObjects{SectionTwitterCard, "players", "width", TypeNumber},
	"twitter:player:height": ArrayOfObjects{SectionTwitterCard, "players", "height", TypeNumber},

	"twitter:app:name:iphone":     NestedObject{SectionTwitterCard, "apps", "iphone", "name", TypeString},
	"twitter:app:id:iphone":       NestedObject{SectionTwitterCard, "apps", "iphone", "id", TypeString},
	"twitter:app:url:iphone":      NestedObject{SectionTwitterCard, "apps", "iphone", "url", TypeURL},
	"twitter:app:name:ipad":       NestedObject{SectionTwitterCard, "apps", "ipad", "name", TypeString},
	"twitter:app:id:ipad":         NestedObject{SectionTwitterCard, "apps", "ipad", "id", TypeString},
	"twitter:app:url:ipad":        NestedObject{SectionTwitterCard, "apps", "ipad", "url", TypeURL},
	"twitter:app:name:googleplay": NestedObject{SectionTwitterCard, "apps", "googleplay", "name", TypeString},
	"twitter:app:id:googleplay":   NestedObject{SectionTwitterCard, "apps", "googleplay", "id", TypeString},
	"twitter:app:url:googleplay":  NestedObject{SectionTwitterCard, "apps", "googleplay", "url", TypeURL},

	// Open Graph.
	"og:title":            Scalar{SectionOpenGraph, "title", TypeString},
	"og:type":             Scalar{SectionOpenGraph, "type", TypeString},
	"og:url":              Scalar{SectionOpenGraph, "url", TypeURL},
	"og:site_name":        Scalar{SectionOpenGraph, "site_name", TypeString},
	"og:description":      Scalar{SectionOpenGraph, "description", TypeString},
	"og:determiner":       Scalar{SectionOpenGraph, "determiner", TypeString},
	"og:locale":           Scalar{SectionOpenGraph, "locale", TypeString},
	"og:locale:alternate": Scalar{SectionOpenGraph, "locale_alt", TypeString},
	"og:pubdate":          Scalar{SectionOpenGraph, "pubdate", TypeString},
	"og:updated_time":     Scalar{SectionOpenGraph, "updated_time", TypeString},

	"og:image":            ArrayOfObjects{SectionOpenGraph, "images", "url", TypeURL},
	"og:image:url":        ArrayOfObjects{SectionOpenGraph, "images", "url", TypeURL},
	"og:image:secure_url": ArrayOfObjects{SectionOpenGraph, "images", "secure_url", TypeURL},
	"og:image:type":       ArrayOfObjects{SectionOpenGraph, "images", "type", TypeString},
	"og:image:width":      ArrayOfObjects{SectionOpenGraph, "images", "width", TypeNumber},
	"og:image:height":     ArrayOfObjects{SectionOpenGraph, "images", "height", TypeNumber},
	"og:image:alt":        ArrayOfObjects{SectionOpenGraph, "images", "alt", TypeString},

	"og:video":            ArrayOfObjects{SectionOpenGraph, "videos", "url", TypeURL},
	"og:video:url":        ArrayOfObjects{SectionOpenGraph, "videos", "url", TypeURL},
	"og:video:secure_url": ArrayOfObjects{SectionOpenGraph, "videos", "secure_url", TypeURL},
	"og:video:stream":     ArrayOfObjects{SectionOpenGraph, "videos", "stream", TypeURL},
	"og:video:type":       ArrayOfObjects{SectionOpenGraph, "videos", "type", TypeString},
	"og:video:width":      ArrayOfObjects{SectionOpenGraph, "videos", "width", TypeNumber},
	"og:video:height":     ArrayOfObjects{SectionOpenGraph, "videos", "height", TypeNumber},
	KeyVideoTag:           ArrayOfObjects{SectionOpenGraph, "videos", "tags", TypeString},

	"og:audio":            ArrayOfObjects{SectionOpenGraph, "audio", "url", TypeURL},
	"og:audio:url":        ArrayOfObjects{SectionOpenGraph, "audio", "url", TypeURL},
	"og:audio:secure_url": ArrayOfObjects{SectionOpenGraph, "audio", "secure_url", TypeURL},
	"og:audio:type":       ArrayOfObjects{SectionOpenGraph, "audio", "type", TypeString},

	"article:published_time":  ArrayOfObjects{SectionOpenGraph, "articles", "published_time", TypeString},
	"article:modified_time":   ArrayOfObjects{SectionOpenGraph, "articles", "modified_time", TypeString},
	"article:expiration_time": ArrayOfObjects{SectionOpenGraph, "articles", "expiration_time", TypeString},
	"article:author":          ArrayOfObjects{SectionOpenGraph, "articles", "author", TypeString},
	"article:section":         ArrayOfObjects{SectionOpenGraph, "articles", "section", TypeString},
	"article:tag":             ArrayOfObjects{SectionOpenGraph, "articles", "tag", TypeString},

	"book:author":       ArrayOfObjects{SectionOpenGraph, "books", "author", TypeString},
	"book:isbn":         ArrayOfObjects{SectionOpenGraph, "books", "isbn", TypeString},
	"book:release_date": ArrayOfObjects{SectionOpenGraph, "books", "release_date", TypeString},
	"book:tag":          ArrayOfObjects{SectionOpenGraph, "books", "tag", TypeString},

	"profile:first_name": ArrayOfObjects{SectionOpenGraph, "profiles", "first_name", TypeString},
	"profile:last_name":  ArrayOfObjects{SectionOpenGraph, "profiles", "last_name", TypeString},
	"profile:username":   ArrayOfObjects{SectionOpenGraph, "profiles", "username", TypeString},
	"profile:gender":     ArrayOfObjects{SectionOpenGraph, "profiles", "gender", TypeString},

	// Linked data collected from <script type="application/ld+json">.
	KeyLinkedData: Whole{SectionLinkedData},
}
