package unfurl

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// DecodeFunc decodes HTML character entities in a string.
type DecodeFunc func(string) string

// Structurer folds an ordered signal sequence into a Metadata tree using a
// Schema. It never fails: unknown keys are passed through to the vanilla
// section and duplicate fields keep their first value.
type Structurer struct {
	Schema Schema

	// Decode is applied twice to every string in a signal value.
	// A nil Decode leaves strings unchanged.
	Decode DecodeFunc
}

// NewStructurer returns a Structurer over DefaultSchema.
func NewStructurer(decode DecodeFunc) *Structurer {
	return &Structurer{Schema: DefaultSchema, Decode: decode}
}

// Structure builds the metadata tree for signals. Relative URLs are resolved
// against baseURL.
func (s *Structurer) Structure(signals []Signal, baseURL string) *Metadata {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	b := &builder{sections: make(map[Section]Object)}
	var tags []any

	for _, sig := range signals {
		value := s.decodeValue(sig.Value)

		rule, ok := s.Schema[sig.Key]
		if !ok {
			b.section(SectionVanilla)[sig.Key] = value
			continue
		}

		if sig.Key == KeyVideoTag {
			tags = append(tags, value)
			continue
		}

		b.place(rule, value, base)
	}

	m := b.metadata()

	if len(tags) > 0 && len(m.OpenGraph) > 0 {
		if videos, ok := m.OpenGraph[0]["videos"].([]Object); ok {
			for _, video := range videos {
				video["tags"] = tags
			}
		}
	}

	resolveFavicons(m, base)
	return m
}

// decodeValue decodes entities in every string of v. Containers are walked
// recursively; leaves that are neither strings nor JSON numbers become nil.
func (s *Structurer) decodeValue(v any) any {
	switch v := v.(type) {
	case string:
		return s.decodeString(v)
	case json.Number:
		return v
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = s.decodeString(item)
		}
		return out
	case Favicons:
		out := make(Favicons, len(v))
		for k, item := range v {
			out[k] = s.decodeString(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = s.decodeString(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = s.decodeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = s.decodeValue(item)
		}
		return out
	default:
		return nil
	}
}

func (s *Structurer) decodeString(v string) string {
	if s.Decode == nil {
		return v
	}
	return s.Decode(s.Decode(v))
}

// builder accumulates sections while signals are placed.
type builder struct {
	sections map[Section]Object
	wholes   map[Section]any

	// lastParent is the parent of the previous ArrayOfObjects placement.
	lastParent string
}

func (b *builder) section(name Section) Object {
	obj, ok := b.sections[name]
	if !ok {
		obj = Object{}
		b.sections[name] = obj
	}
	return obj
}

func (b *builder) place(rule Rule, value any, base *url.URL) {
	switch r := rule.(type) {
	case Whole:
		if b.wholes == nil {
			b.wholes = make(map[Section]any)
		}
		b.wholes[r.Section] = value

	case Scalar:
		setOnce(b.section(r.Section), r.Name, coerce(value, r.Type, base))

	case NestedObject:
		target := b.section(r.Section)
		parent, ok := target[r.Parent].(Object)
		if !ok {
			parent = Object{}
			target[r.Parent] = parent
		}
		category, ok := parent[r.Category].(Object)
		if !ok {
			category = Object{}
			parent[r.Category] = category
		}
		setOnce(category, r.Name, coerce(value, r.Type, base))

	case ArrayOfObjects:
		// A new entry starts when the latest one already holds this field
		// and the previous placement used the same parent. Interleaved
		// unrelated repeats can be misgrouped; kept for compatibility.
		target := b.section(r.Section)
		list, _ := target[r.Parent].([]Object)
		if len(list) == 0 {
			list = append(list, Object{})
		} else if (b.lastParent == "" || b.lastParent == r.Parent) && isSet(list[len(list)-1][r.Name]) {
			list = append(list, Object{})
		}
		target[r.Parent] = list
		b.lastParent = r.Parent
		setOnce(list[len(list)-1], r.Name, coerce(value, r.Type, base))
	}
}

func (b *builder) metadata() *Metadata {
	m := &Metadata{
		Vanilla: b.section(SectionVanilla),
		OEmbed:  b.sections[SectionOEmbed],
	}
	if obj, ok := b.sections[SectionOpenGraph]; ok {
		m.OpenGraph = []Object{obj}
	}
	if obj, ok := b.sections[SectionTwitterCard]; ok {
		m.TwitterCard = []Object{obj}
	}
	if list, ok := b.wholes[SectionLinkedData].([]any); ok && len(list) > 0 {
		m.LinkedData = list
	}
	return m
}

// setOnce writes obj[name] unless it already holds a value.
func setOnce(obj Object, name string, value any) {
	if !isSet(obj[name]) {
		obj[name] = value
	}
}

// isSet reports whether v counts as a present field value. Empty strings,
// zero numbers and nil do not.
func isSet(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case int:
		return v != 0
	}
	return true
}

func coerce(v any, typ ValueType, base *url.URL) any {
	switch typ {
	case TypeNumber:
		return parseInt(v)
	case TypeURL:
		if s, ok := v.(string); ok {
			return resolveReference(base, s)
		}
	}
	return v
}

// parseInt parses the leading base-10 integer of v, ignoring trailing
// garbage ("800px" is 800). It returns nil when v holds no integer.
func parseInt(v any) any {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case json.Number:
		s = string(v)
	default:
		return nil
	}

	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return n
}
