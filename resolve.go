package unfurl

import (
	"net/url"
	"strings"
)

// ResolveURL resolves ref against base. An unparseable base or reference
// leaves ref unchanged.
func ResolveURL(base, ref string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return resolveReference(u, ref)
}

func resolveReference(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// LastResortFavicon returns /favicon.ico on the host of baseURL.
func LastResortFavicon(baseURL string) string {
	return ResolveURL(baseURL, "/favicon.ico")
}

// ResolveFavicons replaces the favicon map collected during scanning with
// one whose URLs are resolved against baseURL. vanilla.favicon is always
// present afterwards, empty when no favicons were collected.
func ResolveFavicons(m *Metadata, baseURL string) {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	resolveFavicons(m, base)
}

func resolveFavicons(m *Metadata, base *url.URL) {
	if m.Vanilla == nil {
		m.Vanilla = Object{}
	}

	resolved := Favicons{}
	if raw, ok := m.Vanilla[KeyFavicon].(Favicons); ok {
		for size, href := range raw {
			resolved[size] = resolveReference(base, href)
		}
	}
	m.Vanilla[KeyFavicon] = resolved
}
