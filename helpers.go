package ogcards

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CardPath returns the site-relative URL path of the card for slug.
func CardPath(slug string) string {
	parts := strings.Split(slug, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/" + CardsDir + "/" + strings.Join(parts, "/") + ".png"
}

// CardURL returns the absolute URL of the card for slug.
func CardURL(base, slug string) string {
	return strings.TrimSuffix(base, "/") + CardPath(slug)
}

// PostURL returns the page a card belongs to. The default card belongs
// to the site root.
func PostURL(base, slug string) string {
	if slug == DefaultSlug {
		return BuildURL(base)
	}
	return BuildURL(base, "posts", slug)
}
