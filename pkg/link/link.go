// Package link resolves navigation destinations and renders anchors.
//
// Internal paths are canonicalized and placed under the site's base path;
// absolute URLs, fragments and query-only links pass through untouched.
package link

import (
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Invalid is the href used for destinations that fail canonicalization.
const Invalid = "#"

var externalPrefixes = []string{"http://", "https://", "//", "mailto:", "tel:"}

// Resolver turns destination strings into hrefs.
type Resolver struct {
	// Base is the path the site is mounted under, e.g. "/marketing".
	Base string
}

// IsExternal reports whether href leaves the site.
func IsExternal(href string) bool {
	lower := strings.ToLower(href)
	for _, p := range externalPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Resolve returns the href for dest.
func (r Resolver) Resolve(dest string) string {
	if dest == "" {
		return Invalid
	}
	if IsExternal(dest) || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "?") {
		return dest
	}

	path, suffix := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		path, suffix = dest[:i], dest[i:]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	full, err := CanonicalizePath(strings.TrimSuffix(r.Base, "/") + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return Invalid
	}
	// The base must survive canonicalization, otherwise the destination
	// climbed out of it.
	if base, err := CanonicalizePath(r.Base); err == nil && base != "/" {
		if full != base && !strings.HasPrefix(full, base+"/") {
			return Invalid
		}
	}
	return full + suffix
}

// A renders an anchor to dest. External destinations open in a new tab
// without leaking the opener.
func (r Resolver) A(dest string, children ...g.Node) g.Node {
	nodes := []g.Node{h.Href(r.Resolve(dest))}
	if IsExternal(dest) {
		nodes = append(nodes, h.Target("_blank"), h.Rel("noopener noreferrer"))
	}
	return h.A(append(nodes, children...)...)
}
