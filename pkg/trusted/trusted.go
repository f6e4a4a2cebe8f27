// Package trusted marks HTML that may be written to a page verbatim.
//
// A value of type HTML can only be produced by Authored, which the content
// loader calls for fragments checked into the content tree, or by Text,
// which escapes its input. Components that inject markup accept an HTML and
// never a string.
package trusted

import (
	"html"
	"io"
)

// HTML is markup that has been sanitized or authored upstream.
// The zero value is empty.
type HTML struct {
	s string
}

// Authored marks s as trusted authored markup. Only call this for content
// under the site's own control; no sanitization is performed.
func Authored(s string) HTML {
	return HTML{s: s}
}

// Text escapes s so it renders as plain text.
func Text(s string) HTML {
	return HTML{s: html.EscapeString(s)}
}

// String returns the markup.
func (h HTML) String() string {
	return h.s
}

// IsZero reports whether h holds no markup.
func (h HTML) IsZero() bool {
	return h.s == ""
}

// Map returns a copy of h with fn applied to the markup. fn must only make
// structural rewrites that keep the markup safe.
func (h HTML) Map(fn func(string) string) HTML {
	return HTML{s: fn(h.s)}
}

// Render writes the markup verbatim, so HTML can be used as a gomponents node.
func (h HTML) Render(w io.Writer) error {
	_, err := io.WriteString(w, h.s)
	return err
}
