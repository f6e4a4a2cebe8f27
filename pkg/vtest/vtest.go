package vtest

import (
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	g "maragu.dev/gomponents"
)

// RenderToString renders node to HTML. A nil node renders as "".
//
// Example:
//
//	html := vtest.RenderToString(MyComponent())
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node g.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	if err := node.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, node g.Node, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node g.Node, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
//
// Example:
//
//	vtest.ExpectElement(t, kit.Button(props), "a")
func ExpectElement(t testing.TB, node g.Node, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag+">") && !strings.Contains(html, "<"+tag+" ") {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
// Example:
//
//	vtest.ExpectAttribute(t, node, "class", "btn btn--fill")
func ExpectAttribute(t testing.TB, node g.Node, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectEmpty asserts that node renders no output at all.
func ExpectEmpty(t testing.TB, node g.Node) {
	t.Helper()
	if html := RenderToString(node); html != "" {
		t.Errorf("expected no output, got:\n%s", truncate(html, 500))
	}
}

// Count returns how many times substr occurs in the rendered output.
func Count(node g.Node, substr string) int {
	return strings.Count(RenderToString(node), substr)
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
