// Package text normalizes the shapes of marketing copy before it is rendered.
package text

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// NormalizeSubtext returns v as a sequence of paragraphs.
//
// A []string is returned unchanged and any other slice or array is converted
// element by element. A []byte counts as text. Any other non-sequence value
// is wrapped in a one-element sequence. nil yields an empty sequence.
func NormalizeSubtext(v any) []string {
	switch s := v.(type) {
	case nil:
		return []string{}
	case []string:
		return s
	case Subtext:
		return []string(s)
	case string:
		return []string{s}
	case []byte:
		return []string{string(s)}
	case []any:
		out := make([]string, len(s))
		for i, item := range s {
			out[i] = paragraph(item)
		}
		return out
	case fmt.Stringer:
		return []string{s.String()}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, rv.Len())
		for i := range out {
			out[i] = paragraph(rv.Index(i).Interface())
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func paragraph(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// NormalizeSlug lower-cases key and joins its space-separated words with hyphens.
func NormalizeSlug(key string) string {
	return strings.Join(strings.Split(strings.ToLower(key), " "), "-")
}

var headingTag = regexp.MustCompile(`<(/?)h([1-6])>`)

// NormalizeTextLayout rewrites bare <h1>..<h6> tags into div containers
// classed with the original level, e.g. <h2>Title</h2> becomes
// <div class="h2">Title</div>.
//
// This is plain pattern substitution. Tags carrying attributes, such as
// <h2 id="x">, are left untouched.
func NormalizeTextLayout(html string) string {
	return headingTag.ReplaceAllStringFunc(html, func(tag string) string {
		m := headingTag.FindStringSubmatch(tag)
		if m[1] == "/" {
			return "</div>"
		}
		return `<div class="h` + m[2] + `">`
	})
}

// Subtext is one or more paragraphs of secondary copy. It decodes from
// either a single string or a list of strings.
type Subtext []string

// UnmarshalYAML accepts a scalar or a sequence node.
func (s *Subtext) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = Subtext{}
			return nil
		}
		*s = Subtext{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("subtext: %w", err)
		}
		*s = Subtext(items)
		return nil
	default:
		return fmt.Errorf("subtext: line %d: expected string or list of strings", node.Line)
	}
}

// UnmarshalJSON accepts a string or an array of strings.
func (s *Subtext) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("subtext: %w", err)
	}
	switch raw.(type) {
	case nil, string, []any:
		*s = Subtext(NormalizeSubtext(raw))
		return nil
	default:
		return fmt.Errorf("subtext: expected string or array of strings, got %s", string(data))
	}
}

// Paragraphs returns the subtext as a plain slice.
func (s Subtext) Paragraphs() []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}
