// Package variant maps a base class plus style modifiers to class names.
//
//	variant.Compose("btn", "fill", "small")
//	// {"btn", "btn--fill", "btn--fill--small"}
//
// The result is a gomponents components.Classes, so it can be passed
// straight to an element as its class attribute.
package variant

import (
	"sort"
	"strings"

	"maragu.dev/gomponents/components"
)

// Compose returns the class-presence set for base with the given main and
// optional sub style. An empty main style yields only the base class.
func Compose(base, main, sub string) components.Classes {
	c := components.Classes{base: true}
	if main == "" {
		return c
	}
	c[base+"--"+main] = true
	if sub != "" {
		c[base+"--"+main+"--"+sub] = true
	}
	return c
}

// Merge adds every present class of extra to c and returns c.
func Merge(c components.Classes, extra ...string) components.Classes {
	for _, class := range extra {
		for _, f := range strings.Fields(class) {
			c[f] = true
		}
	}
	return c
}

// Join serializes a class-presence set into a sorted, space-separated
// class list. Absent and false entries are skipped.
func Join(c components.Classes) string {
	names := make([]string, 0, len(c))
	for name, present := range c {
		if present && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}
