// Package icon is a named registry of inline SVG icons.
//
// Icons are looked up by name at render time. An unknown name renders
// nothing, so content files can reference icons that a given build does not
// ship without breaking the page.
package icon

import (
	"sort"
	"strconv"
	"sync"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// DefaultSize is the icon edge length in pixels when Options.Size is zero.
const DefaultSize = 24

// Options controls how an icon is drawn.
type Options struct {
	Size  int
	Class string
	// Label is the accessible name. Without it the icon is aria-hidden.
	Label string
}

// Factory builds the node for one icon.
type Factory func(Options) g.Node

// Registry maps icon names to factories.
type Registry struct {
	mu    sync.RWMutex
	icons map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{icons: make(map[string]Factory)}
}

// Register adds or replaces the icon called name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[name] = f
}

// Lookup returns the factory for name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.icons[name]
	return f, ok
}

// Names returns all registered icon names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.icons))
	for name := range r.icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the icon node for name, or nil if name is not registered.
func (r *Registry) Render(name string, opts Options) g.Node {
	f, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return f(opts)
}

// Stroke returns a factory for a 24x24 stroked outline icon made of the
// given path data.
func Stroke(paths ...string) Factory {
	return func(opts Options) g.Node {
		size := opts.Size
		if size <= 0 {
			size = DefaultSize
		}
		px := strconv.Itoa(size)

		nodes := []g.Node{
			g.Attr("xmlns", "http://www.w3.org/2000/svg"),
			g.Attr("width", px),
			g.Attr("height", px),
			g.Attr("viewBox", "0 0 24 24"),
			g.Attr("fill", "none"),
			g.Attr("stroke", "currentColor"),
			g.Attr("stroke-width", "2"),
			g.Attr("stroke-linecap", "round"),
			g.Attr("stroke-linejoin", "round"),
			g.If(opts.Class != "", h.Class(opts.Class)),
		}
		if opts.Label != "" {
			nodes = append(nodes, h.Role("img"), h.Aria("label", opts.Label))
		} else {
			nodes = append(nodes, h.Aria("hidden", "true"))
		}
		for _, d := range paths {
			nodes = append(nodes, g.El("path", g.Attr("d", d)))
		}
		return g.El("svg", nodes...)
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry holding the built-in icon set.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		r.Register("arrow-right", Stroke("M5 12h14", "m12 5 7 7-7 7"))
		r.Register("arrow-up-right", Stroke("M7 7h10v10", "M7 17 17 7"))
		r.Register("chevron-right", Stroke("m9 18 6-6-6-6"))
		r.Register("menu", Stroke("M4 6h16", "M4 12h16", "M4 18h16"))
		r.Register("close", Stroke("M18 6 6 18", "m6 6 12 12"))
		r.Register("external-link", Stroke("M15 3h6v6", "M10 14 21 3", "M18 13v6a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V8a2 2 0 0 1 2-2h6"))
		defaultRegistry = r
	})
	return defaultRegistry
}
