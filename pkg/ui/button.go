package ui

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/vango-dev/sitekit/pkg/icon"
	"github.com/vango-dev/sitekit/pkg/variant"
)

// ButtonProps configures a Button.
type ButtonProps struct {
	// Href is the destination, resolved by the kit's link resolver.
	Href string

	// Style is the main variant (default: "fill"); SubStyle is optional,
	// e.g. "small" or "large".
	Style    string
	SubStyle string

	// Icon names a trailing icon. Unknown names are skipped.
	Icon string

	Class string
	Attrs []g.Node
}

// Button renders a link styled as a button.
func (k Kit) Button(p ButtonProps, children ...g.Node) g.Node {
	style := p.Style
	if style == "" {
		style = "fill"
	}

	nodes := []g.Node{variant.Merge(variant.Compose("btn", style, p.SubStyle), p.Class)}
	nodes = append(nodes, p.Attrs...)
	nodes = append(nodes, h.Span(h.Class("btn__label"), g.Group(children)))
	if p.Icon != "" {
		nodes = append(nodes, k.Icon(IconProps{Name: p.Icon, Size: 16, Class: "btn__icon"}))
	}
	return k.Links.A(p.Href, nodes...)
}

// IconProps configures an Icon.
type IconProps struct {
	Name  string
	Size  int
	Class string
	Label string
}

// Icon renders the named icon from the kit's registry. An unregistered
// name renders nothing.
func (k Kit) Icon(p IconProps) g.Node {
	class := "icon"
	if p.Class != "" {
		class += " " + p.Class
	}
	return k.icons().Render(p.Name, icon.Options{Size: p.Size, Class: class, Label: p.Label})
}
