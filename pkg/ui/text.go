package ui

import (
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/vango-dev/sitekit/pkg/text"
	"github.com/vango-dev/sitekit/pkg/trusted"
	"github.com/vango-dev/sitekit/pkg/variant"
)

// HeadingProps configures a Heading.
type HeadingProps struct {
	// Level selects h1..h6. Out of range values are clamped; zero means 2.
	Level int

	// Style and SubStyle select the heading variant, e.g. "display", "small".
	Style    string
	SubStyle string

	Class string
	ID    string
	Attrs []g.Node
}

// Heading renders an h1..h6 element.
func Heading(p HeadingProps, children ...g.Node) g.Node {
	level := p.Level
	switch {
	case level == 0:
		level = 2
	case level < 1:
		level = 1
	case level > 6:
		level = 6
	}

	nodes := []g.Node{
		variant.Merge(variant.Compose("heading", p.Style, p.SubStyle), p.Class),
		g.If(p.ID != "", h.ID(p.ID)),
	}
	nodes = append(nodes, p.Attrs...)
	nodes = append(nodes, children...)
	return g.El("h"+strconv.Itoa(level), nodes...)
}

// ParagraphProps configures a Paragraph.
type ParagraphProps struct {
	// Style selects the paragraph variant (default: "body").
	Style string
	Class string
	Attrs []g.Node
}

// Paragraph renders a p element.
func Paragraph(p ParagraphProps, children ...g.Node) g.Node {
	style := p.Style
	if style == "" {
		style = "body"
	}
	nodes := []g.Node{variant.Merge(variant.Compose("paragraph", style, ""), p.Class)}
	nodes = append(nodes, p.Attrs...)
	return h.P(append(nodes, children...)...)
}

// SpacingProps configures a Spacing.
type SpacingProps struct {
	// Size is one of the design scale steps, e.g. "sm", "md", "lg" (default: "md").
	Size string
}

// Spacing renders an empty block that only adds vertical rhythm.
func Spacing(p SpacingProps) g.Node {
	size := p.Size
	if size == "" {
		size = "md"
	}
	return h.Div(variant.Compose("spacing", size, ""), h.Aria("hidden", "true"))
}

// TextLayoutProps configures a TextLayout.
type TextLayoutProps struct {
	HTML  trusted.HTML
	Class string
}

// TextLayout renders trusted long-form HTML verbatim inside a layout
// container. Heading tags are demoted to classed divs first so the page keeps
// a single document outline. An empty HTML renders nothing.
func TextLayout(p TextLayoutProps) g.Node {
	if p.HTML.IsZero() {
		return nil
	}
	return h.Div(
		variant.Merge(variant.Compose("text-layout", "", ""), p.Class),
		p.HTML.Map(text.NormalizeTextLayout),
	)
}
