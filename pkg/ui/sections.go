package ui

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/variant"
)

// HeroProps configures a Hero.
type HeroProps struct {
	Block content.Block

	// Mobile switches to the compact layout, typically fed from
	// mediaquery.IsMobile.
	Mobile bool

	ID    string
	Attrs []g.Node
}

// Hero renders the page's top banner: optional label, headline, one
// paragraph per subtext entry and an optional call to action.
func (k Kit) Hero(p HeroProps) g.Node {
	b := p.Block
	size := "large"
	if p.Mobile {
		size = "small"
	}

	nodes := []g.Node{
		variant.Compose("hero", size, ""),
		g.If(p.ID != "", h.ID(p.ID)),
	}
	nodes = append(nodes, p.Attrs...)
	nodes = append(nodes,
		g.If(b.Label != "", h.Span(h.Class("hero__label"), g.Text(b.Label))),
		Heading(HeadingProps{Level: 1, Style: "display", SubStyle: size}, g.Text(b.Headline)),
		h.Div(h.Class("hero__subtext"), k.paragraphs(b.Paragraphs(), "lead")),
		g.If(b.HasCTA(), h.Div(h.Class("hero__actions"),
			k.Button(ButtonProps{Href: b.URL, SubStyle: size, Icon: "arrow-right"}, g.Text(b.CTA)),
		)),
	)
	return h.Section(nodes...)
}

// LatestProps configures a Latest.
type LatestProps struct {
	Block content.Block
	Attrs []g.Node
}

// Latest renders the "latest news" banner. The label defaults to "Latest".
func (k Kit) Latest(p LatestProps) g.Node {
	b := p.Block
	label := b.Label
	if label == "" {
		label = "Latest"
	}

	nodes := []g.Node{h.Class("latest")}
	nodes = append(nodes, p.Attrs...)
	nodes = append(nodes,
		h.Span(h.Class("latest__label"), g.Text(label)),
		Heading(HeadingProps{Level: 2, Style: "title"}, g.Text(b.Headline)),
		h.Div(h.Class("latest__subtext"), k.paragraphs(b.Paragraphs(), "body")),
		g.If(b.HasCTA(),
			k.Button(ButtonProps{Href: b.URL, Style: "text", Icon: "chevron-right"}, g.Text(b.CTA)),
		),
	)
	return h.Section(nodes...)
}

// paragraphs renders one Paragraph per entry, each keyed with a fresh id.
func (k Kit) paragraphs(items []string, style string) g.Node {
	nodes := make([]g.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, Paragraph(ParagraphProps{
			Style: style,
			Attrs: []g.Node{g.Attr("data-key", k.id())},
		}, g.Text(item)))
	}
	return g.Group(nodes)
}
