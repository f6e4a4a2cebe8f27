package render

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element (default: "en").
	Lang string

	// Description fills the description meta tag when set.
	Description string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains paths to deferred scripts.
	Scripts []string

	// Head holds extra nodes appended to the head.
	Head []g.Node

	// Body is the page content.
	Body g.Node
}

// Document returns the full HTML document for page.
func Document(page PageData) g.Node {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	return h.Doctype(
		h.HTML(h.Lang(lang),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.If(page.Title != "", h.TitleEl(g.Text(page.Title))),
				g.If(page.Description != "", h.Meta(h.Name("description"), h.Content(page.Description))),
				g.Map(page.StyleSheets, func(href string) g.Node {
					return h.Link(h.Rel("stylesheet"), h.Href(href))
				}),
				g.Map(page.Scripts, func(src string) g.Node {
					return h.Script(h.Src(src), h.Defer())
				}),
				g.Group(page.Head),
			),
			h.Body(page.Body),
		),
	)
}

// pageTitle joins a page title and the site title.
func pageTitle(page, site string) string {
	switch {
	case page == "":
		return site
	case site == "" || page == site:
		return page
	default:
		return page + " | " + site
	}
}
