package render

import (
	"context"
	"io"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/ui"
)

// Default tracer name for render spans.
const defaultTracerName = "sitekit/render"

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Kit provides links, icons and list ids (default: ui.DefaultKit()).
	Kit *ui.Kit

	// SiteTitle is appended to page titles.
	SiteTitle string

	// Lang is the document language (default: "en").
	Lang string

	StyleSheets []string
	Scripts     []string

	// Head holds extra nodes added to every document head.
	Head []g.Node

	// Tracer records render spans. Defaults to the global tracer provider.
	Tracer trace.Tracer
}

// Options vary a single render.
type Options struct {
	// Mobile selects the compact section layouts.
	Mobile bool
}

// Renderer renders content pages. It is safe for concurrent use.
type Renderer struct {
	config RendererConfig
	kit    ui.Kit
	tracer trace.Tracer
}

// NewRenderer creates a Renderer.
func NewRenderer(config RendererConfig) *Renderer {
	kit := ui.DefaultKit()
	if config.Kit != nil {
		kit = *config.Kit
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(defaultTracerName)
	}
	return &Renderer{config: config, kit: kit, tracer: tracer}
}

// Kit returns the component kit the renderer uses.
func (r *Renderer) Kit() ui.Kit {
	return r.kit
}

// Sections returns the main content of page: hero, latest banners and body.
func (r *Renderer) Sections(page content.Page, opts Options) g.Node {
	var nodes []g.Node
	nodes = append(nodes, h.Class("page"), g.Attr("data-page", page.Slug))

	if page.Hero != nil {
		nodes = append(nodes, r.kit.Hero(ui.HeroProps{Block: *page.Hero, Mobile: opts.Mobile}))
	}
	for _, b := range page.Latest {
		nodes = append(nodes,
			ui.Spacing(ui.SpacingProps{Size: "lg"}),
			r.kit.Latest(ui.LatestProps{Block: b}),
		)
	}
	if !page.Body.IsZero() {
		nodes = append(nodes,
			ui.Spacing(ui.SpacingProps{Size: "lg"}),
			ui.TextLayout(ui.TextLayoutProps{HTML: page.Body}),
		)
	}
	return h.Main(nodes...)
}

// RenderPage writes the full document for page to w.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, page content.Page, opts Options) error {
	_, span := r.tracer.Start(ctx, "sitekit.render",
		trace.WithAttributes(
			attribute.String("sitekit.page.slug", page.Slug),
			attribute.Int("sitekit.page.sections", sectionCount(page)),
			attribute.Bool("sitekit.viewport.mobile", opts.Mobile),
		),
	)
	defer span.End()

	doc := Document(PageData{
		Title:       pageTitle(page.Title, r.config.SiteTitle),
		Lang:        r.config.Lang,
		Description: page.Description,
		StyleSheets: r.config.StyleSheets,
		Scripts:     r.config.Scripts,
		Head:        r.config.Head,
		Body:        r.Sections(page, opts),
	})
	return endSpan(span, doc.Render(w))
}

// RenderFragment writes only the page's main content to w.
func (r *Renderer) RenderFragment(ctx context.Context, w io.Writer, page content.Page, opts Options) error {
	_, span := r.tracer.Start(ctx, "sitekit.render.fragment",
		trace.WithAttributes(
			attribute.String("sitekit.page.slug", page.Slug),
			attribute.Bool("sitekit.viewport.mobile", opts.Mobile),
		),
	)
	defer span.End()

	return endSpan(span, r.Sections(page, opts).Render(w))
}

// RenderIndex writes a document listing every page.
func (r *Renderer) RenderIndex(ctx context.Context, w io.Writer, pages []content.Page, hrefFor func(content.Page) string) error {
	_, span := r.tracer.Start(ctx, "sitekit.render.index",
		trace.WithAttributes(attribute.Int("sitekit.pages", len(pages))),
	)
	defer span.End()

	items := make([]g.Node, 0, len(pages))
	for _, p := range pages {
		items = append(items, h.Li(r.kit.Links.A(hrefFor(p), g.Text(p.Title))))
	}

	doc := Document(PageData{
		Title:       pageTitle("Pages", r.config.SiteTitle),
		Lang:        r.config.Lang,
		StyleSheets: r.config.StyleSheets,
		Head:        r.config.Head,
		Body: h.Main(h.Class("page page--index"),
			ui.Heading(ui.HeadingProps{Level: 1, Style: "title"}, g.Text("Pages")),
			h.Ul(h.Class("page-list"), g.Group(items)),
		),
	})
	return endSpan(span, doc.Render(w))
}

func sectionCount(p content.Page) int {
	n := len(p.Latest)
	if p.Hero != nil {
		n++
	}
	if !p.Body.IsZero() {
		n++
	}
	return n
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
