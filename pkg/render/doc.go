// Package render turns content pages into HTML documents.
//
// A Renderer composes a content.Page into sections with a ui.Kit and wraps
// them in a full HTML5 document:
//
//	r := render.NewRenderer(render.RendererConfig{
//	    Kit:         ui.DefaultKit().WithBase(cfg.Site.BasePath),
//	    SiteTitle:   cfg.Site.Title,
//	    StyleSheets: cfg.Site.StyleSheets,
//	})
//	err := r.RenderPage(ctx, w, page, render.Options{Mobile: obs.Matches()})
//
// Each page render is recorded as an OpenTelemetry span named
// "sitekit.render" on the tracer from the configuration, or the global
// tracer provider when none is set.
package render
