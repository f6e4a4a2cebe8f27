package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/text"
	"github.com/vango-dev/sitekit/pkg/trusted"
	"github.com/vango-dev/sitekit/pkg/ui"
	"github.com/vango-dev/sitekit/pkg/vtest"
)

func newTestRenderer(t *testing.T) (*Renderer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	kit := ui.DefaultKit().WithBase("/site")
	kit.NewID = vtest.SequentialIDs("k")
	return NewRenderer(RendererConfig{
		Kit:         &kit,
		SiteTitle:   "Vango",
		StyleSheets: []string{"/styles.css"},
		Scripts:     []string{"/app.js"},
		Tracer:      tp.Tracer("test"),
	}), sr
}

func samplePage() content.Page {
	return content.Page{
		Title:       "Home",
		Slug:        "index",
		Description: "The landing page",
		Hero: &content.Block{
			Headline: "Build faster",
			Subtext:  text.Subtext{"One.", "Two."},
			CTA:      "Start",
			URL:      "/signup",
		},
		Latest: []content.Block{{Headline: "News", Subtext: text.Subtext{"Fresh."}}},
		Body:   trusted.Authored("<h3>More</h3>"),
	}
}

func TestRenderPage(t *testing.T) {
	r, sr := newTestRenderer(t)

	var b strings.Builder
	if err := r.RenderPage(context.Background(), &b, samplePage(), Options{}); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	html := b.String()

	for _, want := range []string{
		"<!doctype html>",
		`<html lang="en">`,
		"<title>Home | Vango</title>",
		`<meta name="description" content="The landing page">`,
		`<link rel="stylesheet" href="/styles.css">`,
		`<script src="/app.js" defer></script>`,
		`<main class="page" data-page="index">`,
		`class="hero hero--large"`,
		`href="/site/signup"`,
		`<section class="latest">`,
		`<div class="text-layout"><div class="h3">More</div></div>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "sitekit.render" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["sitekit.page.slug"] != "index" || attrs["sitekit.page.sections"] != "3" || attrs["sitekit.viewport.mobile"] != "false" {
		t.Errorf("span attributes = %v", attrs)
	}
}

func TestRenderFragment_Mobile(t *testing.T) {
	r, _ := newTestRenderer(t)

	var b strings.Builder
	if err := r.RenderFragment(context.Background(), &b, samplePage(), Options{Mobile: true}); err != nil {
		t.Fatalf("RenderFragment: %v", err)
	}
	html := b.String()
	if strings.Contains(html, "<html") {
		t.Error("fragment should not include the document")
	}
	if !strings.Contains(html, `class="hero hero--small"`) {
		t.Error("mobile fragment should use the compact hero")
	}
}

func TestRenderIndex(t *testing.T) {
	r, _ := newTestRenderer(t)
	pages := []content.Page{{Title: "Home", Slug: "index"}, {Title: "Pricing", Slug: "pricing"}}

	var b strings.Builder
	err := r.RenderIndex(context.Background(), &b, pages, func(p content.Page) string { return "/p/" + p.Slug })
	if err != nil {
		t.Fatalf("RenderIndex: %v", err)
	}
	for _, want := range []string{`<a href="/site/p/pricing">Pricing</a>`, "<title>Pages | Vango</title>"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("index missing %q:\n%s", want, b.String())
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderPage_WriteErrorRecorded(t *testing.T) {
	r, sr := newTestRenderer(t)
	if err := r.RenderPage(context.Background(), failingWriter{}, samplePage(), Options{}); err == nil {
		t.Fatal("expected write error")
	}
	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Errorf("span status = %+v", spans[0].Status())
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct{ page, site, want string }{
		{"Home", "Vango", "Home | Vango"},
		{"", "Vango", "Vango"},
		{"Vango", "Vango", "Vango"},
		{"Home", "", "Home"},
	}
	for _, tt := range tests {
		if got := pageTitle(tt.page, tt.site); got != tt.want {
			t.Errorf("pageTitle(%q, %q) = %q, want %q", tt.page, tt.site, got, tt.want)
		}
	}
}

func TestDocument_Defaults(t *testing.T) {
	html := vtest.RenderToString(Document(PageData{}))
	if !strings.Contains(html, `<html lang="en">`) || strings.Contains(html, "<title>") {
		t.Errorf("Document = %s", html)
	}
}
