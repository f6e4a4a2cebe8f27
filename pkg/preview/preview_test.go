package preview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	g "maragu.dev/gomponents"

	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/mediaquery"
	"github.com/vango-dev/sitekit/pkg/render"
	"github.com/vango-dev/sitekit/pkg/text"
	"github.com/vango-dev/sitekit/pkg/ui"
	"github.com/vango-dev/sitekit/pkg/vtest"
)

func testPages() []content.Page {
	return []content.Page{
		{
			Title: "About",
			Slug:  "about",
			Hero:  &content.Block{Headline: "About us", Subtext: text.Subtext{"We build things."}},
		},
		{
			Title: "Home",
			Slug:  "index",
			Hero: &content.Block{
				Headline: "Build faster",
				Subtext:  text.Subtext{"One.", "Two."},
				CTA:      "Start",
				URL:      "/signup",
			},
		},
	}
}

func newTestServer(t *testing.T, load func(context.Context) ([]content.Page, error)) *Server {
	t.Helper()
	return newTestServerWith(t, Config{Load: load})
}

func newTestServerWith(t *testing.T, config Config) *Server {
	t.Helper()
	if config.Load == nil {
		config.Load = func(context.Context) ([]content.Page, error) { return testPages(), nil }
	}
	kit := ui.DefaultKit()
	kit.NewID = vtest.SequentialIDs("k")
	config.Renderer = render.NewRenderer(render.RendererConfig{
		Kit:  &kit,
		Head: []g.Node{ClientScript()},
	})
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		contains   []string
		excludes   []string
	}{
		{
			name:       "index lists pages",
			target:     "/",
			wantStatus: http.StatusOK,
			contains:   []string{`href="/p/about"`, `href="/p/index"`, "<title>Pages</title>"},
		},
		{
			name:       "page renders desktop by default",
			target:     "/p/index",
			wantStatus: http.StatusOK,
			contains:   []string{"<!doctype html>", "hero--large", "Build faster", "/_sitekit/media?id="},
			excludes:   []string{"hero--small"},
		},
		{
			name:       "mobile override",
			target:     "/p/index?mobile=1",
			wantStatus: http.StatusOK,
			contains:   []string{"hero--small"},
		},
		{
			name:       "fragment omits document",
			target:     "/p/about?fragment=1",
			wantStatus: http.StatusOK,
			contains:   []string{`<main class="page" data-page="about">`, "About us"},
			excludes:   []string{"<!doctype html>", "<script>"},
		},
		{
			name:       "unknown viewport falls back to desktop",
			target:     "/p/index?viewport=nobody",
			wantStatus: http.StatusOK,
			contains:   []string{"hero--large"},
		},
		{
			name:       "missing page",
			target:     "/p/nope",
			wantStatus: http.StatusNotFound,
			contains:   []string{"E040"},
		},
		{
			name:       "health",
			target:     "/healthz",
			wantStatus: http.StatusOK,
			contains:   []string{"ok"},
		},
		{
			name:       "media requires id",
			target:     MediaPath,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s.Handler(), tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := rec.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(body, bad) {
					t.Errorf("body unexpectedly contains %q", bad)
				}
			}
		})
	}
}

func TestPageContentType(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/p/index")
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type=%q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control=%q", got)
	}
}

func TestLoadFailure(t *testing.T) {
	s := newTestServer(t, func(context.Context) ([]content.Page, error) {
		return nil, errors.New("disk on fire")
	})
	rec := get(t, s.Handler(), "/p/index")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "disk on fire") {
		t.Errorf("body=%q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	get(t, s.Handler(), "/p/index")
	get(t, s.Handler(), "/p/about")
	get(t, s.Handler(), "/p/nope")

	body := get(t, s.Handler(), "/metrics").Body.String()
	for _, want := range []string{
		`sitekit_http_requests_total{route="/p/{slug}",status="200"} 2`,
		`sitekit_http_requests_total{route="/p/{slug}",status="404"} 1`,
		`sitekit_http_request_duration_seconds_count{route="/p/{slug}"} 3`,
		"sitekit_media_connections 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestDisableMetrics(t *testing.T) {
	kit := ui.DefaultKit()
	s := New(Config{
		Renderer:       render.NewRenderer(render.RendererConfig{Kit: &kit}),
		Load:           func(context.Context) ([]content.Page, error) { return nil, nil },
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		DisableMetrics: true,
	})
	if rec := get(t, s.Handler(), "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("status=%d, want 404", rec.Code)
	}
}

func TestNewPanicsWithoutRenderer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(Config{})
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"same host", "http://example.com", true},
		{"other host", "http://evil.com", false},
		{"bad url", "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck(%q)=%v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func dialMedia(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + MediaPath + "?id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestMediaBridge_ViewportDrivesLayout(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialMedia(t, ts, "tab-1")

	var cmd mediaquery.Command
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&cmd); err != nil {
		t.Fatalf("read command: %v", err)
	}
	if cmd.Subscribe != mediaquery.MobileQuery {
		t.Fatalf("command=%+v, want subscribe %q", cmd, mediaquery.MobileQuery)
	}

	waitFor(t, "viewport registration", func() bool {
		_, ok := s.Hub().Mobile("tab-1")
		return ok
	})
	if m, _ := s.Hub().Mobile("tab-1"); m {
		t.Fatal("expected viewport to start out not mobile")
	}

	if err := conn.WriteJSON(mediaquery.Report{Query: mediaquery.MobileQuery, Matches: true}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	waitFor(t, "mobile report", func() bool {
		m, _ := s.Hub().Mobile("tab-1")
		return m
	})

	rec := get(t, s.Handler(), "/p/index?fragment=1&viewport=tab-1")
	if !strings.Contains(rec.Body.String(), "hero--small") {
		t.Errorf("expected mobile layout, got:\n%s", rec.Body.String())
	}

	// ?mobile wins over the bridge
	rec = get(t, s.Handler(), "/p/index?fragment=1&viewport=tab-1&mobile=0")
	if !strings.Contains(rec.Body.String(), "hero--large") {
		t.Errorf("expected desktop layout, got:\n%s", rec.Body.String())
	}

	waitFor(t, "media metrics", func() bool {
		metrics := get(t, s.Handler(), "/metrics").Body.String()
		return strings.Contains(metrics, "sitekit_media_connections 1") &&
			strings.Contains(metrics, "sitekit_media_reports_total 1")
	})

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, "bridge detach", func() bool { return s.Hub().Len() == 0 })
}

func TestMediaBridge_IdleViewportSurvivesReadTimeout(t *testing.T) {
	s := newTestServerWith(t, Config{BridgeReadTimeout: 300 * time.Millisecond})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialMedia(t, ts, "tab-1")
	commands := make(chan mediaquery.Command, 4)
	go func() {
		// Reading lets the default ping handler answer heartbeats.
		for {
			var cmd mediaquery.Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			commands <- cmd
		}
	}()

	select {
	case cmd := <-commands:
		if cmd.Subscribe != mediaquery.MobileQuery {
			t.Fatalf("command=%+v, want subscribe %q", cmd, mediaquery.MobileQuery)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no subscribe command")
	}

	if err := conn.WriteJSON(mediaquery.Report{Query: mediaquery.MobileQuery, Matches: true}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	waitFor(t, "mobile report", func() bool {
		m, _ := s.Hub().Mobile("tab-1")
		return m
	})

	time.Sleep(700 * time.Millisecond)

	if m, ok := s.Hub().Mobile("tab-1"); !ok || !m {
		t.Fatalf("Mobile(tab-1)=%v, %v after idling; want true, true", m, ok)
	}
	rec := get(t, s.Handler(), "/p/index?fragment=1&viewport=tab-1")
	if !strings.Contains(rec.Body.String(), "hero--small") {
		t.Errorf("expected mobile layout after idling, got:\n%s", rec.Body.String())
	}
}

func TestClientScript_SendsKeepalive(t *testing.T) {
	if !strings.Contains(clientJS, `ws.send("{}")`) {
		t.Error("client script should send keepalive frames")
	}
	if !strings.Contains(clientJS, "setInterval(") || !strings.Contains(clientJS, keepaliveMillis) {
		t.Error("client script should schedule keepalives")
	}
}

func TestMediaBridge_ReconnectReplacesViewport(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	first := dialMedia(t, ts, "tab-1")
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	var cmd mediaquery.Command
	if err := first.ReadJSON(&cmd); err != nil {
		t.Fatalf("read command: %v", err)
	}

	second := dialMedia(t, ts, "tab-1")
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := second.ReadJSON(&cmd); err != nil {
		t.Fatalf("read command: %v", err)
	}

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected first connection to be closed")
	}
	if got := s.Hub().Len(); got != 1 {
		t.Errorf("Hub().Len()=%d, want 1", got)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	waitFor(t, "server start", func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
