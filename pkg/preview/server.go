package preview

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/mediaquery"
	"github.com/vango-dev/sitekit/pkg/middleware"
	"github.com/vango-dev/sitekit/pkg/render"
)

// MediaPath is the route of the media-query bridge.
const MediaPath = "/_sitekit/media"

// Server is the preview HTTP server.
type Server struct {
	config   Config
	logger   *slog.Logger
	router   chi.Router
	hub      *Hub
	metrics  *middleware.Metrics
	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a Server. It panics if Renderer or Load is missing.
func New(config Config) *Server {
	if config.Renderer == nil || config.Load == nil {
		panic("preview: Config.Renderer and Config.Load are required")
	}
	config = config.withDefaults()

	s := &Server{
		config:  config,
		logger:  config.Logger.With("component", "preview"),
		hub:     NewHub(),
		metrics: middleware.NewMetrics(middleware.WithRegistry(config.Registry)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	var otelOpts []middleware.OTelOption
	if s.config.TracerProvider != nil {
		otelOpts = append(otelOpts, middleware.WithTracerProvider(s.config.TracerProvider))
	}
	otelOpts = append(otelOpts, middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
	}))

	r := chi.NewRouter()
	r.Use(
		chimw.Recoverer,
		middleware.Logging(s.logger),
		s.metrics.Handler,
		middleware.OpenTelemetry(otelOpts...),
	)

	r.Get("/", s.handleIndex)
	r.Get("/p/{slug}", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Get(MediaPath, s.handleMedia)
	if !s.config.DisableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the registry of open media bridges.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every media bridge and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.CloseAll()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("preview server shutdown complete")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := s.config.Renderer.RenderIndex(r.Context(), &buf, pages, func(p content.Page) string {
		return "/p/" + p.Slug
	})
	s.writeHTML(w, r, &buf, "", err)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	pages, ok := s.load(w, r)
	if !ok {
		return
	}

	slug := chi.URLParam(r, "slug")
	page, found := content.Find(pages, slug)
	if !found {
		err := sterrors.New("E040").WithDetail("No page has slug " + strconv.Quote(slug) + ".")
		http.Error(w, err.FormatCompact(), http.StatusNotFound)
		return
	}

	opts := render.Options{Mobile: s.viewportMobile(r)}
	var buf bytes.Buffer
	var err error
	if r.URL.Query().Get("fragment") == "1" {
		err = s.config.Renderer.RenderFragment(r.Context(), &buf, page, opts)
	} else {
		err = s.config.Renderer.RenderPage(r.Context(), &buf, page, opts)
	}
	s.writeHTML(w, r, &buf, page.Slug, err)
}

// viewportMobile picks the layout for a page request: an explicit ?mobile
// wins, then the state reported by the ?viewport bridge.
func (s *Server) viewportMobile(r *http.Request) bool {
	q := r.URL.Query()
	if v := q.Get("mobile"); v != "" {
		mobile, err := strconv.ParseBool(v)
		return err == nil && mobile
	}
	if id := q.Get("viewport"); id != "" {
		mobile, _ := s.hub.Mobile(id)
		return mobile
	}
	return false
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]content.Page, bool) {
	pages, err := s.config.Load(r.Context())
	if err != nil {
		s.logger.Error("content load failed", "error", err)
		http.Error(w, errorText(err), http.StatusInternalServerError)
		return nil, false
	}
	return pages, true
}

func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, buf *bytes.Buffer, slug string, err error) {
	if err != nil {
		s.metrics.RecordRenderError(slug)
		s.logger.Error("render failed", "slug", slug, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("write response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing viewport id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("media bridge upgrade failed", "error", err)
		return
	}

	logger := s.logger.With("viewport", id)
	bridge := mediaquery.NewBridge(conn, mediaquery.BridgeConfig{
		ReadTimeout:       s.config.BridgeReadTimeout,
		HeartbeatInterval: s.config.BridgeHeartbeat,
		Logger:            logger,
	})

	s.metrics.MediaConnected()
	defer s.metrics.MediaDisconnected()

	mobile, detach := s.hub.attach(id, bridge)
	defer detach()
	mobile.OnChange(func(matches bool) {
		s.metrics.RecordMediaReport()
		logger.Debug("viewport changed", "mobile", matches)
	})

	logger.Debug("media bridge connected")
	if err := bridge.Run(r.Context()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("media bridge closed", "error", err)
	}
	logger.Debug("media bridge disconnected")
}

func errorText(err error) string {
	var se *sterrors.SitekitError
	if errors.As(err, &se) {
		return se.FormatCompact()
	}
	return err.Error()
}
