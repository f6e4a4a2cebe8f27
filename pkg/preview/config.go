package preview

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/render"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address (default: "localhost:4000").
	Address string

	// Renderer renders pages. Required.
	Renderer *render.Renderer

	// Load returns the current pages. It is called on every request so
	// edits show up on reload. Required.
	Load func(ctx context.Context) ([]content.Page, error)

	// Logger is the structured logger (default: slog.Default()).
	Logger *slog.Logger

	// Registry collects the server's metrics (default: a new registry).
	Registry *prometheus.Registry

	// DisableMetrics removes the /metrics route.
	DisableMetrics bool

	// TracerProvider supplies HTTP server spans
	// (default: otel.GetTracerProvider()).
	TracerProvider trace.TracerProvider

	// CheckOrigin validates media bridge upgrades (default: SameOriginCheck).
	CheckOrigin func(r *http.Request) bool

	// BridgeReadTimeout bounds the wait for the next viewport report
	// (default: 60s).
	BridgeReadTimeout time.Duration

	// BridgeHeartbeat is the time between pings to each connected page
	// (default: half of BridgeReadTimeout).
	BridgeHeartbeat time.Duration

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = "localhost:4000"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = SameOriginCheck
	}
	if c.BridgeReadTimeout <= 0 {
		c.BridgeReadTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}
