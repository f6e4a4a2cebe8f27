// Package middleware provides HTTP middleware for the sitekit preview server:
// Prometheus request metrics, OpenTelemetry server spans and structured
// request logging. Each middleware has the func(http.Handler) http.Handler
// shape used by chi.
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(middleware.Logging(logger), m.Handler, middleware.OpenTelemetry())
package middleware
