// Package preview serves content pages over HTTP while they are being
// written.
//
// Routes:
//
//	GET /                 index of every page
//	GET /p/{slug}         one page (?mobile=1, ?viewport=<id>, ?fragment=1)
//	GET /healthz          liveness
//	GET /metrics          Prometheus metrics
//	GET /_sitekit/media   WebSocket media-query bridge (?id=<viewport id>)
//
// Pages include a small client script that opens the media bridge, answers
// the server's matchMedia subscriptions and re-fetches the page fragment
// when the viewport changes, so the hero switches layout the same way it
// would in a live client.
package preview
