package publish

import (
	"bytes"
	"context"
	"log/slog"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/render"
)

// Options configures Publish.
type Options struct {
	// Logger receives one line per written document (default: slog.Default()).
	Logger *slog.Logger

	// Render is passed to every page render.
	Render render.Options
}

// Report lists the keys written, in page order.
type Report struct {
	Written []string
}

// Key returns the store key for page.
func Key(page content.Page) string {
	if page.Slug == content.IndexSlug || page.Slug == "" {
		return "index.html"
	}
	return page.Slug + "/index.html"
}

// Publish renders every page with r and writes it to store. It stops at the
// first failure; the report holds the keys written before it.
func Publish(ctx context.Context, r *render.Renderer, pages []content.Page, store Store, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var report Report
	var buf bytes.Buffer
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key := Key(page)
		buf.Reset()
		if err := r.RenderPage(ctx, &buf, page, opts.Render); err != nil {
			return report, sterrors.New("E030").WithFile(page.Source).Wrap(err)
		}
		if err := store.Put(ctx, key, HTMLContentType, buf.Bytes()); err != nil {
			return report, sterrors.New("E030").WithFile(key).Wrap(err)
		}

		logger.Info("published", "slug", page.Slug, "key", key, "bytes", buf.Len())
		report.Written = append(report.Written, key)
	}
	return report, nil
}
