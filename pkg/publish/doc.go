// Package publish renders every content page and writes the documents to
// a Store.
//
// Each page becomes <slug>/index.html; the index page becomes index.html at
// the root, so the output can be served by any static file host.
//
//	store := publish.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "site/")
//	report, err := publish.Publish(ctx, renderer, pages, store, publish.Options{})
package publish
