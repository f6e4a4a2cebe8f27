package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/text"
	"github.com/vango-dev/sitekit/pkg/trusted"
)

// IsPageFile reports whether name is a page document.
func IsPageFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads and validates every page document in src. Pages are returned
// sorted by slug; two pages with the same slug are an error.
func Load(ctx context.Context, src Source) ([]Page, error) {
	names, err := src.List(ctx)
	if err != nil {
		return nil, sterrors.New("E021").Wrap(err)
	}

	var pages []Page
	seen := make(map[string]string)
	for _, name := range names {
		if !IsPageFile(name) {
			continue
		}
		page, err := LoadPage(ctx, src, name)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[page.Slug]; dup {
			return nil, sterrors.New("E020").
				WithFile(name).
				WithSuggestion(fmt.Sprintf("Slug %q is already used by %s; set a distinct slug", page.Slug, other))
		}
		seen[page.Slug] = name
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages, nil
}

// LoadPage reads, defaults and validates a single page document.
func LoadPage(ctx context.Context, src Source, name string) (Page, error) {
	data, err := readAll(ctx, src, name)
	if err != nil {
		return Page{}, sterrors.New("E021").WithFile(name).Wrap(err)
	}

	page, err := Decode(data)
	if err != nil {
		return Page{}, sterrors.New("E020").WithFile(name).Wrap(err)
	}
	page.Source = name
	if page.Slug == "" {
		page.Slug = defaultSlug(name, page.Title)
		if page.Slug == "" {
			return Page{}, sterrors.New("E020").
				WithFile(name).
				WithSuggestion("No slug could be derived from the title or file name; set slug explicitly")
		}
	}

	body, err := readAll(ctx, src, strings.TrimSuffix(name, path.Ext(name))+".html")
	switch {
	case err == nil:
		page.Body = trusted.Authored(string(body))
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Page{}, sterrors.New("E021").WithFile(name).Wrap(err)
	}

	if err := Validate(&page); err != nil {
		return Page{}, sterrors.New("E020").WithFile(name).Wrap(err)
	}
	return page, nil
}

// Decode parses a page document. Unknown fields are rejected.
func Decode(data []byte) (Page, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var page Page
	if err := dec.Decode(&page); err != nil {
		if errors.Is(err, io.EOF) {
			return Page{}, fmt.Errorf("empty document")
		}
		return Page{}, err
	}
	return page, nil
}

// defaultSlug derives a slug for a page document that does not set one.
// Only the root "index.yaml" is the index page; a nested index takes its
// directory path. Otherwise the title is used, falling back to the file name.
func defaultSlug(name, title string) string {
	dir := path.Dir(name)
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if base == IndexSlug {
		if dir == "." || dir == "/" || dir == "" {
			return IndexSlug
		}
		return sanitizeSlug(dir)
	}
	for _, candidate := range []string{text.NormalizeSlug(title), sanitizeSlug(title), sanitizeSlug(base)} {
		if slugPattern.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}

// sanitizeSlug reduces s to lower-case ASCII letters and digits separated by
// single hyphens. Apostrophes are dropped so "What's New" reads "whats-new".
func sanitizeSlug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '\'' || r == '\u2019':
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

func readAll(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Find returns the page with the given slug.
func Find(pages []Page, slug string) (Page, bool) {
	for _, p := range pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}
