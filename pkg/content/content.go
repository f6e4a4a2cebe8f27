// Package content loads the marketing copy that sections render.
//
// Pages are YAML documents. A page may have a sibling HTML fragment with the
// same base name (home.yaml, home.html) holding its long-form body.
//
//	title: Home
//	hero:
//	  headline: Build faster
//	  subtext:
//	    - First paragraph.
//	    - Second paragraph.
//	  cta: Get started
//	  url: /signup
//	latest:
//	  - label: New
//	    headline: Streaming SSR
//	    subtext: One paragraph is fine too.
package content

import (
	"github.com/vango-dev/sitekit/pkg/text"
	"github.com/vango-dev/sitekit/pkg/trusted"
)

// Block is one headline with its supporting copy and optional call to action.
// Blocks are read-only once loaded. URL is an absolute URL, a fragment or a
// site path; relative paths such as "pricing" resolve from the site root.
type Block struct {
	Headline string       `yaml:"headline" json:"headline" validate:"required,max=200"`
	Subtext  text.Subtext `yaml:"subtext" json:"subtext"`
	CTA      string       `yaml:"cta,omitempty" json:"cta,omitempty" validate:"excluded_without=URL,max=80"`
	URL      string       `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,href"`
	Label    string       `yaml:"label,omitempty" json:"label,omitempty" validate:"max=40"`
}

// HasCTA reports whether the block carries a usable call to action.
func (b Block) HasCTA() bool {
	return b.CTA != "" && b.URL != ""
}

// Paragraphs returns the normalized subtext.
func (b Block) Paragraphs() []string {
	return text.NormalizeSubtext(b.Subtext)
}

// Page is a single content page.
type Page struct {
	Title       string  `yaml:"title" json:"title" validate:"required"`
	Slug        string  `yaml:"slug,omitempty" json:"slug,omitempty" validate:"omitempty,slug"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Hero        *Block  `yaml:"hero,omitempty" json:"hero,omitempty" validate:"omitempty"`
	Latest      []Block `yaml:"latest,omitempty" json:"latest,omitempty" validate:"dive"`

	// Body is the page's HTML fragment, if one was found.
	Body trusted.HTML `yaml:"-" json:"-" validate:"-"`

	// Source is the name the page was loaded from.
	Source string `yaml:"-" json:"-" validate:"-"`
}

// IndexSlug is the slug of the site's front page.
const IndexSlug = "index"
