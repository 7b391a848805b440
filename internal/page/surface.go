// Package page abstracts the rendering surface a scan runs against, so the
// extraction logic is a pure function of a queryable document tree and can be
// tested without a browser.
package page

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Surface is a handle to a rendered results page.
type Surface interface {
	// Location returns the page URL, used to pick the layout.
	Location() string

	// Document returns a snapshot of the current DOM.
	Document(ctx context.Context) (*goquery.Document, error)

	// ScrollFeed scrolls the results container matching selector to its
	// bottom, to trigger lazy loading. Static surfaces treat this as a
	// no-op.
	ScrollFeed(ctx context.Context, selector string) error
}

// StaticSurface wraps a fixed HTML document, as captured by the browser
// extension or built inline in tests.
type StaticSurface struct {
	url string
	doc *goquery.Document
}

// NewStaticSurface parses html into a static surface located at pageURL.
func NewStaticSurface(pageURL, html string) (*StaticSurface, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &StaticSurface{url: pageURL, doc: doc}, nil
}

// Location returns the page URL.
func (s *StaticSurface) Location() string {
	return s.url
}

// Document returns the parsed document. Static content never changes, so
// every call returns the same tree.
func (s *StaticSurface) Document(_ context.Context) (*goquery.Document, error) {
	return s.doc, nil
}

// ScrollFeed is a no-op: a captured document has no lazy loading to trigger.
func (s *StaticSurface) ScrollFeed(_ context.Context, _ string) error {
	return nil
}
