// Package goquery extracts trope names from rendered pages with goquery.
package goquery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// Defaults match the TV Tropes article layout.
const (
	DefaultContainer  = "div#main-article"
	DefaultLink       = "a[href*='/Main/']"
	DefaultPathMarker = "/Main/"
)

// Options selects where trope references live on a page.
type Options struct {
	// Container is the CSS selector of the element holding the references.
	// Only its first match is used.
	Container string
	// Link is the CSS selector of reference anchors inside the container.
	Link string
	// PathMarker is the href fragment preceding the canonical name.
	PathMarker string
}

// Extractor collects canonical names from anchors inside a container.
type Extractor struct {
	container string
	link      string
	marker    string
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor validates opts and creates an Extractor. Empty fields take
// the defaults.
func NewExtractor(opts Options) (*Extractor, error) {
	if opts.Container == "" {
		opts.Container = DefaultContainer
	}
	if opts.Link == "" {
		opts.Link = DefaultLink
	}
	if opts.PathMarker == "" {
		opts.PathMarker = DefaultPathMarker
	}

	for _, sel := range []string{opts.Container, opts.Link} {
		if _, err := cascadia.Compile(sel); err != nil {
			return nil, fmt.Errorf("invalid selector %q: %w", sel, err)
		}
	}

	return &Extractor{
		container: opts.Container,
		link:      opts.Link,
		marker:    opts.PathMarker,
	}, nil
}

// Extract returns the distinct canonical names referenced from the container,
// sorted ascending. A page without the container yields no names.
func (e *Extractor) Extract(content string) []string {
	if strings.TrimSpace(content) == "" {
		return []string{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []string{}
	}

	container := doc.Find(e.container).First()
	if container.Length() == 0 {
		return []string{}
	}

	seen := make(map[string]struct{})
	container.Find(e.link).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if name := e.canonicalName(href); name != "" {
			seen[name] = struct{}{}
		}
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// canonicalName strips everything up to and including the last path marker.
func (e *Extractor) canonicalName(href string) string {
	idx := strings.LastIndex(href, e.marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(href[idx+len(e.marker):])
}
