// Package mocks provides hand-written fakes of the domain ports for tests.
package mocks

import (
	"context"
	"errors"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// ErrNoFixture is reported for locators the fake fetcher has no page for.
var ErrNoFixture = errors.New("no fixture for locator")

// PageFetcher is a fixture-backed implementation of ports.PageFetcher.
type PageFetcher struct {
	// Pages maps locators to document content.
	Pages map[string]string
	// Errors maps locators to fetch failures.
	Errors map[string]error
	// Calls records fetched locators in order.
	Calls []string
}

// NewPageFetcher creates a fake fetcher serving pages.
func NewPageFetcher(pages map[string]string) *PageFetcher {
	return &PageFetcher{
		Pages:  pages,
		Errors: make(map[string]error),
	}
}

// Fetch returns the fixture for locator, or a failed page.
func (m *PageFetcher) Fetch(_ context.Context, locator string) entities.Page {
	m.Calls = append(m.Calls, locator)
	if err, ok := m.Errors[locator]; ok {
		return entities.Page{Locator: locator, Err: err}
	}
	content, ok := m.Pages[locator]
	if !ok {
		return entities.Page{Locator: locator, Err: ErrNoFixture}
	}
	return entities.Page{Locator: locator, Content: content}
}
