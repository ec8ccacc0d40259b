// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// Browser is a document session that can load a locator, scroll the loaded
// document and report its current markup. One session is held for a whole
// run and is never shared between goroutines.
type Browser interface {
	// Navigate loads the document at locator, replacing the current one.
	Navigate(ctx context.Context, locator string) error

	// ScrollBy scrolls the current document vertically by dy pixels.
	ScrollBy(ctx context.Context, dy int) error

	// HTML returns the markup of the current document.
	HTML(ctx context.Context) (string, error)

	// Close releases the session.
	Close() error
}

// PageFetcher retrieves the rendered content of one locator. Implementations
// never fail: errors are reported on the returned page.
type PageFetcher interface {
	Fetch(ctx context.Context, locator string) entities.Page
}
