package ports

import "context"

// Pacer decides how long the crawl waits between steps. Every wait returns
// early with the context error if ctx is cancelled.
type Pacer interface {
	// Settle waits after navigation so dynamic content can render.
	Settle(ctx context.Context) error

	// ScrollCount returns how many scroll actions to perform on a page.
	ScrollCount() int

	// ScrollPause waits after one scroll action.
	ScrollPause(ctx context.Context) error

	// ItemPause waits after each catalog item, whether or not it succeeded.
	ItemPause(ctx context.Context) error
}
