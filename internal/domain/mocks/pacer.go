package mocks

import "context"

// Pacer never waits and counts how often each step was requested.
type Pacer struct {
	Scrolls      int
	Settles      int
	ScrollPauses int
	ItemPauses   int
	// CancelAfterItems, if set, makes ItemPause return Cancel after that many items.
	CancelAfterItems int
	Cancel           error
}

func (p *Pacer) Settle(ctx context.Context) error {
	p.Settles++
	return ctx.Err()
}

func (p *Pacer) ScrollCount() int {
	return p.Scrolls
}

func (p *Pacer) ScrollPause(ctx context.Context) error {
	p.ScrollPauses++
	return ctx.Err()
}

func (p *Pacer) ItemPause(ctx context.Context) error {
	p.ItemPauses++
	if p.CancelAfterItems > 0 && p.ItemPauses >= p.CancelAfterItems {
		return p.Cancel
	}
	return ctx.Err()
}
