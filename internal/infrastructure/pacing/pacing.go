// Package pacing implements the crawl's wait policies.
package pacing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// Range is an inclusive duration interval.
type Range struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Validate checks that the range is non-negative and ordered.
func (r Range) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("negative duration in range [%s, %s]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %s exceeds max %s", r.Min, r.Max)
	}
	return nil
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Validate checks that the range is non-negative and ordered.
func (r IntRange) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("negative value in range [%d, %d]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %d exceeds max %d", r.Min, r.Max)
	}
	return nil
}

// Options holds the ranges every wait is drawn from.
type Options struct {
	SettleDelay Range
	ScrollCount IntRange
	ScrollDelay Range
	ItemDelay   Range
}

// DefaultOptions returns the pacing used against TV Tropes.
func DefaultOptions() Options {
	return Options{
		SettleDelay: Range{Min: 2 * time.Second, Max: 4 * time.Second},
		ScrollCount: IntRange{Min: 2, Max: 5},
		ScrollDelay: Range{Min: 800 * time.Millisecond, Max: 1500 * time.Millisecond},
		ItemDelay:   Range{Min: 2 * time.Second, Max: 5 * time.Second},
	}
}

// Validate checks every range.
func (o Options) Validate() error {
	checks := []struct {
		name string
		err  error
	}{
		{"settle_delay", o.SettleDelay.Validate()},
		{"scroll_count", o.ScrollCount.Validate()},
		{"scroll_delay", o.ScrollDelay.Validate()},
		{"item_delay", o.ItemDelay.Validate()},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("%s: %w", c.name, c.err)
		}
	}
	return nil
}

// Random draws every wait uniformly from its configured range.
type Random struct {
	opts  Options
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.Pacer = (*Random)(nil)

// NewRandom creates a randomized pacer. A nil rng uses a randomly seeded source.
func NewRandom(opts Options, rng *rand.Rand) (*Random, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{opts: opts, rng: rng, sleep: Sleep}, nil
}

// Settle waits for a duration drawn from SettleDelay.
func (p *Random) Settle(ctx context.Context) error {
	return p.sleep(ctx, p.duration(p.opts.SettleDelay))
}

// ScrollCount draws from ScrollCount.
func (p *Random) ScrollCount() int {
	r := p.opts.ScrollCount
	return r.Min + p.rng.IntN(r.Max-r.Min+1)
}

// ScrollPause waits for a duration drawn from ScrollDelay.
func (p *Random) ScrollPause(ctx context.Context) error {
	return p.sleep(ctx, p.duration(p.opts.ScrollDelay))
}

// ItemPause waits for a duration drawn from ItemDelay.
func (p *Random) ItemPause(ctx context.Context) error {
	return p.sleep(ctx, p.duration(p.opts.ItemDelay))
}

func (p *Random) duration(r Range) time.Duration {
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + time.Duration(p.rng.Int64N(int64(r.Max-r.Min)+1))
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// None never waits and never scrolls.
type None struct{}

var _ ports.Pacer = None{}

func (None) Settle(ctx context.Context) error      { return ctx.Err() }
func (None) ScrollCount() int                      { return 0 }
func (None) ScrollPause(ctx context.Context) error { return ctx.Err() }
func (None) ItemPause(ctx context.Context) error   { return ctx.Err() }
