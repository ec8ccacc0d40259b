// Package chromedp provides a headless Chrome browser session.
package chromedp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// DefaultUserAgent is a current desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Options configures the browser process.
type Options struct {
	Headless  bool
	UserAgent string
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
}

// Session is one Chrome tab held for the lifetime of a crawl.
type Session struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
}

var _ ports.Browser = (*Session)(nil)

// NewSession starts Chrome and opens a tab. The browser lives until Close,
// independent of ctx, which only bounds start-up.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.NoSandbox,
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}

	// The first Run launches the browser; it must use browserCtx itself so
	// the process is not tied to a shorter-lived context.
	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()
	select {
	case err := <-started:
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("starting chrome: %w", err)
		}
	case <-ctx.Done():
		s.Close()
		return nil, fmt.Errorf("starting chrome: %w", ctx.Err())
	}

	return s, nil
}

// Navigate loads locator and waits for the document body.
func (s *Session) Navigate(ctx context.Context, locator string) error {
	return s.run(ctx,
		chromedp.Navigate(locator),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// ScrollBy scrolls the window by dy pixels.
func (s *Session) ScrollBy(ctx context.Context, dy int) error {
	return s.run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d);", dy), nil))
}

// HTML returns the outer HTML of the document element.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close shuts the tab and the browser process.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelBrowser()
		s.cancelAlloc()
	})
	return nil
}

// run executes actions on the tab, cancelled when ctx is done. Cancelling the
// derived context aborts the actions without closing the tab.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := s.browserCtx.Err(); err != nil {
		return errors.New("browser session closed")
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.browserCtx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(s.browserCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
