package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
)

// DefaultScrollStep is the vertical distance of one scroll action, in pixels.
const DefaultScrollStep = 300

// FetchOptions tunes how a page is loaded.
type FetchOptions struct {
	// ScrollStep is the pixel distance of each scroll. Zero means DefaultScrollStep.
	ScrollStep int
	// NavigateTimeout bounds navigation. Zero leaves navigation unbounded.
	NavigateTimeout time.Duration
}

// FetchService loads pages through a browser session, pausing and scrolling
// the way a reader would before taking the rendered markup.
type FetchService struct {
	browser ports.Browser
	pacer   ports.Pacer
	logger  logger.Logger
	opts    FetchOptions
}

var _ ports.PageFetcher = (*FetchService)(nil)

// NewFetchService creates a new FetchService.
func NewFetchService(browser ports.Browser, pacer ports.Pacer, log logger.Logger, opts FetchOptions) *FetchService {
	if opts.ScrollStep == 0 {
		opts.ScrollStep = DefaultScrollStep
	}
	return &FetchService{
		browser: browser,
		pacer:   pacer,
		logger:  log,
		opts:    opts,
	}
}

// Fetch returns the rendered content at locator. Any failure is logged and
// reported on the page with empty content.
func (s *FetchService) Fetch(ctx context.Context, locator string) entities.Page {
	start := time.Now()
	content, err := s.render(ctx, locator)
	if err != nil {
		s.logger.Warn("Fetch failed",
			logger.String("locator", locator),
			logger.Error(err),
		)
		return entities.Page{Locator: locator, Err: err}
	}

	s.logger.Debug("Fetched page",
		logger.String("locator", locator),
		logger.Int("bytes", len(content)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return entities.Page{Locator: locator, Content: content}
}

func (s *FetchService) render(ctx context.Context, locator string) (string, error) {
	if err := s.navigate(ctx, locator); err != nil {
		return "", err
	}

	if err := s.pacer.Settle(ctx); err != nil {
		return "", err
	}

	scrolls := s.pacer.ScrollCount()
	for i := range scrolls {
		if err := s.browser.ScrollBy(ctx, s.opts.ScrollStep); err != nil {
			return "", fmt.Errorf("scroll %d/%d: %w", i+1, scrolls, err)
		}
		if err := s.pacer.ScrollPause(ctx); err != nil {
			return "", err
		}
	}

	html, err := s.browser.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return html, nil
}

func (s *FetchService) navigate(ctx context.Context, locator string) error {
	if s.opts.NavigateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NavigateTimeout)
		defer cancel()
	}
	if err := s.browser.Navigate(ctx, locator); err != nil {
		return fmt.Errorf("navigating: %w", err)
	}
	return nil
}
