// Package colly provides a browser session for pages that need no script
// rendering. Documents are fetched over plain HTTP with gocolly.
package colly

import (
	"context"
	"errors"
	"fmt"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// Options configures the HTTP collector.
type Options struct {
	UserAgent string
	// RequestTimeout bounds each request; zero keeps colly's default.
	RequestTimeout time.Duration
}

// Session fetches one document at a time and keeps the last response body.
// Scrolling has no effect on a static document.
type Session struct {
	collector *colly.Collector
	current   string
	lastErr   error
	lastBody  []byte
}

var _ ports.Browser = (*Session)(nil)

// NewSession creates a collector-backed session.
func NewSession(opts Options) *Session {
	collectorOpts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}

	s := &Session{collector: colly.NewCollector(collectorOpts...)}
	if opts.RequestTimeout > 0 {
		s.collector.SetRequestTimeout(opts.RequestTimeout)
	}

	s.collector.OnResponse(func(r *colly.Response) {
		s.lastBody = r.Body
	})
	s.collector.OnError(func(r *colly.Response, err error) {
		s.lastErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	return s
}

// Navigate fetches locator and keeps its body for HTML.
func (s *Session) Navigate(ctx context.Context, locator string) error {
	s.current = ""
	s.lastBody = nil
	s.lastErr = nil
	s.collector.Context = ctx

	if err := s.collector.Visit(locator); err != nil {
		if s.lastErr != nil {
			return s.lastErr
		}
		return err
	}
	if s.lastErr != nil {
		return s.lastErr
	}

	s.current = locator
	return nil
}

// ScrollBy is a no-op for static documents.
func (s *Session) ScrollBy(ctx context.Context, _ int) error {
	return ctx.Err()
}

// HTML returns the body of the last successful navigation.
func (s *Session) HTML(_ context.Context) (string, error) {
	if s.current == "" {
		return "", errors.New("no document loaded")
	}
	return string(s.lastBody), nil
}

// Close has nothing to release.
func (s *Session) Close() error {
	return nil
}
