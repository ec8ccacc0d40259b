package mocks

import (
	"context"
	"errors"
)

// Browser is a scripted browser session.
type Browser struct {
	// Pages maps locators to markup served after navigation.
	Pages map[string]string
	// NavigateErr fails navigation to the given locators.
	NavigateErr map[string]error
	ScrollErr   error
	HTMLErr     error

	Current   string
	Navigated []string
	Scrolled  []int
	Closed    bool
}

// NewBrowser creates a scripted session serving pages.
func NewBrowser(pages map[string]string) *Browser {
	return &Browser{Pages: pages, NavigateErr: make(map[string]error)}
}

func (b *Browser) Navigate(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.Navigated = append(b.Navigated, locator)
	if err, ok := b.NavigateErr[locator]; ok {
		return err
	}
	if _, ok := b.Pages[locator]; !ok {
		return errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	b.Current = locator
	return nil
}

func (b *Browser) ScrollBy(_ context.Context, dy int) error {
	if b.ScrollErr != nil {
		return b.ScrollErr
	}
	b.Scrolled = append(b.Scrolled, dy)
	return nil
}

func (b *Browser) HTML(_ context.Context) (string, error) {
	if b.HTMLErr != nil {
		return "", b.HTMLErr
	}
	return b.Pages[b.Current], nil
}

func (b *Browser) Close() error {
	b.Closed = true
	return nil
}
