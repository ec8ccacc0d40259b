package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/mocks"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
)

func TestFetchService_Fetch(t *testing.T) {
	browser := mocks.NewBrowser(map[string]string{
		"https://tvtropes.org/pmwiki/pmwiki.php/Film/Alien": "<html>alien</html>",
	})
	pacer := &mocks.Pacer{Scrolls: 3}
	svc := NewFetchService(browser, pacer, logger.NewNop(), FetchOptions{})

	page := svc.Fetch(t.Context(), "https://tvtropes.org/pmwiki/pmwiki.php/Film/Alien")

	require.False(t, page.Failed())
	assert.Equal(t, "<html>alien</html>", page.Content)
	assert.Equal(t, 1, pacer.Settles)
	assert.Equal(t, 3, pacer.ScrollPauses)
	assert.Equal(t, []int{DefaultScrollStep, DefaultScrollStep, DefaultScrollStep}, browser.Scrolled)
	assert.Zero(t, pacer.ItemPauses, "item pacing belongs to the crawl driver")
}

func TestFetchService_CustomScrollStep(t *testing.T) {
	browser := mocks.NewBrowser(map[string]string{"u": "x"})
	svc := NewFetchService(browser, &mocks.Pacer{Scrolls: 2}, logger.NewNop(), FetchOptions{ScrollStep: 120})

	svc.Fetch(t.Context(), "u")

	assert.Equal(t, []int{120, 120}, browser.Scrolled)
}

func TestFetchService_FailuresBecomeEmptyPages(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *mocks.Browser)
	}{
		{
			name: "navigation error",
			setup: func(b *mocks.Browser) {
				b.NavigateErr["u"] = errors.New("net::ERR_CONNECTION_RESET")
			},
		},
		{
			name: "scroll error",
			setup: func(b *mocks.Browser) {
				b.ScrollErr = errors.New("target closed")
			},
		},
		{
			name: "html error",
			setup: func(b *mocks.Browser) {
				b.HTMLErr = errors.New("node not found")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := mocks.NewBrowser(map[string]string{"u": "<html></html>"})
			tt.setup(browser)
			svc := NewFetchService(browser, &mocks.Pacer{Scrolls: 2}, logger.NewNop(), FetchOptions{})

			page := svc.Fetch(t.Context(), "u")

			require.True(t, page.Failed())
			assert.Empty(t, page.Content)
			assert.Equal(t, "u", page.Locator)
		})
	}
}

func TestFetchService_NavigateTimeout(t *testing.T) {
	browser := &slowBrowser{Browser: mocks.NewBrowser(map[string]string{"u": "x"})}
	svc := NewFetchService(browser, &mocks.Pacer{}, logger.NewNop(), FetchOptions{NavigateTimeout: 10 * time.Millisecond})

	page := svc.Fetch(t.Context(), "u")

	require.True(t, page.Failed())
	assert.ErrorIs(t, page.Err, context.DeadlineExceeded)
}

func TestFetchService_CancelledContext(t *testing.T) {
	browser := mocks.NewBrowser(map[string]string{"u": "x"})
	svc := NewFetchService(browser, &mocks.Pacer{}, logger.NewNop(), FetchOptions{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	page := svc.Fetch(ctx, "u")
	require.True(t, page.Failed())
	assert.ErrorIs(t, page.Err, context.Canceled)
}

// slowBrowser blocks navigation until the context ends.
type slowBrowser struct {
	*mocks.Browser
}

func (b *slowBrowser) Navigate(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}
