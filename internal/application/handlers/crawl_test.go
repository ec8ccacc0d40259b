package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/mocks"
	"github.com/ersonp/trope-crawler/internal/domain/services"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list_movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestCrawlHandler(store *mocks.CheckpointStore) (*CrawlHandler, *mocks.PageFetcher) {
	fetcher := mocks.NewPageFetcher(map[string]string{
		"https://example.test/p1": "foo,bar",
		"https://example.test/p2": "bar",
	})
	fetcher.Errors["https://example.test/p3"] = errors.New("net::ERR_TIMED_OUT")
	return NewCrawlHandler(fetcher, mocks.OrderedExtractor{}, &mocks.Pacer{}, store, logger.NewNop()), fetcher
}

const scenarioCSV = `id,link
p1,https://example.test/p1
p2,https://example.test/p2
p3,https://example.test/p3
`

func TestCrawlHandler_Handle(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	handler, fetcher := newTestCrawlHandler(store)

	var reports []services.CheckpointReport
	result, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath:  writeCatalog(t, scenarioCSV),
		Cap:          1000,
		BatchSize:    2,
		RunID:        "run-1",
		OnCheckpoint: func(r services.CheckpointReport) { reports = append(reports, r) },
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, 3, result.Parents)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, reports, 2)
	assert.Len(t, store.Saves, 2)
	assert.Len(t, fetcher.Calls, 3)
	assert.Equal(t, []entities.Trope{
		{ID: "tr00001", Name: "foo"},
		{ID: "tr00002", Name: "bar"},
	}, store.Current.Tropes)
}

func TestCrawlHandler_Cap(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	handler, fetcher := newTestCrawlHandler(store)

	result, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: writeCatalog(t, scenarioCSV),
		Cap:         1,
		BatchSize:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parents)
	assert.Equal(t, []string{"https://example.test/p1"}, fetcher.Calls)
}

func TestCrawlHandler_MissingCatalog(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	handler, fetcher := newTestCrawlHandler(store)

	_, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: filepath.Join(t.TempDir(), "missing.csv"),
		Cap:         10,
		BatchSize:   2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, fetcher.Calls)
	assert.Empty(t, store.Saves)
}

func TestCrawlHandler_BadHeader(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	handler, fetcher := newTestCrawlHandler(store)

	_, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: writeCatalog(t, "movie,url\np1,https://example.test/p1\n"),
		Cap:         10,
		BatchSize:   2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrMissingColumn)
	assert.Empty(t, fetcher.Calls)
}

func TestCrawlHandler_InvalidOptions(t *testing.T) {
	handler, _ := newTestCrawlHandler(mocks.NewCheckpointStore(nil))

	_, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: writeCatalog(t, scenarioCSV),
		Cap:         10,
		BatchSize:   0,
	})
	require.Error(t, err)
}

func TestCrawlHandler_LoadError(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	store.LoadErr = errors.New("corrupt")
	handler, fetcher := newTestCrawlHandler(store)

	_, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: writeCatalog(t, scenarioCSV),
		Cap:         10,
		BatchSize:   2,
	})
	require.Error(t, err)
	assert.Empty(t, fetcher.Calls)
}

func TestCrawlHandler_CheckpointError(t *testing.T) {
	store := mocks.NewCheckpointStore(nil)
	store.SaveErr = errors.New("disk full")
	handler, _ := newTestCrawlHandler(store)

	result, err := handler.Handle(t.Context(), CrawlOptions{
		CatalogPath: writeCatalog(t, scenarioCSV),
		Cap:         10,
		BatchSize:   2,
		RunID:       "run-2",
	})
	require.Error(t, err)

	var cpErr *services.CheckpointError
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, 1, cpErr.Batch)
	require.NotNil(t, result)
	assert.Zero(t, result.Batches)
}
