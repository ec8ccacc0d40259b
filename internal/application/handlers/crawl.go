// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/trope-crawler/internal/domain/ports"
	"github.com/ersonp/trope-crawler/internal/domain/services"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
	"github.com/ersonp/trope-crawler/internal/infrastructure/parsers"
)

// CrawlHandler runs one crawl over a movie catalog.
type CrawlHandler struct {
	fetcher   ports.PageFetcher
	extractor ports.Extractor
	pacer     ports.Pacer
	store     ports.CheckpointStore
	logger    logger.Logger
}

// NewCrawlHandler creates a new crawl handler.
func NewCrawlHandler(
	fetcher ports.PageFetcher,
	extractor ports.Extractor,
	pacer ports.Pacer,
	store ports.CheckpointStore,
	log logger.Logger,
) *CrawlHandler {
	return &CrawlHandler{
		fetcher:   fetcher,
		extractor: extractor,
		pacer:     pacer,
		store:     store,
		logger:    log,
	}
}

// CrawlOptions controls a single run.
type CrawlOptions struct {
	CatalogPath     string
	Cap             int
	BatchSize       int
	RunID           string
	DedupeRelations bool
	OnCheckpoint    func(services.CheckpointReport)
}

// Handle opens the catalog, restores the last checkpoint and crawls up to
// opts.Cap parents. A missing catalog or unreadable checkpoint fails before
// any page is fetched.
func (h *CrawlHandler) Handle(ctx context.Context, opts CrawlOptions) (*services.RunResult, error) {
	catalog, err := parsers.OpenCatalog(opts.CatalogPath)
	if err != nil {
		return nil, err
	}
	defer catalog.Close()

	enum, err := services.NewEnumerator(catalog, opts.Cap, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	registry, relations, err := services.LoadState(ctx, h.store)
	if err != nil {
		return nil, err
	}

	crawl := services.NewCrawlService(
		h.fetcher,
		h.extractor,
		h.pacer,
		h.store,
		registry,
		relations,
		h.logger,
		services.CrawlOptions{
			RunID:           opts.RunID,
			DedupeRelations: opts.DedupeRelations,
			OnCheckpoint:    opts.OnCheckpoint,
		},
	)

	result, err := crawl.Run(ctx, enum)
	if err != nil {
		return result, fmt.Errorf("crawl %s: %w", opts.RunID, err)
	}
	return result, nil
}
