package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
)

// State is the position of the crawl driver in its batch cycle.
type State int

const (
	StateIdle State = iota
	StateFetchingBatch
	StatePersisting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingBatch:
		return "fetching_batch"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CheckpointError reports a failed checkpoint write. The run stops at the
// batch that could not be persisted.
type CheckpointError struct {
	Batch int
	Err   error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint after batch %d: %v", e.Batch, e.Err)
}

func (e *CheckpointError) Unwrap() error {
	return e.Err
}

// CheckpointReport summarizes one persisted batch.
type CheckpointReport struct {
	Batch     int `json:"batch"`
	Parents   int `json:"parents"`
	Failed    int `json:"failed"`
	NewTropes int `json:"new_tropes"`
	Rows      int `json:"rows"`
	Tropes    int `json:"tropes"`
	Relations int `json:"relations"`
}

// RunResult summarizes a finished (or aborted) crawl.
type RunResult struct {
	RunID       string             `json:"run_id"`
	Batches     int                `json:"batches"`
	Parents     int                `json:"parents"`
	Failed      int                `json:"failed"`
	NewTropes   int                `json:"new_tropes"`
	Tropes      int                `json:"tropes"`
	Relations   int                `json:"relations"`
	Checkpoints []CheckpointReport `json:"checkpoints"`
	Duration    time.Duration      `json:"duration"`
}

// CrawlOptions controls a crawl run.
type CrawlOptions struct {
	// RunID tags log lines and checkpoints of this run.
	RunID string
	// DedupeRelations drops repeated (parent, trope) rows at checkpoint time.
	// When false, rerunning over the same parents appends duplicate rows.
	DedupeRelations bool
	// OnCheckpoint, if set, is called after every successful checkpoint.
	OnCheckpoint func(CheckpointReport)
}

// CrawlService drives the crawl: it pulls batches from the enumerator, fetches
// and extracts every parent, resolves trope ids and checkpoints after each
// batch. It is single-use and not safe for concurrent use.
type CrawlService struct {
	fetcher   ports.PageFetcher
	extractor ports.Extractor
	pacer     ports.Pacer
	store     ports.CheckpointStore
	registry  *Registry
	relations *RelationTable
	logger    logger.Logger
	opts      CrawlOptions
	state     State
}

// NewCrawlService creates a new CrawlService. registry and relations hold the
// state loaded from the store and are extended in place.
func NewCrawlService(
	fetcher ports.PageFetcher,
	extractor ports.Extractor,
	pacer ports.Pacer,
	store ports.CheckpointStore,
	registry *Registry,
	relations *RelationTable,
	log logger.Logger,
	opts CrawlOptions,
) *CrawlService {
	return &CrawlService{
		fetcher:   fetcher,
		extractor: extractor,
		pacer:     pacer,
		store:     store,
		registry:  registry,
		relations: relations,
		logger:    log.With(logger.String("run_id", opts.RunID)),
		opts:      opts,
		state:     StateIdle,
	}
}

// LoadState reads the last checkpoint from store and rebuilds the registry
// and relation table from it.
func LoadState(ctx context.Context, store ports.CheckpointStore) (*Registry, *RelationTable, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading checkpoint: %w", err)
	}

	registry, err := LoadRegistry(snap.Tropes)
	if err != nil {
		return nil, nil, fmt.Errorf("loading registry: %w", err)
	}

	return registry, NewRelationTable(snap.Relations), nil
}

// State returns the current driver state.
func (s *CrawlService) State() State {
	return s.state
}

// Run crawls every parent the enumerator yields. Per-item failures are
// absorbed; a checkpoint failure or context cancellation stops the run and is
// returned together with the partial result.
func (s *CrawlService) Run(ctx context.Context, enum *Enumerator) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: s.opts.RunID}
	defer func() { result.Duration = time.Since(start) }()

	s.logger.Info("Crawl started",
		logger.Int("tropes", s.registry.Len()),
		logger.Int("relations", s.relations.Len()),
	)

	for batchNum := 1; ; batchNum++ {
		s.state = StateFetchingBatch
		batch, err := enum.NextBatch()
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}

		report, pending, err := s.processBatch(ctx, batchNum, batch)
		if err != nil {
			return result, err
		}

		s.state = StatePersisting
		s.relations.Append(pending...)
		if err := s.checkpoint(ctx, &report); err != nil {
			s.logger.Error("Checkpoint failed", logger.Int("batch", batchNum), logger.Error(err))
			return result, &CheckpointError{Batch: batchNum, Err: err}
		}

		result.Batches++
		result.Parents += report.Parents
		result.Failed += report.Failed
		result.NewTropes += report.NewTropes
		result.Tropes = report.Tropes
		result.Relations = report.Relations
		result.Checkpoints = append(result.Checkpoints, report)

		if s.opts.OnCheckpoint != nil {
			s.opts.OnCheckpoint(report)
		}
	}

	s.state = StateDone
	result.Tropes = s.registry.Len()
	result.Relations = s.relations.Len()

	s.logger.Info("Crawl finished",
		logger.Int("batches", result.Batches),
		logger.Int("parents", result.Parents),
		logger.Int("failed", result.Failed),
		logger.Int("tropes", result.Tropes),
		logger.Int("relations", result.Relations),
	)
	return result, nil
}

// processBatch crawls one batch and returns the relation rows it produced.
// Only context cancellation is returned as an error.
func (s *CrawlService) processBatch(ctx context.Context, batchNum int, batch []entities.Parent) (CheckpointReport, []entities.Relation, error) {
	report := CheckpointReport{Batch: batchNum, Parents: len(batch)}
	var pending []entities.Relation

	s.logger.Info("Processing batch", logger.Int("batch", batchNum), logger.Int("parents", len(batch)))

	for _, parent := range batch {
		page := s.fetcher.Fetch(ctx, parent.Locator)
		if err := ctx.Err(); err != nil {
			return report, nil, err
		}

		if page.Failed() {
			report.Failed++
			s.logger.Debug("Parent skipped",
				logger.String("parent_id", parent.ID),
				logger.String("locator", parent.Locator),
				logger.Error(page.Err),
			)
		} else {
			for _, name := range s.extractor.Extract(page.Content) {
				id, created := s.registry.Resolve(name)
				if created {
					report.NewTropes++
				}
				pending = append(pending, entities.Relation{ParentID: parent.ID, TropeID: id})
			}
		}

		if err := s.pacer.ItemPause(ctx); err != nil {
			return report, nil, err
		}
	}

	report.Rows = len(pending)
	return report, pending, nil
}

// checkpoint writes the full registry and relation table.
func (s *CrawlService) checkpoint(ctx context.Context, report *CheckpointReport) error {
	if s.opts.DedupeRelations {
		if removed := s.relations.Dedupe(); removed > 0 {
			s.logger.Debug("Dropped duplicate relations", logger.Int("removed", removed))
		}
	}

	snap := &entities.Snapshot{
		Tropes:    s.registry.Tropes(),
		Relations: s.relations.Rows(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return err
	}

	report.Tropes = len(snap.Tropes)
	report.Relations = len(snap.Relations)

	s.logger.Info("Checkpoint written",
		logger.Int("batch", report.Batch),
		logger.Int("parents", report.Parents),
		logger.Int("failed", report.Failed),
		logger.Int("tropes", report.Tropes),
		logger.Int("relations", report.Relations),
	)
	return nil
}
