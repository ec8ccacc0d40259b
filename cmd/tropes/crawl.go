package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ersonp/trope-crawler/internal/application/handlers"
	"github.com/ersonp/trope-crawler/internal/domain/services"
	"github.com/ersonp/trope-crawler/internal/infrastructure/config"
)

type crawlFlags struct {
	cap             int
	batchSize       int
	catalog         string
	engine          string
	backend         string
	dedupeRelations bool
}

func newCrawlCmd() *cobra.Command {
	var flags crawlFlags

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl movie pages and record their tropes",
		Long: `Reads the movie catalog, renders each movie page, extracts the tropes it
references and checkpoints the trope registry and relation table after every batch.

Rerunning continues the registry from the last checkpoint.

Examples:
  tropes crawl
  tropes crawl --cap 50 --batch-size 10
  tropes crawl --engine static --dedupe-relations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.cap, "cap", 0, "Maximum number of movies to crawl (default from config)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "Movies per checkpoint (default from config)")
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "Path to the movie catalog CSV")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Browser engine: chrome or static")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "Output backend: csv or sqlite")
	cmd.Flags().BoolVar(&flags.dedupeRelations, "dedupe-relations", false, "Drop repeated movie/trope rows at each checkpoint")

	return cmd
}

// apply copies set flags onto cfg.
func (f crawlFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cap") {
		cfg.Crawl.Cap = f.cap
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Crawl.BatchSize = f.batchSize
	}
	if f.catalog != "" {
		cfg.Catalog.Path = f.catalog
	}
	if f.engine != "" {
		cfg.Browser.Engine = f.engine
	}
	if f.backend != "" {
		cfg.Output.Backend = f.backend
	}
	if f.dedupeRelations {
		cfg.Output.DedupeRelations = true
	}
}

func runCrawl(cmd *cobra.Command, flags crawlFlags) error {
	ctx := cmd.Context()
	runID := uuid.NewString()
	out := cmd.OutOrStdout()

	override := func(cfg *config.Config) { flags.apply(cmd, cfg) }

	return withCrawlDeps(ctx, runID, override, func(d *CrawlDeps) error {
		fmt.Fprintf(out, "Run %s: crawling up to %d movies from %s in batches of %d\n",
			runID, d.Config.Crawl.Cap, d.Config.Catalog.Path, d.Config.Crawl.BatchSize)

		result, err := d.Handler.Handle(ctx, handlers.CrawlOptions{
			CatalogPath:     config.Resolve(d.BaseDir, d.Config.Catalog.Path),
			Cap:             d.Config.Crawl.Cap,
			BatchSize:       d.Config.Crawl.BatchSize,
			RunID:           runID,
			DedupeRelations: d.Config.Output.DedupeRelations,
			OnCheckpoint: func(r services.CheckpointReport) {
				printCheckpoint(out, r)
			},
		})
		if result != nil {
			printRunResult(out, result)
		}
		if err != nil {
			var cpErr *services.CheckpointError
			if errors.As(err, &cpErr) {
				fmt.Fprintf(out, "Stopped: batch %d could not be saved; earlier checkpoints are intact.\n", cpErr.Batch)
			}
			return err
		}
		return nil
	})
}

func printCheckpoint(w io.Writer, r services.CheckpointReport) {
	fmt.Fprintf(w, "Batch %d saved: %d movies (%d failed), %d new tropes, %d rows | totals: %d tropes, %d relations\n",
		r.Batch, r.Parents, r.Failed, r.NewTropes, r.Rows, r.Tropes, r.Relations)
}

func printRunResult(w io.Writer, r *services.RunResult) {
	fmt.Fprintf(w, "Done: %d batches, %d movies (%d failed), %d new tropes in %s\n",
		r.Batches, r.Parents, r.Failed, r.NewTropes, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Registry: %d tropes, relations: %d rows\n", r.Tropes, r.Relations)
}
