package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ersonp/trope-crawler/internal/application/handlers"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
	"github.com/ersonp/trope-crawler/internal/domain/services"
	chromedpbrowser "github.com/ersonp/trope-crawler/internal/infrastructure/browser/chromedp"
	collybrowser "github.com/ersonp/trope-crawler/internal/infrastructure/browser/colly"
	"github.com/ersonp/trope-crawler/internal/infrastructure/config"
	"github.com/ersonp/trope-crawler/internal/infrastructure/extractor/goquery"
	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
	"github.com/ersonp/trope-crawler/internal/infrastructure/pacing"
	csvstore "github.com/ersonp/trope-crawler/internal/infrastructure/storage/csv"
	"github.com/ersonp/trope-crawler/internal/infrastructure/storage/sqlite"
)

// Deps holds high-level dependencies for read-only commands.
type Deps struct {
	Config          *config.Config
	TropeHandler    *handlers.TropeHandler
	RelationHandler *handlers.RelationHandler
}

// CrawlDeps holds dependencies for a crawl run.
type CrawlDeps struct {
	Config  *config.Config
	Handler *handlers.CrawlHandler
	Logger  logger.Logger
	BaseDir string
}

// loadConfig loads the config from the working directory and applies
// overrides before validating it again.
func loadConfig(override func(*config.Config)) (string, *config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return "", nil, fmt.Errorf("loading config: %w", err)
	}

	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return "", nil, fmt.Errorf("invalid options: %w", err)
		}
	}
	return cwd, cfg, nil
}

// withDeps loads config and builds the query handlers, then calls fn.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cwd, cfg, "")
	if err != nil {
		return err
	}
	defer store.Close()

	queryService := services.NewQueryService(store)
	return fn(&Deps{
		Config:          cfg,
		TropeHandler:    handlers.NewTropeHandler(queryService),
		RelationHandler: handlers.NewRelationHandler(queryService),
	})
}

// withCrawlDeps builds the full crawl pipeline, then calls fn. The browser
// and store are closed when fn returns.
func withCrawlDeps(ctx context.Context, runID string, override func(*config.Config), fn func(*CrawlDeps) error) error {
	cwd, cfg, err := loadConfig(override)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	extractor, err := goquery.NewExtractor(goquery.Options{
		Container:  cfg.Extract.Container,
		Link:       cfg.Extract.Link,
		PathMarker: cfg.Extract.PathMarker,
	})
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}

	pacer, err := pacing.NewRandom(cfg.Crawl.Pacing(), nil)
	if err != nil {
		return fmt.Errorf("creating pacer: %w", err)
	}

	store, err := openStore(ctx, cwd, cfg, runID)
	if err != nil {
		return err
	}
	defer store.Close()

	browser, err := openBrowser(ctx, cfg)
	if err != nil {
		return err
	}
	defer browser.Close()

	fetcher := services.NewFetchService(browser, pacer, log.With(logger.String("run_id", runID)), services.FetchOptions{
		ScrollStep:      cfg.Crawl.ScrollStep,
		NavigateTimeout: cfg.Browser.NavigateTimeout,
	})

	return fn(&CrawlDeps{
		Config:  cfg,
		Handler: handlers.NewCrawlHandler(fetcher, extractor, pacer, store, log),
		Logger:  log,
		BaseDir: cwd,
	})
}

// openStore opens the configured checkpoint backend.
func openStore(ctx context.Context, cwd string, cfg *config.Config, runID string) (ports.CheckpointStore, error) {
	switch cfg.Output.Backend {
	case config.BackendSQLite:
		path := config.Resolve(cwd, cfg.Output.SQLitePath)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		store, err := sqlite.NewStore(ctx, sqlite.Options{Path: path, RunID: runID})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	default:
		store, err := csvstore.NewStore(
			config.Resolve(cwd, cfg.Output.TropesPath),
			config.Resolve(cwd, cfg.Output.RelationsPath),
		)
		if err != nil {
			return nil, fmt.Errorf("opening csv store: %w", err)
		}
		return store, nil
	}
}

// openBrowser starts the configured browser engine.
func openBrowser(ctx context.Context, cfg *config.Config) (ports.Browser, error) {
	switch cfg.Browser.Engine {
	case config.EngineStatic:
		return collybrowser.NewSession(collybrowser.Options{
			UserAgent:      cfg.Browser.UserAgent,
			RequestTimeout: cfg.Browser.NavigateTimeout,
		}), nil
	default:
		session, err := chromedpbrowser.NewSession(ctx, chromedpbrowser.Options{
			Headless:  cfg.Browser.Headless,
			UserAgent: cfg.Browser.UserAgent,
			ExecPath:  cfg.Browser.ExecPath,
		})
		if err != nil {
			return nil, fmt.Errorf("starting browser: %w", err)
		}
		return session, nil
	}
}
