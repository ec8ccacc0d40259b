// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/trope-crawler/internal/infrastructure/logger"
	"github.com/ersonp/trope-crawler/internal/infrastructure/pacing"
)

const (
	// DefaultConfigDir is the directory name for crawler configuration.
	DefaultConfigDir = ".tropes"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the SQLite file name inside the config directory.
	DefaultDatabaseFile = "tropes.db"
)

// Output backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Browser engines.
const (
	EngineChrome = "chrome"
	EngineStatic = "static"
)

// DefaultUserAgent is sent by both browser engines unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ErrNotInitialized is returned by Load when no config file exists.
var ErrNotInitialized = errors.New("config not initialized")

// Config holds static configuration (read-only after init).
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Output  OutputConfig  `yaml:"output"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	Extract ExtractConfig `yaml:"extract"`
	Browser BrowserConfig `yaml:"browser"`
	Logging logger.Config `yaml:"logging"`
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig selects where checkpoints are written.
type OutputConfig struct {
	Backend       string `yaml:"backend"`
	TropesPath    string `yaml:"tropes_path"`
	RelationsPath string `yaml:"relations_path"`
	// SQLitePath is relative to the working directory.
	SQLitePath string `yaml:"sqlite_path"`
	// DedupeRelations drops repeated (movie, trope) rows at each checkpoint.
	DedupeRelations bool `yaml:"dedupe_relations"`
}

// CrawlConfig holds the run size and pacing.
type CrawlConfig struct {
	Cap         int             `yaml:"cap"`
	BatchSize   int             `yaml:"batch_size"`
	SettleDelay pacing.Range    `yaml:"settle_delay"`
	ScrollCount pacing.IntRange `yaml:"scroll_count"`
	ScrollDelay pacing.Range    `yaml:"scroll_delay"`
	ItemDelay   pacing.Range    `yaml:"item_delay"`
	ScrollStep  int             `yaml:"scroll_step"`
}

// Pacing returns the pacing ranges as pacer options.
func (c CrawlConfig) Pacing() pacing.Options {
	return pacing.Options{
		SettleDelay: c.SettleDelay,
		ScrollCount: c.ScrollCount,
		ScrollDelay: c.ScrollDelay,
		ItemDelay:   c.ItemDelay,
	}
}

// ExtractConfig holds the selectors used to find trope references.
type ExtractConfig struct {
	Container  string `yaml:"container"`
	Link       string `yaml:"link"`
	PathMarker string `yaml:"path_marker"`
}

// BrowserConfig configures page rendering.
type BrowserConfig struct {
	Engine    string `yaml:"engine"`
	Headless  bool   `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
	ExecPath  string `yaml:"exec_path,omitempty"`
	// NavigateTimeout bounds page loads; zero waits indefinitely.
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

// Default returns a Config with default values.
func Default() *Config {
	p := pacing.DefaultOptions()
	return &Config{
		Catalog: CatalogConfig{Path: "list_movies.csv"},
		Output: OutputConfig{
			Backend:       BackendCSV,
			TropesPath:    "tropes.csv",
			RelationsPath: "movie_tropes.csv",
			SQLitePath:    filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
		},
		Crawl: CrawlConfig{
			Cap:         1000,
			BatchSize:   100,
			SettleDelay: p.SettleDelay,
			ScrollCount: p.ScrollCount,
			ScrollDelay: p.ScrollDelay,
			ItemDelay:   p.ItemDelay,
			ScrollStep:  300,
		},
		Extract: ExtractConfig{
			Container:  "div#main-article",
			Link:       "a[href*='/Main/']",
			PathMarker: "/Main/",
		},
		Browser: BrowserConfig{
			Engine:    EngineChrome,
			Headless:  true,
			UserAgent: DefaultUserAgent,
		},
		Logging: logger.Config{
			Level:       "info",
			OutputPaths: []string{"stderr"},
		},
	}
}

// Load loads configuration from the .tropes directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (run 'tropes init' first)", ErrNotInitialized, configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("TROPES_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if ua := os.Getenv("TROPES_USER_AGENT"); ua != "" {
		c.Browser.UserAgent = ua
	}
	if path := os.Getenv("TROPES_CATALOG"); path != "" {
		c.Catalog.Path = path
	}
}

// Validate checks values that would otherwise fail mid-run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path is required")
	}
	if c.Crawl.Cap < 1 {
		return fmt.Errorf("crawl.cap must be at least 1, got %d", c.Crawl.Cap)
	}
	if c.Crawl.BatchSize < 1 {
		return fmt.Errorf("crawl.batch_size must be at least 1, got %d", c.Crawl.BatchSize)
	}
	if c.Crawl.ScrollStep < 0 {
		return fmt.Errorf("crawl.scroll_step must not be negative, got %d", c.Crawl.ScrollStep)
	}
	if err := c.Crawl.Pacing().Validate(); err != nil {
		return fmt.Errorf("crawl.%w", err)
	}

	switch c.Output.Backend {
	case BackendCSV:
		if c.Output.TropesPath == "" || c.Output.RelationsPath == "" {
			return errors.New("output.tropes_path and output.relations_path are required for the csv backend")
		}
	case BackendSQLite:
		if c.Output.SQLitePath == "" {
			return errors.New("output.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown output.backend %q (want %s or %s)", c.Output.Backend, BackendCSV, BackendSQLite)
	}

	switch c.Browser.Engine {
	case EngineChrome, EngineStatic:
	default:
		return fmt.Errorf("unknown browser.engine %q (want %s or %s)", c.Browser.Engine, EngineChrome, EngineStatic)
	}
	if c.Browser.NavigateTimeout < 0 {
		return errors.New("browser.navigate_timeout must not be negative")
	}
	return nil
}

// ConfigDir returns the path to the .tropes config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Resolve joins a configured path onto basePath unless it is absolute.
func Resolve(basePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// Exists checks if a config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
