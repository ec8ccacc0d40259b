package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Trope Crawler Configuration

catalog:
  path: list_movies.csv   # or set TROPES_CATALOG

output:
  backend: csv            # csv or sqlite
  tropes_path: tropes.csv
  relations_path: movie_tropes.csv
  sqlite_path: .tropes/tropes.db
  dedupe_relations: false

crawl:
  cap: 1000
  batch_size: 100
  settle_delay: {min: 2s, max: 4s}
  scroll_count: {min: 2, max: 5}
  scroll_delay: {min: 800ms, max: 1500ms}
  item_delay: {min: 2s, max: 5s}
  scroll_step: 300

extract:
  container: div#main-article
  link: a[href*='/Main/']
  path_marker: /Main/

browser:
  engine: chrome          # chrome renders scripts, static fetches plain HTML
  headless: true
  # user_agent: ... (or set TROPES_USER_AGENT)
  navigate_timeout: 0s    # 0 waits indefinitely

logging:
  level: info             # or set TROPES_LOG_LEVEL
  development: false
  output_paths: [stderr]
`

// WriteDefault creates the .tropes directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
