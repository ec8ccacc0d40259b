package handlers

import (
	"fmt"

	"github.com/ersonp/trope-crawler/internal/infrastructure/config"
)

// InitHandler writes the default configuration.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath  string
	CatalogPath string
	Backend     string
}

// Handle creates .tropes/config.yaml under basePath.
func (h *InitHandler) Handle(basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("tropes already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &InitResult{
		ConfigPath:  config.ConfigFilePath(basePath),
		CatalogPath: cfg.Catalog.Path,
		Backend:     cfg.Output.Backend,
	}, nil
}
