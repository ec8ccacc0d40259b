package handlers

import (
	"context"

	"github.com/ersonp/trope-crawler/internal/domain/services"
)

// TropeHandler handles read-only trope queries.
type TropeHandler struct {
	service *services.QueryService
}

// NewTropeHandler creates a new TropeHandler.
func NewTropeHandler(service *services.QueryService) *TropeHandler {
	return &TropeHandler{service: service}
}

// TropeListResult contains the result of listing tropes.
type TropeListResult struct {
	Tropes []services.TropeSummary `json:"tropes"`
	Total  int                     `json:"total"`
}

// HandleList returns tropes whose name contains search.
func (h *TropeHandler) HandleList(ctx context.Context, search string, limit int) (*TropeListResult, error) {
	tropes, total, err := h.service.List(ctx, search, limit)
	if err != nil {
		return nil, err
	}
	return &TropeListResult{Tropes: tropes, Total: total}, nil
}

// HandleTop returns the most referenced tropes.
func (h *TropeHandler) HandleTop(ctx context.Context, n int) (*TropeListResult, error) {
	tropes, err := h.service.Top(ctx, n)
	if err != nil {
		return nil, err
	}
	return &TropeListResult{Tropes: tropes, Total: len(tropes)}, nil
}

// HandleStats returns counts over the persisted output.
func (h *TropeHandler) HandleStats(ctx context.Context, recent int) (*services.Stats, error) {
	return h.service.Stats(ctx, recent)
}
