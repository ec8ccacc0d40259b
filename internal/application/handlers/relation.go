package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/services"
)

// RelationHandler handles movie/trope relation lookups.
type RelationHandler struct {
	service *services.QueryService
}

// NewRelationHandler creates a new RelationHandler.
func NewRelationHandler(service *services.QueryService) *RelationHandler {
	return &RelationHandler{service: service}
}

// RelationResult lists the tropes referenced by one movie.
type RelationResult struct {
	MovieID string           `json:"movie_id"`
	Tropes  []entities.Trope `json:"tropes"`
}

// Handle returns the distinct tropes of movieID.
func (h *RelationHandler) Handle(ctx context.Context, movieID string) (*RelationResult, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, errors.New("movie id is required")
	}

	tropes, err := h.service.ForMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return &RelationResult{MovieID: movieID, Tropes: tropes}, nil
}
